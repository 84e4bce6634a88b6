package metadb

import "gorm.io/gorm"

// Insert persists every row family of a Holder inside one transaction,
// the same closure-scoped-transaction idiom as
// services/trace/agent/mcts/crs/journal.go's `db.WithTxn(ctx,
// func(txn) error {...})` — a multi-step mutation wrapped in a single
// rollback-on-error unit — adapted from badger's transaction closure
// to gorm's.
func Insert(db *gorm.DB, h *Holder) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&h.Model).Error; err != nil {
			return err
		}
		if len(h.ModelTxt) > 0 {
			if err := tx.Create(&h.ModelTxt).Error; err != nil {
				return err
			}
		}
		if len(h.Types) > 0 {
			if err := tx.Create(&h.Types).Error; err != nil {
				return err
			}
		}
		if len(h.TypeTxt) > 0 {
			if err := tx.Create(&h.TypeTxt).Error; err != nil {
				return err
			}
		}
		if len(h.Enums) > 0 {
			if err := tx.Create(&h.Enums).Error; err != nil {
				return err
			}
		}
		if len(h.EnumTxt) > 0 {
			if err := tx.Create(&h.EnumTxt).Error; err != nil {
				return err
			}
		}
		if len(h.Params) > 0 {
			if err := tx.Create(&h.Params).Error; err != nil {
				return err
			}
		}
		if len(h.ParamTxt) > 0 {
			if err := tx.Create(&h.ParamTxt).Error; err != nil {
				return err
			}
		}
		if len(h.ParamDims) > 0 {
			if err := tx.Create(&h.ParamDims).Error; err != nil {
				return err
			}
		}
		if len(h.Tables) > 0 {
			if err := tx.Create(&h.Tables).Error; err != nil {
				return err
			}
		}
		if len(h.TableTxt) > 0 {
			if err := tx.Create(&h.TableTxt).Error; err != nil {
				return err
			}
		}
		if len(h.TableDims) > 0 {
			if err := tx.Create(&h.TableDims).Error; err != nil {
				return err
			}
		}
		if len(h.TableAcc) > 0 {
			if err := tx.Create(&h.TableAcc).Error; err != nil {
				return err
			}
		}
		if len(h.TableExpr) > 0 {
			if err := tx.Create(&h.TableExpr).Error; err != nil {
				return err
			}
		}
		if len(h.Entities) > 0 {
			if err := tx.Create(&h.Entities).Error; err != nil {
				return err
			}
		}
		if len(h.EntityAttr) > 0 {
			if err := tx.Create(&h.EntityAttr).Error; err != nil {
				return err
			}
		}
		if len(h.Groups) > 0 {
			if err := tx.Create(&h.Groups).Error; err != nil {
				return err
			}
		}
		if len(h.GroupPc) > 0 {
			if err := tx.Create(&h.GroupPc).Error; err != nil {
				return err
			}
		}
		if len(h.GroupTxt) > 0 {
			if err := tx.Create(&h.GroupTxt).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(&h.Workset).Error; err != nil {
			return err
		}
		if len(h.WorksetParams) > 0 {
			if err := tx.Create(&h.WorksetParams).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
