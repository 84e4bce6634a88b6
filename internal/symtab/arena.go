package symtab

import (
	"fmt"
	"sort"
	"sync"

	"github.com/openmpp/ompp-core/internal/diag"
)

// Arena is the symbol table proper: a mutex-guarded map from
// unique_name to a stable *Symbol slot (spec.md §3.1, §4.1's "morph in
// place, preserving identity" requirement). The RWMutex-guarded-map
// shape is grounded on services/trace/ast/parser.go's ParserRegistry
// (write lock on Register, read lock on lookup), repurposed here to
// key on symbol unique_name instead of language/extension and to
// morph entries in place rather than reject re-registration.
type Arena struct {
	mu      sync.RWMutex
	symbols map[string]*Symbol
	order   []string // insertion order, for deterministic iteration
}

// NewArena creates an empty symbol table.
func NewArena() *Arena {
	return &Arena{symbols: make(map[string]*Symbol)}
}

// GetOrCreate returns the existing symbol for uniqueName, or creates a
// KindBase placeholder at loc if none exists yet. This is the "forward
// reference creates a placeholder" half of the lifecycle (spec.md
// §3.1, pass eCreateMissingSymbols).
func (a *Arena) GetOrCreate(uniqueName string, loc diag.Location) *Symbol {
	a.mu.Lock()
	defer a.mu.Unlock()

	if s, ok := a.symbols[uniqueName]; ok {
		return s
	}
	s := &Symbol{
		UniqueName:        uniqueName,
		Kind:              KindBase,
		Loc:               loc,
		Labels:            make(map[string]Label),
		Notes:             make(map[string]Label),
		ReferencedByFuncs: make(map[string]bool),
		MemberOfGroups:    make(map[string]bool),
	}
	a.symbols[uniqueName] = s
	a.order = append(a.order, uniqueName)
	return s
}

// Find returns the symbol for uniqueName, or nil if it has never been
// referenced.
func (a *Arena) Find(uniqueName string) *Symbol {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.symbols[uniqueName]
}

// Morph transitions a placeholder to a concrete kind, preserving the
// slot's identity (spec.md §4.1: "resolved in place... never by
// replacing the object"). Morphing a symbol that is already a
// different concrete kind is a caller error — each unique_name is
// declared by exactly one construct.
func (a *Arena) Morph(uniqueName string, kind Kind, loc diag.Location) (*Symbol, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, ok := a.symbols[uniqueName]
	if !ok {
		return nil, fmt.Errorf("cannot morph unknown symbol %q", uniqueName)
	}
	if s.Kind != KindBase && s.Kind != kind {
		return nil, fmt.Errorf("symbol %q already declared as %s, cannot redeclare as %s", uniqueName, s.Kind, kind)
	}
	s.Kind = kind
	if s.Loc == (diag.Location{}) {
		s.Loc = loc
	}
	return s, nil
}

// All returns every symbol in insertion order, for passes that must
// visit the whole table deterministically (spec.md §4.2's fixed pass
// order depends on stable iteration for reproducible diagnostics).
func (a *Arena) All() []*Symbol {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]*Symbol, len(a.order))
	for i, name := range a.order {
		out[i] = a.symbols[name]
	}
	return out
}

// AllOfKind returns every symbol of the given kind, in unique_name
// sorted order (used by the metadata builder for stable row
// generation, spec.md §6).
func (a *Arena) AllOfKind(kind Kind) []*Symbol {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var out []*Symbol
	for _, name := range a.order {
		if s := a.symbols[name]; s.Kind == kind {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UniqueName < out[j].UniqueName })
	return out
}

// Placeholders returns every symbol still in KindBase state, i.e. the
// unresolved forward references that eCreateMissingSymbols must reject
// or finalize (spec.md §4.2, pass 1).
func (a *Arena) Placeholders() []*Symbol {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var out []*Symbol
	for _, name := range a.order {
		if s := a.symbols[name]; s.IsPlaceholder() {
			out = append(out, s)
		}
	}
	return out
}

// Len reports the total number of symbols in the arena.
func (a *Arena) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.symbols)
}
