package metadb

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/openmpp/ompp-core/internal/symtab"
)

// Digest computes the stable content digest spec.md §4.4 requires:
// "unaffected by symbol allocation order, source-file order, or
// non-metadata-visible internal state". It hashes a canonical,
// sorted-field text representation rather than any in-memory layout.
func Digest(fields ...string) string {
	sorted := append([]string(nil), fields...)
	sort.Strings(sorted)
	h := sha256.Sum256([]byte(strings.Join(sorted, "\x1f")))
	return hex.EncodeToString(h[:])
}

// TypeDigest computes an enumeration type's digest from its
// metadata-visible fields: name and enumerator names in ordinal order
// (order is metadata-visible here, unlike allocation order, since it
// determines the enumerator rows downstream tools read).
func TypeDigest(s *symtab.Symbol) string {
	if s.Enumeration == nil {
		return Digest(s.UniqueName)
	}
	fields := append([]string{s.UniqueName}, s.Enumeration.Enumerators...)
	h := sha256.New()
	for _, f := range fields {
		h.Write([]byte(f))
		h.Write([]byte{0x1f})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ParamDigest computes a parameter's digest from name, dimension list,
// and datatype.
func ParamDigest(s *symtab.Symbol) string {
	if s.Parameter == nil {
		return Digest(s.UniqueName)
	}
	h := sha256.New()
	h.Write([]byte(s.UniqueName))
	h.Write([]byte{0x1f})
	h.Write([]byte(s.Parameter.Datatype))
	for _, d := range s.Parameter.Dimensions {
		h.Write([]byte{0x1f})
		h.Write([]byte(d))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// TableDigest computes a table's digest from name, dimensions,
// accumulators, and measures — its metadata-visible shape.
func TableDigest(s *symtab.Symbol) string {
	if s.Table == nil {
		return Digest(s.UniqueName)
	}
	h := sha256.New()
	h.Write([]byte(s.UniqueName))
	for _, d := range s.Table.Dimensions {
		h.Write([]byte{0x1f})
		h.Write([]byte(d))
	}
	for _, a := range s.Table.Accumulators {
		h.Write([]byte{0x1f, 'A'})
		h.Write([]byte(a))
	}
	for _, m := range s.Table.Measures {
		h.Write([]byte{0x1f, 'M'})
		h.Write([]byte(m))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ModelDigest combines every type/parameter/table digest into one
// whole-model digest, in unique_name sorted order so that member
// insertion order never perturbs the result.
func ModelDigest(typeDigests, paramDigests, tableDigests map[string]string) string {
	var all []string
	for name, d := range typeDigests {
		all = append(all, "T:"+name+"="+d)
	}
	for name, d := range paramDigests {
		all = append(all, "P:"+name+"="+d)
	}
	for name, d := range tableDigests {
		all = append(all, "A:"+name+"="+d)
	}
	sort.Strings(all)
	h := sha256.Sum256([]byte(strings.Join(all, "\n")))
	return hex.EncodeToString(h[:])
}
