package schema

import (
	"sort"

	"db-fill/internal/dialect"
)

// ColumnsMatch reports whether two field lists describe the same physical
// shape. Order of declaration and constraints are ignored: both lists are
// sorted by name and compared on (name, type) pairs.
func ColumnsMatch(existing, desired []Field) bool {
	if len(existing) != len(desired) {
		return false
	}
	a := sortedByName(existing)
	b := sortedByName(desired)
	for i := range a {
		if a[i].Name != b[i].Name || a[i].Type != b[i].Type {
			return false
		}
	}
	return true
}

func sortedByName(fields []Field) []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// StoredShape projects desired fields onto what the catalog of d reports
// once the table is created: email and multistring come back as text, and
// names follow the dialect's identifier folding.
func StoredShape(d dialect.Dialect, fields []Field) []Field {
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = Field{
			Name:        d.NormalizeIdentifier(f.Name),
			Type:        FieldTypeFromPhysical(d.NormalizeType(d.ColumnType(PhysicalType(f.Type)))),
			Constraints: f.Constraints,
		}
	}
	return out
}
