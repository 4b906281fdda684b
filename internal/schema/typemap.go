package schema

import "strings"

// PhysicalType maps a logical type to its canonical column type token.
func PhysicalType(t FieldType) string {
	switch t {
	case TypeInteger:
		return "INTEGER"
	case TypeDate:
		return "DATE"
	case TypeFloat:
		return "REAL"
	case TypeText, TypeMultiString, TypeEmail:
		return "TEXT"
	default:
		return "TEXT"
	}
}

// FieldTypeFromPhysical maps a catalog data type, already normalized by the
// dialect, back to a logical type.
func FieldTypeFromPhysical(dataType string) FieldType {
	t := strings.ToLower(strings.TrimSpace(dataType))
	switch t {
	case "integer", "int", "bigint", "smallint", "tinyint", "number", "serial", "bigserial":
		return TypeInteger
	case "real", "float", "double", "numeric", "decimal":
		return TypeFloat
	case "date":
		return TypeDate
	case "text", "varchar", "char", "string", "clob":
		return TypeText
	}
	// Dialects that were not normalized still report these families.
	switch {
	case strings.HasPrefix(t, "int"):
		return TypeInteger
	case strings.HasPrefix(t, "float"), strings.HasPrefix(t, "double"):
		return TypeFloat
	case strings.Contains(t, "char"), strings.Contains(t, "text"):
		return TypeText
	}
	return TypeUnknown
}
