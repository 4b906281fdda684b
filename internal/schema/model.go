package schema

import (
	"fmt"
	"strings"
)

// FieldType is the logical type of a requested column.
type FieldType string

const (
	TypeText        FieldType = "text"
	TypeMultiString FieldType = "multistring" // several words
	TypeInteger     FieldType = "integer"
	TypeEmail       FieldType = "email"
	TypeDate        FieldType = "date"
	TypeFloat       FieldType = "float"

	// TypeUnknown is only produced when reading back a physical column whose
	// type has no logical counterpart. It never matches a requested type.
	TypeUnknown FieldType = "unknown"
)

var fieldTypeSynonyms = map[string]FieldType{
	"string":      TypeText,
	"varchar":     TypeText,
	"text":        TypeText,
	"int":         TypeInteger,
	"integer":     TypeInteger,
	"multistring": TypeMultiString,
	"email":       TypeEmail,
	"date":        TypeDate,
	"float":       TypeFloat,
}

// ParseFieldType resolves an input literal, synonyms included, to its
// canonical FieldType.
func ParseFieldType(s string) (FieldType, error) {
	if t, ok := fieldTypeSynonyms[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFieldType, s)
}

func (t *FieldType) UnmarshalText(b []byte) error {
	parsed, err := ParseFieldType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t FieldType) String() string { return string(t) }

// ConstraintType is a column constraint a field may declare.
type ConstraintType string

const (
	ConstraintNotNull ConstraintType = "not_null"
	ConstraintUnique  ConstraintType = "unique"
	ConstraintPrimary ConstraintType = "primary"
)

func ParseConstraint(s string) (ConstraintType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "not_null", "not null":
		return ConstraintNotNull, nil
	case "unique":
		return ConstraintUnique, nil
	case "primary":
		return ConstraintPrimary, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownConstraint, s)
	}
}

func (c *ConstraintType) UnmarshalText(b []byte) error {
	parsed, err := ParseConstraint(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Field describes one desired (or existing) column.
type Field struct {
	Name        string           `json:"name" yaml:"name" validate:"required,sqlident"`
	Type        FieldType        `json:"type" yaml:"type" validate:"required,oneof=text multistring integer email date float"`
	Constraints []ConstraintType `json:"constraints,omitempty" yaml:"constraints,omitempty" validate:"dive,oneof=not_null unique primary"`
}

func (f Field) Has(c ConstraintType) bool {
	for _, have := range f.Constraints {
		if have == c {
			return true
		}
	}
	return false
}

func (f Field) IsPrimary() bool { return f.Has(ConstraintPrimary) }

// IsUnique reports whether values must be distinct within a batch.
func (f Field) IsUnique() bool { return f.Has(ConstraintUnique) || f.IsPrimary() }

// IsNotNull reports whether a nil value must be regenerated.
func (f Field) IsNotNull() bool { return f.Has(ConstraintNotNull) || f.IsPrimary() }

// ParseFieldSpec parses the CLI shorthand name:type[:constraint,constraint].
func ParseFieldSpec(spec string) (Field, error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" {
		return Field{}, fmt.Errorf("invalid field %q: expected name:type[:constraints]", spec)
	}
	t, err := ParseFieldType(parts[1])
	if err != nil {
		return Field{}, fmt.Errorf("invalid field %q: %w", spec, err)
	}
	f := Field{Name: strings.TrimSpace(parts[0]), Type: t}
	if len(parts) == 3 && parts[2] != "" {
		for _, raw := range strings.Split(parts[2], ",") {
			c, err := ParseConstraint(raw)
			if err != nil {
				return Field{}, fmt.Errorf("invalid field %q: %w", spec, err)
			}
			f.Constraints = append(f.Constraints, c)
		}
	}
	return f, nil
}
