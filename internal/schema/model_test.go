package schema_test

import (
	"encoding/json"
	"testing"

	"db-fill/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseFieldType_Synonyms(t *testing.T) {
	testCases := []struct {
		input    string
		expected schema.FieldType
	}{
		{"string", schema.TypeText},
		{"varchar", schema.TypeText},
		{"text", schema.TypeText},
		{"TEXT", schema.TypeText},
		{"int", schema.TypeInteger},
		{"integer", schema.TypeInteger},
		{"multistring", schema.TypeMultiString},
		{"email", schema.TypeEmail},
		{"date", schema.TypeDate},
		{"float", schema.TypeFloat},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := schema.ParseFieldType(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestParseFieldType_Unknown(t *testing.T) {
	_, err := schema.ParseFieldType("unknown_type")
	assert.ErrorIs(t, err, schema.ErrUnknownFieldType)
}

func TestParseConstraint(t *testing.T) {
	c, err := schema.ParseConstraint("not null")
	require.NoError(t, err)
	assert.Equal(t, schema.ConstraintNotNull, c)

	_, err = schema.ParseConstraint("unknown_constraint")
	assert.ErrorIs(t, err, schema.ErrUnknownConstraint)
}

func TestField_UnmarshalJSON(t *testing.T) {
	var f schema.Field
	err := json.Unmarshal([]byte(`{"name":"username","type":"varchar","constraints":["unique","not null"]}`), &f)
	require.NoError(t, err)
	assert.Equal(t, schema.Field{
		Name:        "username",
		Type:        schema.TypeText,
		Constraints: []schema.ConstraintType{schema.ConstraintUnique, schema.ConstraintNotNull},
	}, f)

	err = json.Unmarshal([]byte(`{"name":"email","type":"unknown_type"}`), &f)
	assert.ErrorIs(t, err, schema.ErrUnknownFieldType)

	err = json.Unmarshal([]byte(`{"name":"email","type":"email","constraints":["unknown_constraint"]}`), &f)
	assert.ErrorIs(t, err, schema.ErrUnknownConstraint)
}

func TestField_UnmarshalYAML(t *testing.T) {
	var fields []schema.Field
	err := yaml.Unmarshal([]byte("- name: id\n  type: int\n  constraints: [primary]\n"), &fields)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, schema.TypeInteger, fields[0].Type)
	assert.True(t, fields[0].IsPrimary())
	assert.True(t, fields[0].IsUnique())
	assert.True(t, fields[0].IsNotNull())
}

func TestParseFieldSpec(t *testing.T) {
	f, err := schema.ParseFieldSpec("id:int:primary,unique")
	require.NoError(t, err)
	assert.Equal(t, "id", f.Name)
	assert.Equal(t, schema.TypeInteger, f.Type)
	assert.Equal(t, []schema.ConstraintType{schema.ConstraintPrimary, schema.ConstraintUnique}, f.Constraints)

	f, err = schema.ParseFieldSpec("bio:multistring")
	require.NoError(t, err)
	assert.Empty(t, f.Constraints)

	_, err = schema.ParseFieldSpec("nameonly")
	assert.Error(t, err)
	_, err = schema.ParseFieldSpec("x:blob")
	assert.ErrorIs(t, err, schema.ErrUnknownFieldType)
}
