package engine

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"db-fill/internal/schema"

	"github.com/brianvoe/gofakeit/v6"
)

const (
	minNumber = 1
	maxNumber = 1_000_000_000

	minWords = 2
	maxWords = 30

	// DefaultMaxAttempts bounds constraint repair for one value.
	DefaultMaxAttempts = 10_000

	// DefaultMaxRows bounds one batch; the whole batch is held in memory.
	DefaultMaxRows = 1_000_000

	preallocRows = 1024
)

var (
	ErrConstraintUnsatisfiable = errors.New("constraint cannot be satisfied")
	ErrTooManyRows             = errors.New("row count exceeds limit")
)

// Provider is the fake data source values are drawn from.
type Provider interface {
	Word() string
	Words(n int) []string
	Email() string
	Date() string
	Number(min, max int) int
	Float(min, max float64) float64
}

// FakeProvider backs Provider with gofakeit.
type FakeProvider struct {
	faker *gofakeit.Faker
}

// NewFakeProvider returns a provider seeded with seed; 0 picks a random seed.
func NewFakeProvider(seed int64) *FakeProvider {
	return &FakeProvider{faker: gofakeit.New(seed)}
}

func (p *FakeProvider) Word() string { return p.faker.Word() }

func (p *FakeProvider) Words(n int) []string {
	words := make([]string, n)
	for i := range words {
		words[i] = p.faker.Word()
	}
	return words
}

func (p *FakeProvider) Email() string { return p.faker.Email() }

func (p *FakeProvider) Date() string { return p.faker.Date().Format("2006-01-02") }

func (p *FakeProvider) Number(min, max int) int { return p.faker.Number(min, max) }

func (p *FakeProvider) Float(min, max float64) float64 { return p.faker.Float64Range(min, max) }

// GenerateSingleValue draws one value of type t.
func GenerateSingleValue(t schema.FieldType, p Provider) any {
	switch t {
	case schema.TypeInteger:
		return p.Number(minNumber, maxNumber)
	case schema.TypeEmail:
		return p.Email()
	case schema.TypeDate:
		return p.Date()
	case schema.TypeFloat:
		return math.Round(p.Float(minNumber, maxNumber)*100) / 100
	case schema.TypeMultiString:
		return strings.Join(p.Words(p.Number(minWords, maxWords)), " ")
	default:
		return p.Word()
	}
}

// Row holds one generated value per field, in field order.
type Row []any

// Generator produces rows that honor the declared constraints.
type Generator struct {
	Provider    Provider
	MaxAttempts int // per value; 0 means unbounded
	MaxRows     int // per batch; 0 means unbounded

	value func(schema.FieldType) any
}

func NewGenerator(p Provider) *Generator {
	return &Generator{Provider: p, MaxAttempts: DefaultMaxAttempts, MaxRows: DefaultMaxRows}
}

func (g *Generator) next(t schema.FieldType) any {
	if g.value != nil {
		return g.value(t)
	}
	return GenerateSingleValue(t, g.Provider)
}

// GenerateValues returns rowCount rows for fields. Values of unique and
// primary fields are distinct within the returned batch only; rows already
// stored in the table are not consulted.
func (g *Generator) GenerateValues(fields []schema.Field, rowCount int) ([]Row, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w for value generation", schema.ErrEmptyFields)
	}
	if rowCount < 0 {
		rowCount = 0
	}
	if g.MaxRows > 0 && rowCount > g.MaxRows {
		return nil, fmt.Errorf("%w: %d requested, at most %d", ErrTooManyRows, rowCount, g.MaxRows)
	}

	used := make(map[string]map[any]struct{})
	for _, f := range fields {
		if f.IsUnique() {
			used[f.Name] = make(map[any]struct{})
		}
	}

	rows := make([]Row, 0, min(rowCount, preallocRows))
	for i := 0; i < rowCount; i++ {
		row := make(Row, len(fields))
		for j, f := range fields {
			v, err := g.valueFor(f, used[f.Name])
			if err != nil {
				return nil, err
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (g *Generator) valueFor(f schema.Field, used map[any]struct{}) (any, error) {
	v := g.next(f.Type)
	attempts := 1

	if f.IsNotNull() {
		for v == nil {
			if g.exhausted(attempts) {
				return nil, fmt.Errorf("%w: field %s stays null after %d attempts", ErrConstraintUnsatisfiable, f.Name, attempts)
			}
			v = g.next(f.Type)
			attempts++
		}
	}

	if used != nil {
		for {
			if _, dup := used[v]; !dup {
				break
			}
			if g.exhausted(attempts) {
				return nil, fmt.Errorf("%w: no unused value for field %s after %d attempts", ErrConstraintUnsatisfiable, f.Name, attempts)
			}
			v = g.next(f.Type)
			attempts++
		}
		used[v] = struct{}{}
	}
	return v, nil
}

func (g *Generator) exhausted(attempts int) bool {
	return g.MaxAttempts > 0 && attempts >= g.MaxAttempts
}
