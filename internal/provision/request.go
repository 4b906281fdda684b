package provision

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"db-fill/internal/schema"

	"github.com/go-playground/validator/v10"
)

// DefaultRowNumber is used when a request does not say how many rows to write.
const DefaultRowNumber = 10

// Request describes the table to provision and the rows to generate.
type Request struct {
	TableName          string         `json:"table_name" yaml:"table_name" validate:"required,sqlident"`
	RowNumber          int            `json:"row_number" yaml:"row_number" validate:"gte=0"`
	Fields             []schema.Field `json:"fields" yaml:"fields" validate:"required,min=1,unique=Name,dive"`
	ForceRecreateTable bool           `json:"force_recreate_table" yaml:"force_recreate_table"`
}

// NewRequest returns a Request carrying the defaults; decode payloads into it.
func NewRequest() Request {
	return Request{RowNumber: DefaultRowNumber}
}

// Result reports the outcome of a successful provisioning.
type Result struct {
	Inserted     int `json:"inserted"`
	TotalInTable int `json:"total_in_table"`
}

var ErrInvalidRequest = errors.New("invalid request")

// Table and column names are interpolated into statements, so they are
// restricted to plain identifiers.
var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsIdentifier reports whether s may be used as a table or column name.
func IsIdentifier(s string) bool { return identRe.MatchString(s) }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("sqlident", func(fl validator.FieldLevel) bool {
		return IsIdentifier(fl.Field().String())
	})
	return v
}

// ValidateLimit is Validate plus a ceiling on RowNumber; maxRows <= 0
// disables the ceiling.
func (r Request) ValidateLimit(maxRows int) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if maxRows > 0 && r.RowNumber > maxRows {
		return fmt.Errorf("%w: Request.RowNumber %d exceeds the limit of %d", ErrInvalidRequest, r.RowNumber, maxRows)
	}
	return nil
}

// Validate checks the request at the boundary, before any statement is built.
func (r Request) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Namespace())
	case "sqlident":
		return fmt.Sprintf("%s %q is not a valid identifier", fe.Namespace(), fe.Value())
	case "unique":
		return fmt.Sprintf("%s must have unique names", fe.Namespace())
	case "min":
		return fmt.Sprintf("%s needs at least %s item(s)", fe.Namespace(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s %v must be one of [%s]", fe.Namespace(), fe.Value(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag())
	}
}
