package schema

import "errors"

var (
	// ErrEmptyFields is returned by every builder given an empty field list.
	ErrEmptyFields       = errors.New("no fields provided")
	ErrUnknownFieldType  = errors.New("unknown field type")
	ErrUnknownConstraint = errors.New("unknown constraint")
)
