package voc

import (
	"errors"
	"fmt"
)

// Sentinel errors for encode and decode failures.
var (
	ErrMissingField           = errors.New("missing required document field")
	ErrParse                  = errors.New("malformed annotation XML")
	ErrMissingRequiredElement = errors.New("missing required object element")
	ErrMalformedGeometry      = errors.New("malformed geometry")
	ErrUnsupportedShape       = errors.New("shape kind cannot be encoded")
	ErrNotAnnotationFile      = errors.New("not an annotation file")
)

// ObjectError reports a failure tied to one <object> element.
type ObjectError struct {
	// Index is the 0-based position of the object among the root's <object> children.
	Index int

	// Element names the child element that caused the failure, if any.
	Element string

	Err error
}

func (e *ObjectError) Error() string {
	if e.Element == "" {
		return fmt.Sprintf("object %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("object %d: <%s>: %v", e.Index, e.Element, e.Err)
}

func (e *ObjectError) Unwrap() error {
	return e.Err
}
