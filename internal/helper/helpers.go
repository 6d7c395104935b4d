package helper

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrUnexpectedType is returned when a value does not have the requested type.
var ErrUnexpectedType = errors.New("unexpected type")

// GetTypedValueOf asserts v to the expected type T.
// Returns an error wrapping ErrUnexpectedType if the assertion fails.
func GetTypedValueOf[T any](v any) (T, error) {
	val, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %T is not %v", ErrUnexpectedType, v, reflect.TypeFor[T]())
	}
	return val, nil
}

// MustGetTypedValue is the panic-on-failure variant of GetTypedValueOf.
// Use when failure should be fatal (e.g., an environment that was promised to
// satisfy a narrower requirement).
func MustGetTypedValue[T any](v any) T {
	res, err := GetTypedValueOf[T](v)
	if err != nil {
		panic(err)
	}
	return res
}
