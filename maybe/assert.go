package maybe

import "fmt"

// DefaultAssertionMessage is used when an assertion is made without a message.
const DefaultAssertionMessage = "Assertion failed"

// AssertionError is the panic value raised by failed assertions.
// Cause holds whatever made the assertion fail, if anything.
type AssertionError struct {
	Message string
	Cause   any
}

// NewAssertionError returns an *AssertionError with message as given.
func NewAssertionError(message string, cause any) *AssertionError {
	return &AssertionError{Message: message, Cause: cause}
}

func (e *AssertionError) Error() string {
	return e.Message
}

// Unwrap exposes Cause to errors.Is and errors.As when it is an error.
func (e *AssertionError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}

// Format prints the cause along with the message under %+v.
func (e *AssertionError) Format(f fmt.State, verb rune) {
	if verb == 'v' && f.Flag('+') && e.Cause != nil {
		fmt.Fprintf(f, "%s: %v", e.Message, e.Cause)
		return
	}
	fmt.Fprint(f, e.Message)
}

// messageOr falls back to DefaultAssertionMessage only when no message was
// passed; an explicit empty message is kept.
func messageOr(message []string) string {
	if len(message) == 0 {
		return DefaultAssertionMessage
	}
	return message[0]
}
