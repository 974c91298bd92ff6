package backend

import (
	"errors"
	"fmt"
)

// GenericTransportMessage is what the user sees when a request never produced
// a usable response. Logical failures echo the server text instead.
const GenericTransportMessage = "Network error, please try again"

// TransportError means the request could not complete or returned something
// other than a 2xx JSON body.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// LogicalError means the backend answered but flagged the operation as
// failed. Message carries the server-supplied text verbatim.
type LogicalError struct {
	Op      string
	Message string
}

func (e *LogicalError) Error() string {
	return fmt.Sprintf("%s: backend rejected request: %s", e.Op, e.Message)
}

// UserMessage selects the text to surface for a failed operation: the
// server's own words for a logical failure, a generic notice otherwise.
func UserMessage(err error) string {
	var logical *LogicalError
	if errors.As(err, &logical) {
		return logical.Message
	}
	return GenericTransportMessage
}
