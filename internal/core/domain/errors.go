// internal/core/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that an invoice, serial or directory record does not
// exist. Handlers map it to 404.
var ErrNotFound = errors.New("not found")

// BadRequestError reports a missing or malformed required field, detected
// before any store access.
type BadRequestError struct {
	Field  string
	Reason string
}

func (e *BadRequestError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// ValidationError reports a scanned serial whose item code is not on the
// invoice being confirmed. The whole batch it belongs to is rejected.
type ValidationError struct {
	ItemCode     string
	SerialNumber string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("item code %s (serial: %s) is not in this invoice", e.ItemCode, e.SerialNumber)
}

// DuplicateSerialError reports a (doc_no, serial) pair that is already
// recorded or repeated within a batch. Only raised when duplicate rejection
// is enabled; the upstream system historically accepted re-scans.
type DuplicateSerialError struct {
	DocNo        string
	SerialNumber string
}

func (e *DuplicateSerialError) Error() string {
	return fmt.Sprintf("serial %s already recorded for invoice %s", e.SerialNumber, e.DocNo)
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
