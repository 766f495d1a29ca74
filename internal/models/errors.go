package models

import (
	"errors"
)

var (
	// ErrInvalidInput marks input that can never classify successfully
	// (empty or missing transcription text). Messages failing with it are
	// not requeued and HTTP callers get a 4xx.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDecode marks a malformed inbound message body.
	ErrDecode = errors.New("decode error")

	// ErrOracle marks a failed classification call.
	ErrOracle = errors.New("classification error")

	// ErrPersistence marks a failed database write.
	ErrPersistence = errors.New("persistence error")

	// ErrTransport marks a failed broker operation.
	ErrTransport = errors.New("transport error")
)

// IsPermanent reports whether err can never succeed on redelivery.
// Everything else is treated as transient and eligible for requeue.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrDecode)
}
