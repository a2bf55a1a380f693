package generator

import "errors"

var (
	// ErrValidation is returned when a request is rejected before any
	// connection is attempted.
	ErrValidation = errors.New("invalid generation request")

	// ErrConnection covers transport failures while establishing or
	// maintaining the stream.
	ErrConnection = errors.New("connection error")

	// ErrAbnormalClose is reported when the stream ends with a close code
	// other than CloseNormal.
	ErrAbnormalClose = errors.New("connection closed abnormally")
)
