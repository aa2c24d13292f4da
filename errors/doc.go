// Package errors provides structured error types for the Bond reader.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the absolute stream offset, the path of the value being
// decoded, the Bond type involved and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindOverflow).
//		Path("field[2]").
//		Type("BT_UINT16").
//		At(17).
//		Detail("value %d does not fit", v).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Truncated(errors.PhaseRead, offset, io.ErrUnexpectedEOF)
//	err := errors.LengthMismatch(offset, expected, actual)
//
// All errors implement the standard error interface and support errors.Is/As.
// The package-level sentinels (ErrTruncated, ErrLengthMismatch, ...) match any
// *Error of the same Kind regardless of phase.
package errors
