package codec

import (
	"errors"
	"fmt"
)

var (
	ErrTruncated        = errors.New("truncated input")
	ErrInvalidPreamble  = errors.New("invalid preamble")
	ErrUnsupportedCodec = errors.New("unsupported codec")
	ErrInvalidIMEI      = errors.New("invalid imei")

	// Señales de integridad: se reportan con Decoded.IntegrityErr y nunca
	// abortan el decode.
	ErrChecksumMismatch    = errors.New("checksum mismatch")
	ErrRecordCountMismatch = errors.New("record count mismatch")
	ErrDataLengthMismatch  = errors.New("data length mismatch")
)

// DecodeError ubica una falla en el paso del decoder y el offset absoluto
// dentro del buffer recibido.
type DecodeError struct {
	Step   string
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("codec8: %s at offset %d: %v", e.Step, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func stepErr(step string, c *Cursor, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		de.Step = step + "." + de.Step
		return de
	}
	return &DecodeError{Step: step, Offset: c.Offset(), Err: err}
}

// Kind devuelve el nombre corto del error para métricas y logs.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTruncated):
		return "truncated"
	case errors.Is(err, ErrInvalidPreamble):
		return "invalid_preamble"
	case errors.Is(err, ErrUnsupportedCodec):
		return "unsupported_codec"
	case errors.Is(err, ErrInvalidIMEI):
		return "invalid_imei"
	case errors.Is(err, ErrChecksumMismatch):
		return "checksum_mismatch"
	case errors.Is(err, ErrRecordCountMismatch):
		return "record_count_mismatch"
	case errors.Is(err, ErrDataLengthMismatch):
		return "data_length_mismatch"
	default:
		return "other"
	}
}
