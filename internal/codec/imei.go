package codec

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

const imeiLen = 15

var imeiPrefix = []byte{0x00, imeiLen}

// DecodeIMEI decodifica el handshake inicial: 00 0F seguido de 15 dígitos
// ASCII. Devuelve el IMEI y el resto sin consumir.
func DecodeIMEI(data []byte) (string, []byte, error) {
	c := NewCursor(data)

	prefix, err := c.TakeExact(len(imeiPrefix))
	if err != nil {
		return "", nil, stepErr("imei.length", c, err)
	}
	if !bytes.Equal(prefix, imeiPrefix) {
		return "", nil, &DecodeError{Step: "imei.length", Offset: 0,
			Err: fmt.Errorf("%w: expected 000f, got %x", ErrInvalidPreamble, prefix)}
	}

	start := c.Offset()
	digits, err := c.TakeExact(imeiLen)
	if err != nil {
		return "", nil, stepErr("imei.digits", c, err)
	}
	if !utf8.Valid(digits) {
		return "", nil, &DecodeError{Step: "imei.digits", Offset: start,
			Err: fmt.Errorf("%w: not utf-8", ErrInvalidIMEI)}
	}
	for i, d := range digits {
		if d < '0' || d > '9' {
			return "", nil, &DecodeError{Step: "imei.digits", Offset: start + i,
				Err: fmt.Errorf("%w: byte 0x%02x is not a digit", ErrInvalidIMEI, d)}
		}
	}

	return string(digits), c.Rest(), nil
}
