package codec

import (
	"encoding/binary"
	"fmt"
)

// Cursor es un lector hacia adelante con chequeo de límites sobre un buffer
// inmutable. Una lectura fallida nunca mueve la posición.
type Cursor struct {
	data []byte
	pos  int
}

func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

func (c *Cursor) Offset() int    { return c.pos }
func (c *Cursor) Remaining() int { return len(c.data) - c.pos }

// Rest devuelve los bytes aún no consumidos.
func (c *Cursor) Rest() []byte { return c.data[c.pos:] }

// PeekExact devuelve los próximos n bytes sin avanzar.
func (c *Cursor) PeekExact(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncated, n, c.Remaining())
	}
	return c.data[c.pos : c.pos+n : c.pos+n], nil
}

// TakeExact devuelve los próximos n bytes y avanza.
func (c *Cursor) TakeExact(n int) ([]byte, error) {
	b, err := c.PeekExact(n)
	if err != nil {
		return nil, err
	}
	c.pos += n
	return b, nil
}

func (c *Cursor) U8() (uint8, error) {
	b, err := c.TakeExact(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) U16() (uint16, error) {
	b, err := c.TakeExact(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (c *Cursor) U32() (uint32, error) {
	b, err := c.TakeExact(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (c *Cursor) U64() (uint64, error) {
	b, err := c.TakeExact(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// uintN lee un entero big-endian de 1, 2, 4 u 8 bytes ensanchado a 64 bits.
func (c *Cursor) uintN(width int) (uint64, error) {
	switch width {
	case 1:
		v, err := c.U8()
		return uint64(v), err
	case 2:
		v, err := c.U16()
		return uint64(v), err
	case 4:
		v, err := c.U32()
		return uint64(v), err
	case 8:
		return c.U64()
	default:
		return 0, fmt.Errorf("unsupported integer width %d", width)
	}
}
