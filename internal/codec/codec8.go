package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	CodecID8 uint8 = 0x08

	headerSize = 8 // preamble(4) + data length(4)
	crcSize    = 4
)

// Integrity describe los chequeos redundantes del frame. Ninguno aborta el
// decode; el llamador decide qué hacer con un frame inconsistente.
type Integrity struct {
	ComputedCRC     uint16 `json:"crc_calc"`
	TransmittedCRC  uint32 `json:"crc"`
	RecordCountEcho uint8  `json:"qty2"`
	BodyLength      int    `json:"body_len"`
}

// Decoded es el resultado de DecodeCodec8.
type Decoded struct {
	Frame     Codec8Frame `json:"frame"`
	Integrity Integrity   `json:"integrity"`
	Consumed  int         `json:"consumed"`
}

// ChecksumOK compara sólo los 16 bits bajos del CRC transmitido.
func (d Decoded) ChecksumOK() bool {
	return uint16(d.Integrity.TransmittedCRC) == d.Integrity.ComputedCRC
}

func (d Decoded) RecordCountOK() bool {
	return d.Integrity.RecordCountEcho == d.Frame.RecordCount
}

func (d Decoded) DataLengthOK() bool {
	return d.Integrity.BodyLength == int(d.Frame.DataLength)
}

// IntegrityErr junta las señales de integridad del frame, o nil si no hay.
func (d Decoded) IntegrityErr() error {
	var errs []error
	if !d.ChecksumOK() {
		errs = append(errs, fmt.Errorf("%w: computed %04x, transmitted %08x",
			ErrChecksumMismatch, d.Integrity.ComputedCRC, d.Integrity.TransmittedCRC))
	}
	if !d.RecordCountOK() {
		errs = append(errs, fmt.Errorf("%w: header %d, trailer %d",
			ErrRecordCountMismatch, d.Frame.RecordCount, d.Integrity.RecordCountEcho))
	}
	if !d.DataLengthOK() {
		errs = append(errs, fmt.Errorf("%w: declared %d, consumed %d",
			ErrDataLengthMismatch, d.Frame.DataLength, d.Integrity.BodyLength))
	}
	return errors.Join(errs...)
}

// FrameSize devuelve el largo total (header + data + crc) que declara el
// frame al inicio de data. ok es false si todavía no llegó el header.
func FrameSize(data []byte) (size int, ok bool) {
	if len(data) < headerSize {
		return 0, false
	}
	return headerSize + int(binary.BigEndian.Uint32(data[4:headerSize])) + crcSize, true
}

// DecodeCodec8 decodifica un frame Codec 8 desde el inicio de data y devuelve
// el resto sin consumir (puede contener más frames concatenados).
//
// Frame = 00000000 | dataLen(4B) | 0x08 | qty1 | records | qty2 | crc(4B)
func DecodeCodec8(data []byte) (Decoded, []byte, error) {
	c := NewCursor(data)
	var d Decoded

	preamble, err := c.TakeExact(4)
	if err != nil {
		return Decoded{}, nil, stepErr("preamble", c, err)
	}
	if preamble[0] != 0x00 || preamble[1] != 0x00 || preamble[2] != 0x00 || preamble[3] != 0x00 {
		return Decoded{}, nil, &DecodeError{Step: "preamble", Offset: 0,
			Err: fmt.Errorf("%w: expected 00000000, got %x", ErrInvalidPreamble, preamble)}
	}

	if d.Frame.DataLength, err = c.U32(); err != nil {
		return Decoded{}, nil, stepErr("data_length", c, err)
	}

	// El CRC cubre codec id .. qty2; se calcula antes de consumir el rango.
	body, err := c.PeekExact(int(d.Frame.DataLength))
	if err != nil {
		return Decoded{}, nil, stepErr("data", c, err)
	}
	d.Integrity.ComputedCRC = Checksum(body)
	bodyStart := c.Offset()

	codecAt := c.Offset()
	if d.Frame.CodecID, err = c.U8(); err != nil {
		return Decoded{}, nil, stepErr("codec_id", c, err)
	}
	if d.Frame.CodecID != CodecID8 {
		return Decoded{}, nil, &DecodeError{Step: "codec_id", Offset: codecAt,
			Err: fmt.Errorf("%w: 0x%02x", ErrUnsupportedCodec, d.Frame.CodecID)}
	}

	if d.Frame.RecordCount, err = c.U8(); err != nil {
		return Decoded{}, nil, stepErr("record_count", c, err)
	}
	d.Frame.Records, err = readCounted(c, "record", int(d.Frame.RecordCount), minRecordSize, decodeRecord)
	if err != nil {
		return Decoded{}, nil, err
	}

	if d.Integrity.RecordCountEcho, err = c.U8(); err != nil {
		return Decoded{}, nil, stepErr("record_count_echo", c, err)
	}
	d.Integrity.BodyLength = c.Offset() - bodyStart

	if d.Integrity.TransmittedCRC, err = c.U32(); err != nil {
		return Decoded{}, nil, stepErr("crc", c, err)
	}

	d.Consumed = c.Offset()
	return d, c.Rest(), nil
}
