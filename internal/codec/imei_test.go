package codec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeIMEI(t *testing.T) {
	input := []byte{0, 15, '3', '5', '6', '3', '0', '7', '0', '4', '2', '4', '4', '1', '0', '1', '3'}

	imei, rest, err := DecodeIMEI(input)
	require.NoError(t, err)
	assert.Equal(t, "356307042441013", imei)
	assert.Empty(t, rest)
}

func TestDecodeIMEI_ReturnsRemainder(t *testing.T) {
	input := append([]byte{0, 15}, []byte("356307042441013")...)
	input = append(input, 0, 0, 0, 0)

	imei, rest, err := DecodeIMEI(input)
	require.NoError(t, err)
	assert.Equal(t, "356307042441013", imei)
	assert.Equal(t, []byte{0, 0, 0, 0}, rest)
}

func TestDecodeIMEI_Errors(t *testing.T) {
	valid := append([]byte{0, 15}, []byte("356307042441013")...)

	tests := []struct {
		name  string
		input []byte
		want  error
	}{
		{"empty", nil, ErrTruncated},
		{"one byte", []byte{0}, ErrTruncated},
		{"wrong length marker", append([]byte{0, 16}, valid[2:]...), ErrInvalidPreamble},
		{"frame instead of handshake", mustHex(t, frameSingle), ErrInvalidPreamble},
		{"short digits", valid[:10], ErrTruncated},
		{"letter", append([]byte{0, 15}, []byte("35630704244101A")...), ErrInvalidIMEI},
		{"not utf-8", append([]byte{0, 15}, append([]byte("35630704244101"), 0xFF)...), ErrInvalidIMEI},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imei, rest, err := DecodeIMEI(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), err.Error())
			assert.Empty(t, imei)
			assert.Nil(t, rest)
		})
	}
}

func TestDecodeIMEI_ErrorOffsetPointsAtBadDigit(t *testing.T) {
	_, _, err := DecodeIMEI(append([]byte{0, 15}, []byte("3563070x2441013")...))

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "imei.digits", de.Step)
	assert.Equal(t, 9, de.Offset)
}
