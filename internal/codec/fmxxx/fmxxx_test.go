package fmxxx

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"codec8-svr/internal/codec"
)

func TestName(t *testing.T) {
	assert.Equal(t, "ignition", Name(codec.IOValue{ID: Ignition, Width: codec.Width1}))
	assert.Equal(t, "ext_volt", Name(codec.IOValue{ID: ExtVolt, Width: codec.Width2}))
	assert.Equal(t, "gsm_operator", Name(codec.IOValue{ID: ActiveGsmOpe, Width: codec.Width4}))
	assert.Equal(t, "iccid1", Name(codec.IOValue{ID: ICCID1, Width: codec.Width8}))

	// mismo id, otro ancho
	assert.Equal(t, "io_66", Name(codec.IOValue{ID: ExtVolt, Width: codec.Width1}))
	assert.Equal(t, "io_250", Name(codec.IOValue{ID: 250, Width: codec.Width1}))
}

func TestKnown(t *testing.T) {
	assert.True(t, Known(codec.Width1, Movement))
	assert.False(t, Known(codec.Width8, Movement))
	assert.False(t, Known(codec.Width(3), Movement))
}
