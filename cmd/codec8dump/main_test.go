package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codec8-svr/internal/codec"
)

func TestDump(t *testing.T) {
	data, err := hex.DecodeString("000F333536333037303432343431303133" +
		"000000000000003608010000016B40D8EA30010000000000000000000000000000000105021503010101425E0F01F10000601A014E0000000000000000010000C7CF")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, dump(json.NewEncoder(&buf), data))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"imei":"356307042441013"}`, lines[0])

	var out output
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &out))
	require.NotNil(t, out.Decoded)
	assert.Equal(t, uint8(1), out.Decoded.Frame.RecordCount)
	assert.Equal(t, uint64(1560161086000), out.Decoded.Frame.Records[0].Timestamp)
	assert.Empty(t, out.Integrity)
}

func TestDumpTruncated(t *testing.T) {
	data, err := hex.DecodeString("00000000000000360801")
	require.NoError(t, err)
	err = dump(json.NewEncoder(&bytes.Buffer{}), data)
	assert.True(t, errors.Is(err, codec.ErrTruncated))
}
