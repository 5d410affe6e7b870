package utilities

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawLog_LogHex(t *testing.T) {
	dir := t.TempDir()
	l := NewRawLog(dir)
	l.now = func() time.Time { return time.Date(2024, 6, 10, 10, 4, 46, 0, time.UTC) }

	l.LogHex("ALLTRACKINGS", "356307042441013", []byte{0x00, 0x0F, 0xAB})
	l.CreateLog("ALLTRACKINGS", "second")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(filepath.Join(dir, "ALLTRACKINGS.log"))
	require.NoError(t, err)
	assert.Equal(t,
		"20240610 10:04:46 - 356307042441013 000fab\n20240610 10:04:46 - second\n",
		string(data))
}

func TestRawLog_Disabled(t *testing.T) {
	var nilLog *RawLog
	nilLog.LogHex("X", "a", []byte{1})
	assert.NoError(t, nilLog.Close())

	l := NewRawLog("")
	l.CreateLog("X", "ignored")
	assert.Empty(t, l.writers)
}
