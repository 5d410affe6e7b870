package pipeline

import (
	"encoding/binary"
	"strings"

	"codec8-svr/internal/codec"
	"codec8-svr/internal/codec/fmxxx"
)

// Cada chunk es un uint64 que, en memoria, son 8 bytes big-endian.
// Esos 8 bytes contienen dígitos ASCII ('0'–'9') o padding.
// Ejemplo: 4051327829469704249 → bytes → "89520209"
func decodeICCIDChunk(u uint64) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], u)

	var sb strings.Builder
	for _, b := range buf {
		if b >= '0' && b <= '9' {
			sb.WriteByte(b)
		}
	}
	return sb.String()
}

// ICCIDFromIO arma el ICCID desde los IOs 219, 220 y 221 (8 bytes). Devuelve
// "" si falta alguna parte o el resultado es demasiado corto.
func ICCIDFromIO(set codec.IOElementSet) string {
	var parts [3]uint64
	for i, id := range []fmxxx.ID{fmxxx.ICCID1, fmxxx.ICCID2, fmxxx.ICCID3} {
		v, ok := set.Lookup(id)
		if !ok || v.Width != codec.Width8 {
			return ""
		}
		parts[i] = v.Value
	}
	iccid := decodeICCIDChunk(parts[0]) + decodeICCIDChunk(parts[1]) + decodeICCIDChunk(parts[2])
	if len(iccid) < 18 {
		return ""
	}
	return iccid
}
