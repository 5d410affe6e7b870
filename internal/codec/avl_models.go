package codec

import "time"

// Width es el ancho en bytes del valor de un elemento IO en el cable.
type Width uint8

const (
	Width1 Width = 1
	Width2 Width = 2
	Width4 Width = 4
	Width8 Width = 8
)

// Widths en el orden en que aparecen los grupos dentro de un registro.
var Widths = [...]Width{Width1, Width2, Width4, Width8}

// IOValue es un elemento IO con su valor ensanchado a 64 bits.
type IOValue struct {
	ID    uint8  `json:"id"`
	Width Width  `json:"width"`
	Value uint64 `json:"val"`
}

// IOElementSet agrupa los elementos IO de un registro por ancho de valor.
// Cada grupo conserva el orden del cable; ids repetidos son válidos.
type IOElementSet struct {
	EventIOID uint8     `json:"event_io_id"`
	TotalIO   uint8     `json:"total_io"`
	OneByte   []IOValue `json:"io_1b"`
	TwoByte   []IOValue `json:"io_2b"`
	FourByte  []IOValue `json:"io_4b"`
	EightByte []IOValue `json:"io_8b"`
}

func (s IOElementSet) Group(w Width) []IOValue {
	switch w {
	case Width1:
		return s.OneByte
	case Width2:
		return s.TwoByte
	case Width4:
		return s.FourByte
	case Width8:
		return s.EightByte
	}
	return nil
}

// All devuelve todos los elementos en orden de cable.
func (s IOElementSet) All() []IOValue {
	out := make([]IOValue, 0, s.Count())
	for _, w := range Widths {
		out = append(out, s.Group(w)...)
	}
	return out
}

func (s IOElementSet) Count() int {
	return len(s.OneByte) + len(s.TwoByte) + len(s.FourByte) + len(s.EightByte)
}

// Lookup devuelve la primera ocurrencia de id.
func (s IOElementSet) Lookup(id uint8) (IOValue, bool) {
	for _, w := range Widths {
		for _, v := range s.Group(w) {
			if v.ID == id {
				return v, true
			}
		}
	}
	return IOValue{}, false
}

// TotalConsistent indica si number_of_total_io coincide con la suma de los
// grupos. El decoder no lo exige.
func (s IOElementSet) TotalConsistent() bool {
	return int(s.TotalIO) == s.Count()
}

type GPSData struct {
	Longitude  float64 `json:"longitude"`
	Latitude   float64 `json:"latitude"`
	Altitude   uint16  `json:"altitude"`
	Angle      uint16  `json:"angle"`
	Satellites uint8   `json:"satellites"`
	Speed      uint16  `json:"speed"`
}

// AltitudeMeters interpreta la altitud como entero con signo.
func (g GPSData) AltitudeMeters() int16 { return int16(g.Altitude) }

type AVLRecord struct {
	Timestamp uint64       `json:"timestamp_ms"`
	Priority  uint8        `json:"priority"`
	GPS       GPSData      `json:"gps"`
	IO        IOElementSet `json:"io"`
}

func (r AVLRecord) Time() time.Time {
	return time.UnixMilli(int64(r.Timestamp)).UTC()
}

type Codec8Frame struct {
	DataLength  uint32      `json:"data_len"`
	CodecID     uint8       `json:"codec_id"`
	RecordCount uint8       `json:"qty1"`
	Records     []AVLRecord `json:"records"`
}
