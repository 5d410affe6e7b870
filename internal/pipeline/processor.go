package pipeline

import (
	"time"

	"codec8-svr/internal/codec"
	"codec8-svr/internal/codec/fmxxx"
)

// liveWindow: registros más viejos que esto se consideran buffer.
const liveWindow = 120 * time.Second

func coordsValid(lat, lon float64) bool {
	if lat == 0 && lon == 0 {
		return false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return false
	}
	return true
}

func CalcFix(sats int, lat, lon float64) int {
	if sats > 3 && coordsValid(lat, lon) {
		return 1
	}
	return 0
}

func DecideMsgType(isBatch bool, ts, now time.Time) int {
	if isBatch {
		return 0
	}
	if !ts.IsZero() && now.Sub(ts) > liveWindow {
		return 0
	}
	return 1
}

// PermIO mapea los IOs del registro por nombre. Si un id se repite gana la
// última lectura.
func PermIO(set codec.IOElementSet) map[string]uint64 {
	out := make(map[string]uint64, set.Count())
	for _, v := range set.All() {
		out[fmxxx.Name(v)] = v.Value
	}
	return out
}

type Options struct {
	IMEI    string
	IsBatch bool // el frame trae más de un registro
	CRCOk   bool
	Now     time.Time
}

func BuildTracking(rec codec.AVLRecord, opts Options) *TrackingObject {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	dt := rec.Time()
	g := rec.GPS

	return &TrackingObject{
		IMEI:     opts.IMEI,
		ICCID:    ICCIDFromIO(rec.IO),
		Datetime: dt.Format(time.RFC3339),
		Lat:      g.Latitude,
		Lon:      g.Longitude,
		Alt:      int(g.AltitudeMeters()),
		Spd:      int(g.Speed),
		Crs:      int(g.Angle),
		Sats:     int(g.Satellites),
		Priority: int(rec.Priority),
		EventIO:  int(rec.IO.EventIOID),
		PermIO:   PermIO(rec.IO),
		MsgType:  DecideMsgType(opts.IsBatch, dt, now),
		Fix:      CalcFix(int(g.Satellites), g.Latitude, g.Longitude),
		CRCOk:    opts.CRCOk,
	}
}
