package pipeline

type TrackingObject struct {
	IMEI     string `json:"imei"`
	ICCID    string `json:"iccid,omitempty"`
	Datetime string `json:"dt"`

	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Alt  int     `json:"alt"`
	Spd  int     `json:"spd"`
	Crs  int     `json:"crs"`
	Sats int     `json:"sats"`

	Priority int               `json:"priority"`
	EventIO  int               `json:"event_io"`
	PermIO   map[string]uint64 `json:"perm_io"`

	MsgType int  `json:"msg_type"` // 1=live, 0=buffer
	Fix     int  `json:"fix"`      // 1 si sats>3 y coords válidas
	CRCOk   bool `json:"crc_ok"`
}

// AsMap devuelve el objeto con tipos aceptados por structpb.
func (tr *TrackingObject) AsMap() map[string]any {
	perm := make(map[string]any, len(tr.PermIO))
	for k, v := range tr.PermIO {
		perm[k] = v
	}
	m := map[string]any{
		"imei":     tr.IMEI,
		"dt":       tr.Datetime,
		"lat":      tr.Lat,
		"lon":      tr.Lon,
		"alt":      tr.Alt,
		"spd":      tr.Spd,
		"crs":      tr.Crs,
		"sats":     tr.Sats,
		"priority": tr.Priority,
		"event_io": tr.EventIO,
		"perm_io":  perm,
		"msg_type": tr.MsgType,
		"fix":      tr.Fix,
		"crc_ok":   tr.CRCOk,
	}
	if tr.ICCID != "" {
		m["iccid"] = tr.ICCID
	}
	return m
}
