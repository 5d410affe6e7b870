package codec

// minRecordSize: timestamp(8) + priority(1) + gps(15) + io header(2) + 4 contadores vacíos.
const minRecordSize = 8 + 1 + gpsSize + 2 + 4

const gpsSize = 15

const coordScale = 10000000

func decodeGPS(c *Cursor) (GPSData, error) {
	var g GPSData

	lon, err := c.U32()
	if err != nil {
		return g, stepErr("longitude", c, err)
	}
	lat, err := c.U32()
	if err != nil {
		return g, stepErr("latitude", c, err)
	}
	// complemento a dos: oeste/sur son negativos
	g.Longitude = float64(int32(lon)) / coordScale
	g.Latitude = float64(int32(lat)) / coordScale

	if g.Altitude, err = c.U16(); err != nil {
		return GPSData{}, stepErr("altitude", c, err)
	}
	if g.Angle, err = c.U16(); err != nil {
		return GPSData{}, stepErr("angle", c, err)
	}
	if g.Satellites, err = c.U8(); err != nil {
		return GPSData{}, stepErr("satellites", c, err)
	}
	if g.Speed, err = c.U16(); err != nil {
		return GPSData{}, stepErr("speed", c, err)
	}
	return g, nil
}

func decodeRecord(c *Cursor) (AVLRecord, error) {
	var r AVLRecord
	var err error

	if r.Timestamp, err = c.U64(); err != nil {
		return AVLRecord{}, stepErr("timestamp", c, err)
	}
	if r.Priority, err = c.U8(); err != nil {
		return AVLRecord{}, stepErr("priority", c, err)
	}
	if r.GPS, err = decodeGPS(c); err != nil {
		return AVLRecord{}, stepErr("gps", c, err)
	}
	if r.IO, err = decodeIOElements(c); err != nil {
		return AVLRecord{}, stepErr("io", c, err)
	}
	return r, nil
}
