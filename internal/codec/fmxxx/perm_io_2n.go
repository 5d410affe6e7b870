package fmxxx

// IOs de 2 bytes.
const (
	GnssPDOP     ID = 181
	GnssHDOP     ID = 182
	ExtVolt      ID = 66
	VehicleSpeed ID = 24
	GsmCellID    ID = 205
	GsmAreaCode  ID = 206
	BatteryVolt  ID = 67
	BattCurrent  ID = 68
	AIn1         ID = 9
	AIn2         ID = 6
	FuelRateGPS  ID = 13
	AxisX        ID = 17
	AxisY        ID = 18
	AxisZ        ID = 19
	LLS1FuelLvl  ID = 201
	LLS2FuelLvl  ID = 203
	LLS3FuelLvl  ID = 210
	LLS4FuelLvl  ID = 212
	LLS5FuelLvl  ID = 214
	EcoScore     ID = 15 // promedio de eventos por distancia
	BLETemp1     ID = 25
	BLEHumidity1 ID = 86
)

var twoByte = map[ID]string{
	GnssPDOP:     "gnss_pdop",
	GnssHDOP:     "gnss_hdop",
	ExtVolt:      "ext_volt",
	VehicleSpeed: "vehicle_speed",
	GsmCellID:    "gsm_cell_id",
	GsmAreaCode:  "gsm_area_code",
	BatteryVolt:  "battery_volt",
	BattCurrent:  "battery_current",
	AIn1:         "ain1",
	AIn2:         "ain2",
	FuelRateGPS:  "fuel_rate_gps",
	AxisX:        "axis_x",
	AxisY:        "axis_y",
	AxisZ:        "axis_z",
	LLS1FuelLvl:  "lls1_fuel",
	LLS2FuelLvl:  "lls2_fuel",
	LLS3FuelLvl:  "lls3_fuel",
	LLS4FuelLvl:  "lls4_fuel",
	LLS5FuelLvl:  "lls5_fuel",
	EcoScore:     "eco_score",
	BLETemp1:     "ble_temp1",
	BLEHumidity1: "ble_humidity1",
}
