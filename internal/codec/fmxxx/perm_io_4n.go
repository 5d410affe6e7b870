package fmxxx

// IOs de 4 bytes.
const (
	ActiveGsmOpe   ID = 241
	TripOdometer   ID = 199
	TotalOdometer  ID = 16
	FuelUsedGPS    ID = 12
	DallasTemp1    ID = 72
	DallasTemp2    ID = 73
	DallasTemp3    ID = 74
	DallasTemp4    ID = 75
	PulseCountDin1 ID = 4
	PulseCountDin2 ID = 5
	PCBTemperature ID = 70
)

var fourByte = map[ID]string{
	ActiveGsmOpe:   "gsm_operator",
	TripOdometer:   "trip_odometer",
	TotalOdometer:  "total_odometer",
	FuelUsedGPS:    "fuel_used_gps",
	DallasTemp1:    "dallas_temp1",
	DallasTemp2:    "dallas_temp2",
	DallasTemp3:    "dallas_temp3",
	DallasTemp4:    "dallas_temp4",
	PulseCountDin1: "pulse_count_din1",
	PulseCountDin2: "pulse_count_din2",
	PCBTemperature: "pcb_temp",
}
