package fmxxx

// IOs de 1 byte.
const (
	Ignition    ID = 239
	Movement    ID = 240
	DataMode    ID = 80
	GSMSignal   ID = 21
	SleepMode   ID = 200
	GnssStatus  ID = 69
	DIn1        ID = 1
	DIn2        ID = 2
	DIn3        ID = 3
	DOut1       ID = 179
	DOut2       ID = 180
	SDStatus    ID = 10
	LLS1Temp    ID = 202
	LLS2Temp    ID = 204
	LLS3Temp    ID = 211
	LLS4Temp    ID = 213
	LLS5Temp    ID = 215
	BattLevel   ID = 113
	NetworkType ID = 237
	BLEBatt1    ID = 29
)

var oneByte = map[ID]string{
	Ignition:    "ignition",
	Movement:    "movement",
	DataMode:    "data_mode",
	GSMSignal:   "gsm_signal",
	SleepMode:   "sleep_mode",
	GnssStatus:  "gnss_status",
	DIn1:        "din1",
	DIn2:        "din2",
	DIn3:        "din3",
	DOut1:       "dout1",
	DOut2:       "dout2",
	SDStatus:    "sd_status",
	LLS1Temp:    "lls1_temp",
	LLS2Temp:    "lls2_temp",
	LLS3Temp:    "lls3_temp",
	LLS4Temp:    "lls4_temp",
	LLS5Temp:    "lls5_temp",
	BattLevel:   "battery_level",
	NetworkType: "network_type",
	BLEBatt1:    "ble_batt1",
}
