package fmxxx

// IOs de 8 bytes. El ICCID viaja partido en tres chunks ASCII.
const (
	ICCID1  ID = 219
	ICCID2  ID = 220
	ICCID3  ID = 221
	IButton ID = 78
)

var eightByte = map[ID]string{
	ICCID1:  "iccid1",
	ICCID2:  "iccid2",
	ICCID3:  "iccid3",
	IButton: "ibutton",
}
