package codec

// Checksum calcula CRC-16/ARC (poly 0x8005 reflejado = 0xA001, init 0,
// sin xorout), el CRC que Teltonika llama CRC-16/IBM.
func Checksum(b []byte) uint16 {
	var crc uint16
	for _, v := range b {
		crc ^= uint16(v)
		for i := 0; i < 8; i++ {
			if (crc & 1) == 1 {
				crc = (crc >> 1) ^ 0xA001
			} else {
				crc >>= 1
			}
		}
	}
	return crc
}
