package protocol

// ReverseMAC returns the hardware address with its bytes reversed. The wire
// format stores addresses backwards; applying ReverseMAC twice restores the
// input.
func ReverseMAC(mac [6]byte) [6]byte {
	var out [6]byte
	for i := range mac {
		out[i] = mac[len(mac)-1-i]
	}
	return out
}
