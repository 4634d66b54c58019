package conv

// Hex writes lowercase hex without 0x or zero padding ("0" for 0).
func Hex(buf []byte, n uint64) []byte {
	if len(buf) == 0 {
		return buf[:0]
	}
	const hexd = "0123456789abcdef"
	i := len(buf)
	if n == 0 {
		i--
		buf[i] = '0'
		return buf[i:]
	}
	for n > 0 && i > 0 {
		i--
		buf[i] = hexd[n&0xF]
		n >>= 4
	}
	return buf[i:]
}
