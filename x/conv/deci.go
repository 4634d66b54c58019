package conv

// Deci writes v/10 with one fractional digit ("231" -> "23.1", "-4" -> "-0.4")
// at the end of buf and returns that tail. buf should be length >= 22.
func Deci(buf []byte, v int64) []byte {
	if len(buf) < 3 {
		return buf[:0]
	}
	u := abs(v)
	i := len(buf) - 2
	buf[i] = '.'
	buf[i+1] = '0' + byte(u%10)
	whole := Utoa(buf[:i], u/10)
	return withSign(buf, len(whole)+2, v < 0)
}

// PadLeft returns s left-padded with spaces to at least width bytes.
func PadLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	pad := make([]byte, width-len(s), width)
	for i := range pad {
		pad[i] = ' '
	}
	return string(append(pad, s...))
}
