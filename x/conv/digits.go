// Package conv formats numbers into caller-provided buffers without fmt or
// strconv, so firmware builds stay small and allocation-free.
package conv

// Utoa writes n in base 10 at the end of buf and returns that tail. A buf
// too short for n keeps the least significant digits.
func Utoa(buf []byte, n uint64) []byte {
	i := len(buf)
	for i > 0 {
		i--
		buf[i] = '0' + byte(n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	return buf[i:]
}

// Itoa is Utoa for signed n.
func Itoa(buf []byte, n int64) []byte {
	return withSign(buf, len(Utoa(buf, abs(n))), n < 0)
}

func abs(n int64) uint64 {
	if n < 0 {
		return uint64(-n)
	}
	return uint64(n)
}

// withSign returns the last used bytes of buf, prefixed with '-' when neg
// and there is room.
func withSign(buf []byte, used int, neg bool) []byte {
	i := len(buf) - used
	if neg && i > 0 {
		i--
		buf[i] = '-'
	}
	return buf[i:]
}
