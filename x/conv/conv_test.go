package conv

import "testing"

func TestItoaUtoa(t *testing.T) {
	var buf [24]byte
	for _, c := range []struct {
		n    int64
		want string
	}{
		{0, "0"}, {7, "7"}, {-42, "-42"}, {1234567890, "1234567890"},
	} {
		if got := string(Itoa(buf[:], c.n)); got != c.want {
			t.Fatalf("Itoa(%d) = %q, want %q", c.n, got, c.want)
		}
	}
	if got := string(Utoa(buf[:], 65535)); got != "65535" {
		t.Fatalf("Utoa = %q", got)
	}
}

func TestDeci(t *testing.T) {
	var buf [24]byte
	for _, c := range []struct {
		v    int64
		want string
	}{
		{0, "0.0"}, {231, "23.1"}, {-186, "-18.6"}, {-4, "-0.4"}, {5, "0.5"}, {1000, "100.0"},
	} {
		if got := string(Deci(buf[:], c.v)); got != c.want {
			t.Fatalf("Deci(%d) = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestPadLeft(t *testing.T) {
	if got := PadLeft("5", 2); got != " 5" {
		t.Fatalf("PadLeft = %q", got)
	}
	if got := PadLeft("49", 2); got != "49" {
		t.Fatalf("PadLeft = %q", got)
	}
	if got := PadLeft("100", 2); got != "100" {
		t.Fatalf("PadLeft = %q", got)
	}
}

func TestHex(t *testing.T) {
	var buf [16]byte
	for _, c := range []struct {
		n    uint64
		want string
	}{
		{0, "0"}, {0xa, "a"}, {0xbeef, "beef"}, {0xfffe, "fffe"},
	} {
		if got := string(Hex(buf[:], c.n)); got != c.want {
			t.Fatalf("Hex(%#x) = %q, want %q", c.n, got, c.want)
		}
	}
}
