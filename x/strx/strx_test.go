package strx

import "testing"

func TestCoalesce(t *testing.T) {
	for _, c := range []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"", ""}, ""},
		{[]string{"", "lab", "home"}, "lab"},
		{[]string{"ssid"}, "ssid"},
	} {
		if got := Coalesce(c.in...); got != c.want {
			t.Fatalf("Coalesce(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
