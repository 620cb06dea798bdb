package conv

import "testing"

func TestUtoa(t *testing.T) {
	cases := []struct {
		n    uint64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{10, "10"},
		{20000, "20000"},
		{18446744073709551615, "18446744073709551615"},
	}
	var buf [20]byte
	for _, tc := range cases {
		if got := string(Utoa(buf[:], tc.n)); got != tc.want {
			t.Errorf("Utoa(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestItoa(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{25, "25"},
		{-1, "-1"},
		{-128, "-128"},
	}
	var buf [21]byte
	for _, tc := range cases {
		if got := string(Itoa(buf[:], tc.n)); got != tc.want {
			t.Errorf("Itoa(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}
