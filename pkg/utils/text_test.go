package utils

import "testing"

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"dominant colors", 30, "dominant colors"},
		{"a caption that runs long", 9, "a caption..."},
		{"", 4, ""},
		{"keep", 0, "keep"},
		{"héllo wörld", 5, "héllo..."},
	}
	for _, tc := range cases {
		if got := Truncate(tc.in, tc.max); got != tc.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}
