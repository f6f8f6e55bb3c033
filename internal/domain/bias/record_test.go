package bias

import (
	"testing"
	"time"
)

func TestSessionAt(t *testing.T) {
	cases := []struct {
		hour int
		want Session
	}{
		{8, SessionLondon},
		{11, SessionLondon},
		{12, SessionNewYork},
		{16, SessionNewYork},
		{17, SessionAsian},
		{23, SessionAsian},
		{0, SessionAsian},
		{7, SessionAsian},
	}
	for _, tc := range cases {
		at := time.Date(2025, 6, 1, tc.hour, 30, 0, 0, time.UTC)
		if got := SessionAt(at); got != tc.want {
			t.Errorf("SessionAt(hour=%d) = %s, want %s", tc.hour, got, tc.want)
		}
	}
}
