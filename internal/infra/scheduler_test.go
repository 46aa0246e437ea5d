package infra

import (
	"testing"
	"time"
)

func TestEverySpec(t *testing.T) {
	cases := []struct {
		interval time.Duration
		want     string
	}{
		{5 * time.Second, "*/5 * * * * *"},
		{500 * time.Millisecond, "*/1 * * * * *"},
		{time.Minute, "0 */1 * * * *"},
		{5 * time.Minute, "0 */5 * * * *"},
	}

	for _, tc := range cases {
		if got := everySpec(tc.interval); got != tc.want {
			t.Errorf("everySpec(%s)=%q want=%q", tc.interval, got, tc.want)
		}
	}
}
