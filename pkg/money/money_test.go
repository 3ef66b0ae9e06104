package money

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestToMinorUnits(t *testing.T) {
	cases := []struct {
		name   string
		amount string
		want   int64
		ok     bool
	}{
		{"whole euros", "19", 1900, true},
		{"two decimals", "19.99", 1999, true},
		{"zero", "0", 0, true},
		{"trailing zeros", "4.50", 450, true},
		{"sub-cent precision", "9.999", 0, false},
		{"tiny fraction", "0.001", 0, false},
		{"largest representable", "92233720368547758.07", math.MaxInt64, true},
		{"one cent past int64", "92233720368547758.08", 0, false},
		{"absurdly large", "1e30", 0, false},
		{"negative", "-1", 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			amount, err := decimal.NewFromString(tc.amount)
			if err != nil {
				t.Fatalf("bad fixture %q: %v", tc.amount, err)
			}
			got, err := ToMinorUnits(amount)
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok {
				if err == nil {
					t.Fatalf("expected rejection for %s", tc.amount)
				}
				return
			}
			if got != tc.want {
				t.Fatalf("expected %d got %d", tc.want, got)
			}
		})
	}
}

func TestFromMinorUnitsRoundTrips(t *testing.T) {
	for _, minor := range []int64{0, 1, 99, 1999, 123456} {
		back, err := ToMinorUnits(FromMinorUnits(minor))
		if err != nil {
			t.Fatalf("round trip of %d failed: %v", minor, err)
		}
		if back != minor {
			t.Fatalf("round trip of %d produced %d", minor, back)
		}
	}
}
