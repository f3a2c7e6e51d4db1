package precision

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name         string
		price        string
		pairDecimals int32
		want         string
	}{
		{"one decimal pair", "65123.45", 1, "65123.4"},
		{"truncates not rounds", "65123.49", 1, "65123.4"},
		{"already exact", "0.5", 1, "0.5"},
		{"integer price", "100", 2, "100"},
		{"forex style", "1.234567", 4, "1.2345"},
		{"zero decimals", "9.99", 0, "9"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			price, _ := decimal.NewFromString(tc.price)
			if got := FormatPrice(price, tc.pairDecimals); got != tc.want {
				t.Errorf("FormatPrice(%s, %d): got %s, want %s", tc.price, tc.pairDecimals, got, tc.want)
			}
		})
	}
}

func TestFormatVolume(t *testing.T) {
	tests := []struct {
		name        string
		volume      string
		lotDecimals int32
		want        string
	}{
		{"standard eight decimals", "0.123456789", 8, "0.12345678"},
		{"whole volume", "5", 8, "5"},
		{"sub-satoshi dust dropped", "0.000000001", 8, "0"},
		{"exact", "1.00000001", 8, "1.00000001"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			volume, _ := decimal.NewFromString(tc.volume)
			if got := FormatVolume(volume, tc.lotDecimals); got != tc.want {
				t.Errorf("FormatVolume(%s, %d): got %s, want %s", tc.volume, tc.lotDecimals, got, tc.want)
			}
		})
	}
}

func TestRoundDown(t *testing.T) {
	// 123.456 truncated to 2 decimals = 123.45
	x, _ := decimal.NewFromString("123.456")
	got := RoundDown(x, 2)
	want, _ := decimal.NewFromString("123.45")
	if !got.Equal(want) {
		t.Errorf("RoundDown(123.456, 2): got %s, want %s", got, want)
	}
}

func TestRoundDown_Negative(t *testing.T) {
	// Truncation toward zero: -1.999 truncated to 2 = -1.99
	x, _ := decimal.NewFromString("-1.999")
	got := RoundDown(x, 2)
	want, _ := decimal.NewFromString("-1.99")
	if !got.Equal(want) {
		t.Errorf("RoundDown(-1.999, 2): got %s, want %s", got, want)
	}
}

func TestRoundNormal(t *testing.T) {
	// 1.235 rounded to 2 decimals = 1.24 (half-up)
	x, _ := decimal.NewFromString("1.235")
	got := RoundNormal(x, 2)
	want, _ := decimal.NewFromString("1.24")
	if !got.Equal(want) {
		t.Errorf("RoundNormal(1.235, 2): got %s, want %s", got, want)
	}
}

func TestRoundUp(t *testing.T) {
	// 1.231 rounded up to 2 decimals = 1.24
	x, _ := decimal.NewFromString("1.231")
	got := RoundUp(x, 2)
	want, _ := decimal.NewFromString("1.24")
	if !got.Equal(want) {
		t.Errorf("RoundUp(1.231, 2): got %s, want %s", got, want)
	}
}

func TestDecimalPlaces(t *testing.T) {
	tests := []struct {
		input string
		want  int32
	}{
		{"1.23", 2},
		{"5", 0},
		{"0.001", 3},
		{"100.0", 1},
		{"0.00000001", 8},
	}

	for _, tc := range tests {
		x, _ := decimal.NewFromString(tc.input)
		if got := DecimalPlaces(x); got != tc.want {
			t.Errorf("DecimalPlaces(%s): got %d, want %d", tc.input, got, tc.want)
		}
	}
}

func TestCheckOrderMin(t *testing.T) {
	min, _ := decimal.NewFromString("0.0001")

	ok, _ := decimal.NewFromString("0.0005")
	if err := CheckOrderMin(ok, min); err != nil {
		t.Errorf("expected no error for volume above minimum, got: %v", err)
	}

	exact, _ := decimal.NewFromString("0.0001")
	if err := CheckOrderMin(exact, min); err != nil {
		t.Errorf("expected no error for volume at minimum, got: %v", err)
	}

	low, _ := decimal.NewFromString("0.00009")
	if err := CheckOrderMin(low, min); err == nil {
		t.Error("expected error for volume below minimum, got nil")
	}
}
