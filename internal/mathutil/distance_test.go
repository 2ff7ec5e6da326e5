package mathutil

import (
	"math"
	"testing"
)

func TestDistance2(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 float64
		squared        float64
	}{
		{"same point", 1, 1, 1, 1, 0},
		{"3-4-5", 0, 0, 3, 4, 25},
		{"negative", -1, -1, 2, 3, 25},
		{"reversed", 3, 4, 0, 0, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance2Squared(tt.x1, tt.y1, tt.x2, tt.y2); got != tt.squared {
				t.Errorf("Distance2Squared() = %v, want %v", got, tt.squared)
			}
			want := math.Sqrt(tt.squared)
			if got := Distance2(tt.x1, tt.y1, tt.x2, tt.y2); math.Abs(got-want) > 1e-12 {
				t.Errorf("Distance2() = %v, want %v", got, want)
			}
		})
	}
}

func TestDistance3(t *testing.T) {
	tests := []struct {
		name     string
		a, b     [3]float64
		squared  float64
		distance float64
	}{
		{"origin", [3]float64{}, [3]float64{}, 0, 0},
		{"unit diagonal", [3]float64{0, 0, 0}, [3]float64{1, 1, 1}, 3, math.Sqrt(3)},
		{"2-3-6", [3]float64{1, 1, 1}, [3]float64{3, 4, 7}, 49, 7},
		{"large", [3]float64{1e11, 0, 0}, [3]float64{1e11, 0, 1}, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance3Squared(tt.a[0], tt.a[1], tt.a[2], tt.b[0], tt.b[1], tt.b[2])
			if got != tt.squared {
				t.Errorf("Distance3Squared() = %v, want %v", got, tt.squared)
			}
			d := Distance3(tt.a[0], tt.a[1], tt.a[2], tt.b[0], tt.b[1], tt.b[2])
			if math.Abs(d-tt.distance) > 1e-12 {
				t.Errorf("Distance3() = %v, want %v", d, tt.distance)
			}
		})
	}
}
