package interpolation

import (
	"errors"
	"math"
	"testing"
)

// TestParseMethod verifies configuration names map onto methods
func TestParseMethod(t *testing.T) {
	tests := []struct {
		in   string
		want Method
	}{
		{"", NaturalCubic},
		{"natural", NaturalCubic},
		{"Linear", Linear},
		{"akima", Akima},
		{"fritsch-butland", FritschButland},
		{"monotone", FritschButland},
	}
	for _, tt := range tests {
		got, err := ParseMethod(tt.in)
		if err != nil {
			t.Fatalf("ParseMethod(%q) returned error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseMethod(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if _, err := ParseMethod(got.String()); err != nil {
			t.Errorf("String() of %v does not parse back: %v", got, err)
		}
	}

	if _, err := ParseMethod("bezier"); err == nil {
		t.Error("Expected error for unknown method, got nil")
	}
}

// TestFitPassesThroughKnots verifies every method reproduces the knot values
func TestFitPassesThroughKnots(t *testing.T) {
	xs := []float64{0, 40, 100, 180, 255}
	ys := []float64{0, 0.8, 0.2, 0.6, 1}

	for _, m := range []Method{NaturalCubic, Linear, Akima, FritschButland} {
		p, err := Fit(m, xs, ys)
		if err != nil {
			t.Fatalf("Fit(%v) returned error: %v", m, err)
		}
		for i := range xs {
			if got := p.Predict(xs[i]); math.Abs(got-ys[i]) > 1e-9 {
				t.Errorf("%v: Predict(%g) = %g, want %g", m, xs[i], got, ys[i])
			}
		}
	}
}

// TestTwoPointsIsLinear verifies the boundary-only transfer function is a ramp
func TestTwoPointsIsLinear(t *testing.T) {
	for _, m := range []Method{NaturalCubic, Linear, Akima, FritschButland} {
		samples, err := Sample(m, []float64{0, 255}, []float64{0, 1}, 256)
		if err != nil {
			t.Fatalf("Sample(%v) returned error: %v", m, err)
		}
		if len(samples) != 256 {
			t.Fatalf("Expected 256 samples, got %d", len(samples))
		}
		for k, v := range samples {
			if want := float64(k) / 255; math.Abs(v-want) > 1e-9 {
				t.Fatalf("%v: sample %d = %g, want %g", m, k, v, want)
			}
		}
	}
}

// TestNaturalCubicMayOvershoot verifies monotonicity is not enforced by the default method
func TestNaturalCubicMayOvershoot(t *testing.T) {
	xs := []float64{0, 10, 20, 255}
	ys := []float64{0, 1, 1, 0}

	samples, err := Sample(NaturalCubic, xs, ys, 256)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	max := 0.0
	for _, v := range samples {
		max = math.Max(max, v)
	}
	if max <= 1 {
		t.Errorf("Expected natural cubic to overshoot 1 between equal knots, max was %g", max)
	}
}

// TestFitRejectsBadInput verifies input validation errors
func TestFitRejectsBadInput(t *testing.T) {
	if _, err := Fit(NaturalCubic, []float64{0}, []float64{1}); !errors.Is(err, ErrTooFewPoints) {
		t.Errorf("Expected ErrTooFewPoints, got %v", err)
	}
	if _, err := Fit(NaturalCubic, []float64{0, 5, 5}, []float64{1, 2, 3}); !errors.Is(err, ErrNotIncreasing) {
		t.Errorf("Expected ErrNotIncreasing, got %v", err)
	}
	if _, err := Fit(Linear, []float64{0, 5}, []float64{1}); err == nil {
		t.Error("Expected error for mismatched lengths, got nil")
	}
}

// TestOutsideRangeHoldsEndpoints verifies extrapolation clamps to the end knots
func TestOutsideRangeHoldsEndpoints(t *testing.T) {
	p, err := Fit(Linear, []float64{10, 20, 30}, []float64{0.25, 0.5, 0.75})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := p.Predict(0); got != 0.25 {
		t.Errorf("Expected 0.25 below range, got %g", got)
	}
	if got := p.Predict(255); got != 0.75 {
		t.Errorf("Expected 0.75 above range, got %g", got)
	}
}
