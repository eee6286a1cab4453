package postgres

import (
	"strconv"
	"strings"
	"testing"
)

func TestVectorLiteral_Format(t *testing.T) {
	tests := []struct {
		name string
		vec  []float32
		want string
	}{
		{"empty", nil, "[]"},
		{"single", []float32{0.5}, "[0.5]"},
		{"multiple", []float32{0.1, -0.2, 1}, "[0.1,-0.2,1]"},
		{"tiny magnitude", []float32{1e-8}, "[1e-08]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VectorLiteral(tt.vec); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVectorLiteral_Deterministic(t *testing.T) {
	vec := make([]float32, 1536)
	for i := range vec {
		vec[i] = float32(i)*0.001 - 0.5
	}

	first := VectorLiteral(vec)
	second := VectorLiteral(vec)
	if first != second {
		t.Fatal("equal vectors must serialize to identical literals")
	}

	clone := make([]float32, len(vec))
	copy(clone, vec)
	if VectorLiteral(clone) != first {
		t.Fatal("copied vector must serialize to an identical literal")
	}
}

func TestVectorLiteral_RoundTrip(t *testing.T) {
	vec := []float32{0.123456789, -0.987654321, 3.1415927, 1e-8, 0}

	literal := VectorLiteral(vec)
	inner := strings.Trim(literal, "[]")
	parts := strings.Split(inner, ",")
	if len(parts) != len(vec) {
		t.Fatalf("got %d components, want %d", len(parts), len(vec))
	}

	for i, part := range parts {
		parsed, err := strconv.ParseFloat(part, 32)
		if err != nil {
			t.Fatalf("component %d %q does not parse: %v", i, part, err)
		}
		if float32(parsed) != vec[i] {
			t.Errorf("component %d: got %v, want %v", i, float32(parsed), vec[i])
		}
	}
}
