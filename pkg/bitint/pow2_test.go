// SPDX-License-Identifier: MIT
package bitint

import "testing"

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct {
		name  string
		input int
		want  int
	}{
		{"Zero", 0, 1},
		{"Negative", -8, 1},
		{"One", 1, 1},
		{"Exact power preserved", 1024, 1024},
		{"Just above power", 1025, 2048},
		{"Just below power", 1023, 1024},
		{"Small odd", 5, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextPowerOfTwo(tt.input); got != tt.want {
				t.Errorf("NextPowerOfTwo(%d) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	tests := []struct {
		input int
		want  bool
	}{
		{1, true},
		{2, true},
		{1024, true},
		{0, false},
		{-4, false},
		{3, false},
		{1023, false},
	}

	for _, tt := range tests {
		if got := IsPowerOfTwo(tt.input); got != tt.want {
			t.Errorf("IsPowerOfTwo(%d) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func BenchmarkNextPowerOfTwo(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = NextPowerOfTwo(1025)
	}
}
