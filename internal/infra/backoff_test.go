package infra

import (
	"testing"
	"time"
)

func TestCalculateBackoff(t *testing.T) {
	tests := []struct {
		name       string
		retryCount int
		want       time.Duration
	}{
		{"first retry", 0, 1 * time.Second},
		{"second retry", 1, 2 * time.Second},
		{"third retry", 2, 4 * time.Second},
		{"fourth retry", 3, 8 * time.Second},
		{"sixth retry", 5, 32 * time.Second},
		{"capped at max", 6, 60 * time.Second},
		{"well past cap", 10, 60 * time.Second},
		{"overflow guard", 63, 60 * time.Second},
		{"negative count", -1, 1 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateBackoff(tt.retryCount); got != tt.want {
				t.Errorf("CalculateBackoff(%d) = %v, want %v", tt.retryCount, got, tt.want)
			}
		})
	}
}
