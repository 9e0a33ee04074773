package probe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aryankumar/pingpool/internal/util"
)

func TestSim_Probe(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		wantSuccess bool
		wantErr     bool
		minDuration time.Duration
	}{
		{name: "plain", target: "sim://a", wantSuccess: true},
		{name: "latency", target: "sim://b?latency=20ms", wantSuccess: true, minDuration: 20 * time.Millisecond},
		{name: "fail", target: "sim://c?fail=true", wantSuccess: false},
		{name: "probe error", target: "sim://d?error=boom", wantErr: true},
		{name: "bad latency", target: "sim://e?latency=soon", wantErr: true},
		{name: "bad fail flag", target: "sim://f?fail=maybe", wantErr: true},
		{name: "corrupted host", target: "sim://ta^get", wantErr: true},
	}

	s := NewSim()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.Probe(context.Background(), tt.target)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Probe(%q) error = %v, wantErr %v", tt.target, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if result.Success != tt.wantSuccess {
				t.Errorf("Success = %v, want %v", result.Success, tt.wantSuccess)
			}
			if result.Duration < tt.minDuration {
				t.Errorf("Duration = %s, want at least %s", result.Duration, tt.minDuration)
			}
		})
	}
}

func TestSim_InvalidParamsWrapInvalidTarget(t *testing.T) {
	_, err := NewSim().Probe(context.Background(), "sim://x?latency=-5ms")
	if !errors.Is(err, util.ErrInvalidTarget) {
		t.Errorf("expected ErrInvalidTarget, got %v", err)
	}
}

func TestSim_Cancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	result, err := NewSim().Probe(ctx, "sim://slow?latency=5s")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success {
		t.Error("cancelled probe should fail")
	}
	if time.Since(start) > time.Second {
		t.Error("probe ignored cancellation")
	}
}
