package scheduler

import (
	"testing"
	"time"
)

func TestWallTicker_Ticks(t *testing.T) {
	tk := newWallTicker(20*time.Millisecond, time.Now)
	defer tk.Stop()
	for i := 0; i < 2; i++ {
		select {
		case <-tk.C():
		case <-time.After(2 * time.Second):
			t.Fatalf("tick %d never arrived", i)
		}
	}
}

func TestWallTicker_StopIsIdempotent(t *testing.T) {
	tk := newWallTicker(10*time.Millisecond, time.Now)
	tk.Stop()
	tk.Stop()
	time.Sleep(30 * time.Millisecond)
	// drain a tick that may have been buffered before Stop
	select {
	case <-tk.C():
	default:
	}
	select {
	case <-tk.C():
		t.Fatal("tick delivered after Stop")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSleepFor(t *testing.T) {
	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		next time.Time
		want time.Duration
	}{
		{now.Add(10 * time.Second), 10 * time.Second},
		{now.Add(10 * time.Minute), maxSleepCap},
		{now.Add(-time.Second), 0},
	}
	for _, tt := range tests {
		if got := sleepFor(tt.next, now); got != tt.want {
			t.Errorf("sleepFor(%v) = %v, want %v", tt.next.Sub(now), got, tt.want)
		}
	}
}
