package mining

import (
	"testing"
	"time"

	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/models"
)

var start = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func TestCompute(t *testing.T) {
	tests := []struct {
		name          string
		selectedHour  int
		multiplier    int
		at            time.Time
		wantElapsed   int64
		wantEffective int64
		wantRemaining int64
		wantEarned    float64
		wantComplete  bool
	}{
		{
			name:         "at start nothing earned",
			selectedHour: 1, multiplier: 1, at: start,
			wantElapsed: 0, wantEffective: 0, wantRemaining: 3600, wantEarned: 0, wantComplete: false,
		},
		{
			name:         "mid-session",
			selectedHour: 1, multiplier: 1, at: start.Add(30 * time.Minute),
			wantElapsed: 1800, wantEffective: 1800, wantRemaining: 1800, wantEarned: 18, wantComplete: false,
		},
		{
			name:         "exactly complete",
			selectedHour: 1, multiplier: 2, at: start.Add(time.Hour),
			wantElapsed: 3600, wantEffective: 3600, wantRemaining: 0, wantEarned: 72, wantComplete: true,
		},
		{
			name:         "late poll caps at planned",
			selectedHour: 1, multiplier: 2, at: start.Add(5 * time.Hour),
			wantElapsed: 18000, wantEffective: 3600, wantRemaining: 0, wantEarned: 72, wantComplete: true,
		},
		{
			name:         "clock skew clamps to zero",
			selectedHour: 1, multiplier: 1, at: start.Add(-10 * time.Minute),
			wantElapsed: 0, wantEffective: 0, wantRemaining: 3600, wantEarned: 0, wantComplete: false,
		},
		{
			name:         "sub-second truncates",
			selectedHour: 1, multiplier: 1, at: start.Add(1500 * time.Millisecond),
			wantElapsed: 1, wantEffective: 1, wantRemaining: 3599, wantEarned: 0.01, wantComplete: false,
		},
		{
			name:         "24h session at max multiplier",
			selectedHour: 24, multiplier: 6, at: start.Add(24 * time.Hour),
			wantElapsed: 86400, wantEffective: 86400, wantRemaining: 0, wantEarned: 5184, wantComplete: true,
		},
		{
			name:         "zero hour treated as one",
			selectedHour: 0, multiplier: 1, at: start.Add(2 * time.Hour),
			wantElapsed: 7200, wantEffective: 3600, wantRemaining: 0, wantEarned: 36, wantComplete: true,
		},
		{
			name:         "zero multiplier clamps to one",
			selectedHour: 1, multiplier: 0, at: start.Add(time.Hour),
			wantElapsed: 3600, wantEffective: 3600, wantRemaining: 0, wantEarned: 36, wantComplete: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(start, tt.selectedHour, tt.multiplier, tt.at)
			if got.ElapsedSeconds != tt.wantElapsed {
				t.Errorf("elapsed = %d, want %d", got.ElapsedSeconds, tt.wantElapsed)
			}
			if got.EffectiveSeconds != tt.wantEffective {
				t.Errorf("effective = %d, want %d", got.EffectiveSeconds, tt.wantEffective)
			}
			if got.RemainingSeconds != tt.wantRemaining {
				t.Errorf("remaining = %d, want %d", got.RemainingSeconds, tt.wantRemaining)
			}
			if !almostEqual(got.CurrentEarned, tt.wantEarned) {
				t.Errorf("earned = %f, want %f", got.CurrentEarned, tt.wantEarned)
			}
			if got.IsComplete != tt.wantComplete {
				t.Errorf("is_complete = %v, want %v", got.IsComplete, tt.wantComplete)
			}
		})
	}
}

// Earned never exceeds the planned cap whatever the polling time.
func TestEarnedNeverExceedsPlannedCap(t *testing.T) {
	for _, hour := range []int{1, 2, 4, 12, 18, 24} {
		for m := 1; m <= 6; m++ {
			cap := float64(hour) * 3600 * BaseRatePerSecond * float64(m)
			for _, offset := range []time.Duration{
				0, time.Minute, time.Hour, 13 * time.Hour, 100 * time.Hour, 10000 * time.Hour,
			} {
				got := Compute(start, hour, m, start.Add(offset))
				if got.CurrentEarned > cap {
					t.Fatalf("hour=%d m=%d offset=%v: earned %f exceeds cap %f",
						hour, m, offset, got.CurrentEarned, cap)
				}
			}
		}
	}
}

// For a fixed multiplier earnings are monotonically non-decreasing in now.
func TestEarnedMonotonic(t *testing.T) {
	prev := -1.0
	for sec := 0; sec <= 2*3600; sec += 7 {
		got := Compute(start, 1, 3, start.Add(time.Duration(sec)*time.Second))
		if got.CurrentEarned < prev {
			t.Fatalf("earned decreased at +%ds: %f < %f", sec, got.CurrentEarned, prev)
		}
		prev = got.CurrentEarned
	}
}

func TestIsCompleteIffRemainingZero(t *testing.T) {
	for sec := 3000; sec <= 4200; sec += 60 {
		got := Compute(start, 1, 1, start.Add(time.Duration(sec)*time.Second))
		if got.IsComplete != (got.RemainingSeconds == 0) {
			t.Fatalf("at +%ds: is_complete=%v but remaining=%d", sec, got.IsComplete, got.RemainingSeconds)
		}
	}
}

func TestComputeSessionFallback(t *testing.T) {
	created := start
	s := &models.MiningSession{
		Status:       models.SessionStatusMining,
		Multiplier:   2,
		SelectedHour: 1,
		CreatedAt:    created,
	}

	// no mining_start_time: anchors on created_at
	got := ComputeSession(s, created.Add(30*time.Minute))
	if got.ElapsedSeconds != 1800 {
		t.Errorf("elapsed = %d, want 1800", got.ElapsedSeconds)
	}

	realStart := created.Add(10 * time.Minute)
	s.MiningStartTime = &realStart
	got = ComputeSession(s, created.Add(30*time.Minute))
	if got.ElapsedSeconds != 1200 {
		t.Errorf("elapsed = %d, want 1200", got.ElapsedSeconds)
	}
}

func TestPlannedEarnings(t *testing.T) {
	tests := []struct {
		hour, multiplier int
		want             float64
	}{
		{1, 1, 36},
		{1, 2, 72}, // the canonical 1h x2 claim example
		{2, 3, 216},
		{24, 6, 5184},
		{0, 1, 36},  // clamped hour
		{1, 99, 216}, // clamped multiplier
	}
	for _, tt := range tests {
		if got := PlannedEarnings(tt.hour, tt.multiplier); !almostEqual(got, tt.want) {
			t.Errorf("PlannedEarnings(%d, %d) = %f, want %f", tt.hour, tt.multiplier, got, tt.want)
		}
	}
}

func almostEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
