package vip

import "testing"

func TestLevel_Thresholds(t *testing.T) {
	tests := []struct {
		name      string
		deposited float64
		earned    float64
		want      int
	}{
		{"zero activity", 0, 0, 0},
		{"just below level 1", 19.99, 0, 0},
		{"exactly level 1", 20, 0, 1},
		{"split across totals", 10, 15, 1},
		{"exactly level 2", 0, 50, 2},
		{"deposit approval crossing 50", 60, 15, 2},
		{"level 3", 100, 0, 3},
		{"level 4", 150, 50, 4},
		{"exactly level 5", 500, 0, 5},
		{"far past the top", 10000, 10000, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Level(tt.deposited, tt.earned); got != tt.want {
				t.Fatalf("Level(%v, %v) = %d, want %d", tt.deposited, tt.earned, got, tt.want)
			}
		})
	}
}

func TestLevel_Monotonic(t *testing.T) {
	prev := 0
	for activity := 0.0; activity <= 600; activity += 0.5 {
		l := Level(activity, 0)
		if l < prev {
			t.Fatalf("level decreased from %d to %d at activity %v", prev, l, activity)
		}
		prev = l
	}
	if prev != MaxLevel() {
		t.Fatalf("expected to reach max level %d, got %d", MaxLevel(), prev)
	}
}

func TestDailyTaskLimit(t *testing.T) {
	want := []int{5, 10, 15, 20, 25, 30}
	for level, w := range want {
		if got := DailyTaskLimit(level); got != w {
			t.Fatalf("DailyTaskLimit(%d) = %d, want %d", level, got, w)
		}
	}
	// Clamping: stale or corrupt persisted levels must not panic.
	if got := DailyTaskLimit(-1); got != 5 {
		t.Fatalf("DailyTaskLimit(-1) = %d, want 5", got)
	}
	if got := DailyTaskLimit(99); got != 30 {
		t.Fatalf("DailyTaskLimit(99) = %d, want 30", got)
	}
}

func TestTaskReward_InRange(t *testing.T) {
	for level := 0; level <= MaxLevel(); level++ {
		r := RewardRange(level)
		for i := 0; i < 200; i++ {
			v := TaskReward(level)
			if v < r.Min || v > r.Max {
				t.Fatalf("TaskReward(%d) = %v outside [%v, %v]", level, v, r.Min, r.Max)
			}
		}
	}
}

func TestNextThreshold(t *testing.T) {
	if th, ok := NextThreshold(0); !ok || th != 20 {
		t.Fatalf("NextThreshold(0) = %v, %v", th, ok)
	}
	if th, ok := NextThreshold(4); !ok || th != 500 {
		t.Fatalf("NextThreshold(4) = %v, %v", th, ok)
	}
	if _, ok := NextThreshold(5); ok {
		t.Fatal("NextThreshold(5) should report max level")
	}
}

func TestConfigure_Validation(t *testing.T) {
	if err := Configure([]float64{0, 10}, []int{5}, []Range{{0.1, 0.2}}); err == nil {
		t.Fatal("mismatched table lengths must be rejected")
	}
	if err := Configure([]float64{5, 10}, []int{5, 6}, []Range{{0.1, 0.2}, {0.1, 0.2}}); err == nil {
		t.Fatal("first threshold must be zero")
	}
	if err := Configure([]float64{0, 10}, []int{5, 6}, []Range{{0.1, 0.2}, {0.3, 0.2}}); err == nil {
		t.Fatal("inverted reward range must be rejected")
	}
	// Valid replacement, then restore defaults for other tests.
	if err := Configure([]float64{0, 100}, []int{3, 6}, []Range{{0.01, 0.02}, {0.03, 0.04}}); err != nil {
		t.Fatalf("valid Configure failed: %v", err)
	}
	if got := Level(100, 0); got != 1 {
		t.Fatalf("after Configure, Level(100,0) = %d, want 1", got)
	}
	if err := Configure(
		[]float64{0, 20, 50, 100, 200, 500},
		[]int{5, 10, 15, 20, 25, 30},
		[]Range{{0.05, 0.15}, {0.08, 0.20}, {0.10, 0.30}, {0.15, 0.40}, {0.20, 0.50}, {0.25, 0.75}},
	); err != nil {
		t.Fatalf("restoring defaults failed: %v", err)
	}
}
