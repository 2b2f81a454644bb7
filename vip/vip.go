// Package vip maps cumulative deposit+earning activity to a VIP level and a
// VIP level to its daily task quota and dynamic reward range. The tables are
// package configuration, not hard-coded business logic; Configure replaces
// them wholesale for deployments with different tiers.
package vip

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"
)

// Range bounds a dynamically generated task reward for one tier.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

var (
	mu sync.RWMutex

	// Cumulative activity (total_deposited + total_earned) required to hold
	// each level, ascending.
	thresholds = []float64{0, 20, 50, 100, 200, 500}

	// Distinct task completions allowed per calendar day at each level.
	dailyLimits = []int{5, 10, 15, 20, 25, 30}

	rewardRanges = []Range{
		{Min: 0.05, Max: 0.15},
		{Min: 0.08, Max: 0.20},
		{Min: 0.10, Max: 0.30},
		{Min: 0.15, Max: 0.40},
		{Min: 0.20, Max: 0.50},
		{Min: 0.25, Max: 0.75},
	}

	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// Configure replaces all three tables. The slices must be the same length,
// thresholds strictly ascending from 0, limits positive, ranges well-formed.
func Configure(newThresholds []float64, newLimits []int, newRanges []Range) error {
	n := len(newThresholds)
	if n == 0 || len(newLimits) != n || len(newRanges) != n {
		return errors.New("vip: tables must be non-empty and the same length")
	}
	if newThresholds[0] != 0 {
		return errors.New("vip: first threshold must be 0")
	}
	for i := 1; i < n; i++ {
		if newThresholds[i] <= newThresholds[i-1] {
			return fmt.Errorf("vip: thresholds must ascend (index %d)", i)
		}
	}
	for i, l := range newLimits {
		if l <= 0 {
			return fmt.Errorf("vip: daily limit at level %d must be positive", i)
		}
	}
	for i, r := range newRanges {
		if r.Min <= 0 || r.Max < r.Min {
			return fmt.Errorf("vip: invalid reward range at level %d", i)
		}
	}
	mu.Lock()
	defer mu.Unlock()
	thresholds = append([]float64(nil), newThresholds...)
	dailyLimits = append([]int(nil), newLimits...)
	rewardRanges = append([]Range(nil), newRanges...)
	return nil
}

// MaxLevel is the highest attainable level under the current tables.
func MaxLevel() int {
	mu.RLock()
	defer mu.RUnlock()
	return len(thresholds) - 1
}

// Level returns the VIP level for the given activity totals. Monotonic in
// totalDeposited+totalEarned.
func Level(totalDeposited, totalEarned float64) int {
	activity := totalDeposited + totalEarned
	mu.RLock()
	defer mu.RUnlock()
	level := 0
	for i, th := range thresholds {
		if activity >= th {
			level = i
		}
	}
	return level
}

// DailyTaskLimit returns the task quota for a level. Out-of-range levels are
// clamped so a stale persisted level can never panic.
func DailyTaskLimit(level int) int {
	mu.RLock()
	defer mu.RUnlock()
	return dailyLimits[clamp(level, len(dailyLimits))]
}

// RewardRange returns the dynamic reward bounds for a level.
func RewardRange(level int) Range {
	mu.RLock()
	defer mu.RUnlock()
	return rewardRanges[clamp(level, len(rewardRanges))]
}

// Threshold returns the activity required to hold a level.
func Threshold(level int) float64 {
	mu.RLock()
	defer mu.RUnlock()
	return thresholds[clamp(level, len(thresholds))]
}

// NextThreshold returns the activity required for the next level, or false
// when the level is already the highest.
func NextThreshold(level int) (float64, bool) {
	mu.RLock()
	defer mu.RUnlock()
	if level < 0 {
		level = 0
	}
	if level >= len(thresholds)-1 {
		return 0, false
	}
	return thresholds[level+1], true
}

// TaskReward draws a random reward within the level's range, rounded to
// cents.
func TaskReward(level int) float64 {
	r := RewardRange(level)
	rngMu.Lock()
	v := r.Min + rng.Float64()*(r.Max-r.Min)
	rngMu.Unlock()
	return math.Round(v*100) / 100
}

func clamp(level, n int) int {
	if level < 0 {
		return 0
	}
	if level >= n {
		return n - 1
	}
	return level
}
