package app_test

import (
	"testing"

	"eduquiz-service/internal/app"
)

func TestLevelFor(t *testing.T) {
	cases := []struct {
		xp    int
		level int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{399, 2},
		{400, 3},
		{899, 3},
		{900, 4},
		{2500, 6},
	}
	for _, c := range cases {
		if got := app.LevelFor(c.xp); got != c.level {
			t.Fatalf("LevelFor(%d) = %d, want %d", c.xp, got, c.level)
		}
	}
}

func TestExperienceThresholdIsLevelBoundary(t *testing.T) {
	if app.ExperienceThreshold(1) != 0 {
		t.Fatalf("level 1 threshold should be 0")
	}
	for level := 2; level <= 20; level++ {
		threshold := app.ExperienceThreshold(level)
		if got := app.LevelFor(threshold); got != level {
			t.Fatalf("LevelFor(threshold %d) = %d, want %d", threshold, got, level)
		}
		if got := app.LevelFor(threshold - 1); got != level-1 {
			t.Fatalf("LevelFor(%d) = %d, want %d", threshold-1, got, level-1)
		}
	}
}

func TestExperienceToNext(t *testing.T) {
	if got := app.ExperienceToNext(0); got != 100 {
		t.Fatalf("ExperienceToNext(0) = %d, want 100", got)
	}
	if got := app.ExperienceToNext(100); got != 300 {
		t.Fatalf("ExperienceToNext(100) = %d, want 300", got)
	}
	if got := app.ExperienceToNext(350); got != 50 {
		t.Fatalf("ExperienceToNext(350) = %d, want 50", got)
	}
}
