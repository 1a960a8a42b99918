package app

import "math"

// Experience-to-level mapping: level 1 below 100 XP, then
// floor(sqrt(xp/100)) + 1. ExperienceThreshold is its inverse at level
// boundaries: the minimum XP required to hold a level.

// LevelFor returns the level for a cumulative experience total.
func LevelFor(totalExperience int) int {
	if totalExperience < 100 {
		return 1
	}
	return int(math.Sqrt(float64(totalExperience)/100)) + 1
}

// ExperienceThreshold returns the minimum experience required to be at level.
func ExperienceThreshold(level int) int {
	if level <= 1 {
		return 0
	}
	return (level - 1) * (level - 1) * 100
}

// ExperienceToNext returns how much experience is still missing to reach the
// next level, clamped at zero.
func ExperienceToNext(totalExperience int) int {
	level := LevelFor(totalExperience)
	missing := level*level*100 - totalExperience
	if missing < 0 {
		return 0
	}
	return missing
}
