package app_test

import (
	"testing"

	"eduquiz-service/internal/app"
	"eduquiz-service/internal/domain"
)

func TestEvaluateUnlocks(t *testing.T) {
	catalog := []domain.Achievement{
		{ID: 1, Name: "Hot Streak", RequirementType: domain.RequireStreak, RequirementValue: 5},
		{ID: 2, Name: "Beginner", RequirementType: domain.RequireTotalCorrect, RequirementValue: 10},
		{ID: 3, Name: "Level 5", RequirementType: domain.RequireLevel, RequirementValue: 5},
		{ID: 4, Name: "Point Collector", RequirementType: domain.RequireTotalPoints, RequirementValue: 500},
	}
	snapshot := domain.Snapshot{
		Level:           5,
		TotalExperience: 480,
		CurrentStreak:   5,
		TotalCorrect:    9,
	}

	unlocked := app.EvaluateUnlocks(snapshot, catalog, nil)
	if len(unlocked) != 2 {
		t.Fatalf("expected 2 unlocks, got %d: %+v", len(unlocked), unlocked)
	}
	if unlocked[0].ID != 1 || unlocked[1].ID != 3 {
		t.Fatalf("expected streak and level unlocks, got %+v", unlocked)
	}
}

func TestEvaluateUnlocksSkipsAlreadyUnlocked(t *testing.T) {
	catalog := []domain.Achievement{
		{ID: 1, RequirementType: domain.RequireStreak, RequirementValue: 5},
	}
	snapshot := domain.Snapshot{CurrentStreak: 7}

	unlocked := app.EvaluateUnlocks(snapshot, catalog, map[int64]struct{}{1: {}})
	if len(unlocked) != 0 {
		t.Fatalf("expected no re-unlock, got %+v", unlocked)
	}
}

func TestEvaluateUnlocksUnknownRequirementNeverQualifies(t *testing.T) {
	catalog := []domain.Achievement{
		{ID: 1, RequirementType: domain.RequirementType("perfect_week"), RequirementValue: 1},
	}
	snapshot := domain.Snapshot{Level: 99, TotalCorrect: 999, CurrentStreak: 999, TotalExperience: 99999}

	if unlocked := app.EvaluateUnlocks(snapshot, catalog, nil); len(unlocked) != 0 {
		t.Fatalf("expected unknown requirement type to never qualify, got %+v", unlocked)
	}
}
