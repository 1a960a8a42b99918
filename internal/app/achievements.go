package app

import "eduquiz-service/internal/domain"

// EvaluateUnlocks returns the catalog entries the snapshot now qualifies for,
// skipping anything in alreadyUnlocked. Each check is independent, so catalog
// order does not affect the outcome. Unrecognized requirement types never
// qualify.
func EvaluateUnlocks(snapshot domain.Snapshot, catalog []domain.Achievement, alreadyUnlocked map[int64]struct{}) []domain.Achievement {
	var unlocked []domain.Achievement
	for _, a := range catalog {
		if _, ok := alreadyUnlocked[a.ID]; ok {
			continue
		}
		if qualifies(snapshot, a) {
			unlocked = append(unlocked, a)
		}
	}
	return unlocked
}

func qualifies(s domain.Snapshot, a domain.Achievement) bool {
	switch a.RequirementType {
	case domain.RequireStreak:
		return s.CurrentStreak >= a.RequirementValue
	case domain.RequireTotalCorrect:
		return s.TotalCorrect >= a.RequirementValue
	case domain.RequireLevel:
		return s.Level >= a.RequirementValue
	case domain.RequireTotalPoints:
		return s.TotalExperience >= a.RequirementValue
	default:
		return false
	}
}
