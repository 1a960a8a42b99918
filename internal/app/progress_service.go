package app

import (
	"context"
	"math"

	"eduquiz-service/internal/domain"
)

// ProgressService is the read-only reporting side: per-subject and overall
// accuracy/point rollups over a user's submission history.
type ProgressService struct {
	store ProgressionStore
	users UserStore
}

func NewProgressService(store ProgressionStore, users UserStore) *ProgressService {
	return &ProgressService{store: store, users: users}
}

// Summary rolls up one user's submissions, grouped by subject.
func (s *ProgressService) Summary(ctx context.Context, userID int64) (domain.ProgressSummary, error) {
	stats, err := s.store.ListSubmissionStats(ctx, userID)
	if err != nil {
		return domain.ProgressSummary{}, err
	}

	summary := domain.ProgressSummary{Subjects: []domain.SubjectProgress{}}
	bySubject := make(map[int64]*domain.SubjectProgress)
	var order []int64

	for _, stat := range stats {
		summary.Attempted++
		summary.Points += stat.PointsEarned
		if stat.Correct {
			summary.Correct++
		}

		group, ok := bySubject[stat.SubjectID]
		if !ok {
			group = &domain.SubjectProgress{SubjectID: stat.SubjectID, SubjectName: stat.SubjectName}
			bySubject[stat.SubjectID] = group
			order = append(order, stat.SubjectID)
		}
		group.Attempted++
		group.Points += stat.PointsEarned
		if stat.Correct {
			group.Correct++
		}
	}

	summary.Accuracy = accuracy(summary.Correct, summary.Attempted)
	for _, id := range order {
		group := bySubject[id]
		group.Accuracy = accuracy(group.Correct, group.Attempted)
		summary.Subjects = append(summary.Subjects, *group)
	}
	return summary, nil
}

// Scoreboard returns one score row per non-admin user for admin reporting.
func (s *ProgressService) Scoreboard(ctx context.Context) ([]domain.ScoreSummary, error) {
	students, err := s.users.ListStudents(ctx)
	if err != nil {
		return nil, err
	}

	scores := make([]domain.ScoreSummary, 0, len(students))
	for _, student := range students {
		stats, err := s.store.ListSubmissionStats(ctx, student.ID)
		if err != nil {
			return nil, err
		}
		row := domain.ScoreSummary{StudentID: student.ID, StudentName: student.FullName}
		for _, stat := range stats {
			row.Attempted++
			row.Points += stat.PointsEarned
			if stat.Correct {
				row.Correct++
			}
		}
		row.Accuracy = accuracy(row.Correct, row.Attempted)
		scores = append(scores, row)
	}
	return scores, nil
}

// accuracy is correct/attempted as a percentage rounded to two decimals, zero
// when nothing was attempted.
func accuracy(correct, attempted int) float64 {
	if attempted == 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(attempted)*100*100) / 100
}
