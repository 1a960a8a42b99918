package app

import (
	"context"
	"time"

	"eduquiz-service/internal/domain"
)

// ProgressionService grades submissions and owns the user's progression
// snapshot. All state produced by one SubmitAnswer call commits as a single
// unit against the store.
type ProgressionService struct {
	catalog      QuestionCatalog
	store        ProgressionStore
	achievements AchievementStore
	feed         *Feed
	now          func() time.Time
}

func NewProgressionService(catalog QuestionCatalog, store ProgressionStore, achievements AchievementStore, feed *Feed) *ProgressionService {
	return &ProgressionService{
		catalog:      catalog,
		store:        store,
		achievements: achievements,
		feed:         feed,
		now:          time.Now,
	}
}

// SubmitAnswer grades the candidate answer and applies the progression rules:
// record the submission, bump experience and counters, recompute the level and
// unlock any newly qualified achievements. A malformed answer is an incorrect
// answer, not an error; an unknown question is ErrQuestionNotFound.
func (s *ProgressionService) SubmitAnswer(ctx context.Context, userID, questionID int64, answer domain.Answer) (domain.SubmissionResult, error) {
	question, err := s.catalog.GetQuestion(ctx, questionID)
	if err != nil {
		return domain.SubmissionResult{}, err
	}

	correct := Grade(question, answer)
	points := 0
	if correct {
		points = question.Points
		if points == 0 {
			points = 10
		}
	}

	now := s.now()
	result := domain.SubmissionResult{Question: question}

	err = s.store.InTx(ctx, func(tx Tx) error {
		submission := domain.Submission{
			UserID:       userID,
			QuestionID:   questionID,
			Answer:       answer,
			Correct:      correct,
			PointsEarned: points,
			SubmittedAt:  now,
		}
		if err := tx.CreateSubmission(ctx, &submission); err != nil {
			return err
		}

		snapshot, err := tx.SnapshotForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		oldLevel := snapshot.Level
		snapshot.TotalExperience += points
		snapshot.TotalQuestions++
		if correct {
			snapshot.TotalCorrect++
			snapshot.CurrentStreak++
			if snapshot.CurrentStreak > snapshot.MaxStreak {
				snapshot.MaxStreak = snapshot.CurrentStreak
			}
		} else {
			snapshot.CurrentStreak = 0
		}
		snapshot.Level = LevelFor(snapshot.TotalExperience)
		snapshot.UpdatedAt = now
		if err := tx.SaveSnapshot(ctx, snapshot); err != nil {
			return err
		}

		catalog, err := tx.ListAchievements(ctx)
		if err != nil {
			return err
		}
		unlockedIDs, err := tx.UnlockedIDs(ctx, userID)
		if err != nil {
			return err
		}
		newlyUnlocked := EvaluateUnlocks(snapshot, catalog, unlockedIDs)
		for _, a := range newlyUnlocked {
			unlock := domain.Unlock{UserID: userID, AchievementID: a.ID, UnlockedAt: now}
			if err := tx.CreateUnlock(ctx, &unlock); err != nil {
				return err
			}
		}

		result.Submission = submission
		result.LevelUp = snapshot.Level > oldLevel
		if result.LevelUp {
			result.NewLevel = snapshot.Level
		}
		result.NewlyUnlocked = newlyUnlocked
		return nil
	})
	if err != nil {
		return domain.SubmissionResult{}, err
	}

	if s.feed != nil {
		names := make([]string, 0, len(result.NewlyUnlocked))
		for _, a := range result.NewlyUnlocked {
			names = append(names, a.Name)
		}
		s.feed.Publish(domain.FeedEvent{
			UserID:        userID,
			QuestionID:    questionID,
			Correct:       correct,
			PointsEarned:  points,
			LevelUp:       result.LevelUp,
			NewLevel:      result.NewLevel,
			NewlyUnlocked: names,
			At:            now,
		})
	}
	return result, nil
}

// Level returns the user's progression readout, creating the default snapshot
// on first query. The create is insert-if-absent so a racing submission's
// snapshot is never clobbered with the zeroed default.
func (s *ProgressionService) Level(ctx context.Context, userID int64) (domain.LevelView, error) {
	snapshot, err := s.store.EnsureSnapshot(ctx, userID)
	if err != nil {
		return domain.LevelView{}, err
	}
	return domain.LevelView{
		Level:                 snapshot.Level,
		TotalExperience:       snapshot.TotalExperience,
		CurrentStreak:         snapshot.CurrentStreak,
		MaxStreak:             snapshot.MaxStreak,
		TotalCorrect:          snapshot.TotalCorrect,
		TotalQuestions:        snapshot.TotalQuestions,
		ExperienceToNextLevel: ExperienceToNext(snapshot.TotalExperience),
	}, nil
}

// Submissions returns the user's full submission history.
func (s *ProgressionService) Submissions(ctx context.Context, userID int64) ([]domain.Submission, error) {
	return s.store.ListSubmissions(ctx, userID)
}

// LatestSubmission returns the user's most recent submission for one question,
// or ErrSubmissionNotFound if the question was never attempted.
func (s *ProgressionService) LatestSubmission(ctx context.Context, userID, questionID int64) (domain.Submission, error) {
	submissions, err := s.store.ListSubmissions(ctx, userID)
	if err != nil {
		return domain.Submission{}, err
	}
	for i := len(submissions) - 1; i >= 0; i-- {
		if submissions[i].QuestionID == questionID {
			return submissions[i], nil
		}
	}
	return domain.Submission{}, domain.ErrSubmissionNotFound
}

// Unlocked returns the user's unlocked achievements, newest first.
func (s *ProgressionService) Unlocked(ctx context.Context, userID int64) ([]domain.UnlockedAchievement, error) {
	return s.achievements.ListUnlocked(ctx, userID)
}

// AvailableAchievements returns the full catalog, locked entries included.
func (s *ProgressionService) AvailableAchievements(ctx context.Context) ([]domain.Achievement, error) {
	return s.achievements.ListAchievements(ctx)
}
