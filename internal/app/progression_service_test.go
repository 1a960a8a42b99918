package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"eduquiz-service/internal/app"
	"eduquiz-service/internal/domain"
	"eduquiz-service/internal/infra/memory"
)

type progressionFixture struct {
	service  *app.ProgressionService
	store    *memory.Store
	feed     *app.Feed
	question domain.Question
}

func newProgressionFixture(t *testing.T) *progressionFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	subject := domain.Subject{Name: "Mathematics"}
	if err := store.CreateSubject(ctx, &subject); err != nil {
		t.Fatalf("create subject: %v", err)
	}
	question := domain.Question{
		SubjectID: subject.ID,
		Type:      domain.MultipleChoice,
		Text:      "What is 2 + 2?",
		Options:   []string{"3", "4", "5", "6"},
		Key:       domain.SelectedAnswer(1),
		Points:    10,
	}
	if err := store.CreateQuestion(ctx, &question); err != nil {
		t.Fatalf("create question: %v", err)
	}

	feed := app.NewFeed()
	catalog := memory.NewCatalogCache(store, time.Minute)
	return &progressionFixture{
		service:  app.NewProgressionService(catalog, store, store, feed),
		store:    store,
		feed:     feed,
		question: question,
	}
}

func (f *progressionFixture) addAchievement(t *testing.T, a domain.Achievement) domain.Achievement {
	t.Helper()
	if err := f.store.CreateAchievement(context.Background(), &a); err != nil {
		t.Fatalf("create achievement: %v", err)
	}
	return a
}

func TestSubmitAnswerCorrect(t *testing.T) {
	ctx := context.Background()
	f := newProgressionFixture(t)

	result, err := f.service.SubmitAnswer(ctx, 100, f.question.ID, domain.SelectedAnswer(1))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !result.Submission.Correct || result.Submission.PointsEarned != 10 {
		t.Fatalf("expected correct submission worth 10 points, got %+v", result.Submission)
	}
	if result.LevelUp {
		t.Fatalf("10 experience should not level up")
	}

	view, err := f.service.Level(ctx, 100)
	if err != nil {
		t.Fatalf("level: %v", err)
	}
	if view.Level != 1 || view.TotalExperience != 10 || view.CurrentStreak != 1 || view.TotalCorrect != 1 || view.TotalQuestions != 1 {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestSubmitAnswerIncorrectEarnsNothing(t *testing.T) {
	ctx := context.Background()
	f := newProgressionFixture(t)

	result, err := f.service.SubmitAnswer(ctx, 100, f.question.ID, domain.SelectedAnswer(0))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Submission.Correct || result.Submission.PointsEarned != 0 {
		t.Fatalf("expected incorrect submission worth 0 points, got %+v", result.Submission)
	}

	view, _ := f.service.Level(ctx, 100)
	if view.TotalExperience != 0 || view.TotalCorrect != 0 || view.TotalQuestions != 1 {
		t.Fatalf("unexpected view after miss: %+v", view)
	}
}

func TestLevelUpAtHundredExperience(t *testing.T) {
	ctx := context.Background()
	f := newProgressionFixture(t)

	for i := 0; i < 9; i++ {
		result, err := f.service.SubmitAnswer(ctx, 7, f.question.ID, domain.SelectedAnswer(1))
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		if result.LevelUp {
			t.Fatalf("submission %d should not level up yet", i)
		}
	}

	result, err := f.service.SubmitAnswer(ctx, 7, f.question.ID, domain.SelectedAnswer(1))
	if err != nil {
		t.Fatalf("tenth submit: %v", err)
	}
	if !result.LevelUp || result.NewLevel != 2 {
		t.Fatalf("expected level up to 2 at 100 experience, got %+v", result)
	}

	view, _ := f.service.Level(ctx, 7)
	if view.Level != 2 || view.TotalExperience != 100 || view.CurrentStreak != 10 || view.MaxStreak != 10 {
		t.Fatalf("unexpected view: %+v", view)
	}
	if view.ExperienceToNextLevel != 300 {
		t.Fatalf("expected 300 experience to level 3, got %d", view.ExperienceToNextLevel)
	}
}

func TestStreakResetKeepsMax(t *testing.T) {
	ctx := context.Background()
	f := newProgressionFixture(t)

	for i := 0; i < 3; i++ {
		if _, err := f.service.SubmitAnswer(ctx, 5, f.question.ID, domain.SelectedAnswer(1)); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	if _, err := f.service.SubmitAnswer(ctx, 5, f.question.ID, domain.SelectedAnswer(0)); err != nil {
		t.Fatalf("submit wrong: %v", err)
	}

	view, _ := f.service.Level(ctx, 5)
	if view.CurrentStreak != 0 || view.MaxStreak != 3 {
		t.Fatalf("expected streak 0 with max 3, got %+v", view)
	}
}

func TestAchievementUnlocksExactlyOnce(t *testing.T) {
	ctx := context.Background()
	f := newProgressionFixture(t)
	streak := f.addAchievement(t, domain.Achievement{
		Name: "Hot Streak", RequirementType: domain.RequireStreak, RequirementValue: 3,
	})

	for i := 0; i < 2; i++ {
		result, err := f.service.SubmitAnswer(ctx, 9, f.question.ID, domain.SelectedAnswer(1))
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if len(result.NewlyUnlocked) != 0 {
			t.Fatalf("unlocked too early: %+v", result.NewlyUnlocked)
		}
	}

	result, err := f.service.SubmitAnswer(ctx, 9, f.question.ID, domain.SelectedAnswer(1))
	if err != nil {
		t.Fatalf("third submit: %v", err)
	}
	if len(result.NewlyUnlocked) != 1 || result.NewlyUnlocked[0].ID != streak.ID {
		t.Fatalf("expected streak unlock, got %+v", result.NewlyUnlocked)
	}

	// Break the streak and earn it back; the unlock must not repeat.
	if _, err := f.service.SubmitAnswer(ctx, 9, f.question.ID, domain.SelectedAnswer(0)); err != nil {
		t.Fatalf("submit wrong: %v", err)
	}
	for i := 0; i < 3; i++ {
		result, err = f.service.SubmitAnswer(ctx, 9, f.question.ID, domain.SelectedAnswer(1))
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if len(result.NewlyUnlocked) != 0 {
			t.Fatalf("expected no re-unlock, got %+v", result.NewlyUnlocked)
		}
	}

	unlocked, err := f.service.Unlocked(ctx, 9)
	if err != nil {
		t.Fatalf("unlocked: %v", err)
	}
	if len(unlocked) != 1 {
		t.Fatalf("expected exactly one unlock, got %d", len(unlocked))
	}
}

func TestSubmitAnswerUnknownQuestion(t *testing.T) {
	f := newProgressionFixture(t)

	_, err := f.service.SubmitAnswer(context.Background(), 1, 9999, domain.SelectedAnswer(0))
	if !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestSubmitAnswerDefaultsPoints(t *testing.T) {
	ctx := context.Background()
	f := newProgressionFixture(t)

	question := domain.Question{
		SubjectID: f.question.SubjectID,
		Type:      domain.TrueFalse,
		Text:      "Water boils at 100C at sea level.",
		Key:       domain.BoolAnswer(true),
	}
	if err := f.store.CreateQuestion(ctx, &question); err != nil {
		t.Fatalf("create question: %v", err)
	}

	result, err := f.service.SubmitAnswer(ctx, 2, question.ID, domain.BoolAnswer(true))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Submission.PointsEarned != 10 {
		t.Fatalf("expected default 10 points, got %d", result.Submission.PointsEarned)
	}
}

func TestSubmitAnswerPublishesFeedEvent(t *testing.T) {
	ctx := context.Background()
	f := newProgressionFixture(t)

	events, cancel := f.feed.Subscribe()
	defer cancel()

	if _, err := f.service.SubmitAnswer(ctx, 3, f.question.ID, domain.SelectedAnswer(1)); err != nil {
		t.Fatalf("submit: %v", err)
	}

	select {
	case event := <-events:
		if event.UserID != 3 || !event.Correct || event.PointsEarned != 10 {
			t.Fatalf("unexpected event: %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected feed event")
	}
}

func TestConcurrentSubmissionsSameUserLoseNothing(t *testing.T) {
	ctx := context.Background()
	f := newProgressionFixture(t)

	const workers = 8
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			_, err := f.service.SubmitAnswer(ctx, 11, f.question.ID, domain.SelectedAnswer(1))
			errs <- err
		}()
	}
	for i := 0; i < workers; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	view, err := f.service.Level(ctx, 11)
	if err != nil {
		t.Fatalf("level: %v", err)
	}
	if view.TotalExperience != workers*10 || view.TotalQuestions != workers || view.TotalCorrect != workers {
		t.Fatalf("expected every submission counted, got %+v", view)
	}
}

func TestLatestSubmissionReturnsMostRecent(t *testing.T) {
	ctx := context.Background()
	f := newProgressionFixture(t)

	if _, err := f.service.SubmitAnswer(ctx, 6, f.question.ID, domain.SelectedAnswer(0)); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.service.SubmitAnswer(ctx, 6, f.question.ID, domain.SelectedAnswer(1)); err != nil {
		t.Fatalf("submit: %v", err)
	}

	submission, err := f.service.LatestSubmission(ctx, 6, f.question.ID)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if !submission.Correct || submission.QuestionID != f.question.ID {
		t.Fatalf("expected the second, correct submission, got %+v", submission)
	}

	if _, err := f.service.LatestSubmission(ctx, 6, 9999); !errors.Is(err, domain.ErrSubmissionNotFound) {
		t.Fatalf("expected ErrSubmissionNotFound, got %v", err)
	}
}

func TestLevelCreatesDefaultSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newProgressionFixture(t)

	view, err := f.service.Level(ctx, 42)
	if err != nil {
		t.Fatalf("level: %v", err)
	}
	if view.Level != 1 || view.TotalExperience != 0 || view.ExperienceToNextLevel != 100 {
		t.Fatalf("unexpected default view: %+v", view)
	}

	if _, found, err := f.store.GetSnapshot(ctx, 42); err != nil || !found {
		t.Fatalf("expected snapshot persisted, found=%v err=%v", found, err)
	}
}
