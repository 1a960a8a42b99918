package app

import (
	"context"

	"eduquiz-service/internal/domain"
)

// QuestionCatalog is the cached read path used while grading. Admin writes go
// through CatalogStore; cached entries age out by TTL.
type QuestionCatalog interface {
	GetQuestion(ctx context.Context, id int64) (domain.Question, error)
	GetSubject(ctx context.Context, id int64) (domain.Subject, error)
}

// Tx is the transactional view of the durable store used by SubmitAnswer.
// Everything written through one Tx commits together or not at all.
type Tx interface {
	CreateSubmission(ctx context.Context, sub *domain.Submission) error
	// SnapshotForUpdate returns the user's snapshot, creating the default row
	// when absent, and keeps it locked for the rest of the unit so concurrent
	// submissions from the same user serialize on the read-modify-write.
	SnapshotForUpdate(ctx context.Context, userID int64) (domain.Snapshot, error)
	SaveSnapshot(ctx context.Context, snapshot domain.Snapshot) error
	ListAchievements(ctx context.Context) ([]domain.Achievement, error)
	UnlockedIDs(ctx context.Context, userID int64) (map[int64]struct{}, error)
	CreateUnlock(ctx context.Context, unlock *domain.Unlock) error
}

// ProgressionStore persists submissions and progression snapshots.
type ProgressionStore interface {
	// InTx runs fn inside one atomic unit; any error rolls the unit back.
	InTx(ctx context.Context, fn func(tx Tx) error) error
	GetSnapshot(ctx context.Context, userID int64) (domain.Snapshot, bool, error)
	// EnsureSnapshot returns the user's snapshot, inserting the default row if
	// absent. The insert never overwrites an existing row.
	EnsureSnapshot(ctx context.Context, userID int64) (domain.Snapshot, error)
	ListSubmissions(ctx context.Context, userID int64) ([]domain.Submission, error)
	ListSubmissionStats(ctx context.Context, userID int64) ([]domain.SubmissionStat, error)
}

// AchievementStore persists the achievement catalog and per-user unlocks.
type AchievementStore interface {
	ListAchievements(ctx context.Context) ([]domain.Achievement, error)
	CreateAchievement(ctx context.Context, a *domain.Achievement) error
	ListUnlocked(ctx context.Context, userID int64) ([]domain.UnlockedAchievement, error)
}

// CatalogStore is the administrative read/write side of subjects and questions.
type CatalogStore interface {
	ListSubjects(ctx context.Context) ([]domain.Subject, error)
	GetSubject(ctx context.Context, id int64) (domain.Subject, error)
	CreateSubject(ctx context.Context, s *domain.Subject) error
	UpdateSubject(ctx context.Context, s domain.Subject) error
	DeleteSubject(ctx context.Context, id int64) error
	ListQuestions(ctx context.Context, subjectID int64) ([]domain.Question, error)
	GetQuestion(ctx context.Context, id int64) (domain.Question, error)
	CreateQuestion(ctx context.Context, q *domain.Question) error
	UpdateQuestion(ctx context.Context, q domain.Question) error
	DeleteQuestion(ctx context.Context, id int64) error
}

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, id int64) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	ListStudents(ctx context.Context) ([]domain.User, error)
}

// FeedbackStore persists admin-to-student feedback messages.
type FeedbackStore interface {
	CreateFeedback(ctx context.Context, f *domain.Feedback) error
	ListFeedbackForStudent(ctx context.Context, studentID int64) ([]domain.Feedback, error)
}
