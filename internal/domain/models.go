package domain

import "time"

// QuestionType enumerates the supported question formats. The set is closed;
// grading treats anything else as incorrect.
type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	DragDrop       QuestionType = "drag_drop"
	FillBlank      QuestionType = "fill_blank"
	TrueFalse      QuestionType = "true_false"
)

// RequirementType enumerates achievement unlock conditions.
type RequirementType string

const (
	RequireStreak       RequirementType = "streak"
	RequireTotalCorrect RequirementType = "total_correct"
	RequireLevel        RequirementType = "level"
	RequireTotalPoints  RequirementType = "total_points"
)

// User is a registered account; students submit answers, admins manage the catalog.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	FullName       string    `json:"fullName"`
	HashedPassword string    `json:"-"`
	IsAdmin        bool      `json:"isAdmin"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Subject groups questions into a course area.
type Subject struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Question is a catalog entry. Options apply to multiple choice and drag/drop;
// Key holds the answer key whose populated fields depend on Type.
type Question struct {
	ID          int64        `json:"id"`
	SubjectID   int64        `json:"subjectId"`
	Type        QuestionType `json:"questionType"`
	Text        string       `json:"questionText"`
	Options     []string     `json:"options,omitempty"`
	Key         Answer       `json:"correctAnswer"`
	Explanation string       `json:"explanation,omitempty"`
	Points      int          `json:"points"` // defaults to 10 if zero
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Submission is an immutable record of one graded answer. There is no
// uniqueness constraint: the same user may answer the same question again.
type Submission struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	QuestionID   int64     `json:"questionId"`
	Answer       Answer    `json:"answer"`
	Correct      bool      `json:"isCorrect"`
	PointsEarned int       `json:"pointsEarned"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// Snapshot is the mutable progression state for one user, created lazily on
// first submission or first query. Level is always derived from
// TotalExperience and never drifts out of sync.
type Snapshot struct {
	UserID          int64     `json:"userId"`
	Level           int       `json:"level"`
	TotalExperience int       `json:"totalExperience"`
	CurrentStreak   int       `json:"currentStreak"`
	MaxStreak       int       `json:"maxStreak"`
	TotalCorrect    int       `json:"totalCorrect"`
	TotalQuestions  int       `json:"totalQuestions"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// NewSnapshot returns the default state for a user with no submissions.
func NewSnapshot(userID int64) Snapshot {
	return Snapshot{UserID: userID, Level: 1}
}

// Achievement is a catalog definition created by administrators.
type Achievement struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Icon             string          `json:"icon"`
	RequirementType  RequirementType `json:"requirementType"`
	RequirementValue int             `json:"requirementValue"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// Unlock records that a user satisfied an achievement; at most one per
// (user, achievement) pair, never revoked.
type Unlock struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"userId"`
	AchievementID int64     `json:"achievementId"`
	UnlockedAt    time.Time `json:"unlockedAt"`
}

// UnlockedAchievement pairs a catalog definition with its unlock time for display.
type UnlockedAchievement struct {
	Achievement Achievement `json:"achievement"`
	UnlockedAt  time.Time   `json:"unlockedAt"`
}

// Feedback is a message from an admin to a student.
type Feedback struct {
	ID        int64     `json:"id"`
	StudentID int64     `json:"studentId"`
	AdminID   int64     `json:"adminId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubmissionResult is the enriched outcome of grading one answer.
type SubmissionResult struct {
	Submission    Submission    `json:"submission"`
	Question      Question      `json:"question"`
	LevelUp       bool          `json:"levelUp"`
	NewLevel      int           `json:"newLevel,omitempty"`
	NewlyUnlocked []Achievement `json:"newlyUnlocked,omitempty"`
}

// LevelView is the student-facing progression readout.
type LevelView struct {
	Level                 int `json:"level"`
	TotalExperience       int `json:"totalExperience"`
	CurrentStreak         int `json:"currentStreak"`
	MaxStreak             int `json:"maxStreak"`
	TotalCorrect          int `json:"totalCorrect"`
	TotalQuestions        int `json:"totalQuestions"`
	ExperienceToNextLevel int `json:"experienceToNextLevel"`
}

// SubjectProgress is the per-subject slice of a progress summary.
type SubjectProgress struct {
	SubjectID   int64   `json:"subjectId"`
	SubjectName string  `json:"subjectName"`
	Attempted   int     `json:"totalQuestions"`
	Correct     int     `json:"correctAnswers"`
	Points      int     `json:"totalPoints"`
	Accuracy    float64 `json:"accuracy"`
}

// ProgressSummary rolls up a user's submission history.
type ProgressSummary struct {
	Attempted int               `json:"totalQuestionsAttempted"`
	Correct   int               `json:"totalCorrect"`
	Points    int               `json:"totalPoints"`
	Accuracy  float64           `json:"accuracy"`
	Subjects  []SubjectProgress `json:"subjects"`
}

// ScoreSummary is one roster row of the admin scoreboard.
type ScoreSummary struct {
	StudentID   int64   `json:"studentId"`
	StudentName string  `json:"studentName"`
	Attempted   int     `json:"totalQuestions"`
	Correct     int     `json:"correctAnswers"`
	Points      int     `json:"totalPoints"`
	Accuracy    float64 `json:"accuracy"`
}

// SubmissionStat is a submission joined with its question's subject, the unit
// the progress aggregator consumes.
type SubmissionStat struct {
	SubjectID    int64
	SubjectName  string
	Correct      bool
	PointsEarned int
}

// FeedEvent is one graded submission as broadcast to live dashboards.
type FeedEvent struct {
	UserID        int64     `json:"userId"`
	QuestionID    int64     `json:"questionId"`
	Correct       bool      `json:"correct"`
	PointsEarned  int       `json:"pointsEarned"`
	LevelUp       bool      `json:"levelUp"`
	NewLevel      int       `json:"newLevel,omitempty"`
	NewlyUnlocked []string  `json:"newlyUnlocked,omitempty"`
	At            time.Time `json:"at"`
}
