package postgres

import (
	"time"

	"github.com/uptrace/bun"

	"eduquiz-service/internal/domain"
)

type userRow struct {
	bun.BaseModel `bun:"table:users"`

	ID             int64     `bun:"id,pk,autoincrement"`
	Username       string    `bun:"username"`
	Email          string    `bun:"email"`
	HashedPassword string    `bun:"hashed_password"`
	FullName       string    `bun:"full_name"`
	IsAdmin        bool      `bun:"is_admin"`
	CreatedAt      time.Time `bun:"created_at,nullzero,default:now()"`
}

func (r userRow) toDomain() domain.User {
	return domain.User{
		ID:             r.ID,
		Username:       r.Username,
		Email:          r.Email,
		FullName:       r.FullName,
		HashedPassword: r.HashedPassword,
		IsAdmin:        r.IsAdmin,
		CreatedAt:      r.CreatedAt,
	}
}

type subjectRow struct {
	bun.BaseModel `bun:"table:subjects"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Name        string    `bun:"name"`
	Description string    `bun:"description"`
	CreatedAt   time.Time `bun:"created_at,nullzero,default:now()"`
}

func (r subjectRow) toDomain() domain.Subject {
	return domain.Subject{ID: r.ID, Name: r.Name, Description: r.Description, CreatedAt: r.CreatedAt}
}

type questionRow struct {
	bun.BaseModel `bun:"table:questions"`

	ID          int64         `bun:"id,pk,autoincrement"`
	SubjectID   int64         `bun:"subject_id"`
	Type        string        `bun:"question_type"`
	Text        string        `bun:"question_text"`
	Options     []string      `bun:"options,type:jsonb,nullzero"`
	Key         domain.Answer `bun:"correct_answer,type:jsonb"`
	Explanation string        `bun:"explanation"`
	Points      int           `bun:"points"`
	CreatedAt   time.Time     `bun:"created_at,nullzero,default:now()"`
	UpdatedAt   time.Time     `bun:"updated_at,nullzero,default:now()"`
}

func (r questionRow) toDomain() domain.Question {
	return domain.Question{
		ID:          r.ID,
		SubjectID:   r.SubjectID,
		Type:        domain.QuestionType(r.Type),
		Text:        r.Text,
		Options:     r.Options,
		Key:         r.Key,
		Explanation: r.Explanation,
		Points:      r.Points,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func questionToRow(q domain.Question) questionRow {
	return questionRow{
		ID:          q.ID,
		SubjectID:   q.SubjectID,
		Type:        string(q.Type),
		Text:        q.Text,
		Options:     q.Options,
		Key:         q.Key,
		Explanation: q.Explanation,
		Points:      q.Points,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
}

type submissionRow struct {
	bun.BaseModel `bun:"table:quiz_submissions"`

	ID           int64         `bun:"id,pk,autoincrement"`
	UserID       int64         `bun:"user_id"`
	QuestionID   int64         `bun:"question_id"`
	Answer       domain.Answer `bun:"answer,type:jsonb"`
	Correct      bool          `bun:"is_correct"`
	PointsEarned int           `bun:"points_earned"`
	SubmittedAt  time.Time     `bun:"submitted_at,nullzero,default:now()"`
}

func (r submissionRow) toDomain() domain.Submission {
	return domain.Submission{
		ID:           r.ID,
		UserID:       r.UserID,
		QuestionID:   r.QuestionID,
		Answer:       r.Answer,
		Correct:      r.Correct,
		PointsEarned: r.PointsEarned,
		SubmittedAt:  r.SubmittedAt,
	}
}

type snapshotRow struct {
	bun.BaseModel `bun:"table:user_levels"`

	UserID          int64     `bun:"user_id,pk"`
	Level           int       `bun:"level"`
	TotalExperience int       `bun:"total_experience"`
	CurrentStreak   int       `bun:"current_streak"`
	MaxStreak       int       `bun:"max_streak"`
	TotalCorrect    int       `bun:"total_correct"`
	TotalQuestions  int       `bun:"total_questions"`
	UpdatedAt       time.Time `bun:"updated_at,nullzero,default:now()"`
}

func (r snapshotRow) toDomain() domain.Snapshot {
	return domain.Snapshot{
		UserID:          r.UserID,
		Level:           r.Level,
		TotalExperience: r.TotalExperience,
		CurrentStreak:   r.CurrentStreak,
		MaxStreak:       r.MaxStreak,
		TotalCorrect:    r.TotalCorrect,
		TotalQuestions:  r.TotalQuestions,
		UpdatedAt:       r.UpdatedAt,
	}
}

func snapshotToRow(s domain.Snapshot) snapshotRow {
	return snapshotRow{
		UserID:          s.UserID,
		Level:           s.Level,
		TotalExperience: s.TotalExperience,
		CurrentStreak:   s.CurrentStreak,
		MaxStreak:       s.MaxStreak,
		TotalCorrect:    s.TotalCorrect,
		TotalQuestions:  s.TotalQuestions,
		UpdatedAt:       s.UpdatedAt,
	}
}

type achievementRow struct {
	bun.BaseModel `bun:"table:achievements"`

	ID               int64     `bun:"id,pk,autoincrement"`
	Name             string    `bun:"name"`
	Description      string    `bun:"description"`
	Icon             string    `bun:"icon"`
	RequirementType  string    `bun:"requirement_type"`
	RequirementValue int       `bun:"requirement_value"`
	CreatedAt        time.Time `bun:"created_at,nullzero,default:now()"`
}

func (r achievementRow) toDomain() domain.Achievement {
	return domain.Achievement{
		ID:               r.ID,
		Name:             r.Name,
		Description:      r.Description,
		Icon:             r.Icon,
		RequirementType:  domain.RequirementType(r.RequirementType),
		RequirementValue: r.RequirementValue,
		CreatedAt:        r.CreatedAt,
	}
}

type unlockRow struct {
	bun.BaseModel `bun:"table:user_achievements"`

	ID            int64     `bun:"id,pk,autoincrement"`
	UserID        int64     `bun:"user_id"`
	AchievementID int64     `bun:"achievement_id"`
	UnlockedAt    time.Time `bun:"unlocked_at,nullzero,default:now()"`
}

type feedbackRow struct {
	bun.BaseModel `bun:"table:feedbacks"`

	ID        int64     `bun:"id,pk,autoincrement"`
	StudentID int64     `bun:"student_id"`
	AdminID   int64     `bun:"admin_id"`
	Message   string    `bun:"message"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:now()"`
}

func (r feedbackRow) toDomain() domain.Feedback {
	return domain.Feedback{
		ID:        r.ID,
		StudentID: r.StudentID,
		AdminID:   r.AdminID,
		Message:   r.Message,
		CreatedAt: r.CreatedAt,
	}
}
