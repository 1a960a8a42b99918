package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"eduquiz-service/internal/app"
	"eduquiz-service/internal/domain"
)

// Store is the bun-backed durable store. It implements every app repository
// interface; InTx hands callers a transaction-scoped copy so the submission,
// snapshot and unlock writes of one grading call commit atomically.
type Store struct {
	db bun.IDB
}

func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

// InTx runs fn inside a database transaction. Nested calls reuse the
// surrounding transaction.
func (s *Store) InTx(ctx context.Context, fn func(tx app.Tx) error) error {
	db, ok := s.db.(*bun.DB)
	if !ok {
		return fn(s)
	}
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) CreateSubmission(ctx context.Context, sub *domain.Submission) error {
	row := submissionRow{
		UserID:       sub.UserID,
		QuestionID:   sub.QuestionID,
		Answer:       sub.Answer,
		Correct:      sub.Correct,
		PointsEarned: sub.PointsEarned,
		SubmittedAt:  sub.SubmittedAt,
	}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	sub.ID = row.ID
	return nil
}

func (s *Store) GetSnapshot(ctx context.Context, userID int64) (domain.Snapshot, bool, error) {
	var row snapshotRow
	err := s.db.NewSelect().Model(&row).Where("user_id = ?", userID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Snapshot{}, false, nil
	}
	if err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("select snapshot: %w", err)
	}
	return row.toDomain(), true, nil
}

// seedSnapshotRow inserts the default snapshot for the user if none exists.
// The conflict target is the primary key, so an existing row is left intact.
func (s *Store) seedSnapshotRow(ctx context.Context, userID int64) error {
	row := snapshotToRow(domain.NewSnapshot(userID))
	_, err := s.db.NewInsert().Model(&row).
		On("CONFLICT (user_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("seed snapshot: %w", err)
	}
	return nil
}

// SnapshotForUpdate seeds the default row if absent, then reads it under a
// row lock. Two submissions from the same user serialize here: the second
// blocks on the lock until the first commits its SaveSnapshot, so neither
// read-modify-write can be lost.
func (s *Store) SnapshotForUpdate(ctx context.Context, userID int64) (domain.Snapshot, error) {
	if err := s.seedSnapshotRow(ctx, userID); err != nil {
		return domain.Snapshot{}, err
	}
	var row snapshotRow
	err := s.db.NewSelect().Model(&row).
		Where("user_id = ?", userID).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("select snapshot for update: %w", err)
	}
	return row.toDomain(), nil
}

// EnsureSnapshot seeds the default row if absent and returns the current one.
func (s *Store) EnsureSnapshot(ctx context.Context, userID int64) (domain.Snapshot, error) {
	if err := s.seedSnapshotRow(ctx, userID); err != nil {
		return domain.Snapshot{}, err
	}
	var row snapshotRow
	err := s.db.NewSelect().Model(&row).Where("user_id = ?", userID).Scan(ctx)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("select snapshot: %w", err)
	}
	return row.toDomain(), nil
}

func (s *Store) SaveSnapshot(ctx context.Context, snapshot domain.Snapshot) error {
	row := snapshotToRow(snapshot)
	_, err := s.db.NewInsert().Model(&row).
		On("CONFLICT (user_id) DO UPDATE").
		Set("level = EXCLUDED.level").
		Set("total_experience = EXCLUDED.total_experience").
		Set("current_streak = EXCLUDED.current_streak").
		Set("max_streak = EXCLUDED.max_streak").
		Set("total_correct = EXCLUDED.total_correct").
		Set("total_questions = EXCLUDED.total_questions").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

func (s *Store) ListSubmissions(ctx context.Context, userID int64) ([]domain.Submission, error) {
	var rows []submissionRow
	if err := s.db.NewSelect().Model(&rows).Where("user_id = ?", userID).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("select submissions: %w", err)
	}
	out := make([]domain.Submission, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (s *Store) ListSubmissionStats(ctx context.Context, userID int64) ([]domain.SubmissionStat, error) {
	var stats []struct {
		SubjectID    int64  `bun:"subject_id"`
		SubjectName  string `bun:"subject_name"`
		Correct      bool   `bun:"is_correct"`
		PointsEarned int    `bun:"points_earned"`
	}
	err := s.db.NewRaw(`
		SELECT q.subject_id, subj.name AS subject_name, sub.is_correct, sub.points_earned
		FROM quiz_submissions sub
		JOIN questions q ON q.id = sub.question_id
		JOIN subjects subj ON subj.id = q.subject_id
		WHERE sub.user_id = ?
		ORDER BY sub.id`, userID).Scan(ctx, &stats)
	if err != nil {
		return nil, fmt.Errorf("select submission stats: %w", err)
	}
	out := make([]domain.SubmissionStat, 0, len(stats))
	for _, row := range stats {
		out = append(out, domain.SubmissionStat{
			SubjectID:    row.SubjectID,
			SubjectName:  row.SubjectName,
			Correct:      row.Correct,
			PointsEarned: row.PointsEarned,
		})
	}
	return out, nil
}

func (s *Store) ListAchievements(ctx context.Context) ([]domain.Achievement, error) {
	var rows []achievementRow
	if err := s.db.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("select achievements: %w", err)
	}
	out := make([]domain.Achievement, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (s *Store) CreateAchievement(ctx context.Context, a *domain.Achievement) error {
	exists, err := s.db.NewSelect().Model((*achievementRow)(nil)).Where("name = ?", a.Name).Exists(ctx)
	if err != nil {
		return fmt.Errorf("check achievement name: %w", err)
	}
	if exists {
		return domain.ErrDuplicateAchievement
	}
	row := achievementRow{
		Name:             a.Name,
		Description:      a.Description,
		Icon:             a.Icon,
		RequirementType:  string(a.RequirementType),
		RequirementValue: a.RequirementValue,
		CreatedAt:        a.CreatedAt,
	}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("insert achievement: %w", err)
	}
	a.ID = row.ID
	return nil
}

func (s *Store) UnlockedIDs(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	var ids []int64
	err := s.db.NewSelect().Model((*unlockRow)(nil)).
		Column("achievement_id").
		Where("user_id = ?", userID).
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("select unlocked ids: %w", err)
	}
	out := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

func (s *Store) CreateUnlock(ctx context.Context, unlock *domain.Unlock) error {
	row := unlockRow{
		UserID:        unlock.UserID,
		AchievementID: unlock.AchievementID,
		UnlockedAt:    unlock.UnlockedAt,
	}
	_, err := s.db.NewInsert().Model(&row).
		On("CONFLICT (user_id, achievement_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("insert unlock: %w", err)
	}
	unlock.ID = row.ID
	return nil
}

func (s *Store) ListUnlocked(ctx context.Context, userID int64) ([]domain.UnlockedAchievement, error) {
	var rows []struct {
		ID               int64     `bun:"id"`
		Name             string    `bun:"name"`
		Description      string    `bun:"description"`
		Icon             string    `bun:"icon"`
		RequirementType  string    `bun:"requirement_type"`
		RequirementValue int       `bun:"requirement_value"`
		CreatedAt        time.Time `bun:"created_at"`
		UnlockedAt       time.Time `bun:"unlocked_at"`
	}
	err := s.db.NewRaw(`
		SELECT a.id, a.name, a.description, a.icon, a.requirement_type,
		       a.requirement_value, a.created_at, ua.unlocked_at
		FROM user_achievements ua
		JOIN achievements a ON a.id = ua.achievement_id
		WHERE ua.user_id = ?
		ORDER BY ua.unlocked_at DESC, ua.id DESC`, userID).Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("select unlocked: %w", err)
	}
	out := make([]domain.UnlockedAchievement, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.UnlockedAchievement{
			Achievement: domain.Achievement{
				ID:               row.ID,
				Name:             row.Name,
				Description:      row.Description,
				Icon:             row.Icon,
				RequirementType:  domain.RequirementType(row.RequirementType),
				RequirementValue: row.RequirementValue,
				CreatedAt:        row.CreatedAt,
			},
			UnlockedAt: row.UnlockedAt,
		})
	}
	return out, nil
}

func (s *Store) ListSubjects(ctx context.Context) ([]domain.Subject, error) {
	var rows []subjectRow
	if err := s.db.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("select subjects: %w", err)
	}
	out := make([]domain.Subject, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (s *Store) GetSubject(ctx context.Context, id int64) (domain.Subject, error) {
	var row subjectRow
	err := s.db.NewSelect().Model(&row).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Subject{}, domain.ErrSubjectNotFound
	}
	if err != nil {
		return domain.Subject{}, fmt.Errorf("select subject: %w", err)
	}
	return row.toDomain(), nil
}

func (s *Store) CreateSubject(ctx context.Context, subject *domain.Subject) error {
	exists, err := s.db.NewSelect().Model((*subjectRow)(nil)).Where("name = ?", subject.Name).Exists(ctx)
	if err != nil {
		return fmt.Errorf("check subject name: %w", err)
	}
	if exists {
		return domain.ErrDuplicateSubject
	}
	row := subjectRow{Name: subject.Name, Description: subject.Description, CreatedAt: subject.CreatedAt}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("insert subject: %w", err)
	}
	subject.ID = row.ID
	return nil
}

func (s *Store) UpdateSubject(ctx context.Context, subject domain.Subject) error {
	exists, err := s.db.NewSelect().Model((*subjectRow)(nil)).
		Where("name = ?", subject.Name).
		Where("id != ?", subject.ID).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("check subject name: %w", err)
	}
	if exists {
		return domain.ErrDuplicateSubject
	}
	res, err := s.db.NewUpdate().Model((*subjectRow)(nil)).
		Set("name = ?", subject.Name).
		Set("description = ?", subject.Description).
		Where("id = ?", subject.ID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update subject: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return domain.ErrSubjectNotFound
	}
	return nil
}

func (s *Store) DeleteSubject(ctx context.Context, id int64) error {
	count, err := s.db.NewSelect().Model((*questionRow)(nil)).Where("subject_id = ?", id).Count(ctx)
	if err != nil {
		return fmt.Errorf("count questions: %w", err)
	}
	if count > 0 {
		return domain.ErrSubjectHasQuestions
	}
	res, err := s.db.NewDelete().Model((*subjectRow)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return domain.ErrSubjectNotFound
	}
	return nil
}

func (s *Store) ListQuestions(ctx context.Context, subjectID int64) ([]domain.Question, error) {
	var rows []questionRow
	query := s.db.NewSelect().Model(&rows).Order("id ASC")
	if subjectID != 0 {
		query = query.Where("subject_id = ?", subjectID)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("select questions: %w", err)
	}
	out := make([]domain.Question, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (s *Store) GetQuestion(ctx context.Context, id int64) (domain.Question, error) {
	var row questionRow
	err := s.db.NewSelect().Model(&row).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("select question: %w", err)
	}
	return row.toDomain(), nil
}

func (s *Store) CreateQuestion(ctx context.Context, question *domain.Question) error {
	row := questionToRow(*question)
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	question.ID = row.ID
	return nil
}

func (s *Store) UpdateQuestion(ctx context.Context, question domain.Question) error {
	row := questionToRow(question)
	res, err := s.db.NewUpdate().Model(&row).
		Column("subject_id", "question_type", "question_text", "options", "correct_answer", "explanation", "points").
		Set("updated_at = now()").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (s *Store) DeleteQuestion(ctx context.Context, id int64) error {
	res, err := s.db.NewDelete().Model((*questionRow)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	exists, err := s.db.NewSelect().Model((*userRow)(nil)).
		WhereOr("username = ?", user.Username).
		WhereOr("email = ?", user.Email).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if exists {
		return domain.ErrDuplicateUser
	}
	row := userRow{
		Username:       user.Username,
		Email:          user.Email,
		HashedPassword: user.HashedPassword,
		FullName:       user.FullName,
		IsAdmin:        user.IsAdmin,
		CreatedAt:      user.CreatedAt,
	}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	user.ID = row.ID
	return nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (domain.User, error) {
	var row userRow
	err := s.db.NewSelect().Model(&row).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("select user: %w", err)
	}
	return row.toDomain(), nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	var row userRow
	err := s.db.NewSelect().Model(&row).Where("username = ?", username).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("select user: %w", err)
	}
	return row.toDomain(), nil
}

func (s *Store) ListStudents(ctx context.Context) ([]domain.User, error) {
	var rows []userRow
	err := s.db.NewSelect().Model(&rows).Where("is_admin = FALSE").Order("id ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select students: %w", err)
	}
	out := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (s *Store) CreateFeedback(ctx context.Context, feedback *domain.Feedback) error {
	row := feedbackRow{
		StudentID: feedback.StudentID,
		AdminID:   feedback.AdminID,
		Message:   feedback.Message,
		CreatedAt: feedback.CreatedAt,
	}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	feedback.ID = row.ID
	return nil
}

func (s *Store) ListFeedbackForStudent(ctx context.Context, studentID int64) ([]domain.Feedback, error) {
	var rows []feedbackRow
	err := s.db.NewSelect().Model(&rows).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select feedback: %w", err)
	}
	out := make([]domain.Feedback, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
