package memory

import (
	"context"
	"sort"
	"sync"

	"eduquiz-service/internal/app"
	"eduquiz-service/internal/domain"
)

// Store is an in-memory implementation of every app repository interface,
// used for tests and for running the server without Postgres. InTx stages
// writes on a copy of the state and swaps it in on success, so a failed unit
// leaves nothing behind.
type Store struct {
	mu    sync.RWMutex
	state *state
}

type state struct {
	nextID       int64
	users        map[int64]domain.User
	subjects     map[int64]domain.Subject
	questions    map[int64]domain.Question
	snapshots    map[int64]domain.Snapshot
	achievements map[int64]domain.Achievement
	submissions  []domain.Submission
	unlocks      []domain.Unlock
	feedback     []domain.Feedback
}

func NewStore() *Store {
	return &Store{state: &state{
		nextID:       1,
		users:        make(map[int64]domain.User),
		subjects:     make(map[int64]domain.Subject),
		questions:    make(map[int64]domain.Question),
		snapshots:    make(map[int64]domain.Snapshot),
		achievements: make(map[int64]domain.Achievement),
	}}
}

func (st *state) clone() *state {
	next := &state{
		nextID:       st.nextID,
		users:        make(map[int64]domain.User, len(st.users)),
		subjects:     make(map[int64]domain.Subject, len(st.subjects)),
		questions:    make(map[int64]domain.Question, len(st.questions)),
		snapshots:    make(map[int64]domain.Snapshot, len(st.snapshots)),
		achievements: make(map[int64]domain.Achievement, len(st.achievements)),
		submissions:  append([]domain.Submission(nil), st.submissions...),
		unlocks:      append([]domain.Unlock(nil), st.unlocks...),
		feedback:     append([]domain.Feedback(nil), st.feedback...),
	}
	for k, v := range st.users {
		next.users[k] = v
	}
	for k, v := range st.subjects {
		next.subjects[k] = v
	}
	for k, v := range st.questions {
		next.questions[k] = v
	}
	for k, v := range st.snapshots {
		next.snapshots[k] = v
	}
	for k, v := range st.achievements {
		next.achievements[k] = v
	}
	return next
}

func (st *state) id() int64 {
	id := st.nextID
	st.nextID++
	return id
}

// InTx implements app.ProgressionStore. The store lock is held for the whole
// unit, which serializes concurrent submissions.
func (s *Store) InTx(_ context.Context, fn func(tx app.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	staged := s.state.clone()
	if err := fn(&memTx{state: staged}); err != nil {
		return err
	}
	s.state = staged
	return nil
}

// memTx operates on the staged state; the store lock is already held.
type memTx struct {
	state *state
}

func (t *memTx) CreateSubmission(_ context.Context, sub *domain.Submission) error {
	sub.ID = t.state.id()
	t.state.submissions = append(t.state.submissions, *sub)
	return nil
}

// SnapshotForUpdate reads the staged snapshot, seeding the default when the
// user has none. The store lock held by InTx serializes same-user units.
func (t *memTx) SnapshotForUpdate(_ context.Context, userID int64) (domain.Snapshot, error) {
	snapshot, ok := t.state.snapshots[userID]
	if !ok {
		snapshot = domain.NewSnapshot(userID)
		t.state.snapshots[userID] = snapshot
	}
	return snapshot, nil
}

func (t *memTx) SaveSnapshot(_ context.Context, snapshot domain.Snapshot) error {
	t.state.snapshots[snapshot.UserID] = snapshot
	return nil
}

func (t *memTx) ListAchievements(_ context.Context) ([]domain.Achievement, error) {
	return t.state.listAchievements(), nil
}

func (t *memTx) UnlockedIDs(_ context.Context, userID int64) (map[int64]struct{}, error) {
	ids := make(map[int64]struct{})
	for _, u := range t.state.unlocks {
		if u.UserID == userID {
			ids[u.AchievementID] = struct{}{}
		}
	}
	return ids, nil
}

func (t *memTx) CreateUnlock(_ context.Context, unlock *domain.Unlock) error {
	for _, u := range t.state.unlocks {
		if u.UserID == unlock.UserID && u.AchievementID == unlock.AchievementID {
			return nil // already unlocked, never duplicated
		}
	}
	unlock.ID = t.state.id()
	t.state.unlocks = append(t.state.unlocks, *unlock)
	return nil
}

func (s *Store) GetSnapshot(_ context.Context, userID int64) (domain.Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot, ok := s.state.snapshots[userID]
	return snapshot, ok, nil
}

func (s *Store) SaveSnapshot(_ context.Context, snapshot domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.snapshots[snapshot.UserID] = snapshot
	return nil
}

// EnsureSnapshot returns the user's snapshot, inserting the default under one
// lock acquisition so it never overwrites a concurrently written row.
func (s *Store) EnsureSnapshot(_ context.Context, userID int64) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot, ok := s.state.snapshots[userID]
	if !ok {
		snapshot = domain.NewSnapshot(userID)
		s.state.snapshots[userID] = snapshot
	}
	return snapshot, nil
}

func (s *Store) ListSubmissions(_ context.Context, userID int64) ([]domain.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Submission
	for _, sub := range s.state.submissions {
		if sub.UserID == userID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *Store) ListSubmissionStats(_ context.Context, userID int64) ([]domain.SubmissionStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.SubmissionStat
	for _, sub := range s.state.submissions {
		if sub.UserID != userID {
			continue
		}
		question, ok := s.state.questions[sub.QuestionID]
		if !ok {
			continue // question deleted since submission
		}
		subject := s.state.subjects[question.SubjectID]
		out = append(out, domain.SubmissionStat{
			SubjectID:    question.SubjectID,
			SubjectName:  subject.Name,
			Correct:      sub.Correct,
			PointsEarned: sub.PointsEarned,
		})
	}
	return out, nil
}

func (st *state) listAchievements() []domain.Achievement {
	out := make([]domain.Achievement, 0, len(st.achievements))
	for _, a := range st.achievements {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) ListAchievements(_ context.Context) ([]domain.Achievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.listAchievements(), nil
}

func (s *Store) CreateAchievement(_ context.Context, a *domain.Achievement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.state.achievements {
		if existing.Name == a.Name {
			return domain.ErrDuplicateAchievement
		}
	}
	a.ID = s.state.id()
	s.state.achievements[a.ID] = *a
	return nil
}

func (s *Store) ListUnlocked(_ context.Context, userID int64) ([]domain.UnlockedAchievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.UnlockedAchievement
	for _, u := range s.state.unlocks {
		if u.UserID != userID {
			continue
		}
		if a, ok := s.state.achievements[u.AchievementID]; ok {
			out = append(out, domain.UnlockedAchievement{Achievement: a, UnlockedAt: u.UnlockedAt})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UnlockedAt.After(out[j].UnlockedAt) })
	return out, nil
}

func (s *Store) ListSubjects(_ context.Context) ([]domain.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Subject, 0, len(s.state.subjects))
	for _, subject := range s.state.subjects {
		out = append(out, subject)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetSubject(_ context.Context, id int64) (domain.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	subject, ok := s.state.subjects[id]
	if !ok {
		return domain.Subject{}, domain.ErrSubjectNotFound
	}
	return subject, nil
}

func (s *Store) CreateSubject(_ context.Context, subject *domain.Subject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.state.subjects {
		if existing.Name == subject.Name {
			return domain.ErrDuplicateSubject
		}
	}
	subject.ID = s.state.id()
	s.state.subjects[subject.ID] = *subject
	return nil
}

func (s *Store) UpdateSubject(_ context.Context, subject domain.Subject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.state.subjects[subject.ID]
	if !ok {
		return domain.ErrSubjectNotFound
	}
	for id, existing := range s.state.subjects {
		if id != subject.ID && existing.Name == subject.Name {
			return domain.ErrDuplicateSubject
		}
	}
	current.Name = subject.Name
	current.Description = subject.Description
	s.state.subjects[subject.ID] = current
	return nil
}

func (s *Store) DeleteSubject(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.subjects[id]; !ok {
		return domain.ErrSubjectNotFound
	}
	for _, q := range s.state.questions {
		if q.SubjectID == id {
			return domain.ErrSubjectHasQuestions
		}
	}
	delete(s.state.subjects, id)
	return nil
}

func (s *Store) ListQuestions(_ context.Context, subjectID int64) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Question
	for _, q := range s.state.questions {
		if subjectID == 0 || q.SubjectID == subjectID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetQuestion(_ context.Context, id int64) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	question, ok := s.state.questions[id]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return question, nil
}

func (s *Store) CreateQuestion(_ context.Context, question *domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.subjects[question.SubjectID]; !ok {
		return domain.ErrSubjectNotFound
	}
	question.ID = s.state.id()
	s.state.questions[question.ID] = *question
	return nil
}

func (s *Store) UpdateQuestion(_ context.Context, question domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.questions[question.ID]; !ok {
		return domain.ErrQuestionNotFound
	}
	s.state.questions[question.ID] = question
	return nil
}

func (s *Store) DeleteQuestion(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(s.state.questions, id)
	return nil
}

func (s *Store) CreateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.state.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return domain.ErrDuplicateUser
		}
	}
	user.ID = s.state.id()
	s.state.users[user.ID] = *user
	return nil
}

func (s *Store) GetUser(_ context.Context, id int64) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.state.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.state.users {
		if user.Username == username {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (s *Store) ListStudents(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.User
	for _, user := range s.state.users {
		if !user.IsAdmin {
			out = append(out, user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateFeedback(_ context.Context, feedback *domain.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	feedback.ID = s.state.id()
	s.state.feedback = append(s.state.feedback, *feedback)
	return nil
}

func (s *Store) ListFeedbackForStudent(_ context.Context, studentID int64) ([]domain.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Feedback
	for _, f := range s.state.feedback {
		if f.StudentID == studentID {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// LoadQuestion lets the store double as a CatalogSource for the caches.
func (s *Store) LoadQuestion(ctx context.Context, id int64) (domain.Question, error) {
	return s.GetQuestion(ctx, id)
}

// LoadSubject lets the store double as a CatalogSource for the caches.
func (s *Store) LoadSubject(ctx context.Context, id int64) (domain.Subject, error) {
	return s.GetSubject(ctx, id)
}
