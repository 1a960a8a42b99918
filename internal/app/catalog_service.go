package app

import (
	"context"

	"eduquiz-service/internal/domain"
)

// CatalogService is the administrative surface over subjects, questions and
// achievement definitions. The engine itself only reads this catalog.
type CatalogService struct {
	store        CatalogStore
	achievements AchievementStore
}

func NewCatalogService(store CatalogStore, achievements AchievementStore) *CatalogService {
	return &CatalogService{store: store, achievements: achievements}
}

func (s *CatalogService) Subjects(ctx context.Context) ([]domain.Subject, error) {
	return s.store.ListSubjects(ctx)
}

func (s *CatalogService) Subject(ctx context.Context, id int64) (domain.Subject, error) {
	return s.store.GetSubject(ctx, id)
}

// CreateSubject rejects names that collide with an existing subject.
func (s *CatalogService) CreateSubject(ctx context.Context, subject domain.Subject) (domain.Subject, error) {
	if err := s.store.CreateSubject(ctx, &subject); err != nil {
		return domain.Subject{}, err
	}
	return subject, nil
}

func (s *CatalogService) UpdateSubject(ctx context.Context, subject domain.Subject) (domain.Subject, error) {
	if err := s.store.UpdateSubject(ctx, subject); err != nil {
		return domain.Subject{}, err
	}
	return s.store.GetSubject(ctx, subject.ID)
}

// DeleteSubject refuses to delete a subject that still owns questions.
func (s *CatalogService) DeleteSubject(ctx context.Context, id int64) error {
	return s.store.DeleteSubject(ctx, id)
}

func (s *CatalogService) Questions(ctx context.Context, subjectID int64) ([]domain.Question, error) {
	if subjectID != 0 {
		if _, err := s.store.GetSubject(ctx, subjectID); err != nil {
			return nil, err
		}
	}
	return s.store.ListQuestions(ctx, subjectID)
}

func (s *CatalogService) Question(ctx context.Context, id int64) (domain.Question, error) {
	return s.store.GetQuestion(ctx, id)
}

// CreateQuestion validates the subject reference before inserting.
func (s *CatalogService) CreateQuestion(ctx context.Context, question domain.Question) (domain.Question, error) {
	if _, err := s.store.GetSubject(ctx, question.SubjectID); err != nil {
		return domain.Question{}, err
	}
	if question.Points == 0 {
		question.Points = 10
	}
	if err := s.store.CreateQuestion(ctx, &question); err != nil {
		return domain.Question{}, err
	}
	return question, nil
}

func (s *CatalogService) UpdateQuestion(ctx context.Context, question domain.Question) (domain.Question, error) {
	if question.SubjectID != 0 {
		if _, err := s.store.GetSubject(ctx, question.SubjectID); err != nil {
			return domain.Question{}, err
		}
	}
	if err := s.store.UpdateQuestion(ctx, question); err != nil {
		return domain.Question{}, err
	}
	return s.store.GetQuestion(ctx, question.ID)
}

func (s *CatalogService) DeleteQuestion(ctx context.Context, id int64) error {
	return s.store.DeleteQuestion(ctx, id)
}

func (s *CatalogService) Achievements(ctx context.Context) ([]domain.Achievement, error) {
	return s.achievements.ListAchievements(ctx)
}

// CreateAchievement rejects names that collide with an existing definition.
func (s *CatalogService) CreateAchievement(ctx context.Context, a domain.Achievement) (domain.Achievement, error) {
	if a.Icon == "" {
		a.Icon = "🏆"
	}
	if err := s.achievements.CreateAchievement(ctx, &a); err != nil {
		return domain.Achievement{}, err
	}
	return a, nil
}
