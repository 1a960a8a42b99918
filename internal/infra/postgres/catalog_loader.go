package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"eduquiz-service/internal/domain"
)

// CatalogLoader is the read-side loader feeding the catalog caches. It uses a
// pgx pool directly so grading reads skip the ORM entirely.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) LoadQuestion(ctx context.Context, id int64) (domain.Question, error) {
	var (
		q          domain.Question
		rawOptions []byte
		rawKey     []byte
	)
	err := l.pool.QueryRow(ctx, `
		SELECT id, subject_id, question_type, question_text, options, correct_answer,
		       explanation, points, created_at, updated_at
		FROM questions WHERE id = $1`, id).Scan(
		&q.ID, &q.SubjectID, &q.Type, &q.Text, &rawOptions, &rawKey,
		&q.Explanation, &q.Points, &q.CreatedAt, &q.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("load question: %w", err)
	}
	if len(rawOptions) > 0 {
		if err := json.Unmarshal(rawOptions, &q.Options); err != nil {
			return domain.Question{}, fmt.Errorf("unmarshal options: %w", err)
		}
	}
	if err := json.Unmarshal(rawKey, &q.Key); err != nil {
		return domain.Question{}, fmt.Errorf("unmarshal answer key: %w", err)
	}
	return q, nil
}

func (l *CatalogLoader) LoadSubject(ctx context.Context, id int64) (domain.Subject, error) {
	var subject domain.Subject
	err := l.pool.QueryRow(ctx, `
		SELECT id, name, description, created_at FROM subjects WHERE id = $1`, id).Scan(
		&subject.ID, &subject.Name, &subject.Description, &subject.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Subject{}, domain.ErrSubjectNotFound
	}
	if err != nil {
		return domain.Subject{}, fmt.Errorf("load subject: %w", err)
	}
	return subject, nil
}
