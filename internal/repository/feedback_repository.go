package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/feedback-desk/internal/domain"
)

// FeedbackRepository encapsulates feedback persistence.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *domain.Feedback) error
	List(ctx context.Context, filter FeedbackFilter) ([]domain.Feedback, error)
	UpdateStatus(ctx context.Context, id string, status domain.FeedbackStatus) (*domain.Feedback, error)
	Delete(ctx context.Context, id string) (*domain.Feedback, error)
}

type fileFeedbackRepository struct {
	store *JSONStore[domain.Feedback]
}

// NewFileFeedbackRepository stores feedback in a JSON array file at path.
func NewFileFeedbackRepository(path string, logger *zap.Logger) FeedbackRepository {
	return &fileFeedbackRepository{store: NewJSONStore[domain.Feedback](path, logger)}
}

func (r *fileFeedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	return r.store.Append(ctx, *feedback)
}

func (r *fileFeedbackRepository) List(ctx context.Context, filter FeedbackFilter) ([]domain.Feedback, error) {
	return filterSlice(r.store.ReadAll(ctx), filter.Matches), nil
}

func (r *fileFeedbackRepository) UpdateStatus(ctx context.Context, id string, status domain.FeedbackStatus) (*domain.Feedback, error) {
	updated, err := r.store.Update(ctx, id, func(fb *domain.Feedback) {
		fb.Status = status
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *fileFeedbackRepository) Delete(ctx context.Context, id string) (*domain.Feedback, error) {
	removed, err := r.store.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	return &removed, nil
}

type pgFeedbackRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresFeedbackRepository stores feedback in the feedback table.
func NewPostgresFeedbackRepository(pool *pgxpool.Pool) FeedbackRepository {
	return &pgFeedbackRepository{pool: pool}
}

const feedbackColumns = `id, name, email, rating, category, feedback, submitted_at, status`

func (r *pgFeedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	const query = `
        INSERT INTO feedback (id, name, email, rating, category, feedback, submitted_at, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := r.pool.Exec(ctx, query,
		feedback.ID,
		feedback.Name,
		feedback.Email,
		feedback.Rating,
		feedback.Category,
		feedback.Feedback,
		feedback.SubmittedAt.Time,
		feedback.Status,
	)
	return mapPgError(err)
}

func (r *pgFeedbackRepository) List(ctx context.Context, filter FeedbackFilter) ([]domain.Feedback, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Rating != nil {
		args = append(args, *filter.Rating)
		clauses = append(clauses, fmt.Sprintf("rating=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, strings.ToLower(filter.Search))
		p := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(strpos(LOWER(name), %[1]s) > 0 OR strpos(LOWER(email), %[1]s) > 0 OR strpos(LOWER(feedback), %[1]s) > 0 OR strpos(LOWER(category), %[1]s) > 0)", p))
	}

	query := fmt.Sprintf(`SELECT %s FROM feedback WHERE %s ORDER BY seq DESC`,
		feedbackColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Feedback{}
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *fb)
	}
	return result, rows.Err()
}

func (r *pgFeedbackRepository) UpdateStatus(ctx context.Context, id string, status domain.FeedbackStatus) (*domain.Feedback, error) {
	query := `UPDATE feedback SET status=$1 WHERE id=$2 RETURNING ` + feedbackColumns
	fb, err := scanFeedback(r.pool.QueryRow(ctx, query, status, id))
	if err != nil {
		return nil, mapPgError(err)
	}
	return fb, nil
}

func (r *pgFeedbackRepository) Delete(ctx context.Context, id string) (*domain.Feedback, error) {
	query := `DELETE FROM feedback WHERE id=$1 RETURNING ` + feedbackColumns
	fb, err := scanFeedback(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapPgError(err)
	}
	return fb, nil
}

func scanFeedback(row pgx.Row) (*domain.Feedback, error) {
	var (
		fb          domain.Feedback
		submittedAt time.Time
	)
	if err := row.Scan(
		&fb.ID,
		&fb.Name,
		&fb.Email,
		&fb.Rating,
		&fb.Category,
		&fb.Feedback,
		&submittedAt,
		&fb.Status,
	); err != nil {
		return nil, err
	}
	fb.SubmittedAt = domain.NewTimestamp(submittedAt)
	return &fb, nil
}
