package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/feedback-desk/internal/domain"
)

// BugReportRepository encapsulates bug report persistence.
type BugReportRepository interface {
	Create(ctx context.Context, report *domain.BugReport) error
	List(ctx context.Context, filter BugReportFilter) ([]domain.BugReport, error)
	UpdateStatus(ctx context.Context, id string, status domain.BugReportStatus) (*domain.BugReport, error)
	Delete(ctx context.Context, id string) (*domain.BugReport, error)
}

type fileBugReportRepository struct {
	store *JSONStore[domain.BugReport]
}

// NewFileBugReportRepository stores bug reports in a JSON array file at path.
func NewFileBugReportRepository(path string, logger *zap.Logger) BugReportRepository {
	return &fileBugReportRepository{store: NewJSONStore[domain.BugReport](path, logger)}
}

func (r *fileBugReportRepository) Create(ctx context.Context, report *domain.BugReport) error {
	return r.store.Append(ctx, *report)
}

func (r *fileBugReportRepository) List(ctx context.Context, filter BugReportFilter) ([]domain.BugReport, error) {
	return filterSlice(r.store.ReadAll(ctx), filter.Matches), nil
}

func (r *fileBugReportRepository) UpdateStatus(ctx context.Context, id string, status domain.BugReportStatus) (*domain.BugReport, error) {
	updated, err := r.store.Update(ctx, id, func(rep *domain.BugReport) {
		rep.Status = status
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *fileBugReportRepository) Delete(ctx context.Context, id string) (*domain.BugReport, error) {
	removed, err := r.store.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	return &removed, nil
}

type pgBugReportRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresBugReportRepository stores bug reports in the bug_reports table.
func NewPostgresBugReportRepository(pool *pgxpool.Pool) BugReportRepository {
	return &pgBugReportRepository{pool: pool}
}

const bugReportColumns = `id, title, description, COALESCE(screenshot_path, ''), submitted_at, status`

func (r *pgBugReportRepository) Create(ctx context.Context, report *domain.BugReport) error {
	const query = `
        INSERT INTO bug_reports (id, title, description, screenshot_path, submitted_at, status)
        VALUES ($1,$2,$3,NULLIF($4,''),$5,$6)`
	_, err := r.pool.Exec(ctx, query,
		report.ID,
		report.Title,
		report.Description,
		report.ScreenshotPath,
		report.SubmittedAt.Time,
		report.Status,
	)
	return mapPgError(err)
}

func (r *pgBugReportRepository) List(ctx context.Context, filter BugReportFilter) ([]domain.BugReport, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, strings.ToLower(filter.Search))
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(strpos(LOWER(title), %s) > 0 OR strpos(LOWER(description), %s) > 0)", placeholder, placeholder))
	}

	query := fmt.Sprintf(`SELECT %s FROM bug_reports WHERE %s ORDER BY seq DESC`,
		bugReportColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.BugReport{}
	for rows.Next() {
		report, err := scanBugReport(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *report)
	}
	return result, rows.Err()
}

func (r *pgBugReportRepository) UpdateStatus(ctx context.Context, id string, status domain.BugReportStatus) (*domain.BugReport, error) {
	query := `UPDATE bug_reports SET status=$1 WHERE id=$2 RETURNING ` + bugReportColumns
	report, err := scanBugReport(r.pool.QueryRow(ctx, query, status, id))
	if err != nil {
		return nil, mapPgError(err)
	}
	return report, nil
}

func (r *pgBugReportRepository) Delete(ctx context.Context, id string) (*domain.BugReport, error) {
	query := `DELETE FROM bug_reports WHERE id=$1 RETURNING ` + bugReportColumns
	report, err := scanBugReport(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapPgError(err)
	}
	return report, nil
}

func scanBugReport(row pgx.Row) (*domain.BugReport, error) {
	var (
		report      domain.BugReport
		submittedAt time.Time
	)
	if err := row.Scan(
		&report.ID,
		&report.Title,
		&report.Description,
		&report.ScreenshotPath,
		&submittedAt,
		&report.Status,
	); err != nil {
		return nil, err
	}
	report.SubmittedAt = domain.NewTimestamp(submittedAt)
	return &report, nil
}

const pgUniqueViolation = "23505"

func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicateID
	}
	return err
}
