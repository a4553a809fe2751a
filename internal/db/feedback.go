package db

import (
	"context"
	"database/sql"
	"fmt"

	"feedbackhub/internal/ctxutil"
	"feedbackhub/internal/models"
)

func InsertFeedback(ctx context.Context, database *sql.DB, f models.Feedback) (int64, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	var id int64
	err := database.QueryRowContext(ctx, `
		INSERT INTO feedback (target_user_id, author_user_id, author_role, work_date, job_rule, grade, review_subject, notes)
		VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8)
		RETURNING id`,
		f.TargetUserID,
		f.AuthorUserID,
		string(f.AuthorRole),
		f.WorkDate,
		f.JobRule,
		f.Grade,
		f.ReviewSubject,
		f.Notes,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// FeedbackExists — проверка по кортежу уникальности (автор, target, дата, job_rule).
func FeedbackExists(ctx context.Context, database *sql.DB, authorID, targetID int64, workDate, jobRule string) (bool, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	var ok bool
	err := database.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM feedback
			WHERE author_user_id = $1 AND target_user_id = $2
			  AND work_date = $3::date AND job_rule = $4
		)`,
		authorID, targetID, workDate, jobRule).Scan(&ok)
	if err != nil {
		return false, err
	}
	return ok, nil
}

// ListFeedbackByTarget — записи по субъекту в окне [from, to] включительно,
// по возрастанию даты. Даты — строки YYYY-MM-DD.
func ListFeedbackByTarget(ctx context.Context, database *sql.DB, targetID int64, from, to string) ([]models.Feedback, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx, `
		SELECT id, target_user_id, author_user_id, author_role,
		       to_char(work_date, 'YYYY-MM-DD'), job_rule, grade, review_subject, notes,
		       created_at, updated_at
		FROM feedback
		WHERE target_user_id = $1 AND work_date >= $2::date AND work_date <= $3::date
		ORDER BY work_date ASC, id ASC`,
		targetID, from, to)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Feedback
	for rows.Next() {
		var f models.Feedback
		var role string
		if err := rows.Scan(&f.ID, &f.TargetUserID, &f.AuthorUserID, &role,
			&f.WorkDate, &f.JobRule, &f.Grade, &f.ReviewSubject, &f.Notes,
			&f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		f.AuthorRole = models.Role(role)
		out = append(out, f)
	}
	return out, rows.Err()
}

// CountFeedbackByRole — для gauge-метрик.
func CountFeedbackByRole(ctx context.Context, database *sql.DB) (map[models.Role]int64, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx,
		`SELECT author_role, COUNT(*) FROM feedback GROUP BY author_role`)
	if err != nil {
		return nil, fmt.Errorf("count feedback: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := map[models.Role]int64{}
	for rows.Next() {
		var role string
		var n int64
		if err := rows.Scan(&role, &n); err != nil {
			return nil, err
		}
		out[models.Role(role)] = n
	}
	return out, rows.Err()
}
