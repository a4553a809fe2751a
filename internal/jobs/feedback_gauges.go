package jobs

import (
	"context"
	"database/sql"
	"time"

	"feedbackhub/internal/db"
	"feedbackhub/internal/metrics"
	"feedbackhub/internal/models"
)

// RegisterFeedbackGauges — периодическое обновление gauge-метрик
// по числу записей в каждой категории.
func RegisterFeedbackGauges(r *Runner, database *sql.DB) {
	refresh := func(ctx context.Context) error {
		counts, err := db.CountFeedbackByRole(ctx, database)
		if err != nil {
			return err
		}
		for _, role := range []models.Role{models.RoleUser, models.RoleLeader} {
			metrics.FeedbackRecords.WithLabelValues(string(role)).Set(float64(counts[role]))
		}
		return nil
	}
	r.Every(5*time.Minute, "feedback_gauges", refresh)
}
