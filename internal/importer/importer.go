// Package importer — пакетная сверка и загрузка оценок из CSV.
// Строки обрабатываются независимо: ошибка строки попадает в отчёт,
// а не прерывает импорт. Отката нет — вставленные строки остаются.
package importer

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"feedbackhub/internal/db"
	"feedbackhub/internal/metrics"
	"feedbackhub/internal/models"
)

var (
	// ErrNotLeader — вызывающий не лидер; импорт не начинается.
	ErrNotLeader = errors.New("import: leaders only")
	// ErrBadCSV — файл не разбирается как CSV целиком.
	ErrBadCSV = errors.New("import: malformed csv")
)

type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type Summary struct {
	TotalRows int `json:"total_rows"`
	Imported  int `json:"imported"`
	Skipped   int `json:"skipped"`
}

type Result struct {
	Summary Summary    `json:"summary"`
	Errors  []RowError `json:"errors"`
}

// Run выполняет один прогон импорта от имени actingUserID.
// Номер строки в отчёте: индекс данных +1 за нумерацию с единицы
// и ещё +1 за отброшенный заголовок.
func Run(ctx context.Context, database *sql.DB, log *zap.SugaredLogger, actingUserID int64, file io.Reader) (*Result, error) {
	isLeader, err := db.HasRole(ctx, database, actingUserID, models.RoleLeader)
	if err != nil {
		return nil, fmt.Errorf("role check: %w", err)
	}
	if !isLeader {
		return nil, ErrNotLeader
	}

	rdr := csv.NewReader(file)
	rdr.FieldsPerRecord = -1
	records, err := rdr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadCSV, err)
	}
	if len(records) > 0 {
		records = records[1:] // заголовок
	}

	profiles, err := db.ListProfiles(ctx, database)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	roles, err := db.ListUserRoles(ctx, database)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	idx := NewIndex(profiles, roles)

	res := &Result{Errors: []RowError{}}
	res.Summary.TotalRows = len(records)

	for i, rec := range records {
		rowNum := i + 2

		f, reason := resolveRow(rec, idx)
		if reason != "" {
			res.Errors = append(res.Errors, RowError{Row: rowNum, Reason: reason})
			continue
		}

		// Проверка дубликата и вставка — два шага, как и в форме ручного
		// ввода; уникальный индекс в БД ловит гонку параллельных импортов.
		exists, err := db.FeedbackExists(ctx, database, f.AuthorUserID, f.TargetUserID, f.WorkDate, f.JobRule)
		if err != nil {
			res.Errors = append(res.Errors, RowError{Row: rowNum, Reason: "Database error: " + err.Error()})
			continue
		}
		if exists {
			res.Errors = append(res.Errors, RowError{Row: rowNum, Reason: "Duplicate feedback for (author, target, date, job_rule)"})
			continue
		}

		if _, err := db.InsertFeedback(ctx, database, f); err != nil {
			log.Warnw("ошибка вставки строки импорта", "row", rowNum, "err", err)
			res.Errors = append(res.Errors, RowError{Row: rowNum, Reason: "Database error: " + err.Error()})
			continue
		}
		res.Summary.Imported++
	}

	res.Summary.Skipped = res.Summary.TotalRows - res.Summary.Imported
	metrics.CountImport(res.Summary.Imported, res.Summary.Skipped)
	log.Infow("импорт завершён",
		"total", res.Summary.TotalRows,
		"imported", res.Summary.Imported,
		"skipped", res.Summary.Skipped,
	)
	return res, nil
}
