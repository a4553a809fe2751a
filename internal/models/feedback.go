package models

import "time"

// Feedback — одна оценка: автор оценивает target на дату work_date.
// WorkDate храним строкой YYYY-MM-DD: сравнения и сортировка по ней
// лексикографические и совпадают с календарными.
type Feedback struct {
	ID            int64     `db:"id"`
	TargetUserID  int64     `db:"target_user_id"`
	AuthorUserID  int64     `db:"author_user_id"`
	AuthorRole    Role      `db:"author_role"`
	WorkDate      string    `db:"work_date"`
	JobRule       string    `db:"job_rule"`
	Grade         int       `db:"grade"`
	ReviewSubject string    `db:"review_subject"`
	Notes         *string   `db:"notes"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

const (
	GradeMin = 1
	GradeMax = 100

	// JobRuleDefault подставляется при пустом job_rule.
	JobRuleDefault = "other"
)
