package importer

import (
	"regexp"
	"strconv"
	"strings"

	"feedbackhub/internal/models"
)

// Порядок колонок фиксирован, первая строка файла — заголовок.
const (
	colUserUsername = iota
	colAuthorUsername
	colAuthorRole
	colWorkDate
	colJobRule
	colGrade
	colReviewSubject
	colNotes

	numCols
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Index — разовые словари для разрешения имён и ролей, строятся
// двумя bulk-запросами на весь импорт (никаких запросов на строку).
type Index struct {
	IDByUsername map[string]int64
	RoleByID     map[int64]models.Role
}

func NewIndex(profiles []models.Profile, roles []models.UserRole) *Index {
	idx := &Index{
		IDByUsername: make(map[string]int64, len(profiles)),
		RoleByID:     make(map[int64]models.Role, len(roles)),
	}
	for _, p := range profiles {
		idx.IDByUsername[strings.ToLower(strings.TrimSpace(p.Username))] = p.ID
	}
	for _, r := range roles {
		idx.RoleByID[r.UserID] = r.Role
	}
	return idx
}

func (idx *Index) resolve(username string) (int64, bool) {
	id, ok := idx.IDByUsername[strings.ToLower(username)]
	return id, ok
}

// resolveRow — валидация и разрешение одной строки данных.
// Непустой reason означает отказ; строка никуда не пишется.
func resolveRow(rec []string, idx *Index) (models.Feedback, string) {
	// короткие строки добиваем пустыми полями, лишние хвосты игнорируем
	if len(rec) < numCols {
		padded := make([]string, numCols)
		copy(padded, rec)
		rec = padded
	}

	userUsername := strings.TrimSpace(rec[colUserUsername])
	authorUsername := strings.TrimSpace(rec[colAuthorUsername])
	authorRole := strings.ToLower(strings.TrimSpace(rec[colAuthorRole]))
	workDate := strings.TrimSpace(rec[colWorkDate])
	jobRule := strings.TrimSpace(rec[colJobRule])
	gradeStr := strings.TrimSpace(rec[colGrade])
	reviewSubject := strings.TrimSpace(rec[colReviewSubject])
	notes := strings.TrimSpace(rec[colNotes])

	var none models.Feedback

	if userUsername == "" {
		return none, "Missing user_username"
	}
	if authorRole != string(models.RoleUser) && authorRole != string(models.RoleLeader) {
		return none, `Invalid author_role (must be "user" or "leader")`
	}
	if workDate == "" {
		return none, "Missing work_date"
	}
	if !dateRe.MatchString(workDate) {
		return none, "Invalid date format (expected YYYY-MM-DD)"
	}
	if gradeStr == "" {
		return none, "Missing grade"
	}
	grade, err := strconv.Atoi(gradeStr)
	if err != nil || grade < models.GradeMin || grade > models.GradeMax {
		return none, "Grade must be an integer between 1 and 100"
	}

	targetID, ok := idx.resolve(userUsername)
	if !ok {
		return none, "Unknown user_username: " + userUsername
	}

	var authorID int64
	if authorRole == string(models.RoleUser) {
		// самооценка: пустой автор — это сам субъект
		if authorUsername == "" {
			authorID = targetID
		} else {
			authorID, ok = idx.resolve(authorUsername)
			if !ok {
				return none, "Unknown author_username: " + authorUsername
			}
		}
	} else {
		if authorUsername == "" {
			return none, `author_username is required when author_role is "leader"`
		}
		authorID, ok = idx.resolve(authorUsername)
		if !ok {
			return none, "Unknown author_username: " + authorUsername
		}
		// автор обязан быть зарегистрирован лидером; заявленной роли в файле недостаточно
		if idx.RoleByID[authorID] != models.RoleLeader {
			return none, "User " + authorUsername + " is not a leader"
		}
	}

	if jobRule == "" {
		jobRule = models.JobRuleDefault
	}

	f := models.Feedback{
		TargetUserID:  targetID,
		AuthorUserID:  authorID,
		AuthorRole:    models.Role(authorRole),
		WorkDate:      workDate,
		JobRule:       jobRule,
		Grade:         grade,
		ReviewSubject: reviewSubject,
	}
	if notes != "" {
		f.Notes = &notes
	}
	return f, ""
}
