package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"feedbackhub/internal/models"
)

const sheetName = "Feedback"

var header = []string{"Date", "Author", "Author role", "Job rule", "Grade", "Review subject", "Notes"}

// FeedbackWorkbook — история оценок субъекта одним листом.
// usernames — отображение id автора в имя; неизвестные id выводятся числом.
func FeedbackWorkbook(records []models.Feedback, usernames map[int64]string) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for c, h := range header {
		cell := colName(c+1) + "1"
		if err := f.SetCellStr(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	end := colName(len(header)) + "1"
	_ = f.SetCellStyle(sheetName, "A1", end, bold)
	_ = f.AutoFilter(sheetName, "A1:"+end, nil)

	for r, fb := range records {
		author := usernames[fb.AuthorUserID]
		if author == "" {
			author = strconv.FormatInt(fb.AuthorUserID, 10)
		}
		notes := ""
		if fb.Notes != nil {
			notes = *fb.Notes
		}
		row := []string{
			fb.WorkDate,
			author,
			string(fb.AuthorRole),
			fb.JobRule,
			strconv.Itoa(fb.Grade),
			fb.ReviewSubject,
			notes,
		}
		for c, val := range row {
			cell := fmt.Sprintf("%s%d", colName(c+1), r+2)
			if err := f.SetCellStr(sheetName, cell, val); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	// эвристическая ширина: по заголовку и первым строкам
	for c := 1; c <= len(header); c++ {
		maxim := len(header[c-1])
		for r := 0; r < minim(50, len(records)); r++ {
			fb := records[r]
			l := 0
			switch c - 1 {
			case 1:
				l = len(usernames[fb.AuthorUserID])
			case 5:
				l = len(fb.ReviewSubject)
			case 6:
				if fb.Notes != nil {
					l = len(*fb.Notes)
				}
			}
			if l > maxim {
				maxim = l
			}
		}
		w := float64(maxim) * 0.9
		if w < 12 {
			w = 12
		}
		if w > 40 {
			w = 40
		}
		_ = f.SetColWidth(sheetName, colName(c), colName(c), w)
	}

	return f.WriteToBuffer()
}

// Filename — имя вложения для скачивания истории.
func Filename(username, from, to string) string {
	return fmt.Sprintf("feedback_%s_%s_%s.xlsx", username, from, to)
}

// helpers
func colName(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+(n%26))) + s
		n /= 26
	}
	return s
}

func minim(a, b int) int {
	if a < b {
		return a
	}
	return b
}
