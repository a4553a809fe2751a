package export

import (
	"testing"

	"github.com/xuri/excelize/v2"

	"feedbackhub/internal/models"
)

func TestColName(t *testing.T) {
	cases := map[int]string{1: "A", 2: "B", 26: "Z", 27: "AA", 52: "AZ"}
	for n, want := range cases {
		if got := colName(n); got != want {
			t.Errorf("colName(%d) = %s, want %s", n, got, want)
		}
	}
}

func TestFeedbackWorkbook(t *testing.T) {
	notes := "solid quarter"
	records := []models.Feedback{
		{AuthorUserID: 3, AuthorRole: models.RoleLeader, WorkDate: "2024-01-05", JobRule: "coding", Grade: 77, ReviewSubject: "Q1", Notes: &notes},
		{AuthorUserID: 9, AuthorRole: models.RoleUser, WorkDate: "2024-01-06", JobRule: "other", Grade: 81},
	}
	buf, err := FeedbackWorkbook(records, map[int64]string{3: "lead"})
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	if v, _ := f.GetCellValue(sheetName, "A1"); v != "Date" {
		t.Fatalf("header: %q", v)
	}
	if v, _ := f.GetCellValue(sheetName, "B2"); v != "lead" {
		t.Fatalf("author resolved: %q", v)
	}
	// неизвестный id выводится числом
	if v, _ := f.GetCellValue(sheetName, "B3"); v != "9" {
		t.Fatalf("unknown author: %q", v)
	}
	if v, _ := f.GetCellValue(sheetName, "E2"); v != "77" {
		t.Fatalf("grade: %q", v)
	}
	if v, _ := f.GetCellValue(sheetName, "G2"); v != "solid quarter" {
		t.Fatalf("notes: %q", v)
	}
}

func TestFilename(t *testing.T) {
	got := Filename("alice", "2024-01-01", "2024-03-31")
	if got != "feedback_alice_2024-01-01_2024-03-31.xlsx" {
		t.Fatalf("filename: %s", got)
	}
}
