package series

import (
	"testing"
	"time"

	"feedbackhub/internal/models"
)

func fb(role models.Role, date string, grade int) models.Feedback {
	return models.Feedback{AuthorRole: role, WorkDate: date, Grade: grade}
}

func TestSplit_AveragesPerDate(t *testing.T) {
	selfPts, leaderPts := Split([]models.Feedback{
		fb(models.RoleUser, "2024-01-01", 70),
		fb(models.RoleUser, "2024-01-01", 80),
		fb(models.RoleUser, "2024-01-01", 90),
		fb(models.RoleLeader, "2024-01-01", 60),
	})
	if len(selfPts) != 1 || selfPts[0].AvgGrade != 80 || selfPts[0].Count != 3 {
		t.Fatalf("self bucket: %+v", selfPts)
	}
	if len(leaderPts) != 1 || leaderPts[0].AvgGrade != 60 || leaderPts[0].Count != 1 {
		t.Fatalf("leader bucket: %+v", leaderPts)
	}
}

func TestSplit_Rounding(t *testing.T) {
	selfPts, _ := Split([]models.Feedback{
		fb(models.RoleUser, "2024-01-01", 70),
		fb(models.RoleUser, "2024-01-01", 75),
	})
	// 72.5 округляется от нуля до 73
	if selfPts[0].AvgGrade != 73 {
		t.Fatalf("want 73, got %d", selfPts[0].AvgGrade)
	}
}

func TestSplit_SortedByDate(t *testing.T) {
	selfPts, _ := Split([]models.Feedback{
		fb(models.RoleUser, "2024-02-01", 50),
		fb(models.RoleUser, "2024-01-15", 60),
		fb(models.RoleUser, "2024-01-02", 70),
	})
	want := []string{"2024-01-02", "2024-01-15", "2024-02-01"}
	for i, p := range selfPts {
		if p.Date != want[i] {
			t.Fatalf("order: %+v", selfPts)
		}
	}
}

func TestMerge_DateUnion(t *testing.T) {
	selfPts, leaderPts := Split([]models.Feedback{
		fb(models.RoleUser, "2024-01-01", 80),
		fb(models.RoleLeader, "2024-01-01", 60),
		fb(models.RoleUser, "2024-01-02", 100),
	})
	merged := Merge(selfPts, leaderPts)
	if len(merged) != 2 {
		t.Fatalf("want 2 points, got %+v", merged)
	}

	p := merged[0]
	if p.Date != "2024-01-01" || *p.SelfAvg != 80 || *p.LeaderAvg != 60 || p.CountSelf != 1 || p.CountLeader != 1 {
		t.Fatalf("first point: %+v", p)
	}

	// дата только в одной категории не теряется; пустая категория — null/0
	p = merged[1]
	if p.Date != "2024-01-02" || *p.SelfAvg != 100 || p.LeaderAvg != nil || p.CountSelf != 1 || p.CountLeader != 0 {
		t.Fatalf("second point: %+v", p)
	}
}

func TestMerge_LeaderOnlyDate(t *testing.T) {
	merged := Merge(nil, []Point{{Date: "2024-03-01", AvgGrade: 40, Count: 2}})
	if len(merged) != 1 {
		t.Fatalf("merged: %+v", merged)
	}
	p := merged[0]
	if p.SelfAvg != nil || p.CountSelf != 0 || *p.LeaderAvg != 40 || p.CountLeader != 2 {
		t.Fatalf("leader-only point: %+v", p)
	}
}

func TestWindow_Defaults(t *testing.T) {
	now := time.Date(2024, 4, 10, 15, 0, 0, 0, time.UTC)
	from, to := Window("", "", now)
	if to != "2024-04-10" {
		t.Fatalf("to: %s", to)
	}
	if from != "2024-01-11" {
		t.Fatalf("from: %s", from)
	}

	from, to = Window("2024-02-01", "2024-02-29", now)
	if from != "2024-02-01" || to != "2024-02-29" {
		t.Fatalf("explicit window overridden: %s..%s", from, to)
	}
}

func TestBuckets(t *testing.T) {
	buckets := Buckets([]float64{69.9, 70, 85, 12})
	if buckets[0].Label != "Below 70" || buckets[0].Count != 2 {
		t.Fatalf("below: %+v", buckets)
	}
	if buckets[1].Label != "70 and above" || buckets[1].Count != 2 {
		t.Fatalf("above: %+v", buckets)
	}
}
