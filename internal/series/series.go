// Package series — агрегация оценок в ряды для графиков.
// Чистые функции над выборкой записей; доступ к данным остаётся в db.
package series

import (
	"math"
	"sort"
	"time"

	"feedbackhub/internal/models"
)

const dateLayout = "2006-01-02"

// DefaultWindowDays — окно по умолчанию: последние 90 дней включительно.
const DefaultWindowDays = 90

type Point struct {
	Date     string `json:"date"`
	AvgGrade int    `json:"avg_grade"`
	Count    int    `json:"count"`
}

// MergedPoint — точка на объединённой оси дат. Среднее отсутствующей
// категории — null, счётчик — 0.
type MergedPoint struct {
	Date        string `json:"date"`
	SelfAvg     *int   `json:"self_avg"`
	LeaderAvg   *int   `json:"leader_avg"`
	CountSelf   int    `json:"count_self"`
	CountLeader int    `json:"count_leader"`
}

// Window — границы окна [from, to]; пустые значения заменяются
// дефолтом: to = сегодня, from = сегодня - 90 дней.
func Window(from, to string, now time.Time) (string, string) {
	if to == "" {
		to = now.Format(dateLayout)
	}
	if from == "" {
		from = now.AddDate(0, 0, -DefaultWindowDays).Format(dateLayout)
	}
	return from, to
}

type acc struct {
	sum   int
	count int
}

func collect(byDate map[string]*acc) []Point {
	out := make([]Point, 0, len(byDate))
	for date, a := range byDate {
		out = append(out, Point{
			Date:     date,
			AvgGrade: roundAvg(a.sum, a.count),
			Count:    a.count,
		})
	}
	// ISO-даты сортируются лексикографически
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// округление до ближайшего целого, половина — от нуля
func roundAvg(sum, count int) int {
	return int(math.Round(float64(sum) / float64(count)))
}

// Split — два независимых ряда: самооценки (author_role=user)
// и оценки лидеров, каждый со средним по дате.
func Split(records []models.Feedback) (selfPts, leaderPts []Point) {
	selfByDate := map[string]*acc{}
	leaderByDate := map[string]*acc{}
	for _, f := range records {
		m := selfByDate
		if f.AuthorRole == models.RoleLeader {
			m = leaderByDate
		}
		a := m[f.WorkDate]
		if a == nil {
			a = &acc{}
			m[f.WorkDate] = a
		}
		a.sum += f.Grade
		a.count++
	}
	return collect(selfByDate), collect(leaderByDate)
}

// Merge — один ряд по объединению дат обеих категорий; дата,
// присутствующая только в одной категории, не теряется.
func Merge(selfPts, leaderPts []Point) []MergedPoint {
	byDate := map[string]*MergedPoint{}
	for _, p := range selfPts {
		avg := p.AvgGrade
		byDate[p.Date] = &MergedPoint{Date: p.Date, SelfAvg: &avg, CountSelf: p.Count}
	}
	for _, p := range leaderPts {
		avg := p.AvgGrade
		mp := byDate[p.Date]
		if mp == nil {
			mp = &MergedPoint{Date: p.Date}
			byDate[p.Date] = mp
		}
		mp.LeaderAvg = &avg
		mp.CountLeader = p.Count
	}

	out := make([]MergedPoint, 0, len(byDate))
	for _, mp := range byDate {
		out = append(out, *mp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// GradeThreshold делит участников группы на две корзины.
const GradeThreshold = 70

// Buckets — распределение средних оценок участников относительно порога.
// Участники без оценок (NULL-среднее) в avgs не попадают.
func Buckets(avgs []float64) []Bucket {
	below, above := 0, 0
	for _, a := range avgs {
		if a < GradeThreshold {
			below++
		} else {
			above++
		}
	}
	return []Bucket{
		{Label: "Below 70", Count: below},
		{Label: "70 and above", Count: above},
	}
}
