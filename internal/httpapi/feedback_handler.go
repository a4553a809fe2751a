package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"feedbackhub/internal/db"
	"feedbackhub/internal/export"
	"feedbackhub/internal/importer"
	"feedbackhub/internal/observability"
	"feedbackhub/internal/series"
)

// handleImport — загрузка CSV. Ответ всегда разделяет «что загружено»
// и «что и почему отвергнуто»; код 200 даже при нуле успешных строк.
func (s *Server) handleImport(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer func() { _ = f.Close() }()

	res, err := importer.Run(c.Request.Context(), s.database, s.log, s.userID(c), f)
	switch {
	case errors.Is(err, importer.ErrNotLeader):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: Leaders only"})
		return
	case errors.Is(err, importer.ErrBadCSV):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		observability.CaptureErr(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.notifier.ImportFinished(res.Summary.TotalRows, res.Summary.Imported, res.Summary.Skipped, len(res.Errors))
	c.JSON(http.StatusOK, res)
}

// seriesParams — target_user_id обязателен, окно по умолчанию 90 дней.
func (s *Server) seriesParams(c *gin.Context) (int64, string, string, bool) {
	targetID, err := strconv.ParseInt(c.Query("target_user_id"), 10, 64)
	if err != nil || targetID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_user_id is required"})
		return 0, "", "", false
	}
	from, to := series.Window(c.Query("from"), c.Query("to"), time.Now().In(s.cfg.Location))
	return targetID, from, to, true
}

func (s *Server) handleSeries(c *gin.Context) {
	targetID, from, to, ok := s.seriesParams(c)
	if !ok {
		return
	}
	records, err := db.ListFeedbackByTarget(c.Request.Context(), s.database, targetID, from, to)
	if err != nil {
		observability.CaptureErr(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	selfPts, leaderPts := series.Split(records)
	c.JSON(http.StatusOK, gin.H{
		"self_reviews":   selfPts,
		"leader_reviews": leaderPts,
	})
}

func (s *Server) handleSeriesMerged(c *gin.Context) {
	targetID, from, to, ok := s.seriesParams(c)
	if !ok {
		return
	}
	records, err := db.ListFeedbackByTarget(c.Request.Context(), s.database, targetID, from, to)
	if err != nil {
		observability.CaptureErr(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	selfPts, leaderPts := series.Split(records)
	c.JSON(http.StatusOK, gin.H{"series": series.Merge(selfPts, leaderPts)})
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleExport — история оценок субъекта в .xlsx (только лидерам).
func (s *Server) handleExport(c *gin.Context) {
	targetID, from, to, ok := s.seriesParams(c)
	if !ok {
		return
	}
	records, err := db.ListFeedbackByTarget(c.Request.Context(), s.database, targetID, from, to)
	if err != nil {
		observability.CaptureErr(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ids := []int64{targetID}
	for _, r := range records {
		ids = append(ids, r.AuthorUserID)
	}
	usernames, err := db.UsernamesByIDs(c.Request.Context(), s.database, ids)
	if err != nil {
		observability.CaptureErr(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	buf, err := export.FeedbackWorkbook(records, usernames)
	if err != nil {
		observability.CaptureErr(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	target := usernames[targetID]
	if target == "" {
		target = strconv.FormatInt(targetID, 10)
	}
	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(target, from, to)+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
