package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"feedbackhub/internal/db"
	"feedbackhub/internal/observability"
	"feedbackhub/internal/series"
)

func (s *Server) handleListGroups(c *gin.Context) {
	groups, err := db.ListGroups(c.Request.Context(), s.database, s.userID(c), c.Query("search"))
	if err != nil {
		observability.CaptureErr(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if groups == nil {
		groups = []db.GroupInfo{}
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

func (s *Server) handleCreateGroup(c *gin.Context) {
	var body struct {
		Groupname string `json:"groupname"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Groupname) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "groupname is required"})
		return
	}
	err := db.CreateGroup(c.Request.Context(), s.database, strings.TrimSpace(body.Groupname), s.userID(c))
	if errors.Is(err, db.ErrDuplicate) {
		c.JSON(http.StatusConflict, gin.H{"error": "Group already exists"})
		return
	}
	if err != nil {
		observability.CaptureErr(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"groupname": strings.TrimSpace(body.Groupname)})
}

func (s *Server) handleDeleteGroup(c *gin.Context) {
	err := db.DeleteGroup(c.Request.Context(), s.database, c.Param("groupname"))
	if errors.Is(err, db.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}
	if err != nil {
		observability.CaptureErr(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListMembers(c *gin.Context) {
	members, err := db.ListGroupMembers(c.Request.Context(), s.database, c.Param("groupname"))
	if err != nil {
		observability.CaptureErr(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if members == nil {
		members = []db.GroupMember{}
	}
	c.JSON(http.StatusOK, members)
}

func (s *Server) handleAddMember(c *gin.Context) {
	var body struct {
		UserID int64 `json:"user_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.UserID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	err := db.AddGroupMember(c.Request.Context(), s.database, c.Param("groupname"), body.UserID)
	if errors.Is(err, db.ErrDuplicate) {
		c.JSON(http.StatusConflict, gin.H{"error": "Member already in group"})
		return
	}
	if err != nil {
		observability.CaptureErr(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusCreated)
}

func (s *Server) handleRemoveMember(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad user_id"})
		return
	}
	err = db.RemoveGroupMember(c.Request.Context(), s.database, c.Param("groupname"), userID)
	if errors.Is(err, db.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}
	if err != nil {
		observability.CaptureErr(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAddFavorite(c *gin.Context) {
	if err := db.AddFavorite(c.Request.Context(), s.database, s.userID(c), c.Param("groupname")); err != nil {
		observability.CaptureErr(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleRemoveFavorite(c *gin.Context) {
	if err := db.RemoveFavorite(c.Request.Context(), s.database, s.userID(c), c.Param("groupname")); err != nil {
		observability.CaptureErr(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// handleGradeBuckets — сколько участников группы ниже/выше порога по
// среднему; участники без оценок не учитываются.
func (s *Server) handleGradeBuckets(c *gin.Context) {
	groupname := c.Param("groupname")
	memberAvgs, err := db.GroupGradeAverages(c.Request.Context(), s.database, groupname)
	if err != nil {
		observability.CaptureErr(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	avgs := make([]float64, 0, len(memberAvgs))
	for _, m := range memberAvgs {
		if m.AvgGrade.Valid {
			avgs = append(avgs, m.AvgGrade.Float64)
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"groupname": groupname,
		"buckets":   series.Buckets(avgs),
	})
}
