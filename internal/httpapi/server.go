// Package httpapi — JSON API сервиса: импорт CSV, ряды для графиков,
// группы и экспорт. Аутентификация — bearer-токен из api_tokens.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"feedbackhub/internal/config"
	"feedbackhub/internal/metrics"
	"feedbackhub/internal/notify"
)

type Server struct {
	cfg      *config.Config
	database *sql.DB
	log      *zap.SugaredLogger
	notifier *notify.Notifier
	srv      *http.Server
}

func New(cfg *config.Config, database *sql.DB, log *zap.SugaredLogger, notifier *notify.Notifier) *Server {
	s := &Server{cfg: cfg, database: database, log: log, notifier: notifier}

	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.observe())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type"},
	}))

	r.GET("/healthz", s.handleHealthz)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api", s.requireAuth())
	api.POST("/feedback/import", s.handleImport)
	api.GET("/feedback/series", s.handleSeries)
	api.GET("/feedback/series/merged", s.handleSeriesMerged)
	api.GET("/feedback/export", s.requireLeader(), s.handleExport)

	api.GET("/groups", s.handleListGroups)
	api.POST("/groups", s.requireLeader(), s.handleCreateGroup)
	api.DELETE("/groups/:groupname", s.requireLeader(), s.handleDeleteGroup)
	api.GET("/groups/:groupname/members", s.handleListMembers)
	api.POST("/groups/:groupname/members", s.requireLeader(), s.handleAddMember)
	api.DELETE("/groups/:groupname/members/:user_id", s.requireLeader(), s.handleRemoveMember)
	api.PUT("/groups/:groupname/favorite", s.handleAddFavorite)
	api.DELETE("/groups/:groupname/favorite", s.handleRemoveFavorite)
	api.GET("/groups/:groupname/grade-buckets", s.handleGradeBuckets)

	s.srv = &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	return s
}

// Handler — для httptest.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) Start(ctx context.Context) {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Errorw("http server", "err", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shCtx)
	}()
}

func (s *Server) handleHealthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 800*time.Millisecond)
	defer cancel()
	t0 := time.Now()
	if err := s.database.PingContext(ctx); err != nil {
		c.String(http.StatusServiceUnavailable, "db not ok: "+err.Error())
		return
	}
	metrics.ObserveDBPing(time.Since(t0))
	c.String(http.StatusOK, "ok")
}
