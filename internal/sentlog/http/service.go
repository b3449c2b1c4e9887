package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog/log"

	"github.com/sentlog/sentlog/internal/errors"
	"github.com/sentlog/sentlog/internal/model"
	"github.com/sentlog/sentlog/internal/report"
	"github.com/sentlog/sentlog/internal/tally"
)

type Service struct {
	conf     Config
	source   Source
	reporter Reporter
	started  time.Time

	router *gin.Engine
	server *http.Server
}

type Config interface {
	GetHTTPAddr() string
	ServesFormat(format string) bool
}

// Source is the live tally.
type Source interface {
	Snapshot() *model.Snapshot
	State() tally.State
	RunID() string
}

// Reporter renders snapshots the same way the shutdown export does.
type Reporter interface {
	Rows(snap *model.Snapshot) [][]any
	Meta(snap *model.Snapshot) report.Meta
}

func NewService(conf Config, source Source, reporter Reporter) *Service {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	if err := router.SetTrustedProxies(nil); err != nil {
		log.Err(err).Msg("Failed to set trusted proxies")
	}

	router.Use(
		errors.RecoveryMiddleware(),
		errors.ErrorHandlerMiddleware(),
		gin.LoggerWithWriter(log.Logger, "/health"),
	)

	s := &Service{
		conf:     conf,
		source:   source,
		reporter: reporter,
		started:  time.Now(),
		router:   router,
	}

	s.initRouter()
	return s
}

func (s *Service) Start() error {

	s.server = &http.Server{
		Addr:              s.conf.GetHTTPAddr(),
		Handler:           gzhttp.GzipHandler(s.router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Err(err).Msg("Failed to start HTTP server")
		}
	}()

	log.Info().Msg("Starting HTTP server on " + s.conf.GetHTTPAddr())

	return nil
}

func (s *Service) Stop() error {

	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.Debug().Err(err).Msg("Failed to shutdown HTTP server")
		return nil
	}

	log.Info().Msg("HTTP server stopped")
	return nil
}

func (s *Service) GetRouter() *gin.Engine {
	return s.router
}
