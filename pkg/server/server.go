package server

import (
	"database/sql"
	"net/http"

	"github.com/Jhananishri-B/Learnquest-certificate/pkg/scoring"
	"github.com/Jhananishri-B/Learnquest-certificate/pkg/session"
	"github.com/gin-gonic/gin"
)

// Server relays observations from the proctoring transport into the
// per-session scorers and exposes the query surface over the store.
type Server struct {
	db       *sql.DB
	sessions *session.Manager
	router   *gin.Engine
}

// New wires the server routes over the given database and scoring
// rules.
func New(db *sql.DB, rules scoring.Rules) *Server {
	s := &Server{
		db:       db,
		sessions: session.NewManager(rules),
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api/proctoring")
	api.POST("/session/start", s.startSessionHandler)
	api.POST("/observation/video", s.videoObservationHandler)
	api.POST("/observation/audio", s.audioObservationHandler)
	api.POST("/tab-switch", s.tabSwitchHandler)
	api.GET("/score/:user/:course", s.scoreHandler)
	api.POST("/submit-test", s.submitTestHandler)
	api.GET("/test-results/:user", s.testResultsHandler)
	api.GET("/violations/:user/:course", s.violationsHandler)
	api.GET("/certificate-status/:user/:course", s.certificateStatusHandler)

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	s.router = r

	return s
}

// Router returns the HTTP handler for the server.
func (s *Server) Router() http.Handler {
	return s.router
}
