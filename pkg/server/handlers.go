package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Jhananishri-B/Learnquest-certificate/pkg/data"
	"github.com/Jhananishri-B/Learnquest-certificate/pkg/violation"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type sessionRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	CourseID string `json:"course_id" binding:"required"`
}

type videoObservationRequest struct {
	UserID   string                `json:"user_id" binding:"required"`
	CourseID string                `json:"course_id" binding:"required"`
	Result   violation.VideoResult `json:"result"`
}

type audioObservationRequest struct {
	UserID   string                `json:"user_id" binding:"required"`
	CourseID string                `json:"course_id" binding:"required"`
	Result   violation.AudioResult `json:"result"`
}

type submitTestRequest struct {
	UserID     string  `json:"user_id" binding:"required"`
	CourseID   string  `json:"course_id" binding:"required"`
	TestScore  float64 `json:"test_score"`
	Difficulty string  `json:"difficulty"`
}

func (s *Server) startSessionHandler(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and course_id are required"})
		return
	}

	sess := s.sessions.Start(req.UserID, req.CourseID, time.Now().UTC())

	c.JSON(http.StatusOK, gin.H{
		"session_id":     sess.ID,
		"user_id":        sess.UserID,
		"course_id":      sess.CourseID,
		"behavior_score": 100,
	})
}

func (s *Server) videoObservationHandler(c *gin.Context) {
	var req videoObservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid observation payload"})
		return
	}

	sess, ok := s.sessions.Get(req.UserID, req.CourseID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active session"})
		return
	}

	records, score := sess.ProcessVideo(req.Result, time.Now().UTC())
	s.persistRecords(req.UserID, req.CourseID, records)

	c.JSON(http.StatusOK, gin.H{
		"violations":     records,
		"behavior_score": score,
	})
}

func (s *Server) audioObservationHandler(c *gin.Context) {
	var req audioObservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid observation payload"})
		return
	}

	sess, ok := s.sessions.Get(req.UserID, req.CourseID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active session"})
		return
	}

	records, score := sess.ProcessAudio(req.Result, time.Now().UTC())
	s.persistRecords(req.UserID, req.CourseID, records)

	c.JSON(http.StatusOK, gin.H{
		"violations":     records,
		"behavior_score": score,
	})
}

func (s *Server) tabSwitchHandler(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and course_id are required"})
		return
	}

	sess, ok := s.sessions.Get(req.UserID, req.CourseID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active session"})
		return
	}

	record, score := sess.ProcessTabSwitch(time.Now().UTC())
	s.persistRecords(req.UserID, req.CourseID, []violation.Record{record})

	c.JSON(http.StatusOK, gin.H{
		"violation":      record,
		"behavior_score": score,
	})
}

func (s *Server) scoreHandler(c *gin.Context) {
	sess, ok := s.sessions.Get(c.Param("user"), c.Param("course"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active session"})
		return
	}

	score, summary := sess.Snapshot()

	c.JSON(http.StatusOK, gin.H{
		"behavior_score":    score,
		"violation_summary": summary,
	})
}

func (s *Server) submitTestHandler(c *gin.Context) {
	var req submitTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and course_id are required"})
		return
	}

	sess, ok := s.sessions.Get(req.UserID, req.CourseID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active session"})
		return
	}

	final, report := sess.Finalize(req.TestScore)

	result := &data.TestResult{
		UserID:            req.UserID,
		CourseID:          req.CourseID,
		Difficulty:        data.ParseDifficulty(req.Difficulty),
		TestScore:         final.TestScore,
		BehaviorScore:     final.BehaviorScore,
		FinalScore:        final.FinalScore,
		CertificateStatus: final.CertificateStatus,
		ViolationCount:    final.ViolationSummary.TotalViolations,
		SubmittedAt:       time.Now().UTC(),
	}

	if err := data.SaveTestResult(s.db, result); err != nil {
		log.Errorf("error saving test result: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save test result"})
		return
	}

	s.sessions.End(req.UserID, req.CourseID)

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"final_score":        final.FinalScore,
		"certificate_status": final.CertificateStatus,
		"violations_count":   final.ViolationSummary.TotalViolations,
		"detailed_report":    report,
	})
}

func (s *Server) testResultsHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	results, err := data.GetTestResults(s.db, c.Param("user"), limit)
	if err != nil {
		log.Errorf("error fetching test results: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch test results"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (s *Server) violationsHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	violations, err := data.GetViolations(s.db, c.Param("user"), c.Param("course"), limit)
	if err != nil {
		log.Errorf("error fetching violations: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch violations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"violations": violations})
}

func (s *Server) certificateStatusHandler(c *gin.Context) {
	result, err := data.GetLatestResult(s.db, c.Param("user"), c.Param("course"))
	if err != nil {
		log.Errorf("error fetching certificate status: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch certificate status"})
		return
	}
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no submission found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"certificate_status": result.CertificateStatus,
		"final_score":        result.FinalScore,
		"submitted_at":       result.SubmittedAt,
	})
}

// persistRecords appends the records to the store. Storage failures are
// logged and do not interrupt the live session.
func (s *Server) persistRecords(userID, courseID string, records []violation.Record) {
	for _, r := range records {
		if err := data.SaveViolation(s.db, userID, courseID, r); err != nil {
			log.Errorf("error logging violation: %v", err)
		}
	}
}
