package session

import (
	"sync"
	"time"

	"github.com/Jhananishri-B/Learnquest-certificate/pkg/scoring"
	"github.com/Jhananishri-B/Learnquest-certificate/pkg/violation"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Session is one active proctored test attempt. All scoring operations
// go through the session's lock, so observations for a session apply
// strictly in arrival order while independent sessions never contend.
type Session struct {
	ID        string
	UserID    string
	CourseID  string
	StartedAt time.Time

	mu     sync.Mutex
	scorer *scoring.Scorer
}

// ProcessVideo applies one video analysis result and returns the
// resulting records plus the behavior score after application.
func (s *Session) ProcessVideo(r violation.VideoResult, now time.Time) ([]violation.Record, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.scorer.ProcessVideo(r, now)
	return recs, s.scorer.CurrentScore()
}

// ProcessAudio applies one audio analysis result.
func (s *Session) ProcessAudio(r violation.AudioResult, now time.Time) ([]violation.Record, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.scorer.ProcessAudio(r, now)
	return recs, s.scorer.CurrentScore()
}

// ProcessTabSwitch applies a tab-switch event.
func (s *Session) ProcessTabSwitch(now time.Time) (violation.Record, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.scorer.ProcessTabSwitch(now)
	return rec, s.scorer.CurrentScore()
}

// Snapshot returns the current behavior score and violation summary.
func (s *Session) Snapshot() (int, scoring.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scorer.CurrentScore(), s.scorer.Summary()
}

// Finalize computes the certification decision and the detailed report
// in one consistent view of the session.
func (s *Session) Finalize(testScore float64) (scoring.FinalResult, scoring.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scorer.Finalize(testScore), s.scorer.DetailedReport()
}

// Manager owns the active sessions, keyed by (user, course). Sessions
// share no state with each other; the manager lock only guards the map.
type Manager struct {
	rules scoring.Rules

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager returns an empty session manager using the given scoring
// rules for every session it starts.
func NewManager(rules scoring.Rules) *Manager {
	return &Manager{
		rules:    rules,
		sessions: make(map[string]*Session),
	}
}

func sessionKey(userID, courseID string) string {
	return userID + "/" + courseID
}

// Start creates a fresh session for (user, course), replacing and
// discarding any previous one for the same pair.
func (m *Manager) Start(userID, courseID string, now time.Time) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CourseID:  courseID,
		StartedAt: now,
		scorer:    scoring.NewScorer(m.rules),
	}

	m.mu.Lock()
	m.sessions[sessionKey(userID, courseID)] = s
	m.mu.Unlock()

	log.Infof("proctoring session started: user=%s course=%s id=%s", userID, courseID, s.ID)

	return s
}

// Get returns the active session for (user, course), if any.
func (m *Manager) Get(userID, courseID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionKey(userID, courseID)]
	return s, ok
}

// End discards the session for (user, course). Callers persist the
// finalized result before ending the session.
func (m *Manager) End(userID, courseID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionKey(userID, courseID))
}

// Active returns the number of active sessions.
func (m *Manager) Active() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
