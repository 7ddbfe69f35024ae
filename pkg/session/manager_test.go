package session

import (
	"sync"
	"testing"
	"time"

	"github.com/Jhananishri-B/Learnquest-certificate/pkg/scoring"
	"github.com/Jhananishri-B/Learnquest-certificate/pkg/violation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNow() time.Time {
	return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
}

func TestManager_StartAndGet(t *testing.T) {
	m := NewManager(scoring.DefaultRules())

	s := m.Start("u1", "c1", testNow())
	require.NotNil(t, s)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "u1", s.UserID)
	assert.Equal(t, "c1", s.CourseID)

	got, ok := m.Get("u1", "c1")
	require.True(t, ok)
	assert.Same(t, s, got)

	_, ok = m.Get("u1", "c2")
	assert.False(t, ok)

	assert.Equal(t, 1, m.Active())
}

func TestManager_RestartDiscardsState(t *testing.T) {
	m := NewManager(scoring.DefaultRules())

	s1 := m.Start("u1", "c1", testNow())
	_, score := s1.ProcessTabSwitch(testNow())
	require.Equal(t, 95, score)

	s2 := m.Start("u1", "c1", testNow().Add(time.Minute))
	assert.NotEqual(t, s1.ID, s2.ID)

	score2, summary := s2.Snapshot()
	assert.Equal(t, 100, score2)
	assert.Equal(t, 0, summary.TotalViolations)
	assert.Equal(t, 1, m.Active())
}

func TestManager_End(t *testing.T) {
	m := NewManager(scoring.DefaultRules())

	m.Start("u1", "c1", testNow())
	m.End("u1", "c1")

	_, ok := m.Get("u1", "c1")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Active())
}

func TestManager_SessionsAreIndependent(t *testing.T) {
	m := NewManager(scoring.DefaultRules())

	a := m.Start("u1", "c1", testNow())
	b := m.Start("u2", "c1", testNow())

	a.ProcessTabSwitch(testNow())

	scoreA, _ := a.Snapshot()
	scoreB, _ := b.Snapshot()
	assert.Equal(t, 95, scoreA)
	assert.Equal(t, 100, scoreB)
}

func TestSession_Finalize(t *testing.T) {
	m := NewManager(scoring.DefaultRules())

	s := m.Start("u1", "c1", testNow())
	s.ProcessVideo(violation.VideoResult{FaceCount: 2}, testNow())

	final, report := s.Finalize(90)
	assert.Equal(t, 100.0, final.BehaviorScore)
	assert.Equal(t, 1, report.SessionSummary.TotalViolations)
	assert.Len(t, report.Timeline, 1)
}

func TestSession_ConcurrentObservationsStayBounded(t *testing.T) {
	m := NewManager(scoring.DefaultRules())
	s := m.Start("u1", "c1", testNow())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.ProcessTabSwitch(testNow().Add(time.Duration(i) * time.Second))
		}(i)
	}
	wg.Wait()

	score, summary := s.Snapshot()
	assert.GreaterOrEqual(t, score, 0)
	assert.LessOrEqual(t, score, 100)
	assert.Equal(t, 20, summary.TotalViolations)
}
