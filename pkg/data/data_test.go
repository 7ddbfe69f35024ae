package data

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/Jhananishri-B/Learnquest-certificate/pkg/violation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), DataFileName)
	require.NoError(t, Init(path))
	db, err := GetDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInit_EmptyPath(t *testing.T) {
	assert.Error(t, Init(""))
}

func TestInit_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), DataFileName)
	require.NoError(t, Init(path))
	assert.NoError(t, Init(path))
}

func TestSaveAndGetViolations(t *testing.T) {
	db := setupTestDB(t)

	rec := violation.Record{
		Type:            violation.TypeNoiseDetected,
		Timestamp:       time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Severity:        violation.SeverityMedium,
		OccurrenceCount: 3,
		PenaltyApplied:  true,
		PenaltyAmount:   3,
		Context:         map[string]interface{}{"db_level": 72.5},
	}

	require.NoError(t, SaveViolation(db, "u1", "c1", rec))

	list, err := GetViolations(db, "u1", "c1", 0)
	require.NoError(t, err)
	require.Len(t, list, 1)

	got := list[0]
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "c1", got.CourseID)
	assert.Equal(t, violation.TypeNoiseDetected, got.Type)
	assert.Equal(t, violation.SeverityMedium, got.Severity)
	assert.Equal(t, rec.Timestamp, got.OccurredAt)
	assert.Equal(t, 3, got.OccurrenceCount)
	assert.True(t, got.PenaltyApplied)
	assert.Equal(t, 3, got.PenaltyAmount)
	assert.Equal(t, 72.5, got.Context["db_level"])
}

func TestGetViolations_ScopedToSession(t *testing.T) {
	db := setupTestDB(t)

	rec := violation.Record{Type: violation.TypeTabSwitch, Timestamp: time.Now().UTC(), Severity: violation.SeverityHigh}
	require.NoError(t, SaveViolation(db, "u1", "c1", rec))
	require.NoError(t, SaveViolation(db, "u1", "c2", rec))

	list, err := GetViolations(db, "u1", "c1", 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSaveViolation_InvalidArgs(t *testing.T) {
	db := setupTestDB(t)

	rec := violation.Record{Type: violation.TypeTabSwitch, Timestamp: time.Now().UTC()}
	assert.Error(t, SaveViolation(nil, "u1", "c1", rec))
	assert.Error(t, SaveViolation(db, "", "c1", rec))
	assert.Error(t, SaveViolation(db, "u1", "", rec))
}

func testResult(user, course string, submitted time.Time) *TestResult {
	return &TestResult{
		UserID:            user,
		CourseID:          course,
		Difficulty:        DifficultyMedium,
		TestScore:         90,
		BehaviorScore:     80,
		FinalScore:        86,
		CertificateStatus: "issued",
		ViolationCount:    4,
		SubmittedAt:       submitted,
	}
}

func TestSaveAndGetTestResults(t *testing.T) {
	db := setupTestDB(t)

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, SaveTestResult(db, testResult("u1", "c1", base)))
	require.NoError(t, SaveTestResult(db, testResult("u1", "c2", base.Add(time.Hour))))
	require.NoError(t, SaveTestResult(db, testResult("u2", "c1", base)))

	list, err := GetTestResults(db, "u1", 0)
	require.NoError(t, err)
	require.Len(t, list, 2)

	// Most recent first.
	assert.Equal(t, "c2", list[0].CourseID)
	assert.Equal(t, "c1", list[1].CourseID)
	assert.Equal(t, 86.0, list[0].FinalScore)
	assert.Equal(t, base.Add(time.Hour), list[0].SubmittedAt)
}

func TestGetLatestResult(t *testing.T) {
	db := setupTestDB(t)

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	first := testResult("u1", "c1", base)
	first.CertificateStatus = "not_issued"
	require.NoError(t, SaveTestResult(db, first))

	second := testResult("u1", "c1", base.Add(24*time.Hour))
	require.NoError(t, SaveTestResult(db, second))

	got, err := GetLatestResult(db, "u1", "c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "issued", got.CertificateStatus)
	assert.Equal(t, base.Add(24*time.Hour), got.SubmittedAt)
}

func TestGetLatestResult_NoSubmission(t *testing.T) {
	db := setupTestDB(t)

	got, err := GetLatestResult(db, "u1", "c1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSaveTestResult_InvalidArgs(t *testing.T) {
	db := setupTestDB(t)

	assert.Error(t, SaveTestResult(db, nil))
	assert.Error(t, SaveTestResult(nil, testResult("u1", "c1", time.Now())))
	assert.Error(t, SaveTestResult(db, testResult("", "c1", time.Now())))
}

func TestParseDifficulty(t *testing.T) {
	assert.Equal(t, DifficultyEasy, ParseDifficulty("easy"))
	assert.Equal(t, DifficultyHard, ParseDifficulty("hard"))
	assert.Equal(t, DifficultyMedium, ParseDifficulty(""))
	assert.Equal(t, DifficultyMedium, ParseDifficulty("impossible"))
}
