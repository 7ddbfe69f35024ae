package data

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

const (
	resultQueryLimitDefault = 100

	insertResultSQL = `INSERT INTO test_result (
			user_id, course_id, difficulty, test_score, behavior_score,
			final_score, certificate_status, violation_count, submitted_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectResultsByUserSQL = `SELECT
			user_id, course_id, difficulty, test_score, behavior_score,
			final_score, certificate_status, violation_count, submitted_at
		FROM test_result
		WHERE user_id = ?
		ORDER BY submitted_at DESC
		LIMIT ?
	`

	selectLatestResultSQL = `SELECT
			user_id, course_id, difficulty, test_score, behavior_score,
			final_score, certificate_status, violation_count, submitted_at
		FROM test_result
		WHERE user_id = ? AND course_id = ?
		ORDER BY submitted_at DESC
		LIMIT 1
	`
)

// Difficulty is the declared difficulty of a submitted test.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty maps a raw difficulty string to a known level,
// defaulting to medium.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s)
	default:
		return DifficultyMedium
	}
}

// TestResult is one finalized, persisted submission.
type TestResult struct {
	UserID            string     `json:"user_id"`
	CourseID          string     `json:"course_id"`
	Difficulty        Difficulty `json:"difficulty"`
	TestScore         float64    `json:"test_score"`
	BehaviorScore     float64    `json:"behavior_score"`
	FinalScore        float64    `json:"final_score"`
	CertificateStatus string     `json:"certificate_status"`
	ViolationCount    int        `json:"violation_count"`
	SubmittedAt       time.Time  `json:"submitted_at"`
}

// SaveTestResult stores one finalized submission.
func SaveTestResult(db *sql.DB, r *TestResult) error {
	if db == nil {
		return errNilDB
	}
	if r == nil {
		return errors.New("test result is required")
	}
	if r.UserID == "" || r.CourseID == "" {
		return errors.New("userID and courseID are required")
	}

	if _, err := db.Exec(insertResultSQL,
		r.UserID, r.CourseID, string(r.Difficulty), r.TestScore, r.BehaviorScore,
		r.FinalScore, r.CertificateStatus, r.ViolationCount, r.SubmittedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return errors.Wrapf(err, "failed to insert test result for %s/%s", r.UserID, r.CourseID)
	}

	return nil
}

// GetTestResults returns a user's submissions, most recent first.
func GetTestResults(db *sql.DB, userID string, limit int) ([]*TestResult, error) {
	if db == nil {
		return nil, errNilDB
	}
	if userID == "" {
		return nil, errors.New("userID is required")
	}
	if limit <= 0 {
		limit = resultQueryLimitDefault
	}

	rows, err := db.Query(selectResultsByUserSQL, userID, limit)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query test results for %s", userID)
	}
	defer rows.Close()

	list := make([]*TestResult, 0)
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, r)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading test result rows")
	}

	return list, nil
}

// GetLatestResult returns the most recent submission for (user, course),
// or nil when the user has never submitted for that course.
func GetLatestResult(db *sql.DB, userID, courseID string) (*TestResult, error) {
	if db == nil {
		return nil, errNilDB
	}
	if userID == "" || courseID == "" {
		return nil, errors.New("userID and courseID are required")
	}

	rows, err := db.Query(selectLatestResultSQL, userID, courseID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query latest result for %s/%s", userID, courseID)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, errors.Wrap(err, "error reading latest result row")
		}
		return nil, nil
	}

	return scanResult(rows)
}

func scanResult(rows *sql.Rows) (*TestResult, error) {
	r := &TestResult{}
	var submitted string
	if err := rows.Scan(&r.UserID, &r.CourseID, &r.Difficulty, &r.TestScore, &r.BehaviorScore,
		&r.FinalScore, &r.CertificateStatus, &r.ViolationCount, &submitted); err != nil {
		return nil, errors.Wrap(err, "failed to scan test result row")
	}
	t, err := time.Parse(time.RFC3339Nano, submitted)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse result timestamp: %s", submitted)
	}
	r.SubmittedAt = t
	return r, nil
}
