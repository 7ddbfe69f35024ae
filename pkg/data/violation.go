package data

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/Jhananishri-B/Learnquest-certificate/pkg/violation"
	"github.com/pkg/errors"
)

const (
	violationQueryLimitDefault = 1000

	insertViolationSQL = `INSERT INTO violation (
			user_id, course_id, violation_type, severity, occurred_at,
			occurrence_count, penalty_applied, penalty_amount, context
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectViolationsSQL = `SELECT
			user_id, course_id, violation_type, severity, occurred_at,
			occurrence_count, penalty_applied, penalty_amount, context
		FROM violation
		WHERE user_id = ? AND course_id = ?
		ORDER BY occurred_at DESC
		LIMIT ?
	`
)

// StoredViolation is one persisted violation record, keyed by the
// session it occurred in.
type StoredViolation struct {
	UserID          string                 `json:"user_id"`
	CourseID        string                 `json:"course_id"`
	Type            violation.Type         `json:"type"`
	Severity        violation.Severity     `json:"severity"`
	OccurredAt      time.Time              `json:"occurred_at"`
	OccurrenceCount int                    `json:"occurrence_count"`
	PenaltyApplied  bool                   `json:"penalty_applied"`
	PenaltyAmount   int                    `json:"penalty_amount"`
	Context         map[string]interface{} `json:"context,omitempty"`
}

// SaveViolation appends one violation record for a session.
func SaveViolation(db *sql.DB, userID, courseID string, r violation.Record) error {
	if db == nil {
		return errNilDB
	}
	if userID == "" || courseID == "" {
		return errors.New("userID and courseID are required")
	}

	var ctx []byte
	if r.Context != nil {
		b, err := json.Marshal(r.Context)
		if err != nil {
			return errors.Wrap(err, "failed to serialize violation context")
		}
		ctx = b
	}

	if _, err := db.Exec(insertViolationSQL,
		userID, courseID, string(r.Type), string(r.Severity), r.Timestamp.UTC().Format(time.RFC3339Nano),
		r.OccurrenceCount, r.PenaltyApplied, r.PenaltyAmount, ctx); err != nil {
		return errors.Wrapf(err, "failed to insert violation for %s/%s", userID, courseID)
	}

	return nil
}

// GetViolations returns the persisted violations for one session,
// most recent first.
func GetViolations(db *sql.DB, userID, courseID string, limit int) ([]*StoredViolation, error) {
	if db == nil {
		return nil, errNilDB
	}
	if userID == "" || courseID == "" {
		return nil, errors.New("userID and courseID are required")
	}
	if limit <= 0 {
		limit = violationQueryLimitDefault
	}

	rows, err := db.Query(selectViolationsSQL, userID, courseID, limit)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query violations for %s/%s", userID, courseID)
	}
	defer rows.Close()

	list := make([]*StoredViolation, 0)
	for rows.Next() {
		v := &StoredViolation{}
		var occurred string
		var ctx []byte
		if err := rows.Scan(&v.UserID, &v.CourseID, &v.Type, &v.Severity, &occurred,
			&v.OccurrenceCount, &v.PenaltyApplied, &v.PenaltyAmount, &ctx); err != nil {
			return nil, errors.Wrap(err, "failed to scan violation row")
		}
		if v.OccurredAt, err = time.Parse(time.RFC3339Nano, occurred); err != nil {
			return nil, errors.Wrapf(err, "failed to parse violation timestamp: %s", occurred)
		}
		if len(ctx) > 0 {
			if err := json.Unmarshal(ctx, &v.Context); err != nil {
				return nil, errors.Wrap(err, "failed to parse violation context")
			}
		}
		list = append(list, v)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading violation rows")
	}

	return list, nil
}
