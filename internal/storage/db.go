package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq" // PostgreSQL driver

	"resume-parser/internal/cv"
	"resume-parser/internal/logger"
)

// uniqueViolation is the Postgres SQLSTATE for unique constraint violations.
const uniqueViolation = "23505"

type DB struct {
	connection *sql.DB
	newID      func() string
}

func NewDB(dataSourceName string) (*DB, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, err
	}

	// Connection pool tuning
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return NewDBFromConn(db), nil
}

// NewDBFromConn wraps an already opened connection pool.
func NewDBFromConn(conn *sql.DB) *DB {
	return &DB{
		connection: conn,
		newID:      func() string { return uuid.New().String() },
	}
}

func (db *DB) Close() {
	if err := db.connection.Close(); err != nil {
		logger.Error().Err(err).Msg("error closing the database connection")
	}
}

// SaveCandidate persists rec for tenantID and returns the new candidate ID.
//
// The email must not exist in the candidate, company or users tables. Concurrent
// saves of the same email are serialized with a transaction-scoped advisory lock,
// and the insert itself is ON CONFLICT DO NOTHING so a unique index on
// candidate(email_id), where present, also rejects duplicates.
func (db *DB) SaveCandidate(ctx context.Context, rec *cv.Record, tenantID string) (string, error) {
	tx, err := db.connection.BeginTx(ctx, nil)
	if err != nil {
		return "", &PersistenceError{Op: "begin transaction", Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, rec.Email); err != nil {
		return "", &PersistenceError{Op: "lock email", Err: err}
	}

	for _, space := range identitySpaces {
		exists, err := emailExists(ctx, tx, space, rec.Email)
		if err != nil {
			return "", &PersistenceError{Op: "check " + space.Table, Err: err}
		}
		if exists {
			return "", &ErrDuplicateEmail{Email: rec.Email, Table: space.Table}
		}
	}

	row, exp := NewCandidateRow(db.newID(), rec, tenantID)
	if exp.Malformed {
		logger.Ctx(ctx).Warn().
			Str("experience", rec.Experience).
			Msg("experience is not a number, storing 0")
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO candidate (candidate_id, name, phone_number, email_id, relevant_experience, skill_set,
		                        current_job_role, current_work_location, account_active, deleted, tenant_id,
		                        terms_and_policy_accepted)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true, false, $9, true)
		 ON CONFLICT DO NOTHING`,
		row.CandidateID,
		row.Name,
		row.PhoneNumber,
		row.EmailID,
		row.RelevantExperience,
		row.SkillSet,
		row.CurrentJobRole,
		row.CurrentWorkLocation,
		row.TenantID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return "", &ErrDuplicateEmail{Email: rec.Email, Table: "candidate"}
		}
		return "", &PersistenceError{Op: "insert candidate", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", &PersistenceError{Op: "rows affected", Err: err}
	}
	if n == 0 {
		return "", &ErrDuplicateEmail{Email: rec.Email, Table: "candidate"}
	}

	if err := tx.Commit(); err != nil {
		return "", &PersistenceError{Op: "commit", Err: err}
	}
	committed = true

	return row.CandidateID, nil
}

func emailExists(ctx context.Context, tx *sql.Tx, space identitySpace, email string) (bool, error) {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1)`,
		pq.QuoteIdentifier(space.Table), pq.QuoteIdentifier(space.Column))
	err := tx.QueryRowContext(ctx, query, email).Scan(&exists)
	return exists, err
}

// GetCandidateContext loads a stored candidate by ID.
func (db *DB) GetCandidateContext(ctx context.Context, candidateID string) (*CandidateRow, error) {
	row := &CandidateRow{}
	query := `SELECT candidate_id, name, phone_number, email_id, relevant_experience, skill_set,
	                 current_job_role, current_work_location, account_active, deleted, tenant_id,
	                 terms_and_policy_accepted
	          FROM candidate WHERE candidate_id = $1`
	var phone, skills, role, location sql.NullString
	err := db.connection.QueryRowContext(ctx, query, candidateID).Scan(
		&row.CandidateID, &row.Name, &phone, &row.EmailID, &row.RelevantExperience, &skills,
		&role, &location, &row.AccountActive, &row.Deleted, &row.TenantID, &row.TermsAccepted,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &ErrCandidateNotFound{CandidateID: candidateID}
	}
	if err != nil {
		return nil, &PersistenceError{Op: "get candidate", Err: err}
	}
	row.PhoneNumber = phone.String
	row.SkillSet = skills.String
	row.CurrentJobRole = role.String
	row.CurrentWorkLocation = location.String
	return row, nil
}

// GetConnection returns the underlying database connection for advanced queries
func (db *DB) GetConnection() *sql.DB {
	return db.connection
}

// NewCandidateRow maps an assembled record onto the candidate table columns.
// The returned ExperienceValue tells how RelevantExperience was derived.
func NewCandidateRow(candidateID string, rec *cv.Record, tenantID string) (CandidateRow, ExperienceValue) {
	exp := CoerceExperience(rec.Experience)
	return CandidateRow{
		CandidateID:         candidateID,
		Name:                rec.FullName(),
		PhoneNumber:         FormatPhoneNumbers(rec.PhoneNumbers),
		EmailID:             rec.Email,
		RelevantExperience:  exp.Years,
		SkillSet:            rec.Skillset.String(),
		CurrentJobRole:      rec.JobRole,
		CurrentWorkLocation: rec.Location,
		AccountActive:       true,
		Deleted:             false,
		TenantID:            tenantID,
		TermsAccepted:       true,
	}, exp
}

var leadingNumber = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)(?:\s+years?)?\s*$`)

// CoerceExperience converts "5", "5.5" or "5 years" to years. Empty input is 0;
// anything else is 0 and reported as Malformed.
//
// Unlike a plain float parse, which rejects "5 years" and would store 0, the
// "<n> years" phrase that ExtractExperience produces is stored as n.
func CoerceExperience(s string) ExperienceValue {
	if strings.TrimSpace(s) == "" {
		return ExperienceValue{}
	}
	m := leadingNumber.FindStringSubmatch(s)
	if m == nil {
		return ExperienceValue{Malformed: true}
	}
	years, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return ExperienceValue{Malformed: true}
	}
	return ExperienceValue{Years: years}
}

// FormatPhoneNumbers joins numbers with ", ".
func FormatPhoneNumbers(numbers []string) string {
	return strings.Join(numbers, ", ")
}
