package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"streamlearn/internal/model"

	"github.com/lib/pq"
)

type UserRepository interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	SetActive(ctx context.Context, id string, active bool) error
	SetAdmin(ctx context.Context, id string, admin bool) error
	// GrantCourse, RevokeCourse and ToggleCourse change one entitlement in a single
	// statement and return the updated user.
	GrantCourse(ctx context.Context, id string, courseID int64) (*model.User, error)
	RevokeCourse(ctx context.Context, id string, courseID int64) (*model.User, error)
	ToggleCourse(ctx context.Context, id string, courseID int64) (*model.User, error)
	SetPasswordHash(ctx context.Context, id, hash string) error
	// RegisterLogin bumps the login counters and opens a session row in one transaction.
	RegisterLogin(ctx context.Context, s *model.LoginSession) error
	// CreateUserWithLogin inserts the user and registers its first login in one transaction.
	CreateUserWithLogin(ctx context.Context, u *model.User, s *model.LoginSession) error
	EndSession(ctx context.Context, sessionID int64, userID string, at time.Time) error
	ListSessions(ctx context.Context, userID string, limit int) ([]model.LoginSession, error)
}

type userRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, name, email, password_hash, is_active, is_admin, accessible_courses,
	ip_address, last_login, login_count, registration_date, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	courses := pq.Int64Array{}
	if err := row.Scan(
		&u.UserID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.IsActive,
		&u.IsAdmin,
		&courses,
		&u.IPAddress,
		&u.LastLogin,
		&u.LoginCount,
		&u.RegistrationDate,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	u.AccessibleCourses = []int64(courses)
	if u.AccessibleCourses == nil {
		u.AccessibleCourses = []int64{}
	}
	return &u, nil
}

// execQueryer is satisfied by *sql.DB and *sql.Tx.
type execQueryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *userRepo) CreateUser(ctx context.Context, u *model.User) error {
	return insertUser(ctx, r.db, u)
}

func (r *userRepo) CreateUserWithLogin(ctx context.Context, u *model.User, s *model.LoginSession) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertUser(ctx, tx, u); err != nil {
		return err
	}
	if err := registerLogin(ctx, tx, s); err != nil {
		return err
	}
	return tx.Commit()
}

func insertUser(ctx context.Context, q execQueryer, u *model.User) error {
	if u.AccessibleCourses == nil {
		u.AccessibleCourses = []int64{}
	}
	query := `INSERT INTO users (id, name, email, password_hash, is_active, is_admin, accessible_courses)
              VALUES ($1, $2, $3, $4, $5, $6, $7)
              RETURNING login_count, registration_date, created_at, updated_at`
	err := q.QueryRowContext(ctx, query,
		u.UserID, u.Name, u.Email, u.PasswordHash, u.IsActive, u.IsAdmin, pq.Array(u.AccessibleCourses),
	).Scan(&u.LoginCount, &u.RegistrationDate, &u.CreatedAt, &u.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *userRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email)=lower($1)`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *userRepo) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *userRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return expectOneRow(res.RowsAffected())
}

func (r *userRepo) SetActive(ctx context.Context, id string, active bool) error {
	return r.exec(ctx, `UPDATE users SET is_active=$2, updated_at=NOW() WHERE id=$1`, id, active)
}

func (r *userRepo) SetAdmin(ctx context.Context, id string, admin bool) error {
	return r.exec(ctx, `UPDATE users SET is_admin=$2, updated_at=NOW() WHERE id=$1`, id, admin)
}

// Entitlement changes are computed by Postgres from the current row, so
// concurrent grants and revokes cannot overwrite each other.
const (
	grantCourseExpr  = `CASE WHEN $2::bigint = ANY(accessible_courses) THEN accessible_courses ELSE array_append(accessible_courses, $2::bigint) END`
	revokeCourseExpr = `array_remove(accessible_courses, $2::bigint)`
	toggleCourseExpr = `CASE WHEN $2::bigint = ANY(accessible_courses) THEN array_remove(accessible_courses, $2::bigint) ELSE array_append(accessible_courses, $2::bigint) END`
)

func (r *userRepo) updateCourses(ctx context.Context, id string, courseID int64, expr string) (*model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`UPDATE users SET accessible_courses = `+expr+`, updated_at = NOW() WHERE id = $1 RETURNING `+userColumns,
		id, courseID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

func (r *userRepo) GrantCourse(ctx context.Context, id string, courseID int64) (*model.User, error) {
	return r.updateCourses(ctx, id, courseID, grantCourseExpr)
}

func (r *userRepo) RevokeCourse(ctx context.Context, id string, courseID int64) (*model.User, error) {
	return r.updateCourses(ctx, id, courseID, revokeCourseExpr)
}

func (r *userRepo) ToggleCourse(ctx context.Context, id string, courseID int64) (*model.User, error) {
	return r.updateCourses(ctx, id, courseID, toggleCourseExpr)
}

func (r *userRepo) SetPasswordHash(ctx context.Context, id, hash string) error {
	return r.exec(ctx, `UPDATE users SET password_hash=$2, updated_at=NOW() WHERE id=$1`, id, hash)
}

func (r *userRepo) RegisterLogin(ctx context.Context, s *model.LoginSession) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := registerLogin(ctx, tx, s); err != nil {
		return err
	}
	return tx.Commit()
}

func registerLogin(ctx context.Context, q execQueryer, s *model.LoginSession) error {
	res, err := q.ExecContext(ctx, `
		UPDATE users
		SET login_count = login_count + 1, last_login = $2, ip_address = $3, updated_at = NOW()
		WHERE id = $1`, s.UserID, s.LoginTime, s.IPAddress)
	if err := expectOneRow(rowsAffected(res, err)); err != nil {
		return err
	}

	err = q.QueryRowContext(ctx, `
		INSERT INTO login_sessions (user_id, token_id, ip_address, user_agent, login_time, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING id`, s.UserID, s.TokenID, s.IPAddress, s.UserAgent, s.LoginTime).Scan(&s.ID)
	if err != nil {
		return err
	}
	s.IsActive = true
	return nil
}

func rowsAffected(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *userRepo) EndSession(ctx context.Context, sessionID int64, userID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE login_sessions SET logout_time=$3, is_active=FALSE
		WHERE id=$1 AND user_id=$2 AND is_active`, sessionID, userID, at)
	return err
}

func (r *userRepo) ListSessions(ctx context.Context, userID string, limit int) ([]model.LoginSession, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, token_id, ip_address, user_agent, login_time, logout_time, is_active
		FROM login_sessions
		WHERE user_id=$1
		ORDER BY login_time DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []model.LoginSession{}
	for rows.Next() {
		var s model.LoginSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.TokenID, &s.IPAddress, &s.UserAgent, &s.LoginTime, &s.LogoutTime, &s.IsActive); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
