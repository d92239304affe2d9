// Package db holds the schema and queries for the scheduling
// service's sqlite storage.
package db

import (
	"context"
	"database/sql"
	"time"

	_ "embed"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

type Store struct {
	db *sql.DB
}

func New(database *sql.DB) Store {
	return Store{db: database}
}

type User struct {
	Id           string
	Email        string
	PasswordHash string
}

type Session struct {
	Token     string
	UserId    string
	ExpiresAt time.Time
}

type Semester struct {
	Id           string
	UserId       string
	Name         string
	Year         int
	SemesterType string
	IsCurrent    bool
	Status       string
}

type SemesterCourse struct {
	SemesterId      string
	CourseCode      string
	CourseName      string
	SectionGroup    int
	Schedule        string
	EnrolledCurrent int
	EnrolledTotal   int
	Instructor      string
	Room            string
	Status          string
	ExtractedAt     string
	ImportedAt      string
}

func (s Store) CreateUser(ctx context.Context, user User) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO users (id, email, password_hash) VALUES (?, ?, ?)`,
		user.Id, user.Email, user.PasswordHash,
	)
	return err
}

func (s Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := s.db.QueryRowContext(
		ctx,
		`SELECT id, email, password_hash FROM users WHERE email = ?`,
		email,
	).Scan(&user.Id, &user.Email, &user.PasswordHash)
	return user, err
}

func (s Store) CreateSession(ctx context.Context, session Session) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)`,
		session.Token, session.UserId, session.ExpiresAt.Unix(),
	)
	return err
}

func (s Store) GetSession(ctx context.Context, token string) (Session, error) {
	var session Session
	var expiresAt int64
	err := s.db.QueryRowContext(
		ctx,
		`SELECT token, user_id, expires_at FROM sessions WHERE token = ?`,
		token,
	).Scan(&session.Token, &session.UserId, &expiresAt)
	if err != nil {
		return Session{}, err
	}
	session.ExpiresAt = time.Unix(expiresAt, 0)
	return session, nil
}

func (s Store) DeleteExpiredSessions(ctx context.Context, now time.Time) error {
	_, err := s.db.ExecContext(
		ctx,
		`DELETE FROM sessions WHERE expires_at < ?`,
		now.Unix(),
	)
	return err
}

func (s Store) CreateSemester(ctx context.Context, semester Semester) error {
	isCurrent := 0
	if semester.IsCurrent {
		isCurrent = 1
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO semesters (id, user_id, name, year, semester_type, is_current, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		semester.Id, semester.UserId, semester.Name, semester.Year,
		semester.SemesterType, isCurrent, semester.Status,
	)
	return err
}

func (s Store) GetSemester(ctx context.Context, id string) (Semester, error) {
	var semester Semester
	var isCurrent int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT id, user_id, name, year, semester_type, is_current, status
		 FROM semesters WHERE id = ?`,
		id,
	).Scan(
		&semester.Id, &semester.UserId, &semester.Name, &semester.Year,
		&semester.SemesterType, &isCurrent, &semester.Status,
	)
	if err != nil {
		return Semester{}, err
	}
	semester.IsCurrent = isCurrent != 0
	return semester, nil
}

func (s Store) ListSemesters(ctx context.Context, userId string) ([]Semester, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, user_id, name, year, semester_type, is_current, status
		 FROM semesters WHERE user_id = ?
		 ORDER BY year DESC, name`,
		userId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var semesters []Semester
	for rows.Next() {
		var semester Semester
		var isCurrent int
		err := rows.Scan(
			&semester.Id, &semester.UserId, &semester.Name, &semester.Year,
			&semester.SemesterType, &isCurrent, &semester.Status,
		)
		if err != nil {
			return nil, err
		}
		semester.IsCurrent = isCurrent != 0
		semesters = append(semesters, semester)
	}
	return semesters, rows.Err()
}

// UpsertSemesterCourse inserts a course or, when the same section was
// imported before, refreshes its enrollment snapshot.
func (s Store) UpsertSemesterCourse(ctx context.Context, course SemesterCourse) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO semester_courses (
			semester_id, course_code, course_name, section_group, schedule,
			enrolled_current, enrolled_total, instructor, room, status,
			extracted_at, imported_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (semester_id, course_code, section_group, schedule)
		DO UPDATE SET
			course_name = excluded.course_name,
			enrolled_current = excluded.enrolled_current,
			enrolled_total = excluded.enrolled_total,
			instructor = excluded.instructor,
			room = excluded.room,
			status = excluded.status,
			extracted_at = excluded.extracted_at,
			imported_at = excluded.imported_at`,
		course.SemesterId, course.CourseCode, course.CourseName,
		course.SectionGroup, course.Schedule, course.EnrolledCurrent,
		course.EnrolledTotal, course.Instructor, course.Room, course.Status,
		course.ExtractedAt, course.ImportedAt,
	)
	return err
}

func (s Store) CountSemesterCourses(ctx context.Context, semesterId string) (int, error) {
	var count int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM semester_courses WHERE semester_id = ?`,
		semesterId,
	).Scan(&count)
	return count, err
}
