// Package enrollmate implements the scheduling service's REST surface
// consumed by the browser extension: login, semester listing and bulk
// course import.
package enrollmate

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"enrollmate-backend/lib/courseparse"
	"enrollmate-backend/lib/telemetry"
	"enrollmate-backend/lib/timezone"
	"enrollmate-backend/services/enrollmate/db"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("enrollmate.services.enrollmate")

const tokenLifetime = time.Hour * 24

type Service struct {
	store db.Store
	// resolved bearer tokens, so every request doesn't hit sqlite
	sessions *expirable.LRU[string, db.Session]
}

func NewService(ctx context.Context, database *sql.DB) *Service {
	s := &Service{
		store:    db.New(database),
		sessions: expirable.NewLRU[string, db.Session](2048, nil, time.Minute*15),
	}
	go s.expireSessionsDaemon(ctx)
	return s
}

func (s *Service) expireSessionsDaemon(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			err := s.store.DeleteExpiredSessions(ctx, timezone.Now())
			if err != nil {
				slog.WarnContext(ctx, "failed to delete expired sessions", "err", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/users/{userId}/semesters", s.handleSemesters)
	mux.HandleFunc("POST /api/semesters/{id}/import-courses", s.handleImportCourses)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, map[string]string{
		"message": fmt.Sprintf(format, args...),
	})
}

func HashPassword(password string) string {
	digest := sha256.Sum256([]byte(password))
	return hex.EncodeToString(digest[:])
}

func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Login")
	defer span.End()

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil || body.Email == "" || body.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password are required.")
		return
	}
	email := strings.Trim(strings.ToLower(body.Email), " \t\n")

	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to look up user")
		writeMessage(w, http.StatusInternalServerError, "Login failed")
		return
	}

	hash := HashPassword(body.Password)
	if subtle.ConstantTimeCompare([]byte(hash), []byte(user.PasswordHash)) != 1 {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := random.String(32)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to generate token")
		writeMessage(w, http.StatusInternalServerError, "Login failed")
		return
	}
	session := db.Session{
		Token:     token,
		UserId:    user.Id,
		ExpiresAt: timezone.Now().Add(tokenLifetime),
	}
	err = s.store.CreateSession(ctx, session)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist session")
		writeMessage(w, http.StatusInternalServerError, "Login failed")
		return
	}

	slog.InfoContext(ctx, "user logged in", "user", user.Id)
	writeJSON(w, http.StatusOK, map[string]string{
		"token":     token,
		"userId":    user.Id,
		"email":     user.Email,
		"expiresAt": session.ExpiresAt.Format(time.RFC3339),
	})
}

// authorize resolves the bearer token of a request into a live
// session.
func (s *Service) authorize(ctx context.Context, r *http.Request) (db.Session, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return db.Session{}, false
	}

	session, hit := s.sessions.Get(token)
	if !hit {
		var err error
		session, err = s.store.GetSession(ctx, token)
		if err != nil {
			return db.Session{}, false
		}
		s.sessions.Add(token, session)
	}

	if timezone.Now().After(session.ExpiresAt) {
		s.sessions.Remove(token)
		return db.Session{}, false
	}
	return session, true
}

func (s *Service) handleSemesters(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Semesters")
	defer span.End()

	session, ok := s.authorize(ctx, r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	userId := r.PathValue("userId")
	if userId != session.UserId {
		writeMessage(w, http.StatusForbidden, "You may only list your own semesters.")
		return
	}

	semesters, err := s.store.ListSemesters(ctx, userId)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list semesters")
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch semesters")
		return
	}

	out := make([]map[string]any, 0, len(semesters))
	for _, semester := range semesters {
		out = append(out, map[string]any{
			"id":            semester.Id,
			"name":          semester.Name,
			"year":          semester.Year,
			"semester_type": semester.SemesterType,
			"is_current":    semester.IsCurrent,
			"status":        semester.Status,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"semesters": out})
}

func (s *Service) handleImportCourses(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "ImportCourses")
	defer span.End()

	session, ok := s.authorize(ctx, r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	semesterId := r.PathValue("id")
	semester, err := s.store.GetSemester(ctx, semesterId)
	if errors.Is(err, sql.ErrNoRows) {
		writeMessage(w, http.StatusBadRequest, "Unknown semester.")
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to look up semester")
		writeMessage(w, http.StatusInternalServerError, "Failed to import courses")
		return
	}
	if semester.UserId != session.UserId {
		writeMessage(w, http.StatusForbidden, "You may only import into your own semesters.")
		return
	}

	var body struct {
		Courses    []courseparse.Course `json:"courses"`
		ImportedAt string               `json:"importedAt"`
	}
	err = json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Malformed request body.")
		return
	}
	if len(body.Courses) == 0 {
		writeMessage(w, http.StatusBadRequest, "No courses provided. Expected array of courses.")
		return
	}
	if body.ImportedAt == "" {
		body.ImportedAt = timezone.Now().Format(time.RFC3339)
	}

	slog.InfoContext(
		ctx, "importing courses",
		"user", session.UserId,
		"semester", semesterId,
		"count", len(body.Courses),
	)

	imported := 0
	importErrors := []string{}
	for _, course := range body.Courses {
		if course.CourseCode == "" || course.CourseName == "" {
			importErrors = append(importErrors, fmt.Sprintf(
				"skipped course with missing code or name: %q %q",
				course.CourseCode, course.CourseName,
			))
			continue
		}
		err := s.store.UpsertSemesterCourse(ctx, db.SemesterCourse{
			SemesterId:      semesterId,
			CourseCode:      course.CourseCode,
			CourseName:      course.CourseName,
			SectionGroup:    max(course.SectionGroup, 1),
			Schedule:        course.Schedule,
			EnrolledCurrent: course.EnrolledCurrent,
			EnrolledTotal:   course.EnrolledTotal,
			Instructor:      course.Instructor,
			Room:            course.Room,
			Status:          string(course.Status),
			ExtractedAt:     course.ExtractedAt.Format(time.RFC3339),
			ImportedAt:      body.ImportedAt,
		})
		if err != nil {
			span.RecordError(err)
			importErrors = append(importErrors, fmt.Sprintf(
				"%s: %s", course.CourseCode, err.Error(),
			))
			continue
		}
		imported++
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":         fmt.Sprintf("Imported %d courses successfully", imported),
		"coursesImported": imported,
		"errors":          importErrors,
	})
}
