package importer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"enrollmate-backend/lib/courseparse"
	"enrollmate-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	cleanup := telemetry.SetupForTesting("test:services/importer")
	defer cleanup()
	m.Run()
}

func TestLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		if body.Password != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(LoginResult{
			Token:     "tok-123",
			UserId:    "user-1",
			Email:     body.Email,
			ExpiresAt: time.Now().Add(time.Hour * 24).Format(time.RFC3339),
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.Login(context.Background(), "student@example.edu", "hunter2")
	require.NoError(t, err)
	require.Equal(t, "tok-123", result.Token)
	require.Equal(t, "user-1", result.UserId)
	require.Equal(t, "tok-123", client.Token())

	_, err = client.Login(context.Background(), "student@example.edu", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, "Invalid credentials", apiErr.Message)
}

func TestSemesters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.Equal(t, "/api/users/user-1/semesters", r.URL.Path)
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Unauthorized"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"semesters": []Semester{
				{Id: "sem-1", Name: "Fall 2026", Year: 2026, SemesterType: "fall", IsCurrent: true},
				{Id: "sem-2", Name: "Spring 2026", Year: 2026, SemesterType: "spring"},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	_, err := client.Semesters(context.Background(), "user-1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	client.SetToken("tok-123")
	semesters, err := client.Semesters(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, semesters, 2)
	require.Equal(t, "Fall 2026", semesters[0].Name)
	require.True(t, semesters[0].IsCurrent)
}

func TestImportCourses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.Equal(t, "/api/semesters/sem-1/import-courses", r.URL.Path)
		require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		var body struct {
			Courses    []courseparse.Course `json:"courses"`
			ImportedAt string               `json:"importedAt"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Courses, 1)
		require.Equal(t, "CIS 2103", body.Courses[0].CourseCode)
		_, err := time.Parse(time.RFC3339, body.ImportedAt)
		require.NoError(t, err)

		json.NewEncoder(w).Encode(ImportResult{
			Message:         "Imported 1 courses successfully",
			CoursesImported: 1,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetToken("tok-123")

	result, err := client.ImportCourses(context.Background(), "sem-1", []courseparse.Course{
		{
			CourseCode:   "CIS 2103",
			CourseName:   "Database Systems",
			SectionGroup: 1,
			Schedule:     "TBA",
			Status:       courseparse.StatusUnknown,
			ExtractedAt:  time.Now(),
		},
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.CoursesImported)
}

func TestMatchSemester(t *testing.T) {
	semesters := []Semester{
		{Id: "sem-1", Name: "Fall 2026"},
		{Id: "sem-2", Name: "Spring 2027"},
	}

	match, ok := MatchSemester("fall 2026", semesters)
	require.True(t, ok)
	require.Equal(t, "sem-1", match.Id)

	match, ok = MatchSemester("Spring 27", semesters)
	require.True(t, ok)
	require.Equal(t, "sem-2", match.Id)

	_, ok = MatchSemester("winter intersession", semesters)
	require.False(t, ok)

	_, ok = MatchSemester("anything", nil)
	require.False(t, ok)
}

func TestSessionHappyPath(t *testing.T) {
	session := NewSession()
	require.Equal(t, StateIdle, session.State())

	steps := []struct {
		event    Event
		expected State
	}{
		{EventExtract, StateExtracting},
		{EventExtractSucceeded, StatePreview},
		{EventNeedLogin, StateAuth},
		{EventLoginFailed, StateAuth},
		{EventLoggedIn, StateSelectSemester},
		{EventImport, StateSaving},
		{EventImportDone, StateSuccess},
		{EventReset, StateIdle},
	}
	for _, step := range steps {
		state, err := session.Apply(step.event)
		require.NoError(t, err, "event: %s", step.event)
		require.Equal(t, step.expected, state)
	}
}

func TestSessionStoredSessionSkipsAuth(t *testing.T) {
	session := NewSession()
	state, err := session.Apply(EventLoggedIn)
	require.NoError(t, err)
	require.Equal(t, StateSelectSemester, state)
}

func TestSessionIllegalTransition(t *testing.T) {
	session := NewSession()
	_, err := session.Apply(EventImportDone)
	require.Error(t, err)
	require.Equal(t, StateIdle, session.State())
}
