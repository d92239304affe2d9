// Package importer is the transport side of the pipeline: it pushes
// extracted course records into the scheduling service's REST API.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"enrollmate-backend/lib/courseparse"
	"enrollmate-backend/lib/restyutil"
	"enrollmate-backend/lib/telemetry"
	"enrollmate-backend/lib/timezone"

	"github.com/go-resty/resty/v2"
)

var restyInstrumentOutput restyutil.InstrumentOutput

func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyInstrumentOutput = out
}

const (
	authTimeout    = time.Second * 10
	defaultTimeout = time.Second * 30
	importTimeout  = time.Second * 60
)

// APIError is a non-2xx response from the scheduling service, relayed
// verbatim to the caller.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

type LoginResult struct {
	Token     string `json:"token"`
	UserId    string `json:"userId"`
	Email     string `json:"email"`
	ExpiresAt string `json:"expiresAt"`
}

type Semester struct {
	Id           string `json:"id"`
	Name         string `json:"name"`
	Year         int    `json:"year"`
	SemesterType string `json:"semester_type"`
	IsCurrent    bool   `json:"is_current"`
	Status       string `json:"status"`
}

type ImportResult struct {
	Message         string   `json:"message"`
	CoursesImported int      `json:"coursesImported"`
	Errors          []string `json:"errors"`
}

type Client struct {
	http  *resty.Client
	token string
}

// NewClient builds a client for the given API base url. Retries are a
// transport concern only: 5xx and network failures back off
// exponentially for at most 3 attempts, 4xx surface immediately.
func NewClient(baseUrl string) *Client {
	client := resty.New()
	client.SetBaseURL(baseUrl)
	client.SetTimeout(defaultTimeout)
	client.SetHeader("content-type", "application/json")
	client.SetRetryCount(2)
	client.SetRetryWaitTime(time.Second)
	client.SetRetryMaxWaitTime(time.Second * 8)
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return res.StatusCode() >= 500
	})

	telemetry.InstrumentResty(client, "services/importer/http")
	restyutil.DumpClient(client, restyInstrumentOutput)

	return &Client{http: client}
}

// SetToken installs a previously stored bearer token, e.g. one loaded
// from a saved session.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Token() string {
	return c.token
}

func apiError(res *resty.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	// the body may not even be json, the status code still stands
	json.Unmarshal(res.Body(), &body)
	if body.Message == "" {
		body.Message = res.Status()
	}
	return &APIError{StatusCode: res.StatusCode(), Message: body.Message}
}

// Login authenticates and remembers the bearer token for subsequent
// calls.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	ctx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	var result LoginResult
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&result).
		Post("/api/auth/login")
	if err != nil {
		return LoginResult{}, err
	}
	if res.IsError() {
		return LoginResult{}, apiError(res)
	}

	c.token = result.Token
	return result, nil
}

// Semesters lists the semesters belonging to the authenticated user.
func (c *Client) Semesters(ctx context.Context, userId string) ([]Semester, error) {
	var result struct {
		Semesters []Semester `json:"semesters"`
	}
	res, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.token).
		SetResult(&result).
		Get(fmt.Sprintf("/api/users/%s/semesters", userId))
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, apiError(res)
	}
	return result.Semesters, nil
}

// ImportCourses pushes the whole course list in one atomic bulk
// request, stamped with the import time.
func (c *Client) ImportCourses(ctx context.Context, semesterId string, courses []courseparse.Course) (ImportResult, error) {
	ctx, cancel := context.WithTimeout(ctx, importTimeout)
	defer cancel()

	var result ImportResult
	res, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.token).
		SetBody(map[string]any{
			"courses":    courses,
			"importedAt": timezone.Now().Format(time.RFC3339),
		}).
		SetResult(&result).
		Post(fmt.Sprintf("/api/semesters/%s/import-courses", semesterId))
	if err != nil {
		return ImportResult{}, err
	}
	if res.IsError() {
		return ImportResult{}, apiError(res)
	}
	return result, nil
}
