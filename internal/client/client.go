package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"studytrack/internal/models"
	"studytrack/internal/qerrors"
)

// maxErrorBody caps how much of a failed response is kept in an APIError.
const maxErrorBody = 4096

// Client issues CRUD calls against the courses REST API. It never caches, retries, or
// recovers: every failure is reported to the caller as a NetworkError or an APIError.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for the API at baseURL. A nil httpClient uses a client with the given timeout.
func New(baseURL string, timeout time.Duration, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Courses

// ListCourses fetches the full course set. There is no pagination and no partial refresh.
func (c *Client) ListCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := c.do(ctx, http.MethodGet, "/courses", nil, &courses); err != nil && err != qerrors.ErrEmptyResponse {
		return nil, err
	}
	for i := range courses {
		if courses[i].Assignments == nil {
			courses[i].Assignments = []models.Assignment{}
		}
	}
	return courses, nil
}

func (c *Client) CreateCourse(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error) {
	body := models.Course{
		Name:        req.Name,
		CourseLink:  req.CourseLink,
		StudyHours:  0,
		Assignments: []models.Assignment{},
	}
	var created models.Course
	if err := c.do(ctx, http.MethodPost, "/courses", body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCourse sends the full course. The response does not echo nested assignments. A 2xx
// reply without a body returns a nil course and no error.
func (c *Client) UpdateCourse(ctx context.Context, course models.Course) (*models.Course, error) {
	if course.ID.IsZero() {
		return nil, qerrors.ErrInvalidID
	}
	var updated models.Course
	if err := c.do(ctx, http.MethodPut, "/courses/"+course.ID.String(), course, &updated); err != nil {
		if err == qerrors.ErrEmptyResponse {
			return nil, nil
		}
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteCourse(ctx context.Context, id models.ID) error {
	if id.IsZero() {
		return qerrors.ErrInvalidID
	}
	return c.do(ctx, http.MethodDelete, "/courses/"+id.String(), nil, nil)
}

// Assignments

func (c *Client) ListAssignments(ctx context.Context) ([]models.Assignment, error) {
	var assignments []models.Assignment
	if err := c.do(ctx, http.MethodGet, "/assignments", nil, &assignments); err != nil && err != qerrors.ErrEmptyResponse {
		return nil, err
	}
	return assignments, nil
}

func (c *Client) CreateAssignment(ctx context.Context, req *models.CreateAssignmentRequest) (*models.Assignment, error) {
	if req.CourseID.IsZero() {
		return nil, qerrors.ErrInvalidID
	}
	body := models.Assignment{
		Name:        req.Name,
		DueDate:     req.DueDate,
		IsCompleted: false,
		CourseID:    req.CourseID,
	}
	var created models.Assignment
	path := fmt.Sprintf("/courses/%s/assignments", req.CourseID)
	if err := c.do(ctx, http.MethodPost, path, body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateAssignment(ctx context.Context, a models.Assignment) (*models.Assignment, error) {
	if a.ID.IsZero() {
		return nil, qerrors.ErrInvalidID
	}
	var updated models.Assignment
	if err := c.do(ctx, http.MethodPut, "/assignments/"+a.ID.String(), a, &updated); err != nil {
		if err == qerrors.ErrEmptyResponse {
			return nil, nil
		}
		return nil, err
	}
	return &updated, nil
}

// PatchAssignment sends only the fields set on the patch. A 2xx reply without a body returns a
// nil assignment and no error.
func (c *Client) PatchAssignment(ctx context.Context, id models.ID, patch models.AssignmentPatch) (*models.Assignment, error) {
	if id.IsZero() {
		return nil, qerrors.ErrInvalidID
	}
	body, err := patchBody(patch)
	if err != nil {
		return nil, err
	}
	var updated models.Assignment
	if err := c.do(ctx, http.MethodPut, "/assignments/"+id.String(), body, &updated); err != nil {
		if err == qerrors.ErrEmptyResponse {
			return nil, nil
		}
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteAssignment(ctx context.Context, id models.ID) error {
	if id.IsZero() {
		return qerrors.ErrInvalidID
	}
	return c.do(ctx, http.MethodDelete, "/assignments/"+id.String(), nil, nil)
}

// Helpers

// patchBody flattens a patch into a map holding only the fields that were set.
func patchBody(patch models.AssignmentPatch) (map[string]interface{}, error) {
	raw := map[string]interface{}{}
	if err := mapstructure.Decode(patch, &raw); err != nil {
		return nil, errors.Wrap(err, "encoding assignment patch")
	}
	body := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		switch p := v.(type) {
		case *bool:
			if p != nil {
				body[k] = *p
			}
		case *string:
			if p != nil {
				body[k] = *p
			}
		}
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	op := method + " " + path

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrapf(err, "%s: encoding request", op)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrapf(err, "%s: building request", op)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &qerrors.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &qerrors.APIError{Status: resp.StatusCode, Body: string(data)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return qerrors.ErrEmptyResponse
		}
		return &qerrors.NetworkError{Op: op, Err: errors.Wrap(err, "decoding response")}
	}
	return nil
}
