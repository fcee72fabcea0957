// Package repository talks to the activities API, which is the only store of
// activity and participant data. It uses net/http directly and maps every
// failure onto one of three error classes.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/activity-signup-web/internal/model"
)

// ErrTransport is returned when the API could not be reached or the exchange
// was cut short.
var ErrTransport = errors.New("activities api unreachable")

// ErrMalformed is returned when the API answered with a body that is not the
// expected JSON document.
var ErrMalformed = errors.New("activities api returned a malformed response")

// RejectedError is returned when the API answered with a non-2xx status.
type RejectedError struct {
	Status int
	// Detail is the server-supplied reason, empty when none was given.
	Detail string
}

func (e *RejectedError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("activities api rejected request: status %d", e.Status)
	}
	return fmt.Sprintf("activities api rejected request: status %d: %s", e.Status, e.Detail)
}

const maxBodyBytes = 1 << 20 // 1 MB

// ActivityRepository reads the roster from and sends sign-up changes to the
// activities API.
type ActivityRepository struct {
	baseURL string
	client  *http.Client
}

// NewActivityRepository constructs an ActivityRepository for the API rooted at
// baseURL. A zero timeout leaves requests bounded only by their context.
func NewActivityRepository(baseURL string, timeout time.Duration) *ActivityRepository {
	return &ActivityRepository{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// List fetches the full roster with GET /activities.
func (r *ActivityRepository) List(ctx context.Context) (model.Roster, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/activities", nil)
	if err != nil {
		return model.Roster{}, fmt.Errorf("build roster request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	status, body, err := r.do(req)
	if err != nil {
		return model.Roster{}, err
	}
	if !isOK(status) {
		var resp model.ErrorResponse
		_ = json.Unmarshal(body, &resp)
		return model.Roster{}, &RejectedError{Status: status, Detail: resp.DetailText()}
	}

	var roster model.Roster
	if err := json.Unmarshal(body, &roster); err != nil {
		return model.Roster{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return roster, nil
}

// Signup adds email to the named activity with
// POST /activities/{name}/signup?email={email} and returns the server's
// confirmation text.
func (r *ActivityRepository) Signup(ctx context.Context, activity, email string) (string, error) {
	return r.mutate(ctx, http.MethodPost, activity, email)
}

// Unregister removes email from the named activity with
// DELETE /activities/{name}/signup?email={email} and returns the server's
// confirmation text.
func (r *ActivityRepository) Unregister(ctx context.Context, activity, email string) (string, error) {
	return r.mutate(ctx, http.MethodDelete, activity, email)
}

func (r *ActivityRepository) mutate(ctx context.Context, method, activity, email string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, method, r.SignupURL(activity, email), nil)
	if err != nil {
		return "", fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Accept", "application/json")

	status, body, err := r.do(req)
	if err != nil {
		return "", err
	}

	// Both outcomes carry JSON; a body that does not decode is treated like
	// a broken exchange, whatever the status.
	var resp model.MutationResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if !isOK(status) {
		return "", &RejectedError{Status: status, Detail: resp.DetailText()}
	}
	return resp.Message, nil
}

// SignupURL builds the address of the sign-up resource for one participant.
func (r *ActivityRepository) SignupURL(activity, email string) string {
	return r.baseURL + "/activities/" + EncodeComponent(activity) + "/signup?email=" + EncodeComponent(email)
}

func (r *ActivityRepository) do(req *http.Request) (int, []byte, error) {
	resp, err := r.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read body: %w", ErrTransport, err)
	}
	return resp.StatusCode, body, nil
}

func isOK(status int) bool {
	return status >= 200 && status < 300
}

// componentFixups turns url.QueryEscape output into encodeURIComponent output:
// spaces become %20 and the marks !'()* stay literal.
var componentFixups = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeComponent percent-encodes s the way encodeURIComponent does, for use
// as a single path segment or query value.
func EncodeComponent(s string) string {
	return componentFixups.Replace(url.QueryEscape(s))
}
