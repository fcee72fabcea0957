// Package service implements the view controller: it keeps one page's
// view-model in step with the activities API and turns sign-up and
// unregister requests into API calls.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/activity-signup-web/internal/model"
	"github.com/Shivanand-hulikatti/activity-signup-web/internal/repository"
	"github.com/Shivanand-hulikatti/activity-signup-web/internal/view"
)

// DefaultMessageTTL is how long a transient message stays visible.
const DefaultMessageTTL = 5 * time.Second

// User-facing texts for failed mutations.
const (
	SignupRejectedText     = "An error occurred"
	SignupFailedText       = "Failed to sign up. Please try again."
	UnregisterRejectedText = "Failed to unregister"
	UnregisterFailedText   = "Failed to unregister. Please try again."
)

// ActivityRepository is the subset of the activities API the controller needs.
type ActivityRepository interface {
	List(ctx context.Context) (model.Roster, error)
	Signup(ctx context.Context, activity, email string) (string, error)
	Unregister(ctx context.Context, activity, email string) (string, error)
}

// Controller drives one page. None of its operations return errors: every
// failure is logged and surfaced on the page.
type Controller struct {
	repo ActivityRepository
	view *view.View
	ttl  time.Duration
	log  *zap.Logger

	mu        sync.Mutex
	hideTimer *time.Timer
	hideAt    time.Time
}

// NewController constructs a Controller rendering into v. A non-positive ttl
// falls back to DefaultMessageTTL.
func NewController(repo ActivityRepository, v *view.View, ttl time.Duration, log *zap.Logger) *Controller {
	if ttl <= 0 {
		ttl = DefaultMessageTTL
	}
	return &Controller{repo: repo, view: v, ttl: ttl, log: log}
}

// View returns the view-model the controller renders into.
func (c *Controller) View() *view.View {
	return c.view
}

// LoadAndRender fetches the roster and rebuilds the activity list and the
// selector from it. On failure the list shows a fixed error text and the
// selector is left as it was.
func (c *Controller) LoadAndRender(ctx context.Context) {
	roster, err := c.repo.List(ctx)
	if err != nil {
		c.log.Error("error fetching activities", zap.Error(err))
		c.view.FailList(view.ListFailureText)
		return
	}
	c.view.RenderRoster(roster)
	c.log.Debug("rendered activities", zap.Int("count", roster.Len()))
}

// SubmitSignup signs email up for activity. Values are passed through
// unvalidated; the API is the authority on what is acceptable.
func (c *Controller) SubmitSignup(ctx context.Context, activity, email string) {
	c.view.SetForm(activity, email)

	msg, err := c.repo.Signup(ctx, activity, email)
	if err != nil {
		c.reportFailure("signup", activity, email, err, SignupRejectedText, SignupFailedText)
		return
	}

	c.ShowMessage(msg, model.MessageSuccess)
	c.view.ResetForm()
	c.LoadAndRender(ctx)
}

// SubmitUnregister removes email from activity.
func (c *Controller) SubmitUnregister(ctx context.Context, activity, email string) {
	msg, err := c.repo.Unregister(ctx, activity, email)
	if err != nil {
		c.reportFailure("unregister", activity, email, err, UnregisterRejectedText, UnregisterFailedText)
		return
	}

	c.ShowMessage(msg, model.MessageSuccess)
	c.LoadAndRender(ctx)
}

func (c *Controller) reportFailure(op, activity, email string, err error, fallback, generic string) {
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("activity", activity),
		zap.String("email", email),
		zap.Error(err),
	}

	var rej *repository.RejectedError
	if errors.As(err, &rej) {
		c.log.Warn("activities api rejected request", append(fields, zap.Int("status", rej.Status))...)
		text := rej.Detail
		if text == "" {
			text = fallback
		}
		c.ShowMessage(text, model.MessageError)
		return
	}

	c.log.Error("activities api request failed", fields...)
	c.ShowMessage(generic, model.MessageError)
}

// ShowMessage displays text and hides it once the TTL has passed. An empty
// kind means success. A newer message cancels the previous hide and can never
// be hidden by it.
func (c *Controller) ShowMessage(text string, kind model.MessageKind) {
	if kind == "" {
		kind = model.MessageSuccess
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hideTimer != nil {
		c.hideTimer.Stop()
	}
	generation := c.view.ShowMessage(text, kind)
	c.hideAt = time.Now().Add(c.ttl)
	c.hideTimer = time.AfterFunc(c.ttl, func() {
		c.view.HideMessage(generation)
	})
}

// MessageHideIn returns how long the current message has left on screen, or
// zero when nothing is pending. Pages use it to hide the message client-side.
func (c *Controller) MessageHideIn() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hideTimer == nil {
		return 0
	}
	return max(time.Until(c.hideAt), 0)
}

// Close stops any pending hide timer.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hideTimer != nil {
		c.hideTimer.Stop()
		c.hideTimer = nil
	}
}
