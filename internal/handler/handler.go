// Package handler contains chi HTTP handlers that serve the activities page
// and translate form posts into view controller operations.
package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/activity-signup-web/internal/model"
	"github.com/Shivanand-hulikatti/activity-signup-web/internal/service"
	"github.com/Shivanand-hulikatti/activity-signup-web/internal/session"
	"github.com/Shivanand-hulikatti/activity-signup-web/internal/view"
)

// PageHandler holds all HTTP handlers for the activities page.
type PageHandler struct {
	sessions *session.Registry
	log      *zap.Logger
}

// NewPageHandler constructs a PageHandler.
func NewPageHandler(sessions *session.Registry, log *zap.Logger) *PageHandler {
	return &PageHandler{sessions: sessions, log: log}
}

// Register mounts the page routes on r.
func (h *PageHandler) Register(r chi.Router) {
	r.Get("/", h.Index)
	r.Post("/signup", h.Signup)
	r.Post("/unregister", h.Unregister)
	r.Get("/message", h.Message)
	r.Get("/health", HealthCheck)
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// controller resolves the caller's session, issuing a cookie for a new one.
func (h *PageHandler) controller(w http.ResponseWriter, r *http.Request) *service.Controller {
	var id string
	if c, err := r.Cookie(session.CookieName); err == nil {
		id = c.Value
	}

	ctrl, sid, created := h.sessions.Get(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     session.CookieName,
			Value:    sid,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		h.log.Debug("session started", zap.String("session", sid))
	}
	return ctrl
}

// ensureList loads the roster into a view that has never shown one. A post can
// arrive on a fresh session (no cookie, restart, idle expiry) and a failed
// mutation does not re-fetch on its own.
func (h *PageHandler) ensureList(r *http.Request, ctrl *service.Controller) {
	if ctrl.View().Loading() {
		ctrl.LoadAndRender(r.Context())
	}
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, ctrl *service.Controller) {
	var buf bytes.Buffer
	page := view.Page{
		Snapshot:         ctrl.View().Snapshot(),
		CSRFField:        csrf.TemplateField(r),
		HideMessageAfter: ctrl.MessageHideIn(),
	}
	if err := view.Render(&buf, page); err != nil {
		h.log.Error("render page", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

// Index handles GET /
// Every page load fetches the roster afresh before rendering.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctrl := h.controller(w, r)
	ctrl.LoadAndRender(r.Context())
	h.render(w, r, ctrl)
}

// Signup handles POST /signup
// Form fields: activity, email. Values are forwarded as typed.
func (h *PageHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctrl := h.controller(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	ctrl.SubmitSignup(r.Context(), r.PostForm.Get("activity"), r.PostForm.Get("email"))
	h.ensureList(r, ctrl)
	h.render(w, r, ctrl)
}

// Unregister handles POST /unregister
// Every unregister control on the page posts here with its activity and email.
func (h *PageHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	ctrl := h.controller(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	ctrl.SubmitUnregister(r.Context(), r.PostForm.Get("activity"), r.PostForm.Get("email"))
	h.ensureList(r, ctrl)
	h.render(w, r, ctrl)
}

type messageResponse struct {
	Text    string            `json:"text"`
	Kind    model.MessageKind `json:"kind"`
	Visible bool              `json:"visible"`
}

// Message handles GET /message
// Returns the session's message area as JSON.
func (h *PageHandler) Message(w http.ResponseWriter, r *http.Request) {
	msg := h.controller(w, r).View().Message()
	writeJSON(w, http.StatusOK, messageResponse{Text: msg.Text, Kind: msg.Kind, Visible: msg.Visible})
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
