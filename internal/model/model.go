// Package model defines the core domain types for the activities front end.
package model

// Activity is one extracurricular activity as reported by the activities API.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// SpotsLeft returns the number of free places. Capacity is enforced by the
// API, so the result may be negative if the API reports an overfull activity.
func (a Activity) SpotsLeft() int {
	return a.MaxParticipants - len(a.Participants)
}

// HasParticipants reports whether anyone is signed up.
func (a Activity) HasParticipants() bool {
	return len(a.Participants) > 0
}

// MessageKind selects the styling of a transient message.
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// MutationResponse is the body returned by the signup and unregister
// endpoints. Message is set on success; Detail on failure.
type MutationResponse struct {
	Message string `json:"message"`
	Detail  any    `json:"detail,omitempty"`
}

// DetailText returns Detail when it is a non-empty string.
func (r MutationResponse) DetailText() string {
	return detailText(r.Detail)
}

// ErrorResponse is the error body of any API endpoint.
type ErrorResponse struct {
	Detail any `json:"detail"`
}

// DetailText returns Detail when it is a non-empty string.
func (r ErrorResponse) DetailText() string {
	return detailText(r.Detail)
}

// detailText keeps only plain-text details. The API may send structured
// validation details, which are not meant for display.
func detailText(detail any) string {
	s, _ := detail.(string)
	return s
}
