// Package view holds the per-session view-model of the activities page: the
// activities list, the activity selector, the signup form and the message
// area. Controllers write into it; handlers render a Snapshot of it.
package view

import (
	"sync"

	"github.com/Shivanand-hulikatti/activity-signup-web/internal/model"
)

// Fixed texts shown by the page.
const (
	LoadingText     = "Loading activities..."
	NoParticipants  = "No participants yet."
	SelectPrompt    = "-- Select an activity --"
	ListFailureText = "Failed to load activities. Please try again later."
)

// ListState tracks the activities list region.
type ListState string

const (
	ListLoading ListState = "loading"
	ListLoaded  ListState = "loaded"
	ListFailed  ListState = "failed"
)

// UnregisterControl is the data carried by one unregister button.
type UnregisterControl struct {
	Activity string
	Email    string
}

// Card is one rendered activity.
type Card struct {
	Name         string
	Description  string
	Schedule     string
	SpotsLeft    int
	Participants []UnregisterControl
}

// Option is one entry of the activity selector.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// ListRegion is the activities container.
type ListRegion struct {
	State   ListState
	Cards   []Card
	Failure string
}

func (l ListRegion) Loading() bool { return l.State == ListLoading }
func (l ListRegion) Failed() bool  { return l.State == ListFailed }

// FormRegion holds the signup form's field values.
type FormRegion struct {
	Email    string
	Activity string
}

// MessageRegion is the transient status message area.
type MessageRegion struct {
	Text    string
	Kind    model.MessageKind
	Visible bool
}

// Class returns the CSS classes of the message area.
func (m MessageRegion) Class() string {
	switch {
	case m.Visible:
		return string(m.Kind)
	case m.Kind != "":
		return string(m.Kind) + " hidden"
	default:
		return "hidden"
	}
}

// Snapshot is a point-in-time copy of the view, safe to render without
// holding the view's lock.
type Snapshot struct {
	List    ListRegion
	Options []Option
	Form    FormRegion
	Message MessageRegion
}

// View is the mutable view-model of one page. It is safe for concurrent use.
type View struct {
	mu sync.Mutex

	list    ListRegion
	options []string
	form    FormRegion
	message MessageRegion
	// generation identifies the message currently on display.
	generation uint64
}

// New returns a view in its initial "loading" state.
func New() *View {
	return &View{list: ListRegion{State: ListLoading}}
}

// RenderRoster discards the previous list and selector contents and rebuilds
// both from roster, in roster order.
func (v *View) RenderRoster(roster model.Roster) {
	entries := roster.Entries()
	cards := make([]Card, 0, len(entries))
	names := make([]string, 0, len(entries))

	for _, e := range entries {
		card := Card{
			Name:        e.Name,
			Description: e.Activity.Description,
			Schedule:    e.Activity.Schedule,
			SpotsLeft:   e.Activity.SpotsLeft(),
		}
		for _, email := range e.Activity.Participants {
			card.Participants = append(card.Participants, UnregisterControl{Activity: e.Name, Email: email})
		}
		cards = append(cards, card)
		names = append(names, e.Name)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.list = ListRegion{State: ListLoaded, Cards: cards}
	v.options = names
}

// FailList replaces the list contents with text. The selector keeps whatever
// it held before.
func (v *View) FailList(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.list = ListRegion{State: ListFailed, Failure: text}
}

// Loading reports whether the list is still in its initial loading state.
func (v *View) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.list.Loading()
}

// SetForm records the values the user submitted.
func (v *View) SetForm(activity, email string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.form = FormRegion{Email: email, Activity: activity}
}

// ResetForm clears the signup form.
func (v *View) ResetForm() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.form = FormRegion{}
}

// ShowMessage displays text and returns the generation of the new message.
func (v *View) ShowMessage(text string, kind model.MessageKind) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.generation++
	v.message = MessageRegion{Text: text, Kind: kind, Visible: true}
	return v.generation
}

// HideMessage hides the message of the given generation. It reports false,
// and leaves the message alone, when a newer message has replaced it.
func (v *View) HideMessage(generation uint64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if generation != v.generation {
		return false
	}
	v.message.Visible = false
	return true
}

// Message returns the current message region.
func (v *View) Message() MessageRegion {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.message
}

// Snapshot copies the current state of every region.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	list := v.list
	list.Cards = append([]Card(nil), v.list.Cards...)

	options := make([]Option, 0, len(v.options)+1)
	options = append(options, Option{Value: "", Label: SelectPrompt, Selected: v.form.Activity == ""})
	for _, name := range v.options {
		options = append(options, Option{Value: name, Label: name, Selected: name == v.form.Activity})
	}

	return Snapshot{
		List:    list,
		Options: options,
		Form:    v.form,
		Message: v.message,
	}
}

// ControlCount returns the number of unregister controls in the list.
func (s Snapshot) ControlCount() int {
	n := 0
	for _, c := range s.List.Cards {
		n += len(c.Participants)
	}
	return n
}
