package alert

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// Type represents the alert level.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
)

// DismissAfter is how long an alert stays before the client removes it.
const DismissAfter = 5 * time.Second

// class maps a level to its Bootstrap contextual class.
func (t Type) class() string {
	switch t {
	case TypeSuccess:
		return "alert-success"
	case TypeError:
		return "alert-danger"
	case TypeWarning:
		return "alert-warning"
	default:
		return "alert-info"
	}
}

// Alert is a single queued alert.
type Alert struct {
	Level   Type
	Message string
}

var policy = bluemonday.UGCPolicy()

// HTML renders the alert as a dismissible fragment.
func (a Alert) HTML() template.HTML {
	return template.HTML(fmt.Sprintf(
		`<div class="alert %s alert-dismissible fade show" role="alert" data-dismiss-after="%d">%s<button type="button" class="btn-close" data-bs-dismiss="alert"></button></div>`,
		a.Level.class(), DismissAfter.Milliseconds(), policy.Sanitize(a.Message)))
}

// Stack is a queue of pending alerts. It is safe for concurrent use.
type Stack struct {
	mu     sync.Mutex
	alerts []Alert
}

// NewStack creates an empty Stack.
func NewStack() *Stack {
	return &Stack{}
}

// Show queues an alert.
func (s *Stack) Show(level Type, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, Alert{Level: level, Message: message})
}

// Success queues a success alert.
func (s *Stack) Success(message string) { s.Show(TypeSuccess, message) }

// Error queues an error alert.
func (s *Stack) Error(message string) { s.Show(TypeError, message) }

// Warning queues a warning alert.
func (s *Stack) Warning(message string) { s.Show(TypeWarning, message) }

// Info queues an info alert.
func (s *Stack) Info(message string) { s.Show(TypeInfo, message) }

// ShowError implements page.Reporter.
func (s *Stack) ShowError(message string) { s.Error(message) }

// ShowSuccess queues a success alert; used by the API client.
func (s *Stack) ShowSuccess(message string) { s.Success(message) }

// Pending returns a copy of the queued alerts.
func (s *Stack) Pending() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Alert(nil), s.alerts...)
}

// Flush renders and clears the queue. Newest alerts come first, the way
// they are inserted at the top of the container.
func (s *Stack) Flush() template.HTML {
	s.mu.Lock()
	alerts := s.alerts
	s.alerts = nil
	s.mu.Unlock()

	var b strings.Builder
	for i := len(alerts) - 1; i >= 0; i-- {
		b.WriteString(string(alerts[i].HTML()))
	}
	return template.HTML(b.String())
}
