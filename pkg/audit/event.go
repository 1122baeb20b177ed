// Package audit provides audit logging for document generation runs.
package audit

import (
	"fmt"
	"time"
)

// Event represents one auditable generation or file operation
type Event struct {
	ID         string        `json:"id"`
	Timestamp  time.Time     `json:"timestamp"`
	User       string        `json:"user"`
	Station    string        `json:"station"`
	Operation  string        `json:"operation"`
	InputFiles []string      `json:"input_files,omitempty"`
	OutputFile string        `json:"output_file,omitempty"`
	Objects    int           `json:"objects,omitempty"`
	Success    bool          `json:"success"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
	ClientIP   string        `json:"client_ip,omitempty"`
	SessionID  string        `json:"session_id,omitempty"`
}

// Operation names used across the CLI and the server.
const (
	OpModernization = "modernization"
	OpRollout       = "rollout"
	OpView          = "view"
	OpUpload        = "upload"
	OpDelete        = "delete"
	OpFetch         = "fetch"
)

// Filter defines criteria for querying audit events
type Filter struct {
	Station     string
	User        string
	Operation   string
	StartTime   time.Time
	EndTime     time.Time
	SuccessOnly bool
	FailureOnly bool
	Limit       int
	Offset      int
}

// NewEvent creates a new audit event
func NewEvent(user, station, operation string) *Event {
	return &Event{
		ID:        generateID(),
		Timestamp: time.Now(),
		User:      user,
		Station:   station,
		Operation: operation,
	}
}

// WithInputFiles records the source files the run consumed
func (e *Event) WithInputFiles(files ...string) *Event {
	e.InputFiles = files
	return e
}

// WithOutputFile records the generated file name
func (e *Event) WithOutputFile(name string) *Event {
	e.OutputFile = name
	return e
}

// WithObjects records the managed-object count of the output document
func (e *Event) WithObjects(n int) *Event {
	e.Objects = n
	return e
}

// WithSuccess marks the event as successful
func (e *Event) WithSuccess() *Event {
	e.Success = true
	return e
}

// WithError marks the event as failed
func (e *Event) WithError(err error) *Event {
	e.Success = false
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// WithDuration sets the operation duration
func (e *Event) WithDuration(d time.Duration) *Event {
	e.Duration = d
	return e
}

func generateID() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}
