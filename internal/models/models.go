// Package models defines the data structures shared across the Mergington Activities API:
// the activity record held in the directory, the roster events pushed to stream
// subscribers, and the response bodies sent back to clients.
//
// The data model is deliberately small:
//   - An Activity is a named extracurricular offering (e.g. "Chess Club")
//   - Each Activity keeps an ordered list of Participants, identified by email
//
// There are no IDs: the activity name IS the key, exactly as clients address it in URLs.
package models

import "slices"

// ActivityRecord is one extracurricular activity and its current roster.
// The struct tags serve double duty: `json` for API responses and `mapstructure`
// for decoding seed files through viper.
type ActivityRecord struct {
	Description string `json:"description" mapstructure:"description"`
	Schedule    string `json:"schedule" mapstructure:"schedule"`
	// MaxParticipants is advisory. Signups are not rejected once it is reached.
	MaxParticipants int      `json:"max_participants" mapstructure:"max_participants"`
	Participants    []string `json:"participants" mapstructure:"participants"`
}

// Clone returns a deep copy so callers can't mutate the directory's participant slice.
func (r ActivityRecord) Clone() ActivityRecord {
	out := r
	out.Participants = make([]string, len(r.Participants))
	copy(out.Participants, r.Participants)
	return out
}

// HasParticipant reports whether email is on the roster.
func (r ActivityRecord) HasParticipant(email string) bool {
	return slices.Contains(r.Participants, email)
}

// --- Enums ---

// RosterEventType describes what happened to an activity's roster.
type RosterEventType string

const (
	RosterEventSnapshot   RosterEventType = "snapshot"   // Current roster, sent when a client connects
	RosterEventSignup     RosterEventType = "signup"     // A student was added
	RosterEventUnregister RosterEventType = "unregister" // A student was removed
)

// RosterEvent is the payload broadcast to clients streaming an activity's roster.
type RosterEvent struct {
	Type         RosterEventType `json:"type"`
	Activity     string          `json:"activity"`
	Email        string          `json:"email,omitempty"` // Empty for snapshots
	Participants []string        `json:"participants"`    // Roster after the change
}

// --- Response schemas ---

// MessageResponse is returned by successful signup and unregister calls.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every error response: a single human-readable detail.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
