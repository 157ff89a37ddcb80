package activities

import (
	"errors"
)

var (
	// ErrActivityNotFound is returned when an activity name has no registry entry
	ErrActivityNotFound = errors.New("activity not found")

	// ErrAlreadySignedUp is returned when a signup targets a roster the email is already on
	ErrAlreadySignedUp = errors.New("student is already signed up")

	// ErrNotSignedUp is returned when an unregister targets a roster the email is not on
	ErrNotSignedUp = errors.New("student is not signed up for this activity")

	// ErrActivityFull is returned when a signup would exceed the activity's capacity
	ErrActivityFull = errors.New("activity is full")
)

// Activity is one extracurricular offering. The activity name is the registry
// key rather than a struct field, matching the name-keyed wire format.
type Activity struct {
	Description     string   `json:"description" yaml:"description"`
	Schedule        string   `json:"schedule" yaml:"schedule"`
	MaxParticipants int      `json:"max_participants" yaml:"max_participants"`
	Participants    []string `json:"participants" yaml:"participants"`
}

// clone returns a deep copy so callers can't mutate registry state through
// a returned slice.
func (a *Activity) clone() Activity {
	out := Activity{
		Description:     a.Description,
		Schedule:        a.Schedule,
		MaxParticipants: a.MaxParticipants,
		Participants:    make([]string, len(a.Participants)),
	}
	copy(out.Participants, a.Participants)
	return out
}

// enrolled reports whether email is on the roster. Matching is exact:
// case-sensitive, no trimming, empty string is a valid identity.
func (a *Activity) enrolled(email string) bool {
	for _, p := range a.Participants {
		if p == email {
			return true
		}
	}
	return false
}
