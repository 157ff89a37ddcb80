package activities

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultSeed returns the built-in activity catalog used when no seed file
// is configured.
func DefaultSeed() map[string]*Activity {
	return map[string]*Activity{
		"Chess Club": {
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		"Programming Class": {
			Description:     "Learn programming fundamentals and build software projects",
			Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
		},
		"Gym Class": {
			Description:     "Physical education and sports activities",
			Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
			MaxParticipants: 30,
			Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
		},
	}
}

// LoadSeed reads an activity catalog from a YAML file. The file maps
// activity names to activity records using the same field names as the wire
// format. An invalid catalog is an error, not a fallback.
func LoadSeed(path string) (map[string]*Activity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var seed map[string]*Activity
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if len(seed) == 0 {
		return nil, fmt.Errorf("seed file %s contains no activities", path)
	}

	for name, a := range seed {
		if err := validateSeedActivity(name, a); err != nil {
			return nil, fmt.Errorf("seed file %s: %w", path, err)
		}
		if a.Participants == nil {
			a.Participants = []string{}
		}
	}
	return seed, nil
}

func validateSeedActivity(name string, a *Activity) error {
	if name == "" {
		return fmt.Errorf("activity with empty name")
	}
	if a == nil {
		return fmt.Errorf("activity %q has no body", name)
	}
	if a.Description == "" {
		return fmt.Errorf("activity %q has empty description", name)
	}
	if a.Schedule == "" {
		return fmt.Errorf("activity %q has empty schedule", name)
	}
	if a.MaxParticipants <= 0 {
		return fmt.Errorf("activity %q has non-positive max_participants", name)
	}
	if len(a.Participants) > a.MaxParticipants {
		return fmt.Errorf("activity %q seed roster exceeds capacity", name)
	}
	seen := make(map[string]struct{}, len(a.Participants))
	for _, p := range a.Participants {
		if _, dup := seen[p]; dup {
			return fmt.Errorf("activity %q has duplicate participant %q", name, p)
		}
		seen[p] = struct{}{}
	}
	return nil
}
