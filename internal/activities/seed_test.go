package activities

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "activities.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultSeed(t *testing.T) {
	seed := DefaultSeed()

	require.Contains(t, seed, "Chess Club")
	assert.Equal(t, 12, seed["Chess Club"].MaxParticipants)
	for name, a := range seed {
		require.NoError(t, validateSeedActivity(name, a))
	}
}

func TestLoadSeed(t *testing.T) {
	path := writeSeedFile(t, `
Chess Club:
  description: Learn chess
  schedule: Fridays, 3:30 PM - 5:00 PM
  max_participants: 12
  participants:
    - michael@mergington.edu
Drama Club:
  description: Stage productions
  schedule: Thursdays
  max_participants: 25
`)

	seed, err := LoadSeed(path)
	require.NoError(t, err)
	require.Len(t, seed, 2)
	assert.Equal(t, []string{"michael@mergington.edu"}, seed["Chess Club"].Participants)
	assert.NotNil(t, seed["Drama Club"].Participants, "missing roster normalizes to empty slice")
	assert.Empty(t, seed["Drama Club"].Participants)
}

func TestLoadSeedMissingFile(t *testing.T) {
	_, err := LoadSeed(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadSeedRejectsInvalidCatalogs(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "not yaml",
			content: "{{{{",
		},
		{
			name:    "empty catalog",
			content: "",
		},
		{
			name: "empty description",
			content: `
Chess Club:
  description: ""
  schedule: Fridays
  max_participants: 12
`,
		},
		{
			name: "empty schedule",
			content: `
Chess Club:
  description: Learn chess
  schedule: ""
  max_participants: 12
`,
		},
		{
			name: "zero capacity",
			content: `
Chess Club:
  description: Learn chess
  schedule: Fridays
  max_participants: 0
`,
		},
		{
			name: "roster over capacity",
			content: `
Chess Club:
  description: Learn chess
  schedule: Fridays
  max_participants: 1
  participants: [a@b.edu, c@d.edu]
`,
		},
		{
			name: "duplicate participant",
			content: `
Chess Club:
  description: Learn chess
  schedule: Fridays
  max_participants: 12
  participants: [a@b.edu, a@b.edu]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSeed(writeSeedFile(t, tt.content))
			assert.Error(t, err)
		})
	}
}
