package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCatalogInvariants(t *testing.T) {
	catalog := SeedCatalog()

	for _, name := range []string{"Tennis Club", "Basketball Team", "Debate Team", "Drama Club", "Chess Club", "Robotics Club", "Art Studio"} {
		assert.Contains(t, catalog, name)
	}
	assert.True(t, catalog["Tennis Club"].HasParticipant("alex@mergington.edu"))

	for name, rec := range catalog {
		require.NoError(t, ValidateRecord(name, rec))
		assert.NotNil(t, rec.Participants, "%s participants should never be nil", name)
	}
}

func TestSeedCatalogIsFreshEachCall(t *testing.T) {
	a := SeedCatalog()
	rec := a["Tennis Club"]
	rec.Participants[0] = "mutated@mergington.edu"

	b := SeedCatalog()
	assert.Equal(t, "alex@mergington.edu", b["Tennis Club"].Participants[0])
}

func TestCloneIsDeep(t *testing.T) {
	orig := ActivityRecord{Participants: []string{"a@mergington.edu"}}
	cp := orig.Clone()
	cp.Participants[0] = "b@mergington.edu"
	cp.Participants = append(cp.Participants, "c@mergington.edu")

	assert.Equal(t, []string{"a@mergington.edu"}, orig.Participants)
}

func TestValidateRecord(t *testing.T) {
	assert.Error(t, ValidateRecord("  ", ActivityRecord{}))
	assert.Error(t, ValidateRecord("Chess Club", ActivityRecord{
		Participants: []string{"a@mergington.edu", "a@mergington.edu"},
	}))
	assert.NoError(t, ValidateRecord("Chess Club", ActivityRecord{
		Participants: []string{"a@mergington.edu", "b@mergington.edu"},
	}))
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadSeedFileYAML(t *testing.T) {
	path := writeFile(t, "activities.yaml", `
activities:
  - name: Chess Club
    description: Learn strategies
    schedule: Fridays
    max_participants: 12
    participants:
      - michael@mergington.edu
  - name: Art Studio
    description: Paint things
    schedule: Mondays
    max_participants: 15
`)

	catalog, err := LoadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, catalog, 2)

	chess := catalog["Chess Club"]
	assert.Equal(t, "Learn strategies", chess.Description)
	assert.Equal(t, "Fridays", chess.Schedule)
	assert.Equal(t, 12, chess.MaxParticipants)
	assert.Equal(t, []string{"michael@mergington.edu"}, chess.Participants)

	art := catalog["Art Studio"]
	assert.NotNil(t, art.Participants)
	assert.Empty(t, art.Participants)
}

func TestLoadSeedFileJSON(t *testing.T) {
	path := writeFile(t, "activities.json", `{
  "activities": [
    {"name": "Drama Club", "description": "Act", "schedule": "Thursdays", "max_participants": 25, "participants": []}
  ]
}`)

	catalog, err := LoadSeedFile(path)
	require.NoError(t, err)
	assert.Contains(t, catalog, "Drama Club")
}

func TestLoadSeedFileRejectsBadCatalogs(t *testing.T) {
	cases := map[string]string{
		"duplicate participant": `
activities:
  - name: Chess Club
    participants: [a@mergington.edu, a@mergington.edu]
`,
		"duplicate activity": `
activities:
  - name: Chess Club
  - name: Chess Club
`,
		"blank name": `
activities:
  - name: ""
`,
		"empty": `
activities: []
`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadSeedFile(writeFile(t, "seed.yaml", body))
			assert.Error(t, err)
		})
	}
}

func TestLoadSeedFileMissing(t *testing.T) {
	_, err := LoadSeedFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
