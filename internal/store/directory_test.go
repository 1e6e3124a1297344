package store

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergington/activities-api/internal/models"
)

func count(list []string, email string) int {
	n := 0
	for _, p := range list {
		if p == email {
			n++
		}
	}
	return n
}

func TestUnknownActivityIsNotFound(t *testing.T) {
	d := NewSeeded()
	before := d.List()

	for _, name := range []string{"Nonexistent Club", "", "tennis club", "Tennis Club "} {
		_, err := d.Signup(name, "student@mergington.edu")
		assert.ErrorIs(t, err, ErrActivityNotFound, "signup %q", name)

		_, err = d.Unregister(name, "student@mergington.edu")
		assert.ErrorIs(t, err, ErrActivityNotFound, "unregister %q", name)

		_, err = d.Get(name)
		assert.ErrorIs(t, err, ErrActivityNotFound, "get %q", name)
	}

	assert.Equal(t, before, d.List())
}

func TestSignupAddsExactlyOnce(t *testing.T) {
	d := NewSeeded()

	roster, err := d.Signup("Tennis Club", "newstudent@mergington.edu")
	require.NoError(t, err)
	assert.Equal(t, []string{"alex@mergington.edu", "newstudent@mergington.edu"}, roster)

	rec, err := d.Get("Tennis Club")
	require.NoError(t, err)
	assert.Equal(t, 1, count(rec.Participants, "newstudent@mergington.edu"))
}

func TestDuplicateSignupIsConflict(t *testing.T) {
	d := NewSeeded()
	before, err := d.Get("Tennis Club")
	require.NoError(t, err)

	_, err = d.Signup("Tennis Club", "alex@mergington.edu")
	assert.ErrorIs(t, err, ErrAlreadySignedUp)

	// Repeating the failed call must not change anything either.
	_, err = d.Signup("Tennis Club", "alex@mergington.edu")
	assert.ErrorIs(t, err, ErrAlreadySignedUp)

	after, err := d.Get("Tennis Club")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUnregisterRemovesExactlyThatEmail(t *testing.T) {
	d, err := New(map[string]models.ActivityRecord{
		"Chess Club": {Participants: []string{"a@mergington.edu", "b@mergington.edu", "c@mergington.edu"}},
	})
	require.NoError(t, err)

	roster, err := d.Unregister("Chess Club", "b@mergington.edu")
	require.NoError(t, err)
	assert.Equal(t, []string{"a@mergington.edu", "c@mergington.edu"}, roster)

	rec, err := d.Get("Chess Club")
	require.NoError(t, err)
	assert.Equal(t, []string{"a@mergington.edu", "c@mergington.edu"}, rec.Participants)
}

func TestUnregisterAbsentEmailIsConflict(t *testing.T) {
	d := NewSeeded()
	before := d.List()

	for i := 0; i < 2; i++ {
		_, err := d.Unregister("Tennis Club", "notstudent@mergington.edu")
		assert.ErrorIs(t, err, ErrNotSignedUp)
	}

	assert.Equal(t, before, d.List())
}

func TestAlexCanLeaveTennisClub(t *testing.T) {
	d := NewSeeded()

	_, err := d.Signup("Tennis Club", "alex@mergington.edu")
	assert.ErrorIs(t, err, ErrAlreadySignedUp)

	_, err = d.Unregister("Tennis Club", "alex@mergington.edu")
	require.NoError(t, err)

	assert.NotContains(t, d.List()["Tennis Club"].Participants, "alex@mergington.edu")
}

func TestSignupUnregisterSignupCycle(t *testing.T) {
	d := NewSeeded()
	const email = "student@mergington.edu"

	_, err := d.Signup("Drama Club", email)
	require.NoError(t, err)
	_, err = d.Unregister("Drama Club", email)
	require.NoError(t, err)
	_, err = d.Signup("Drama Club", email)
	require.NoError(t, err)

	rec, err := d.Get("Drama Club")
	require.NoError(t, err)
	assert.Equal(t, 1, count(rec.Participants, email))
}

func TestCapacityIsAdvisory(t *testing.T) {
	d, err := New(map[string]models.ActivityRecord{
		"Tiny Club": {MaxParticipants: 1, Participants: []string{"a@mergington.edu"}},
	})
	require.NoError(t, err)

	_, err = d.Signup("Tiny Club", "b@mergington.edu")
	require.NoError(t, err)

	rec, err := d.Get("Tiny Club")
	require.NoError(t, err)
	assert.Len(t, rec.Participants, 2)
	assert.Equal(t, 1, rec.MaxParticipants)
}

func TestSnapshotsAreIsolated(t *testing.T) {
	d := NewSeeded()

	snap := d.List()
	tennis := snap["Tennis Club"]
	tennis.Participants[0] = "hacker@mergington.edu"

	rec, err := d.Get("Tennis Club")
	require.NoError(t, err)
	rec.Participants = append(rec.Participants, "other@mergington.edu")

	fresh, err := d.Get("Tennis Club")
	require.NoError(t, err)
	assert.Equal(t, []string{"alex@mergington.edu"}, fresh.Participants)
}

func TestNewCopiesAndValidatesCatalog(t *testing.T) {
	catalog := map[string]models.ActivityRecord{
		"Chess Club": {Participants: []string{"a@mergington.edu"}},
	}
	d, err := New(catalog)
	require.NoError(t, err)

	catalog["Chess Club"].Participants[0] = "changed@mergington.edu"
	rec, err := d.Get("Chess Club")
	require.NoError(t, err)
	assert.Equal(t, []string{"a@mergington.edu"}, rec.Participants)

	_, err = New(map[string]models.ActivityRecord{
		"Chess Club": {Participants: []string{"a@mergington.edu", "a@mergington.edu"}},
	})
	assert.Error(t, err)
}

func TestNamesSorted(t *testing.T) {
	d, err := New(map[string]models.ActivityRecord{"b": {}, "a": {}, "c": {}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, d.Names())
}

func TestConcurrentDuplicateSignupsSucceedOnce(t *testing.T) {
	d := NewSeeded()
	const workers = 64

	var ok atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := d.Signup("Chess Club", "racer@mergington.edu"); err == nil {
				ok.Add(1)
			} else {
				assert.ErrorIs(t, err, ErrAlreadySignedUp)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
	rec, err := d.Get("Chess Club")
	require.NoError(t, err)
	assert.Equal(t, 1, count(rec.Participants, "racer@mergington.edu"))
}

func TestConcurrentDistinctSignups(t *testing.T) {
	d := NewSeeded()
	const workers = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := d.Signup("Robotics Club", fmt.Sprintf("student%d@mergington.edu", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	rec, err := d.Get("Robotics Club")
	require.NoError(t, err)
	assert.Len(t, rec.Participants, workers+1)
}
