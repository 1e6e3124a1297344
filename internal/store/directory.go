// Package store holds the activity directory: the in-memory map of activity name to
// activity record that every endpoint reads from or writes to.
//
// The Directory is an explicitly owned object. main creates one at startup and hands it
// to the handler layer; nothing in the process reaches it through a package global.
// A single RWMutex guards the whole map, so the "is this email already enrolled?" check
// and the append that follows it happen atomically even under parallel requests.
package store

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/mergington/activities-api/internal/models"
)

var (
	// ErrActivityNotFound is returned when the requested activity name is not in the directory.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrAlreadySignedUp is returned when a student signs up for an activity twice.
	ErrAlreadySignedUp = errors.New("student is already signed up for this activity")
	// ErrNotSignedUp is returned when unregistering a student who isn't on the roster.
	ErrNotSignedUp = errors.New("student is not signed up for this activity")
)

// Directory maps activity names to their records.
type Directory struct {
	mu         sync.RWMutex
	activities map[string]*models.ActivityRecord
}

// New builds a Directory from a catalog. The catalog is copied, so later changes to the
// caller's map don't leak into the directory. Invalid entries (blank names, duplicate
// participants) are rejected.
func New(catalog map[string]models.ActivityRecord) (*Directory, error) {
	d := &Directory{activities: make(map[string]*models.ActivityRecord, len(catalog))}
	for name, rec := range catalog {
		if err := models.ValidateRecord(name, rec); err != nil {
			return nil, fmt.Errorf("new directory: %w", err)
		}
		cp := rec.Clone()
		d.activities[name] = &cp
	}
	return d, nil
}

// NewSeeded builds a Directory from the built-in catalog.
func NewSeeded() *Directory {
	d, err := New(models.SeedCatalog())
	if err != nil {
		// The built-in catalog is covered by tests; reaching this is a programming error.
		panic(err)
	}
	return d
}

// List returns a snapshot of every activity. The snapshot shares no memory with the
// directory, so callers may serialise it after the lock is released.
func (d *Directory) List() map[string]models.ActivityRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string]models.ActivityRecord, len(d.activities))
	for name, rec := range d.activities {
		out[name] = rec.Clone()
	}
	return out
}

// Names returns the activity names in sorted order.
func (d *Directory) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.activities))
	for name := range d.activities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns a copy of a single activity.
func (d *Directory) Get(name string) (models.ActivityRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rec, ok := d.activities[name]
	if !ok {
		return models.ActivityRecord{}, ErrActivityNotFound
	}
	return rec.Clone(), nil
}

// Signup appends email to the activity's roster and returns the roster after the change.
// MaxParticipants is not consulted: capacity is advisory.
func (d *Directory) Signup(name, email string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	rec, ok := d.activities[name]
	if !ok {
		return nil, ErrActivityNotFound
	}
	if rec.HasParticipant(email) {
		return nil, ErrAlreadySignedUp
	}

	rec.Participants = append(rec.Participants, email)
	return rec.Clone().Participants, nil
}

// Unregister removes email from the activity's roster, keeping the remaining students in
// signup order, and returns the roster after the change.
func (d *Directory) Unregister(name, email string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	rec, ok := d.activities[name]
	if !ok {
		return nil, ErrActivityNotFound
	}

	idx := slices.Index(rec.Participants, email)
	if idx < 0 {
		return nil, ErrNotSignedUp
	}

	rec.Participants = slices.Delete(rec.Participants, idx, idx+1)
	return rec.Clone().Participants, nil
}
