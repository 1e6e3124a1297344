package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// SeedCatalog returns the activities the school offers at startup, with the students
// already enrolled before the service came online. A fresh map is built on every call
// so each Directory owns its own copy.
func SeedCatalog() map[string]ActivityRecord {
	return map[string]ActivityRecord{
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
		"Tennis Club": {
			Description:     "Practice tennis skills and compete in matches",
			Schedule:        "Tuesdays and Thursdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 16,
			Participants:    []string{"alex@mergington.edu"},
		},
		"Basketball Team": {
			Description:     "Join the school basketball team and compete in games",
			Schedule:        "Mondays and Wednesdays, 4:00 PM - 6:00 PM",
			MaxParticipants: 15,
			Participants:    []string{"james@mergington.edu"},
		},
		"Debate Team": {
			Description:     "Develop public speaking and argumentation skills",
			Schedule:        "Wednesdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 20,
			Participants:    []string{"lucas@mergington.edu"},
		},
		"Drama Club": {
			Description:     "Perform in plays and learn acting techniques",
			Schedule:        "Thursdays, 4:00 PM - 6:00 PM",
			MaxParticipants: 25,
			Participants:    []string{},
		},
		"Robotics Club": {
			Description:     "Design, build, and program robots for competitions",
			Schedule:        "Saturdays, 10:00 AM - 1:00 PM",
			MaxParticipants: 18,
			Participants:    []string{"ethan@mergington.edu"},
		},
		"Art Studio": {
			Description:     "Explore painting, drawing, and sculpture",
			Schedule:        "Mondays, 3:30 PM - 5:00 PM",
			MaxParticipants: 15,
			Participants:    []string{},
		},
	}
}

// seedEntry is one activity in a seed file. Activities are a list rather than a map
// because viper folds map keys to lower case, and names are case-sensitive keys here.
type seedEntry struct {
	Name           string `mapstructure:"name"`
	ActivityRecord `mapstructure:",squash"`
}

// seedFile mirrors the on-disk layout of a seed file:
//
//	activities:
//	  - name: Chess Club
//	    description: Learn strategies and compete in chess tournaments
//	    schedule: Fridays, 3:30 PM - 5:00 PM
//	    max_participants: 12
//	    participants: [michael@mergington.edu]
type seedFile struct {
	Activities []seedEntry `mapstructure:"activities"`
}

// LoadSeedFile reads an activity catalog from a YAML or JSON file (format is picked
// from the extension). The result is validated against the directory invariants.
func LoadSeedFile(path string) (map[string]ActivityRecord, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}

	var f seedFile
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	if len(f.Activities) == 0 {
		return nil, fmt.Errorf("seed file %s: no activities defined", path)
	}

	catalog := make(map[string]ActivityRecord, len(f.Activities))
	for _, entry := range f.Activities {
		if err := ValidateRecord(entry.Name, entry.ActivityRecord); err != nil {
			return nil, fmt.Errorf("seed file %s: %w", path, err)
		}
		if _, dup := catalog[entry.Name]; dup {
			return nil, fmt.Errorf("seed file %s: activity %q defined more than once", path, entry.Name)
		}
		rec := entry.ActivityRecord
		if rec.Participants == nil {
			rec.Participants = []string{}
		}
		catalog[entry.Name] = rec
	}
	return catalog, nil
}

// ValidateRecord checks a single catalog entry: a non-blank name and no email listed twice.
func ValidateRecord(name string, rec ActivityRecord) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("activity name must not be empty")
	}
	seen := make(map[string]struct{}, len(rec.Participants))
	for _, email := range rec.Participants {
		if _, dup := seen[email]; dup {
			return fmt.Errorf("activity %q lists %s more than once", name, email)
		}
		seen[email] = struct{}{}
	}
	return nil
}
