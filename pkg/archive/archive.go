// Package archive persists run reports in a pebble database. Reports are keyed
// by KSUID. KSUIDs only carry second resolution, so ids handed out by one
// Archive are forced to increase strictly and key order stays save order.
package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/recprobe/pkg/report"
)

// ErrNotFound is returned when no report has the requested id
var ErrNotFound = errors.New("run not found")

var (
	runPrefix = []byte("run/")
	runUpper  = []byte("run0")
)

// Entry is the list view of an archived run
type Entry struct {
	ID         string `json:"id"`
	CreatedAt  string `json:"created_at"`
	Source     string `json:"source"`
	Set        string `json:"set,omitempty"`
	Candidates int    `json:"candidates"`
}

// Archive stores run reports
type Archive struct {
	db *pebble.DB

	mu   sync.Mutex
	last ksuid.KSUID
}

// Open opens or creates an archive in dir
func Open(dir string) (*Archive, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	a := &Archive{db: db}
	if a.last, err = a.lastID(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return a, nil
}

// lastID returns the greatest stored id, or ksuid.Nil for an empty archive
func (a *Archive) lastID() (ksuid.KSUID, error) {
	iter, err := a.db.NewIter(&pebble.IterOptions{
		LowerBound: runPrefix,
		UpperBound: runUpper,
	})
	if err != nil {
		return ksuid.Nil, err
	}
	defer iter.Close()

	if !iter.Last() {
		return ksuid.Nil, iter.Error()
	}
	id, err := ksuid.Parse(string(iter.Key()[len(runPrefix):]))
	if err != nil {
		return ksuid.Nil, fmt.Errorf("corrupt key %q: %w", iter.Key(), err)
	}
	return id, nil
}

// nextID returns a fresh id that sorts after every id saved before it
func (a *Archive) nextID() ksuid.KSUID {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := ksuid.New()
	if ksuid.Compare(id, a.last) <= 0 {
		id = a.last.Next()
	}
	a.last = id
	return id
}

func runKey(id ksuid.KSUID) []byte {
	return append(append([]byte(nil), runPrefix...), id.String()...)
}

// Save stores r under a new id, which is also written into the stored report
func (a *Archive) Save(r report.Report) (string, error) {
	id := a.nextID()
	r.ID = id.String()

	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	if err := a.db.Set(runKey(id), data, pebble.Sync); err != nil {
		return "", fmt.Errorf("failed to store report: %w", err)
	}
	return r.ID, nil
}

// Get loads the report with the given id
func (a *Archive) Get(id string) (report.Report, error) {
	var r report.Report
	key, err := parseID(id)
	if err != nil {
		return r, err
	}

	data, closer, err := a.db.Get(runKey(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return r, ErrNotFound
	}
	if err != nil {
		return r, err
	}
	defer closer.Close()

	if err := json.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("failed to decode report %s: %w", id, err)
	}
	return r, nil
}

// List returns every archived run, newest first
func (a *Archive) List() ([]Entry, error) {
	iter, err := a.db.NewIter(&pebble.IterOptions{
		LowerBound: runPrefix,
		UpperBound: runUpper,
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []Entry
	for valid := iter.Last(); valid; valid = iter.Prev() {
		var r report.Report
		if err := json.Unmarshal(iter.Value(), &r); err != nil {
			return nil, fmt.Errorf("failed to decode report at %s: %w", iter.Key(), err)
		}
		out = append(out, Entry{
			ID:         r.ID,
			CreatedAt:  r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			Source:     r.Source.Name,
			Set:        r.Set,
			Candidates: len(r.Candidates),
		})
	}
	return out, iter.Error()
}

// Delete removes a report. Deleting an unknown id returns ErrNotFound.
func (a *Archive) Delete(id string) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}

	_, closer, err := a.db.Get(runKey(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	closer.Close()

	return a.db.Delete(runKey(key), pebble.Sync)
}

// Close closes the underlying database
func (a *Archive) Close() error {
	return a.db.Close()
}

func parseID(id string) (ksuid.KSUID, error) {
	key, err := ksuid.Parse(id)
	if err != nil {
		return ksuid.Nil, fmt.Errorf("%w: invalid id %q", ErrNotFound, id)
	}
	return key, nil
}
