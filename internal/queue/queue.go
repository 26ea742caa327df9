// Package queue tracks video files through the batch lifecycle.
package queue

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/gbabichev/mp4batch/internal/util"
)

// Status is a QueueEntry's lifecycle state. Transitions only move forward:
// pending, processing, then one of the terminal states. The only reversal
// is an explicit batch restart resetting every entry to pending.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// IsTerminal reports whether the status is an end state.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Entry is one tracked file. Values returned from Queue methods are copies;
// only the queue mutates the stored entries.
type Entry struct {
	ID          string
	SourcePath  string
	DisplayName string
	Extension   string
	SizeMB      int64

	Status            Status
	ProcessingSeconds float64
	OutputSizeMB      int64
	FailureReason     string

	HasConflict    bool
	ConflictReason string
}

// Queue is the shared file list, mutated by the orchestrator (status
// updates) and the user (add/remove) concurrently.
type Queue struct {
	mu      sync.Mutex
	entries []*Entry
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{}
}

// Add creates pending entries for the given paths and appends them as one
// wave: the new entries are sorted by path among themselves, but files
// already queued (or already processed) keep their positions. Returns
// copies of the created entries.
func (q *Queue) Add(paths ...string) []Entry {
	wave := make([]string, len(paths))
	copy(wave, paths)
	sort.Slice(wave, func(i, j int) bool {
		return strings.ToLower(wave[i]) < strings.ToLower(wave[j])
	})

	q.mu.Lock()
	defer q.mu.Unlock()

	added := make([]Entry, 0, len(wave))
	for _, path := range wave {
		entry := &Entry{
			ID:          uuid.NewString(),
			SourcePath:  path,
			DisplayName: filepath.Base(path),
			Extension:   strings.TrimPrefix(filepath.Ext(path), "."),
			SizeMB:      util.GetFileSizeMB(path),
			Status:      StatusPending,
		}
		q.entries = append(q.entries, entry)
		added = append(added, *entry)
	}
	return added
}

// Remove deletes the entry with the given id. Reports whether it existed.
// The orchestrator observes removals before starting a file.
func (q *Queue) Remove(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, e := range q.entries {
		if e.ID == id {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = nil
}

// Get returns a copy of the entry with the given id.
func (q *Queue) Get(id string) (Entry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if e := q.find(id); e != nil {
		return *e, true
	}
	return Entry{}, false
}

// Entries returns a copy of every entry in queue order.
func (q *Queue) Entries() []Entry {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Entry, len(q.entries))
	for i, e := range q.entries {
		out[i] = *e
	}
	return out
}

// Len returns the number of entries.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// PendingCount returns how many entries have not started yet.
func (q *Queue) PendingCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	count := 0
	for _, e := range q.entries {
		if e.Status == StatusPending {
			count++
		}
	}
	return count
}

// NextPending returns a copy of the first pending entry in queue order.
// Entries removed since the last call are naturally skipped.
func (q *Queue) NextPending() (Entry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, e := range q.entries {
		if e.Status == StatusPending {
			return *e, true
		}
	}
	return Entry{}, false
}

// MarkProcessing moves a pending entry to processing.
func (q *Queue) MarkProcessing(id string) error {
	return q.transition(id, StatusProcessing, func(e *Entry) {})
}

// Complete moves a processing entry to completed and records its timing
// and output size.
func (q *Queue) Complete(id string, seconds float64, outputSizeMB int64) error {
	return q.transition(id, StatusCompleted, func(e *Entry) {
		e.ProcessingSeconds = seconds
		e.OutputSizeMB = outputSizeMB
	})
}

// Fail moves a processing entry to failed with a reason.
func (q *Queue) Fail(id string, seconds float64, reason string) error {
	return q.transition(id, StatusFailed, func(e *Entry) {
		e.ProcessingSeconds = seconds
		e.FailureReason = reason
	})
}

// SetConflict records the advisory conflict flag on an entry. Conflicts warn;
// they never block processing.
func (q *Queue) SetConflict(id string, hasConflict bool, reason string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if e := q.find(id); e != nil {
		e.HasConflict = hasConflict
		e.ConflictReason = reason
	}
}

// ResetAll returns every entry to pending for a batch restart, clearing
// per-file results.
func (q *Queue) ResetAll() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, e := range q.entries {
		e.Status = StatusPending
		e.ProcessingSeconds = 0
		e.OutputSizeMB = 0
		e.FailureReason = ""
	}
}

// Counts returns how many entries are in each terminal state.
func (q *Queue) Counts() (completed, failed int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, e := range q.entries {
		switch e.Status {
		case StatusCompleted:
			completed++
		case StatusFailed:
			failed++
		}
	}
	return completed, failed
}

func (q *Queue) find(id string) *Entry {
	for _, e := range q.entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// transition applies a forward-only status change under the lock.
func (q *Queue) transition(id string, to Status, apply func(*Entry)) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	e := q.find(id)
	if e == nil {
		return fmt.Errorf("entry %s not in queue", id)
	}
	if !validTransition(e.Status, to) {
		return fmt.Errorf("invalid transition: %s -> %s", e.Status, to)
	}

	e.Status = to
	apply(e)
	return nil
}

// validTransition enforces the forward-only state machine edges.
func validTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusProcessing
	case StatusProcessing:
		return to == StatusCompleted || to == StatusFailed
	default:
		return false
	}
}
