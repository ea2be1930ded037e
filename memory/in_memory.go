package memory

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"
)

// ErrNoteNotFound is returned when deleting an unknown note.
var ErrNoteNotFound = errors.New("memory not found")

// Note is one remembered fact about a caller.
type Note struct {
	ID        string
	Content   string
	Metadata  map[string]any
	CreatedAt time.Time
}

// Options configure an InMemoryStore.
type Options struct {
	// MaxContextNotes is how many of the most recent notes Context renders.
	MaxContextNotes int
}

// InMemoryStore is a naive process-local MemoryProvider. It offers:
//  1. A per-caller summary (SetSummary / Summary)
//  2. Append-only notes with substring Search
//
// Concurrency: protected by RWMutex. Suitable only for tests and demos; swap
// for a vector DB or semantic index for production retrieval.
type InMemoryStore struct {
	mu        sync.RWMutex
	summaries map[string]string // callerID -> summary
	notes     map[string][]Note // callerID -> notes in insertion order
	seq       map[string]int    // callerID -> next note number
	opts      Options
}

// NewInMemoryStore creates a new in-memory store.
func NewInMemoryStore(optFns ...func(o *Options)) *InMemoryStore {
	opts := Options{MaxContextNotes: 5}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &InMemoryStore{
		summaries: make(map[string]string),
		notes:     make(map[string][]Note),
		seq:       make(map[string]int),
		opts:      opts,
	}
}

// SetSummary replaces the caller's summary. An empty summary clears it.
func (m *InMemoryStore) SetSummary(callerID, summary string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if summary == "" {
		delete(m.summaries, callerID)
		return
	}
	m.summaries[callerID] = summary
}

// Summary returns the caller's summary, or "".
func (m *InMemoryStore) Summary(callerID string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.summaries[callerID]
}

// AddNote appends a note and returns its generated id.
func (m *InMemoryStore) AddNote(callerID, content string, metadata map[string]any) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := fmt.Sprintf("mem_%d", m.seq[callerID])
	m.seq[callerID]++
	m.notes[callerID] = append(m.notes[callerID], Note{
		ID:        id,
		Content:   content,
		Metadata:  maps.Clone(metadata),
		CreatedAt: time.Now(),
	})
	return id
}

// Notes returns a copy of the caller's notes, oldest first.
func (m *InMemoryStore) Notes(callerID string) []Note {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneNotes(m.notes[callerID])
}

// Search performs a case-sensitive substring match over the caller's notes,
// oldest first, up to limit. An empty query matches everything.
func (m *InMemoryStore) Search(callerID, query string, limit int) []Note {
	if limit <= 0 {
		return []Note{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	results := make([]Note, 0, min(limit, len(m.notes[callerID])))
	for _, n := range m.notes[callerID] {
		if len(results) >= limit {
			break
		}
		if query == "" || strings.Contains(n.Content, query) {
			results = append(results, cloneNote(n))
		}
	}
	return results
}

// Delete removes a note by id.
func (m *InMemoryStore) Delete(callerID, noteID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	notes := m.notes[callerID]
	i := slices.IndexFunc(notes, func(n Note) bool { return n.ID == noteID })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNoteNotFound, noteID)
	}
	m.notes[callerID] = slices.Delete(notes, i, i+1)
	return nil
}

// Clear forgets everything about a caller.
func (m *InMemoryStore) Clear(callerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.summaries, callerID)
	delete(m.notes, callerID)
	delete(m.seq, callerID)
}

// Context implements core.MemoryProvider: the summary followed by the most
// recent notes as a bullet list. It returns "" for unknown callers.
func (m *InMemoryStore) Context(ctx context.Context, callerID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sb strings.Builder
	if s := m.summaries[callerID]; s != "" {
		sb.WriteString(s)
	}
	notes := m.notes[callerID]
	if n := m.opts.MaxContextNotes; n > 0 && len(notes) > n {
		notes = notes[len(notes)-n:]
	}
	for _, n := range notes {
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("- ")
		sb.WriteString(n.Content)
	}
	return sb.String(), nil
}

func cloneNote(n Note) Note {
	n.Metadata = maps.Clone(n.Metadata)
	return n
}

func cloneNotes(src []Note) []Note {
	out := make([]Note, len(src))
	for i, n := range src {
		out[i] = cloneNote(n)
	}
	return out
}
