// Package quota enforces per-provider daily request budgets and persists the
// counters to a JSON state file.
//
// State file layout (rewritten in full on every mutation):
//
//	{ "google": { "date": "2026-03-01", "count": 150 } }
package quota

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const dateLayout = "2006-01-02"

type entry struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Tracker counts requests per provider and calendar day. A single mutex
// guards every provider's counter and the backing file.
type Tracker struct {
	path   string
	clock  clockwork.Clock
	loc    *time.Location
	logger *slog.Logger

	mu    sync.Mutex
	state map[string]entry
}

// Option customizes a Tracker.
type Option func(*Tracker)

// WithClock swaps the time source, mostly for tests.
func WithClock(c clockwork.Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// WithLocation sets the time zone whose midnight starts a new quota day.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) { t.loc = loc }
}

// WithLogger sets the logger used for persistence problems.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// NewTracker loads the state file at path. A missing or unreadable file starts
// from an empty state.
func NewTracker(path string, opts ...Option) *Tracker {
	t := &Tracker{
		path:   path,
		clock:  clockwork.NewRealClock(),
		loc:    time.Local,
		logger: slog.Default(),
		state:  make(map[string]entry),
	}
	for _, opt := range opts {
		opt(t)
	}
	if err := t.load(); err != nil {
		t.logger.Warn("quota state unreadable, starting empty", "path", path, "error", err)
		t.state = make(map[string]entry)
	}
	return t
}

// TryConsume reserves one request for provider. A limit <= 0 is unlimited and
// leaves the state untouched. It returns false once today's count reached
// limit.
func (t *Tracker) TryConsume(provider string, limit int) bool {
	if limit <= 0 {
		return true
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	today := t.today()
	e, ok := t.state[provider]
	if !ok || e.Date != today {
		e = entry{Date: today}
	}
	if e.Count >= limit {
		return false
	}

	e.Count++
	t.state[provider] = e
	t.persist()
	return true
}

// Refund gives back one reservation made today, for requests that never
// reached the provider.
func (t *Tracker) Refund(provider string, limit int) {
	if limit <= 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.state[provider]
	if !ok || e.Date != t.today() || e.Count == 0 {
		return
	}
	e.Count--
	t.state[provider] = e
	t.persist()
}

// Usage returns how many requests provider consumed today.
func (t *Tracker) Usage(provider string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.state[provider]
	if !ok || e.Date != t.today() {
		return 0
	}
	return e.Count
}

func (t *Tracker) today() string {
	return t.clock.Now().In(t.loc).Format(dateLayout)
}

func (t *Tracker) load() error {
	data, err := os.ReadFile(t.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read quota state: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	state := make(map[string]entry)
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("decode quota state: %w", err)
	}
	t.state = state
	return nil
}

// persist writes the whole state. Callers hold t.mu.
func (t *Tracker) persist() {
	if err := t.save(); err != nil {
		t.logger.Error("persist quota state failed", "path", t.path, "error", err)
	}
}

func (t *Tracker) save() error {
	data, err := json.MarshalIndent(t.state, "", "    ")
	if err != nil {
		return fmt.Errorf("encode quota state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(t.path), ".quota-*.json")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // already renamed on success

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write quota state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close quota state: %w", err)
	}
	if err := os.Rename(tmp.Name(), t.path); err != nil {
		return fmt.Errorf("replace quota state: %w", err)
	}
	return nil
}
