// Package scenario keeps the insertion-ordered collection of saved pricing
// snapshots and mirrors it to a key-value backend.
package scenario

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	perrors "plinius-pricer/internal/errors"
	"plinius-pricer/internal/logging"
	"plinius-pricer/internal/models"
	"plinius-pricer/internal/pricing"
	"plinius-pricer/internal/resilience"
	"plinius-pricer/internal/store"
	"plinius-pricer/pkg/utils"
)

// DefaultStorageKey is the key the collection is stored under.
const DefaultStorageKey = "plinius.scenarios"

// DefaultPalette returns the default scenario colors. Each call returns a
// fresh slice.
func DefaultPalette() []string {
	return []string{
		"#2563eb", "#dc2626", "#16a34a", "#d97706",
		"#7c3aed", "#0891b2", "#db2777", "#4b5563",
	}
}

// Config configures a Store.
type Config struct {
	Key     string
	Palette []string
	Retry   utils.RetryConfig
	// Breaker, when set, stops writing to a backend that keeps failing.
	// The next write after the cooldown carries the full collection.
	Breaker *resilience.CircuitBreaker
	Logger  zerolog.Logger
	// Now stamps SavedAt; defaults to time.Now.
	Now func() time.Time
}

// Store is the scenario collection. It is safe for concurrent use.
// Persistence is best effort: a failed write is logged and the in-memory
// collection stays authoritative.
type Store struct {
	mu        sync.RWMutex
	persistMu sync.Mutex
	kv        store.KV
	key       string
	palette   []string
	retry     utils.RetryConfig
	breaker   *resilience.CircuitBreaker
	logger    zerolog.Logger
	now       func() time.Time
	scenarios []models.Scenario
}

// NewStore builds a Store over kv and loads any saved collection. Missing,
// unreadable or corrupt data yields an empty store.
func NewStore(ctx context.Context, kv store.KV, cfg Config) (*Store, error) {
	if kv == nil {
		return nil, perrors.NewValidationError("kv", nil, "a key-value store is required")
	}
	palette := make([]string, 0, len(cfg.Palette))
	for _, c := range cfg.Palette {
		if c = strings.TrimSpace(c); c != "" {
			palette = append(palette, c)
		}
	}
	if len(palette) == 0 {
		return nil, perrors.NewValidationError("palette", cfg.Palette, "at least one color is required")
	}
	if cfg.Key == "" {
		cfg.Key = DefaultStorageKey
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	s := &Store{
		kv:      kv,
		key:     cfg.Key,
		palette: palette,
		retry:   cfg.Retry,
		breaker: cfg.Breaker,
		logger:  cfg.Logger.With().Str("component", "scenarios").Logger(),
		now:     cfg.Now,
	}
	s.load(ctx)
	return s, nil
}

func (s *Store) load(ctx context.Context) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("Failed to load scenarios, starting empty")
		return
	}
	if !ok || raw == "" {
		return
	}

	var loaded []models.Scenario
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("Stored scenarios are corrupt, starting empty")
		return
	}
	s.scenarios = loaded
	s.logger.Debug().Int("count", len(loaded)).Msg("Scenarios loaded")
}

// Add prices in, snapshots it and appends it to the collection. An empty
// label is replaced with a generated summary. The color is
// palette[count mod len(palette)] at the time of insertion.
func (s *Store) Add(ctx context.Context, label string, in models.Instrument) (models.Scenario, error) {
	val, err := pricing.Evaluate(in)
	if err != nil {
		return models.Scenario{}, err
	}

	snapshot := in.Clone()
	if strings.TrimSpace(label) == "" {
		label = pricing.Label(snapshot)
	}

	s.mu.Lock()
	sc := models.Scenario{
		ID:         uuid.NewString(),
		Kind:       snapshot.Kind,
		Color:      s.palette[len(s.scenarios)%len(s.palette)],
		Label:      label,
		SavedAt:    s.now(),
		Instrument: snapshot,
		Valuation:  val,
	}
	s.scenarios = append(s.scenarios, sc)
	total := len(s.scenarios)
	s.mu.Unlock()

	log := logging.WithScenarioID(logging.WithKind(logging.WithOperation(s.logger, "add"), string(sc.Kind)), sc.ID)
	logging.LogScenarioSaved(log, sc.Label, total)
	s.persist(ctx, "add")
	return sc.Clone(), nil
}

// Remove deletes the scenario with id. Unknown ids are a no-op. The
// remaining scenarios keep their order and colors.
func (s *Store) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	idx := -1
	for i, sc := range s.scenarios {
		if sc.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.scenarios = append(s.scenarios[:idx:idx], s.scenarios[idx+1:]...)
	total := len(s.scenarios)
	s.mu.Unlock()

	logging.LogScenarioRemoved(logging.WithScenarioID(logging.WithOperation(s.logger, "remove"), id), total)
	s.persist(ctx, "remove")
	return true
}

// Clear removes every scenario.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.scenarios = nil
	s.mu.Unlock()

	s.logger.Info().Str("event", "scenarios_cleared").Msg("Scenarios cleared")
	s.persist(ctx, "clear")
}

// List returns the scenarios in insertion order. With kinds given, only
// scenarios of those kinds are returned.
func (s *Store) List(kinds ...models.Kind) []models.Scenario {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Scenario, 0, len(s.scenarios))
	for _, sc := range s.scenarios {
		if len(kinds) > 0 && !containsKind(kinds, sc.Kind) {
			continue
		}
		out = append(out, sc.Clone())
	}
	return out
}

// Get returns the scenario with id.
func (s *Store) Get(id string) (models.Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sc := range s.scenarios {
		if sc.ID == id {
			return sc.Clone(), nil
		}
	}
	return models.Scenario{}, perrors.Wrapf(perrors.ErrScenarioNotFound, "id %s", id)
}

// Len returns the number of saved scenarios.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.scenarios)
}

func (s *Store) encode() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.scenarios
	if list == nil {
		list = []models.Scenario{}
	}
	b, err := json.Marshal(list)
	return string(b), err
}

// persist writes the current collection. Writes are serialised and each one
// encodes the state at write time, so the last write carries the latest state.
func (s *Store) persist(ctx context.Context, op string) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	log := logging.WithOperation(s.logger, op)
	payload, encErr := s.encode()
	if encErr != nil {
		logging.LogPersistFailure(log, s.key, encErr)
		return
	}
	write := func() error {
		return utils.Retry(ctx, s.retry, func() error {
			return s.kv.Set(ctx, s.key, payload)
		})
	}
	var err error
	if s.breaker != nil {
		err = s.breaker.Execute(ctx, write)
	} else {
		err = write()
	}
	if err != nil {
		logging.LogPersistFailure(log, s.key, err)
	}
}

func containsKind(kinds []models.Kind, k models.Kind) bool {
	for _, want := range kinds {
		if want == k {
			return true
		}
	}
	return false
}
