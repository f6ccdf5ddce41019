package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	applog "github.com/janisto/fistfuel/internal/platform/logging"
	"github.com/janisto/fistfuel/internal/platform/timeutil"
	"github.com/janisto/fistfuel/internal/storage"
)

const (
	// StorageKey is the fixed key the profile record lives under.
	StorageKey = "fist-fuel-profile"
	// RecordVersion is written into every saved record.
	RecordVersion = "1.1"

	auditResource = "profile"
)

// record is the persisted JSON document.
type record struct {
	Goal      Goal    `json:"goal"`
	Height    float64 `json:"height"`
	Weight    float64 `json:"weight"`
	Timestamp int64   `json:"timestamp"`
	Version   string  `json:"version"`
}

// exportDocument carries only the public fields plus the export time.
type exportDocument struct {
	Goal       Goal          `json:"goal"`
	Height     float64       `json:"height"`
	Weight     float64       `json:"weight"`
	ExportDate timeutil.Time `json:"exportDate"`
}

// importDocument accepts the goal as free text so labels are normalized the
// same way form input is.
type importDocument struct {
	Goal   string  `json:"goal"`
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
}

// categorizeError converts errors to audit-safe categories.
func categorizeError(err error) string {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		return "invalid_profile"
	case errors.Is(err, ErrInvalidImport):
		return "invalid_import"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, storage.ErrUnavailable):
		return "storage_unavailable"
	default:
		return "internal_error"
	}
}

// Store persists the one profile through a storage.KV.
type Store struct {
	kv  storage.KV
	now timeutil.Clock
}

// NewStore creates a store over kv. A nil clock uses the system clock.
func NewStore(kv storage.KV, clock timeutil.Clock) *Store {
	if clock == nil {
		clock = timeutil.SystemClock
	}
	return &Store{kv: kv, now: clock}
}

// Save validates p and writes it with the current timestamp and version. An
// invalid profile never reaches storage.
func (s *Store) Save(ctx context.Context, p Profile) error {
	_, err := s.save(ctx, p)
	s.audit(ctx, "save", err)
	return err
}

func (s *Store) save(ctx context.Context, p Profile) (*Profile, error) {
	if err := p.Validate(); err != nil {
		applog.LogWarn(ctx, "profile rejected", zap.Error(err))
		return nil, err
	}

	now := s.now()
	rec := record{
		Goal:      p.Goal,
		Height:    p.Height,
		Weight:    p.Weight,
		Timestamp: now.UnixMilli(),
		Version:   RecordVersion,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	if err := s.kv.Set(ctx, StorageKey, string(data)); err != nil {
		applog.LogError(ctx, "profile save failed", err)
		return nil, fmt.Errorf("save profile: %w", err)
	}

	saved := rec.profile()
	return &saved, nil
}

// Load returns the stored profile or ErrNotFound. A record that cannot be
// decoded or fails validation is removed before ErrNotFound is returned, so
// corrupt data never survives a read. A failing backend is reported as a
// wrapped storage error and the record is left in place.
func (s *Store) Load(ctx context.Context) (*Profile, error) {
	p, _, err := s.load(ctx)
	return p, err
}

func (s *Store) load(ctx context.Context) (*Profile, string, error) {
	raw, err := s.kv.Get(ctx, StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		applog.LogError(ctx, "profile load failed", err)
		return nil, "", fmt.Errorf("load profile: %w", err)
	}

	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		applog.LogWarn(ctx, "discarding unreadable profile record", zap.Error(err))
		s.discard(ctx)
		return nil, "", ErrNotFound
	}
	if err := Validate(rec.Goal, rec.Height, rec.Weight); err != nil {
		applog.LogWarn(ctx, "discarding invalid profile record", zap.Error(err))
		s.discard(ctx)
		return nil, "", ErrNotFound
	}

	p := rec.profile()
	return &p, raw, nil
}

func (s *Store) discard(ctx context.Context) {
	if err := s.kv.Remove(ctx, StorageKey); err != nil {
		applog.LogError(ctx, "failed to discard profile record", err)
	}
}

// Clear removes the profile. Clearing an absent profile succeeds.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Remove(ctx, StorageKey); err != nil {
		applog.LogError(ctx, "profile clear failed", err)
		s.audit(ctx, "clear", err)
		return fmt.Errorf("clear profile: %w", err)
	}
	s.audit(ctx, "clear", nil)
	return nil
}

// Exists reports whether Load would return a profile.
func (s *Store) Exists(ctx context.Context) bool {
	_, err := s.Load(ctx)
	return err == nil
}

// Stats reports whether a profile exists and the size of its stored record.
func (s *Store) Stats(ctx context.Context) Stats {
	p, raw, err := s.load(ctx)
	if err != nil {
		return Stats{}
	}
	version := p.Version
	if version == "" {
		version = "unknown"
	}
	return Stats{
		Exists:  true,
		Size:    len(raw),
		SavedAt: p.SavedAt,
		Version: version,
	}
}

// Update merges the non-nil fields of params into the stored profile and
// saves the result. It returns ErrNotFound when there is nothing to update.
func (s *Store) Update(ctx context.Context, params UpdateParams) (*Profile, error) {
	current, err := s.Load(ctx)
	if err != nil {
		s.audit(ctx, "update", err)
		return nil, err
	}

	next := *current
	if params.Goal != nil {
		next.Goal = *params.Goal
	}
	if params.Height != nil {
		next.Height = *params.Height
	}
	if params.Weight != nil {
		next.Weight = *params.Weight
	}

	saved, err := s.save(ctx, next)
	if err != nil {
		s.audit(ctx, "update", err)
		return nil, err
	}
	s.audit(ctx, "update", nil)
	return saved, nil
}

// Export renders the public profile fields and the export time as indented
// JSON. It returns ErrNotFound when no profile is stored.
func (s *Store) Export(ctx context.Context) ([]byte, error) {
	p, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	doc := exportDocument{
		Goal:       p.Goal,
		Height:     p.Height,
		Weight:     p.Weight,
		ExportDate: timeutil.Time{Time: s.now()},
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return data, nil
}

// Import reads an exported document, keeps only goal, height and weight, and
// saves them. Malformed JSON yields ErrInvalidImport; out-of-range values
// yield a *ValidationError.
func (s *Store) Import(ctx context.Context, data []byte) (*Profile, error) {
	var doc importDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		err = fmt.Errorf("%w: %w", ErrInvalidImport, err)
		s.audit(ctx, "import", err)
		return nil, err
	}
	goal, _ := ParseGoal(doc.Goal)
	saved, err := s.save(ctx, Profile{Goal: goal, Height: doc.Height, Weight: doc.Weight})
	if err != nil {
		s.audit(ctx, "import", err)
		return nil, err
	}
	s.audit(ctx, "import", nil)
	return saved, nil
}

func (s *Store) audit(ctx context.Context, action string, err error) {
	if err != nil {
		applog.LogAuditEvent(ctx, action, auditResource, StorageKey, applog.AuditFailure,
			map[string]any{"error": categorizeError(err)})
		return
	}
	applog.LogAuditEvent(ctx, action, auditResource, StorageKey, applog.AuditSuccess, nil)
}

func (r record) profile() Profile {
	return Profile{
		Goal:    r.Goal,
		Height:  r.Height,
		Weight:  r.Weight,
		SavedAt: timeutil.FromUnixMillis(r.Timestamp).Time,
		Version: r.Version,
	}
}
