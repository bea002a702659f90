package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog/log"

	"github.com/chameleon-sec/chameleon/pkg/engagement"
	"github.com/chameleon-sec/chameleon/pkg/playbook"
)

const (
	playbooksDir   = "playbooks"
	engagementsDir = "engagements"
	lockFileName   = ".write.lock"
)

// LocalBackend stores records as JSON files under the workspace root:
//
//	<root>/playbooks/<id>.json
//	<root>/engagements/<id>.json
//
// Writes go through a temp-file-and-rename sequence under an advisory file
// lock, so a record is either fully present or absent and concurrent writers
// do not corrupt each other.
type LocalBackend struct {
	root   string
	cfg    *Config
	lock   *flock.Flock
	mu     sync.Mutex
	closed bool
}

// NewLocalBackend creates a file-based backend rooted at cfg.WorkspaceRoot.
func NewLocalBackend(ctx context.Context, cfg *Config) (Backend, error) {
	if cfg == nil || cfg.WorkspaceRoot == "" {
		return nil, NewInvalidInputError("workspace_root", "workspace root directory is required")
	}
	return &LocalBackend{
		root: cfg.WorkspaceRoot,
		cfg:  cfg,
		lock: flock.New(filepath.Join(cfg.WorkspaceRoot, lockFileName)),
	}, nil
}

// Initialize creates the on-disk layout. Idempotent.
func (b *LocalBackend) Initialize(ctx context.Context) error {
	if err := b.ensureOpen(); err != nil {
		return err
	}
	for _, dir := range []string{b.root, filepath.Join(b.root, playbooksDir), filepath.Join(b.root, engagementsDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create storage directory %s: %w", dir, err)
		}
	}
	log.Debug().Str("component", "storage").Str("root", b.root).Msg("Local backend initialized")
	return nil
}

// Playbooks returns the playbook catalog store.
func (b *LocalBackend) Playbooks() PlaybookStore {
	return &localPlaybookStore{backend: b}
}

// Engagements returns the engagement record store.
func (b *LocalBackend) Engagements() EngagementStore {
	return &localEngagementStore{backend: b}
}

// Close marks the backend closed. Safe to call twice.
func (b *LocalBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

func (b *LocalBackend) ensureOpen() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	return nil
}

// writeRecord atomically writes a JSON record: marshal, write to a temp file
// in the destination directory, rename into place. The advisory lock
// serializes writers across processes.
func (b *LocalBackend) writeRecord(path string, record any) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return &PersistenceError{Op: "marshal record", Err: err}
	}

	if err := b.lock.Lock(); err != nil {
		return &PersistenceError{Op: "acquire storage lock", Err: err}
	}
	defer func() { _ = b.lock.Unlock() }()

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return &PersistenceError{Op: "create temp file", Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return &PersistenceError{Op: "write record", Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return &PersistenceError{Op: "close temp file", Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return &PersistenceError{Op: "commit record", Err: err}
	}
	return nil
}

func readRecord(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// ---- playbook store ----

type localPlaybookStore struct {
	backend *LocalBackend
}

func (s *localPlaybookStore) dir() string {
	return filepath.Join(s.backend.root, playbooksDir)
}

// Seed inserts the catalog only when the store holds no playbooks yet, so
// startup is idempotent.
func (s *localPlaybookStore) Seed(ctx context.Context, books []playbook.Playbook) error {
	if err := s.backend.ensureOpen(); err != nil {
		return err
	}
	existing, err := os.ReadDir(s.dir())
	if err != nil {
		return fmt.Errorf("read playbook directory: %w", err)
	}
	for _, entry := range existing {
		if strings.HasSuffix(entry.Name(), ".json") {
			log.Debug().Str("component", "storage").Msg("Playbook catalog already seeded")
			return nil
		}
	}

	for _, pb := range books {
		if err := pb.Validate(); err != nil {
			return NewInvalidInputError("playbook", err.Error())
		}
		if err := s.backend.writeRecord(filepath.Join(s.dir(), pb.ID+".json"), pb); err != nil {
			return err
		}
	}
	log.Info().Str("component", "storage").Int("playbooks", len(books)).Msg("Playbook catalog seeded")
	return nil
}

func (s *localPlaybookStore) List(ctx context.Context) ([]playbook.Playbook, error) {
	if err := s.backend.ensureOpen(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir())
	if err != nil {
		return nil, fmt.Errorf("read playbook directory: %w", err)
	}

	books := make([]playbook.Playbook, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		var pb playbook.Playbook
		if err := readRecord(filepath.Join(s.dir(), entry.Name()), &pb); err != nil {
			log.Warn().Str("component", "storage").Str("file", entry.Name()).Err(err).
				Msg("Skipping unreadable playbook record")
			continue
		}
		books = append(books, pb)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books, nil
}

func (s *localPlaybookStore) Get(ctx context.Context, id string) (*playbook.Playbook, error) {
	if err := s.backend.ensureOpen(); err != nil {
		return nil, err
	}
	var pb playbook.Playbook
	if err := readRecord(filepath.Join(s.dir(), id+".json"), &pb); err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{ResourceType: "playbook", ResourceID: id}
		}
		return nil, fmt.Errorf("read playbook %s: %w", id, err)
	}
	return &pb, nil
}

// ---- engagement store ----

type localEngagementStore struct {
	backend *LocalBackend
}

func (s *localEngagementStore) dir() string {
	return filepath.Join(s.backend.root, engagementsDir)
}

func (s *localEngagementStore) Create(ctx context.Context, eng *engagement.Engagement) error {
	if err := s.backend.ensureOpen(); err != nil {
		return err
	}
	if eng == nil || eng.ID == "" {
		return NewInvalidInputError("id", "engagement ID is required")
	}
	if eng.Target == "" {
		return NewInvalidInputError("target", "engagement target is required")
	}

	path := filepath.Join(s.dir(), eng.ID+".json")
	if _, err := os.Stat(path); err == nil {
		return &AlreadyExistsError{ResourceType: "engagement", ResourceID: eng.ID}
	}
	return s.backend.writeRecord(path, eng)
}

func (s *localEngagementStore) Get(ctx context.Context, id string) (*engagement.Engagement, error) {
	if err := s.backend.ensureOpen(); err != nil {
		return nil, err
	}
	var eng engagement.Engagement
	if err := readRecord(filepath.Join(s.dir(), id+".json"), &eng); err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{ResourceType: "engagement", ResourceID: id}
		}
		return nil, fmt.Errorf("read engagement %s: %w", id, err)
	}
	return &eng, nil
}

// List returns engagements newest first. Non-positive limits fall back to the
// configured default rather than returning unbounded results.
func (s *localEngagementStore) List(ctx context.Context, limit int) ([]engagement.Engagement, error) {
	if err := s.backend.ensureOpen(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.backend.cfg.DefaultListLimit
	}
	if max := s.backend.cfg.MaxListLimit; max > 0 && limit > max {
		limit = max
	}

	entries, err := os.ReadDir(s.dir())
	if err != nil {
		return nil, fmt.Errorf("read engagement directory: %w", err)
	}

	engagements := make([]engagement.Engagement, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		var eng engagement.Engagement
		if err := readRecord(filepath.Join(s.dir(), entry.Name()), &eng); err != nil {
			log.Warn().Str("component", "storage").Str("file", entry.Name()).Err(err).
				Msg("Skipping unreadable engagement record")
			continue
		}
		engagements = append(engagements, eng)
	}

	sort.SliceStable(engagements, func(i, j int) bool {
		if engagements[i].Timestamp.Equal(engagements[j].Timestamp) {
			return engagements[i].ID > engagements[j].ID
		}
		return engagements[i].Timestamp.After(engagements[j].Timestamp)
	})

	if len(engagements) > limit {
		engagements = engagements[:limit]
	}
	return engagements, nil
}
