// Package store persists save files as JSON documents on disk.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/mazecrawler/internal/entity"
	"github.com/samdwyer/mazecrawler/internal/telemetry"
	"github.com/samdwyer/mazecrawler/internal/world"
)

const (
	saveExt         = ".json"
	defaultMaxTries = 4
)

var (
	// ErrNotFound is returned when a named save does not exist.
	ErrNotFound = errors.New("save not found")
	// ErrInvalidName is returned for names that are empty or contain path elements.
	ErrInvalidName = errors.New("invalid save name")
)

// SaveFile is one saved game.
type SaveFile struct {
	ID      uuid.UUID          `json:"id"`
	Name    string             `json:"name"`
	Level   string             `json:"level,omitempty"`
	SavedAt time.Time          `json:"savedAt"`
	Maze    world.Snapshot     `json:"maze"`
	Player  entity.PlayerState `json:"player"`
}

// Storage defines the interface for save persistence.
type Storage interface {
	Save(ctx context.Context, save *SaveFile) error
	Load(ctx context.Context, name string) (*SaveFile, error)
	List() ([]string, error)
	Delete(name string) error
}

// JSONStore keeps one JSON file per save in a directory.
type JSONStore struct {
	dir      string
	mutex    sync.Mutex
	maxTries uint
	now      func() time.Time
}

// NewJSONStore creates a store rooted at dir, creating the directory if needed.
func NewJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create save directory: %w", err)
	}
	return &JSONStore{
		dir:      dir,
		maxTries: defaultMaxTries,
		now:      time.Now,
	}, nil
}

// Dir returns the directory holding the save files.
func (js *JSONStore) Dir() string {
	return js.dir
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

func (js *JSONStore) path(name string) string {
	return filepath.Join(js.dir, name+saveExt)
}

// Save writes a save file. A missing ID is generated and SavedAt is
// stamped. The file is replaced atomically; transient write failures are
// retried with exponential backoff.
func (js *JSONStore) Save(ctx context.Context, save *SaveFile) error {
	tracer := telemetry.Tracer("store")
	ctx, span := tracer.Start(ctx, "save.write")
	defer span.End()

	if !validName(save.Name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, save.Name)
	}
	if save.ID == uuid.Nil {
		save.ID = uuid.New()
	}
	save.SavedAt = js.now().UTC()

	data, err := json.MarshalIndent(save, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode save %s: %w", save.Name, err)
	}

	js.mutex.Lock()
	defer js.mutex.Unlock()

	attempts := 0
	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		attempts++
		return struct{}{}, js.writeAtomic(save.Name, data)
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(js.maxTries),
	)

	span.SetAttributes(
		attribute.String("save.name", save.Name),
		attribute.String("save.id", save.ID.String()),
		attribute.Int("save.bytes", len(data)),
		attribute.Int("save.attempts", attempts),
	)
	if err != nil {
		return fmt.Errorf("failed to write save %s: %w", save.Name, err)
	}
	return nil
}

// writeAtomic writes data to a temp file and renames it over the target.
func (js *JSONStore) writeAtomic(name string, data []byte) error {
	tmp, err := os.CreateTemp(js.dir, name+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, js.path(name))
}

// Load reads a save by name.
func (js *JSONStore) Load(ctx context.Context, name string) (*SaveFile, error) {
	tracer := telemetry.Tracer("store")
	_, span := tracer.Start(ctx, "save.read")
	defer span.End()
	span.SetAttributes(attribute.String("save.name", name))

	if !validName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	data, err := os.ReadFile(js.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read save %s: %w", name, err)
	}

	var save SaveFile
	if err := json.Unmarshal(data, &save); err != nil {
		return nil, fmt.Errorf("failed to parse save %s: %w", name, err)
	}
	span.SetAttributes(attribute.String("save.id", save.ID.String()))
	return &save, nil
}

// List returns the names of all saves, sorted.
func (js *JSONStore) List() ([]string, error) {
	entries, err := os.ReadDir(js.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list saves: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), saveExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), saveExt))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a save.
func (js *JSONStore) Delete(name string) error {
	if !validName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	js.mutex.Lock()
	defer js.mutex.Unlock()

	err := os.Remove(js.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return err
}
