// Package filestore persists duel progress as one CBOR file per installation.
// It backs the terminal client, which has no database.
package filestore

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/swipefeed/swipefeed/internal/datasources"
	"github.com/swipefeed/swipefeed/internal/domain"
)

const fileExtension = ".cbor"

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("filestore: CBOR encoder initialization failed: " + err.Error())
	}
}

// progressRecord is the on-disk form of domain.DuelProgress.
type progressRecord struct {
	VotesCast int `cbor:"1,keyasint"`
	// Unix milliseconds, absent while open.
	CooldownEndsAt int64 `cbor:"2,keyasint,omitempty"`
}

var _ datasources.DuelProgressStore = (*Store)(nil)

type Store struct {
	dir string
	mu  sync.Mutex
}

// New returns a store writing under dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating progress directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) LoadDuelProgress(_ context.Context, installationID string) (domain.DuelProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(installationID))
	if errors.Is(err, fs.ErrNotExist) {
		return domain.DuelProgress{}, nil
	}
	if err != nil {
		return domain.DuelProgress{}, fmt.Errorf("reading duel progress file: %w", err)
	}

	var record progressRecord
	if err := cbor.Unmarshal(data, &record); err != nil {
		return domain.DuelProgress{}, fmt.Errorf("decoding duel progress file: %w", err)
	}

	progress := domain.DuelProgress{VotesCast: record.VotesCast}
	if record.CooldownEndsAt != 0 {
		progress.CooldownEndsAt = time.UnixMilli(record.CooldownEndsAt).UTC()
	}
	return progress, nil
}

// SaveDuelProgress writes the record through a uniquely named temporary file renamed into
// place, so a crash leaves either the old or the new record and writers sharing the directory
// never write to the same temporary file.
func (s *Store) SaveDuelProgress(
	_ context.Context, installationID string, progress domain.DuelProgress,
) error {
	record := progressRecord{VotesCast: progress.VotesCast}
	if !progress.CooldownEndsAt.IsZero() {
		record.CooldownEndsAt = progress.CooldownEndsAt.UnixMilli()
	}

	data, err := encMode.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding duel progress: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(installationID)

	tmp, err := os.CreateTemp(s.dir, ".progress-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary duel progress file: %w", err)
	}
	temporaryPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary duel progress file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary duel progress file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary duel progress file: %w", err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		_ = os.Remove(temporaryPath)
		return fmt.Errorf("renaming duel progress file into place: %w", err)
	}
	return nil
}

// path hex-encodes the installation id so arbitrary ids map to safe file names.
func (s *Store) path(installationID string) string {
	return filepath.Join(s.dir, hex.EncodeToString([]byte(installationID))+fileExtension)
}
