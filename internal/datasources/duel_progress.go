package datasources

import (
	"context"
	"sync"

	"github.com/swipefeed/swipefeed/internal/domain"
)

// DuelProgressStore persists the duel gate record per installation.
type DuelProgressStore interface {
	DuelProgressLoader
	DuelProgressSaver
}

// DuelProgressLoader loads the record for an installation. An installation that never voted
// yields a zero record and no error.
type DuelProgressLoader interface {
	LoadDuelProgress(ctx context.Context, installationID string) (domain.DuelProgress, error)
}

type DuelProgressSaver interface {
	SaveDuelProgress(ctx context.Context, installationID string, progress domain.DuelProgress) error
}

// MemoryDuelProgressStore keeps duel progress in process memory. Progress is lost on restart.
type MemoryDuelProgressStore struct {
	mu       sync.Mutex
	progress map[string]domain.DuelProgress
}

var _ DuelProgressStore = (*MemoryDuelProgressStore)(nil)

func NewMemoryDuelProgressStore() *MemoryDuelProgressStore {
	return &MemoryDuelProgressStore{
		progress: make(map[string]domain.DuelProgress),
	}
}

func (s *MemoryDuelProgressStore) LoadDuelProgress(
	_ context.Context, installationID string,
) (domain.DuelProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.progress[installationID], nil
}

func (s *MemoryDuelProgressStore) SaveDuelProgress(
	_ context.Context, installationID string, progress domain.DuelProgress,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.progress[installationID] = progress
	return nil
}
