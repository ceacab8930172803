package systems

import (
	"encoding/json"
	"fmt"

	"github.com/quasilyte/gdata"
	"go.uber.org/zap"
)

// Progress is where the player was last seen in the room graph.
type Progress struct {
	Room        string `json:"room"`
	Entrance    string `json:"entrance"`
	Transitions int    `json:"transitions"`
}

// ProgressStore saves and restores Progress. LoadProgress returns nil when
// nothing has been saved.
type ProgressStore interface {
	LoadProgress() (*Progress, error)
	SaveProgress(p *Progress) error
	ClearProgress() error
}

const progressKey = "progress"

// GDataStore keeps progress in the per-user data directory managed by gdata.
type GDataStore struct {
	manager *gdata.Manager
	logger  *zap.Logger
}

func OpenGDataStore(appName string, logger *zap.Logger) (*GDataStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("open save data for %s: %w", appName, err)
	}
	return &GDataStore{manager: m, logger: logger}, nil
}

func (s *GDataStore) LoadProgress() (*Progress, error) {
	data, err := s.manager.LoadItem(progressKey)
	if err != nil {
		s.logger.Warn("could not load progress", zap.Error(err))
		return nil, nil
	}
	if len(data) == 0 {
		return nil, nil
	}

	var progress Progress
	if err := json.Unmarshal(data, &progress); err != nil {
		return nil, fmt.Errorf("parse saved progress: %w", err)
	}
	return &progress, nil
}

func (s *GDataStore) SaveProgress(p *Progress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("serialize progress: %w", err)
	}
	if err := s.manager.SaveItem(progressKey, data); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// ClearProgress stores an empty item, which LoadProgress reads as no save.
func (s *GDataStore) ClearProgress() error {
	if err := s.manager.SaveItem(progressKey, nil); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	return nil
}

// MemoryStore keeps progress for the lifetime of the process.
type MemoryStore struct {
	saved *Progress
	Saves int
}

func (s *MemoryStore) LoadProgress() (*Progress, error) {
	if s.saved == nil {
		return nil, nil
	}
	p := *s.saved
	return &p, nil
}

func (s *MemoryStore) SaveProgress(p *Progress) error {
	saved := *p
	s.saved = &saved
	s.Saves++
	return nil
}

func (s *MemoryStore) ClearProgress() error {
	s.saved = nil
	return nil
}
