package coursehub

import (
	"context"
	"sync"
	"time"
)

// SettingsStore holds the single site settings record.
type SettingsStore struct {
	mu       sync.RWMutex
	settings Settings
	latency  Latency
	now      func() time.Time
}

func NewSettingsStore(seed Settings, latency Latency) *SettingsStore {
	return &SettingsStore{settings: seed, latency: latency, now: time.Now}
}

// Get returns a copy of the settings.
func (s *SettingsStore) Get(ctx context.Context) Settings {
	wait(ctx, s.latency.Read)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Update merges patch into the settings and stamps UpdatedAt.
func (s *SettingsStore) Update(ctx context.Context, patch SettingsPatch) Settings {
	wait(ctx, s.latency.Write)
	s.mu.Lock()
	defer s.mu.Unlock()
	patch.apply(&s.settings)
	s.settings.UpdatedAt = stamp(s.now, s.settings.UpdatedAt)
	return s.settings
}
