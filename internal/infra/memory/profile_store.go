package memory

import (
	"context"
	"sync"

	"github.com/FarhanDH/devfest-politeknik-negeri-samarinda/internal/domain"
)

// ProfileStore is an in-memory app.ProfileProvider. Unknown users fall
// back to their user ID as the display name so projections never block on
// the profile service.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]domain.Profile
}

func NewProfileStore(profiles map[string]domain.Profile) *ProfileStore {
	if profiles == nil {
		profiles = make(map[string]domain.Profile)
	}
	return &ProfileStore{profiles: profiles}
}

func (s *ProfileStore) GetProfile(_ context.Context, userID string) (domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if profile, ok := s.profiles[userID]; ok {
		return profile, nil
	}
	return domain.Profile{UserID: userID, Username: userID}, nil
}

// Put registers or replaces a profile.
func (s *ProfileStore) Put(profile domain.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = profile
}
