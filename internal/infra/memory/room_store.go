package memory

import (
	"sync"

	"github.com/FarhanDH/devfest-politeknik-negeri-samarinda/internal/app"
	"github.com/FarhanDH/devfest-politeknik-negeri-samarinda/internal/domain"
)

// RoomStore is an in-memory implementation of app.RoomRepository. Rooms
// are indexed by ID and by code; the code index doubles as the uniqueness
// constraint the creation retry loop relies on.
type RoomStore struct {
	mu     sync.RWMutex
	byID   map[string]*app.Room
	byCode map[string]*app.Room
}

func NewRoomStore() *RoomStore {
	return &RoomStore{
		byID:   make(map[string]*app.Room),
		byCode: make(map[string]*app.Room),
	}
}

func (s *RoomStore) Create(room *app.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byCode[room.Code()]; ok {
		return domain.ErrCodeTaken
	}
	s.byID[room.ID()] = room
	s.byCode[room.Code()] = room
	return nil
}

func (s *RoomStore) Get(roomID string) (*app.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.byID[roomID]
	return room, ok
}

func (s *RoomStore) GetByCode(code string) (*app.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.byCode[code]
	return room, ok
}

func (s *RoomStore) Delete(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.byID[roomID]
	if !ok {
		return
	}
	delete(s.byID, roomID)
	delete(s.byCode, room.Code())
}
