package redis

import (
	"context"
	"time"

	"github.com/FarhanDH/devfest-politeknik-negeri-samarinda/internal/app"
	"github.com/FarhanDH/devfest-politeknik-negeri-samarinda/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RoomRegistry is a Redis-aware implementation of app.RoomRepository.
// Notes:
//   - It still keeps local in-memory aggregates to reuse the in-process
//     locking and broadcast logic.
//   - Redis reserves room codes with SETNX, which makes the creation retry
//     loop safe across instances, and marks room liveness with a TTL.
//   - For true distribution you'd pair this with a pub/sub projector that
//     fans out updates.
type RoomRegistry struct {
	client *redis.Client
	ttl    time.Duration
	inner  app.RoomRepository
}

func NewRoomRegistry(client *redis.Client, inner app.RoomRepository, ttl time.Duration) *RoomRegistry {
	return &RoomRegistry{
		client: client,
		ttl:    ttl,
		inner:  inner,
	}
}

func (r *RoomRegistry) Create(room *app.Room) error {
	ctx := context.Background()
	reserved, err := r.client.SetNX(ctx, r.codeKey(room.Code()), room.ID(), r.ttl).Result()
	if err == nil && !reserved {
		return domain.ErrCodeTaken
	}
	if err := r.inner.Create(room); err != nil {
		_ = r.client.Del(ctx, r.codeKey(room.Code())).Err()
		return err
	}
	// best-effort liveness marker
	_ = r.client.Set(ctx, r.liveKey(room.ID()), room.Code(), r.ttl).Err()
	return nil
}

func (r *RoomRegistry) Get(roomID string) (*app.Room, bool) {
	return r.inner.Get(roomID)
}

func (r *RoomRegistry) GetByCode(code string) (*app.Room, bool) {
	return r.inner.GetByCode(code)
}

func (r *RoomRegistry) Delete(roomID string) {
	room, ok := r.inner.Get(roomID)
	r.inner.Delete(roomID)
	if !ok {
		return
	}
	ctx := context.Background()
	_ = r.client.Del(ctx, r.codeKey(room.Code()), r.liveKey(roomID)).Err()
}

func (r *RoomRegistry) codeKey(code string) string {
	return "room:code:" + code
}

func (r *RoomRegistry) liveKey(roomID string) string {
	return "room:live:" + roomID
}
