package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carenest/marketplace/internal/domain"
)

// PhoneSessionRepository holds pending one-time codes keyed by phone.
type PhoneSessionRepository interface {
	// Upsert stores the session, replacing any live one for the same phone.
	Upsert(ctx context.Context, session *domain.PhoneSession, ttl time.Duration) error
	// Redeem deletes the session only if otp matches and returns it. Absent
	// or mismatched sessions yield redis.Nil.
	Redeem(ctx context.Context, phone domain.Phone, otp string) (*domain.PhoneSession, error)
}

// redeemScript compares and deletes in one step and returns the remaining
// PTTL of the consumed key.
var redeemScript = redis.NewScript(`
local stored = redis.call("GET", KEYS[1])
if stored == false or stored ~= ARGV[1] then
  return false
end
local ttl = redis.call("PTTL", KEYS[1])
redis.call("DEL", KEYS[1])
return ttl
`)

type phoneSessionRepository struct {
	client *redis.Client
}

// NewPhoneSessionRepository returns a Redis-backed implementation.
func NewPhoneSessionRepository(client *redis.Client) PhoneSessionRepository {
	return &phoneSessionRepository{client: client}
}

// PhoneSessionKey is the Redis key for a phone's pending session.
func PhoneSessionKey(phone domain.Phone) string {
	return "phone_session:" + phone.Code + ":" + phone.Number
}

func (r *phoneSessionRepository) Upsert(ctx context.Context, session *domain.PhoneSession, ttl time.Duration) error {
	if err := r.client.Set(ctx, PhoneSessionKey(session.Phone), session.OTP, ttl).Err(); err != nil {
		return err
	}
	if ttl > 0 {
		session.ExpiresAt = time.Now().Add(ttl)
	}
	return nil
}

func (r *phoneSessionRepository) Redeem(ctx context.Context, phone domain.Phone, otp string) (*domain.PhoneSession, error) {
	remaining, err := redeemScript.Run(ctx, r.client, []string{PhoneSessionKey(phone)}, otp).Int64()
	if err != nil {
		return nil, err
	}
	session := &domain.PhoneSession{Phone: phone, OTP: otp}
	if remaining > 0 {
		session.ExpiresAt = time.Now().Add(time.Duration(remaining) * time.Millisecond)
	}
	return session, nil
}
