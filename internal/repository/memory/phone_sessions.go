package memory

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carenest/marketplace/internal/domain"
	"github.com/carenest/marketplace/internal/repository"
)

type phoneSessionEntry struct {
	otp       string
	expiresAt time.Time
}

type phoneSessionRepository struct {
	s *Store
}

func (r *phoneSessionRepository) Upsert(_ context.Context, session *domain.PhoneSession, ttl time.Duration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	entry := phoneSessionEntry{otp: session.OTP}
	if ttl > 0 {
		entry.expiresAt = r.s.now().Add(ttl)
	}
	session.ExpiresAt = entry.expiresAt
	r.s.sessions[repository.PhoneSessionKey(session.Phone)] = entry
	return nil
}

func (r *phoneSessionRepository) Redeem(_ context.Context, phone domain.Phone, otp string) (*domain.PhoneSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := repository.PhoneSessionKey(phone)
	entry, ok := r.s.sessions[key]
	if !ok {
		return nil, redis.Nil
	}
	if !entry.expiresAt.IsZero() && !r.s.now().Before(entry.expiresAt) {
		delete(r.s.sessions, key)
		return nil, redis.Nil
	}
	if entry.otp != otp {
		return nil, redis.Nil
	}
	delete(r.s.sessions, key)
	return &domain.PhoneSession{Phone: phone, OTP: otp, ExpiresAt: entry.expiresAt}, nil
}
