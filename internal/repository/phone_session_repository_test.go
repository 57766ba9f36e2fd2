package repository

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carenest/marketplace/internal/domain"
)

func newRedisSessions(t *testing.T) (*miniredis.Miniredis, PhoneSessionRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewPhoneSessionRepository(client)
}

func TestRedisPhoneSessionUpsertReplaces(t *testing.T) {
	ctx := context.Background()
	mr, sessions := newRedisSessions(t)
	phone := domain.Phone{Code: "234", Number: "8011112222"}

	require.NoError(t, sessions.Upsert(ctx, &domain.PhoneSession{Phone: phone, OTP: "1111"}, 5*time.Minute))
	require.NoError(t, sessions.Upsert(ctx, &domain.PhoneSession{Phone: phone, OTP: "2222"}, 5*time.Minute))

	stored, err := mr.Get(PhoneSessionKey(phone))
	require.NoError(t, err)
	assert.Equal(t, "2222", stored)

	_, err = sessions.Redeem(ctx, phone, "1111")
	assert.ErrorIs(t, err, redis.Nil)
	assert.True(t, mr.Exists(PhoneSessionKey(phone)))
}

func TestRedisPhoneSessionRedeemOnce(t *testing.T) {
	ctx := context.Background()
	mr, sessions := newRedisSessions(t)
	phone := domain.Phone{Code: "234", Number: "8011112222"}

	require.NoError(t, sessions.Upsert(ctx, &domain.PhoneSession{Phone: phone, OTP: "5678"}, 5*time.Minute))

	session, err := sessions.Redeem(ctx, phone, "5678")
	require.NoError(t, err)
	assert.Equal(t, phone, session.Phone)
	assert.False(t, session.ExpiresAt.IsZero())
	assert.False(t, mr.Exists(PhoneSessionKey(phone)))

	_, err = sessions.Redeem(ctx, phone, "5678")
	assert.ErrorIs(t, err, redis.Nil)
}

func TestRedisPhoneSessionConcurrentRedeem(t *testing.T) {
	ctx := context.Background()
	_, sessions := newRedisSessions(t)
	phone := domain.Phone{Code: "44", Number: "7700900000"}
	require.NoError(t, sessions.Upsert(ctx, &domain.PhoneSession{Phone: phone, OTP: "9999"}, time.Minute))

	var (
		wg        sync.WaitGroup
		successes int32
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := sessions.Redeem(ctx, phone, "9999"); err == nil {
				atomic.AddInt32(&successes, 1)
			} else if !errors.Is(err, redis.Nil) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), successes)
}

func TestRedisPhoneSessionExpires(t *testing.T) {
	ctx := context.Background()
	mr, sessions := newRedisSessions(t)
	phone := domain.Phone{Code: "1", Number: "5550100"}

	require.NoError(t, sessions.Upsert(ctx, &domain.PhoneSession{Phone: phone, OTP: "4321"}, time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := sessions.Redeem(ctx, phone, "4321")
	assert.ErrorIs(t, err, redis.Nil)
}
