package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/carenest/marketplace/internal/config"
	"github.com/carenest/marketplace/internal/domain"
	"github.com/carenest/marketplace/internal/events"
	"github.com/carenest/marketplace/internal/repository"
	apperrors "github.com/carenest/marketplace/pkg/util"
)

// PhoneSessionService issues and redeems one-time codes bound to a phone.
type PhoneSessionService struct {
	sessions   repository.PhoneSessionRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	otpLength  int
	ttl        time.Duration
}

// PhoneSessionDependencies bundles collaborators for the phone session service.
type PhoneSessionDependencies struct {
	SessionRepo repository.PhoneSessionRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewPhoneSessionService constructs the service.
func NewPhoneSessionService(cfg config.AuthConfig, deps PhoneSessionDependencies) *PhoneSessionService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PhoneSessionService{
		sessions:   deps.SessionRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		otpLength:  cfg.OTPLength,
		ttl:        cfg.OTPTTL(),
	}
}

// NormalizePhone trims the parts and drops a leading plus from the country code.
func NormalizePhone(code, number string) domain.Phone {
	return domain.Phone{
		Code:   strings.TrimPrefix(strings.TrimSpace(code), "+"),
		Number: strings.TrimSpace(number),
	}
}

// Issue creates a fresh code for the phone, replacing any pending one.
func (s *PhoneSessionService) Issue(ctx context.Context, code, number string) (*domain.PhoneSession, error) {
	phone := NormalizePhone(code, number)
	if err := validatePhone(phone); err != nil {
		return nil, err
	}

	otp, err := randomNumericString(s.otpLength)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	session := &domain.PhoneSession{Phone: phone, OTP: otp}
	if err := s.sessions.Upsert(ctx, session, s.ttl); err != nil {
		return nil, err
	}

	s.logger.Info("phone session issued", zap.String("phone", phone.E164()))
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:      events.EventPhoneSessionIssued,
		SubjectID: phone.E164(),
		Payload: events.PhoneSessionIssuedPayload{
			Phone:     phone,
			OTP:       otp,
			ExpiresAt: session.ExpiresAt,
		},
	})
	return session, nil
}

// Redeem consumes the session when otp matches. A missing, expired or
// mismatched session is reported as the same not-found error.
func (s *PhoneSessionService) Redeem(ctx context.Context, code, number, otp string) (*domain.PhoneSession, error) {
	phone := NormalizePhone(code, number)
	if err := validatePhone(phone); err != nil {
		return nil, err
	}
	otp = strings.TrimSpace(otp)
	if otp == "" {
		return nil, apperrors.NewValidationError("otp is required", nil)
	}

	session, err := s.sessions.Redeem(ctx, phone, otp)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFoundMessage(fmt.Sprintf("OTP is invalid for %s", phone.E164()))
		}
		return nil, err
	}
	return session, nil
}

func validatePhone(phone domain.Phone) error {
	missing := map[string]any{}
	if phone.Code == "" {
		missing["code"] = "required"
	}
	if phone.Number == "" {
		missing["number"] = "required"
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("code and number are required", missing)
	}
	return nil
}

func randomNumericString(length int) (string, error) {
	if length <= 0 {
		length = 4
	}
	ten := big.NewInt(10)
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("generate otp: %w", err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
