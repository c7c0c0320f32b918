package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/irezaei/memberhub/internal/common"
	"github.com/irezaei/memberhub/internal/logging"
	"github.com/irezaei/memberhub/internal/server/auth"
	"github.com/irezaei/memberhub/internal/server/config"
	"github.com/irezaei/memberhub/internal/server/models"
	"github.com/irezaei/memberhub/internal/server/repositories/members"
	"github.com/irezaei/memberhub/internal/server/repositories/otpcodes"
)

// CodeLength is the number of digits in a one-time code.
const CodeLength = 6

// CodeSender delivers a one-time code to a phone number. The production
// deployment plugs an SMS gateway in here.
type CodeSender interface {
	Send(ctx context.Context, phone, code string) error
}

// LogSender writes codes to the server log instead of sending them. Useful
// for development; never enable it where logs are broadly readable.
type LogSender struct {
	logger logging.Logger
}

func NewLogSender(l logging.Logger) *LogSender {
	return &LogSender{logger: l.With("module", "otp_sender")}
}

func (s *LogSender) Send(ctx context.Context, phone, code string) error {
	s.logger.Info(ctx, "one-time code issued", "phone", phone, "code", code)
	return nil
}

// OTPService implements the one-time-code login flow: a code is generated,
// stored in an expiring key-value store, and delivered out of band; a
// successful verification mints a short-lived session token.
type OTPService struct {
	codes         otpcodes.Repository
	members       members.Repository
	sender        CodeSender
	jwtSecret     []byte
	codeTTL       time.Duration
	tokenValidity time.Duration
}

func NewOTPService(codes otpcodes.Repository, repo members.Repository, sender CodeSender, cfg *config.Config) *OTPService {
	return &OTPService{
		codes:         codes,
		members:       repo,
		sender:        sender,
		jwtSecret:     []byte(cfg.SecretKey),
		codeTTL:       cfg.OTPCodeTTL,
		tokenValidity: cfg.OTPTokenValidity,
	}
}

// SendCode generates a fresh code for phone, stores it with the configured
// TTL, and hands it to the sender. A new code replaces any outstanding one.
func (s *OTPService) SendCode(ctx context.Context, phone string) error {
	if phone == "" {
		return fmt.Errorf("%w: phone number is required", common.ErrValidation)
	}

	code, err := common.MakeRandDigits(CodeLength)
	if err != nil {
		return fmt.Errorf("%w: generating code: %v", common.ErrInternal, err)
	}

	if err := s.codes.Save(ctx, phone, code, s.codeTTL); err != nil {
		return fmt.Errorf("%w: storing code: %v", common.ErrInternal, err)
	}

	if err := s.sender.Send(ctx, phone, code); err != nil {
		return fmt.Errorf("%w: delivering code: %v", common.ErrInternal, err)
	}

	return nil
}

// VerifyCode consumes the stored code for phone and, when it matches,
// authenticates the owning member with a short-lived token. A code can
// only be checked once; absent, expired, and mismatched codes all yield
// common.ErrCodeMismatch.
func (s *OTPService) VerifyCode(ctx context.Context, phone, code string) (*models.Member, string, error) {
	if phone == "" || code == "" {
		return nil, "", fmt.Errorf("%w: phone number and code are required", common.ErrValidation)
	}

	stored, err := s.codes.Consume(ctx, phone)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", common.ErrCodeMismatch
		}
		return nil, "", fmt.Errorf("%w: consuming code: %v", common.ErrInternal, err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return nil, "", common.ErrCodeMismatch
	}

	member, err := s.members.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", common.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("%w: looking up member: %v", common.ErrInternal, err)
	}

	if !member.IsActive {
		return nil, "", common.ErrAccountDisabled
	}

	token, err := auth.GenerateToken(member.ID, member.Role, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, "", fmt.Errorf("%w: signing token: %v", common.ErrInternal, err)
	}

	return member, token, nil
}
