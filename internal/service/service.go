package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/otplabs/otp-gateway/internal/config"
	"github.com/otplabs/otp-gateway/internal/domain"
	"github.com/otplabs/otp-gateway/internal/metrics"
	"github.com/otplabs/otp-gateway/internal/ratelimit"
	"github.com/otplabs/otp-gateway/internal/sms"
	"github.com/otplabs/otp-gateway/internal/stats"
)

var (
	ErrPhoneRequired = errors.New("phone number required")
	ErrInvalidPhone  = errors.New("invalid phone number format")
)

// Result is the client-facing outcome of an admitted send request.
type Result struct {
	Message   string
	SID       string
	Simulated bool
}

type Service struct {
	config   config.Config
	limiter  *ratelimit.Limiter
	sender   sms.Sender
	recorder stats.Recorder
	metrics  *metrics.Metrics
}

func New(config config.Config, limiter *ratelimit.Limiter, sender sms.Sender, recorder stats.Recorder, m *metrics.Metrics) *Service {
	return &Service{
		config:   config,
		limiter:  limiter,
		sender:   sender,
		recorder: recorder,
		metrics:  m,
	}
}

// OverLimit reports whether the client key has exhausted its quota. Called
// once per request, before the body is read.
func (service *Service) OverLimit(ctx context.Context, key string) bool {
	service.metrics.RecordRequest()

	over := service.limiter.OverLimit(key)
	if over {
		service.metrics.RecordRateLimited()
		if service.recorder != nil {
			service.recorder.Record(ctx, stats.Decision{Key: key, Allowed: false})
		}
	}
	return over
}

// SendOTP normalizes and validates the submitted number, consumes quota,
// and delivers the fixed passcode message. Quota is consumed regardless of
// the delivery outcome.
func (service *Service) SendOTP(ctx context.Context, key, rawPhone string) (Result, error) {
	phone := domain.NormalizePhone(rawPhone)
	if phone == "" {
		service.metrics.RecordInvalidPhone()
		return Result{}, ErrPhoneRequired
	}
	if !domain.ValidPhone(phone) {
		service.metrics.RecordInvalidPhone()
		return Result{}, ErrInvalidPhone
	}

	service.limiter.Record(key)
	service.metrics.SetTrackedKeys(service.limiter.Keys())
	if service.recorder != nil {
		service.recorder.Record(ctx, stats.Decision{Key: key, Allowed: true})
	}

	body := domain.OTPMessage(service.config.FixedOTP)

	if !service.config.ProviderConfigured() {
		service.metrics.RecordSimulated()
		return Result{
			Message:   fmt.Sprintf("(DEV) Would send to %s: %s", phone, body),
			Simulated: true,
		}, nil
	}

	start := time.Now()
	sid, err := service.sender.Send(ctx, phone, body)
	service.metrics.RecordSend(time.Since(start), err)
	if err != nil {
		return Result{}, fmt.Errorf("send via %s: %w", service.sender.Name(), err)
	}

	return Result{
		Message: fmt.Sprintf("OTP sent to %s. SID: %s", phone, sid),
		SID:     sid,
	}, nil
}
