package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/otplabs/otp-gateway/internal/config"
	"github.com/otplabs/otp-gateway/internal/metrics"
	"github.com/otplabs/otp-gateway/internal/ratelimit"
)

type fakeSender struct {
	sid   string
	err   error
	calls int
	to    string
	body  string
}

func (f *fakeSender) Name() string { return "fake" }

func (f *fakeSender) Send(_ context.Context, to, body string) (string, error) {
	f.calls++
	f.to = to
	f.body = body
	if f.err != nil {
		return "", f.err
	}
	return f.sid, nil
}

func devConfig() config.Config {
	return config.Config{FixedOTP: "123456", RateLimit: 3, RateWindow: time.Minute}
}

func liveConfig() config.Config {
	cfg := devConfig()
	cfg.TwilioSID = "AC123"
	cfg.TwilioToken = "token"
	cfg.TwilioNumber = "+15005550006"
	return cfg
}

func newService(cfg config.Config, sender *fakeSender) *Service {
	return New(cfg, ratelimit.New(cfg.RateLimit, cfg.RateWindow), sender, nil, metrics.New())
}

func TestSendOTPSimulatedWhenProviderUnconfigured(t *testing.T) {
	sender := &fakeSender{sid: "SM1"}
	svc := newService(devConfig(), sender)

	result, err := svc.SendOTP(context.Background(), "203.0.113.7", "+91 123-456-7890")
	if err != nil {
		t.Fatalf("SendOTP returned error: %v", err)
	}
	if !result.Simulated {
		t.Error("result should be marked simulated")
	}
	want := "(DEV) Would send to +911234567890: Your verification code is: 123456"
	if result.Message != want {
		t.Errorf("message = %q, want %q", result.Message, want)
	}
	if sender.calls != 0 {
		t.Errorf("sender called %d times in simulated mode, want 0", sender.calls)
	}
}

func TestSendOTPDelivers(t *testing.T) {
	sender := &fakeSender{sid: "SM0123456789"}
	svc := newService(liveConfig(), sender)

	result, err := svc.SendOTP(context.Background(), "203.0.113.7", "+911234567890")
	if err != nil {
		t.Fatalf("SendOTP returned error: %v", err)
	}
	if result.SID != "SM0123456789" {
		t.Errorf("sid = %q", result.SID)
	}
	if result.Message != "OTP sent to +911234567890. SID: SM0123456789" {
		t.Errorf("message = %q", result.Message)
	}
	if sender.to != "+911234567890" {
		t.Errorf("sender received to = %q", sender.to)
	}
	if sender.body != "Your verification code is: 123456" {
		t.Errorf("sender received body = %q", sender.body)
	}
}

func TestSendOTPRejectsMissingAndInvalidNumbers(t *testing.T) {
	sender := &fakeSender{}
	svc := newService(liveConfig(), sender)
	ctx := context.Background()

	if _, err := svc.SendOTP(ctx, "key", ""); !errors.Is(err, ErrPhoneRequired) {
		t.Errorf("empty phone: err = %v, want ErrPhoneRequired", err)
	}
	if _, err := svc.SendOTP(ctx, "key", "   "); !errors.Is(err, ErrPhoneRequired) {
		t.Errorf("whitespace phone: err = %v, want ErrPhoneRequired", err)
	}
	if _, err := svc.SendOTP(ctx, "key", "1234567"); !errors.Is(err, ErrInvalidPhone) {
		t.Errorf("7 digits: err = %v, want ErrInvalidPhone", err)
	}
	if _, err := svc.SendOTP(ctx, "key", "1234567890123456"); !errors.Is(err, ErrInvalidPhone) {
		t.Errorf("16 digits: err = %v, want ErrInvalidPhone", err)
	}

	if sender.calls != 0 {
		t.Errorf("sender called %d times for rejected input, want 0", sender.calls)
	}
	if svc.OverLimit(ctx, "key") {
		t.Error("rejected input must not consume quota")
	}
}

func TestSendOTPConsumesQuotaEvenWhenDeliveryFails(t *testing.T) {
	sender := &fakeSender{err: errors.New("twilio status 500: upstream boom")}
	cfg := liveConfig()
	cfg.RateLimit = 1
	svc := newService(cfg, sender)
	ctx := context.Background()

	_, err := svc.SendOTP(ctx, "203.0.113.7", "+911234567890")
	if err == nil {
		t.Fatal("expected delivery error")
	}
	if !strings.Contains(err.Error(), "upstream boom") {
		t.Errorf("error should wrap the provider failure, got %v", err)
	}

	if !svc.OverLimit(ctx, "203.0.113.7") {
		t.Error("quota should be consumed even when delivery fails")
	}
}
