package verify

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/egov-mobile/qr-sign-service/app/internal/sign"
)

const edsEndpoint = "https://sign.example.kz/api/v1/sign-process/abc-123"

func proofXML(login, url, timeStamp string) string {
	return fmt.Sprintf(
		"<authRequest><login>%s</login><url>%s</url><timeStamp>%s</timeStamp><ds:Signature xmlns:ds=\"http://www.w3.org/2000/09/xmldsig#\"/></authRequest>",
		login, url, timeStamp)
}

func newTestAuthenticator(oracle Oracle, now time.Time) *EdsAuthenticator {
	a := NewEdsAuthenticator(oracle, 5*time.Minute)
	a.now = func() time.Time { return now }
	return a
}

func TestEdsAuthenticator_VerifyProof(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	freshTS := now.Add(-time.Minute).Format(time.RFC3339)

	acceptAll := func() *fakeOracle {
		return &fakeOracle{verdicts: map[string]bool{
			proofXML("IIN123456789012", edsEndpoint, freshTS): true,
		}}
	}

	t.Run("valid proof returns login", func(t *testing.T) {
		a := newTestAuthenticator(acceptAll(), now)
		login, err := a.VerifyProof(context.Background(), proofXML("IIN123456789012", edsEndpoint, freshTS), edsEndpoint)
		if err != nil {
			t.Fatalf("VerifyProof() error = %v", err)
		}
		if login != "IIN123456789012" {
			t.Errorf("login = %q, want IIN123456789012", login)
		}
	})

	t.Run("blank proof is missing", func(t *testing.T) {
		a := newTestAuthenticator(&fakeOracle{}, now)
		_, err := a.VerifyProof(context.Background(), "   ", edsEndpoint)
		assertAuthReason(t, err, sign.ReasonMissingAuthProof)
	})

	t.Run("oracle says invalid", func(t *testing.T) {
		oracle := &fakeOracle{verdicts: map[string]bool{}}
		a := newTestAuthenticator(oracle, now)
		_, err := a.VerifyProof(context.Background(), proofXML("x", edsEndpoint, freshTS), edsEndpoint)
		assertAuthReason(t, err, sign.ReasonAuthRejected)
	})

	t.Run("url mismatch rejected despite valid signature", func(t *testing.T) {
		wrong := proofXML("x", "https://attacker.example/steal", freshTS)
		oracle := &fakeOracle{verdicts: map[string]bool{wrong: true}}
		a := newTestAuthenticator(oracle, now)
		_, err := a.VerifyProof(context.Background(), wrong, edsEndpoint)
		assertAuthReason(t, err, sign.ReasonAuthRejected)
	})

	t.Run("trailing difference in url rejected", func(t *testing.T) {
		wrong := proofXML("x", edsEndpoint+"/", freshTS)
		oracle := &fakeOracle{verdicts: map[string]bool{wrong: true}}
		a := newTestAuthenticator(oracle, now)
		if _, err := a.VerifyProof(context.Background(), wrong, edsEndpoint); err == nil {
			t.Error("VerifyProof() accepted a url differing by a trailing slash")
		}
	})

	t.Run("stale timestamp rejected", func(t *testing.T) {
		stale := proofXML("x", edsEndpoint, now.Add(-6*time.Minute).Format(time.RFC3339))
		oracle := &fakeOracle{verdicts: map[string]bool{stale: true}}
		a := newTestAuthenticator(oracle, now)
		_, err := a.VerifyProof(context.Background(), stale, edsEndpoint)
		assertAuthReason(t, err, sign.ReasonAuthRejected)
	})

	t.Run("future timestamp beyond skew rejected", func(t *testing.T) {
		future := proofXML("x", edsEndpoint, now.Add(10*time.Minute).Format(time.RFC3339))
		oracle := &fakeOracle{verdicts: map[string]bool{future: true}}
		a := newTestAuthenticator(oracle, now)
		if _, err := a.VerifyProof(context.Background(), future, edsEndpoint); err == nil {
			t.Error("VerifyProof() accepted a far-future timestamp")
		}
	})

	t.Run("naive local timestamp layout accepted", func(t *testing.T) {
		naive := proofXML("x", edsEndpoint, now.Add(-time.Minute).Format("2006-01-02T15:04:05"))
		oracle := &fakeOracle{verdicts: map[string]bool{naive: true}}
		a := newTestAuthenticator(oracle, now)
		if _, err := a.VerifyProof(context.Background(), naive, edsEndpoint); err != nil {
			t.Errorf("VerifyProof() error = %v, want naive layout accepted", err)
		}
	})

	t.Run("unparseable xml rejected", func(t *testing.T) {
		garbage := "<authRequest><login>unterminated"
		oracle := &fakeOracle{verdicts: map[string]bool{garbage: true}}
		a := newTestAuthenticator(oracle, now)
		_, err := a.VerifyProof(context.Background(), garbage, edsEndpoint)
		assertAuthReason(t, err, sign.ReasonAuthRejected)
	})

	t.Run("oracle outage wraps the cause", func(t *testing.T) {
		cause := errors.New("dial tcp: connection refused")
		a := newTestAuthenticator(&fakeOracle{err: cause}, now)
		_, err := a.VerifyProof(context.Background(), proofXML("x", edsEndpoint, freshTS), edsEndpoint)
		if !errors.Is(err, cause) {
			t.Errorf("error chain should retain the cause, got %v", err)
		}
	})
}

func assertAuthReason(t *testing.T, err error, want sign.Reason) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	var signErr *sign.Error
	if !errors.As(err, &signErr) {
		t.Fatalf("error type = %T, want *sign.Error", err)
	}
	if signErr.Code() != sign.ErrCodeAuthentication {
		t.Errorf("code = %v, want %v", signErr.Code(), sign.ErrCodeAuthentication)
	}
	if signErr.Reason() != want {
		t.Errorf("reason = %v, want %v", signErr.Reason(), want)
	}
}
