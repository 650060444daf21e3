package verify

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/egov-mobile/qr-sign-service/app/internal/sign"
)

// edsProof is the payload a signing client embeds in its signed auth XML.
// The document may carry surrounding signature elements; only these three
// fields matter after the signature itself has been verified.
type edsProof struct {
	Login     string `xml:"login"`
	URL       string `xml:"url"`
	TimeStamp string `xml:"timeStamp"`
}

// timeStampLayouts are the accepted proof timestamp formats. Clients have
// historically sent both zoned and naive-local timestamps.
var timeStampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// EdsAuthenticator verifies signed-XML auth proofs.
//
// A proof is accepted only when all of the following hold: the XML
// signature is valid per the oracle, the embedded url equals the
// transaction's sign-process endpoint byte for byte, and the embedded
// timeStamp is within the freshness window. The login is extracted and
// returned for audit logging but not otherwise checked.
type EdsAuthenticator struct {
	oracle Oracle
	maxAge time.Duration
	now    func() time.Time
}

// NewEdsAuthenticator builds an authenticator. maxAge bounds how old (or
// how far in the future, to absorb clock skew) a proof timestamp may be.
func NewEdsAuthenticator(oracle Oracle, maxAge time.Duration) *EdsAuthenticator {
	return &EdsAuthenticator{
		oracle: oracle,
		maxAge: maxAge,
		now:    time.Now,
	}
}

// VerifyProof checks a signed auth XML against the expected endpoint URL.
// It returns the login embedded in the proof on success.
func (a *EdsAuthenticator) VerifyProof(ctx context.Context, signedXML, expectedURL string) (string, error) {
	if strings.TrimSpace(signedXML) == "" {
		return "", sign.NewAuthenticationError(sign.ReasonMissingAuthProof,
			"signed auth XML is missing")
	}

	valid, err := a.oracle.VerifyXML(ctx, signedXML)
	if err != nil {
		return "", sign.WrapAuthenticationError(err, sign.ReasonAuthRejected,
			"auth proof verification could not be completed")
	}
	if !valid {
		return "", sign.NewAuthenticationError(sign.ReasonAuthRejected,
			"auth proof signature is not valid")
	}

	var proof edsProof
	if err := xml.Unmarshal([]byte(signedXML), &proof); err != nil {
		return "", sign.WrapAuthenticationError(err, sign.ReasonAuthRejected,
			"auth proof XML is not parseable")
	}
	if proof.URL != expectedURL {
		return "", sign.NewAuthenticationError(sign.ReasonAuthRejected,
			"auth proof is bound to a different endpoint")
	}

	ts, err := parseTimeStamp(proof.TimeStamp)
	if err != nil {
		return "", sign.WrapAuthenticationError(err, sign.ReasonAuthRejected,
			"auth proof timestamp is not parseable")
	}
	age := a.now().Sub(ts)
	if age > a.maxAge || age < -a.maxAge {
		return "", sign.NewAuthenticationError(sign.ReasonAuthRejected,
			fmt.Sprintf("auth proof timestamp is outside the %s freshness window", a.maxAge))
	}

	return proof.Login, nil
}

func parseTimeStamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("timestamp is empty")
	}
	var lastErr error
	for _, layout := range timeStampLayouts {
		ts, err := time.Parse(layout, s)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
