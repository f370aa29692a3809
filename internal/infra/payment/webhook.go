package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	EventIntentSucceeded = "payment_intent.succeeded"
	EventIntentFailed    = "payment_intent.payment_failed"

	// signatureTolerance bounds how old a signed payload may be before
	// it is rejected as a replay.
	signatureTolerance = 5 * time.Minute
)

// Event is a verified payment-outcome delivery. Types this system does
// not model are still parsed and acknowledged upstream.
type Event struct {
	Type            string `json:"type"`
	PaymentIntentID string `json:"paymentIntentId"`
	ChargeID        string `json:"chargeId,omitempty"`
	FailureMessage  string `json:"failureMessage,omitempty"`
}

// VerifySignature checks the processor's `t=<unix>,v1=<hex>` signature
// header: an HMAC-SHA256 of "<t>.<payload>" under the shared webhook
// secret. It returns an error for malformed headers, stale timestamps
// and MAC mismatches alike.
func VerifySignature(payload []byte, header, secret string) error {
	var ts int64
	var sig string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			parsed, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return errors.New("malformed signature timestamp")
			}
			ts = parsed
		case "v1":
			sig = v
		}
	}
	if ts == 0 || sig == "" {
		return errors.New("malformed signature header")
	}

	if age := time.Since(time.Unix(ts, 0)); age > signatureTolerance || age < -signatureTolerance {
		return errors.New("signature timestamp outside tolerance")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return errors.New("signature mismatch")
	}
	return nil
}

// Sign produces a signature header for payload, the counterpart of
// VerifySignature. Used by tests and local tooling standing in for the
// processor.
func Sign(payload []byte, secret string, at time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", at.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func ParseEvent(payload []byte) (*Event, error) {
	var evt Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		return nil, fmt.Errorf("malformed event payload: %w", err)
	}
	return &evt, nil
}
