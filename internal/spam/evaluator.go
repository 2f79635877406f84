package spam

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Reserved control-field keys set by the embeddable client script. These
// names are a wire contract with the embed script and must not change.
const (
	HoneypotField  = "__honeypot"
	TimestampField = "__timestamp"
)

// Signal names
const (
	SignalHoneypotFilled    = "honeypot_filled"
	SignalTooFast           = "too_fast"
	SignalRateLimitExceeded = "rate_limit_exceeded"
	SignalMultipleURLs      = "multiple_urls"
)

const (
	scoreHoneypotFilled    = 100
	scoreTooFast           = 80
	scoreRateLimitExceeded = 90
	scoreMultipleURLs      = 60

	spamScoreThreshold = 70
	minFillTime        = 2 * time.Second
	maxURLsPerField    = 2
)

// Signal is a single scored spam indicator
type Signal struct {
	Name  string
	Score int
}

// Result is the outcome of evaluating one submission
type Result struct {
	IsSpam  bool
	Reason  string
	Signals []Signal
}

// Evaluator classifies submission payloads using an ordered checklist of
// checks. Decisive checks (honeypot, timing, rate) return immediately;
// accumulative checks contribute scores that are summed against a
// threshold.
type Evaluator struct {
	history *History
	now     func() time.Time
}

// NewEvaluator creates an evaluator backed by the given origin history
func NewEvaluator(history *History) *Evaluator {
	return &Evaluator{
		history: history,
		now:     time.Now,
	}
}

// Evaluate classifies a raw submission payload. It records the submission
// in the per-origin rate history as a side effect: accepted calls append
// exactly one timestamp, rate-blocked calls append none.
func (e *Evaluator) Evaluate(payload map[string]interface{}, originAddress string) Result {
	now := e.now()

	// Honeypot check: the field is invisible to humans, so any value
	// means a bot filled it.
	if filled(payload[HoneypotField]) {
		return Result{
			IsSpam:  true,
			Reason:  "Honeypot field was filled",
			Signals: []Signal{{Name: SignalHoneypotFilled, Score: scoreHoneypotFilled}},
		}
	}

	// Timing check: skipped when the client timestamp is absent or
	// unparseable.
	if startedAt, ok := clientTimestamp(payload[TimestampField]); ok {
		if now.Sub(startedAt) < minFillTime {
			return Result{
				IsSpam:  true,
				Reason:  "Form submitted too quickly",
				Signals: []Signal{{Name: SignalTooFast, Score: scoreTooFast}},
			}
		}
	}

	// Rate check: blocked submissions are not added to the history.
	if !e.history.Record(originAddress, now) {
		return Result{
			IsSpam:  true,
			Reason:  "Too many submissions from this IP",
			Signals: []Signal{{Name: SignalRateLimitExceeded, Score: scoreRateLimitExceeded}},
		}
	}

	var signals []Signal

	// Suspicious-content check, per field.
	for _, value := range payload {
		if s, ok := value.(string); ok && urlCount(s) > maxURLsPerField {
			signals = append(signals, Signal{Name: SignalMultipleURLs, Score: scoreMultipleURLs})
			break
		}
	}

	total := 0
	for _, signal := range signals {
		total += signal.Score
	}

	if total >= spamScoreThreshold {
		return Result{
			IsSpam:  true,
			Reason:  "Spam score threshold exceeded",
			Signals: signals,
		}
	}

	return Result{Signals: signals}
}

// StripControlFields returns a copy of the payload without the reserved
// control-field keys. The stored payload must never contain them,
// whatever the spam outcome.
func StripControlFields(payload map[string]interface{}) map[string]interface{} {
	cleaned := make(map[string]interface{}, len(payload))
	for key, value := range payload {
		if key == HoneypotField || key == TimestampField {
			continue
		}
		cleaned[key] = value
	}
	return cleaned
}

// filled reports whether a honeypot value counts as filled in. Empty
// strings, zero numbers, false and null all count as blank, matching what
// the embed script sends for untouched fields.
func filled(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case float64:
		return v != 0
	case int:
		return v != 0
	case json.Number:
		f, err := v.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}

// clientTimestamp parses the client-supplied submission-start timestamp,
// sent as epoch milliseconds. JSON numbers, numeric strings and
// json.Number are all accepted.
func clientTimestamp(value interface{}) (time.Time, bool) {
	var millis float64

	switch v := value.(type) {
	case float64:
		millis = v
	case int:
		millis = float64(v)
	case int64:
		millis = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return time.Time{}, false
		}
		millis = f
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return time.Time{}, false
		}
		millis = f
	default:
		return time.Time{}, false
	}

	if millis <= 0 {
		return time.Time{}, false
	}

	return time.UnixMilli(int64(millis)), true
}

// urlCount counts absolute URL occurrences in a field value
func urlCount(s string) int {
	return strings.Count(s, "http://") + strings.Count(s, "https://")
}
