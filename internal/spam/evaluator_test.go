package spam

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEvaluator(now time.Time) *Evaluator {
	e := NewEvaluator(NewHistory())
	e.now = func() time.Time { return now }
	return e
}

func epochMillis(t time.Time) float64 {
	return float64(t.UnixMilli())
}

func TestEvaluateHoneypotFilled(t *testing.T) {
	now := time.Now()
	e := newTestEvaluator(now)

	payload := map[string]interface{}{
		"name":         "Bob",
		"message":      "https://a.com https://b.com https://c.com",
		HoneypotField:  "gotcha",
		TimestampField: epochMillis(now.Add(-500 * time.Millisecond)),
	}

	result := e.Evaluate(payload, "1.2.3.4")

	assert.True(t, result.IsSpam)
	assert.Equal(t, "Honeypot field was filled", result.Reason)
	require.Len(t, result.Signals, 1)
	assert.Equal(t, SignalHoneypotFilled, result.Signals[0].Name)
	assert.Equal(t, 100, result.Signals[0].Score)

	// Decisive checks short-circuit before the rate check, so nothing
	// was recorded for the origin.
	assert.Equal(t, 0, e.history.Count("1.2.3.4", now))
}

func TestEvaluateHoneypotBlankValues(t *testing.T) {
	now := time.Now()

	for _, value := range []interface{}{"", nil, false, float64(0)} {
		e := newTestEvaluator(now)
		payload := map[string]interface{}{
			"name":        "Bob",
			HoneypotField: value,
		}

		result := e.Evaluate(payload, "1.2.3.4")
		assert.False(t, result.IsSpam, "value %v should not trip the honeypot", value)
	}
}

func TestEvaluateTooFast(t *testing.T) {
	now := time.Now()
	e := newTestEvaluator(now)

	payload := map[string]interface{}{
		"name":         "Bob",
		TimestampField: epochMillis(now.Add(-1 * time.Second)),
	}

	result := e.Evaluate(payload, "1.2.3.4")

	assert.True(t, result.IsSpam)
	assert.Equal(t, "Form submitted too quickly", result.Reason)
	require.Len(t, result.Signals, 1)
	assert.Equal(t, SignalTooFast, result.Signals[0].Name)
	assert.Equal(t, 80, result.Signals[0].Score)
}

func TestEvaluateSlowEnough(t *testing.T) {
	now := time.Now()
	e := newTestEvaluator(now)

	payload := map[string]interface{}{
		"name":         "Bob",
		TimestampField: epochMillis(now.Add(-5 * time.Second)),
	}

	result := e.Evaluate(payload, "1.2.3.4")
	assert.False(t, result.IsSpam)
	assert.Empty(t, result.Reason)
	assert.Empty(t, result.Signals)
}

func TestEvaluateTimestampVariants(t *testing.T) {
	now := time.Now()
	fast := now.Add(-500 * time.Millisecond).UnixMilli()

	// Numeric strings are accepted too; garbage skips the check.
	cases := []struct {
		value  interface{}
		isSpam bool
	}{
		{float64(fast), true},
		{fast, true},
		{"not-a-number", false},
		{nil, false},
		{true, false},
	}

	for _, tc := range cases {
		e := newTestEvaluator(now)
		payload := map[string]interface{}{TimestampField: tc.value}
		result := e.Evaluate(payload, "1.2.3.4")
		assert.Equal(t, tc.isSpam, result.IsSpam, "timestamp value %v", tc.value)
	}
}

func TestEvaluateRateLimit(t *testing.T) {
	now := time.Now()
	e := newTestEvaluator(now)
	payload := map[string]interface{}{"name": "Bob"}

	for i := 0; i < 3; i++ {
		result := e.Evaluate(payload, "9.9.9.9")
		assert.False(t, result.IsSpam, "submission %d should be accepted", i+1)
	}

	result := e.Evaluate(payload, "9.9.9.9")
	assert.True(t, result.IsSpam)
	assert.Equal(t, "Too many submissions from this IP", result.Reason)
	require.Len(t, result.Signals, 1)
	assert.Equal(t, SignalRateLimitExceeded, result.Signals[0].Name)
	assert.Equal(t, 90, result.Signals[0].Score)

	// Blocked submissions are not recorded.
	assert.Equal(t, 3, e.history.Count("9.9.9.9", now))

	// Other origins are unaffected.
	other := e.Evaluate(payload, "8.8.8.8")
	assert.False(t, other.IsSpam)
}

func TestEvaluateRateWindowExpiry(t *testing.T) {
	history := NewHistory()
	e := NewEvaluator(history)

	base := time.Now()
	current := base
	e.now = func() time.Time { return current }

	payload := map[string]interface{}{"name": "Bob"}

	for i := 0; i < 3; i++ {
		result := e.Evaluate(payload, "9.9.9.9")
		assert.False(t, result.IsSpam)
	}

	// Inside the window the 4th is blocked.
	current = base.Add(4 * time.Minute)
	assert.True(t, e.Evaluate(payload, "9.9.9.9").IsSpam)

	// Once the earlier entries age out, submissions are accepted again.
	current = base.Add(6 * time.Minute)
	assert.False(t, e.Evaluate(payload, "9.9.9.9").IsSpam)
}

func TestEvaluateMultipleURLsAlone(t *testing.T) {
	now := time.Now()
	e := newTestEvaluator(now)

	payload := map[string]interface{}{
		"message": "see http://a.com and https://b.com and http://c.com",
	}

	result := e.Evaluate(payload, "1.2.3.4")

	// 60 is below the threshold, so URLs alone do not classify as spam.
	assert.False(t, result.IsSpam)
	require.Len(t, result.Signals, 1)
	assert.Equal(t, SignalMultipleURLs, result.Signals[0].Name)
	assert.Equal(t, 60, result.Signals[0].Score)
}

func TestEvaluateTwoURLsNoSignal(t *testing.T) {
	now := time.Now()
	e := newTestEvaluator(now)

	payload := map[string]interface{}{
		"message": "see http://a.com and https://b.com",
	}

	result := e.Evaluate(payload, "1.2.3.4")
	assert.False(t, result.IsSpam)
	assert.Empty(t, result.Signals)
}

func TestEvaluateURLCountIsPerField(t *testing.T) {
	now := time.Now()
	e := newTestEvaluator(now)

	// Two URLs in each of two fields: four in total, but no single field
	// crosses the per-field threshold.
	payload := map[string]interface{}{
		"a": "http://a.com http://b.com",
		"b": "https://c.com https://d.com",
	}

	result := e.Evaluate(payload, "1.2.3.4")
	assert.False(t, result.IsSpam)
	assert.Empty(t, result.Signals)
}

func TestEvaluateIdenticalInputsIdenticalSignals(t *testing.T) {
	now := time.Now()
	e := newTestEvaluator(now)

	payload := map[string]interface{}{
		"message": "http://a.com http://b.com http://c.com",
	}

	first := e.Evaluate(payload, "5.5.5.5")
	second := e.Evaluate(payload, "5.5.5.5")

	assert.Equal(t, first.Signals, second.Signals)
	assert.Equal(t, first.IsSpam, second.IsSpam)

	// Each accepted call appends exactly one timestamp.
	assert.Equal(t, 2, e.history.Count("5.5.5.5", now))
}

func TestStripControlFields(t *testing.T) {
	payload := map[string]interface{}{
		"name":         "Bob",
		"email":        "bob@example.com",
		HoneypotField:  "",
		TimestampField: float64(1700000000000),
	}

	cleaned := StripControlFields(payload)

	assert.Equal(t, map[string]interface{}{
		"name":  "Bob",
		"email": "bob@example.com",
	}, cleaned)

	// The original payload is left intact for the evaluator.
	assert.Contains(t, payload, HoneypotField)
	assert.Contains(t, payload, TimestampField)
}
