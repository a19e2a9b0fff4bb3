package rest

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidemark-io/atlassian/pkg/atlassian"
)

func testPolicy() retryPolicy {
	return policyFromConfig(&atlassian.Config{
		BackoffAndRetry:   true,
		MaxBackoffRetries: 3,
		BackoffFactor:     1,
		BackoffJitter:     -1, // disable jitter for deterministic delays
	})
}

// recordedState wires a retryState to a slice capturing every sleep.
func recordedState(policy retryPolicy) (*retryState, *[]time.Duration) {
	slept := &[]time.Duration{}

	state := newRetryState(policy)
	state.sleep = func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)

		return nil
	}

	return state, slept
}

func TestBackoffDelay(t *testing.T) {
	t.Parallel()

	t.Run("doubles per attempt without jitter", func(t *testing.T) {
		t.Parallel()

		policy := testPolicy()
		policy.factor = 2

		assert.Equal(t, 2*time.Second, policy.backoffDelay(1))
		assert.Equal(t, 4*time.Second, policy.backoffDelay(2))
		assert.Equal(t, 8*time.Second, policy.backoffDelay(3))
	})

	t.Run("clamped to the backoff ceiling", func(t *testing.T) {
		t.Parallel()

		policy := testPolicy()
		policy.factor = 2
		policy.maxBackoff = 5 * time.Second

		assert.Equal(t, 5*time.Second, policy.backoffDelay(3))
	})

	t.Run("jitter stays within its bound", func(t *testing.T) {
		t.Parallel()

		policy := testPolicy()
		policy.jitter = 1

		for i := 0; i < 100; i++ {
			delay := policy.backoffDelay(1)
			assert.GreaterOrEqual(t, delay, 1*time.Second)
			assert.Less(t, delay, 2*time.Second)
		}
	})
}

func TestRetryStateDecide(t *testing.T) {
	t.Parallel()

	t.Run("retries up to the budget then stops", func(t *testing.T) {
		t.Parallel()

		state, slept := recordedState(testPolicy())

		for i := 0; i < 3; i++ {
			retry, err := state.decide(context.Background(), http.StatusServiceUnavailable, http.Header{})
			require.NoError(t, err)
			assert.True(t, retry)
		}

		retry, err := state.decide(context.Background(), http.StatusServiceUnavailable, http.Header{})
		require.NoError(t, err)
		assert.False(t, retry)

		assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}, *slept)
	})

	t.Run("non-retryable status stops immediately", func(t *testing.T) {
		t.Parallel()

		state, slept := recordedState(testPolicy())

		retry, err := state.decide(context.Background(), http.StatusInternalServerError, http.Header{})
		require.NoError(t, err)
		assert.False(t, retry)
		assert.Empty(t, *slept)
	})

	t.Run("retry-after on 429 is authoritative", func(t *testing.T) {
		t.Parallel()

		state, slept := recordedState(testPolicy())

		headers := http.Header{}
		headers.Set("Retry-After", "5")

		retry, err := state.decide(context.Background(), http.StatusTooManyRequests, headers)
		require.NoError(t, err)
		assert.True(t, retry)
		assert.Equal(t, []time.Duration{5 * time.Second}, *slept)
		assert.Zero(t, state.retries, "server-directed waits must not consume the retry budget")
	})

	t.Run("retry-after honored even with backoff disabled", func(t *testing.T) {
		t.Parallel()

		policy := testPolicy()
		policy.enabled = false

		state, slept := recordedState(policy)

		headers := http.Header{}
		headers.Set("Retry-After", "2")

		retry, err := state.decide(context.Background(), http.StatusTooManyRequests, headers)
		require.NoError(t, err)
		assert.True(t, retry)
		assert.Equal(t, []time.Duration{2 * time.Second}, *slept)
	})

	t.Run("retry-after ignored when disabled via config", func(t *testing.T) {
		t.Parallel()

		policy := testPolicy()
		policy.honorRetryAfter = false

		state, slept := recordedState(policy)

		headers := http.Header{}
		headers.Set("Retry-After", "5")

		retry, err := state.decide(context.Background(), http.StatusTooManyRequests, headers)
		require.NoError(t, err)
		assert.True(t, retry, "429 is still retryable on the exponential schedule")
		assert.Equal(t, []time.Duration{1 * time.Second}, *slept)
		assert.Equal(t, 1, state.retries)
	})

	t.Run("unparsable retry-after falls back to the schedule", func(t *testing.T) {
		t.Parallel()

		state, slept := recordedState(testPolicy())

		headers := http.Header{}
		headers.Set("Retry-After", "Fri, 31 Dec 1999 23:59:59 GMT")

		retry, err := state.decide(context.Background(), http.StatusTooManyRequests, headers)
		require.NoError(t, err)
		assert.True(t, retry)
		assert.Equal(t, []time.Duration{1 * time.Second}, *slept)
		assert.Equal(t, 1, state.retries)
	})

	t.Run("delegated policy defers to the transport", func(t *testing.T) {
		t.Parallel()

		policy := testPolicy()
		policy.delegated = true

		state, slept := recordedState(policy)

		retry, err := state.decide(context.Background(), http.StatusServiceUnavailable, http.Header{})
		require.NoError(t, err)
		assert.False(t, retry)
		assert.Empty(t, *slept)

		headers := http.Header{}
		headers.Set("Retry-After", "3")

		retry, err = state.decide(context.Background(), http.StatusTooManyRequests, headers)
		require.NoError(t, err)
		assert.True(t, retry, "server-directed waits stay in the loop even when delegated")
	})

	t.Run("cancelled context aborts the wait", func(t *testing.T) {
		t.Parallel()

		state := newRetryState(testPolicy())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		retry, err := state.decide(ctx, http.StatusServiceUnavailable, http.Header{})
		require.ErrorIs(t, err, context.Canceled)
		assert.False(t, retry)
	})
}

func TestPolicyFromConfigDefaults(t *testing.T) {
	t.Parallel()

	policy := policyFromConfig(&atlassian.Config{BackoffAndRetry: true})

	assert.True(t, policy.enabled)
	assert.True(t, policy.honorRetryAfter)
	assert.Equal(t, atlassian.DefaultMaxBackoffRetries, policy.maxRetries)
	assert.Equal(t, atlassian.DefaultBackoffFactor, policy.factor)
	assert.Equal(t, atlassian.DefaultMaxBackoff, policy.maxBackoff)
	assert.Equal(t, atlassian.DefaultBackoffJitter, policy.jitter)

	for _, code := range atlassian.DefaultRetryStatusCodes() {
		assert.True(t, policy.retryable(code))
	}

	assert.False(t, policy.retryable(http.StatusInternalServerError))
}
