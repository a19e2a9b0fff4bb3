package rest

import (
	"context"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/tidemark-io/atlassian/pkg/atlassian"
)

// retryPolicy is the immutable retry configuration shared by all requests
// of one client. Per-request counting lives in retryState.
type retryPolicy struct {
	enabled         bool
	delegated       bool
	statusCodes     map[int]struct{}
	maxRetries      int
	factor          float64
	maxBackoff      time.Duration
	jitter          float64
	honorRetryAfter bool
}

func policyFromConfig(cfg *atlassian.Config) retryPolicy {
	codes := cfg.RetryStatusCodes
	if len(codes) == 0 {
		codes = atlassian.DefaultRetryStatusCodes()
	}

	statusCodes := make(map[int]struct{}, len(codes))
	for _, code := range codes {
		statusCodes[code] = struct{}{}
	}

	maxRetries := cfg.MaxBackoffRetries
	if maxRetries == 0 {
		maxRetries = atlassian.DefaultMaxBackoffRetries
	}

	factor := cfg.BackoffFactor
	if factor == 0 {
		factor = atlassian.DefaultBackoffFactor
	}

	maxBackoff := cfg.MaxBackoff
	if maxBackoff == 0 {
		maxBackoff = atlassian.DefaultMaxBackoff
	}

	jitter := cfg.BackoffJitter
	if jitter == 0 {
		jitter = atlassian.DefaultBackoffJitter
	}

	if jitter < 0 {
		jitter = 0
	}

	return retryPolicy{
		enabled:         cfg.BackoffAndRetry,
		statusCodes:     statusCodes,
		maxRetries:      maxRetries,
		factor:          factor,
		maxBackoff:      maxBackoff,
		jitter:          jitter,
		honorRetryAfter: !cfg.IgnoreRetryAfterHeader,
	}
}

func (p retryPolicy) retryable(status int) bool {
	_, ok := p.statusCodes[status]

	return ok
}

// backoffDelay computes the delay before retry attempt n (1-based):
// factor * 2^(n-1), plus uniform jitter in [0, jitter), clamped to
// [0, maxBackoff].
func (p retryPolicy) backoffDelay(attempt int) time.Duration {
	seconds := p.factor * math.Pow(2, float64(attempt-1))
	if p.jitter != 0 {
		seconds += rand.Float64() * p.jitter
	}

	seconds = math.Max(0, math.Min(p.maxBackoff.Seconds(), seconds))

	return time.Duration(seconds * float64(time.Second))
}

// retryState is the per-request retry counter. A fresh state is created for
// every logical request, so retries never leak across calls.
type retryState struct {
	policy  retryPolicy
	retries int

	// sleep is swappable in tests.
	sleep func(context.Context, time.Duration) error
}

func newRetryState(policy retryPolicy) *retryState {
	return &retryState{
		policy: policy,
		sleep:  sleepContext,
	}
}

// decide inspects one response and reports whether the request should be
// sent again, sleeping first when it is. Precedence:
//
//  1. A Retry-After header on a 429 is authoritative: the server tells the
//     client how long to wait, so the exponential schedule and the retry
//     budget are bypassed. Independent of the backoff toggle.
//  2. With backoff disabled, or delegated to a transport-level retry
//     mechanism, stop here.
//  3. While budget remains and the status is retryable, back off
//     exponentially and go again.
func (s *retryState) decide(ctx context.Context, status int, headers http.Header) (bool, error) {
	if s.policy.honorRetryAfter && status == http.StatusTooManyRequests {
		if value := headers.Get("Retry-After"); value != "" {
			seconds, err := strconv.Atoi(value)
			if err == nil && seconds >= 0 {
				err := s.sleep(ctx, time.Duration(seconds)*time.Second)
				if err != nil {
					return false, err
				}

				return true, nil
			}
		}
	}

	if !s.policy.enabled || s.policy.delegated {
		return false, nil
	}

	if s.retries < s.policy.maxRetries && s.policy.retryable(status) {
		s.retries++

		err := s.sleep(ctx, s.policy.backoffDelay(s.retries))
		if err != nil {
			return false, err
		}

		return true, nil
	}

	return false, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
