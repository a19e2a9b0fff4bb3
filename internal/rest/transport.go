package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// mountTransportRetry delegates retrying to a retryablehttp round tripper
// mounted under the session, configured with the same policy the in-loop
// engine would apply. The per-attempt timeout moves onto the inner client
// so retry sleeps don't count against it.
func mountTransportRetry(session *http.Client, policy retryPolicy) {
	inner := &http.Client{
		Transport: session.Transport,
		Timeout:   session.Timeout,
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = inner
	retryClient.RetryMax = policy.maxRetries
	retryClient.RetryWaitMin = time.Duration(policy.factor * float64(time.Second))
	retryClient.RetryWaitMax = policy.maxBackoff
	retryClient.Logger = nil
	retryClient.CheckRetry = checkRetry(policy)
	retryClient.Backoff = backoff(policy)

	session.Transport = &retryablehttp.RoundTripper{Client: retryClient}
	session.Timeout = 0
}

// checkRetry retries on the policy's status codes only. Transport errors
// are surfaced immediately, matching the in-loop engine.
func checkRetry(policy retryPolicy) retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}

		if err != nil || resp == nil {
			return false, err
		}

		return policy.retryable(resp.StatusCode), nil
	}
}

// backoff applies the policy's exponential schedule, honoring an explicit
// Retry-After on 429 responses first.
func backoff(policy retryPolicy) retryablehttp.Backoff {
	return func(_, _ time.Duration, attemptNum int, resp *http.Response) time.Duration {
		if policy.honorRetryAfter && resp != nil && resp.StatusCode == http.StatusTooManyRequests {
			if value := resp.Header.Get("Retry-After"); value != "" {
				seconds, err := strconv.Atoi(value)
				if err == nil && seconds >= 0 {
					return time.Duration(seconds) * time.Second
				}
			}
		}

		// attemptNum is zero-based in retryablehttp.
		return policy.backoffDelay(attemptNum + 1)
	}
}
