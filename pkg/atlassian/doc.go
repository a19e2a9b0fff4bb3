// Package atlassian provides the types, interfaces, and helpers of a
// generic REST client core for the Atlassian-family HTTP APIs (Jira,
// Confluence, Bitbucket, ...).
//
// # Overview
//
// The atlassian package defines the client configuration (Config), the
// request/response envelope (Request, Response), the verb surface (Client),
// the uniform error taxonomy (HTTPError, ResponseChecker), and the URL
// building helpers. A concrete implementation is provided by the atlclient
// package, which wires the session, authentication strategy selection,
// retry/backoff, and response normalization. Product-specific endpoint
// wrappers hold a Client and build on the verb methods; they are not part
// of this module.
//
// # Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/tidemark-io/atlassian/pkg/atlassian"
//	  "github.com/tidemark-io/atlassian/pkg/atlclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := atlclient.New(&atlassian.Config{
//	    BaseURL:  "https://jira.example.com",
//	    Username: "bot",
//	    Password: "hunter2",
//	  })
//	  if err != nil { log.Fatal(err) }
//	  defer cli.Close()
//
//	  issue, err := cli.Get(ctx, cli.ResourceURL("issue/DEMO-1"))
//	  if err != nil { log.Fatal(err) }
//	  _ = issue
//	}
//
// # Authentication
//
// Config accepts several mutually exclusive credential shapes (basic,
// bearer token, OAuth1, OAuth2, Kerberos, cookies). Exactly one strategy is
// selected at construction, in a fixed priority order, and applied to the
// session once; the session's authentication state is not mutable through
// the public surface afterwards.
//
// # Retries
//
// With Config.BackoffAndRetry enabled, responses carrying a retryable
// status are retried with exponential backoff, jitter, and a cap, driven by
// a per-request counter. A Retry-After header on a 429 response is
// authoritative and bypasses the exponential schedule. Setting
// Config.TransportRetry instead delegates retrying to a retryablehttp round
// tripper mounted under the session.
//
// # Errors
//
// HTTP failure statuses are normalized into *HTTPError values carrying a
// message composed from the server's error payload plus the original
// response. The composition is pluggable through Config.ResponseChecker so
// product wrappers can handle bespoke payload shapes.
package atlassian
