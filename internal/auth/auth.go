// Package auth selects and installs the authentication strategy of a
// client session. Exactly one strategy is resolved from the credential set
// at construction time and applied to the session once; sessions are never
// re-authenticated afterwards.
package auth

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/tidemark-io/atlassian/pkg/atlassian"
)

// Credentials is the full credential set accepted at construction. At most
// one strategy is derived from it; see Resolve for the priority order.
type Credentials struct {
	Username string
	Password string
	Token    string
	OAuth1   *atlassian.OAuth1Config
	OAuth2   *atlassian.OAuth2Config
	Kerberos *atlassian.KerberosConfig
	Cookies  map[string]string
}

// Strategy configures a session's authentication state. Configure is called
// exactly once, at construction; a failure to build a signer surfaces there
// rather than on the first request.
type Strategy interface {
	// Name identifies the strategy ("basic", "token", "oauth1", "oauth2",
	// "kerberos", "cookies" or "none").
	Name() string

	// Configure installs the strategy onto the session, either by wrapping
	// the transport or by seeding the cookie jar.
	Configure(client *http.Client, base *url.URL) error
}

// Resolve picks the single active strategy for creds. Priority order:
// basic > token > OAuth1 > OAuth2 > Kerberos > cookies > none.
func Resolve(creds Credentials) Strategy {
	switch {
	case creds.Username != "" && creds.Password != "":
		return &basicStrategy{username: creds.Username, password: creds.Password}
	case creds.Token != "":
		return &bearerStrategy{token: creds.Token}
	case creds.OAuth1 != nil:
		return &oauth1Strategy{cfg: creds.OAuth1}
	case creds.OAuth2 != nil:
		return &oauth2Strategy{cfg: creds.OAuth2}
	case creds.Kerberos != nil:
		return &kerberosStrategy{cfg: creds.Kerberos}
	case len(creds.Cookies) > 0:
		return &cookieStrategy{cookies: creds.Cookies}
	default:
		return noneStrategy{}
	}
}

// modifierTransport applies a per-request mutation before delegating to the
// base round tripper. The incoming request is cloned first; transports must
// not mutate the caller's request.
type modifierTransport struct {
	base   http.RoundTripper
	modify func(*http.Request) error
}

func (t *modifierTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	err := t.modify(clone)
	if err != nil {
		return nil, err
	}

	return t.base.RoundTrip(clone)
}

// baseTransport returns the session's current transport, defaulting like
// the standard library does.
func baseTransport(client *http.Client) http.RoundTripper {
	if client.Transport != nil {
		return client.Transport
	}

	return http.DefaultTransport
}

type basicStrategy struct {
	username string
	password string
}

func (s *basicStrategy) Name() string { return "basic" }

func (s *basicStrategy) Configure(client *http.Client, _ *url.URL) error {
	username, password := s.username, s.password
	client.Transport = &modifierTransport{
		base: baseTransport(client),
		modify: func(req *http.Request) error {
			req.SetBasicAuth(username, password)

			return nil
		},
	}

	return nil
}

type bearerStrategy struct {
	token string
}

func (s *bearerStrategy) Name() string { return "token" }

func (s *bearerStrategy) Configure(client *http.Client, _ *url.URL) error {
	value := "Bearer " + strings.TrimSpace(s.token)
	client.Transport = &modifierTransport{
		base: baseTransport(client),
		modify: func(req *http.Request) error {
			req.Header.Set("Authorization", value)

			return nil
		},
	}

	return nil
}

type cookieStrategy struct {
	cookies map[string]string
}

func (s *cookieStrategy) Name() string { return "cookies" }

func (s *cookieStrategy) Configure(client *http.Client, base *url.URL) error {
	if client.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return err
		}

		client.Jar = jar
	}

	cookies := make([]*http.Cookie, 0, len(s.cookies))
	for name, value := range s.cookies {
		cookies = append(cookies, &http.Cookie{Name: name, Value: value})
	}

	client.Jar.SetCookies(base, cookies)

	return nil
}

type noneStrategy struct{}

func (noneStrategy) Name() string { return "none" }

func (noneStrategy) Configure(*http.Client, *url.URL) error { return nil }
