package auth

import (
	"net/http"
	"net/url"

	"golang.org/x/oauth2"

	"github.com/tidemark-io/atlassian/pkg/atlassian"
)

// oauth2Strategy applies a previously obtained OAuth 2.0 token to every
// request. The token itself is supplied by the caller; no grant flow runs
// here.
type oauth2Strategy struct {
	cfg *atlassian.OAuth2Config
}

func (s *oauth2Strategy) Name() string { return "oauth2" }

func (s *oauth2Strategy) Configure(client *http.Client, _ *url.URL) error {
	if s.cfg.ClientID == "" {
		return atlassian.ErrOAuth2ClientIDRequired
	}

	source := s.cfg.TokenSource
	if source == nil {
		if s.cfg.Token == nil || s.cfg.Token.AccessToken == "" || s.cfg.Token.TokenType == "" {
			return atlassian.ErrOAuth2TokenRequired
		}

		source = oauth2.StaticTokenSource(s.cfg.Token)
	}

	client.Transport = &oauth2.Transport{
		Source: source,
		Base:   baseTransport(client),
	}

	return nil
}
