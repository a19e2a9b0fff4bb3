package auth

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	krbclient "github.com/jcmturner/gokrb5/v8/client"
	krbconfig "github.com/jcmturner/gokrb5/v8/config"
	"github.com/jcmturner/gokrb5/v8/credentials"
	"github.com/jcmturner/gokrb5/v8/spnego"

	"github.com/tidemark-io/atlassian/pkg/atlassian"
)

const defaultKrb5Config = "/etc/krb5.conf"

// kerberosStrategy negotiates SPNEGO from an existing credential cache.
// Mutual authentication is optional: the negotiate header is attached to
// each request and server responses are not rejected when the final leg is
// missing. The Kerberos environment is loaded here, at construction, so a
// missing or broken setup surfaces as ErrKerberosUnavailable instead of
// failing the first request.
type kerberosStrategy struct {
	cfg *atlassian.KerberosConfig
}

func (s *kerberosStrategy) Name() string { return "kerberos" }

func (s *kerberosStrategy) Configure(client *http.Client, _ *url.URL) error {
	confPath := s.cfg.ConfigPath
	if confPath == "" {
		confPath = os.Getenv("KRB5_CONFIG")
	}

	if confPath == "" {
		confPath = defaultKrb5Config
	}

	krbConf, err := krbconfig.Load(confPath)
	if err != nil {
		return fmt.Errorf("%w: loading %s: %w", atlassian.ErrKerberosUnavailable, confPath, err)
	}

	ccPath := s.cfg.CCachePath
	if ccPath == "" {
		ccPath = strings.TrimPrefix(os.Getenv("KRB5CCNAME"), "FILE:")
	}

	if ccPath == "" {
		return fmt.Errorf("%w: no credential cache configured (set KRB5CCNAME)", atlassian.ErrKerberosUnavailable)
	}

	ccache, err := credentials.LoadCCache(ccPath)
	if err != nil {
		return fmt.Errorf("%w: loading credential cache %s: %w", atlassian.ErrKerberosUnavailable, ccPath, err)
	}

	krb, err := krbclient.NewFromCCache(ccache, krbConf, krbclient.DisablePAFXFAST(true))
	if err != nil {
		return fmt.Errorf("%w: %w", atlassian.ErrKerberosUnavailable, err)
	}

	spn := s.cfg.SPN
	client.Transport = &modifierTransport{
		base: baseTransport(client),
		modify: func(req *http.Request) error {
			return spnego.SetSPNEGOHeader(krb, req, spn)
		},
	}

	return nil
}
