package atlassian

import (
	"crypto/tls"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// Defaults applied by atlclient.New when the corresponding Config field is
// left at its zero value.
const (
	// DefaultTimeout bounds a single request attempt, not the whole retry
	// sequence.
	DefaultTimeout = 75 * time.Second

	// DefaultAPIRoot is the REST API root used by most Atlassian products.
	DefaultAPIRoot = "rest/api"

	// DefaultAPIVersion selects the server's latest API version.
	DefaultAPIVersion = "latest"

	// DefaultMaxBackoff caps the delay between two retry attempts.
	DefaultMaxBackoff = 1800 * time.Second

	// DefaultMaxBackoffRetries is the retry budget for one logical request.
	DefaultMaxBackoffRetries = 1000

	// DefaultBackoffFactor multiplies the exponential backoff schedule.
	DefaultBackoffFactor = 1.0

	// DefaultBackoffJitter is the magnitude, in seconds, of the uniform
	// random jitter added to each backoff delay.
	DefaultBackoffJitter = 1.0
)

// DefaultRetryStatusCodes lists the HTTP statuses retried when backoff is
// enabled: request entity too large, rate limited, service unavailable.
func DefaultRetryStatusCodes() []int {
	return []int{413, 429, 503}
}

// OAuth1 signature methods accepted by OAuth1Config.SignatureMethod.
const (
	SignatureMethodRSASHA512 = "RSA-SHA512"
	SignatureMethodRSASHA1   = "RSA-SHA1"
	SignatureMethodHMACSHA1  = "HMAC-SHA1"
)

// OAuth1Config carries the parameters for OAuth 1.0a request signing.
type OAuth1Config struct {
	// ConsumerKey identifies the application link on the server.
	ConsumerKey string

	// ConsumerSecret is only used with the HMAC-SHA1 signature method.
	ConsumerSecret string

	// PrivateKey is the PEM-encoded RSA private key matching the public key
	// registered with the application link. Required for the RSA methods.
	PrivateKey []byte

	// SignatureMethod selects the signing algorithm. Defaults to
	// SignatureMethodRSASHA512.
	SignatureMethod string

	// AccessToken and AccessTokenSecret are the resource-owner credentials
	// obtained during the OAuth dance.
	AccessToken       string
	AccessTokenSecret string
}

// OAuth2Config carries a previously obtained OAuth 2.0 token. The client
// does not run any grant flow itself; token acquisition is the caller's
// responsibility.
type OAuth2Config struct {
	// ClientID identifies the OAuth 2.0 client.
	ClientID string

	// Token must carry at least an access token and a token type.
	Token *oauth2.Token

	// TokenSource, when set, replaces the static token above and lets the
	// caller plug in a refreshing source.
	TokenSource oauth2.TokenSource
}

// KerberosConfig enables SPNEGO negotiation using an existing Kerberos
// credential cache. Mutual authentication is optional: responses are not
// rejected when the server skips the final negotiate leg.
type KerberosConfig struct {
	// ConfigPath locates krb5.conf. Falls back to $KRB5_CONFIG and then
	// /etc/krb5.conf.
	ConfigPath string

	// CCachePath locates the credential cache. Falls back to $KRB5CCNAME.
	CCachePath string

	// SPN overrides the service principal name derived from the request host.
	SPN string
}

// Config is the single construction parameter set for a client. All fields
// are read once by atlclient.New and never again; the resulting client is
// immutable apart from the shared HTTP session state managed by the
// standard library.
//
// # Authentication precedence
//
// Exactly one strategy is selected, in this order:
//  1. Username + Password: HTTP basic auth.
//  2. Token: bearer token header (personal access token).
//  3. OAuth1: OAuth 1.0a request signing.
//  4. OAuth2: bearer application of a caller-supplied OAuth 2.0 token.
//  5. Kerberos: SPNEGO negotiation.
//  6. Cookies: merged into the session's cookie jar.
//  7. None: requests are sent unauthenticated.
type Config struct {
	// BaseURL is the product base URL, e.g. "https://jira.example.com".
	// Required.
	BaseURL string

	// Username and Password select HTTP basic auth when both are set.
	Username string
	Password string

	// Token is a bearer token (e.g. a personal access token).
	Token string

	// OAuth1, OAuth2, Kerberos and Cookies select the remaining strategies;
	// see the precedence list above.
	OAuth1   *OAuth1Config
	OAuth2   *OAuth2Config
	Kerberos *KerberosConfig
	Cookies  map[string]string

	// Timeout bounds a single attempt. Defaults to DefaultTimeout. Callers
	// needing a deadline across the whole retry sequence must use the
	// request context.
	Timeout time.Duration

	// APIRoot and APIVersion are the default middle segments of resource
	// URLs. Empty values mean DefaultAPIRoot and DefaultAPIVersion.
	APIRoot    string
	APIVersion string

	// SkipTLSVerify disables server certificate verification. Ignored when
	// HTTPClient is supplied.
	SkipTLSVerify bool

	// ClientCertificate is presented during the TLS handshake when set.
	// Ignored when HTTPClient is supplied.
	ClientCertificate *tls.Certificate

	// Proxies maps URL schemes ("http", "https") to proxy URLs. When empty
	// the process environment is consulted. Ignored when HTTPClient is
	// supplied.
	Proxies map[string]string

	// HTTPClient, when set, is used as the underlying session instead of a
	// client owned by the library. Authentication and retry delegation are
	// still installed onto it; TLS, proxy and certificate settings are not.
	HTTPClient *http.Client

	// AdvancedMode makes verb methods return the raw *Response and skip
	// automatic error raising. Overridable per call.
	AdvancedMode bool

	// Cloud marks the target as an Atlassian Cloud instance. The core only
	// stores it; product wrappers branch on it.
	Cloud bool

	// UserAgent overrides the User-Agent header on outgoing requests.
	UserAgent string

	// BackoffAndRetry enables the retry/backoff engine for the statuses in
	// RetryStatusCodes.
	BackoffAndRetry bool

	// TransportRetry delegates retrying to a retryablehttp round tripper
	// mounted under the session instead of the client's own request loop.
	// Only meaningful together with BackoffAndRetry.
	TransportRetry bool

	// RetryStatusCodes lists the statuses that trigger a retry. Empty means
	// DefaultRetryStatusCodes.
	RetryStatusCodes []int

	// MaxBackoff caps a single backoff delay. Zero means DefaultMaxBackoff.
	MaxBackoff time.Duration

	// MaxBackoffRetries is the retry budget per logical request. Zero means
	// DefaultMaxBackoffRetries.
	MaxBackoffRetries int

	// BackoffFactor scales the exponential schedule factor*2^(n-1). Zero
	// means DefaultBackoffFactor.
	BackoffFactor float64

	// BackoffJitter is the magnitude, in seconds, of the uniform random
	// jitter added to each delay. Zero means DefaultBackoffJitter; set a
	// negative value for no jitter.
	BackoffJitter float64

	// IgnoreRetryAfterHeader disables the authoritative Retry-After
	// handling for 429 responses.
	IgnoreRetryAfterHeader bool

	// Logger receives debug traces (including the cURL-equivalent command
	// line for every attempt). Nil disables logging.
	Logger Logger

	// Debug enables the request/response debug traces on Logger.
	Debug bool

	// ResponseChecker replaces the default error-payload normalizer. Nil
	// means NewResponseChecker(BaseURL).
	ResponseChecker ResponseChecker
}
