// Package rest implements the concrete REST client core: session
// construction, the request executor loop, the retry/backoff engine, and
// the verb surface with its defensive decoding rules.
package rest

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/tidemark-io/atlassian/internal/auth"
	"github.com/tidemark-io/atlassian/pkg/atlassian"
)

// Client implements atlassian.Client.
type Client struct {
	session    *http.Client
	baseURL    string
	apiRoot    string
	apiVersion string
	userAgent  string
	advanced   bool
	cloud      bool
	debug      bool
	logger     atlassian.Logger
	checker    atlassian.ResponseChecker
	policy     retryPolicy
}

// New builds a client from an already-validated, normalized config. Auth is
// applied to the session exactly once here; the returned client is
// immutable.
func New(cfg *atlassian.Config) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	session := cfg.HTTPClient
	if session == nil {
		session, err = newSession(cfg)
		if err != nil {
			return nil, err
		}
	}

	strategy := auth.Resolve(auth.Credentials{
		Username: cfg.Username,
		Password: cfg.Password,
		Token:    cfg.Token,
		OAuth1:   cfg.OAuth1,
		OAuth2:   cfg.OAuth2,
		Kerberos: cfg.Kerberos,
		Cookies:  cfg.Cookies,
	})

	err = strategy.Configure(session, base)
	if err != nil {
		return nil, fmt.Errorf("configuring %s authentication: %w", strategy.Name(), err)
	}

	policy := policyFromConfig(cfg)
	if policy.enabled && cfg.TransportRetry {
		mountTransportRetry(session, policy)

		policy.delegated = true
	}

	apiRoot := cfg.APIRoot
	if apiRoot == "" {
		apiRoot = atlassian.DefaultAPIRoot
	}

	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = atlassian.DefaultAPIVersion
	}

	checker := cfg.ResponseChecker
	if checker == nil {
		checker = atlassian.NewResponseChecker(cfg.BaseURL)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = atlassian.NopLogger{}
	}

	return &Client{
		session:    session,
		baseURL:    cfg.BaseURL,
		apiRoot:    apiRoot,
		apiVersion: apiVersion,
		userAgent:  cfg.UserAgent,
		advanced:   cfg.AdvancedMode,
		cloud:      cfg.Cloud,
		debug:      cfg.Debug,
		logger:     logger,
		checker:    checker,
		policy:     policy,
	}, nil
}

func newSession(cfg *atlassian.Config) (*http.Client, error) {
	transport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		transport = &http.Transport{}
	}

	transport = transport.Clone()

	if cfg.SkipTLSVerify || cfg.ClientCertificate != nil {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}

		transport.TLSClientConfig.InsecureSkipVerify = cfg.SkipTLSVerify // #nosec G402 -- explicit opt-out via config

		if cfg.ClientCertificate != nil {
			transport.TLSClientConfig.Certificates = append(
				transport.TLSClientConfig.Certificates, *cfg.ClientCertificate)
		}
	}

	if len(cfg.Proxies) > 0 {
		transport.Proxy = proxyFromMap(cfg.Proxies)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = atlassian.DefaultTimeout
	}

	return &http.Client{
		Transport: transport,
		Jar:       jar,
		Timeout:   timeout,
	}, nil
}

// proxyFromMap selects a proxy by request scheme, falling back to the
// process environment for schemes not in the map.
func proxyFromMap(proxies map[string]string) func(*http.Request) (*url.URL, error) {
	parsed := make(map[string]*url.URL, len(proxies))

	for scheme, raw := range proxies {
		proxyURL, err := url.Parse(raw)
		if err != nil {
			continue
		}

		parsed[scheme] = proxyURL
	}

	return func(req *http.Request) (*url.URL, error) {
		if proxyURL, ok := parsed[req.URL.Scheme]; ok {
			return proxyURL, nil
		}

		return http.ProxyFromEnvironment(req)
	}
}

// ResourceURL implements atlassian.Client.
func (c *Client) ResourceURL(resource string) string {
	return atlassian.ResourceURL(resource, &c.apiRoot, &c.apiVersion)
}

// BaseURL implements atlassian.Client.
func (c *Client) BaseURL() string { return c.baseURL }

// Cloud implements atlassian.Client.
func (c *Client) Cloud() bool { return c.cloud }

// HTTPClient implements atlassian.Client.
func (c *Client) HTTPClient() *http.Client { return c.session }

// Close implements atlassian.Client.
func (c *Client) Close() error {
	c.session.CloseIdleConnections()

	return nil
}

// Do implements atlassian.Client. It drives the send/decide loop: build
// the URL and body once, send, ask the retry engine, and either go again
// or hand the final response to the normalizer (unless advanced mode is
// active for this call).
func (c *Client) Do(ctx context.Context, req *atlassian.Request) (*atlassian.Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	requestURL := c.buildURL(req)

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	headers := requestHeaders(req, contentType)

	state := newRetryState(c.policy)

	var final *http.Response

	for {
		if c.debug {
			c.logger.Debug("HTTP Request", map[string]interface{}{
				"curl": curlCommand(method, requestURL, headers, body),
			})
		}

		httpReq, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader(body))
		if err != nil {
			return nil, fmt.Errorf("building request: %w", err)
		}

		for key, value := range headers {
			httpReq.Header.Set(key, value)
		}

		if c.userAgent != "" && httpReq.Header.Get("User-Agent") == "" {
			httpReq.Header.Set("User-Agent", c.userAgent)
		}

		resp, err := c.session.Do(httpReq)
		if err != nil {
			// Transport errors (refused connections, DNS failures,
			// per-attempt timeouts) are not retried here.
			return nil, fmt.Errorf("sending %s %s: %w", method, req.Path, err)
		}

		retry, err := state.decide(ctx, resp.StatusCode, resp.Header)
		if err != nil {
			drainBody(resp)

			return nil, err
		}

		if !retry {
			final = resp

			break
		}

		drainBody(resp)
	}

	payload, err := io.ReadAll(final.Body)
	closeErr := final.Body.Close()

	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if closeErr != nil {
		c.logger.Warn("failed to close response body", map[string]interface{}{"error": closeErr.Error()})
	}

	envelope := &atlassian.Response{
		StatusCode: final.StatusCode,
		Status:     final.Status,
		Headers:    final.Header,
		Body:       payload,
		Method:     method,
		URL:        requestURL,
	}

	if c.debug {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method": method,
			"path":   req.Path,
			"status": envelope.StatusCode,
		})
		c.logger.Debug("HTTP Response text", map[string]interface{}{"text": envelope.Text()})
	}

	if c.advancedFor(req) {
		return envelope, nil
	}

	err = c.checker.CheckResponse(envelope)
	if err != nil {
		return envelope, err
	}

	return envelope, nil
}

func (c *Client) advancedFor(req *atlassian.Request) bool {
	if req.Advanced != nil {
		return *req.Advanced
	}

	return c.advanced
}

// buildURL assembles the full request URL: base join (unless absolute),
// optional trailing slash, then query parameters (commas unescaped) and
// verbatim flag fragments.
func (c *Client) buildURL(req *atlassian.Request) string {
	var base *string
	if !req.Absolute {
		base = &c.baseURL
	}

	requestURL := atlassian.JoinURL(base, req.Path, req.Trailing)
	hadQuery := strings.Contains(requestURL, "?")

	if len(req.Params) > 0 || len(req.Flags) > 0 {
		if hadQuery {
			requestURL += "&"
		} else {
			requestURL += "?"
		}
	}

	if len(req.Params) > 0 {
		requestURL += encodeParams(req.Params)
	}

	if len(req.Flags) > 0 {
		if len(req.Params) > 0 || hadQuery {
			requestURL += "&"
		}

		requestURL += strings.Join(req.Flags, "&")
	}

	return requestURL
}

// encodeParams URL-encodes query parameters, leaving commas alone: JQL and
// multi-value fields rely on them server-side.
func encodeParams(params url.Values) string {
	return strings.ReplaceAll(params.Encode(), "%2C", ",")
}

// encodeBody serializes the request body. Without files, JSON bodies are
// marshalled and form data is URL-encoded; with files, form fields ride in
// the multipart payload instead. The returned content type is non-empty
// only when the body encoding dictates it.
func encodeBody(req *atlassian.Request) ([]byte, string, error) {
	switch {
	case len(req.Files) > 0:
		return encodeMultipart(req)
	case len(req.Form) > 0:
		return []byte(req.Form.Encode()), "application/x-www-form-urlencoded; charset=UTF-8", nil
	case req.JSON != nil:
		body, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, "", fmt.Errorf("encoding request body: %w", err)
		}

		return body, "", nil
	default:
		return nil, "", nil
	}
}

func encodeMultipart(req *atlassian.Request) ([]byte, string, error) {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	for field, values := range req.Form {
		for _, value := range values {
			err := writer.WriteField(field, value)
			if err != nil {
				return nil, "", fmt.Errorf("encoding form field %s: %w", field, err)
			}
		}
	}

	for _, file := range req.Files {
		part, err := writer.CreateFormFile(file.FieldName, file.FileName)
		if err != nil {
			return nil, "", fmt.Errorf("encoding attachment %s: %w", file.FileName, err)
		}

		_, err = io.Copy(part, file.Content)
		if err != nil {
			return nil, "", fmt.Errorf("reading attachment %s: %w", file.FileName, err)
		}
	}

	err := writer.Close()
	if err != nil {
		return nil, "", fmt.Errorf("finalizing multipart body: %w", err)
	}

	return buf.Bytes(), writer.FormDataContentType(), nil
}

// requestHeaders merges the caller's header override (or the JSON
// defaults) with a content type forced by the body encoding. Multipart
// always wins: its boundary lives in the content type.
func requestHeaders(req *atlassian.Request, contentType string) map[string]string {
	source := req.Headers
	if source == nil {
		source = atlassian.DefaultHeaders()
	}

	headers := make(map[string]string, len(source)+1)
	for key, value := range source {
		headers[key] = value
	}

	if contentType != "" && (len(req.Files) > 0 || req.Headers == nil) {
		headers["Content-Type"] = contentType
	}

	return headers
}

func bodyReader(body []byte) io.Reader {
	if body == nil {
		return nil
	}

	return bytes.NewReader(body)
}

func drainBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

var _ atlassian.Client = (*Client)(nil)
