package auth

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha512"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dghubble/oauth1"

	"github.com/tidemark-io/atlassian/pkg/atlassian"
)

// oauth1Strategy wraps the session transport with an OAuth 1.0a signing
// round tripper. Atlassian servers use RSA application links, so RSA-SHA512
// is the default signature method.
type oauth1Strategy struct {
	cfg *atlassian.OAuth1Config
}

func (s *oauth1Strategy) Name() string { return "oauth1" }

func (s *oauth1Strategy) Configure(client *http.Client, _ *url.URL) error {
	if s.cfg.ConsumerKey == "" {
		return atlassian.ErrConsumerKeyRequired
	}

	config := oauth1.NewConfig(s.cfg.ConsumerKey, s.cfg.ConsumerSecret)

	method := s.cfg.SignatureMethod
	if method == "" {
		method = atlassian.SignatureMethodRSASHA512
	}

	switch method {
	case atlassian.SignatureMethodRSASHA512:
		key, err := parseRSAPrivateKey(s.cfg.PrivateKey)
		if err != nil {
			return err
		}

		config.Signer = &rsaSHA512Signer{privateKey: key}
	case atlassian.SignatureMethodRSASHA1:
		key, err := parseRSAPrivateKey(s.cfg.PrivateKey)
		if err != nil {
			return err
		}

		config.Signer = &oauth1.RSASigner{PrivateKey: key}
	case atlassian.SignatureMethodHMACSHA1:
		// oauth1's default signer; needs the consumer secret only.
	default:
		return fmt.Errorf("%w: %q", atlassian.ErrUnknownSignatureMethod, method)
	}

	// Keep the session's existing transport (TLS, proxies) underneath the
	// signing transport.
	ctx := context.WithValue(context.Background(), oauth1.HTTPClient, &http.Client{
		Transport: baseTransport(client),
	})
	token := oauth1.NewToken(s.cfg.AccessToken, s.cfg.AccessTokenSecret)
	client.Transport = config.Client(ctx, token).Transport

	return nil
}

// rsaSHA512Signer implements oauth1.Signer with RSASSA-PKCS1-v1_5 over
// SHA-512, the signature method current Atlassian servers negotiate.
type rsaSHA512Signer struct {
	privateKey *rsa.PrivateKey
}

func (s *rsaSHA512Signer) Name() string {
	return atlassian.SignatureMethodRSASHA512
}

func (s *rsaSHA512Signer) Sign(_ string, message string) (string, error) {
	digest := sha512.Sum512([]byte(message))

	signature, err := rsa.SignPKCS1v15(rand.Reader, s.privateKey, crypto.SHA512, digest[:])
	if err != nil {
		return "", fmt.Errorf("signing request: %w", err)
	}

	return base64.StdEncoding.EncodeToString(signature), nil
}

func parseRSAPrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", atlassian.ErrInvalidPrivateKey)
	}

	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", atlassian.ErrInvalidPrivateKey, err)
	}

	rsaKey, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA key", atlassian.ErrInvalidPrivateKey)
	}

	return rsaKey, nil
}
