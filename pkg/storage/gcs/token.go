package gcs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/educateagirl/storefront-api/pkg/config"
)

const (
	googleTokenURL   = "https://oauth2.googleapis.com/token"
	metadataTokenURL = "http://metadata.google.internal/computeMetadata/v1/instance/service-accounts/default/token"
	storageScope     = "https://www.googleapis.com/auth/devstorage.read_write"
	jwtBearerGrant   = "urn:ietf:params:oauth:grant-type:jwt-bearer"

	// refreshSkew renews access tokens shortly before Google expires them.
	refreshSkew = time.Minute
)

type fetchFunc func(context.Context) (accessToken, error)

type accessToken struct {
	value  string
	expiry time.Time
}

// tokenSource caches one OAuth access token and refetches it near expiry.
type tokenSource struct {
	mu     sync.Mutex
	cached accessToken
	fetch  fetchFunc
}

func (t *tokenSource) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cached.value != "" && time.Until(t.cached.expiry) > refreshSkew {
		return t.cached.value, nil
	}
	tok, err := t.fetch(ctx)
	if err != nil {
		return "", err
	}
	t.cached = tok
	return tok.value, nil
}

// resolveTokenSource picks inline JSON credentials, then a credentials file,
// then the GCE metadata server.
func resolveTokenSource(httpClient *http.Client, gcp config.GCPConfig) (*tokenSource, error) {
	raw := strings.TrimSpace(gcp.CredentialsJSON)
	if raw == "" && gcp.ApplicationCredentials != "" {
		b, err := os.ReadFile(gcp.ApplicationCredentials)
		if err != nil {
			return nil, fmt.Errorf("reading credentials file: %w", err)
		}
		raw = string(b)
	}
	if raw == "" {
		return &tokenSource{fetch: metadataFetcher(httpClient)}, nil
	}
	fetch, err := serviceAccountFetcher(httpClient, raw)
	if err != nil {
		return nil, err
	}
	return &tokenSource{fetch: fetch}, nil
}

type serviceAccount struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

func serviceAccountFetcher(httpClient *http.Client, raw string) (fetchFunc, error) {
	var sa serviceAccount
	if err := json.Unmarshal([]byte(raw), &sa); err != nil {
		return nil, fmt.Errorf("parsing service account credentials: %w", err)
	}
	if sa.ClientEmail == "" || sa.PrivateKey == "" {
		return nil, errors.New("service account credentials need client_email and private_key")
	}
	if sa.TokenURI == "" {
		sa.TokenURI = googleTokenURL
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(sa.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("parsing service account key: %w", err)
	}

	return func(ctx context.Context) (accessToken, error) {
		now := time.Now()
		assertion, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
			"iss":   sa.ClientEmail,
			"scope": storageScope,
			"aud":   sa.TokenURI,
			"iat":   now.Unix(),
			"exp":   now.Add(time.Hour).Unix(),
		}).SignedString(key)
		if err != nil {
			return accessToken{}, fmt.Errorf("signing token assertion: %w", err)
		}

		form := url.Values{"grant_type": {jwtBearerGrant}, "assertion": {assertion}}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, sa.TokenURI, strings.NewReader(form.Encode()))
		if err != nil {
			return accessToken{}, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return exchange(httpClient, req)
	}, nil
}

func metadataFetcher(httpClient *http.Client) fetchFunc {
	return func(ctx context.Context) (accessToken, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, metadataTokenURL, nil)
		if err != nil {
			return accessToken{}, err
		}
		req.Header.Set("Metadata-Flavor", "Google")
		return exchange(httpClient, req)
	}
}

// exchange performs a token request and decodes the standard OAuth response.
func exchange(httpClient *http.Client, req *http.Request) (accessToken, error) {
	resp, err := httpClient.Do(req)
	if err != nil {
		return accessToken{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return accessToken{}, statusError("token request failed", resp)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return accessToken{}, fmt.Errorf("decoding token response: %w", err)
	}
	if body.AccessToken == "" {
		return accessToken{}, errors.New("token response missing access_token")
	}
	return accessToken{
		value:  body.AccessToken,
		expiry: time.Now().Add(time.Duration(body.ExpiresIn) * time.Second),
	}, nil
}
