package gcs

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/educateagirl/storefront-api/pkg/config"
)

func staticToken(value string) *tokenSource {
	return &tokenSource{fetch: func(context.Context) (accessToken, error) {
		return accessToken{value: value, expiry: time.Now().Add(time.Hour)}, nil
	}}
}

func newTestClient(srv *httptest.Server, publicBase string) *Client {
	return &Client{
		http:       srv.Client(),
		endpoint:   srv.URL,
		bucket:     "eag-media",
		publicBase: publicBase,
		tokens:     staticToken("token"),
	}
}

func TestUploadSendsMediaRequest(t *testing.T) {
	t.Parallel()

	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/upload/storage/v1/b/eag-media/o" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("uploadType"); got != "media" {
			t.Errorf("unexpected uploadType %q", got)
		}
		if got := r.URL.Query().Get("name"); got != "educate_a_girl/1-abc.png" {
			t.Errorf("unexpected object name %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token" {
			t.Errorf("unexpected auth %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "image/png" {
			t.Errorf("unexpected content type %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"educate_a_girl/1-abc.png"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv, "")
	payload := "\x89PNG fake image"
	u, err := client.Upload(context.Background(), "educate_a_girl/1-abc.png", "image/png", strings.NewReader(payload), int64(len(payload)))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if gotBody != payload {
		t.Fatalf("server received %q", gotBody)
	}
	if want := srv.URL + "/eag-media/educate_a_girl/1-abc.png"; u != want {
		t.Fatalf("expected %s, got %s", want, u)
	}
}

func TestUploadUsesPublicBaseURL(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := newTestClient(srv, "https://cdn.educateagirl.org")
	u, err := client.Upload(context.Background(), "educate_a_girl/x.jpg", "image/jpeg", strings.NewReader("jpg"), 3)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if u != "https://cdn.educateagirl.org/educate_a_girl/x.jpg" {
		t.Fatalf("unexpected url %s", u)
	}
}

func TestUploadSurfacesStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"message":"denied"}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv, "")
	_, err := client.Upload(context.Background(), "a.png", "image/png", strings.NewReader("x"), 1)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "denied") {
		t.Fatalf("error should carry status and body, got %v", err)
	}
}

func TestUploadRequiresObject(t *testing.T) {
	t.Parallel()

	client := &Client{tokens: staticToken("token")}
	if _, err := client.Upload(context.Background(), "", "image/png", strings.NewReader("x"), 1); err == nil {
		t.Fatal("expected error for empty object")
	}
	var empty *Client
	if _, err := empty.Upload(context.Background(), "a", "image/png", strings.NewReader("x"), 1); err == nil {
		t.Fatal("expected error for nil client")
	}
}

func TestPingListsBucket(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/storage/v1/b/eag-media/o" || r.URL.Query().Get("maxResults") != "1" {
			t.Errorf("unexpected ping request %s", r.URL.String())
		}
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	if err := newTestClient(srv, "").Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestTokenSourceCachesUntilExpiry(t *testing.T) {
	t.Parallel()

	var calls int32
	ts := &tokenSource{fetch: func(context.Context) (accessToken, error) {
		atomic.AddInt32(&calls, 1)
		return accessToken{value: "cached", expiry: time.Now().Add(time.Hour)}, nil
	}}
	for i := 0; i < 3; i++ {
		token, err := ts.Token(context.Background())
		if err != nil || token != "cached" {
			t.Fatalf("unexpected token %q err %v", token, err)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected one fetch, got %d", got)
	}
}

func TestTokenRequestErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Metadata-Flavor") == "Google" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"expires_in":3600}`))
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	req.Header.Set("Metadata-Flavor", "Google")
	if _, err := exchange(srv.Client(), req); err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected status error, got %v", err)
	}

	req, _ = http.NewRequest(http.MethodGet, srv.URL, nil)
	if _, err := exchange(srv.Client(), req); err == nil {
		t.Fatal("expected error for response without access_token")
	}
}

func TestServiceAccountTokenExchange(t *testing.T) {
	t.Parallel()

	key := mustGenerateKey(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "urn:ietf:params:oauth:grant-type:jwt-bearer" {
			t.Errorf("unexpected grant type %q", got)
		}
		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(r.PostForm.Get("assertion"), claims, func(tok *jwt.Token) (any, error) {
			return &key.PublicKey, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
		if err != nil {
			t.Errorf("verify assertion: %v", err)
		}
		if claims["iss"] != "uploader@example.iam.gserviceaccount.com" || claims["scope"] != storageScope {
			t.Errorf("unexpected claims %v", claims)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "sa-token", "expires_in": 3600})
	}))
	defer srv.Close()

	pemKey := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	creds, _ := json.Marshal(map[string]string{
		"client_email": "uploader@example.iam.gserviceaccount.com",
		"private_key":  string(pemKey),
		"token_uri":    srv.URL,
	})

	ts, err := resolveTokenSource(srv.Client(), config.GCPConfig{CredentialsJSON: string(creds)})
	if err != nil {
		t.Fatalf("token source: %v", err)
	}
	token, err := ts.Token(context.Background())
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if token != "sa-token" {
		t.Fatalf("unexpected token %q", token)
	}
}

func TestServiceAccountCredentialsValidation(t *testing.T) {
	t.Parallel()

	if _, err := serviceAccountFetcher(http.DefaultClient, "{"); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := serviceAccountFetcher(http.DefaultClient, `{"client_email":"a@b"}`); err == nil {
		t.Fatal("expected error without private key")
	}
	if _, err := serviceAccountFetcher(http.DefaultClient, `{"client_email":"a@b","private_key":"nope"}`); err == nil {
		t.Fatal("expected error for invalid pem")
	}
}

func TestNewClientRequiresBucket(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(context.Background(), configWithBucket(""), gcpWithoutCreds(), "", nil); err == nil {
		t.Fatal("expected error without bucket")
	}
}

func TestPublicURLDefaultsToBucketPath(t *testing.T) {
	t.Parallel()

	client := &Client{endpoint: DefaultEndpoint, bucket: "bucket"}
	got := client.PublicURL("educate_a_girl/a.webp")
	if _, err := url.Parse(got); err != nil {
		t.Fatalf("public url should parse: %v", err)
	}
	if got != "https://storage.googleapis.com/bucket/educate_a_girl/a.webp" {
		t.Fatalf("unexpected url %s", got)
	}
}

func mustGenerateKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	return key
}

func configWithBucket(name string) config.GCSConfig {
	return config.GCSConfig{BucketName: name}
}

func gcpWithoutCreds() config.GCPConfig {
	return config.GCPConfig{}
}
