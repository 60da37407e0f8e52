package tokens

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/facility_platform/pkg/apperr"
)

type jwksServer struct {
	*httptest.Server
	hits atomic.Int32
}

func newJWKSServer(t *testing.T, keys map[string]*rsa.PrivateKey) *jwksServer {
	t.Helper()

	set := jose.JSONWebKeySet{}
	for kid, k := range keys {
		set.Keys = append(set.Keys, jose.JSONWebKey{Key: &k.PublicKey, KeyID: kid, Algorithm: "RS256", Use: "sig"})
	}
	body, err := json.Marshal(set)
	require.NoError(t, err)

	s := &jwksServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(s.Close)
	return s
}

func newRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	k, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return k
}

func userClaims(companyID string, exp time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":               "test-user-123",
		"email":             "test@example.com",
		"cognito:username":  "tester",
		"custom:company_id": companyID,
		"iat":               time.Now().Add(-time.Minute).Unix(),
		"exp":               exp.Unix(),
	}
}

func signRS256(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.Claims) string {
	t.Helper()
	tkn := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if kid != "" {
		tkn.Header["kid"] = kid
	}
	s, err := tkn.SignedString(key)
	require.NoError(t, err)
	return s
}

func TestVerify_ValidToken(t *testing.T) {
	t.Parallel()

	key := newRSAKey(t)
	srv := newJWKSServer(t, map[string]*rsa.PrivateKey{"k1": key})
	v := NewVerifier(NewKeySet(srv.URL, 10, srv.Client()))

	exp := time.Now().Add(time.Hour)
	claims, err := v.Verify(context.Background(), signRS256(t, key, "k1", userClaims("1", exp)))
	require.NoError(t, err)

	assert.Equal(t, "test-user-123", claims.Subject)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.Equal(t, "tester", claims.Username)
	assert.Equal(t, "1", claims.CompanyID)
	assert.WithinDuration(t, exp, claims.ExpiresAt, time.Second)
	assert.False(t, claims.IssuedAt.IsZero())
}

func TestVerify_KeysAreCached(t *testing.T) {
	t.Parallel()

	key := newRSAKey(t)
	srv := newJWKSServer(t, map[string]*rsa.PrivateKey{"k1": key})
	v := NewVerifier(NewKeySet(srv.URL, 10, srv.Client()))

	tok := signRS256(t, key, "k1", userClaims("1", time.Now().Add(time.Hour)))
	for i := 0; i < 5; i++ {
		_, err := v.Verify(context.Background(), tok)
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, srv.hits.Load())
}

func TestVerify_Rejections(t *testing.T) {
	t.Parallel()

	key := newRSAKey(t)
	other := newRSAKey(t)
	srv := newJWKSServer(t, map[string]*rsa.PrivateKey{"k1": key})
	v := NewVerifier(NewKeySet(srv.URL, 100, srv.Client()))

	hs := jwt.NewWithClaims(jwt.SigningMethodHS256, userClaims("1", time.Now().Add(time.Hour)))
	hs.Header["kid"] = "k1"
	hsToken, err := hs.SignedString([]byte("test-secret-key"))
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, userClaims("1", time.Now().Add(time.Hour)))
	none.Header["kid"] = "k1"
	noneToken, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExp := userClaims("1", time.Now())
	delete(noExp, "exp")

	cases := map[string]string{
		"expired":         signRS256(t, key, "k1", userClaims("1", time.Now().Add(-time.Hour))),
		"wrong signature": signRS256(t, other, "k1", userClaims("1", time.Now().Add(time.Hour))),
		"unknown kid":     signRS256(t, key, "k2", userClaims("1", time.Now().Add(time.Hour))),
		"missing kid":     signRS256(t, key, "", userClaims("1", time.Now().Add(time.Hour))),
		"missing exp":     signRS256(t, key, "k1", noExp),
		"hmac downgrade":  hsToken,
		"alg none":        noneToken,
		"malformed":       "not.a.jwt",
		"empty":           "",
	}

	for name, tok := range cases {
		_, err := v.Verify(context.Background(), tok)
		require.Error(t, err, name)
		assert.True(t, apperr.Is(err, apperr.KindUnauthorized), name)
		assert.Equal(t, "Invalid token", err.Error(), name)
	}
}

func TestVerify_IssuerAndClient(t *testing.T) {
	t.Parallel()

	key := newRSAKey(t)
	srv := newJWKSServer(t, map[string]*rsa.PrivateKey{"k1": key})
	keys := NewKeySet(srv.URL, 10, srv.Client())
	v := NewVerifier(keys, WithIssuer("https://issuer.example"), WithClientID("app-client"))

	good := userClaims("1", time.Now().Add(time.Hour))
	good["iss"] = "https://issuer.example"
	good["client_id"] = "app-client"
	_, err := v.Verify(context.Background(), signRS256(t, key, "k1", good))
	require.NoError(t, err)

	idToken := userClaims("1", time.Now().Add(time.Hour))
	idToken["iss"] = "https://issuer.example"
	idToken["aud"] = "app-client"
	_, err = v.Verify(context.Background(), signRS256(t, key, "k1", idToken))
	require.NoError(t, err)

	wrongIss := userClaims("1", time.Now().Add(time.Hour))
	wrongIss["iss"] = "https://evil.example"
	wrongIss["client_id"] = "app-client"
	_, err = v.Verify(context.Background(), signRS256(t, key, "k1", wrongIss))
	require.Error(t, err)

	wrongClient := userClaims("1", time.Now().Add(time.Hour))
	wrongClient["iss"] = "https://issuer.example"
	wrongClient["client_id"] = "other"
	_, err = v.Verify(context.Background(), signRS256(t, key, "k1", wrongClient))
	require.Error(t, err)
}

func TestNewVerifier_DropsSymmetricAlgorithms(t *testing.T) {
	t.Parallel()

	v := NewVerifier(nil, WithAlgorithms("none", "HS256", "RS256", "ES256", "bogus"))
	assert.Equal(t, []string{"RS256", "ES256"}, v.algorithms)

	v = NewVerifier(nil, WithAlgorithms("HS512"))
	_, err := v.Verify(context.Background(), "a.b.c")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestKeySet_RefreshIsRateLimited(t *testing.T) {
	t.Parallel()

	key := newRSAKey(t)
	srv := newJWKSServer(t, map[string]*rsa.PrivateKey{"k1": key})
	ks := NewKeySet(srv.URL, 1, srv.Client())

	_, err := ks.Key(context.Background(), "k1")
	require.NoError(t, err)

	_, err = ks.Key(context.Background(), "forged-1")
	assert.ErrorIs(t, err, ErrFetchThrottled)
	_, err = ks.Key(context.Background(), "forged-2")
	assert.ErrorIs(t, err, ErrFetchThrottled)

	assert.EqualValues(t, 1, srv.hits.Load())

	// cached keys keep resolving while refreshes are throttled
	_, err = ks.Key(context.Background(), "k1")
	require.NoError(t, err)
}

func TestKeySet_UpstreamFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	ks := NewKeySet(srv.URL, 10, srv.Client())
	_, err := ks.Key(context.Background(), "k1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 503")
}

func TestVerify_CompanyIDAndGroupsClaimForms(t *testing.T) {
	t.Parallel()

	key := newRSAKey(t)
	srv := newJWKSServer(t, map[string]*rsa.PrivateKey{"k1": key})
	v := NewVerifier(NewKeySet(srv.URL, 10, srv.Client()))
	exp := time.Now().Add(time.Hour)

	numeric := userClaims("", exp)
	numeric["custom:company_id"] = 1
	numeric["cognito:groups"] = []string{"staff"}
	claims, err := v.Verify(context.Background(), signRS256(t, key, "k1", numeric))
	require.NoError(t, err)
	assert.Equal(t, "1", claims.CompanyID)
	assert.True(t, claims.InGroup("staff"))
	assert.False(t, claims.InGroup("vendors"))

	// a fractional id still verifies; the tenant stage rejects it
	fractional := userClaims("", exp)
	fractional["custom:company_id"] = 1.5
	claims, err = v.Verify(context.Background(), signRS256(t, key, "k1", fractional))
	require.NoError(t, err)
	assert.Equal(t, "1.5", claims.CompanyID)

	absent := userClaims("", exp)
	delete(absent, "custom:company_id")
	claims, err = v.Verify(context.Background(), signRS256(t, key, "k1", absent))
	require.NoError(t, err)
	assert.Empty(t, claims.CompanyID)
	assert.Empty(t, claims.Groups)
}
