package tokens

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Skotchmaster/facility_platform/pkg/apperr"
	"github.com/Skotchmaster/facility_platform/pkg/logging"
)

var errMissingKid = errors.New("tokens: token header has no kid")

type Verifier struct {
	keys       KeyProvider
	algorithms []string
	issuer     string
	clientID   string
	leeway     time.Duration
	now        func() time.Time
}

type Option func(*Verifier)

// WithAlgorithms replaces the accepted signing algorithms. Symmetric and
// "none" algorithms are dropped from the list whatever the caller passes.
func WithAlgorithms(algs ...string) Option {
	return func(v *Verifier) { v.algorithms = algs }
}

func WithIssuer(iss string) Option {
	return func(v *Verifier) { v.issuer = iss }
}

// WithClientID requires the token to be issued for the given app client,
// either through aud (id tokens) or client_id (access tokens).
func WithClientID(id string) Option {
	return func(v *Verifier) { v.clientID = id }
}

func WithLeeway(d time.Duration) Option {
	return func(v *Verifier) { v.leeway = d }
}

func WithClock(now func() time.Time) Option {
	return func(v *Verifier) { v.now = now }
}

func NewVerifier(keys KeyProvider, opts ...Option) *Verifier {
	v := &Verifier{
		keys:       keys,
		algorithms: []string{jwt.SigningMethodRS256.Alg()},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.algorithms = asymmetricOnly(v.algorithms)
	return v
}

// Verify checks signature, algorithm, expiry and issuer of raw. Every failure
// is reported as the same unauthorized error so callers cannot tell which
// check rejected the token.
func (v *Verifier) Verify(ctx context.Context, raw string) (*Claims, error) {
	claims, err := v.verify(ctx, raw)
	if err != nil {
		logging.FromContext(ctx).Debug("token_rejected", "reason", err.Error())
		return nil, apperr.Unauthorized("Invalid token")
	}
	return claims, nil
}

func (v *Verifier) verify(ctx context.Context, raw string) (*Claims, error) {
	if len(v.algorithms) == 0 {
		return nil, errors.New("tokens: no acceptable signing algorithm configured")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods(v.algorithms),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(v.leeway),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var pc userPoolClaims
	tkn, err := jwt.NewParser(opts...).ParseWithClaims(raw, &pc, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errMissingKid
		}
		return v.keys.Key(ctx, kid)
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("tokens: token is not valid")
	}

	if v.clientID != "" && pc.ClientID != v.clientID && !slices.Contains(pc.Audience, v.clientID) {
		return nil, errors.New("tokens: token issued for another client")
	}

	return pc.toClaims(), nil
}

func asymmetricOnly(algs []string) []string {
	out := make([]string, 0, len(algs))
	for _, alg := range algs {
		switch jwt.GetSigningMethod(alg).(type) {
		case *jwt.SigningMethodRSA, *jwt.SigningMethodRSAPSS, *jwt.SigningMethodECDSA, *jwt.SigningMethodEd25519:
			out = append(out, alg)
		}
	}
	return out
}
