// Package token encodes and decodes the signed claims carried by access
// and refresh tokens. Tokens are self-contained HS256 JWTs; the codec has
// no storage and no side effects beyond jti randomness.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ScopeRefresh marks refresh tokens. Access tokens carry no scope.
const ScopeRefresh = "refresh"

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

var (
	// ErrExpired means the signature verified but the token is past exp.
	ErrExpired = errors.New("token expired")
	// ErrMalformed covers every other decode failure: bad structure, bad
	// signature, wrong signing method.
	ErrMalformed = errors.New("token malformed")
)

// Claims is the payload signed into every token. A Claims value is built
// at issuance, serialized immediately, and reconstructed fresh on decode;
// it is never mutated in between.
type Claims struct {
	Role  string `json:"role"`
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// SubjectID returns the token subject (the user email).
func (c *Claims) SubjectID() string {
	return c.RegisteredClaims.Subject
}

// JTI returns the unique token identifier assigned at issuance.
func (c *Claims) JTI() string {
	return c.RegisteredClaims.ID
}

// IsRefresh reports whether the claims belong to a refresh token.
func (c *Claims) IsRefresh() bool {
	return c.Scope == ScopeRefresh
}

// Codec issues and verifies tokens with a single symmetric key. The
// signing algorithm is fixed to HS256; a token declaring anything else is
// rejected rather than negotiated.
type Codec struct {
	signingKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	clock      func() time.Time
}

// Option configures a Codec.
type Option func(*Codec)

// WithAccessTTL overrides the access token lifetime.
func WithAccessTTL(ttl time.Duration) Option {
	return func(c *Codec) {
		if ttl > 0 {
			c.accessTTL = ttl
		}
	}
}

// WithRefreshTTL overrides the refresh token lifetime.
func WithRefreshTTL(ttl time.Duration) Option {
	return func(c *Codec) {
		if ttl > 0 {
			c.refreshTTL = ttl
		}
	}
}

// WithClock sets the issuance clock for testability.
func WithClock(clock func() time.Time) Option {
	return func(c *Codec) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// NewCodec constructs a Codec signing with the given secret.
func NewCodec(signingKey string, opts ...Option) *Codec {
	c := &Codec{
		signingKey: []byte(signingKey),
		accessTTL:  defaultAccessTTL,
		refreshTTL: defaultRefreshTTL,
		clock:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// IssueAccess signs an access token for the subject/role with a fresh jti.
func (c *Codec) IssueAccess(subject, role string) (string, error) {
	return c.sign(subject, role, "", c.accessTTL)
}

// IssueRefresh signs a refresh token: same shape as an access token plus
// scope=refresh and the longer TTL.
func (c *Codec) IssueRefresh(subject, role string) (string, error) {
	return c.sign(subject, role, ScopeRefresh, c.refreshTTL)
}

func (c *Codec) sign(subject, role, scope string, ttl time.Duration) (string, error) {
	now := c.clock()
	claims := Claims{
		Role:  role,
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.signingKey)
}

// Decode verifies signature and expiry. It returns ErrExpired for tokens
// past exp and ErrMalformed for everything else.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	return c.parse(tokenString)
}

// DecodeUnchecked verifies the signature but skips expiry validation.
// Callers must treat the result as untrusted for authorization; it exists
// so logout can read jti/exp out of an already-expired token.
func (c *Codec) DecodeUnchecked(tokenString string) (*Claims, error) {
	return c.parse(tokenString, jwt.WithoutClaimsValidation())
}

func (c *Codec) parse(tokenString string, opts ...jwt.ParserOption) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return c.signingKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrMalformed
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformed
	}
	return claims, nil
}
