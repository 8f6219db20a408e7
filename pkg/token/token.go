// Package token encodes and decodes the signed bearer tokens used by both
// services. Tokens are HS256 JWTs carrying the username, role, token kind and
// an absolute expiry; any process holding the shared secret can validate them,
// so no server-side session store exists.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind distinguishes the two token flavours issued per session.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

const (
	// AccessTTL is the lifetime of an access token.
	AccessTTL = 30 * time.Minute
	// RefreshTTL is the lifetime of a refresh token.
	RefreshTTL = 7 * 24 * time.Hour
)

var (
	// ErrExpired is returned when the token's expiry is in the past.
	ErrExpired = errors.New("token has expired")
	// ErrInvalid is returned on signature failure, malformed input, or
	// missing required claims.
	ErrInvalid = errors.New("invalid token")
)

// Claims is the decoded payload of a bearer token.
type Claims struct {
	Subject   string
	Role      string
	Kind      Kind
	ExpiresAt time.Time
}

// wireClaims is the JWT representation. Field names match the original
// library wire format so tokens stay interchangeable across services.
type wireClaims struct {
	Role string `json:"user_type"`
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// Codec signs and verifies tokens with a single symmetric secret.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCodec returns a Codec signing with secret and the default TTLs.
func NewCodec(secret string) *Codec {
	return &Codec{
		secret:     []byte(secret),
		accessTTL:  AccessTTL,
		refreshTTL: RefreshTTL,
	}
}

// Encode issues a signed token of the given kind for subject and role. The
// expiry is absolute: AccessTTL or RefreshTTL from now depending on kind.
func (c *Codec) Encode(subject, role string, kind Kind) (string, error) {
	if subject == "" || role == "" {
		return "", ErrInvalid
	}

	ttl := c.accessTTL
	if kind == KindRefresh {
		ttl = c.refreshTTL
	}

	claims := wireClaims{
		Role: role,
		Type: string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Decode verifies signature and expiry and returns the embedded claims.
// Expired tokens fail with ErrExpired even when otherwise well-formed; every
// other failure mode (bad signature, wrong algorithm, missing subject, kind
// or role) is ErrInvalid. Decode has no side effects.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	var wc wireClaims
	tkn, err := jwt.ParseWithClaims(tokenString, &wc, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	if !tkn.Valid {
		return nil, ErrInvalid
	}

	if wc.Subject == "" || wc.Role == "" || wc.Type == "" || wc.ExpiresAt == nil {
		return nil, ErrInvalid
	}

	return &Claims{
		Subject:   wc.Subject,
		Role:      wc.Role,
		Kind:      Kind(wc.Type),
		ExpiresAt: wc.ExpiresAt.Time,
	}, nil
}
