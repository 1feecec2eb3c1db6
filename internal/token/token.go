// Package token issues and validates the signed bearer tokens that stand in
// for a session. Tokens are self-contained: validity is a pure signature and
// expiry computation, no store round-trip and no revocation list. A stolen
// token therefore stays verifiable until it expires; the request layer closes
// the gap by re-checking that the account is still active.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken indicates a malformed token or a signature that does
	// not verify.
	ErrInvalidToken = errors.New("token: invalid")
	// ErrExpiredToken indicates a well-formed token past its expiry. Callers
	// surface it identically to ErrInvalidToken; the distinction exists for
	// logging only.
	ErrExpiredToken = errors.New("token: expired")
)

// DefaultTTL is the issued-token lifetime when none is configured.
const DefaultTTL = time.Hour

type claims struct {
	jwt.RegisteredClaims
}

// Service signs and verifies access tokens with a process-wide HMAC secret.
// The secret is injected at construction and immutable afterwards, so the
// service is safe for concurrent use.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService constructs a Service. The secret must be non-empty; loading and
// validating it is the caller's responsibility (missing secret is a fatal
// configuration error at startup).
func NewService(secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue creates a signed token carrying the identity identifier. Issuance is
// stateless: nothing is persisted.
func (s *Service) Issue(identityID int64) (string, error) {
	now := s.now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(identityID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Validate verifies the signature and expiry and returns the embedded
// identity identifier. It does not check whether the identity still exists or
// is active; that is the caller's responsibility.
func (s *Service) Validate(raw string) (int64, error) {
	parsed, err := jwt.ParseWithClaims(raw, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrExpiredToken
		}
		return 0, ErrInvalidToken
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// TTL reports the configured token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}
