// Package token issues and validates the stateless HS256 bearer tokens used by
// the API. A token carries only the subject id and its expiry; nothing is
// stored server side, so a token stays valid until it expires.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the lifetime of a login token.
const DefaultTTL = 24 * time.Hour

var (
	ErrEmptySecret      = errors.New("token: signing secret is empty")
	ErrMalformed        = errors.New("token: malformed")
	ErrSignatureInvalid = errors.New("token: signature invalid")
	ErrExpired          = errors.New("token: expired")
)

// Claims is the verified payload of a token.
type Claims struct {
	SubjectID int64
	ExpiresAt time.Time
}

// wireClaims is the JSON form signed into the token: {"sub": 1, "exp": 1700000000}.
type wireClaims struct {
	Sub int64            `json:"sub"`
	Exp *jwt.NumericDate `json:"exp"`
}

func (c wireClaims) GetExpirationTime() (*jwt.NumericDate, error) { return c.Exp, nil }
func (c wireClaims) GetIssuedAt() (*jwt.NumericDate, error)       { return nil, nil }
func (c wireClaims) GetNotBefore() (*jwt.NumericDate, error)      { return nil, nil }
func (c wireClaims) GetIssuer() (string, error)                   { return "", nil }
func (c wireClaims) GetSubject() (string, error)                  { return "", nil }
func (c wireClaims) GetAudience() (jwt.ClaimStrings, error)       { return nil, nil }

// Validator is what the auth gate needs from a Service.
type Validator interface {
	Validate(tokenString string) (Claims, error)
}

type Service struct {
	secret []byte
	now    func() time.Time
	parser *jwt.Parser
}

type Option func(*Service)

// WithClock replaces time.Now for issuance and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService builds a Service around the process-wide secret. The secret is
// copied, so later changes to the caller's slice have no effect.
func NewService(secret []byte, opts ...Option) (*Service, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	s := &Service{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	return s, nil
}

// Issue signs a token for subjectID that expires ttl from now.
func (s *Service) Issue(subjectID int64, ttl time.Duration) (string, error) {
	claims := wireClaims{
		Sub: subjectID,
		Exp: jwt.NewNumericDate(s.now().Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Validate parses tokenString, checks the signature and then the expiry.
// The returned error wraps exactly one of ErrMalformed, ErrSignatureInvalid
// or ErrExpired.
func (s *Service) Validate(tokenString string) (Claims, error) {
	var wc wireClaims
	_, err := s.parser.ParseWithClaims(tokenString, &wc, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return Claims{}, classify(err)
	}
	return Claims{SubjectID: wc.Sub, ExpiresAt: wc.Exp.Time}, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", ErrSignatureInvalid, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrExpired, err)
	default:
		// well-formed JWT whose claims are unusable, e.g. no exp
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
}
