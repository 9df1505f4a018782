package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultTTL = 720 * time.Minute

	subjectAdmin = "admin"
)

// ErrUnauthorized is returned for every kind of credential failure:
// bad signature, malformed token, expired token, wrong subject. The
// caller must not be able to tell which part was wrong.
var ErrUnauthorized = errors.New("unauthorized")

type Admin struct {
	Username     string
	PasswordHash string
}

// TokenService issues and validates signed, time-limited admin
// credentials. Stateless: validity is a function of signature and
// expiry only, no server-side session store.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	// injectable clock for expiry tests
	now func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *TokenService) Issue() (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subjectAdmin,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *TokenService) Validate(tokenString string) error {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrUnauthorized
			}
			return s.secret, nil
		},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil || !token.Valid {
		return ErrUnauthorized
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject != subjectAdmin {
		return ErrUnauthorized
	}

	return nil
}
