package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// DefaultTokenTTL is the session token lifetime used when no TTL is
// configured.
const DefaultTokenTTL = 30 * time.Minute

// Token validation errors. Both are terminal: the caller must
// re-authenticate, there is no point retrying validation.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// TokenService issues and validates signed, time-limited session tokens.
// Tokens are stateless HS256 JWTs; there is no server-side revocation, so
// compromise mitigation relies on the short TTL.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService signing with the given secret key.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue signs a token carrying the subject and an expiry of now+ttl.
func (s *TokenService) Issue(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
	})
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Validate verifies the signature and expiry of a token and returns its
// subject. A token is expired at its expiry instant, not one second after,
// so a zero-TTL token never validates. Expired tokens yield ErrTokenExpired;
// anything malformed, forged or tampered with yields ErrTokenInvalid.
func (s *TokenService) Validate(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		var vErr *jwt.ValidationError
		// An expired claim only counts as Expired when the signature held up;
		// a tampered token must never validate as merely expired.
		if errors.As(err, &vErr) && vErr.Errors == jwt.ValidationErrorExpired {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrTokenInvalid
	}
	// jwt-go only rejects once now is strictly past exp, which would let a
	// token through during its expiry second. Re-check the claim with >= so
	// the expiry instant itself is already expired. This runs only after
	// the signature held up, so a tampered token can never reach it.
	exp, ok := claims["exp"].(float64)
	if !ok {
		return "", fmt.Errorf("%w: missing expiry claim", ErrTokenInvalid)
	}
	if time.Now().Unix() >= int64(exp) {
		return "", ErrTokenExpired
	}
	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return "", fmt.Errorf("%w: missing subject claim", ErrTokenInvalid)
	}
	return subject, nil
}
