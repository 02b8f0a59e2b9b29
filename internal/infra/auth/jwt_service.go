// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"taskhub/config"
	"taskhub/internal/domain/service"
)

// subjectClaimOrder is the documented priority for resolving the subject id
// from token claims: "sub" first, then "id", then "user_id". The fallbacks
// keep tokens from producers that use a different claim name usable.
var subjectClaimOrder = []string{"sub", "id", "user_id"}

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret string
	now    func() time.Time
}

// NewJWTService is the constructor for jwtService. An opaque-mode deployment
// may leave the secret empty since no signed token is ever issued there.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" {
		if cfg.Auth != nil && cfg.Auth.TokenMode == config.TokenModeOpaque {
			return newJWTService("", time.Now), nil
		}

		return nil, errors.New("jwt secret must be provided")
	}

	return newJWTService(cfg.SecretKey.Access, time.Now), nil
}

func newJWTService(secret string, now func() time.Time) *jwtService {
	return &jwtService{secret: secret, now: now}
}

// secretKey is the single accessor for the signing secret. Rotation support
// would only need to touch this method.
func (s *jwtService) secretKey() []byte {
	return []byte(s.secret)
}

// Issue creates a signed HS256 token carrying the subject and validity
// window, plus email and name when known.
func (s *jwtService) Issue(claims service.Claims, ttl time.Duration) (string, error) {
	now := s.now()

	mapClaims := jwt.MapClaims{
		"sub": claims.Subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if claims.Email != "" {
		mapClaims["email"] = claims.Email
	}
	if claims.Name != "" {
		mapClaims["name"] = claims.Name
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)

	signed, err := token.SignedString(s.secretKey())
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Validate checks the signature and expiry of a token string and decodes its
// claims. Every failure collapses into service.ErrTokenInvalid so callers
// respond uniformly.
func (s *jwtService) Validate(tokenString string) (*service.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secretKey(), nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, service.ErrTokenInvalid
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, service.ErrTokenInvalid
	}

	subject := firstStringClaim(mapClaims, subjectClaimOrder)
	if subject == "" {
		return nil, service.ErrTokenInvalid
	}

	out := &service.Claims{Subject: subject}
	if email, ok := mapClaims["email"].(string); ok {
		out.Email = email
	}
	if name, ok := mapClaims["name"].(string); ok {
		out.Name = name
	}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}

	return out, nil
}

// firstStringClaim returns the first present, non-empty string value among
// the candidate claim names, in order.
func firstStringClaim(claims jwt.MapClaims, names []string) string {
	for _, name := range names {
		if v, ok := claims[name].(string); ok && v != "" {
			return v
		}
	}

	return ""
}
