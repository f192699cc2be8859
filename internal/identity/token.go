package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/marketsquare/account-system/internal/core/domain"
)

// TokenCodec issues and verifies session tokens. A token is an HS256 JWT
// whose jti names the server-side session record; the JWT alone is never
// sufficient because sign-out deletes the record and the token dies with it.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl}
}

// TTL is the session lifetime baked into issued tokens.
func (c *TokenCodec) TTL() time.Duration { return c.ttl }

// Issue creates a token for userUUID and returns it with its session id.
func (c *TokenCodec) Issue(userUUID string) (token, sessionID string, err error) {
	sessionID = uuid.NewString()
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   userUUID,
		ID:        sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", "", err
	}
	return token, sessionID, nil
}

// Parse verifies the signature and expiry and returns the session id and
// user uuid. Every failure maps to ErrSessionNotFound: the caller only needs
// to know the token no longer identifies a session.
func (c *TokenCodec) Parse(token string) (sessionID, userUUID string, err error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid || claims.ID == "" || claims.Subject == "" {
		return "", "", domain.ErrSessionNotFound
	}
	return claims.ID, claims.Subject, nil
}
