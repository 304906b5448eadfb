package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/coursekit/platform-service/internal/models"
)

// Type discriminates what a token may be used for. A token is only ever
// valid for the operation matching its type.
type Type string

const (
	TypeAccess        Type = "access"
	TypeRefresh       Type = "refresh"
	TypeResetPassword Type = "resetPassword"
	TypeVerifyEmail   Type = "verifyEmail"
)

var (
	// ErrTokenInvalid covers bad signature, malformed input and expiry.
	// Callers must not be able to tell those apart.
	ErrTokenInvalid = errors.New("token is invalid or expired")

	// ErrTokenTypeMismatch means the signature checked out but the token was
	// minted for a different purpose.
	ErrTokenTypeMismatch = errors.New("token type does not match operation")
)

// Claims is the payload carried by every signed token. Access and refresh
// tokens carry the full principal; reset and verify tokens only bind the
// subject id and email.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string            `json:"id"`
	Email    string            `json:"email"`
	Username string            `json:"username,omitempty"`
	Role     models.UserRole   `json:"role,omitempty"`
	Status   models.UserStatus `json:"status,omitempty"`
	Type     Type              `json:"type"`
}

// validate enforces the per-type required fields after a successful decode.
// Unknown types fail fast.
func (c *Claims) validate() error {
	if c.UserID == "" || c.Email == "" {
		return ErrTokenInvalid
	}
	switch c.Type {
	case TypeAccess, TypeRefresh:
		if c.Role == "" || c.Status == "" || c.Username == "" {
			return ErrTokenInvalid
		}
	case TypeResetPassword, TypeVerifyEmail:
		// subject binding only
	default:
		return ErrTokenInvalid
	}
	return nil
}

// Codec signs and verifies tokens with a single process-wide HMAC secret.
// There is no key rotation and no revocation list: any signed, unexpired
// token stays valid until expiry.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// AccessClaims builds the claim set for an access or refresh token.
func AccessClaims(user *models.User, typ Type) Claims {
	return Claims{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
		Status:   user.Status,
		Type:     typ,
	}
}

// SubjectClaims builds the claim set for reset-password and verify-email tokens.
func SubjectClaims(user *models.User, typ Type) Claims {
	return Claims{
		UserID: user.ID,
		Email:  user.Email,
		Type:   typ,
	}
}

// Sign issues a token for the given claims expiring after ttl.
func (c *Codec) Sign(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify decodes and validates a token string. Any parse, signature or
// expiry failure comes back as ErrTokenInvalid.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrTokenInvalid
	}

	if err := claims.validate(); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyType decodes a token and additionally checks its purpose. A valid
// signature with the wrong type is ErrTokenTypeMismatch.
func (c *Codec) VerifyType(tokenString string, expected Type) (*Claims, error) {
	claims, err := c.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Type != expected {
		return nil, ErrTokenTypeMismatch
	}
	return claims, nil
}
