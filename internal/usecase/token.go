package usecase

import (
	"errors"
	"time"

	"shopapi/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
)

var errNoSigningSecret = errors.New("jwt secret is not configured")

// アクセストークンの発行
type TokenIssuer interface {
	Issue(userID string, role model.Role, now time.Time) (string, time.Time, error)
}

// HS256 の jwt。middleware.AuthJWT が読む sub / role を入れる
type JWTIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

// DI
func NewJWTIssuer(secret string, accessTTL time.Duration) *JWTIssuer {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	return &JWTIssuer{secret: []byte(secret), accessTTL: accessTTL}
}

func (i *JWTIssuer) Issue(userID string, role model.Role, now time.Time) (string, time.Time, error) {
	if len(i.secret) == 0 {
		return "", time.Time{}, errNoSigningSecret
	}
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
