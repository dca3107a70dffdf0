package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/ShewonGun/FarmerBackup/internal/app_errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var signingMethod = jwt.SigningMethodHS256

type JWTManager struct {
	secretKey string
	accessTTL time.Duration
	issuer    string
}

func NewJWTManager(secretKey, issuer string, accessTTL time.Duration) *JWTManager {
	return &JWTManager{
		secretKey: secretKey,
		accessTTL: accessTTL,
		issuer:    issuer,
	}
}

type AccessTokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

func (j *JWTManager) Generate(userID uuid.UUID, role string) (string, error) {
	now := time.Now()
	claims := AccessTokenClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.accessTTL)),
		},
	}
	token := jwt.NewWithClaims(signingMethod, claims)
	return token.SignedString([]byte(j.secretKey))
}

func (j *JWTManager) AccessClaims(tokenStr string) (*AccessTokenClaims, error) {
	claims := &AccessTokenClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != signingMethod {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, app_errors.ErrTokenExpired
		}
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}
	return claims, nil
}
