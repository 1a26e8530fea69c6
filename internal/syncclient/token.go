package syncclient

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims identifies one delivery to the sync endpoint
type Claims struct {
	RecordID string `json:"record_id"`
	jwt.RegisteredClaims
}

// GenerateToken signs a short-lived HS256 token bound to a record id
func GenerateToken(secret, issuer, recordID string, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		RecordID: recordID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        recordID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
