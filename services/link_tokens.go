package services

import (
	"fmt"
	"time"

	"main/model"
	"main/utils"

	"github.com/golang-jwt/jwt/v5"
)

const linkTokenIssuer = "familyshield"

// GenerateConfirmationToken signs the token embedded in a guardian's
// confirmation link. The link is the guardian's only credential for the
// confirm endpoint, so it carries the activation request, the guardian
// and a hard expiry matching the activation window.
func GenerateConfirmationToken(requestID, guardianID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"request_id":  requestID,
		"guardian_id": guardianID,
		"purpose":     "guardian_confirmation",
		"iss":         linkTokenIssuer,
		"iat":         now.Unix(),
		"exp":         now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(utils.JWTSecretKey))
}

// ParseConfirmationToken validates a confirmation link token and returns
// the request and guardian IDs.
func ParseConfirmationToken(tokenString string) (requestID, guardianID string, err error) {
	claims, err := parseLinkToken(tokenString, "guardian_confirmation")
	if err != nil {
		return "", "", err
	}

	requestID, _ = claims["request_id"].(string)
	guardianID, _ = claims["guardian_id"].(string)
	if requestID == "" || guardianID == "" {
		return "", "", fmt.Errorf("confirmation token missing claims: %w", model.ErrUnauthorized)
	}

	return requestID, guardianID, nil
}

// GenerateDownloadToken signs a short-lived URL token for a single
// document fetch from the external store.
func GenerateDownloadToken(documentID, guardianID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"document_id": documentID,
		"guardian_id": guardianID,
		"purpose":     "document_download",
		"iss":         linkTokenIssuer,
		"iat":         now.Unix(),
		"exp":         now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(utils.JWTSecretKey))
}

func parseLinkToken(tokenString, purpose string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(utils.JWTSecretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid link token (%v): %w", err, model.ErrUnauthorized)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid link token claims: %w", model.ErrUnauthorized)
	}

	if p, _ := claims["purpose"].(string); p != purpose {
		return nil, fmt.Errorf("link token purpose mismatch: %w", model.ErrUnauthorized)
	}
	if iss, _ := claims["iss"].(string); iss != linkTokenIssuer {
		return nil, fmt.Errorf("invalid link token issuer: %w", model.ErrUnauthorized)
	}

	return claims, nil
}
