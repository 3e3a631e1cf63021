package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"

	"github.com/fonelab/repairshopgo/internal/models"
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

// CheckPasswordHash compares a password with a hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateSessionToken issues a full session token for an authenticated user.
// Accounts with a registered second factor only receive this after the TOTP
// step; see GeneratePendingToken.
func GenerateSessionToken(user *models.UserAuth, secret string) (string, error) {
	claims := jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"role":  user.Role,
		"exp":   time.Now().Add(time.Hour * 24).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GeneratePendingToken issues a short-lived token after a correct password
// when the account still owes a TOTP code. The auth gate treats it as
// anonymous; it is only good for the /auth/totp exchange.
func GeneratePendingToken(user *models.UserAuth, secret string) (string, error) {
	claims := jwt.MapClaims{
		"id":          user.ID,
		"pending_2fa": true,
		"exp":         time.Now().Add(time.Minute * 5).Unix(),
		"iat":         time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken parses and validates a token
func ValidateToken(tokenString string, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// IsPendingSecondFactor reports whether claims belong to a half-finished login
func IsPendingSecondFactor(claims jwt.MapClaims) bool {
	pending, _ := claims["pending_2fa"].(bool)
	return pending
}

// GenerateTOTPSecret creates a new TOTP secret for enrolling a second factor
func GenerateTOTPSecret(account string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "repairshopgo",
		AccountName: account,
	})
	if err != nil {
		return "", err
	}
	return key.Secret(), nil
}

// VerifyTOTP checks a 6-digit code against the stored secret
func VerifyTOTP(code, secret string) bool {
	return totp.Validate(code, secret)
}
