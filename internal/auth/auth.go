package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	serverrors "github.com/theheadmen/figurine/internal/errors"
)

const (
	// SessionTTL задает срок жизни cookie сессии.
	SessionTTL = 72 * time.Hour
	// ConfirmTokenTTL задает срок жизни ссылки подтверждения почты.
	ConfirmTokenTTL = time.Hour

	confirmPurpose = "email-confirm"
)

// SessionClaims хранится в подписанной cookie, сервер не держит таблицу сессий.
type SessionClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// ConfirmClaims подтверждает владение адресом почты. Токен не хранится на
// сервере и до истечения срока может быть предъявлен повторно, повторное
// подтверждение трактуется как no-op.
type ConfirmClaims struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// HashPassword возвращает bcrypt-хеш пароля.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword сверяет bcrypt-хеш с паролем за константное время.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// GenerateSessionToken выпускает подписанный токен сессии для пользователя.
func GenerateSessionToken(secret []byte, userID uint) (string, error) {
	return generateSessionToken(secret, userID, time.Now())
}

func generateSessionToken(secret []byte, userID uint, now time.Time) (string, error) {
	claims := SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ValidateSessionToken разбирает токен сессии и возвращает ID пользователя.
func ValidateSessionToken(secret []byte, tokenString string) (uint, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(tok *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return 0, jwt.ErrTokenInvalidClaims
	}
	return claims.UserID, nil
}

// GenerateConfirmToken выпускает токен подтверждения почты со сроком в один час.
func GenerateConfirmToken(secret []byte, email string) (string, error) {
	return generateConfirmToken(secret, email, time.Now())
}

func generateConfirmToken(secret []byte, email string, now time.Time) (string, error) {
	claims := ConfirmClaims{
		Email:   email,
		Purpose: confirmPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ConfirmTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyConfirmToken проверяет токен подтверждения и возвращает почту из него.
// Просроченный токен дает ErrTokenExpired, любой другой дефект ErrTokenInvalid,
// наружу обе ошибки показываются одним сообщением.
func VerifyConfirmToken(secret []byte, tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ConfirmClaims{}, func(tok *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", serverrors.ErrTokenExpired
		}
		return "", serverrors.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*ConfirmClaims)
	if !ok || !token.Valid || claims.Purpose != confirmPurpose || claims.Email == "" {
		return "", serverrors.ErrTokenInvalid
	}
	return claims.Email, nil
}
