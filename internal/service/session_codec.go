package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mirfeed/internal/models"
)

type sessionClaims struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	jwt.RegisteredClaims
}

// sessionCodec serializes the session record as a signed token so a record
// edited outside the app is read back as "no session".
type sessionCodec struct {
	secret []byte
	now    func() time.Time
}

func newSessionCodec(secret string, now func() time.Time) *sessionCodec {
	return &sessionCodec{secret: []byte(secret), now: now}
}

func (c *sessionCodec) Encode(user *models.User) (string, error) {
	claims := sessionClaims{
		Name:     user.Name,
		Username: user.Username,
		Email:    user.Email,
		Avatar:   user.Avatar,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  user.ID,
			IssuedAt: jwt.NewNumericDate(c.now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи сессии: %w", err)
	}

	return tokenString, nil
}

func (c *sessionCodec) Decode(tokenString string) (*models.User, error) {
	var claims sessionClaims

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга сессии: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("недействительная сессия")
	}

	if claims.Subject == "" {
		return nil, errors.New("в сессии нет идентификатора пользователя")
	}

	if isBlank(claims.Name) || isBlank(claims.Username) || isBlank(claims.Email) {
		return nil, errors.New("неполная запись сессии")
	}

	return &models.User{
		ID:       claims.Subject,
		Name:     claims.Name,
		Username: claims.Username,
		Email:    claims.Email,
		Avatar:   claims.Avatar,
	}, nil
}
