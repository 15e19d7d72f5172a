package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrEmptyToken возвращается при разборе пустого токена.
var ErrEmptyToken = errors.New("токен отсутствует")

// TokenInfo - сведения из токена сессии, показываемые пользователю.
type TokenInfo struct {
	Subject   string
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time // Нулевое значение - срок не указан
}

// Expired сообщает, истек ли токен к моменту now.
func (t TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}

// ParseToken разбирает JWT без проверки подписи: ключа подписи у клиента нет,
// а результат используется только для отображения и не меняет состояние сессии.
func ParseToken(token string) (TokenInfo, error) {
	if token == "" {
		return TokenInfo{}, ErrEmptyToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{}, fmt.Errorf("ошибка разбора токена: %w", err)
	}

	var info TokenInfo
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	// Сервер блога кладет ID пользователя в claim "id"
	if id, ok := claims["id"].(string); ok {
		info.UserID = id
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}
