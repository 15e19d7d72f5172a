package models

import "time"

// User представляет профиль пользователя блога.
// Тэги `json` совпадают с полями, которые отдает сервер.
type User struct {
	ID         string    `json:"_id"`
	Username   string    `json:"username"`
	Email      string    `json:"email,omitempty"`
	ProfilePic string    `json:"profilePic,omitempty"` // Имя файла картинки на сервере
	Favorites  []string  `json:"favorites,omitempty"`  // ID избранных постов
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// HasFavorite сообщает, находится ли пост в избранном пользователя.
func (u User) HasFavorite(postID string) bool {
	for _, id := range u.Favorites {
		if id == postID {
			return true
		}
	}
	return false
}

// AuthUser - запись аутентифицированного пользователя: профиль и токен.
// Именно она хранится в сессии и сохраняется на диск.
type AuthUser struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// RegisterRequest представляет тело запроса на регистрацию.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest представляет тело запроса на вход.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserUpdate - тело запроса на изменение профиля.
// Пустой пароль не отправляется, текущий пароль остается прежним.
type UserUpdate struct {
	UserID     string   `json:"userId"`
	Username   string   `json:"username"`
	Email      string   `json:"email"`
	Password   string   `json:"password,omitempty"`
	ProfilePic string   `json:"profilePic,omitempty"`
	Favorites  []string `json:"favorites"`
}
