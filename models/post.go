package models

import "time"

// Post представляет пост блога.
type Post struct {
	ID         string    `json:"_id"`
	Title      string    `json:"title"`
	Desc       string    `json:"desc"`
	Photo      string    `json:"photo,omitempty"`
	Username   string    `json:"username"`
	Categories []string  `json:"categories"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// PostInput - тело запроса на создание или изменение поста.
type PostInput struct {
	Username   string   `json:"username"`
	Title      string   `json:"title"`
	Desc       string   `json:"desc"`
	Categories []string `json:"categories"`
	Photo      string   `json:"photo,omitempty"`
}

// CanEdit сообщает, может ли пользователь username редактировать и удалять пост.
// Править может автор поста или администратор.
func (p Post) CanEdit(username string) bool {
	if username == "" {
		return false
	}
	return p.Username == username || username == AdminUsername
}

// AdminUsername - имя учетной записи администратора.
const AdminUsername = "admin"
