package models

import "time"

// Comment представляет комментарий к посту.
type Comment struct {
	ID        string    `json:"_id"`
	PostID    string    `json:"postId"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	Likes     []string  `json:"likes"` // ID пользователей, поставивших лайк
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LikedBy сообщает, поставил ли пользователь userID лайк комментарию.
func (c Comment) LikedBy(userID string) bool {
	for _, id := range c.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// Category представляет категорию постов.
type Category struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}
