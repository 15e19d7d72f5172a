package api

import (
	"context"
	"net/http"

	"github.com/maynagashev/gophblog/models"
)

type deleteUserBody struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

type favoriteBody struct {
	PostID string `json:"postId"`
}

// ListUsers получает список пользователей.
func (c *httpClient) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.doJSON(ctx, "список пользователей", http.MethodGet, "/api/users", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser получает пользователя по идентификатору.
func (c *httpClient) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := c.doJSON(ctx, "получение пользователя", http.MethodGet, idPath("/api/users", id), nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser изменяет профиль пользователя.
func (c *httpClient) UpdateUser(ctx context.Context, id string, update models.UserUpdate) (*models.User, error) {
	var user models.User
	err := c.doJSON(ctx, "изменение профиля", http.MethodPut, idPath("/api/users", id), nil, update, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser удаляет пользователя. В теле запроса передается тот, кто удаляет.
func (c *httpClient) DeleteUser(ctx context.Context, id string, actor models.User) error {
	body := deleteUserBody{UserID: actor.ID, Username: actor.Username}
	return c.doJSON(ctx, "удаление пользователя", http.MethodDelete, idPath("/api/users", id), nil, body, nil)
}

// Favorites получает избранные посты пользователя.
func (c *httpClient) Favorites(ctx context.Context, userID string) ([]models.Post, error) {
	var posts []models.Post
	err := c.doJSON(ctx, "избранное", http.MethodGet, idPath("/api/users", userID, "favorites"), nil, nil, &posts)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ToggleFavorite добавляет пост в избранное пользователя или убирает его.
func (c *httpClient) ToggleFavorite(ctx context.Context, userID, postID string) error {
	return c.doJSON(ctx, "изменение избранного", http.MethodPost, idPath("/api/users", userID, "favorites"), nil,
		favoriteBody{PostID: postID}, nil)
}
