package api

import (
	"context"
	"net/http"

	"github.com/maynagashev/gophblog/models"
)

type commentBody struct {
	PostID   string `json:"postId,omitempty"`
	Username string `json:"username"`
	Content  string `json:"content"`
}

type likeBody struct {
	UserID string `json:"userId"`
}

// ListComments получает комментарии к посту.
func (c *httpClient) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := c.doJSON(ctx, "список комментариев", http.MethodGet, idPath("/api/comments", postID), nil, nil, &comments)
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateComment добавляет комментарий к посту.
func (c *httpClient) CreateComment(ctx context.Context, postID, username, content string) (*models.Comment, error) {
	body := commentBody{PostID: postID, Username: username, Content: content}

	var comment models.Comment
	if err := c.doJSON(ctx, "создание комментария", http.MethodPost, "/api/comments", nil, body, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateComment изменяет текст комментария.
func (c *httpClient) UpdateComment(ctx context.Context, id, username, content string) (*models.Comment, error) {
	body := commentBody{Username: username, Content: content}

	var comment models.Comment
	err := c.doJSON(ctx, "изменение комментария", http.MethodPut, idPath("/api/comments", id), nil, body, &comment)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment удаляет комментарий.
func (c *httpClient) DeleteComment(ctx context.Context, id, username string) error {
	return c.doJSON(ctx, "удаление комментария", http.MethodDelete, idPath("/api/comments", id), nil,
		usernameBody{Username: username}, nil)
}

// LikeComment переключает лайк пользователя и возвращает обновленный комментарий.
func (c *httpClient) LikeComment(ctx context.Context, id, userID string) (*models.Comment, error) {
	var comment models.Comment
	err := c.doJSON(ctx, "лайк комментария", http.MethodPut, idPath("/api/comments", id, "like"), nil,
		likeBody{UserID: userID}, &comment)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}
