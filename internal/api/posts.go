package api

import (
	"context"
	"net/http"
	"net/url"
	"slices"

	"github.com/maynagashev/gophblog/models"
)

type usernameBody struct {
	Username string `json:"username"`
}

// ListPosts получает список постов, отфильтрованный по автору и категории.
func (c *httpClient) ListPosts(ctx context.Context, filter PostFilter) ([]models.Post, error) {
	query := url.Values{}
	if filter.User != "" {
		query.Set("user", filter.User)
	}
	if filter.Category != "" {
		query.Set("cat", filter.Category)
	}

	var posts []models.Post
	if err := c.doJSON(ctx, "список постов", http.MethodGet, "/api/posts", query, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// SearchPosts ищет посты по строке запроса.
func (c *httpClient) SearchPosts(ctx context.Context, q string) ([]models.Post, error) {
	query := url.Values{}
	query.Set("q", q)

	var posts []models.Post
	if err := c.doJSON(ctx, "поиск постов", http.MethodGet, "/api/posts/search", query, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost получает пост по идентификатору.
func (c *httpClient) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := c.doJSON(ctx, "получение поста", http.MethodGet, idPath("/api/posts", id), nil, nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePost создает пост.
func (c *httpClient) CreatePost(ctx context.Context, input models.PostInput) (*models.Post, error) {
	var post models.Post
	if err := c.doJSON(ctx, "создание поста", http.MethodPost, "/api/posts", nil, input, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost изменяет пост.
func (c *httpClient) UpdatePost(ctx context.Context, id string, input models.PostInput) (*models.Post, error) {
	var post models.Post
	err := c.doJSON(ctx, "изменение поста", http.MethodPut, idPath("/api/posts", id), nil, input, &post)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost удаляет пост. Сервер проверяет права по имени пользователя в теле запроса.
func (c *httpClient) DeletePost(ctx context.Context, id, username string) error {
	return c.doJSON(ctx, "удаление поста", http.MethodDelete, idPath("/api/posts", id), nil,
		usernameBody{Username: username}, nil)
}

// UserPosts получает посты автора.
func (c *httpClient) UserPosts(ctx context.Context, username string) ([]models.Post, error) {
	var posts []models.Post
	err := c.doJSON(ctx, "посты автора", http.MethodPost, "/api/posts/userPosts", nil,
		usernameBody{Username: username}, &posts)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// SortNewestFirst сортирует посты от новых к старым.
func SortNewestFirst(posts []models.Post) {
	slices.SortStableFunc(posts, func(a, b models.Post) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
