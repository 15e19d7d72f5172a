package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/maynagashev/gophblog/models"
)

type categoryBody struct {
	Name string `json:"name"`
}

// ListCategories получает список категорий.
func (c *httpClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := c.doJSON(ctx, "список категорий", http.MethodGet, "/api/categories", nil, nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// CreateCategory создает категорию.
func (c *httpClient) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	var cat models.Category
	err := c.doJSON(ctx, "создание категории", http.MethodPost, "/api/categories", nil,
		categoryBody{Name: name}, &cat)
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// UpdateCategory переименовывает категорию.
func (c *httpClient) UpdateCategory(ctx context.Context, id, name string) (*models.Category, error) {
	var cat models.Category
	err := c.doJSON(ctx, "изменение категории", http.MethodPut, idPath("/api/categories", id), nil,
		categoryBody{Name: name}, &cat)
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// DeleteCategory удаляет категорию.
func (c *httpClient) DeleteCategory(ctx context.Context, id string) error {
	return c.doJSON(ctx, "удаление категории", http.MethodDelete, idPath("/api/categories", id), nil, nil, nil)
}

// EnsureCategory возвращает существующую категорию с именем name без учета регистра
// или создает новую с обрезанным именем в нижнем регистре.
// Для пустого имени возвращает nil без обращения к серверу.
func EnsureCategory(ctx context.Context, c Client, name string) (*models.Category, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, nil //nolint:nilnil // пустое имя означает "без категории"
	}

	cats, err := c.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	for _, cat := range cats {
		if strings.EqualFold(strings.TrimSpace(cat.Name), trimmed) {
			found := cat
			return &found, nil
		}
	}
	return c.CreateCategory(ctx, strings.ToLower(trimmed))
}
