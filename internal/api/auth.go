package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/maynagashev/gophblog/models"
)

// Register отправляет запрос на регистрацию на сервер.
func (c *httpClient) Register(ctx context.Context, username, email, password string) error {
	requestBody := models.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	}
	return c.doJSON(ctx, "регистрация", http.MethodPost, "/api/auth/register", nil, requestBody, nil)
}

// Login отправляет запрос на вход и сохраняет полученный токен в клиенте.
func (c *httpClient) Login(ctx context.Context, username, password string) (*models.AuthUser, error) {
	requestBody := models.LoginRequest{
		Username: username,
		Password: password,
	}

	var authUser models.AuthUser
	err := c.doJSON(ctx, "вход", http.MethodPost, "/api/auth/login", nil, requestBody, &authUser)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && isCredentialsStatus(httpErr.Status) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return nil, err
	}

	// Ответ обязан содержать и пользователя, и токен
	if authUser.Token == "" || (authUser.User.ID == "" && authUser.User.Username == "") {
		return nil, fmt.Errorf("вход: %w", ErrInvalidResponse)
	}

	c.SetAuthToken(authUser.Token)
	return &authUser, nil
}

func isCredentialsStatus(status int) bool {
	return status == http.StatusBadRequest ||
		status == http.StatusUnauthorized ||
		status == http.StatusNotFound
}
