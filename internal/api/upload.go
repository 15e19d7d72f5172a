package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Upload загружает картинку на сервер формой multipart с полями name и file.
func (c *httpClient) Upload(ctx context.Context, name string, data io.Reader) error {
	const op = "загрузка файла"

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("name", name); err != nil {
		return fmt.Errorf("ошибка формирования формы (%s): %w", op, err)
	}
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return fmt.Errorf("ошибка формирования формы (%s): %w", op, err)
	}
	if _, err = io.Copy(part, data); err != nil {
		return fmt.Errorf("ошибка чтения файла (%s): %w", op, err)
	}
	if err = writer.Close(); err != nil {
		return fmt.Errorf("ошибка формирования формы (%s): %w", op, err)
	}

	endpoint, err := c.endpoint("/api/upload", nil)
	if err != nil {
		return fmt.Errorf("ошибка формирования URL (%s): %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса (%s): %w", op, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req, op, nil)
}

// UploadFileName возвращает уникальное имя для загрузки локального файла path.
func UploadFileName(path string) string {
	return uuid.NewString() + "-" + filepath.Base(path)
}

// ImageURL возвращает адрес картинки name на сервере baseURL.
// Уже абсолютные адреса возвращаются без изменений.
func ImageURL(baseURL, name string) string {
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
		return name
	}
	u, err := url.JoinPath(baseURL, "/api/images", name)
	if err != nil {
		return ""
	}
	return u
}
