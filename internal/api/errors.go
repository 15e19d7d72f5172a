package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxErrorBodySize = 4096

var (
	// ErrAuthorization сигнализирует об ошибке авторизации (401).
	ErrAuthorization = errors.New("ошибка авторизации")
	// ErrForbidden сигнализирует о запрете операции (403).
	ErrForbidden = errors.New("операция запрещена")
	// ErrNotFound сигнализирует об отсутствии ресурса (404).
	ErrNotFound = errors.New("не найдено")
	// ErrInvalidCredentials возвращается при неверном имени пользователя или пароле.
	ErrInvalidCredentials = errors.New("неверное имя пользователя или пароль")
	// ErrInvalidResponse возвращается, если ответ сервера не содержит ожидаемых полей.
	ErrInvalidResponse = errors.New("неверный формат ответа сервера")
)

// HTTPError описывает ответ сервера со статусом вне диапазона 2xx.
type HTTPError struct {
	Op      string // Операция клиента, например "вход"
	Status  int
	Message string // Сообщение сервера, если удалось его прочитать
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("ошибка операции \"%s\": статус %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("ошибка операции \"%s\": статус %d", e.Op, e.Status)
}

// Unwrap позволяет сравнивать ошибку с ErrAuthorization, ErrForbidden и ErrNotFound через errors.Is.
func (e *HTTPError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrAuthorization
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return nil
	}
}

// UserMessage возвращает текст ошибки для показа пользователю:
// сообщение сервера, если оно есть, иначе текст самой ошибки.
func UserMessage(err error) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		return httpErr.Message
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "сервер не ответил вовремя"
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// checkResponse превращает ответ с неуспешным статусом в *HTTPError.
func checkResponse(resp *http.Response, op string) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}
	return &HTTPError{
		Op:      op,
		Status:  resp.StatusCode,
		Message: readErrorMessage(resp.Body),
	}
}

// readErrorMessage извлекает сообщение из тела ответа: поле "message" JSON-объекта,
// JSON-строку или просто текст.
func readErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBodySize))
	if err != nil || len(data) == 0 {
		return ""
	}

	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Message != "" {
		return payload.Message
	}
	var text string
	if json.Unmarshal(data, &text) == nil {
		return text
	}
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "<") {
		// JSON без сообщения или HTML-страница ошибки
		return ""
	}
	return trimmed
}
