package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/maynagashev/gophblog/models"
)

// PostFilter ограничивает список постов автором и/или категорией.
type PostFilter struct {
	User     string // Имя автора
	Category string // Название категории
}

// Client определяет интерфейс для взаимодействия с REST API блога.
type Client interface {
	// Register регистрирует нового пользователя.
	Register(ctx context.Context, username, email, password string) error
	// Login аутентифицирует пользователя и возвращает его запись вместе с токеном.
	Login(ctx context.Context, username, password string) (*models.AuthUser, error)

	// ListPosts получает список постов с учетом фильтра.
	ListPosts(ctx context.Context, filter PostFilter) ([]models.Post, error)
	// SearchPosts ищет посты по строке запроса.
	SearchPosts(ctx context.Context, query string) ([]models.Post, error)
	// GetPost получает пост по идентификатору.
	GetPost(ctx context.Context, id string) (*models.Post, error)
	// CreatePost создает пост и возвращает его в том виде, в котором его сохранил сервер.
	CreatePost(ctx context.Context, input models.PostInput) (*models.Post, error)
	// UpdatePost изменяет пост.
	UpdatePost(ctx context.Context, id string, input models.PostInput) (*models.Post, error)
	// DeletePost удаляет пост от имени пользователя username.
	DeletePost(ctx context.Context, id, username string) error
	// UserPosts получает посты автора.
	UserPosts(ctx context.Context, username string) ([]models.Post, error)

	// ListComments получает комментарии к посту.
	ListComments(ctx context.Context, postID string) ([]models.Comment, error)
	// CreateComment добавляет комментарий к посту.
	CreateComment(ctx context.Context, postID, username, content string) (*models.Comment, error)
	// UpdateComment изменяет текст комментария.
	UpdateComment(ctx context.Context, id, username, content string) (*models.Comment, error)
	// DeleteComment удаляет комментарий.
	DeleteComment(ctx context.Context, id, username string) error
	// LikeComment ставит или снимает лайк пользователя userID.
	LikeComment(ctx context.Context, id, userID string) (*models.Comment, error)

	// ListCategories получает список категорий.
	ListCategories(ctx context.Context) ([]models.Category, error)
	// CreateCategory создает категорию.
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	// UpdateCategory переименовывает категорию.
	UpdateCategory(ctx context.Context, id, name string) (*models.Category, error)
	// DeleteCategory удаляет категорию.
	DeleteCategory(ctx context.Context, id string) error

	// ListUsers получает список пользователей.
	ListUsers(ctx context.Context) ([]models.User, error)
	// GetUser получает пользователя по идентификатору.
	GetUser(ctx context.Context, id string) (*models.User, error)
	// UpdateUser изменяет профиль пользователя и возвращает обновленную запись.
	UpdateUser(ctx context.Context, id string, update models.UserUpdate) (*models.User, error)
	// DeleteUser удаляет пользователя id от имени actor.
	DeleteUser(ctx context.Context, id string, actor models.User) error
	// Favorites получает избранные посты пользователя.
	Favorites(ctx context.Context, userID string) ([]models.Post, error)
	// ToggleFavorite добавляет пост в избранное или убирает его оттуда.
	ToggleFavorite(ctx context.Context, userID, postID string) error

	// Upload загружает файл картинки на сервер под именем name.
	Upload(ctx context.Context, name string, data io.Reader) error

	// SetAuthToken устанавливает JWT токен для аутентифицированных запросов.
	SetAuthToken(token string)
	// BaseURL возвращает базовый URL сервера.
	BaseURL() string
}

// httpClient реализует интерфейс Client для взаимодействия с сервером по HTTP.
type httpClient struct {
	baseURL    string       // Базовый URL сервера, например "http://localhost:5000"
	httpClient *http.Client // HTTP клиент для выполнения запросов

	mu        sync.RWMutex
	authToken string // JWT токен для аутентифицированных запросов
}

// NewHTTPClient создает новый экземпляр API клиента.
func NewHTTPClient(baseURL string) Client {
	return newHTTPClient(baseURL, &http.Client{})
}

func newHTTPClient(baseURL string, hc *http.Client) *httpClient {
	return &httpClient{
		baseURL:    baseURL,
		httpClient: hc,
	}
}

// SetAuthToken устанавливает токен. Пустая строка отключает заголовок авторизации.
func (c *httpClient) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authToken = token
}

func (c *httpClient) BaseURL() string {
	return c.baseURL
}

// setAuthHeader добавляет заголовок авторизации, если токен известен.
func (c *httpClient) setAuthHeader(req *http.Request) {
	c.mu.RLock()
	token := c.authToken
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// endpoint формирует полный URL эндпоинта с параметрами запроса.
func (c *httpClient) endpoint(path string, query url.Values) (string, error) {
	u, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return "", err
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u, nil
}

// doJSON выполняет запрос с JSON телом body и декодирует ответ в out.
// op - название операции для сообщений об ошибках.
func (c *httpClient) doJSON(
	ctx context.Context,
	op, method, path string,
	query url.Values,
	body, out any,
) error {
	endpoint, err := c.endpoint(path, query)
	if err != nil {
		return fmt.Errorf("ошибка формирования URL (%s): %w", op, err)
	}

	var reader io.Reader
	if body != nil {
		data, marshalErr := json.Marshal(body)
		if marshalErr != nil {
			return fmt.Errorf("ошибка кодирования данных (%s): %w", op, marshalErr)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса (%s): %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return c.do(req, op, out)
}

// do отправляет подготовленный запрос, проверяет статус и декодирует ответ.
func (c *httpClient) do(req *http.Request, op string, out any) error {
	c.setAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка выполнения запроса (%s): %w", op, err)
	}
	defer resp.Body.Close()

	if err = checkResponse(resp, op); err != nil {
		return err
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ошибка декодирования ответа (%s): %w", op, err)
	}
	return nil
}

// idPath формирует путь вида prefix/<id> с экранированием идентификатора.
func idPath(prefix, id string, rest ...string) string {
	p := prefix + "/" + url.PathEscape(id)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}
