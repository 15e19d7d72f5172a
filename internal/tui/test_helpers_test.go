package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/gophblog/internal/api"
	"github.com/maynagashev/gophblog/internal/request"
	"github.com/maynagashev/gophblog/internal/session"
	"github.com/maynagashev/gophblog/internal/storage"
	"github.com/maynagashev/gophblog/models"
)

const testToken = "test-jwt-token"

var _ api.Client = (*fakeClient)(nil)

// fakeClient - API клиент в памяти. Ошибки задаются по имени метода.
type fakeClient struct {
	mu         sync.Mutex
	token      string
	calls      []string
	errs       map[string]error
	hang       map[string]bool
	authUser   *models.AuthUser
	posts      []models.Post
	comments   []models.Comment
	categories []models.Category
	users      []models.User
	uploads    []string
	lastInput  models.PostInput
	lastUpdate models.UserUpdate
	nextID     int
}

func newFakeClient() *fakeClient {
	return &fakeClient{errs: make(map[string]error), hang: make(map[string]bool)}
}

// wait блокирует вызов name до отмены ctx, если вызов помечен как зависший.
func (c *fakeClient) wait(ctx context.Context, name string) error {
	c.mu.Lock()
	hang := c.hang[name]
	c.mu.Unlock()
	if !hang {
		return nil
	}
	<-ctx.Done()
	return ctx.Err()
}

func (c *fakeClient) call(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, name)
	return c.errs[name]
}

func (c *fakeClient) called(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, call := range c.calls {
		if call == name {
			n++
		}
	}
	return n
}

func (c *fakeClient) newID(prefix string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	return fmt.Sprintf("%s-%d", prefix, c.nextID)
}

func (c *fakeClient) Register(_ context.Context, _, _, _ string) error {
	return c.call("Register")
}

func (c *fakeClient) Login(ctx context.Context, _, _ string) (*models.AuthUser, error) {
	if err := c.call("Login"); err != nil {
		return nil, err
	}
	if err := c.wait(ctx, "Login"); err != nil {
		return nil, err
	}
	c.SetAuthToken(c.authUser.Token)
	u := *c.authUser
	return &u, nil
}

func (c *fakeClient) ListPosts(ctx context.Context, filter api.PostFilter) ([]models.Post, error) {
	if err := c.call("ListPosts:" + filter.User + ":" + filter.Category); err != nil {
		return nil, err
	}
	if err := c.wait(ctx, "ListPosts"); err != nil {
		return nil, err
	}
	var res []models.Post
	for _, p := range c.posts {
		if filter.User != "" && p.Username != filter.User {
			continue
		}
		if filter.Category != "" && !slices.Contains(p.Categories, filter.Category) {
			continue
		}
		res = append(res, p)
	}
	return res, nil
}

func (c *fakeClient) SearchPosts(_ context.Context, query string) ([]models.Post, error) {
	if err := c.call("SearchPosts:" + query); err != nil {
		return nil, err
	}
	var res []models.Post
	for _, p := range c.posts {
		if strings.Contains(strings.ToLower(p.Title), strings.ToLower(query)) {
			res = append(res, p)
		}
	}
	return res, nil
}

func (c *fakeClient) GetPost(_ context.Context, id string) (*models.Post, error) {
	if err := c.call("GetPost"); err != nil {
		return nil, err
	}
	for _, p := range c.posts {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, &api.HTTPError{Op: "получение поста", Status: 404}
}

func (c *fakeClient) CreatePost(_ context.Context, input models.PostInput) (*models.Post, error) {
	if err := c.call("CreatePost"); err != nil {
		return nil, err
	}
	c.lastInput = input
	post := models.Post{
		ID:         c.newID("p"),
		Title:      input.Title,
		Desc:       input.Desc,
		Photo:      input.Photo,
		Username:   input.Username,
		Categories: input.Categories,
		CreatedAt:  time.Now(),
	}
	c.posts = append(c.posts, post)
	return &post, nil
}

func (c *fakeClient) UpdatePost(_ context.Context, id string, input models.PostInput) (*models.Post, error) {
	if err := c.call("UpdatePost"); err != nil {
		return nil, err
	}
	c.lastInput = input
	return &models.Post{
		ID:         id,
		Title:      input.Title,
		Desc:       input.Desc,
		Photo:      input.Photo,
		Username:   input.Username,
		Categories: input.Categories,
	}, nil
}

func (c *fakeClient) DeletePost(_ context.Context, id, _ string) error {
	if err := c.call("DeletePost"); err != nil {
		return err
	}
	c.posts = slices.DeleteFunc(c.posts, func(p models.Post) bool { return p.ID == id })
	return nil
}

func (c *fakeClient) UserPosts(_ context.Context, username string) ([]models.Post, error) {
	if err := c.call("UserPosts:" + username); err != nil {
		return nil, err
	}
	var res []models.Post
	for _, p := range c.posts {
		if p.Username == username {
			res = append(res, p)
		}
	}
	return res, nil
}

func (c *fakeClient) ListComments(_ context.Context, postID string) ([]models.Comment, error) {
	if err := c.call("ListComments"); err != nil {
		return nil, err
	}
	var res []models.Comment
	for _, cm := range c.comments {
		if cm.PostID == postID {
			res = append(res, cm)
		}
	}
	return res, nil
}

func (c *fakeClient) CreateComment(_ context.Context, postID, username, content string) (*models.Comment, error) {
	if err := c.call("CreateComment"); err != nil {
		return nil, err
	}
	cm := models.Comment{ID: c.newID("c"), PostID: postID, Username: username, Content: content}
	c.comments = append(c.comments, cm)
	return &cm, nil
}

func (c *fakeClient) UpdateComment(_ context.Context, id, username, content string) (*models.Comment, error) {
	if err := c.call("UpdateComment"); err != nil {
		return nil, err
	}
	return &models.Comment{ID: id, Username: username, Content: content}, nil
}

func (c *fakeClient) DeleteComment(_ context.Context, _, _ string) error {
	return c.call("DeleteComment")
}

func (c *fakeClient) LikeComment(_ context.Context, id, userID string) (*models.Comment, error) {
	if err := c.call("LikeComment"); err != nil {
		return nil, err
	}
	for i := range c.comments {
		if c.comments[i].ID != id {
			continue
		}
		if c.comments[i].LikedBy(userID) {
			c.comments[i].Likes = slices.DeleteFunc(c.comments[i].Likes, func(l string) bool { return l == userID })
		} else {
			c.comments[i].Likes = append(c.comments[i].Likes, userID)
		}
		cm := c.comments[i]
		return &cm, nil
	}
	return nil, &api.HTTPError{Op: "лайк комментария", Status: 404}
}

func (c *fakeClient) ListCategories(_ context.Context) ([]models.Category, error) {
	if err := c.call("ListCategories"); err != nil {
		return nil, err
	}
	return slices.Clone(c.categories), nil
}

func (c *fakeClient) CreateCategory(_ context.Context, name string) (*models.Category, error) {
	if err := c.call("CreateCategory:" + name); err != nil {
		return nil, err
	}
	cat := models.Category{ID: c.newID("cat"), Name: name}
	c.categories = append(c.categories, cat)
	return &cat, nil
}

func (c *fakeClient) UpdateCategory(_ context.Context, id, name string) (*models.Category, error) {
	if err := c.call("UpdateCategory:" + name); err != nil {
		return nil, err
	}
	for i := range c.categories {
		if c.categories[i].ID == id {
			c.categories[i].Name = name
			cat := c.categories[i]
			return &cat, nil
		}
	}
	return nil, &api.HTTPError{Op: "изменение категории", Status: 404}
}

func (c *fakeClient) DeleteCategory(_ context.Context, id string) error {
	if err := c.call("DeleteCategory"); err != nil {
		return err
	}
	c.categories = slices.DeleteFunc(c.categories, func(cat models.Category) bool { return cat.ID == id })
	return nil
}

func (c *fakeClient) ListUsers(_ context.Context) ([]models.User, error) {
	if err := c.call("ListUsers"); err != nil {
		return nil, err
	}
	return slices.Clone(c.users), nil
}

func (c *fakeClient) GetUser(_ context.Context, id string) (*models.User, error) {
	if err := c.call("GetUser"); err != nil {
		return nil, err
	}
	for _, u := range c.users {
		if u.ID == id {
			found := u
			return &found, nil
		}
	}
	if c.authUser != nil && c.authUser.User.ID == id {
		found := c.authUser.User
		found.Favorites = slices.Clone(found.Favorites)
		return &found, nil
	}
	return nil, &api.HTTPError{Op: "получение пользователя", Status: 404}
}

func (c *fakeClient) UpdateUser(_ context.Context, id string, update models.UserUpdate) (*models.User, error) {
	if err := c.call("UpdateUser"); err != nil {
		return nil, err
	}
	c.lastUpdate = update
	return &models.User{
		ID:         id,
		Username:   update.Username,
		Email:      update.Email,
		ProfilePic: update.ProfilePic,
		Favorites:  update.Favorites,
	}, nil
}

func (c *fakeClient) DeleteUser(_ context.Context, id string, _ models.User) error {
	if err := c.call("DeleteUser"); err != nil {
		return err
	}
	c.users = slices.DeleteFunc(c.users, func(u models.User) bool { return u.ID == id })
	return nil
}

func (c *fakeClient) Favorites(_ context.Context, userID string) ([]models.Post, error) {
	if err := c.call("Favorites:" + userID); err != nil {
		return nil, err
	}
	var favs []string
	if c.authUser != nil && c.authUser.User.ID == userID {
		favs = c.authUser.User.Favorites
	}
	var res []models.Post
	for _, p := range c.posts {
		if slices.Contains(favs, p.ID) {
			res = append(res, p)
		}
	}
	return res, nil
}

// ToggleFavorite переключает пост в избранном вошедшего пользователя, как сервер.
func (c *fakeClient) ToggleFavorite(_ context.Context, userID, postID string) error {
	if err := c.call("ToggleFavorite"); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.authUser == nil || c.authUser.User.ID != userID {
		return nil
	}
	favs := c.authUser.User.Favorites
	if slices.Contains(favs, postID) {
		favs = slices.DeleteFunc(slices.Clone(favs), func(id string) bool { return id == postID })
	} else {
		favs = append(slices.Clone(favs), postID)
	}
	c.authUser.User.Favorites = favs
	return nil
}

func (c *fakeClient) Upload(_ context.Context, name string, data io.Reader) error {
	if err := c.call("Upload"); err != nil {
		return err
	}
	if _, err := io.ReadAll(data); err != nil {
		return err
	}
	c.uploads = append(c.uploads, name)
	return nil
}

func (c *fakeClient) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *fakeClient) BaseURL() string { return "http://blog.test" }

func (c *fakeClient) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

var errServer = errors.New("сервер недоступен")

// testUser возвращает сохраненного пользователя для тестов.
func testUser(username string) *models.AuthUser {
	return &models.AuthUser{
		User:  models.User{ID: "id-" + username, Username: username, Email: username + "@example.com"},
		Token: testToken,
	}
}

// testEnv - модель с зависимостями для тестов.
type testEnv struct {
	m       *model
	client  *fakeClient
	store   *storage.FileStore
	session *session.Store
}

// newTestEnv создает модель. Если user != nil, сессия начинается с вошедшим пользователем.
func newTestEnv(t *testing.T, client *fakeClient, user *models.AuthUser) *testEnv {
	t.Helper()
	return newTestEnvWithTimeout(t, client, user, 0)
}

// newTestEnvWithTimeout создает модель с таймаутом запросов.
func newTestEnvWithTimeout(t *testing.T, client *fakeClient, user *models.AuthUser, timeout time.Duration) *testEnv {
	t.Helper()

	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	sess := session.New(store)
	if user != nil {
		sess.Dispatch(session.Action{Type: session.LoginSuccess, Payload: user})
		client.SetAuthToken(user.Token)
	}
	tracker := request.NewTracker(context.Background(), timeout)
	t.Cleanup(tracker.CancelAll)

	m := initModel(Options{
		Session:   sess,
		Client:    client,
		Tracker:   tracker,
		ServerURL: "http://blog.test",
	})
	m.statusTimeout = 0
	staticCursors(&m)
	if user != nil {
		m.state = postListScreen
	}
	return &testEnv{m: &m, client: client, store: store, session: sess}
}

// staticCursors отключает мигание курсоров, чтобы команды выполнялись мгновенно.
func staticCursors(m *model) {
	for _, inputs := range [][]textinput.Model{m.loginInputs, m.registerInputs, m.editorInputs, m.settingsInputs} {
		for i := range inputs {
			inputs[i].Cursor.SetMode(cursor.CursorStatic)
		}
	}
	m.searchInput.Cursor.SetMode(cursor.CursorStatic)
	m.categoryInput.Cursor.SetMode(cursor.CursorStatic)
	m.editorDesc.Cursor.SetMode(cursor.CursorStatic)
	m.commentInput.Cursor.SetMode(cursor.CursorStatic)
}

// drain выполняет команду и все порожденные ею команды, передавая сообщения в модель.
// Сообщения очистки статуса в модель не передаются, чтобы статус можно было проверить.
func (e *testEnv) drain(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	var msgs []tea.Msg
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 1000, "Слишком много команд")
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		switch msg := msg.(type) {
		case nil:
			continue
		case tea.BatchMsg:
			queue = append(queue, msg...)
			continue
		case clearStatusMsg, tea.QuitMsg:
			msgs = append(msgs, msg)
			continue
		}
		msgs = append(msgs, msg)
		_, next := e.m.Update(msg)
		queue = append(queue, next)
	}
	return msgs
}

// collect выполняет команду без передачи сообщений в модель.
func collect(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	var msgs []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

// press отправляет клавишу в модель и выполняет получившиеся команды.
func (e *testEnv) press(t *testing.T, k string) []tea.Msg {
	t.Helper()
	_, cmd := e.m.Update(keyMsg(k))
	return e.drain(t, cmd)
}

// typeText вводит текст в активное поле.
func (e *testEnv) typeText(t *testing.T, text string) {
	t.Helper()
	_, cmd := e.m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	e.drain(t, cmd)
}

// keyMsg создает сообщение о нажатии клавиши по ее имени.
func keyMsg(k string) tea.KeyMsg {
	switch k {
	case keyEnter:
		return tea.KeyMsg{Type: tea.KeyEnter}
	case keyEsc:
		return tea.KeyMsg{Type: tea.KeyEsc}
	case keyTab:
		return tea.KeyMsg{Type: tea.KeyTab}
	case keyShiftTab:
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case keySave:
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case keyDeleteAccount:
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// storedUser читает сохраненную запись пользователя из хранилища.
func (e *testEnv) storedUser(t *testing.T) string {
	t.Helper()
	data, ok, err := e.store.Get(session.StorageKey)
	require.NoError(t, err)
	require.True(t, ok, "Запись пользователя должна быть сохранена")
	return string(data)
}

func hasQuit(msgs []tea.Msg) bool {
	for _, msg := range msgs {
		if _, ok := msg.(tea.QuitMsg); ok {
			return true
		}
	}
	return false
}
