package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/gophblog/internal/api"
	"github.com/maynagashev/gophblog/internal/session"
	"github.com/maynagashev/gophblog/models"
)

func blogFixture() *fakeClient {
	client := newFakeClient()
	day := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	client.posts = []models.Post{
		{ID: "p1", Title: "Go и каналы", Desc: "Про каналы", Username: "alice", Categories: []string{"go"}, CreatedAt: day},
		{ID: "p2", Title: "Рецепт борща", Desc: "Свекла", Username: "bob", Categories: []string{"еда"}, CreatedAt: day.Add(time.Hour)},
		{ID: "p3", Title: "Go generics", Desc: "Про дженерики", Username: "bob", Categories: []string{"go"}, CreatedAt: day.Add(2 * time.Hour)},
	}
	client.categories = []models.Category{{ID: "c1", Name: "go"}, {ID: "c2", Name: "еда"}}
	return client
}

// loggedInEnv создает модель с вошедшим пользователем и загруженной лентой.
func loggedInEnv(t *testing.T, client *fakeClient, username string) *testEnv {
	t.Helper()
	user := testUser(username)
	client.authUser = user
	env := newTestEnv(t, client, user)
	env.drain(t, env.m.Init())
	require.Equal(t, postListScreen, env.m.state)
	return env
}

func postIDs(env *testEnv) []string {
	var ids []string
	for _, p := range env.m.posts.Items() {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestPostList_InitLoadsNewestFirst(t *testing.T) {
	env := loggedInEnv(t, blogFixture(), "alice")

	assert.Equal(t, []string{"p3", "p2", "p1"}, postIDs(env))
	assert.Len(t, env.m.postList.Items(), 3)
	assert.Equal(t, "Все посты", env.m.postList.Title)
	assert.Contains(t, env.m.View(), "Вы вошли как alice")
}

func TestPostList_Modes(t *testing.T) {
	tests := []struct {
		name      string
		keys      []string
		wantCall  string
		wantIDs   []string
		wantTitle string
	}{
		{
			name:      "мои посты",
			keys:      []string{"m"},
			wantCall:  "UserPosts:bob",
			wantIDs:   []string{"p3", "p2"},
			wantTitle: "Мои посты",
		},
		{
			name:      "избранное",
			keys:      []string{"f"},
			wantCall:  "Favorites:id-bob",
			wantIDs:   []string{"p1"},
			wantTitle: "Избранное",
		},
		{
			name:      "посты автора выбранного поста",
			keys:      []string{"a"},
			wantCall:  "ListPosts:bob:",
			wantIDs:   []string{"p3", "p2"},
			wantTitle: "Автор: bob",
		},
		{
			name:      "возврат ко всем постам",
			keys:      []string{"m", "h"},
			wantCall:  "ListPosts::",
			wantIDs:   []string{"p3", "p2", "p1"},
			wantTitle: "Все посты",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := blogFixture()
			env := loggedInEnv(t, client, "bob")
			client.mu.Lock()
			client.authUser.User.Favorites = []string{"p1"}
			client.mu.Unlock()

			for _, k := range tt.keys {
				env.press(t, k)
			}
			assert.GreaterOrEqual(t, client.called(tt.wantCall), 1)
			assert.Equal(t, tt.wantIDs, postIDs(env))
			assert.Equal(t, tt.wantTitle, env.m.postList.Title)
		})
	}
}

func TestPostList_Search(t *testing.T) {
	client := blogFixture()
	env := loggedInEnv(t, client, "alice")

	env.press(t, "/")
	require.Equal(t, searchInputScreen, env.m.state)
	env.typeText(t, "go")
	env.press(t, keyEnter)

	assert.Equal(t, postListScreen, env.m.state)
	assert.Equal(t, 1, client.called("SearchPosts:go"))
	assert.Equal(t, []string{"p3", "p1"}, postIDs(env))
	assert.Equal(t, "Поиск: go", env.m.postList.Title)

	// Повторный поиск начинается с прежнего запроса
	env.press(t, "/")
	assert.Equal(t, "go", env.m.searchInput.Value())
	env.press(t, keyEsc)
	assert.Equal(t, postListScreen, env.m.state)

	// Esc на списке поиска возвращает к ленте
	env.press(t, keyEsc)
	assert.Equal(t, listHome, env.m.listMode)
	assert.Len(t, postIDs(env), 3)
}

func TestPostList_EmptySearchShowsAll(t *testing.T) {
	client := blogFixture()
	env := loggedInEnv(t, client, "alice")

	env.press(t, "/")
	env.press(t, keyEnter)
	assert.Equal(t, listHome, env.m.listMode)
	assert.Zero(t, client.called("SearchPosts:"))
}

func TestPostList_Category(t *testing.T) {
	client := blogFixture()
	env := loggedInEnv(t, client, "alice")

	env.press(t, "c")
	require.Equal(t, categoryPickerScreen, env.m.state)
	assert.Equal(t, 1, client.called("ListCategories"))
	require.Len(t, env.m.categoryList.Items(), 2)

	env.press(t, keyEnter) // Первая категория - "go"
	assert.Equal(t, postListScreen, env.m.state)
	assert.Equal(t, 1, client.called("ListPosts::go"))
	assert.Equal(t, []string{"p3", "p1"}, postIDs(env))
	assert.Equal(t, "Категория: go", env.m.postList.Title)
}

func TestPostList_CategoryNameLowerCased(t *testing.T) {
	client := blogFixture()
	client.categories = []models.Category{{ID: "c1", Name: "Go"}}
	env := loggedInEnv(t, client, "alice")

	env.press(t, "c")
	env.press(t, keyEnter)

	assert.Equal(t, 1, client.called("ListPosts::go"))
	assert.Zero(t, client.called("ListPosts::Go"))
	assert.Equal(t, []string{"p3", "p1"}, postIDs(env))
}

func TestPostList_CategoryPickerBack(t *testing.T) {
	env := loggedInEnv(t, blogFixture(), "alice")
	env.press(t, "c")
	env.press(t, keyBack)
	assert.Equal(t, postListScreen, env.m.state)
	assert.Zero(t, env.m.tracker.Pending())
}

func TestPostList_AdminOnlyUsersScreen(t *testing.T) {
	t.Run("обычный пользователь", func(t *testing.T) {
		client := blogFixture()
		env := loggedInEnv(t, client, "alice")
		env.press(t, "u")
		assert.Equal(t, postListScreen, env.m.state)
		assert.Zero(t, client.called("ListUsers"))
		assert.NotContains(t, env.m.helpText(), "u: пользователи")
	})

	t.Run("администратор", func(t *testing.T) {
		client := blogFixture()
		env := loggedInEnv(t, client, models.AdminUsername)
		assert.Contains(t, env.m.helpText(), "u: пользователи")
		env.press(t, "u")
		assert.Equal(t, adminUsersScreen, env.m.state)
		assert.Equal(t, 1, client.called("ListUsers"))
	})
}

func TestPostList_Logout(t *testing.T) {
	client := blogFixture()
	env := loggedInEnv(t, client, "alice")

	env.press(t, "L")

	assert.Equal(t, loginRegisterChoiceScreen, env.m.state)
	assert.Nil(t, env.session.User())
	assert.Equal(t, session.StatusLoggedOut, env.session.Status())
	assert.Equal(t, "null", env.storedUser(t))
	assert.Empty(t, client.currentToken())
	assert.Zero(t, env.m.posts.Len())
	assert.Equal(t, "Вы вышли из учетной записи", env.m.statusMessage)
}

func TestPostList_ExpiredTokenLogsOut(t *testing.T) {
	client := blogFixture()
	env := loggedInEnv(t, client, "alice")
	client.errs["ListPosts::"] = &api.HTTPError{Op: "список постов", Status: 401}

	env.press(t, "r")

	assert.Equal(t, loginRegisterChoiceScreen, env.m.state)
	assert.Nil(t, env.session.User())
	assert.Contains(t, env.m.statusMessage, "Сессия истекла")
}

func TestPostList_ErrorKeepsCache(t *testing.T) {
	client := blogFixture()
	env := loggedInEnv(t, client, "alice")
	client.errs["ListPosts::"] = errServer

	env.press(t, "r")

	assert.Equal(t, postListScreen, env.m.state)
	assert.Len(t, postIDs(env), 3, "Ошибка загрузки не очищает кэш")
	assert.Equal(t, "Ошибка загрузки постов: сервер недоступен", env.m.statusMessage)
	assert.NotNil(t, env.session.User())
}

func TestPostList_TimeoutClearsLoading(t *testing.T) {
	client := blogFixture()
	user := testUser("alice")
	client.authUser = user
	client.hang["ListPosts"] = true
	env := newTestEnvWithTimeout(t, client, user, 20*time.Millisecond)

	env.drain(t, env.m.Init())

	assert.False(t, env.m.loading, "Истекший таймаут завершает загрузку")
	assert.Equal(t, "Ошибка загрузки постов: сервер не ответил вовремя", env.m.statusMessage)
	assert.NotNil(t, env.session.User(), "Таймаут не завершает сессию")
	assert.Zero(t, env.m.tracker.Pending())
}

func TestPostList_StaleResponseDropped(t *testing.T) {
	client := blogFixture()
	env := loggedInEnv(t, client, "alice")

	// Ответ на первый запрос приходит после второго
	stale := collect(t, env.m.openPostList(listMine, ""))
	env.drain(t, env.m.openPostList(listHome, ""))
	require.Len(t, postIDs(env), 3)

	for _, msg := range stale {
		env.m.Update(msg)
	}
	assert.Len(t, postIDs(env), 3, "Устаревший ответ не применяется")
	assert.Equal(t, listHome, env.m.listMode)
}

func TestPostList_Quit(t *testing.T) {
	env := loggedInEnv(t, blogFixture(), "alice")
	msgs := env.press(t, keyQuit)
	assert.True(t, hasQuit(msgs))
}
