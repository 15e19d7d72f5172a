package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// openPostList переходит к списку постов в режиме mode и запускает загрузку.
func (m *model) openPostList(mode listMode, arg string) tea.Cmd {
	m.leaveDetail()
	m.state = postListScreen
	m.listMode = mode
	m.listArg = arg
	m.postList.Title = m.postListTitle()
	m.postList.ResetSelected()
	return m.reloadPosts()
}

// reloadPosts перезапрашивает посты текущего режима.
func (m *model) reloadPosts() tea.Cmd {
	q := postsQuery{mode: m.listMode, arg: m.listArg}
	if user := m.session.User(); user != nil {
		q.userID = user.User.ID
		q.username = user.User.Username
	}
	m.loading = true
	ticket := m.begin(scopePosts)
	slog.Debug("Загрузка постов", "mode", int(m.listMode), "arg", m.listArg)
	return fetchPostsCmd(m.apiClient, ticket, q)
}

func (m *model) postListTitle() string {
	switch m.listMode {
	case listSearch:
		return fmt.Sprintf("Поиск: %s", m.listArg)
	case listCategory:
		return fmt.Sprintf("Категория: %s", m.listArg)
	case listAuthor:
		return fmt.Sprintf("Автор: %s", m.listArg)
	case listMine:
		return "Мои посты"
	case listFavorites:
		return "Избранное"
	default:
		return "Все посты"
	}
}

// syncPostList переносит содержимое кэша постов в компонент списка.
func (m *model) syncPostList() tea.Cmd {
	posts := m.posts.Items()
	items := make([]list.Item, len(posts))
	for i, p := range posts {
		items[i] = postItem{post: p}
	}
	return m.postList.SetItems(items)
}

// handlePostsLoaded заменяет кэш постов загруженным списком.
func (m *model) handlePostsLoaded(msg postsLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.accept(msg.ticket) {
		return m, nil
	}
	m.loading = false
	if msg.err != nil {
		return m.handleRequestError("Ошибка загрузки постов", msg.err)
	}
	m.posts.Reset(msg.posts)
	slog.Debug("Посты загружены", "count", len(msg.posts))
	return m, m.syncPostList()
}

// updatePostListScreen обрабатывает сообщения для экрана списка постов.
//
//nolint:gocyclo // Много горячих клавиш
func (m *model) updatePostListScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit:
			return m, tea.Quit
		case keyEnter:
			if item, isPost := m.postList.SelectedItem().(postItem); isPost {
				return m, m.openPost(item.post)
			}
			return m, nil
		case "/":
			m.state = searchInputScreen
			m.searchInput.SetValue(m.searchQuery())
			m.searchInput.CursorEnd()
			return m, m.searchInput.Focus()
		case "c":
			return m, m.openCategoryPicker()
		case "a":
			if item, isPost := m.postList.SelectedItem().(postItem); isPost && item.post.Username != "" {
				return m, m.openPostList(listAuthor, item.post.Username)
			}
			return m, nil
		case "m":
			return m, m.openPostList(listMine, "")
		case "f":
			return m, m.openPostList(listFavorites, "")
		case "h":
			return m, m.openPostList(listHome, "")
		case keyEsc:
			if m.listMode != listHome {
				return m, m.openPostList(listHome, "")
			}
			return m, nil
		case "n":
			return m, m.openPostEditor(nil)
		case "r":
			return m, m.reloadPosts()
		case "s":
			return m, m.openSettings()
		case "u":
			if m.isAdmin() {
				return m, m.openAdminUsers()
			}
			return m, nil
		case "L":
			m.logout()
			m.state = loginRegisterChoiceScreen
			newM, cmd := m.setStatusMessage("Вы вышли из учетной записи")
			return newM, tea.Batch(cmd, tea.ClearScreen)
		}
	}

	var cmd tea.Cmd
	m.postList, cmd = m.postList.Update(msg)
	return m, cmd
}

func (m *model) searchQuery() string {
	if m.listMode == listSearch {
		return m.listArg
	}
	return ""
}

// viewPostListScreen отображает список постов.
func (m *model) viewPostListScreen() string {
	var b strings.Builder
	if user := m.session.User(); user != nil {
		b.WriteString(subtleStyle.Render("Вы вошли как "+user.User.Username) + "\n")
	}
	switch {
	case m.loading && m.posts.Len() == 0:
		b.WriteString(titleStyle.Render(m.postList.Title) + "\n\nЗагрузка...")
	case m.posts.Len() == 0:
		b.WriteString(titleStyle.Render(m.postList.Title) + "\n\nПостов нет")
	default:
		b.WriteString(m.postList.View())
	}
	return b.String()
}

// updateSearchInputScreen обрабатывает ввод поискового запроса.
func (m *model) updateSearchInputScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEsc:
			m.searchInput.Blur()
			m.state = postListScreen
			return m, nil
		case keyEnter:
			query := strings.TrimSpace(m.searchInput.Value())
			m.searchInput.Blur()
			if query == "" {
				return m, m.openPostList(listHome, "")
			}
			return m, m.openPostList(listSearch, query)
		}
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// viewSearchInputScreen отображает экран ввода поискового запроса.
func (m *model) viewSearchInputScreen() string {
	return fmt.Sprintf("%s\n\n%s", titleStyle.Render("Поиск постов"), m.searchInput.View())
}

// openCategoryPicker открывает выбор категории и загружает список категорий.
func (m *model) openCategoryPicker() tea.Cmd {
	m.state = categoryPickerScreen
	ticket := m.begin(scopeCategories)
	return tea.Batch(m.syncCategoryList(), fetchCategoriesCmd(m.apiClient, ticket))
}

func (m *model) syncCategoryList() tea.Cmd {
	cats := m.categories.Items()
	items := make([]list.Item, len(cats))
	for i, c := range cats {
		items[i] = categoryItem{category: c}
	}
	return m.categoryList.SetItems(items)
}

// handleCategoriesLoaded обновляет кэш категорий.
func (m *model) handleCategoriesLoaded(msg categoriesLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.accept(msg.ticket) {
		return m, nil
	}
	if msg.err != nil {
		return m.handleRequestError("Ошибка загрузки категорий", msg.err)
	}
	m.categories.Reset(msg.categories)
	return m, m.syncCategoryList()
}

// updateCategoryPickerScreen обрабатывает выбор категории.
func (m *model) updateCategoryPickerScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEsc, keyBack:
			m.tracker.Cancel(scopeCategories)
			m.state = postListScreen
			return m, nil
		case keyEnter:
			if item, isCat := m.categoryList.SelectedItem().(categoryItem); isCat {
				return m, m.openPostList(listCategory, strings.ToLower(item.category.Name))
			}
			return m, nil
		case keyEdit:
			return m, m.openCategoryEditor()
		case keyDelete:
			m.confirmDeleteCategory()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.categoryList, cmd = m.categoryList.Update(msg)
	return m, cmd
}

// viewCategoryPickerScreen отображает список категорий.
func (m *model) viewCategoryPickerScreen() string {
	if m.categories.Len() == 0 {
		return titleStyle.Render("Категории") + "\n\nКатегорий пока нет"
	}
	return m.categoryList.View()
}
