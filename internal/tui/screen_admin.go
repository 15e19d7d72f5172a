package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/gophblog/models"
)

// openAdminUsers открывает список пользователей. Доступно только администратору.
func (m *model) openAdminUsers() tea.Cmd {
	if !m.isAdmin() {
		return nil
	}
	m.state = adminUsersScreen
	ticket := m.begin(scopeUsers)
	return tea.Batch(m.syncUserList(), fetchUsersCmd(m.apiClient, ticket), tea.ClearScreen)
}

func (m *model) syncUserList() tea.Cmd {
	users := m.users.Items()
	items := make([]list.Item, len(users))
	for i, u := range users {
		items[i] = userItem{user: u}
	}
	m.userList.Title = fmt.Sprintf("Пользователи (%d)", len(users))
	return m.userList.SetItems(items)
}

// handleUsersLoaded заменяет кэш пользователей. Администратор в список не попадает.
func (m *model) handleUsersLoaded(msg usersLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.accept(msg.ticket) {
		return m, nil
	}
	if msg.err != nil {
		return m.handleRequestError("Ошибка загрузки пользователей", msg.err)
	}
	users := make([]models.User, 0, len(msg.users))
	for _, u := range msg.users {
		if u.Username != models.AdminUsername {
			users = append(users, u)
		}
	}
	m.users.Reset(users)
	return m, m.syncUserList()
}

// updateAdminUsersScreen обрабатывает сообщения экрана пользователей.
func (m *model) updateAdminUsersScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEsc, keyBack:
			m.tracker.Cancel(scopeUsers)
			m.state = postListScreen
			return m, tea.ClearScreen
		case "r":
			ticket := m.begin(scopeUsers)
			return m, fetchUsersCmd(m.apiClient, ticket)
		case keyDelete:
			item, isUser := m.userList.SelectedItem().(userItem)
			current := m.session.User()
			if !isUser || current == nil {
				return m, nil
			}
			target := item.user
			actor := current.User
			m.confirm = &confirmation{
				prompt: fmt.Sprintf("Удалить пользователя %s?", target.Username),
				onYes: func() tea.Cmd {
					ticket := m.begin(scopeAdmin)
					return deleteUserCmd(m.apiClient, ticket, target.ID, actor)
				},
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.userList, cmd = m.userList.Update(msg)
	return m, cmd
}

// viewAdminUsersScreen отображает список пользователей.
func (m *model) viewAdminUsersScreen() string {
	if m.users.Len() == 0 {
		return titleStyle.Render(m.userList.Title) + "\n\nПользователей нет"
	}
	return m.userList.View()
}
