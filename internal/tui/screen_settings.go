package tui

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/gophblog/internal/api"
	"github.com/maynagashev/gophblog/internal/session"
	"github.com/maynagashev/gophblog/internal/validate"
	"github.com/maynagashev/gophblog/models"
)

const keyDeleteAccount = "ctrl+x"

// openSettings открывает экран настроек, заполняя поля из сессии.
func (m *model) openSettings() tea.Cmd {
	user := m.session.User()
	if user == nil {
		return nil
	}
	m.err = nil
	m.state = settingsScreen
	resetInputs(m.settingsInputs)
	m.settingsInputs[settingsFieldUsername].SetValue(user.User.Username)
	m.settingsInputs[settingsFieldEmail].SetValue(user.User.Email)
	m.focusedField = settingsFieldUsername
	return tea.Batch(focusInput(m.settingsInputs, settingsFieldUsername), tea.ClearScreen)
}

// updateSettingsScreen обрабатывает ввод на экране настроек.
func (m *model) updateSettingsScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == keyDeleteAccount {
		return m.confirmDeleteAccount()
	}
	cancel := func() (tea.Model, tea.Cmd) {
		m.cancelProfileUpdate()
		m.state = postListScreen
		return m, tea.ClearScreen
	}
	return m.handleFormInput(msg, m.settingsInputs, m.submitProfile, cancel)
}

// submitProfile проверяет форму и запускает изменение профиля.
func (m *model) submitProfile() (tea.Model, tea.Cmd) {
	user := m.session.User()
	if user == nil {
		return m, nil
	}
	if m.session.State().IsFetching {
		return m, nil // Изменение уже выполняется
	}
	draft := profileDraft{
		current:     user.User,
		username:    inputValue(m.settingsInputs, settingsFieldUsername),
		email:       inputValue(m.settingsInputs, settingsFieldEmail),
		password:    m.settingsInputs[settingsFieldPassword].Value(),
		picturePath: inputValue(m.settingsInputs, settingsFieldPicture),
	}
	if err := validate.Profile(draft.username, draft.email, draft.password); err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil

	m.session.Dispatch(session.Action{Type: session.UpdateStart})
	ticket := m.begin(scopeProfile)
	slog.Info("Изменение профиля", "userID", user.User.ID)
	return m, tea.Batch(updateProfileCmd(m.apiClient, ticket, draft), m.statusCmd("Сохранение профиля..."))
}

// cancelProfileUpdate отменяет незавершенное изменение профиля.
func (m *model) cancelProfileUpdate() {
	m.err = nil
	if !m.session.State().IsFetching {
		return
	}
	m.tracker.Cancel(scopeProfile)
	m.session.Dispatch(session.Action{Type: session.UpdateFailure})
	slog.Info("Изменение профиля отменено пользователем")
}

// handleProfileUpdated применяет результат изменения профиля к сессии.
// Токен остается прежним: сервер возвращает только запись пользователя.
func (m *model) handleProfileUpdated(msg profileUpdatedMsg) (tea.Model, tea.Cmd) {
	if !m.accept(msg.ticket) {
		return m, nil
	}
	if msg.err != nil {
		m.session.Dispatch(session.Action{Type: session.UpdateFailure})
		m.err = msg.err
		return m.handleRequestError("Ошибка изменения профиля", msg.err)
	}

	current := m.session.User()
	if current == nil {
		return m, nil
	}
	m.session.Dispatch(session.Action{
		Type:    session.UpdateSuccess,
		Payload: &models.AuthUser{User: *msg.user, Token: current.Token},
	})
	slog.Info("Профиль обновлен", "username", msg.user.Username)

	m.settingsInputs[settingsFieldPassword].Reset()
	m.settingsInputs[settingsFieldPicture].Reset()
	return m.setStatusMessage("Профиль обновлен")
}

// confirmDeleteAccount запрашивает подтверждение удаления собственной учетной записи.
func (m *model) confirmDeleteAccount() (tea.Model, tea.Cmd) {
	user := m.session.User()
	if user == nil {
		return m, nil
	}
	actor := user.User
	m.confirm = &confirmation{
		prompt: "Удалить учетную запись? Это действие необратимо.",
		onYes: func() tea.Cmd {
			ticket := m.begin(scopeProfile)
			return deleteUserCmd(m.apiClient, ticket, actor.ID, actor)
		},
	}
	return m, nil
}

// handleUserDeleted обрабатывает удаление пользователя из настроек или админки.
func (m *model) handleUserDeleted(msg userDeletedMsg) (tea.Model, tea.Cmd) {
	if !m.accept(msg.ticket) {
		return m, nil
	}
	if msg.err != nil {
		return m.handleRequestError("Ошибка удаления пользователя", msg.err)
	}
	if msg.self {
		m.logout()
		m.state = loginRegisterChoiceScreen
		newM, cmd := m.setStatusMessage("Учетная запись удалена")
		return newM, tea.Batch(cmd, tea.ClearScreen)
	}
	m.users.Remove(msg.id)
	slog.Info("Пользователь удален", "id", msg.id)
	return m, tea.Batch(m.syncUserList(), m.statusCmd("Пользователь удален"))
}

// viewSettingsScreen отображает экран настроек.
func (m *model) viewSettingsScreen() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Настройки профиля") + "\n\n")
	if user := m.session.User(); user != nil {
		if img := api.ImageURL(m.serverURL, user.User.ProfilePic); img != "" {
			b.WriteString(subtleStyle.Render("Картинка профиля: "+img) + "\n\n")
		}
	}
	for i := range m.settingsInputs {
		b.WriteString(m.settingsInputs[i].View() + "\n")
	}
	hint := fmt.Sprintf("Enter на последнем поле - сохранить, %s - удалить учетную запись", strings.ToUpper(keyDeleteAccount))
	if m.session.State().IsFetching {
		hint = "Сохранение профиля..."
	}
	b.WriteString("\n" + subtleStyle.Render(hint) + "\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("Ошибка: "+api.UserMessage(m.err)) + "\n")
	}
	return b.String()
}
