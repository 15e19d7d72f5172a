package tui

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/gophblog/internal/api"
	"github.com/maynagashev/gophblog/internal/session"
	"github.com/maynagashev/gophblog/internal/validate"
)

// updateLoginRegisterChoiceScreen обрабатывает выбор между входом и регистрацией.
func (m *model) updateLoginRegisterChoiceScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "r", "R":
			m.state = registerScreen
			m.err = nil
			m.focusedField = 0
			resetInputs(m.registerInputs)
			return m, tea.Batch(textinput.Blink, tea.ClearScreen)
		case "l", "L":
			m.state = loginScreen
			m.err = nil
			m.focusedField = 0
			return m, tea.Batch(focusInput(m.loginInputs, 0), tea.ClearScreen)
		case keyQuit, keyEsc:
			return m, tea.Quit
		}
	}
	return m, nil
}

// viewLoginRegisterChoiceScreen отображает экран выбора входа или регистрации.
func (m *model) viewLoginRegisterChoiceScreen() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("GophBlog") + "\n\n")
	b.WriteString("Сервер: " + m.serverURL + "\n\n")
	b.WriteString("Выберите действие:\n")
	b.WriteString("- Вход с существующими данными " + accentStyle.Render("(L)") + "\n")
	b.WriteString("- Регистрация нового пользователя " + accentStyle.Render("(R)") + "\n")

	return b.String()
}

// updateLoginScreen обрабатывает ввод данных для входа.
func (m *model) updateLoginScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	cancel := func() (tea.Model, tea.Cmd) {
		m.cancelLogin()
		m.state = loginRegisterChoiceScreen
		return m, tea.ClearScreen
	}
	return m.handleFormInput(msg, m.loginInputs, m.submitLogin, cancel)
}

// submitLogin проверяет форму и запускает вход.
func (m *model) submitLogin() (tea.Model, tea.Cmd) {
	if m.session.State().IsFetching {
		return m, nil // Вход уже выполняется
	}
	username := inputValue(m.loginInputs, loginFieldUsername)
	password := m.loginInputs[loginFieldPassword].Value()
	if err := validate.Login(username, password); err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil

	m.session.Dispatch(session.Action{Type: session.LoginStart})
	ticket := m.begin(scopeAuth)
	slog.Info("Запуск входа", "username", username)
	return m, tea.Batch(loginCmd(m.apiClient, ticket, username, password), m.statusCmd("Выполняется вход..."))
}

// cancelLogin отменяет незавершенный вход. Сессия получает LOGIN_FAILURE,
// чтобы флаг запроса не остался выставленным.
func (m *model) cancelLogin() {
	m.err = nil
	if !m.session.State().IsFetching {
		return
	}
	m.tracker.Cancel(scopeAuth)
	m.session.Dispatch(session.Action{Type: session.LoginFailure})
	slog.Info("Вход отменен пользователем")
}

// handleLoginResult применяет результат входа к сессии.
func (m *model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	if !m.accept(msg.ticket) {
		return m, nil
	}
	if msg.err != nil {
		slog.Error("Ошибка входа", "error", msg.err)
		m.session.Dispatch(session.Action{Type: session.LoginFailure})
		m.err = msg.err
		return m.setStatusMessage("Ошибка входа")
	}

	m.session.Dispatch(session.Action{Type: session.LoginSuccess, Payload: msg.user})
	m.apiClient.SetAuthToken(msg.user.Token)
	slog.Info("Вход выполнен", "username", msg.user.User.Username)

	m.err = nil
	resetInputs(m.loginInputs)
	blurInputs(m.loginInputs)
	m.focusedField = 0
	cmd := m.openPostList(listHome, "")
	return m, tea.Batch(cmd, m.statusCmd("Вход выполнен как "+msg.user.User.Username), tea.ClearScreen)
}

// viewLoginScreen отображает экран ввода данных для входа.
func (m *model) viewLoginScreen() string {
	hint := "Нажмите Enter для входа, Esc для возврата"
	if m.session.State().IsFetching {
		hint = "Выполняется вход..."
	}
	return m.viewFormScreen("Вход в учетную запись", hint, m.loginInputs)
}

// updateRegisterScreen обрабатывает ввод данных для регистрации.
func (m *model) updateRegisterScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	cancel := func() (tea.Model, tea.Cmd) {
		m.tracker.Cancel(scopeAuth)
		m.err = nil
		m.state = loginRegisterChoiceScreen
		return m, tea.ClearScreen
	}
	return m.handleFormInput(msg, m.registerInputs, m.submitRegister, cancel)
}

// submitRegister проверяет форму и запускает регистрацию.
func (m *model) submitRegister() (tea.Model, tea.Cmd) {
	username := inputValue(m.registerInputs, registerFieldUsername)
	email := inputValue(m.registerInputs, registerFieldEmail)
	password := m.registerInputs[registerFieldPassword].Value()
	if err := validate.Register(username, email, password); err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil

	ticket := m.begin(scopeAuth)
	slog.Info("Запуск регистрации", "username", username)
	return m, tea.Batch(
		registerCmd(m.apiClient, ticket, username, email, password),
		m.statusCmd("Выполняется регистрация..."),
	)
}

// handleRegisterResult переводит на экран входа после успешной регистрации.
func (m *model) handleRegisterResult(msg registerResultMsg) (tea.Model, tea.Cmd) {
	if !m.accept(msg.ticket) {
		return m, nil
	}
	if msg.err != nil {
		slog.Error("Ошибка регистрации", "error", msg.err)
		m.err = msg.err
		return m.setStatusMessage("Ошибка регистрации")
	}

	slog.Info("Регистрация выполнена", "username", msg.username)
	m.err = nil
	resetInputs(m.registerInputs)
	blurInputs(m.registerInputs)

	m.state = loginScreen
	m.focusedField = loginFieldPassword
	m.loginInputs[loginFieldUsername].SetValue(msg.username)
	m.loginInputs[loginFieldPassword].Reset()
	focusCmd := focusInput(m.loginInputs, loginFieldPassword)
	return m, tea.Batch(focusCmd, m.statusCmd("Регистрация выполнена. Войдите с новыми данными."), tea.ClearScreen)
}

// viewRegisterScreen отображает экран ввода данных для регистрации.
func (m *model) viewRegisterScreen() string {
	return m.viewFormScreen("Регистрация", "Нажмите Enter для регистрации, Esc для возврата", m.registerInputs)
}

// viewFormScreen отображает общий экран формы.
func (m *model) viewFormScreen(title, hint string, inputs []textinput.Model) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(title) + "\n\n")
	for i := range inputs {
		b.WriteString(inputs[i].View() + "\n")
	}
	b.WriteString("\n" + subtleStyle.Render(hint) + "\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("Ошибка: "+api.UserMessage(m.err)) + "\n")
	}
	return b.String()
}
