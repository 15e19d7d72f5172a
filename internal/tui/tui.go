package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maynagashev/gophblog/internal/api"
	"github.com/maynagashev/gophblog/internal/request"
	"github.com/maynagashev/gophblog/internal/session"
	"github.com/maynagashev/gophblog/models"
)

const (
	statusMessageTimeout     = 3 * time.Second // Время отображения статусных сообщений
	helpStatusHeightOffset   = 3               // Высота строки помощи и статуса
	docStyleMarginVertical   = 1
	docStyleMarginHorizontal = 2
	dateLayout               = "02.01.2006"
)

// Options - зависимости TUI. Сессия, клиент и трекер создаются в main.
type Options struct {
	Session   *session.Store
	Client    api.Client
	Tracker   *request.Tracker
	ServerURL string
	Debug     bool
}

//nolint:gochecknoglobals // Стили неизменяемы
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F25D94"))
)

// Init - команда, выполняемая при запуске приложения.
func (m *model) Init() tea.Cmd {
	if m.session.Status() == session.StatusLoggedIn {
		return tea.Batch(textinput.Blink, m.openPostList(listHome, ""))
	}
	return textinput.Blink
}

// setStatusMessage устанавливает статусное сообщение и запускает таймер для его очистки.
func (m *model) setStatusMessage(status string) (tea.Model, tea.Cmd) {
	m.statusMessage = status
	m.statusSeq++
	return m, clearStatusCmd(m.statusTimeout, m.statusSeq)
}

// statusCmd - вариант setStatusMessage для мест, где нужна только команда.
func (m *model) statusCmd(status string) tea.Cmd {
	_, cmd := m.setStatusMessage(status)
	return cmd
}

// accept проверяет, что ответ относится к актуальному запросу, и закрывает билет.
func (m *model) accept(ticket request.Ticket) bool {
	if !m.tracker.Current(ticket) {
		slog.Debug("Устаревший ответ отброшен", "scope", ticket.Scope, "ticket", ticket.ID)
		return false
	}
	m.tracker.Finish(ticket)
	return true
}

// begin выдает билет на запрос области scope.
func (m *model) begin(scope string) request.Ticket {
	return m.tracker.Begin(scope)
}

// handleRequestError показывает ошибку запроса. Если сервер отклонил токен,
// сессия завершается и пользователь возвращается к входу.
func (m *model) handleRequestError(action string, err error) (tea.Model, tea.Cmd) {
	slog.Error("Ошибка запроса", "action", action, "error", err)
	if errors.Is(err, api.ErrAuthorization) && m.session.Status() == session.StatusLoggedIn {
		m.logout()
		m.state = loginRegisterChoiceScreen
		newM, statusCmd := m.setStatusMessage("Сессия истекла. Пожалуйста, войдите снова (L).")
		return newM, tea.Batch(statusCmd, tea.ClearScreen)
	}
	return m.setStatusMessage(fmt.Sprintf("%s: %s", action, api.UserMessage(err)))
}

// logout завершает сессию: отменяет запросы, сбрасывает пользователя и кэши.
func (m *model) logout() {
	m.tracker.CancelAll()
	m.session.Logout()
	m.apiClient.SetAuthToken("")
	m.posts.Reset(nil)
	m.comments.Reset(nil)
	m.users.Reset(nil)
	m.selectedPost = nil
	m.confirm = nil
	slog.Info("Выход из учетной записи выполнен")
}

// currentUserID возвращает ID текущего пользователя или пустую строку.
func (m *model) currentUserID() string {
	if user := m.session.User(); user != nil {
		return user.User.ID
	}
	return ""
}

// isAdmin сообщает, вошел ли администратор.
func (m *model) isAdmin() bool {
	return m.session.Username() == models.AdminUsername
}

// getMainContentView возвращает основное содержимое для текущего состояния.
func (m *model) getMainContentView() string {
	switch m.state {
	case loginRegisterChoiceScreen:
		return m.viewLoginRegisterChoiceScreen()
	case loginScreen:
		return m.viewLoginScreen()
	case registerScreen:
		return m.viewRegisterScreen()
	case postListScreen:
		return m.viewPostListScreen()
	case searchInputScreen:
		return m.viewSearchInputScreen()
	case categoryPickerScreen:
		return m.viewCategoryPickerScreen()
	case postDetailScreen:
		return m.viewPostDetailScreen()
	case postEditorScreen:
		return m.viewPostEditorScreen()
	case commentEditorScreen:
		return m.viewCommentEditorScreen()
	case settingsScreen:
		return m.viewSettingsScreen()
	case adminUsersScreen:
		return m.viewAdminUsersScreen()
	case categoryEditScreen:
		return m.viewCategoryEditScreen()
	default:
		return "Неизвестное состояние!"
	}
}

// helpText возвращает подсказку по клавишам для текущего экрана.
func (m *model) helpText() string {
	if m.confirm != nil {
		return "y: подтвердить | n/Esc: отмена"
	}
	switch m.state {
	case loginRegisterChoiceScreen:
		return "l: вход | r: регистрация | q: выход"
	case loginScreen, registerScreen, settingsScreen:
		return "Tab: след. поле | Enter: далее/отправить | Esc: назад"
	case postListScreen:
		help := "Enter: открыть | /: поиск | c: категории | a: посты автора | m: мои | f: избранное | " +
			"h: все | n: новый | r: обновить | s: настройки | L: выйти | q: выход"
		if m.isAdmin() {
			help += " | u: пользователи"
		}
		return help
	case searchInputScreen:
		return "Enter: искать | Esc: назад"
	case categoryPickerScreen:
		if m.isAdmin() {
			return "Enter: выбрать | e: переименовать | d: удалить | Esc: назад"
		}
		return "Enter: выбрать | Esc: назад"
	case categoryEditScreen:
		return "Enter: сохранить | Esc: назад"
	case postDetailScreen:
		help := "f: избранное | c: комментировать | l: лайк | E: изм. комментарий | D: удал. комментарий | Esc: назад"
		if m.selectedPost != nil && m.selectedPost.CanEdit(m.session.Username()) {
			help = "e: редактировать | d: удалить | " + help
		}
		return help
	case postEditorScreen, commentEditorScreen:
		return "Tab: след. поле | Ctrl+S: сохранить | Esc: отмена"
	case adminUsersScreen:
		return "d: удалить пользователя | r: обновить | Esc: назад"
	default:
		return ""
	}
}

// getDebugInfoString генерирует отладочную информацию.
func (m *model) getDebugInfoString() string {
	var debugInfo strings.Builder
	st := m.session.State()
	debugInfo.WriteString(fmt.Sprintf(" [State: %s]\n", m.state.String()))
	debugInfo.WriteString(fmt.Sprintf(" [URL: %s]\n", m.serverURL))
	debugInfo.WriteString(fmt.Sprintf(" [Session: %s fetching=%t error=%t]\n",
		st.Status().String(), st.IsFetching, st.Error))
	if st.User != nil {
		if info, err := session.ParseToken(st.User.Token); err == nil {
			debugInfo.WriteString(fmt.Sprintf(" [Token: sub=%s exp=%s expired=%t]\n",
				info.Subject, info.ExpiresAt.Format(time.RFC3339), info.Expired(time.Now())))
		} else {
			debugInfo.WriteString(fmt.Sprintf(" [Token: %v]\n", err))
		}
	}
	debugInfo.WriteString(fmt.Sprintf(" [Pending requests: %d]\n", m.tracker.Pending()))
	return debugInfo.String()
}

// View отрисовывает пользовательский интерфейс.
func (m *model) View() string {
	mainContent := m.getMainContentView()
	if m.confirm != nil {
		mainContent += "\n\n" + accentStyle.Render(m.confirm.prompt+" (y/n)")
	}

	var footer strings.Builder
	if m.statusMessage != "" {
		footer.WriteString("\n")
		footer.WriteString(m.statusMessage)
	}
	if m.debugMode {
		footer.WriteString("\n\n---\nОтладка:\n")
		footer.WriteString(m.getDebugInfoString())
	}

	styledContent := m.docStyle.Render(mainContent)
	return fmt.Sprintf("%s\n%s%s", styledContent, subtleStyle.Render(m.helpText()), footer.String())
}

// Start запускает TUI приложение.
func Start(opts Options) error {
	m := initModel(opts)

	if user := opts.Session.User(); user != nil {
		opts.Client.SetAuthToken(user.Token)
		m.state = postListScreen
		slog.Info("Сессия восстановлена из хранилища", "username", user.User.Username)
	} else {
		slog.Info("Сохраненной сессии нет, показываем экран входа")
	}

	p := tea.NewProgram(&m, tea.WithAltScreen())
	_, err := p.Run()
	opts.Tracker.CancelAll()
	if err != nil {
		slog.Error("Ошибка при запуске TUI", "error", err)
		return fmt.Errorf("ошибка TUI: %w", err)
	}
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateLayout)
}
