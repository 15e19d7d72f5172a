package tui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/maynagashev/gophblog/internal/cache"
	"github.com/maynagashev/gophblog/models"
)

// Константы, используемые при инициализации.
const (
	initPasswordCharLimit = 156
	initPathCharLimit     = 4096
	initEmailCharLimit    = 256
	initUserCharLimit     = 128
	initTitleCharLimit    = 256
	initQueryCharLimit    = 256
	initInputWidth        = 40
	initTextareaHeight    = 10
	initCommentHeight     = 4
)

func newTextInput(placeholder string, charLimit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = charLimit
	ti.Width = initInputWidth
	return ti
}

func newPasswordInput(placeholder string) textinput.Model {
	ti := newTextInput(placeholder, initPasswordCharLimit)
	ti.EchoMode = textinput.EchoPassword
	return ti
}

// initLoginInputs инициализирует поля для экрана входа.
func initLoginInputs() []textinput.Model {
	inputs := make([]textinput.Model, numLoginFields)
	inputs[loginFieldUsername] = newTextInput("Имя пользователя", initUserCharLimit)
	inputs[loginFieldPassword] = newPasswordInput("Пароль")
	return inputs
}

// initRegisterInputs инициализирует поля для экрана регистрации.
func initRegisterInputs() []textinput.Model {
	inputs := make([]textinput.Model, numRegisterFields)
	inputs[registerFieldUsername] = newTextInput("Имя пользователя", initUserCharLimit)
	inputs[registerFieldEmail] = newTextInput("Email", initEmailCharLimit)
	inputs[registerFieldPassword] = newPasswordInput("Пароль (буквы и цифры, от 6 символов)")
	return inputs
}

// initEditorInputs инициализирует однострочные поля редактора поста.
func initEditorInputs() []textinput.Model {
	inputs := make([]textinput.Model, editorFieldDesc)
	inputs[editorFieldTitle] = newTextInput("Заголовок", initTitleCharLimit)
	inputs[editorFieldCategory] = newTextInput("Категория (необязательно)", initUserCharLimit)
	inputs[editorFieldImage] = newTextInput("Путь к картинке (необязательно)", initPathCharLimit)
	return inputs
}

// initSettingsInputs инициализирует поля экрана настроек.
func initSettingsInputs() []textinput.Model {
	inputs := make([]textinput.Model, numSettingsFields)
	inputs[settingsFieldUsername] = newTextInput("Имя пользователя", initUserCharLimit)
	inputs[settingsFieldEmail] = newTextInput("Email", initEmailCharLimit)
	inputs[settingsFieldPassword] = newPasswordInput("Новый пароль (необязательно)")
	inputs[settingsFieldPicture] = newTextInput("Путь к картинке профиля (необязательно)", initPathCharLimit)
	return inputs
}

func newTextarea(placeholder string, height int) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.SetWidth(defaultListWidth - passwordInputOffset)
	ta.SetHeight(height)
	ta.CharLimit = 0
	return ta
}

// newList создает список с единым оформлением.
func newList(title string, showDescription bool) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = showDescription
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("212")).
		BorderLeftForeground(lipgloss.Color("212"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("240")).
		BorderLeftForeground(lipgloss.Color("212"))

	l := list.New([]list.Item{}, delegate, defaultListWidth, defaultListHeight)
	l.Title = title
	l.SetShowHelp(false) // Мы переопределяем справку
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false) // Выход и возврат обрабатываются экранами
	l.Styles.Title = list.DefaultStyles().Title.Bold(true)
	return l
}

// initDocStyle инициализирует основной стиль документа.
func initDocStyle() lipgloss.Style {
	return lipgloss.NewStyle().Margin(docStyleMarginVertical, docStyleMarginHorizontal)
}

// initModel создает начальное состояние модели.
func initModel(opts Options) model {
	m := model{
		state:          loginRegisterChoiceScreen,
		session:        opts.Session,
		apiClient:      opts.Client,
		tracker:        opts.Tracker,
		serverURL:      opts.ServerURL,
		debugMode:      opts.Debug,
		statusTimeout:  statusMessageTimeout,
		docStyle:       initDocStyle(),
		posts:          cache.NewList(func(p models.Post) string { return p.ID }),
		comments:       cache.NewList(func(c models.Comment) string { return c.ID }),
		categories:     cache.NewList(func(c models.Category) string { return c.ID }),
		users:          cache.NewList(func(u models.User) string { return u.ID }),
		postList:       newList("Посты", true),
		categoryList:   newList("Категории", false),
		commentList:    newList("Комментарии", true),
		userList:       newList("Пользователи", true),
		detailViewport: viewport.New(defaultListWidth, initTextareaHeight),
		loginInputs:    initLoginInputs(),
		registerInputs: initRegisterInputs(),
		searchInput:    newTextInput("Поиск", initQueryCharLimit),
		categoryInput:  newTextInput("Новое название", initUserCharLimit),
		editorInputs:   initEditorInputs(),
		editorDesc:     newTextarea("Текст поста", initTextareaHeight),
		commentInput:   newTextarea("Комментарий", initCommentHeight),
		settingsInputs: initSettingsInputs(),
	}
	return m
}
