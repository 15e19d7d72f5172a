package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maynagashev/gophblog/internal/api"
	"github.com/maynagashev/gophblog/internal/cache"
	"github.com/maynagashev/gophblog/internal/request"
	"github.com/maynagashev/gophblog/internal/session"
	"github.com/maynagashev/gophblog/models"
)

// Состояния (экраны) приложения.
type screenState int

const (
	loginRegisterChoiceScreen screenState = iota // Экран выбора "Войти или Зарегистрироваться?"
	loginScreen                                  // Экран ввода данных для входа
	registerScreen                               // Экран ввода данных для регистрации
	postListScreen                               // Экран списка постов
	searchInputScreen                            // Экран ввода поискового запроса
	categoryPickerScreen                         // Экран выбора категории
	postDetailScreen                             // Экран поста с комментариями
	postEditorScreen                             // Экран создания/редактирования поста
	commentEditorScreen                          // Экран создания/редактирования комментария
	settingsScreen                               // Экран настроек профиля
	adminUsersScreen                             // Экран администрирования пользователей
	categoryEditScreen                           // Экран переименования категории
)

func (s screenState) String() string {
	switch s {
	case loginRegisterChoiceScreen:
		return "loginRegisterChoice"
	case loginScreen:
		return "login"
	case registerScreen:
		return "register"
	case postListScreen:
		return "postList"
	case searchInputScreen:
		return "searchInput"
	case categoryPickerScreen:
		return "categoryPicker"
	case postDetailScreen:
		return "postDetail"
	case postEditorScreen:
		return "postEditor"
	case commentEditorScreen:
		return "commentEditor"
	case settingsScreen:
		return "settings"
	case adminUsersScreen:
		return "adminUsers"
	case categoryEditScreen:
		return "categoryEdit"
	default:
		return fmt.Sprintf("screenState(%d)", int(s))
	}
}

// listMode определяет, какие посты показывает экран списка.
type listMode int

const (
	listHome      listMode = iota // Все посты
	listSearch                    // Результаты поиска
	listCategory                  // Посты категории
	listAuthor                    // Посты автора
	listMine                      // Посты текущего пользователя
	listFavorites                 // Избранное
)

// Области запросов для трекера. Уход с экрана отменяет запросы его области.
const (
	scopeAuth       = "auth"
	scopePosts      = "posts"
	scopePost       = "post"
	scopeComments   = "comments"
	scopeCategories = "categories"
	scopeCategory   = "category"
	scopeUsers      = "users"
	scopeEditor     = "editor"
	scopeComment    = "comment"
	scopeLike       = "like"
	scopeFavorite   = "favorite"
	scopeProfile    = "profile"
	scopeAdmin      = "admin"
)

// Константы для TUI.
const (
	defaultListWidth    = 80 // Стандартная ширина терминала для списка
	defaultListHeight   = 24 // Стандартная высота терминала для списка
	passwordInputOffset = 4  // Отступ для полей ввода

	keyEnter    = "enter"
	keyQuit     = "q"
	keyBack     = "b"
	keyEsc      = "esc"
	keyEdit     = "e"
	keyDelete   = "d"
	keyTab      = "tab"
	keyShiftTab = "shift+tab"
	keySave     = "ctrl+s"
	keyYes      = "y"
	keyNo       = "n"
)

// Поля формы входа.
const (
	loginFieldUsername = iota
	loginFieldPassword
	numLoginFields
)

// Поля формы регистрации.
const (
	registerFieldUsername = iota
	registerFieldEmail
	registerFieldPassword
	numRegisterFields
)

// Поля формы поста (текст поста редактируется отдельным textarea).
const (
	editorFieldTitle = iota
	editorFieldCategory
	editorFieldImage
	editorFieldDesc // Фокус на textarea
	numEditorFields
)

// Поля формы настроек.
const (
	settingsFieldUsername = iota
	settingsFieldEmail
	settingsFieldPassword
	settingsFieldPicture
	numSettingsFields
)

// postItem - элемент списка постов. Реализует интерфейс list.Item.
type postItem struct {
	post models.Post
}

func (i postItem) Title() string { return i.post.Title }

func (i postItem) Description() string {
	desc := fmt.Sprintf("%s | %s", i.post.Username, formatDate(i.post.CreatedAt))
	if len(i.post.Categories) > 0 {
		desc += " | " + strings.Join(i.post.Categories, ", ")
	}
	return desc
}

func (i postItem) FilterValue() string { return i.post.Title }

// commentItem - элемент списка комментариев.
type commentItem struct {
	comment models.Comment
	userID  string // Текущий пользователь, для отметки лайка
}

func (i commentItem) Title() string {
	return fmt.Sprintf("%s: %s", i.comment.Username, i.comment.Content)
}

func (i commentItem) Description() string {
	heart := "♡"
	if i.userID != "" && i.comment.LikedBy(i.userID) {
		heart = "♥"
	}
	return fmt.Sprintf("%s %d | %s", heart, len(i.comment.Likes), formatDate(i.comment.CreatedAt))
}

func (i commentItem) FilterValue() string { return i.comment.Content }

// categoryItem - элемент списка категорий.
type categoryItem struct {
	category models.Category
}

func (i categoryItem) Title() string       { return i.category.Name }
func (i categoryItem) Description() string { return "" }
func (i categoryItem) FilterValue() string { return i.category.Name }

// userItem - элемент списка пользователей в админке.
type userItem struct {
	user models.User
}

func (i userItem) Title() string { return i.user.Username }

func (i userItem) Description() string {
	return fmt.Sprintf("%s | с %s", i.user.Email, formatDate(i.user.CreatedAt))
}

func (i userItem) FilterValue() string { return i.user.Username }

// confirmation - запрос подтверждения необратимого действия.
type confirmation struct {
	prompt string
	onYes  func() tea.Cmd
}

// model представляет состояние TUI приложения.
type model struct {
	state         screenState
	returnState   screenState // Куда вернуться из поста или редактора
	session       *session.Store
	apiClient     api.Client
	tracker       *request.Tracker
	serverURL     string
	debugMode     bool
	statusMessage string // Статус (отображается внизу)
	statusSeq     int    // Номер статуса, чтобы таймер не стер более новый
	statusTimeout time.Duration
	err           error  // Ошибка формы текущего экрана
	docStyle      lipgloss.Style
	width         int
	height        int

	// Локальные кэши списков
	posts      *cache.List[models.Post]
	comments   *cache.List[models.Comment]
	categories *cache.List[models.Category]
	users      *cache.List[models.User]

	// Список постов
	listMode     listMode
	listArg      string // Запрос, категория или автор в зависимости от listMode
	postList     list.Model
	categoryList list.Model
	commentList  list.Model
	userList     list.Model
	loading      bool

	// Пост
	selectedPost   *models.Post
	detailViewport viewport.Model
	confirm        *confirmation

	// Вход и регистрация
	loginInputs    []textinput.Model
	registerInputs []textinput.Model
	focusedField   int // Индекс активного поля текущей формы

	searchInput textinput.Model

	// Переименование категории
	categoryInput     textinput.Model
	editingCategoryID string

	// Редактор поста
	editorInputs  []textinput.Model
	editorDesc    textarea.Model
	editingPostID string // Пусто при создании нового поста

	// Редактор комментария
	commentInput     textarea.Model
	editingCommentID string // Пусто при создании нового комментария

	settingsInputs []textinput.Model
}

// Сообщение для очистки статуса.
type clearStatusMsg struct {
	seq int
}
