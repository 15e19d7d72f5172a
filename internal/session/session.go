// Package session хранит состояние "кто вошел в систему": единственный
// источник истины для всех экранов и единственный путь изменения этого состояния.
package session

import "github.com/maynagashev/gophblog/models"

// ActionType - вид перехода состояния сессии.
type ActionType string

// Поддерживаемые виды переходов. Любой другой вид игнорируется.
const (
	LoginStart    ActionType = "LOGIN_START"
	LoginSuccess  ActionType = "LOGIN_SUCCESS"
	LoginFailure  ActionType = "LOGIN_FAILURE"
	Logout        ActionType = "LOGOUT"
	UpdateStart   ActionType = "UPDATE_START"
	UpdateSuccess ActionType = "UPDATE_SUCCESS"
	UpdateFailure ActionType = "UPDATE_FAILURE"
)

// Action - запрос на переход состояния. Payload нужен только для *_SUCCESS.
type Action struct {
	Type    ActionType
	Payload *models.AuthUser
}

// State - состояние сессии.
type State struct {
	User       *models.AuthUser // nil, если вход не выполнен
	IsFetching bool             // Идет запрос входа или изменения профиля
	Error      bool             // Последняя попытка завершилась ошибкой
}

// Status - укрупненный статус сессии.
type Status int

const (
	StatusLoggedOut Status = iota
	StatusPending
	StatusLoggedIn
)

func (s Status) String() string {
	switch s {
	case StatusLoggedOut:
		return "LOGGED_OUT"
	case StatusPending:
		return "PENDING"
	case StatusLoggedIn:
		return "LOGGED_IN"
	default:
		return "UNKNOWN"
	}
}

// Status вычисляет статус по состоянию. Наличие пользователя важнее
// флага запроса: изменение профиля не выводит из LOGGED_IN.
func (s State) Status() Status {
	switch {
	case s.User != nil:
		return StatusLoggedIn
	case s.IsFetching:
		return StatusPending
	default:
		return StatusLoggedOut
	}
}

// Reduce применяет действие к состоянию и возвращает новое состояние.
// Функция чистая: входное состояние не изменяется.
func Reduce(state State, action Action) State {
	switch action.Type {
	case LoginStart, UpdateStart:
		state.IsFetching = true
		state.Error = false
	case LoginSuccess, UpdateSuccess:
		state.User = cloneUser(action.Payload)
		state.IsFetching = false
		state.Error = false
	case LoginFailure, UpdateFailure:
		state.IsFetching = false
		state.Error = true
	case Logout:
		state.User = nil
	}
	return state
}

// cloneUser копирует запись, чтобы вызывающий код не мог менять состояние в обход Dispatch.
func cloneUser(user *models.AuthUser) *models.AuthUser {
	if user == nil {
		return nil
	}
	c := *user
	if user.User.Favorites != nil {
		c.User.Favorites = append([]string(nil), user.User.Favorites...)
	}
	return &c
}
