package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/maynagashev/gophblog/models"
)

// StorageKey - ключ, под которым запись пользователя лежит в долговременном хранилище.
const StorageKey = "user"

// KeyValue - минимальный контракт долговременного хранилища, нужный сессии.
type KeyValue interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
}

// Store владеет состоянием сессии. Все изменения идут через Dispatch,
// после каждого Dispatch текущий пользователь записывается в хранилище.
type Store struct {
	mu      sync.Mutex
	state   State
	storage KeyValue
}

// New создает сессию, восстанавливая пользователя из хранилища.
// Сохраненный токен на сервере не перепроверяется.
func New(storage KeyValue) *Store {
	s := &Store{storage: storage}
	user, err := loadUser(storage)
	if err != nil {
		// Испорченная запись равносильна ее отсутствию
		slog.Warn("Не удалось восстановить сессию из хранилища", "error", err)
	}
	s.state.User = user
	slog.Info("Сессия инициализирована", "status", s.state.Status().String())
	return s
}

// Dispatch применяет действие и возвращает новое состояние.
func (s *Store) Dispatch(action Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Reduce(s.state, action)
	slog.Debug("Действие сессии применено",
		"action", string(action.Type),
		"status", s.state.Status().String(),
		"isFetching", s.state.IsFetching,
		"error", s.state.Error,
	)
	s.persist()

	st := s.state
	st.User = cloneUser(s.state.User)
	return st
}

// Logout сбрасывает пользователя. Запись в хранилище при этом перезаписывается null.
func (s *Store) Logout() State {
	return s.Dispatch(Action{Type: Logout})
}

// State возвращает копию текущего состояния.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.User = cloneUser(s.state.User)
	return st
}

// User возвращает копию записи пользователя или nil.
func (s *Store) User() *models.AuthUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneUser(s.state.User)
}

// Status возвращает укрупненный статус сессии.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Status()
}

// Username возвращает имя текущего пользователя или пустую строку.
func (s *Store) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.User == nil {
		return ""
	}
	return s.state.User.User.Username
}

// persist записывает текущего пользователя. Ошибка только логируется, повтора нет.
func (s *Store) persist() {
	if s.storage == nil {
		return
	}
	data, err := json.Marshal(s.state.User) // nil превращается в null
	if err != nil {
		slog.Error("Ошибка кодирования сессии", "error", err)
		return
	}
	if err = s.storage.Put(StorageKey, data); err != nil {
		slog.Error("Ошибка сохранения сессии", "key", StorageKey, "error", err)
	}
}

func loadUser(storage KeyValue) (*models.AuthUser, error) {
	if storage == nil {
		return nil, nil
	}
	data, found, err := storage.Get(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ключа '%s': %w", StorageKey, err)
	}
	if !found {
		return nil, nil
	}
	var user *models.AuthUser
	if err = json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("ошибка декодирования сессии: %w", err)
	}
	return user, nil
}
