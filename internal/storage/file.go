package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

const (
	lockFileName  = ".lock"
	fileExtension = ".json"
	dirPerm       = 0o700
	filePerm      = 0o600
)

// FileStore хранит каждый ключ в отдельном файле внутри каталога.
// Межпроцессный доступ защищен файловой блокировкой (flock),
// внутрипроцессный - мьютексом: flock не различает горутины одного процесса.
type FileStore struct {
	dir    string
	mu     sync.RWMutex
	lock   *flock.Flock
	closed bool
}

// NewFileStore создает (при необходимости) каталог и возвращает хранилище.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("каталог хранилища не может быть пустым")
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("ошибка создания каталога хранилища '%s': %w", dir, err)
	}
	lockPath := filepath.Join(dir, lockFileName)
	slog.Debug("Файловое хранилище открыто", "dir", dir, "lockPath", lockPath)
	return &FileStore{
		dir:  dir,
		lock: flock.New(lockPath),
	}, nil
}

// Dir возвращает каталог хранилища.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+fileExtension)
}

// Get читает значение ключа под разделяемой блокировкой.
func (s *FileStore) Get(key string) ([]byte, bool, error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, false, ErrClosed
	}

	if err := s.lock.RLock(); err != nil {
		return nil, false, fmt.Errorf("ошибка получения блокировки на чтение: %w", err)
	}
	defer s.unlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("ошибка чтения ключа '%s': %w", key, err)
	}
	return data, true, nil
}

// Put атомарно записывает значение: сначала во временный файл, затем rename.
func (s *FileStore) Put(key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("ошибка получения блокировки на запись: %w", err)
	}
	defer s.unlock()

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("ошибка создания временного файла для '%s': %w", key, err)
	}
	tmpName := tmp.Name()
	// Если rename не дошел до конца, временный файл не нужен
	defer os.Remove(tmpName)

	if _, err = tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("ошибка записи ключа '%s': %w", key, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("ошибка закрытия временного файла для '%s': %w", key, err)
	}
	if err = os.Chmod(tmpName, filePerm); err != nil {
		return fmt.Errorf("ошибка установки прав для '%s': %w", key, err)
	}
	if err = os.Rename(tmpName, s.path(key)); err != nil {
		return fmt.Errorf("ошибка сохранения ключа '%s': %w", key, err)
	}
	return nil
}

// Delete удаляет файл ключа.
func (s *FileStore) Delete(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("ошибка получения блокировки на запись: %w", err)
	}
	defer s.unlock()

	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("ошибка удаления ключа '%s': %w", key, err)
	}
	return nil
}

// Close закрывает хранилище. Повторный вызов безопасен.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.lock.Close()
}

func (s *FileStore) unlock() {
	if err := s.lock.Unlock(); err != nil {
		slog.Error("Ошибка при снятии блокировки хранилища", "dir", s.dir, "error", err)
	}
}
