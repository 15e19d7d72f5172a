package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/tobischo/gokeepasslib/v3"
	"github.com/tobischo/gokeepasslib/v3/wrappers"
)

const (
	// customDataKeyPrefix отделяет ключи клиента от чужих CustomData в KDBX.
	customDataKeyPrefix = "GophBlog."
	kdbxDatabaseName    = "GophBlog"
	rootGroupName       = "Root"
)

// KdbxStore хранит ключи в CustomData метаданных зашифрованной базы KDBX.
// Каждое изменение перекодирует базу и перезаписывает файл целиком.
type KdbxStore struct {
	mu       sync.Mutex
	path     string
	password string
	db       *gokeepasslib.Database
}

// OpenKdbxStore открывает существующий файл KDBX или создает новый.
func OpenKdbxStore(path, password string) (*KdbxStore, error) {
	if password == "" {
		return nil, errors.New("пароль KDBX не может быть пустым")
	}

	s := &KdbxStore{path: path, password: password}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		db, openErr := openFile(path, password)
		if openErr != nil {
			return nil, openErr
		}
		s.db = db
		slog.Info("Файл KDBX открыт", "path", path)
	case errors.Is(err, os.ErrNotExist):
		s.db = newDatabase(password)
		if err = os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
			return nil, fmt.Errorf("ошибка создания каталога для '%s': %w", path, err)
		}
		if err = saveFile(s.db, path); err != nil {
			return nil, err
		}
		slog.Info("Создан новый файл KDBX", "path", path)
	default:
		return nil, fmt.Errorf("ошибка доступа к файлу '%s': %w", path, err)
	}

	ensureRootGroup(s.db)
	return s, nil
}

// Get ищет значение ключа в CustomData.
func (s *KdbxStore) Get(key string) ([]byte, bool, error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, false, ErrClosed
	}

	fullKey := customDataKeyPrefix + key
	for _, item := range s.db.Content.Meta.CustomData {
		if item.Key == fullKey {
			return []byte(item.Value), true, nil
		}
	}
	return nil, false, nil
}

// Put обновляет значение ключа и сохраняет файл.
func (s *KdbxStore) Put(key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return ErrClosed
	}

	meta := s.db.Content.Meta
	updated := setCustomDataValue(slices.Clone(meta.CustomData), customDataKeyPrefix+key, string(value))
	return s.commit(updated)
}

// Delete удаляет ключ и сохраняет файл, если ключ был.
func (s *KdbxStore) Delete(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return ErrClosed
	}

	meta := s.db.Content.Meta
	updated := removeCustomDataValue(meta.CustomData, customDataKeyPrefix+key)
	if len(updated) == len(meta.CustomData) {
		return nil
	}
	return s.commit(updated)
}

// commit сохраняет базу с новым CustomData. Если файл записать не удалось,
// в памяти остается прежнее содержимое. Вызывается под s.mu.
func (s *KdbxStore) commit(customData []gokeepasslib.CustomData) error {
	meta := s.db.Content.Meta
	prev := meta.CustomData
	meta.CustomData = customData
	touchRootGroup(s.db)
	if err := saveFile(s.db, s.path); err != nil {
		meta.CustomData = prev
		return err
	}
	return nil
}

// Close забывает расшифрованную базу.
func (s *KdbxStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.db = nil
	return nil
}

// newDatabase создает пустую базу с корневой группой.
func newDatabase(password string) *gokeepasslib.Database {
	db := gokeepasslib.NewDatabase()
	db.Credentials = gokeepasslib.NewPasswordCredentials(password)
	db.Content.Meta.DatabaseName = kdbxDatabaseName
	db.Content.Meta.CustomData = []gokeepasslib.CustomData{}
	ensureRootGroup(db)
	return db
}

func ensureRootGroup(db *gokeepasslib.Database) {
	if db.Content.Root != nil && len(db.Content.Root.Groups) > 0 {
		return
	}
	rootGroup := gokeepasslib.NewGroup()
	rootGroup.Name = rootGroupName
	db.Content.Root = &gokeepasslib.RootData{
		Groups: []gokeepasslib.Group{rootGroup},
	}
}

// openFile открывает и дешифрует KDBX файл.
func openFile(path, password string) (*gokeepasslib.Database, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла '%s': %w", path, err)
	}
	defer file.Close()

	db := gokeepasslib.NewDatabase()
	db.Credentials = gokeepasslib.NewPasswordCredentials(password)
	if err = gokeepasslib.NewDecoder(file).Decode(db); err != nil {
		return nil, fmt.Errorf("ошибка дешифрования файла '%s': %w", path, err)
	}
	if err = db.UnlockProtectedEntries(); err != nil {
		return nil, fmt.Errorf("ошибка разблокировки защищенных полей: %w", err)
	}
	if db.Content == nil || db.Content.Meta == nil {
		return nil, fmt.Errorf("файл '%s' не содержит метаданных KDBX", path)
	}
	return db, nil
}

// saveFile кодирует базу во временный файл и атомарно заменяет им основной.
func saveFile(db *gokeepasslib.Database, path string) error {
	if err := db.LockProtectedEntries(); err != nil {
		slog.Warn("Не удалось заблокировать поля перед сохранением", "error", err)
	}
	defer func() {
		if err := db.UnlockProtectedEntries(); err != nil {
			slog.Warn("Не удалось разблокировать поля после сохранения", "error", err)
		}
	}()

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("ошибка создания временного файла для '%s': %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err = gokeepasslib.NewEncoder(tmp).Encode(db); err != nil {
		tmp.Close()
		return fmt.Errorf("ошибка кодирования и записи БД в файл '%s': %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("ошибка закрытия временного файла для '%s': %w", path, err)
	}
	if err = os.Chmod(tmpName, filePerm); err != nil {
		return fmt.Errorf("ошибка установки прав для '%s': %w", path, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("ошибка сохранения файла '%s': %w", path, err)
	}
	return nil
}

// setCustomDataValue обновляет или добавляет значение в слайс CustomData.
func setCustomDataValue(customData []gokeepasslib.CustomData, key, value string) []gokeepasslib.CustomData {
	for i := range customData {
		if customData[i].Key == key {
			customData[i].Value = value
			slog.Debug("Обновлено значение CustomData", "key", key)
			return customData
		}
	}
	slog.Debug("Добавлено новое значение CustomData", "key", key)
	return append(customData, gokeepasslib.CustomData{Key: key, Value: value})
}

// removeCustomDataValue удаляет значение из слайса CustomData по ключу.
func removeCustomDataValue(customData []gokeepasslib.CustomData, key string) []gokeepasslib.CustomData {
	result := make([]gokeepasslib.CustomData, 0, len(customData))
	for _, item := range customData {
		if item.Key != key {
			result = append(result, item)
		}
	}
	if len(result) != len(customData) {
		slog.Debug("Удалено значение из CustomData", "key", key)
	}
	return result
}

// touchRootGroup обновляет время модификации корневой группы.
func touchRootGroup(db *gokeepasslib.Database) {
	if db.Content.Root == nil || len(db.Content.Root.Groups) == 0 {
		return
	}
	modTime := wrappers.TimeWrapper{Time: time.Now().UTC()}
	db.Content.Root.Groups[0].Times.LastModificationTime = &modTime
}
