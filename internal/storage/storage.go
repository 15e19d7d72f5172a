// Package storage реализует долговременное локальное хранилище "ключ-значение",
// которое переживает перезапуск клиента.
package storage

import (
	"errors"
	"strings"
)

// KV определяет интерфейс долговременного хранилища "ключ-значение".
type KV interface {
	// Get возвращает значение по ключу. Второй результат false, если ключа нет.
	Get(key string) ([]byte, bool, error)
	// Put сохраняет значение, перезаписывая предыдущее.
	Put(key string, value []byte) error
	// Delete удаляет ключ. Удаление отсутствующего ключа не ошибка.
	Delete(key string) error
	// Close освобождает ресурсы хранилища.
	Close() error
}

var (
	// ErrInvalidKey возвращается для пустых ключей и ключей с разделителями пути.
	ErrInvalidKey = errors.New("недопустимый ключ хранилища")
	// ErrClosed возвращается при обращении к закрытому хранилищу.
	ErrClosed = errors.New("хранилище закрыто")
)

func validateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return ErrInvalidKey
	}
	return nil
}
