// Package cache хранит локальные копии списков, полученных с сервера,
// и применяет к ним оптимистичные изменения после create/update/delete.
//
// Правила сверки: создание - вставка в начало, изменение - замена по ID,
// удаление - удаление по ID. С сервером кэш не сверяется до следующего Reset.
package cache

// List - локальная копия списка записей с доступом по ID.
// Не потокобезопасен: используется только из цикла обработки сообщений TUI.
type List[T any] struct {
	items []T
	id    func(T) string
}

// NewList создает пустой список. id извлекает идентификатор записи.
func NewList[T any](id func(T) string) *List[T] {
	return &List[T]{id: id}
}

// Reset заменяет содержимое списком, свежеполученным с сервера.
func (l *List[T]) Reset(items []T) {
	l.items = append([]T(nil), items...)
}

// Prepend добавляет созданную запись в начало.
// Если запись с таким ID уже есть, она заменяется и переносится в начало.
func (l *List[T]) Prepend(item T) {
	l.Remove(l.id(item))
	l.items = append([]T{item}, l.items...)
}

// Replace заменяет запись с тем же ID. Возвращает false, если записи нет.
func (l *List[T]) Replace(item T) bool {
	id := l.id(item)
	for i := range l.items {
		if l.id(l.items[i]) == id {
			l.items[i] = item
			return true
		}
	}
	return false
}

// Remove удаляет запись по ID. Возвращает false, если записи нет.
func (l *List[T]) Remove(id string) bool {
	for i := range l.items {
		if l.id(l.items[i]) == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// Get возвращает запись по ID.
func (l *List[T]) Get(id string) (T, bool) {
	for _, item := range l.items {
		if l.id(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Items возвращает копию записей в текущем порядке.
func (l *List[T]) Items() []T {
	return append([]T(nil), l.items...)
}

// Len возвращает количество записей.
func (l *List[T]) Len() int {
	return len(l.items)
}
