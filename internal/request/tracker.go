// Package request выдает билеты на сетевые запросы и позволяет отбросить
// результат запроса, который устарел: экран закрыт или запущен более новый запрос.
package request

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Ticket сопровождает один запрос от запуска до применения результата.
type Ticket struct {
	ID    string
	Scope string
	Ctx   context.Context
}

type entry struct {
	id     string
	cancel context.CancelFunc
}

// Tracker хранит последний билет каждой области (scope).
type Tracker struct {
	mu      sync.Mutex
	parent  context.Context
	timeout time.Duration
	active  map[string]entry
}

// NewTracker создает трекер. timeout <= 0 означает отсутствие таймаута.
func NewTracker(parent context.Context, timeout time.Duration) *Tracker {
	if parent == nil {
		parent = context.Background()
	}
	return &Tracker{
		parent:  parent,
		timeout: timeout,
		active:  make(map[string]entry),
	}
}

// Begin отменяет незавершенный запрос той же области и выдает новый билет.
func (t *Tracker) Begin(scope string) Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.active[scope]; ok {
		prev.cancel()
		slog.Debug("Предыдущий запрос отменен", "scope", scope, "ticket", prev.id)
	}

	var ctx context.Context
	var cancel context.CancelFunc
	if t.timeout > 0 {
		ctx, cancel = context.WithTimeout(t.parent, t.timeout)
	} else {
		ctx, cancel = context.WithCancel(t.parent)
	}

	id := uuid.NewString()
	t.active[scope] = entry{id: id, cancel: cancel}
	return Ticket{ID: id, Scope: scope, Ctx: ctx}
}

// Current сообщает, можно ли применять результат запроса с этим билетом.
// Билет устаревает, только когда его заменил Begin или отменил Cancel.
// Истекший таймаут билет не устаревает: результат с ошибкой дедлайна
// должен дойти до обработчика как обычная ошибка.
func (t *Tracker) Current(ticket Ticket) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.active[ticket.Scope]
	return ok && e.id == ticket.ID
}

// Active сообщает, есть ли у области незавершенный запрос.
func (t *Tracker) Active(scope string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.active[scope]
	return ok
}

// Finish освобождает билет после применения результата.
func (t *Tracker) Finish(ticket Ticket) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e, ok := t.active[ticket.Scope]; ok && e.id == ticket.ID {
		e.cancel()
		delete(t.active, ticket.Scope)
	}
}

// Cancel отменяет запрос области, если он есть.
func (t *Tracker) Cancel(scope string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e, ok := t.active[scope]; ok {
		e.cancel()
		delete(t.active, scope)
		slog.Debug("Запрос отменен", "scope", scope, "ticket", e.id)
	}
}

// CancelAll отменяет все незавершенные запросы.
func (t *Tracker) CancelAll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for scope, e := range t.active {
		e.cancel()
		delete(t.active, scope)
	}
}

// Pending возвращает количество незавершенных запросов.
func (t *Tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.active)
}
