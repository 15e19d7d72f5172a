package tui

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/gophblog/internal/validate"
)

// openCategoryEditor открывает переименование выбранной категории. Только для администратора.
func (m *model) openCategoryEditor() tea.Cmd {
	if !m.isAdmin() {
		return nil
	}
	item, isCat := m.categoryList.SelectedItem().(categoryItem)
	if !isCat {
		return nil
	}
	m.editingCategoryID = item.category.ID
	m.categoryInput.SetValue(item.category.Name)
	m.categoryInput.CursorEnd()
	m.err = nil
	m.state = categoryEditScreen
	return m.categoryInput.Focus()
}

// confirmDeleteCategory запрашивает подтверждение удаления выбранной категории.
func (m *model) confirmDeleteCategory() {
	if !m.isAdmin() {
		return
	}
	item, isCat := m.categoryList.SelectedItem().(categoryItem)
	if !isCat {
		return
	}
	target := item.category
	m.confirm = &confirmation{
		prompt: fmt.Sprintf("Удалить категорию %s?", target.Name),
		onYes: func() tea.Cmd {
			ticket := m.begin(scopeCategory)
			return deleteCategoryCmd(m.apiClient, ticket, target.ID)
		},
	}
}

// updateCategoryEditScreen обрабатывает ввод нового названия категории.
func (m *model) updateCategoryEditScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEsc:
			m.tracker.Cancel(scopeCategory)
			m.categoryInput.Blur()
			m.err = nil
			m.state = categoryPickerScreen
			return m, nil
		case keyEnter:
			name := strings.ToLower(strings.TrimSpace(m.categoryInput.Value()))
			if err := validate.Category(name); err != nil {
				m.err = err
				return m, nil
			}
			m.err = nil
			ticket := m.begin(scopeCategory)
			return m, renameCategoryCmd(m.apiClient, ticket, m.editingCategoryID, name)
		}
	}
	var cmd tea.Cmd
	m.categoryInput, cmd = m.categoryInput.Update(msg)
	return m, cmd
}

// handleCategorySaved применяет переименование к кэшу категорий.
func (m *model) handleCategorySaved(msg categorySavedMsg) (tea.Model, tea.Cmd) {
	if !m.accept(msg.ticket) {
		return m, nil
	}
	if msg.err != nil {
		return m.handleRequestError("Ошибка переименования категории", msg.err)
	}
	m.categories.Replace(*msg.category)
	m.categoryInput.Blur()
	m.editingCategoryID = ""
	m.state = categoryPickerScreen
	slog.Info("Категория переименована", "id", msg.category.ID, "name", msg.category.Name)
	return m, tea.Batch(m.syncCategoryList(), m.statusCmd("Категория переименована"))
}

// handleCategoryDeleted убирает категорию из кэша.
func (m *model) handleCategoryDeleted(msg categoryDeletedMsg) (tea.Model, tea.Cmd) {
	if !m.accept(msg.ticket) {
		return m, nil
	}
	if msg.err != nil {
		return m.handleRequestError("Ошибка удаления категории", msg.err)
	}
	m.categories.Remove(msg.id)
	slog.Info("Категория удалена", "id", msg.id)
	return m, tea.Batch(m.syncCategoryList(), m.statusCmd("Категория удалена"))
}

// viewCategoryEditScreen отображает форму переименования категории.
func (m *model) viewCategoryEditScreen() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Переименование категории") + "\n\n")
	b.WriteString(m.categoryInput.View() + "\n")
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render("Ошибка: "+m.err.Error()) + "\n")
	}
	return b.String()
}
