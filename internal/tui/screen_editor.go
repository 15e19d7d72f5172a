package tui

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/gophblog/internal/api"
	"github.com/maynagashev/gophblog/internal/validate"
	"github.com/maynagashev/gophblog/models"
)

// openPostEditor открывает редактор. post == nil означает создание нового поста.
func (m *model) openPostEditor(post *models.Post) tea.Cmd {
	m.err = nil
	m.returnState = m.state
	m.state = postEditorScreen
	resetInputs(m.editorInputs)
	m.editorDesc.Reset()
	m.editingPostID = ""

	if post != nil {
		m.editingPostID = post.ID
		m.editorInputs[editorFieldTitle].SetValue(post.Title)
		if len(post.Categories) > 0 {
			m.editorInputs[editorFieldCategory].SetValue(post.Categories[0])
		}
		m.editorDesc.SetValue(post.Desc)
	}
	m.focusedField = editorFieldTitle
	m.editorDesc.Blur()
	return tea.Batch(focusInput(m.editorInputs, editorFieldTitle), tea.ClearScreen)
}

// focusEditorField переводит фокус редактора поста на поле idx.
func (m *model) focusEditorField(idx int) tea.Cmd {
	m.focusedField = idx
	if idx == editorFieldDesc {
		blurInputs(m.editorInputs)
		return m.editorDesc.Focus()
	}
	m.editorDesc.Blur()
	return focusInput(m.editorInputs, idx)
}

// updatePostEditorScreen обрабатывает ввод в редакторе поста.
func (m *model) updatePostEditorScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEsc:
			m.tracker.Cancel(scopeEditor)
			m.err = nil
			m.state = m.returnState
			return m, tea.ClearScreen
		case keySave:
			return m.submitPost()
		case keyTab:
			return m, m.focusEditorField((m.focusedField + 1) % numEditorFields)
		case keyShiftTab:
			return m, m.focusEditorField((m.focusedField + numEditorFields - 1) % numEditorFields)
		case keyEnter:
			if m.focusedField != editorFieldDesc {
				return m, m.focusEditorField(m.focusedField + 1)
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedField == editorFieldDesc {
		m.editorDesc, cmd = m.editorDesc.Update(msg)
	} else {
		m.editorInputs[m.focusedField], cmd = m.editorInputs[m.focusedField].Update(msg)
	}
	return m, cmd
}

// submitPost проверяет форму и запускает сохранение поста.
func (m *model) submitPost() (tea.Model, tea.Cmd) {
	draft := postDraft{
		id:        m.editingPostID,
		username:  m.session.Username(),
		title:     inputValue(m.editorInputs, editorFieldTitle),
		desc:      strings.TrimSpace(m.editorDesc.Value()),
		category:  inputValue(m.editorInputs, editorFieldCategory),
		imagePath: inputValue(m.editorInputs, editorFieldImage),
	}
	if err := validate.Post(draft.title, draft.desc); err != nil {
		m.err = err
		return m, nil
	}
	// При редактировании автор и картинка сохраняются, если их не меняли
	if m.editingPostID != "" && m.selectedPost != nil {
		draft.username = m.selectedPost.Username
		draft.photo = m.selectedPost.Photo
		if draft.category == "" {
			draft.keepCats = m.selectedPost.Categories
		}
	}
	m.err = nil

	ticket := m.begin(scopeEditor)
	slog.Info("Сохранение поста", "id", draft.id, "title", draft.title)
	return m, tea.Batch(savePostCmd(m.apiClient, ticket, draft), m.statusCmd("Сохранение..."))
}

// handlePostSaved обновляет кэш постов и открывает сохраненный пост.
func (m *model) handlePostSaved(msg postSavedMsg) (tea.Model, tea.Cmd) {
	if !m.accept(msg.ticket) {
		return m, nil
	}
	if msg.err != nil {
		slog.Error("Ошибка сохранения поста", "error", msg.err)
		m.err = msg.err
		return m.handleRequestError("Ошибка сохранения поста", msg.err)
	}

	blurInputs(m.editorInputs)
	m.editorDesc.Blur()
	m.err = nil
	if msg.created {
		m.posts.Prepend(*msg.post)
		m.returnState = postListScreen
		cmd := m.openPost(*msg.post)
		return m, tea.Batch(cmd, m.syncPostList(), m.statusCmd("Пост опубликован"))
	}

	m.posts.Replace(*msg.post)
	p := *msg.post
	m.selectedPost = &p
	m.state = postDetailScreen
	m.renderDetail()
	return m, tea.Batch(m.syncPostList(), m.statusCmd("Пост обновлен"), tea.ClearScreen)
}

// viewPostEditorScreen отображает редактор поста.
func (m *model) viewPostEditorScreen() string {
	var b strings.Builder
	title := "Новый пост"
	if m.editingPostID != "" {
		title = "Редактирование поста"
	}
	b.WriteString(titleStyle.Render(title) + "\n\n")
	for i := range m.editorInputs {
		b.WriteString(m.editorInputs[i].View() + "\n")
	}
	b.WriteString("\n" + m.editorDesc.View() + "\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("Ошибка: "+api.UserMessage(m.err)) + "\n")
	}
	return b.String()
}

// openCommentEditor открывает редактор комментария. comment == nil - новый комментарий.
func (m *model) openCommentEditor(comment *models.Comment) tea.Cmd {
	if m.selectedPost == nil {
		return nil
	}
	m.err = nil
	m.state = commentEditorScreen
	m.commentInput.Reset()
	m.editingCommentID = ""
	if comment != nil {
		m.editingCommentID = comment.ID
		m.commentInput.SetValue(comment.Content)
	}
	return tea.Batch(m.commentInput.Focus(), textarea.Blink, tea.ClearScreen)
}

// updateCommentEditorScreen обрабатывает ввод комментария.
func (m *model) updateCommentEditorScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEsc:
			m.tracker.Cancel(scopeComment)
			m.commentInput.Blur()
			m.err = nil
			m.state = postDetailScreen
			return m, tea.ClearScreen
		case keySave:
			return m.submitComment()
		}
	}
	var cmd tea.Cmd
	m.commentInput, cmd = m.commentInput.Update(msg)
	return m, cmd
}

// submitComment проверяет и отправляет комментарий.
func (m *model) submitComment() (tea.Model, tea.Cmd) {
	content := strings.TrimSpace(m.commentInput.Value())
	if err := validate.Comment(content); err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil

	username := m.session.Username()
	if m.editingCommentID != "" {
		// Администратор правит комментарий от имени его автора
		if c, ok := m.comments.Get(m.editingCommentID); ok {
			username = c.Username
		}
	}
	ticket := m.begin(scopeComment)
	return m, saveCommentCmd(m.apiClient, ticket, m.selectedPost.ID, m.editingCommentID, username, content)
}

// handleCommentSaved добавляет новый комментарий в начало списка или заменяет измененный.
func (m *model) handleCommentSaved(msg commentSavedMsg) (tea.Model, tea.Cmd) {
	if !m.accept(msg.ticket) {
		return m, nil
	}
	if msg.err != nil {
		m.err = msg.err
		return m.handleRequestError("Ошибка сохранения комментария", msg.err)
	}

	status := "Комментарий изменен"
	if msg.created {
		m.comments.Prepend(*msg.comment)
		m.commentList.ResetSelected()
		status = "Комментарий добавлен"
	} else {
		m.comments.Replace(*msg.comment)
	}
	m.err = nil
	m.commentInput.Blur()
	if m.state == commentEditorScreen {
		m.state = postDetailScreen
	}
	return m, tea.Batch(m.syncCommentList(), m.statusCmd(status), tea.ClearScreen)
}

// viewCommentEditorScreen отображает редактор комментария.
func (m *model) viewCommentEditorScreen() string {
	var b strings.Builder
	title := "Новый комментарий"
	if m.editingCommentID != "" {
		title = "Редактирование комментария"
	}
	b.WriteString(titleStyle.Render(title) + "\n\n")
	b.WriteString(m.commentInput.View() + "\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("Ошибка: "+api.UserMessage(m.err)) + "\n")
	}
	return b.String()
}
