package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/gophblog/internal/api"
	"github.com/maynagashev/gophblog/internal/session"
	"github.com/maynagashev/gophblog/models"
)

// openPost переходит к просмотру поста и загружает его актуальную версию и комментарии.
func (m *model) openPost(post models.Post) tea.Cmd {
	m.leaveDetail()
	p := post
	m.selectedPost = &p
	m.state = postDetailScreen
	m.comments.Reset(nil)
	m.commentList.ResetSelected()
	m.renderDetail()
	slog.Info("Переход к посту", "id", post.ID, "title", post.Title)

	postTicket := m.begin(scopePost)
	commentsTicket := m.begin(scopeComments)
	return tea.Batch(
		m.syncCommentList(),
		fetchPostCmd(m.apiClient, postTicket, post.ID),
		fetchCommentsCmd(m.apiClient, commentsTicket, post.ID),
		tea.ClearScreen,
	)
}

// leaveDetail отменяет загрузки экрана поста.
func (m *model) leaveDetail() {
	m.tracker.Cancel(scopePost)
	m.tracker.Cancel(scopeComments)
}

// backToList возвращает к списку постов без повторной загрузки.
func (m *model) backToList() tea.Cmd {
	m.leaveDetail()
	m.selectedPost = nil
	m.state = postListScreen
	return tea.Batch(m.syncPostList(), tea.ClearScreen)
}

// renderDetail перерисовывает текст поста в viewport.
func (m *model) renderDetail() {
	if m.selectedPost == nil {
		m.detailViewport.SetContent("")
		return
	}
	p := m.selectedPost

	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Title) + "\n")
	meta := fmt.Sprintf("Автор: %s | %s", p.Username, formatDate(p.CreatedAt))
	if len(p.Categories) > 0 {
		meta += " | " + strings.Join(p.Categories, ", ")
	}
	if m.isFavorite(p.ID) {
		meta += " | ★ в избранном"
	}
	b.WriteString(subtleStyle.Render(meta) + "\n")
	if img := api.ImageURL(m.serverURL, p.Photo); img != "" {
		b.WriteString(subtleStyle.Render("Картинка: "+img) + "\n")
	}
	b.WriteString("\n" + p.Desc + "\n")
	m.detailViewport.SetContent(b.String())
	m.detailViewport.GotoTop()
}

func (m *model) isFavorite(postID string) bool {
	user := m.session.User()
	return user != nil && user.User.HasFavorite(postID)
}

func (m *model) syncCommentList() tea.Cmd {
	userID := m.currentUserID()
	comments := m.comments.Items()
	items := make([]list.Item, len(comments))
	for i, c := range comments {
		items[i] = commentItem{comment: c, userID: userID}
	}
	m.commentList.Title = fmt.Sprintf("Комментарии (%d)", len(comments))
	return m.commentList.SetItems(items)
}

// selectedComment возвращает выбранный комментарий.
func (m *model) selectedComment() (models.Comment, bool) {
	item, ok := m.commentList.SelectedItem().(commentItem)
	if !ok {
		return models.Comment{}, false
	}
	return item.comment, true
}

// canEditComment: комментарий может править его автор или администратор.
func (m *model) canEditComment(c models.Comment) bool {
	username := m.session.Username()
	return username != "" && (c.Username == username || username == models.AdminUsername)
}

// handlePostLoaded обновляет пост актуальной версией с сервера.
func (m *model) handlePostLoaded(msg postLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.accept(msg.ticket) {
		return m, nil
	}
	if msg.err != nil {
		if errors.Is(msg.err, api.ErrNotFound) && m.selectedPost != nil {
			m.posts.Remove(m.selectedPost.ID)
			cmd := m.backToList()
			return m, tea.Batch(cmd, m.statusCmd("Пост не найден"))
		}
		return m.handleRequestError("Ошибка загрузки поста", msg.err)
	}
	m.selectedPost = msg.post
	m.posts.Replace(*msg.post)
	m.renderDetail()
	return m, nil
}

// handleCommentsLoaded заменяет кэш комментариев.
func (m *model) handleCommentsLoaded(msg commentsLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.accept(msg.ticket) {
		return m, nil
	}
	if msg.err != nil {
		return m.handleRequestError("Ошибка загрузки комментариев", msg.err)
	}
	m.comments.Reset(msg.comments)
	return m, m.syncCommentList()
}

// updatePostDetailScreen обрабатывает сообщения экрана поста.
//
//nolint:gocyclo // Много горячих клавиш
func (m *model) updatePostDetailScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.commentList, cmd = m.commentList.Update(msg)
		return m, cmd
	}

	post := m.selectedPost
	username := m.session.Username()
	switch keyMsg.String() {
	case keyEsc, keyBack:
		return m, m.backToList()
	case keyEdit:
		if post != nil && post.CanEdit(username) {
			return m, m.openPostEditor(post)
		}
		return m, nil
	case keyDelete:
		if post != nil && post.CanEdit(username) {
			id := post.ID
			m.confirm = &confirmation{
				prompt: fmt.Sprintf("Удалить пост \"%s\"?", post.Title),
				onYes: func() tea.Cmd {
					ticket := m.begin(scopeEditor)
					return deletePostCmd(m.apiClient, ticket, id, username)
				},
			}
		}
		return m, nil
	case "f":
		if post != nil {
			if m.tracker.Active(scopeFavorite) {
				return m, nil // Предыдущее переключение еще не завершено
			}
			ticket := m.begin(scopeFavorite)
			return m, toggleFavoriteCmd(m.apiClient, ticket, m.currentUserID(), post.ID)
		}
		return m, nil
	case "c":
		return m, m.openCommentEditor(nil)
	case "E":
		if c, found := m.selectedComment(); found && m.canEditComment(c) {
			return m, m.openCommentEditor(&c)
		}
		return m, nil
	case "D":
		if c, found := m.selectedComment(); found && m.canEditComment(c) {
			id := c.ID
			m.confirm = &confirmation{
				prompt: "Удалить комментарий?",
				onYes: func() tea.Cmd {
					ticket := m.begin(scopeComment)
					return deleteCommentCmd(m.apiClient, ticket, id, username)
				},
			}
		}
		return m, nil
	case "l":
		if c, found := m.selectedComment(); found {
			ticket := m.begin(scopeLike)
			return m, likeCommentCmd(m.apiClient, ticket, c.ID, m.currentUserID())
		}
		return m, nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.detailViewport, cmd = m.detailViewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.commentList, cmd = m.commentList.Update(msg)
	return m, cmd
}

// viewPostDetailScreen отображает пост и комментарии к нему.
func (m *model) viewPostDetailScreen() string {
	if m.selectedPost == nil {
		return "Пост не выбран"
	}
	comments := titleStyle.Render(m.commentList.Title) + "\n\nКомментариев пока нет"
	if m.comments.Len() > 0 {
		comments = m.commentList.View()
	}
	return m.detailViewport.View() + "\n" + comments
}

// handlePostDeleted убирает удаленный пост из кэша и возвращает к списку.
func (m *model) handlePostDeleted(msg postDeletedMsg) (tea.Model, tea.Cmd) {
	if !m.accept(msg.ticket) {
		return m, nil
	}
	if msg.err != nil {
		return m.handleRequestError("Ошибка удаления поста", msg.err)
	}
	m.posts.Remove(msg.id)
	slog.Info("Пост удален", "id", msg.id)
	cmd := m.backToList()
	return m, tea.Batch(cmd, m.statusCmd("Пост удален"))
}

// handleFavoriteToggled заменяет избранное пользователя в сессии списком с сервера.
func (m *model) handleFavoriteToggled(msg favoriteToggledMsg) (tea.Model, tea.Cmd) {
	if !m.accept(msg.ticket) {
		return m, nil
	}
	if msg.err != nil {
		return m.handleRequestError("Ошибка изменения избранного", msg.err)
	}
	user := m.session.User()
	if user == nil || msg.user == nil {
		return m, nil
	}

	user.User.Favorites = slices.Clone(msg.user.Favorites)
	added := user.User.HasFavorite(msg.postID)
	if m.listMode == listFavorites {
		for _, p := range m.posts.Items() {
			if !user.User.HasFavorite(p.ID) {
				m.posts.Remove(p.ID)
			}
		}
	}
	m.session.Dispatch(session.Action{Type: session.UpdateSuccess, Payload: user})
	m.renderDetail()

	status := "Пост убран из избранного"
	if added {
		status = "Пост добавлен в избранное"
	}
	return m, tea.Batch(m.syncPostList(), m.statusCmd(status))
}

// handleCommentDeleted убирает комментарий из кэша.
func (m *model) handleCommentDeleted(msg commentDeletedMsg) (tea.Model, tea.Cmd) {
	if !m.accept(msg.ticket) {
		return m, nil
	}
	if msg.err != nil {
		return m.handleRequestError("Ошибка удаления комментария", msg.err)
	}
	m.comments.Remove(msg.id)
	return m, tea.Batch(m.syncCommentList(), m.statusCmd("Комментарий удален"))
}

// handleCommentLiked заменяет комментарий версией с обновленными лайками.
func (m *model) handleCommentLiked(msg commentLikedMsg) (tea.Model, tea.Cmd) {
	if !m.accept(msg.ticket) {
		return m, nil
	}
	if msg.err != nil {
		return m.handleRequestError("Ошибка лайка", msg.err)
	}
	if msg.comment != nil && msg.comment.ID != "" {
		m.comments.Replace(*msg.comment)
	}
	return m, m.syncCommentList()
}
