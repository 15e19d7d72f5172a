package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/gophblog/internal/api"
	"github.com/maynagashev/gophblog/internal/request"
	"github.com/maynagashev/gophblog/models"
)

// clearStatusCmd возвращает команду, которая отправит clearStatusMsg через delay.
func clearStatusCmd(delay time.Duration, seq int) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// --- Сообщения с результатами запросов --- //
// Каждое сообщение несет билет запроса: результат применяется,
// только если билет все еще актуален.

type loginResultMsg struct {
	ticket request.Ticket
	user   *models.AuthUser
	err    error
}

type registerResultMsg struct {
	ticket   request.Ticket
	username string
	err      error
}

type postsLoadedMsg struct {
	ticket request.Ticket
	posts  []models.Post
	err    error
}

type postLoadedMsg struct {
	ticket request.Ticket
	post   *models.Post
	err    error
}

type commentsLoadedMsg struct {
	ticket   request.Ticket
	comments []models.Comment
	err      error
}

type categoriesLoadedMsg struct {
	ticket     request.Ticket
	categories []models.Category
	err        error
}

type usersLoadedMsg struct {
	ticket request.Ticket
	users  []models.User
	err    error
}

type postSavedMsg struct {
	ticket  request.Ticket
	post    *models.Post
	created bool
	err     error
}

type postDeletedMsg struct {
	ticket request.Ticket
	id     string
	err    error
}

type commentSavedMsg struct {
	ticket  request.Ticket
	comment *models.Comment
	created bool
	err     error
}

type commentDeletedMsg struct {
	ticket request.Ticket
	id     string
	err    error
}

type commentLikedMsg struct {
	ticket  request.Ticket
	comment *models.Comment
	err     error
}

type favoriteToggledMsg struct {
	ticket request.Ticket
	postID string
	user   *models.User // Пользователь с избранным по версии сервера
	err    error
}

type profileUpdatedMsg struct {
	ticket request.Ticket
	user   *models.User
	err    error
}

type categorySavedMsg struct {
	ticket   request.Ticket
	category *models.Category
	err      error
}

type categoryDeletedMsg struct {
	ticket request.Ticket
	id     string
	err    error
}

type userDeletedMsg struct {
	ticket request.Ticket
	id     string
	self   bool // Пользователь удалил собственную учетную запись
	err    error
}

// --- Команды --- //

// loginCmd выполняет вход через API.
func loginCmd(client api.Client, ticket request.Ticket, username, password string) tea.Cmd {
	return func() tea.Msg {
		authUser, err := client.Login(ticket.Ctx, username, password)
		return loginResultMsg{ticket: ticket, user: authUser, err: err}
	}
}

// registerCmd выполняет регистрацию через API.
func registerCmd(client api.Client, ticket request.Ticket, username, email, password string) tea.Cmd {
	return func() tea.Msg {
		err := client.Register(ticket.Ctx, username, email, password)
		return registerResultMsg{ticket: ticket, username: username, err: err}
	}
}

// postsQuery описывает, какие посты загружать.
type postsQuery struct {
	mode     listMode
	arg      string
	userID   string
	username string
}

// fetchPostsCmd загружает посты для экрана списка.
func fetchPostsCmd(client api.Client, ticket request.Ticket, q postsQuery) tea.Cmd {
	return func() tea.Msg {
		var posts []models.Post
		var err error
		switch q.mode {
		case listSearch:
			posts, err = client.SearchPosts(ticket.Ctx, q.arg)
		case listCategory:
			posts, err = client.ListPosts(ticket.Ctx, api.PostFilter{Category: q.arg})
		case listAuthor:
			posts, err = client.ListPosts(ticket.Ctx, api.PostFilter{User: q.arg})
		case listMine:
			posts, err = client.UserPosts(ticket.Ctx, q.username)
		case listFavorites:
			posts, err = client.Favorites(ticket.Ctx, q.userID)
		default:
			posts, err = client.ListPosts(ticket.Ctx, api.PostFilter{})
		}
		if err == nil {
			api.SortNewestFirst(posts)
		}
		return postsLoadedMsg{ticket: ticket, posts: posts, err: err}
	}
}

// fetchPostCmd загружает актуальную версию поста.
func fetchPostCmd(client api.Client, ticket request.Ticket, id string) tea.Cmd {
	return func() tea.Msg {
		post, err := client.GetPost(ticket.Ctx, id)
		return postLoadedMsg{ticket: ticket, post: post, err: err}
	}
}

// fetchCommentsCmd загружает комментарии к посту.
func fetchCommentsCmd(client api.Client, ticket request.Ticket, postID string) tea.Cmd {
	return func() tea.Msg {
		comments, err := client.ListComments(ticket.Ctx, postID)
		return commentsLoadedMsg{ticket: ticket, comments: comments, err: err}
	}
}

// fetchCategoriesCmd загружает список категорий.
func fetchCategoriesCmd(client api.Client, ticket request.Ticket) tea.Cmd {
	return func() tea.Msg {
		cats, err := client.ListCategories(ticket.Ctx)
		return categoriesLoadedMsg{ticket: ticket, categories: cats, err: err}
	}
}

// fetchUsersCmd загружает список пользователей для админки.
func fetchUsersCmd(client api.Client, ticket request.Ticket) tea.Cmd {
	return func() tea.Msg {
		users, err := client.ListUsers(ticket.Ctx)
		return usersLoadedMsg{ticket: ticket, users: users, err: err}
	}
}

// postDraft - данные формы поста.
type postDraft struct {
	id        string // Пусто для нового поста
	username  string
	title     string
	desc      string
	category  string
	imagePath string
	photo     string // Текущая картинка поста при редактировании
	keepCats  []string
}

// savePostCmd загружает картинку, находит или создает категорию и сохраняет пост.
func savePostCmd(client api.Client, ticket request.Ticket, d postDraft) tea.Cmd {
	return func() tea.Msg {
		created := d.id == ""
		post, err := savePost(ticket.Ctx, client, d)
		return postSavedMsg{ticket: ticket, post: post, created: created, err: err}
	}
}

func savePost(ctx context.Context, client api.Client, d postDraft) (*models.Post, error) {
	input := models.PostInput{
		Username:   d.username,
		Title:      d.title,
		Desc:       d.desc,
		Categories: d.keepCats,
		Photo:      d.photo,
	}

	if d.imagePath != "" {
		name, err := uploadFile(ctx, client, d.imagePath)
		if err != nil {
			return nil, err
		}
		input.Photo = name
	}

	if strings.TrimSpace(d.category) != "" {
		cat, err := api.EnsureCategory(ctx, client, d.category)
		if err != nil {
			return nil, fmt.Errorf("ошибка получения категории: %w", err)
		}
		input.Categories = []string{cat.Name}
	}
	if input.Categories == nil {
		input.Categories = []string{}
	}

	if d.id == "" {
		return client.CreatePost(ctx, input)
	}
	post, err := client.UpdatePost(ctx, d.id, input)
	if err != nil {
		return nil, err
	}
	// Некоторые серверы отвечают на PUT без тела поста
	if post.ID == "" {
		post.ID = d.id
		post.Title = input.Title
		post.Desc = input.Desc
		post.Username = input.Username
		post.Categories = input.Categories
		post.Photo = input.Photo
	}
	return post, nil
}

// uploadFile загружает локальный файл под уникальным именем и возвращает это имя.
func uploadFile(ctx context.Context, client api.Client, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("ошибка открытия файла '%s': %w", path, err)
	}
	defer f.Close()

	name := api.UploadFileName(path)
	if err = client.Upload(ctx, name, f); err != nil {
		return "", err
	}
	slog.Info("Файл загружен на сервер", "path", path, "name", name)
	return name, nil
}

// deletePostCmd удаляет пост.
func deletePostCmd(client api.Client, ticket request.Ticket, id, username string) tea.Cmd {
	return func() tea.Msg {
		err := client.DeletePost(ticket.Ctx, id, username)
		return postDeletedMsg{ticket: ticket, id: id, err: err}
	}
}

// saveCommentCmd создает или изменяет комментарий.
func saveCommentCmd(client api.Client, ticket request.Ticket, postID, commentID, username, content string) tea.Cmd {
	return func() tea.Msg {
		if commentID == "" {
			comment, err := client.CreateComment(ticket.Ctx, postID, username, content)
			return commentSavedMsg{ticket: ticket, comment: comment, created: true, err: err}
		}
		comment, err := client.UpdateComment(ticket.Ctx, commentID, username, content)
		if err == nil && comment.ID == "" {
			comment.ID = commentID
			comment.PostID = postID
			comment.Username = username
			comment.Content = content
		}
		return commentSavedMsg{ticket: ticket, comment: comment, err: err}
	}
}

// deleteCommentCmd удаляет комментарий.
func deleteCommentCmd(client api.Client, ticket request.Ticket, id, username string) tea.Cmd {
	return func() tea.Msg {
		err := client.DeleteComment(ticket.Ctx, id, username)
		return commentDeletedMsg{ticket: ticket, id: id, err: err}
	}
}

// likeCommentCmd ставит или снимает лайк.
func likeCommentCmd(client api.Client, ticket request.Ticket, id, userID string) tea.Cmd {
	return func() tea.Msg {
		comment, err := client.LikeComment(ticket.Ctx, id, userID)
		return commentLikedMsg{ticket: ticket, comment: comment, err: err}
	}
}

// toggleFavoriteCmd добавляет пост в избранное или убирает его,
// затем перечитывает пользователя: переключение на сервере не идемпотентно.
func toggleFavoriteCmd(client api.Client, ticket request.Ticket, userID, postID string) tea.Cmd {
	return func() tea.Msg {
		if err := client.ToggleFavorite(ticket.Ctx, userID, postID); err != nil {
			return favoriteToggledMsg{ticket: ticket, postID: postID, err: err}
		}
		user, err := client.GetUser(ticket.Ctx, userID)
		return favoriteToggledMsg{ticket: ticket, postID: postID, user: user, err: err}
	}
}

// profileDraft - данные формы настроек.
type profileDraft struct {
	current     models.User
	username    string
	email       string
	password    string
	picturePath string
}

// updateProfileCmd загружает картинку профиля и сохраняет изменения пользователя.
func updateProfileCmd(client api.Client, ticket request.Ticket, d profileDraft) tea.Cmd {
	return func() tea.Msg {
		update := models.UserUpdate{
			UserID:     d.current.ID,
			Username:   d.username,
			Email:      d.email,
			Password:   d.password,
			ProfilePic: d.current.ProfilePic,
			Favorites:  d.current.Favorites,
		}
		if d.picturePath != "" {
			name, err := uploadFile(ticket.Ctx, client, d.picturePath)
			if err != nil {
				return profileUpdatedMsg{ticket: ticket, err: err}
			}
			update.ProfilePic = name
		}

		user, err := client.UpdateUser(ticket.Ctx, d.current.ID, update)
		if err != nil {
			return profileUpdatedMsg{ticket: ticket, err: err}
		}
		// Ответ без записи пользователя: берем то, что отправили
		if user.ID == "" {
			merged := d.current
			merged.Username = update.Username
			merged.Email = update.Email
			merged.ProfilePic = update.ProfilePic
			user = &merged
		}
		return profileUpdatedMsg{ticket: ticket, user: user}
	}
}

// deleteUserCmd удаляет пользователя id от имени actor.
func deleteUserCmd(client api.Client, ticket request.Ticket, id string, actor models.User) tea.Cmd {
	return func() tea.Msg {
		err := client.DeleteUser(ticket.Ctx, id, actor)
		return userDeletedMsg{ticket: ticket, id: id, self: id == actor.ID, err: err}
	}
}

// renameCategoryCmd переименовывает категорию.
func renameCategoryCmd(client api.Client, ticket request.Ticket, id, name string) tea.Cmd {
	return func() tea.Msg {
		cat, err := client.UpdateCategory(ticket.Ctx, id, name)
		return categorySavedMsg{ticket: ticket, category: cat, err: err}
	}
}

// deleteCategoryCmd удаляет категорию.
func deleteCategoryCmd(client api.Client, ticket request.Ticket, id string) tea.Cmd {
	return func() tea.Msg {
		err := client.DeleteCategory(ticket.Ctx, id)
		return categoryDeletedMsg{ticket: ticket, id: id, err: err}
	}
}
