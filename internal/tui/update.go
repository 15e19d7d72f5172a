package tui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Update обрабатывает входящие сообщения.
//
//nolint:gocyclo,funlen // Роутинг сообщений и экранов
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	// == Глобальные сообщения (не зависят от экрана) ==
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.statusMessage = ""
		}
		return m, nil

	// == Результаты запросов ==
	case loginResultMsg:
		return m.handleLoginResult(msg)
	case registerResultMsg:
		return m.handleRegisterResult(msg)
	case postsLoadedMsg:
		return m.handlePostsLoaded(msg)
	case postLoadedMsg:
		return m.handlePostLoaded(msg)
	case commentsLoadedMsg:
		return m.handleCommentsLoaded(msg)
	case categoriesLoadedMsg:
		return m.handleCategoriesLoaded(msg)
	case usersLoadedMsg:
		return m.handleUsersLoaded(msg)
	case postSavedMsg:
		return m.handlePostSaved(msg)
	case postDeletedMsg:
		return m.handlePostDeleted(msg)
	case commentSavedMsg:
		return m.handleCommentSaved(msg)
	case commentDeletedMsg:
		return m.handleCommentDeleted(msg)
	case commentLikedMsg:
		return m.handleCommentLiked(msg)
	case favoriteToggledMsg:
		return m.handleFavoriteToggled(msg)
	case profileUpdatedMsg:
		return m.handleProfileUpdated(msg)
	case userDeletedMsg:
		return m.handleUserDeleted(msg)
	case categorySavedMsg:
		return m.handleCategorySaved(msg)
	case categoryDeletedMsg:
		return m.handleCategoryDeleted(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.confirm != nil {
			return m.updateConfirmation(msg)
		}
	}

	// == Обновление текущего экрана ==
	switch m.state {
	case loginRegisterChoiceScreen:
		return m.updateLoginRegisterChoiceScreen(msg)
	case loginScreen:
		return m.updateLoginScreen(msg)
	case registerScreen:
		return m.updateRegisterScreen(msg)
	case postListScreen:
		return m.updatePostListScreen(msg)
	case searchInputScreen:
		return m.updateSearchInputScreen(msg)
	case categoryPickerScreen:
		return m.updateCategoryPickerScreen(msg)
	case postDetailScreen:
		return m.updatePostDetailScreen(msg)
	case postEditorScreen:
		return m.updatePostEditorScreen(msg)
	case commentEditorScreen:
		return m.updateCommentEditorScreen(msg)
	case settingsScreen:
		return m.updateSettingsScreen(msg)
	case adminUsersScreen:
		return m.updateAdminUsersScreen(msg)
	case categoryEditScreen:
		return m.updateCategoryEditScreen(msg)
	default:
		slog.Warn("Сообщение для неизвестного экрана", "state", m.state.String())
		return m, nil
	}
}

// updateConfirmation обрабатывает ответ на запрос подтверждения.
func (m *model) updateConfirmation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyYes, "Y":
		action := m.confirm.onYes
		m.confirm = nil
		return m, action()
	case keyNo, "N", keyEsc:
		m.confirm = nil
		return m, nil
	}
	return m, nil
}

// resize обновляет размеры компонентов под окно терминала.
func (m *model) resize(width, height int) {
	m.width, m.height = width, height
	h, v := m.docStyle.GetFrameSize()
	listWidth := width - h
	listHeight := height - v - helpStatusHeightOffset

	m.postList.SetSize(listWidth, listHeight)
	m.categoryList.SetSize(listWidth, listHeight)
	m.userList.SetSize(listWidth, listHeight)
	// Пост занимает верхнюю половину экрана, комментарии - нижнюю
	m.detailViewport.Width = listWidth
	m.detailViewport.Height = listHeight / 2
	m.commentList.SetSize(listWidth, listHeight-listHeight/2)

	inputWidth := listWidth - passwordInputOffset
	for _, inputs := range [][]textinput.Model{m.loginInputs, m.registerInputs, m.editorInputs, m.settingsInputs} {
		for i := range inputs {
			inputs[i].Width = inputWidth
		}
	}
	m.searchInput.Width = inputWidth
	m.categoryInput.Width = inputWidth
	m.editorDesc.SetWidth(inputWidth)
	m.commentInput.SetWidth(inputWidth)
}
