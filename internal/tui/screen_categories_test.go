package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/gophblog/internal/validate"
	"github.com/maynagashev/gophblog/models"
)

func TestCategoryPicker_Rename(t *testing.T) {
	client := blogFixture()
	env := loggedInEnv(t, client, models.AdminUsername)
	env.press(t, "c")
	require.Equal(t, categoryPickerScreen, env.m.state)
	assert.Contains(t, env.m.helpText(), "e: переименовать")

	env.press(t, keyEdit)
	require.Equal(t, categoryEditScreen, env.m.state)
	assert.Equal(t, "go", env.m.categoryInput.Value())

	env.m.categoryInput.SetValue("")
	env.typeText(t, "  Golang ")
	env.press(t, keyEnter)

	assert.Equal(t, 1, client.called("UpdateCategory:golang"), "Название обрезается и приводится к нижнему регистру")
	assert.Equal(t, categoryPickerScreen, env.m.state)
	cat, ok := env.m.categories.Get("c1")
	require.True(t, ok)
	assert.Equal(t, "golang", cat.Name)
	assert.Equal(t, "golang", env.m.categoryList.Items()[0].FilterValue())
	assert.Equal(t, "Категория переименована", env.m.statusMessage)
}

func TestCategoryPicker_RenameValidation(t *testing.T) {
	client := blogFixture()
	env := loggedInEnv(t, client, models.AdminUsername)
	env.press(t, "c")
	env.press(t, keyEdit)

	env.m.categoryInput.SetValue("   ")
	env.press(t, keyEnter)

	require.ErrorIs(t, env.m.err, validate.ErrNameRequired)
	assert.Equal(t, categoryEditScreen, env.m.state)
	assert.Contains(t, env.m.View(), "Ошибка:")

	env.press(t, keyEsc)
	assert.Equal(t, categoryPickerScreen, env.m.state)
	assert.NoError(t, env.m.err)
}

func TestCategoryPicker_RenameError(t *testing.T) {
	client := blogFixture()
	client.errs["UpdateCategory:кухня"] = errServer
	env := loggedInEnv(t, client, models.AdminUsername)
	env.press(t, "c")
	env.press(t, "down")
	env.press(t, keyEdit)

	env.m.categoryInput.SetValue("кухня")
	env.press(t, keyEnter)

	assert.Equal(t, categoryEditScreen, env.m.state, "При ошибке форма остается открытой")
	cat, ok := env.m.categories.Get("c2")
	require.True(t, ok)
	assert.Equal(t, "еда", cat.Name)
	assert.Equal(t, "Ошибка переименования категории: сервер недоступен", env.m.statusMessage)
}

func TestCategoryPicker_Delete(t *testing.T) {
	client := blogFixture()
	env := loggedInEnv(t, client, models.AdminUsername)
	env.press(t, "c")

	env.press(t, keyDelete)
	require.NotNil(t, env.m.confirm)
	assert.Equal(t, "Удалить категорию go?", env.m.confirm.prompt)

	env.press(t, keyNo)
	assert.Zero(t, client.called("DeleteCategory"))

	env.press(t, keyDelete)
	env.press(t, keyYes)

	assert.Equal(t, 1, client.called("DeleteCategory"))
	assert.Equal(t, categoryPickerScreen, env.m.state)
	assert.Equal(t, 1, env.m.categories.Len())
	_, found := env.m.categories.Get("c1")
	assert.False(t, found)
	assert.Len(t, env.m.categoryList.Items(), 1)
	assert.Equal(t, "Категория удалена", env.m.statusMessage)
}

func TestCategoryPicker_AdminOnlyActions(t *testing.T) {
	client := blogFixture()
	env := loggedInEnv(t, client, "alice")
	env.press(t, "c")
	assert.NotContains(t, env.m.helpText(), "переименовать")

	env.press(t, keyEdit)
	assert.Equal(t, categoryPickerScreen, env.m.state)

	env.press(t, keyDelete)
	assert.Nil(t, env.m.confirm)
	assert.Zero(t, client.called("DeleteCategory"))
	assert.Zero(t, client.called("UpdateCategory:go"))
}
