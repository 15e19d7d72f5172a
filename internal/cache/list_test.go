package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maynagashev/gophblog/internal/cache"
	"github.com/maynagashev/gophblog/models"
)

func commentID(c models.Comment) string { return c.ID }

func ids(items []models.Comment) []string {
	result := make([]string, 0, len(items))
	for _, c := range items {
		result = append(result, c.ID)
	}
	return result
}

func TestList_Reconciliation(t *testing.T) {
	list := cache.NewList(commentID)
	list.Reset([]models.Comment{{ID: "c1", Content: "один"}, {ID: "c2", Content: "два"}})

	t.Run("Создание вставляет в начало", func(t *testing.T) {
		list.Prepend(models.Comment{ID: "c3", Content: "три"})
		assert.Equal(t, []string{"c3", "c1", "c2"}, ids(list.Items()))
	})

	t.Run("Изменение заменяет по ID", func(t *testing.T) {
		ok := list.Replace(models.Comment{ID: "c1", Content: "один*"})
		assert.True(t, ok)
		got, found := list.Get("c1")
		assert.True(t, found)
		assert.Equal(t, "один*", got.Content)
		assert.Equal(t, []string{"c3", "c1", "c2"}, ids(list.Items()), "порядок не меняется")
	})

	t.Run("Изменение отсутствующей записи", func(t *testing.T) {
		assert.False(t, list.Replace(models.Comment{ID: "nope"}))
		assert.Equal(t, 3, list.Len())
	})

	t.Run("Удаление по ID", func(t *testing.T) {
		assert.True(t, list.Remove("c3"))
		assert.False(t, list.Remove("c3"))
		assert.Equal(t, []string{"c1", "c2"}, ids(list.Items()))
	})

	t.Run("Повторное создание не дублирует", func(t *testing.T) {
		list.Prepend(models.Comment{ID: "c2", Content: "два*"})
		assert.Equal(t, []string{"c2", "c1"}, ids(list.Items()))
	})

	t.Run("Reset заменяет содержимое", func(t *testing.T) {
		list.Reset(nil)
		assert.Equal(t, 0, list.Len())
		_, found := list.Get("c1")
		assert.False(t, found)
	})
}

func TestList_ItemsIsCopy(t *testing.T) {
	source := []models.Comment{{ID: "c1"}}
	list := cache.NewList(commentID)
	list.Reset(source)

	source[0].ID = "changed"
	items := list.Items()
	items[0].ID = "changed too"

	got, found := list.Get("c1")
	assert.True(t, found)
	assert.Equal(t, "c1", got.ID)
}
