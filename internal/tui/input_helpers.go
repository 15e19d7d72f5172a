package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// focusInput ставит фокус на поле idx и снимает его с остальных полей.
func focusInput(inputs []textinput.Model, idx int) tea.Cmd {
	for i := range inputs {
		if i == idx {
			inputs[i].Focus()
		} else {
			inputs[i].Blur()
		}
	}
	return textinput.Blink
}

// blurInputs снимает фокус со всех полей.
func blurInputs(inputs []textinput.Model) {
	for i := range inputs {
		inputs[i].Blur()
	}
}

// resetInputs очищает поля и ставит фокус на первое.
func resetInputs(inputs []textinput.Model) {
	for i := range inputs {
		inputs[i].Reset()
	}
	focusInput(inputs, 0)
}

// inputValue возвращает значение поля без пробелов по краям.
func inputValue(inputs []textinput.Model, idx int) string {
	return strings.TrimSpace(inputs[idx].Value())
}

// handleFormKeys обрабатывает нажатия Tab, Shift+Tab и Enter в полях формы.
// Enter на последнем поле вызывает onSubmit.
// Возвращает модель, команду и флаг, указывающий, была ли клавиша обработана.
func (m *model) handleFormKeys(
	keyMsg tea.KeyMsg,
	inputs []textinput.Model,
	onSubmit func() (tea.Model, tea.Cmd),
) (tea.Model, tea.Cmd, bool) {
	n := len(inputs)
	switch keyMsg.String() {
	case keyTab:
		m.focusedField = (m.focusedField + 1) % n
		return m, focusInput(inputs, m.focusedField), true
	case keyShiftTab:
		m.focusedField = (m.focusedField + n - 1) % n
		return m, focusInput(inputs, m.focusedField), true
	case keyEnter:
		if m.focusedField < n-1 {
			m.focusedField++
			return m, focusInput(inputs, m.focusedField), true
		}
		model, cmd := onSubmit()
		return model, cmd, true
	default:
		return m, nil, false // Клавиша не обработана этим хендлером
	}
}

// handleFormInput обрабатывает ввод в полях формы, переключение фокуса
// и действия по Enter/Esc.
func (m *model) handleFormInput(
	msg tea.Msg,
	inputs []textinput.Model,
	onSubmit func() (tea.Model, tea.Cmd),
	onCancel func() (tea.Model, tea.Cmd),
) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == keyEsc {
			blurInputs(inputs)
			return onCancel()
		}

		newModel, keyCmd, handled := m.handleFormKeys(keyMsg, inputs, onSubmit)
		if handled {
			return newModel, keyCmd
		}
	}

	// Остальные сообщения передаем активному полю
	if m.focusedField < 0 || m.focusedField >= len(inputs) {
		return m, nil
	}
	var cmd tea.Cmd
	inputs[m.focusedField], cmd = inputs[m.focusedField].Update(msg)
	return m, cmd
}
