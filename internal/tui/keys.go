package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Quit     key.Binding
	Calories key.Binding
	Water    key.Binding
	Goals    key.Binding
	Back     key.Binding
	Left     key.Binding
	Right    key.Binding
	Up       key.Binding
	Down     key.Binding
	Plus     key.Binding
	Minus    key.Binding
	Confirm  key.Binding
	Undo     key.Binding
	Next     key.Binding
	Dismiss  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Calories: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "add calories")),
		Water:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "add water")),
		Goals:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "goals")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "choose")),
		Right:    key.NewBinding(key.WithKeys("right", "l")),
		Up:       key.NewBinding(key.WithKeys("up", "k")),
		Down:     key.NewBinding(key.WithKeys("down", "j")),
		Plus:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "adjust ±50")),
		Minus:    key.NewBinding(key.WithKeys("-", "_")),
		Confirm:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
		Undo:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo last")),
		Next:     key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
		Dismiss:  key.NewBinding(key.WithKeys("esc", "enter", " "), key.WithHelp("esc", "close")),
	}
}

var resetBinding = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "clear diary"))

func (k keyMap) dashboardHelp() []key.Binding {
	return []key.Binding{k.Calories, k.Water, k.Goals, k.Quit}
}

func (k keyMap) entryHelp() []key.Binding {
	return []key.Binding{k.Left, k.Plus, k.Confirm, k.Undo, k.Back}
}

func (k keyMap) goalsHelp() []key.Binding {
	goalsConfirm := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save"))
	return []key.Binding{k.Next, goalsConfirm, k.Back}
}

func renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, "["+h.Key+"] "+h.Desc)
	}
	return mutedStyle.Render(strings.Join(parts, "  "))
}
