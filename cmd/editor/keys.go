package main

import "github.com/charmbracelet/bubbles/key"

// keyMap groups the editor's fixed bindings the way bubbles/key expects,
// independent of Insert-mode character input which is handled as raw
// tea.KeyRunes/tea.KeySpace messages.
type keyMap struct {
	Quit          key.Binding
	Leave         key.Binding
	ManualTrigger key.Binding
	EnterInsert   key.Binding
	Left          key.Binding
	Right         key.Binding
	Up            key.Binding
	Down          key.Binding
	Accept        key.Binding
	Backspace     key.Binding
}

var defaultKeyMap = keyMap{
	Quit:          key.NewBinding(key.WithKeys("ctrl+c")),
	Leave:         key.NewBinding(key.WithKeys("esc")),
	ManualTrigger: key.NewBinding(key.WithKeys("ctrl+n")),
	EnterInsert:   key.NewBinding(key.WithKeys("i")),
	Left:          key.NewBinding(key.WithKeys("h")),
	Right:         key.NewBinding(key.WithKeys("l")),
	Up:            key.NewBinding(key.WithKeys("up")),
	Down:          key.NewBinding(key.WithKeys("down")),
	Accept:        key.NewBinding(key.WithKeys("enter")),
	Backspace:     key.NewBinding(key.WithKeys("backspace")),
}
