package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type field struct {
	label string
	input textinput.Model
}

func newField(label, placeholder string, secret bool) field {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 256
	in.Prompt = ""
	if secret {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
	}
	return field{label: label, input: in}
}

// form is a vertical stack of text inputs with one focused field.
type form struct {
	title  string
	fields []field
	focus  int
}

func newForm(title string, fields ...field) *form {
	f := &form{title: title, fields: fields}
	f.focusField(0)
	return f
}

func newLoginForm() *form {
	return newForm("Login",
		newField("username", "ada", false),
		newField("password", "", true),
	)
}

func newSignupForm() *form {
	return newForm("Create Account",
		newField("name", "Ada Lovelace", false),
		newField("username", "ada", false),
		newField("password", "", true),
	)
}

func newSubmitForm() *form {
	return newForm("Submit a Story",
		newField("author", "author name", false),
		newField("title", "story title", false),
		newField("url", "https://", false),
	)
}

func (f *form) focusField(i int) tea.Cmd {
	f.focus = i
	var cmd tea.Cmd
	for idx := range f.fields {
		if idx == i {
			cmd = f.fields[idx].input.Focus()
		} else {
			f.fields[idx].input.Blur()
		}
	}
	return cmd
}

// Next focuses the following field, wrapping around.
func (f *form) Next() tea.Cmd {
	return f.focusField((f.focus + 1) % len(f.fields))
}

// Prev focuses the preceding field, wrapping around.
func (f *form) Prev() tea.Cmd {
	return f.focusField((f.focus - 1 + len(f.fields)) % len(f.fields))
}

// Last reports whether the focused field is the final one.
func (f *form) Last() bool {
	return f.focus == len(f.fields)-1
}

// Update forwards msg to the focused input.
func (f *form) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd
}

// Value returns the raw value of the field with label.
func (f *form) Value(label string) string {
	for _, fl := range f.fields {
		if fl.label == label {
			return fl.input.Value()
		}
	}
	return ""
}

// Set writes the value of the field with label.
func (f *form) Set(label, value string) {
	for i := range f.fields {
		if f.fields[i].label == label {
			f.fields[i].input.SetValue(value)
		}
	}
}

// Reset empties every field and focuses the first.
func (f *form) Reset() tea.Cmd {
	for i := range f.fields {
		f.fields[i].input.Reset()
	}
	return f.focusField(0)
}

// View renders the form; active forms show their title highlighted and a cursor.
func (f *form) View(active bool) string {
	var b strings.Builder

	if active {
		b.WriteString(styles.title.Render(f.title))
	} else {
		b.WriteString(styles.help.MarginBottom(1).Render(f.title))
	}
	b.WriteString("\n")

	for i, fl := range f.fields {
		label := styles.label.Render(fl.label)
		if active && i == f.focus {
			label = styles.active.Render(fl.label)
		}
		b.WriteString(label)
		b.WriteString(fl.input.View())
		b.WriteString("\n")
	}
	return b.String()
}
