package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/parvatislap/lapas/internal/site"
)

const (
	fieldFirstName = iota
	fieldLastName
	fieldEmail
	fieldPhone
	fieldMessage
)

type formAction int

const (
	formNone formAction = iota
	formSubmit
	formLeave
)

// contactForm collects an enquiry that is turned into a WhatsApp link.
type contactForm struct {
	inputs  []textinput.Model
	cursor  int
	editing bool
}

func newContactForm() contactForm {
	fields := []struct {
		placeholder string
		limit       int
	}{
		{"First name", 40},
		{"Last name", 40},
		{"Email", 80},
		{"Phone", 20},
		{"Tell us about your trip…", 280},
	}
	inputs := make([]textinput.Model, len(fields))
	for i, field := range fields {
		in := textinput.New()
		in.Placeholder = field.placeholder
		in.CharLimit = field.limit
		in.Width = 40
		in.Prompt = "  "
		inputs[i] = in
	}
	return contactForm{inputs: inputs}
}

func (f *contactForm) begin() tea.Cmd {
	f.editing = true
	f.cursor = fieldFirstName
	return f.focusCursor()
}

func (f *contactForm) stop() {
	f.editing = false
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

func (f *contactForm) reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	f.stop()
}

func (f *contactForm) setWidth(width int) {
	for i := range f.inputs {
		f.inputs[i].Width = width
	}
}

func (f *contactForm) focusCursor() tea.Cmd {
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.cursor {
			cmd = f.inputs[i].Focus()
			continue
		}
		f.inputs[i].Blur()
	}
	return cmd
}

func (f *contactForm) move(delta int) tea.Cmd {
	n := len(f.inputs)
	f.cursor = ((f.cursor+delta)%n + n) % n
	return f.focusCursor()
}

func (f *contactForm) handleKey(msg tea.KeyMsg) (tea.Cmd, formAction) {
	switch msg.String() {
	case "esc":
		f.stop()
		return nil, formLeave
	case "tab", "down":
		return f.move(1), formNone
	case "shift+tab", "up":
		return f.move(-1), formNone
	case "enter":
		if f.cursor == fieldMessage {
			return nil, formSubmit
		}
		return f.move(1), formNone
	case "ctrl+s":
		return nil, formSubmit
	}
	var cmd tea.Cmd
	f.inputs[f.cursor], cmd = f.inputs[f.cursor].Update(msg)
	return cmd, formNone
}

func (f *contactForm) enquiry() site.Enquiry {
	value := func(i int) string { return strings.TrimSpace(f.inputs[i].Value()) }
	return site.Enquiry{
		FirstName: value(fieldFirstName),
		LastName:  value(fieldLastName),
		Email:     value(fieldEmail),
		Phone:     value(fieldPhone),
		Message:   value(fieldMessage),
	}
}

func (f *contactForm) View() string {
	rows := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		marker := "  "
		if f.editing && i == f.cursor {
			marker = focusMarkerStyle.Render("▸ ")
		}
		rows[i] = marker + in.View()
	}
	hint := "enter to start typing, tab between fields, enter on the message sends"
	if f.editing {
		hint = "tab/↑/↓ move • enter on message or ctrl+s sends • esc leaves the form"
	}
	return strings.Join(rows, "\n") + "\n" + helperStyle.Render(hint)
}
