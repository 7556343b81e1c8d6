package views

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/domain"
)

func typeText(f *Form, s string) {
	for _, r := range s {
		f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestFormFocusWraps(t *testing.T) {
	f := NewForm(newField("A", "", 0), newField("B", "", 0), newField("C", "", 0))

	tests := []struct {
		msg  tea.KeyMsg
		want int
	}{
		{tea.KeyMsg{Type: tea.KeyTab}, 1},
		{tea.KeyMsg{Type: tea.KeyDown}, 2},
		{tea.KeyMsg{Type: tea.KeyTab}, 0},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, 2},
		{tea.KeyMsg{Type: tea.KeyUp}, 1},
	}
	for _, tt := range tests {
		f.Update(tt.msg)
		assert.Equal(t, tt.want, f.Focused(), "after %s", tt.msg)
	}
}

func TestFormValuesAndReset(t *testing.T) {
	f := NewForm(newField("Name", "", 0), newField("Author", "", 0))
	typeText(f, "  Winter  ")
	f.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(f, "Ann, , Bo ")

	assert.Equal(t, "Winter", f.Value(0))
	assert.Equal(t, []string{"Ann", "Bo"}, f.List(1))
	assert.Empty(t, f.Value(5))

	f.Reset()
	assert.Equal(t, 0, f.Focused())
	assert.Empty(t, f.Value(0))
	assert.Nil(t, f.List(1))
}

func TestCreateModelCreatesProject(t *testing.T) {
	svc := newTestServices(t, nil)
	m := NewCreateModel(svc.Creator)

	typeText(m.form, "Winter")
	m.form.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(m.form, "essay")
	m.form.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(m.form, "Ann, Bo")

	_, cmd := m.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	created, ok := cmd().(CreatedMsg)
	require.True(t, ok)
	assert.Equal(t, "Winter", created.ProjectPath)

	doc, err := svc.Configs.Load(context.Background(), "Winter")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, domain.Authors{"Ann", "Bo"}, doc.Basic.Author)
	assert.Equal(t, "essay", doc.Basic.ProjectType)

	_, cmd = m.Update(keyMsg("esc"))
	require.NotNil(t, cmd)
	assert.IsType(t, BackMsg{}, cmd())
}

func TestCreateModelReportsDuplicate(t *testing.T) {
	svc := newTestServices(t, map[string]string{"Winter/Chapter 1.md": "x"})
	m := NewCreateModel(svc.Creator)
	typeText(m.form, "Winter")

	_, cmd := m.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	m.Update(cmd())

	assert.True(t, m.MessageErr)
	assert.NotEmpty(t, m.Message)
	assert.False(t, m.busy)
}
