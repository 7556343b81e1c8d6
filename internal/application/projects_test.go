package application

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/domain"
)

func TestCreateProjectLayouts(t *testing.T) {
	tests := []struct {
		typ   domain.ProjectType
		files []string
	}{
		{domain.ProjectBook, []string{"Volume 1/Chapter 1.md"}},
		{domain.ProjectScript, []string{"Act 1/Scene 1.md"}},
		{domain.ProjectFilm, []string{"Sequence 1/Scene 1.md"}},
		{domain.ProjectEssay, []string{"Manuscript.md"}},
		{domain.ProjectType("poetry"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			f := newFixture(t)
			p, err := f.svc.Creator.Create(f.ctx, CreateProjectRequest{
				Name:    "Work",
				Type:    tt.typ,
				Authors: []string{"Ada"},
			})
			require.NoError(t, err)
			assert.Equal(t, "Work", p.Path)
			assert.Equal(t, tt.typ, p.Type)

			for _, file := range tt.files {
				assert.True(t, f.exists("Work/"+file), file)
				f.node("Work", file)
			}

			doc := f.load("Work")
			assert.Equal(t, "Work", doc.Basic.Title)
			assert.Equal(t, string(tt.typ), doc.Basic.ProjectType)
			assert.Equal(t, domain.Authors{"Ada"}, doc.Basic.Author)
			assert.NotEmpty(t, doc.Basic.UUID)
			assert.True(t, doc.Export.IncludeCover)
		})
	}
}

func TestCreateProjectRejects(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Creator.Create(f.ctx, CreateProjectRequest{Name: "Novel"})
	require.NoError(t, err)

	_, err = f.svc.Creator.Create(f.ctx, CreateProjectRequest{Name: "Novel"})
	assert.True(t, errors.Is(err, ErrAlreadyExists))

	_, err = f.svc.Creator.Create(f.ctx, CreateProjectRequest{Name: "../escape"})
	var valErr *ValidationError
	assert.True(t, errors.As(err, &valErr))

	_, err = f.svc.Creator.Create(f.ctx, CreateProjectRequest{Name: "  "})
	assert.True(t, errors.As(err, &valErr))
}

func TestCreateProjectDefaultsToBook(t *testing.T) {
	f := newFixture(t)
	p, err := f.svc.Creator.Create(f.ctx, CreateProjectRequest{Name: "Untyped"})
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectBook, p.Type)
	assert.True(t, f.exists("Untyped/Volume 1/Chapter 1.md"))
}
