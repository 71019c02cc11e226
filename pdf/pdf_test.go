package pdf_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/PublishedDoonk/notes-so/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	tc := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "cell membrane", want: "cell membrane"},
		{name: "arrows", in: "▶ step one ◀", want: " step one "},
		{name: "bullets", in: "● item", want: " item"},
		{name: "control", in: "a\u0089b\u0080c", want: "abc"},
	}

	for _, c := range tc {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, pdf.CleanText(c.in))
		})
	}
}

func TestReader_MissingFile(t *testing.T) {
	_, err := pdf.NewReader().Pages(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, pdf.ErrExtraction)
}

func TestReader_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte("plain text, not a pdf"), 0o644))

	_, err := pdf.NewReader().Pages(context.Background(), path)
	assert.ErrorIs(t, err, pdf.ErrExtraction)
}

func TestExtractorFunc(t *testing.T) {
	var ex pdf.Extractor = pdf.ExtractorFunc(func(ctx context.Context, path string) ([]string, error) {
		return []string{path}, nil
	})

	pages, err := ex.Pages(context.Background(), "a.pdf")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf"}, pages)
}
