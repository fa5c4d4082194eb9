package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorePutOpen(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	art, err := s.Put(ctx, "city-tax", "2021_01.pdf", strings.NewReader("report body"))
	require.NoError(t, err)
	assert.Equal(t, "city-tax", art.Family)
	assert.Equal(t, "2021_01.pdf", art.Name)
	assert.Equal(t, int64(len("report body")), art.Size)

	r, err := s.Open(ctx, "city-tax", "2021_01.pdf")
	require.NoError(t, err)
	defer r.Close()
	body, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "report body", string(body))
}

func TestLocalStorePutReplaces(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Put(ctx, "city-tax", "2021_01.pdf", strings.NewReader("first"))
	require.NoError(t, err)
	_, err = s.Put(ctx, "city-tax", "2021_01.pdf", strings.NewReader("second"))
	require.NoError(t, err)

	r, err := s.Open(ctx, "city-tax", "2021_01.pdf")
	require.NoError(t, err)
	defer r.Close()
	body, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "second", string(body))
}

func TestLocalStoreList(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	// Unknown family lists empty, not an error.
	arts, err := s.List(ctx, "school")
	require.NoError(t, err)
	assert.Empty(t, arts)

	_, err = s.Put(ctx, "school", "2021_02.pdf", strings.NewReader("b"))
	require.NoError(t, err)
	_, err = s.Put(ctx, "school", "2021_01.pdf", strings.NewReader("a"))
	require.NoError(t, err)

	arts, err = s.List(ctx, "school")
	require.NoError(t, err)
	require.Len(t, arts, 2)
	assert.Equal(t, "2021_01.pdf", arts[0].Name)
	assert.Equal(t, "2021_02.pdf", arts[1].Name)
}

func TestSanitizeName(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	// Path components in names stay inside the family directory.
	path := s.Path("city-tax", "../../etc/passwd")
	assert.Contains(t, path, "city-tax")
	assert.NotContains(t, path, "..")
}
