package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/firstpriority/website/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sub(i int) model.Submission {
	return model.Submission{
		Name:    fmt.Sprintf("Name %d", i),
		Email:   fmt.Sprintf("user%d@example.com", i),
		Message: fmt.Sprintf("message %d", i),
	}
}

func TestFileSubmissionRepository_AppendRoundTrip(t *testing.T) {
	repo := NewFileSubmissionRepository(t.TempDir())
	ctx := context.Background()

	const n = 5
	for i := 0; i < n; i++ {
		require.NoError(t, repo.Append(ctx, model.KindContact, sub(i)))
	}

	got, err := repo.List(ctx, model.KindContact)
	require.NoError(t, err)
	require.Len(t, got, n)
	for i := 0; i < n; i++ {
		assert.Equal(t, sub(i), got[i], "record %d out of order", i)
	}
}

func TestFileSubmissionRepository_FileFormat(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileSubmissionRepository(dir)

	require.NoError(t, repo.Append(context.Background(), model.KindHiring, model.Submission{
		Name: "Ana", Email: "ana@example.com", Message: "I can drive a forklift",
	}))

	data, err := os.ReadFile(filepath.Join(dir, "applications.json"))
	require.NoError(t, err)

	want := "[\n  {\n    \"name\": \"Ana\",\n    \"email\": \"ana@example.com\",\n    \"message\": \"I can drive a forklift\"\n  }\n]"
	assert.Equal(t, want, string(data))

	var raw []map[string]string
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, []map[string]string{{
		"name": "Ana", "email": "ana@example.com", "message": "I can drive a forklift",
	}}, raw)
}

func TestFileSubmissionRepository_KindsUseSeparateFiles(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileSubmissionRepository(dir)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, model.KindContact, sub(1)))
	require.NoError(t, repo.Append(ctx, model.KindHiring, sub(2)))

	contacts, err := repo.List(ctx, model.KindContact)
	require.NoError(t, err)
	hires, err := repo.List(ctx, model.KindHiring)
	require.NoError(t, err)

	assert.Equal(t, []model.Submission{sub(1)}, contacts)
	assert.Equal(t, []model.Submission{sub(2)}, hires)
	assert.FileExists(t, filepath.Join(dir, "messages.json"))
	assert.FileExists(t, filepath.Join(dir, "applications.json"))
}

// A corrupt file is replaced by a fresh array holding only the new record.
// Everything stored before the corruption is lost; this is accepted behavior.
func TestFileSubmissionRepository_CorruptFileTreatedAsEmpty(t *testing.T) {
	cases := map[string]string{
		"garbage":      "this is not json",
		"object":       `{"name":"x"}`,
		"truncated":    `[{"name":"a","email":"b","message":"c"`,
		"empty":        "",
		"wrong shapes": `[1, 2, 3]`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "messages.json")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
			repo := NewFileSubmissionRepository(dir)

			_, err := repo.List(context.Background(), model.KindContact)
			assert.ErrorIs(t, err, ErrCorrupt)

			require.NoError(t, repo.Append(context.Background(), model.KindContact, sub(9)))

			got, err := repo.List(context.Background(), model.KindContact)
			require.NoError(t, err)
			assert.Equal(t, []model.Submission{sub(9)}, got)
		})
	}
}

func TestFileSubmissionRepository_ListMissingFile(t *testing.T) {
	repo := NewFileSubmissionRepository(t.TempDir())

	got, err := repo.List(context.Background(), model.KindContact)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFileSubmissionRepository_UnknownKind(t *testing.T) {
	repo := NewFileSubmissionRepository(t.TempDir())

	err := repo.Append(context.Background(), model.Kind("newsletter"), sub(1))
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = repo.List(context.Background(), model.Kind("newsletter"))
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestFileSubmissionRepository_WriteFailure(t *testing.T) {
	// A regular file where the data directory should be makes every write fail.
	blocker := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	repo := NewFileSubmissionRepository(blocker)

	err := repo.Append(context.Background(), model.KindContact, sub(1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStoreWrite))

	assert.Error(t, repo.Ping(context.Background()))
}

func TestFileSubmissionRepository_ConcurrentAppendsKeepEveryRecord(t *testing.T) {
	repo := NewFileSubmissionRepository(t.TempDir())
	ctx := context.Background()

	const n = 40
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, repo.Append(ctx, model.KindContact, sub(i)))
		}(i)
	}
	wg.Wait()

	got, err := repo.List(ctx, model.KindContact)
	require.NoError(t, err)
	assert.Len(t, got, n)
}

func TestFileSubmissionRepository_PingCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	repo := NewFileSubmissionRepository(dir)

	require.NoError(t, repo.Ping(context.Background()))
	assert.DirExists(t, dir)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "ping must not leave files behind")
}
