package manifest

import (
	"context"
	"testing"
	"time"

	"github.com/elizaos/docsite/internal/content"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(hash string) *BuildRecord {
	return &BuildRecord{
		BuildID:     uuid.NewString(),
		StartedAt:   time.Now().Truncate(time.Second),
		Duration:    1500 * time.Millisecond,
		ContentHash: hash,
		PageCount:   3,
		Outcome:     "success",
		Pages: []content.PageDigest{
			{RelPath: "foo.mdx", Route: "/docs/foo", ContentHash: "abc"},
		},
	}
}

func TestBuildRecord_WriteAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rec := testRecord("hash-1")

	require.NoError(t, rec.Write(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, rec.BuildID, loaded.BuildID)
	assert.Equal(t, rec.ContentHash, loaded.ContentHash)
	assert.Len(t, loaded.Pages, 1)
}

func TestLoad_MissingReport(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
}

func TestStore_AppendAndLatest(t *testing.T) {
	store, err := OpenStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	first := testRecord("hash-1")
	second := testRecord("hash-2")
	require.NoError(t, store.Append(ctx, first))
	require.NoError(t, store.Append(ctx, second))

	latest, err = store.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, second.BuildID, latest.BuildID)
	assert.Equal(t, "hash-2", latest.ContentHash)
	assert.Equal(t, 3, latest.PageCount)

	recent, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, second.BuildID, recent[0].BuildID)
	assert.Equal(t, first.BuildID, recent[1].BuildID)
}
