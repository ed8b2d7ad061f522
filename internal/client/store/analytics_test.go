package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvolkovs/fileshare/internal/client/localstate"
	"github.com/dvolkovs/fileshare/internal/client/models"
)

type fakeAnalyticsAPI struct {
	files   []*models.File
	folders []*models.Folder
	listErr error
}

func (f *fakeAnalyticsAPI) ListFiles(ctx context.Context) ([]*models.File, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.files, nil
}

func (f *fakeAnalyticsAPI) ListFolders(ctx context.Context) ([]*models.Folder, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.folders, nil
}

func TestClassifyMIME(t *testing.T) {
	tests := []struct {
		mimeType string
		want     string
	}{
		{"image/png", BucketImages},
		{"image/jpeg", BucketImages},
		{"video/mp4", BucketVideos},
		{"audio/mpeg", BucketAudio},
		{"text/plain", BucketDocuments},
		{"application/pdf", BucketDocuments},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", BucketDocuments},
		{"application/zip", BucketOther},
		{"application/octet-stream", BucketOther},
		{"font/woff2", BucketOther},
		{"", BucketOther},
	}
	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyMIME(tt.mimeType))
		})
	}
}

func TestAnalytics_TrackUpload(t *testing.T) {
	a := NewAnalytics(&fakeAnalyticsAPI{}, newTestDB(t), discardLogger())
	ctx := context.Background()

	a.TrackUpload(ctx, &models.File{Name: "cat.png", Size: 500, MimeType: "image/png"}, "Dana")

	snap := a.Snapshot()
	assert.Equal(t, int64(1), snap.TotalFiles)
	assert.Equal(t, int64(1), snap.TotalUploads)
	assert.Equal(t, int64(500), snap.TotalStorage)
	assert.Equal(t, Bucket{Size: 500, Count: 1}, snap.StorageBreakdown[BucketImages])

	require.Len(t, snap.RecentActivity, 1)
	entry := snap.RecentActivity[0]
	assert.Equal(t, ActivityUpload, entry.Type)
	assert.Equal(t, "cat.png", entry.File)
	assert.Equal(t, "Dana", entry.User)
	assert.NotEmpty(t, entry.ID)
}

func TestAnalytics_RecentActivityCap(t *testing.T) {
	a := NewAnalytics(&fakeAnalyticsAPI{}, newTestDB(t), discardLogger())
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		a.TrackUpload(ctx, &models.File{Name: fmt.Sprintf("f%d.txt", i), Size: 1, MimeType: "text/plain"}, "Dana")
	}

	snap := a.Snapshot()
	require.Len(t, snap.RecentActivity, 10)
	// newest first
	assert.Equal(t, "f14.txt", snap.RecentActivity[0].File)
	assert.Equal(t, "f5.txt", snap.RecentActivity[9].File)
}

func TestAnalytics_TrackDeleteClampsAtZero(t *testing.T) {
	a := NewAnalytics(&fakeAnalyticsAPI{}, newTestDB(t), discardLogger())
	ctx := context.Background()

	// delete without a prior upload must not drive counters negative
	a.TrackDelete(ctx, &models.File{Name: "ghost.bin", Size: 999, MimeType: "application/zip"}, "Dana")

	snap := a.Snapshot()
	assert.Equal(t, int64(0), snap.TotalFiles)
	assert.Equal(t, int64(0), snap.TotalStorage)
	assert.Equal(t, Bucket{}, snap.StorageBreakdown[BucketOther])
	require.Len(t, snap.RecentActivity, 1)
	assert.Equal(t, ActivityDelete, snap.RecentActivity[0].Type)
}

func TestAnalytics_FolderCounters(t *testing.T) {
	a := NewAnalytics(&fakeAnalyticsAPI{}, newTestDB(t), discardLogger())
	ctx := context.Background()

	a.TrackFolderCreated(ctx, "docs", "Dana")
	a.TrackFolderCreated(ctx, "media", "Dana")
	a.TrackFolderDeleted(ctx, "docs", "Dana")

	snap := a.Snapshot()
	assert.Equal(t, int64(1), snap.TotalFolders)

	a.TrackFolderDeleted(ctx, "media", "Dana")
	a.TrackFolderDeleted(ctx, "media", "Dana")
	assert.Equal(t, int64(0), a.Snapshot().TotalFolders)
}

func TestAnalytics_InitializeFromBackend(t *testing.T) {
	apiClient := &fakeAnalyticsAPI{
		files: []*models.File{
			{Name: "a.png", Size: 100, MimeType: "image/png", DownloadCount: 3},
			{Name: "b.pdf", Size: 200, MimeType: "application/pdf", DownloadCount: 1},
			{Name: "c.bin", Size: 50, MimeType: "application/octet-stream"},
		},
		folders: []*models.Folder{{ID: 1}, {ID: 2}},
	}
	a := NewAnalytics(apiClient, newTestDB(t), discardLogger())

	require.NoError(t, a.InitializeFromBackend(context.Background()))

	snap := a.Snapshot()
	assert.Equal(t, int64(3), snap.TotalFiles)
	assert.Equal(t, int64(2), snap.TotalFolders)
	assert.Equal(t, int64(350), snap.TotalStorage)
	assert.Equal(t, int64(4), snap.TotalDownloads)
	assert.Equal(t, Bucket{Size: 100, Count: 1}, snap.StorageBreakdown[BucketImages])
	assert.Equal(t, Bucket{Size: 200, Count: 1}, snap.StorageBreakdown[BucketDocuments])
	assert.Equal(t, Bucket{Size: 50, Count: 1}, snap.StorageBreakdown[BucketOther])
}

func TestAnalytics_InitializeFromBackendFailureKeepsState(t *testing.T) {
	a := NewAnalytics(&fakeAnalyticsAPI{listErr: assert.AnError}, newTestDB(t), discardLogger())
	ctx := context.Background()
	a.TrackUpload(ctx, &models.File{Name: "a.png", Size: 100, MimeType: "image/png"}, "Dana")

	require.ErrorIs(t, a.InitializeFromBackend(ctx), assert.AnError)

	snap := a.Snapshot()
	assert.Equal(t, int64(1), snap.TotalFiles)
	assert.Equal(t, int64(100), snap.TotalStorage)
}

func TestAnalytics_RestoreRoundtrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first := NewAnalytics(&fakeAnalyticsAPI{}, db, discardLogger())
	first.TrackUpload(ctx, &models.File{Name: "a.png", Size: 100, MimeType: "image/png"}, "Dana")
	first.TrackShare(ctx, &models.File{Name: "a.png", Size: 100}, "Dana")

	second := NewAnalytics(&fakeAnalyticsAPI{}, db, discardLogger())
	require.NoError(t, second.Restore(ctx))

	snap := second.Snapshot()
	assert.Equal(t, int64(1), snap.TotalUploads)
	assert.Equal(t, int64(1), snap.TotalShares)
	assert.Len(t, snap.RecentActivity, 2)
}

func TestAnalytics_RestoreIgnoresCorruptState(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	require.NoError(t, localstate.NewSQLiteRepository(db).Set(ctx, "analytics", []byte("%%%")))

	a := NewAnalytics(&fakeAnalyticsAPI{}, db, discardLogger())
	require.NoError(t, a.Restore(ctx))

	snap := a.Snapshot()
	assert.Equal(t, int64(0), snap.TotalFiles)
	assert.NotNil(t, snap.StorageBreakdown)
}
