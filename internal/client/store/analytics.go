package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dvolkovs/fileshare/internal/client/localstate"
	"github.com/dvolkovs/fileshare/internal/client/models"
	"github.com/dvolkovs/fileshare/internal/logging"
)

const (
	analyticsStateKey = "analytics"

	// maxRecentActivity caps the recent-activity ring.
	maxRecentActivity = 10
)

// Storage breakdown buckets.
const (
	BucketImages    = "images"
	BucketDocuments = "documents"
	BucketVideos    = "videos"
	BucketAudio     = "audio"
	BucketOther     = "other"
)

// Activity types recorded in the recent-activity ring.
const (
	ActivityUpload        = "upload"
	ActivityDownload      = "download"
	ActivityShare         = "share"
	ActivityDelete        = "delete"
	ActivityFolderCreated = "folder_created"
	ActivityFolderDeleted = "folder_deleted"
)

// Bucket is one slice of the storage breakdown.
type Bucket struct {
	Size  int64 `json:"size"`
	Count int64 `json:"count"`
}

// Activity is one recent-activity entry.
type Activity struct {
	ID   string    `json:"id"`
	Type string    `json:"type"`
	User string    `json:"user"`
	File string    `json:"file"`
	Time time.Time `json:"time"`
	Size int64     `json:"size"`
}

// AnalyticsState is the full analytics aggregate. Counters are speculative:
// they track what this client observed, with no backend reconciliation
// beyond InitializeFromBackend.
type AnalyticsState struct {
	TotalFiles     int64 `json:"totalFiles"`
	TotalFolders   int64 `json:"totalFolders"`
	TotalStorage   int64 `json:"totalStorage"`
	TotalDownloads int64 `json:"totalDownloads"`
	TotalShares    int64 `json:"totalShares"`
	TotalUploads   int64 `json:"totalUploads"`

	StorageBreakdown map[string]Bucket `json:"storageBreakdown"`
	RecentActivity   []Activity        `json:"recentActivity"`
}

// analyticsAPI is the backend surface used to seed the aggregate.
type analyticsAPI interface {
	ListFiles(ctx context.Context) ([]*models.File, error)
	ListFolders(ctx context.Context) ([]*models.Folder, error)
}

// Analytics keeps client-side usage counters. Every mutation is persisted
// locally; persistence failures are logged and otherwise ignored.
type Analytics struct {
	api analyticsAPI
	db  *sql.DB
	log logging.Logger

	mu    sync.Mutex
	state AnalyticsState
}

func NewAnalytics(apiClient analyticsAPI, db *sql.DB, log logging.Logger) *Analytics {
	return &Analytics{
		api:   apiClient,
		db:    db,
		log:   log,
		state: emptyAnalyticsState(),
	}
}

func emptyAnalyticsState() AnalyticsState {
	return AnalyticsState{
		StorageBreakdown: map[string]Bucket{
			BucketImages:    {},
			BucketDocuments: {},
			BucketVideos:    {},
			BucketAudio:     {},
			BucketOther:     {},
		},
	}
}

func (a *Analytics) repo() localstate.Repository {
	return localstate.NewSQLiteRepository(a.db)
}

// Restore loads the persisted aggregate. Corrupt saved state is ignored and
// the empty aggregate kept.
func (a *Analytics) Restore(ctx context.Context) error {
	raw, err := a.repo().Get(ctx, analyticsStateKey)
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}

	var state AnalyticsState
	if err := json.Unmarshal(raw, &state); err != nil {
		a.log.Warn(ctx, "discarding unreadable saved analytics", "error", err)
		return nil
	}
	if state.StorageBreakdown == nil {
		state.StorageBreakdown = emptyAnalyticsState().StorageBreakdown
	}

	a.mu.Lock()
	a.state = state
	a.mu.Unlock()
	return nil
}

// InitializeFromBackend recomputes the totals and storage breakdown from the
// backend's file and folder listings. The activity ring and the speculative
// upload/share counters are kept as is.
func (a *Analytics) InitializeFromBackend(ctx context.Context) error {
	files, err := a.api.ListFiles(ctx)
	if err != nil {
		return err
	}
	folders, err := a.api.ListFolders(ctx)
	if err != nil {
		return err
	}

	breakdown := emptyAnalyticsState().StorageBreakdown
	var storage, downloads int64
	for _, f := range files {
		b := breakdown[classifyMIME(f.MimeType)]
		b.Size += f.Size
		b.Count++
		breakdown[classifyMIME(f.MimeType)] = b
		storage += f.Size
		downloads += f.DownloadCount
	}

	a.mu.Lock()
	a.state.TotalFiles = int64(len(files))
	a.state.TotalFolders = int64(len(folders))
	a.state.TotalStorage = storage
	a.state.TotalDownloads = downloads
	a.state.StorageBreakdown = breakdown
	a.mu.Unlock()

	a.persist(ctx)
	return nil
}

// TrackUpload records a successful upload of file by user.
func (a *Analytics) TrackUpload(ctx context.Context, file *models.File, user string) {
	a.mu.Lock()
	bucket := classifyMIME(file.MimeType)
	b := a.state.StorageBreakdown[bucket]
	b.Size += file.Size
	b.Count++
	a.state.StorageBreakdown[bucket] = b
	a.state.TotalFiles++
	a.state.TotalStorage += file.Size
	a.state.TotalUploads++
	a.record(ActivityUpload, user, file.Name, file.Size)
	a.mu.Unlock()

	a.persist(ctx)
}

func (a *Analytics) TrackDownload(ctx context.Context, file *models.File, user string) {
	a.mu.Lock()
	a.state.TotalDownloads++
	a.record(ActivityDownload, user, file.Name, file.Size)
	a.mu.Unlock()

	a.persist(ctx)
}

func (a *Analytics) TrackShare(ctx context.Context, file *models.File, user string) {
	a.mu.Lock()
	a.state.TotalShares++
	a.record(ActivityShare, user, file.Name, file.Size)
	a.mu.Unlock()

	a.persist(ctx)
}

// TrackDelete records a deletion; totals and bucket counters clamp at zero.
func (a *Analytics) TrackDelete(ctx context.Context, file *models.File, user string) {
	a.mu.Lock()
	bucket := classifyMIME(file.MimeType)
	b := a.state.StorageBreakdown[bucket]
	b.Size = clampZero(b.Size - file.Size)
	b.Count = clampZero(b.Count - 1)
	a.state.StorageBreakdown[bucket] = b
	a.state.TotalFiles = clampZero(a.state.TotalFiles - 1)
	a.state.TotalStorage = clampZero(a.state.TotalStorage - file.Size)
	a.record(ActivityDelete, user, file.Name, file.Size)
	a.mu.Unlock()

	a.persist(ctx)
}

func (a *Analytics) TrackFolderCreated(ctx context.Context, name, user string) {
	a.mu.Lock()
	a.state.TotalFolders++
	a.record(ActivityFolderCreated, user, name, 0)
	a.mu.Unlock()

	a.persist(ctx)
}

func (a *Analytics) TrackFolderDeleted(ctx context.Context, name, user string) {
	a.mu.Lock()
	a.state.TotalFolders = clampZero(a.state.TotalFolders - 1)
	a.record(ActivityFolderDeleted, user, name, 0)
	a.mu.Unlock()

	a.persist(ctx)
}

// Snapshot returns a deep copy of the aggregate.
func (a *Analytics) Snapshot() AnalyticsState {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := a.state
	snap.StorageBreakdown = make(map[string]Bucket, len(a.state.StorageBreakdown))
	for k, v := range a.state.StorageBreakdown {
		snap.StorageBreakdown[k] = v
	}
	snap.RecentActivity = make([]Activity, len(a.state.RecentActivity))
	copy(snap.RecentActivity, a.state.RecentActivity)
	return snap
}

// record prepends an activity entry, keeping the newest maxRecentActivity.
// Callers hold a.mu.
func (a *Analytics) record(kind, user, name string, size int64) {
	entry := Activity{
		ID:   uuid.NewString(),
		Type: kind,
		User: user,
		File: name,
		Time: time.Now(),
		Size: size,
	}
	ring := append([]Activity{entry}, a.state.RecentActivity...)
	if len(ring) > maxRecentActivity {
		ring = ring[:maxRecentActivity]
	}
	a.state.RecentActivity = ring
}

func (a *Analytics) persist(ctx context.Context) {
	a.mu.Lock()
	raw, err := json.Marshal(a.state)
	a.mu.Unlock()
	if err != nil {
		a.log.Warn(ctx, "failed to encode analytics", "error", err)
		return
	}
	if err := a.repo().Set(ctx, analyticsStateKey, raw); err != nil {
		a.log.Warn(ctx, "failed to save analytics", "error", err)
	}
}

// classifyMIME maps a MIME type onto a storage bucket. Top-level image,
// video and audio types get their own buckets; text and document-like
// application types count as documents; everything else is other.
func classifyMIME(mimeType string) string {
	if mimeType == "" {
		return BucketOther
	}
	top, _, _ := strings.Cut(mimeType, "/")
	switch top {
	case "image":
		return BucketImages
	case "video":
		return BucketVideos
	case "audio":
		return BucketAudio
	case "text":
		return BucketDocuments
	case "application":
		if strings.Contains(mimeType, "pdf") ||
			strings.Contains(mimeType, "document") ||
			strings.Contains(mimeType, "text") {
			return BucketDocuments
		}
		return BucketOther
	default:
		return BucketOther
	}
}

func clampZero(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
