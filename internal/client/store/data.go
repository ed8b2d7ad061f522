package store

import (
	"context"
	"sync"

	"github.com/dvolkovs/fileshare/internal/client/api"
	"github.com/dvolkovs/fileshare/internal/client/models"
	"github.com/dvolkovs/fileshare/internal/logging"
)

// dataAPI is the backend surface the data store consumes.
type dataAPI interface {
	api.FilesAPI
	api.FoldersAPI
	api.SharesAPI
}

// storageAccountant receives byte deltas after uploads and deletes.
type storageAccountant interface {
	AdjustStorageUsed(ctx context.Context, delta int64)
}

// Data mirrors the account's files, folders and share links. Mutators call
// the backend first and apply the authoritative response; nothing is applied
// optimistically, so a failed mutation leaves local state untouched.
type Data struct {
	api  dataAPI
	auth storageAccountant
	log  logging.Logger

	mu      sync.RWMutex
	files   []*models.File
	folders []*models.Folder
	shares  map[int64]*models.ShareLink
}

// DataSnapshot is a read-only view of the mirrored collections.
type DataSnapshot struct {
	Files   []*models.File
	Folders []*models.Folder
	Shares  map[int64]*models.ShareLink
}

// Upload is one pending file upload.
type Upload struct {
	Name     string
	Content  []byte
	FolderID int64
}

func NewData(apiClient dataAPI, auth storageAccountant, log logging.Logger) *Data {
	return &Data{
		api:    apiClient,
		auth:   auth,
		log:    log,
		shares: make(map[int64]*models.ShareLink),
	}
}

// Load replaces the mirrored collections with fresh backend listings. A
// failed share-list fetch is tolerated and yields an empty share map; files
// and folders are required.
func (d *Data) Load(ctx context.Context) error {
	files, err := d.api.ListFiles(ctx)
	if err != nil {
		return err
	}
	folders, err := d.api.ListFolders(ctx)
	if err != nil {
		return err
	}

	shares := make(map[int64]*models.ShareLink)
	shareList, err := d.api.ListShares(ctx)
	if err != nil {
		d.log.Warn(ctx, "failed to list share links", "error", err)
	} else {
		for _, s := range shareList {
			shares[s.ID] = s
		}
	}

	d.mu.Lock()
	d.files = files
	d.folders = folders
	d.shares = shares
	d.mu.Unlock()
	return nil
}

// UploadFiles uploads each entry in turn and keeps whatever succeeded. The
// first failure is returned only when nothing was uploaded; partial success
// is success, with the failures logged. Successful uploads add their
// server-reported sizes to the storage-used counter.
func (d *Data) UploadFiles(ctx context.Context, uploads []Upload) ([]*models.File, error) {
	var uploaded []*models.File
	var firstErr error
	for _, u := range uploads {
		f, err := d.api.UploadFile(ctx, u.Name, u.Content, u.FolderID)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			d.log.Warn(ctx, "upload failed", "name", u.Name, "error", err)
			continue
		}
		uploaded = append(uploaded, f)
	}

	if len(uploaded) == 0 {
		return nil, firstErr
	}

	var addedBytes int64
	d.mu.Lock()
	for _, f := range uploaded {
		d.files = append(d.files, f)
		addedBytes += f.Size
	}
	d.mu.Unlock()

	if addedBytes > 0 {
		d.auth.AdjustStorageUsed(ctx, addedBytes)
	}
	return uploaded, nil
}

// UpdateFile renames and/or stars a file and replaces the local entry with
// the server's version.
func (d *Data) UpdateFile(ctx context.Context, id int64, upd models.FileUpdate) (*models.File, error) {
	updated, err := d.api.UpdateFile(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	for i, f := range d.files {
		if f.ID == id {
			d.files[i] = updated
			break
		}
	}
	d.mu.Unlock()
	return updated, nil
}

// DeleteFile removes a file and subtracts its size from the storage-used
// counter.
func (d *Data) DeleteFile(ctx context.Context, id int64) error {
	var size int64
	d.mu.RLock()
	for _, f := range d.files {
		if f.ID == id {
			size = f.Size
			break
		}
	}
	d.mu.RUnlock()

	if err := d.api.DeleteFile(ctx, id); err != nil {
		return err
	}

	d.mu.Lock()
	for i, f := range d.files {
		if f.ID == id {
			d.files = append(d.files[:i], d.files[i+1:]...)
			break
		}
	}
	d.mu.Unlock()

	if size > 0 {
		d.auth.AdjustStorageUsed(ctx, -size)
	}
	return nil
}

func (d *Data) CreateFolder(ctx context.Context, name string, parentID int64) (*models.Folder, error) {
	created, err := d.api.CreateFolder(ctx, name, parentID)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	d.folders = append(d.folders, created)
	d.mu.Unlock()
	return created, nil
}

func (d *Data) RenameFolder(ctx context.Context, id int64, name string) (*models.Folder, error) {
	updated, err := d.api.RenameFolder(ctx, id, name)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	for i, f := range d.folders {
		if f.ID == id {
			d.folders[i] = updated
			break
		}
	}
	d.mu.Unlock()
	return updated, nil
}

func (d *Data) DeleteFolder(ctx context.Context, id int64) error {
	if err := d.api.DeleteFolder(ctx, id); err != nil {
		return err
	}
	d.mu.Lock()
	for i, f := range d.folders {
		if f.ID == id {
			d.folders = append(d.folders[:i], d.folders[i+1:]...)
			break
		}
	}
	d.mu.Unlock()
	return nil
}

func (d *Data) CreateShare(ctx context.Context, req models.ShareRequest) (*models.ShareLink, error) {
	created, err := d.api.CreateShare(ctx, req)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	d.shares[created.ID] = created
	d.mu.Unlock()
	return created, nil
}

func (d *Data) UpdateShare(ctx context.Context, id int64, req models.ShareRequest) (*models.ShareLink, error) {
	updated, err := d.api.UpdateShare(ctx, id, req)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	d.shares[id] = updated
	d.mu.Unlock()
	return updated, nil
}

func (d *Data) DeleteShare(ctx context.Context, id int64) error {
	if err := d.api.DeleteShare(ctx, id); err != nil {
		return err
	}
	d.mu.Lock()
	delete(d.shares, id)
	d.mu.Unlock()
	return nil
}

// File returns the mirrored metadata for a file id.
func (d *Data) File(id int64) (*models.File, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, f := range d.files {
		if f.ID == id {
			return f, true
		}
	}
	return nil, false
}

// Snapshot returns a shallow copy of the mirrored collections. Mutators
// replace entries rather than editing them in place, so the returned
// pointers stay stable.
func (d *Data) Snapshot() DataSnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	snap := DataSnapshot{
		Files:   make([]*models.File, len(d.files)),
		Folders: make([]*models.Folder, len(d.folders)),
		Shares:  make(map[int64]*models.ShareLink, len(d.shares)),
	}
	copy(snap.Files, d.files)
	copy(snap.Folders, d.folders)
	for id, s := range d.shares {
		snap.Shares[id] = s
	}
	return snap
}
