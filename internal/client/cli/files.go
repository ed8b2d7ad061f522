package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dvolkovs/fileshare/internal/client/models"
	"github.com/dvolkovs/fileshare/internal/client/store"
)

func (a *App) listFiles(ctx context.Context) {
	if err := a.data.Load(ctx); err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	snap := a.data.Snapshot()
	if len(snap.Files) == 0 {
		fmt.Fprintln(a.out, "No files")
		return
	}
	for _, f := range snap.Files {
		star := " "
		if f.Starred {
			star = "*"
		}
		fmt.Fprintf(a.out, "%6d %s %-40s %10d bytes  %d downloads\n", f.ID, star, f.Name, f.Size, f.DownloadCount)
	}
}

func (a *App) upload(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: upload <path> [folderId]")
		return
	}
	var folderID int64
	if len(args) > 1 {
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			fmt.Fprintln(a.out, "folderId must be a number")
			return
		}
		folderID = id
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	uploaded, err := a.data.UploadFiles(ctx, []store.Upload{{
		Name:     filepath.Base(args[0]),
		Content:  content,
		FolderID: folderID,
	}})
	if err != nil {
		fmt.Fprintf(a.out, "Upload failed: %v\n", err)
		return
	}

	for _, f := range uploaded {
		a.analytics.TrackUpload(ctx, f, a.userName())
		fmt.Fprintf(a.out, "Uploaded %s (id %d, %d bytes)\n", f.Name, f.ID, f.Size)
	}
}

func (a *App) download(ctx context.Context, args []string) {
	id, ok := a.parseID(args, "Usage: download <fileId>")
	if !ok {
		return
	}

	handle, err := a.transfer.FetchFile(ctx, id)
	if err != nil {
		fmt.Fprintf(a.out, "Download failed: %v\n", err)
		return
	}

	path, err := a.transfer.Save(handle, a.config.DownloadDir, "")
	if err != nil {
		fmt.Fprintf(a.out, "Save failed: %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "Saved to %s\n", path)

	if f, ok := a.data.File(id); ok {
		a.analytics.TrackDownload(ctx, f, a.userName())
	}
}

func (a *App) renameFile(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(a.out, "Usage: rename <fileId> <name>")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintln(a.out, "fileId must be a number")
		return
	}

	name := args[1]
	updated, err := a.data.UpdateFile(ctx, id, models.FileUpdate{Name: &name})
	if err != nil {
		fmt.Fprintf(a.out, "Rename failed: %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "Renamed to %s\n", updated.Name)
}

func (a *App) starFile(ctx context.Context, args []string) {
	id, ok := a.parseID(args, "Usage: star <fileId>")
	if !ok {
		return
	}

	starred := true
	if f, found := a.data.File(id); found {
		starred = !f.Starred
	}
	updated, err := a.data.UpdateFile(ctx, id, models.FileUpdate{Starred: &starred})
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	if updated.Starred {
		fmt.Fprintf(a.out, "Starred %s\n", updated.Name)
	} else {
		fmt.Fprintf(a.out, "Unstarred %s\n", updated.Name)
	}
}

func (a *App) removeFile(ctx context.Context, args []string) {
	id, ok := a.parseID(args, "Usage: rm <fileId>")
	if !ok {
		return
	}

	target, found := a.data.File(id)
	if err := a.data.DeleteFile(ctx, id); err != nil {
		fmt.Fprintf(a.out, "Delete failed: %v\n", err)
		return
	}
	if found {
		a.analytics.TrackDelete(ctx, target, a.userName())
	}
	fmt.Fprintln(a.out, "Deleted")
}

// parseID extracts a single numeric id argument, printing usage on failure.
func (a *App) parseID(args []string, usage string) (int64, bool) {
	if len(args) == 0 {
		fmt.Fprintln(a.out, usage)
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintln(a.out, "id must be a number")
		return 0, false
	}
	return id, true
}
