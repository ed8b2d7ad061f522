package cli

import (
	"context"
	"fmt"
	"strconv"
)

func (a *App) listFolders() {
	snap := a.data.Snapshot()
	if len(snap.Folders) == 0 {
		fmt.Fprintln(a.out, "No folders")
		return
	}
	for _, f := range snap.Folders {
		if f.ParentID != nil {
			fmt.Fprintf(a.out, "%6d %s (in %d)\n", f.ID, f.Name, *f.ParentID)
		} else {
			fmt.Fprintf(a.out, "%6d %s\n", f.ID, f.Name)
		}
	}
}

func (a *App) makeFolder(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: mkdir <name> [parentId]")
		return
	}
	var parentID int64
	if len(args) > 1 {
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			fmt.Fprintln(a.out, "parentId must be a number")
			return
		}
		parentID = id
	}

	created, err := a.data.CreateFolder(ctx, args[0], parentID)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	a.analytics.TrackFolderCreated(ctx, created.Name, a.userName())
	fmt.Fprintf(a.out, "Created folder %s (id %d)\n", created.Name, created.ID)
}

func (a *App) renameFolder(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(a.out, "Usage: mvdir <folderId> <name>")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintln(a.out, "folderId must be a number")
		return
	}

	updated, err := a.data.RenameFolder(ctx, id, args[1])
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "Renamed to %s\n", updated.Name)
}

func (a *App) removeFolder(ctx context.Context, args []string) {
	id, ok := a.parseID(args, "Usage: rmdir <folderId>")
	if !ok {
		return
	}

	var name string
	for _, f := range a.data.Snapshot().Folders {
		if f.ID == id {
			name = f.Name
			break
		}
	}

	if err := a.data.DeleteFolder(ctx, id); err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	a.analytics.TrackFolderDeleted(ctx, name, a.userName())
	fmt.Fprintln(a.out, "Deleted")
}
