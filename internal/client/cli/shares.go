package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dvolkovs/fileshare/internal/client/models"
)

func (a *App) listShares() {
	snap := a.data.Snapshot()
	if len(snap.Shares) == 0 {
		fmt.Fprintln(a.out, "No share links")
		return
	}
	for _, s := range snap.Shares {
		fmt.Fprintf(a.out, "%6d file %d  %-10s %s\n", s.ID, s.FileID, s.ShareType, s.URL)
	}
}

func (a *App) createShare(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(a.out, "Usage: share <fileId> <type>")
		return
	}
	fileID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintln(a.out, "fileId must be a number")
		return
	}

	created, err := a.data.CreateShare(ctx, models.ShareRequest{
		FileID:    fileID,
		ShareType: args[1],
		CreatedBy: a.userName(),
	})
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	if f, ok := a.data.File(fileID); ok {
		a.analytics.TrackShare(ctx, f, a.userName())
	}
	fmt.Fprintf(a.out, "Created share %d", created.ID)
	if created.URL != "" {
		fmt.Fprintf(a.out, ": %s", created.URL)
	}
	fmt.Fprintln(a.out)
}

func (a *App) deleteShare(ctx context.Context, args []string) {
	id, ok := a.parseID(args, "Usage: unshare <shareId>")
	if !ok {
		return
	}
	if err := a.data.DeleteShare(ctx, id); err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "Share link removed")
}
