package cli

import (
	"fmt"

	"github.com/dvolkovs/fileshare/internal/client/store"
)

func (a *App) stats() {
	snap := a.analytics.Snapshot()

	fmt.Fprintf(a.out, "Files: %d  Folders: %d  Storage: %d bytes\n",
		snap.TotalFiles, snap.TotalFolders, snap.TotalStorage)
	fmt.Fprintf(a.out, "Uploads: %d  Downloads: %d  Shares: %d\n",
		snap.TotalUploads, snap.TotalDownloads, snap.TotalShares)

	fmt.Fprintln(a.out, "Storage breakdown:")
	for _, bucket := range []string{
		store.BucketImages, store.BucketDocuments, store.BucketVideos, store.BucketAudio, store.BucketOther,
	} {
		b := snap.StorageBreakdown[bucket]
		fmt.Fprintf(a.out, "  %-10s %4d files  %12d bytes\n", bucket, b.Count, b.Size)
	}

	if len(snap.RecentActivity) > 0 {
		fmt.Fprintln(a.out, "Recent activity:")
		for _, entry := range snap.RecentActivity {
			fmt.Fprintf(a.out, "  %s  %-14s %s\n", entry.Time.Format("2006-01-02 15:04"), entry.Type, entry.File)
		}
	}
}
