package cli

import (
	"context"
	"fmt"

	"github.com/dvolkovs/fileshare/internal/client/session"
)

func (a *App) sessionCommand(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: session create|join <code>|status|share <fileId>|remove <sfId>|download <sfId>|participants|leave|end")
		return
	}

	switch args[0] {
	case "create":
		a.sessionCreate(ctx)
	case "join":
		a.sessionJoin(ctx, args[1:])
	case "status":
		a.sessionStatus()
	case "share":
		a.sessionShare(ctx, args[1:])
	case "remove":
		a.sessionRemove(ctx, args[1:])
	case "download":
		a.sessionDownload(ctx, args[1:])
	case "participants":
		a.sessionParticipants(ctx)
	case "leave":
		a.sessionLeave(ctx)
	case "end":
		a.sessionEnd(ctx)
	default:
		fmt.Fprintln(a.out, "Unknown session command:", args[0])
	}
}

func (a *App) sessionCreate(ctx context.Context) {
	if a.sessionID != 0 {
		fmt.Fprintln(a.out, "Already in a session; leave or end it first")
		return
	}

	svc := a.newSession()
	sess, err := svc.Create(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	a.startPolling(ctx, svc, sess.ID)
	fmt.Fprintf(a.out, "Session %d created, join code %s\n", sess.ID, sess.Code)
}

func (a *App) sessionJoin(ctx context.Context, args []string) {
	if a.sessionID != 0 {
		fmt.Fprintln(a.out, "Already in a session; leave or end it first")
		return
	}
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: session join <code>")
		return
	}

	svc := a.newSession()
	sess, err := svc.Join(ctx, args[0])
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	a.startPolling(ctx, svc, sess.ID)
	fmt.Fprintf(a.out, "Joined session %d\n", sess.ID)
}

// startPolling installs svc as the active session and keeps its view fresh
// in the background until the session ends or the user leaves.
func (a *App) startPolling(ctx context.Context, svc *session.Service, sessionID int64) {
	a.session = svc
	a.sessionID = sessionID

	p := session.NewPoller(svc, a.config.PollInterval, a.log)
	p.OnEnded(func() {
		fmt.Fprintf(a.out, "\nSession %d has ended\n", sessionID)
	})
	a.poller = p
	p.Start(ctx, sessionID)
}

func (a *App) sessionStatus() {
	if a.session == nil {
		fmt.Fprintln(a.out, "Not in a session")
		return
	}

	snap := a.session.Snapshot()
	if snap.Session != nil {
		state := "active"
		if snap.Ended {
			state = "ended"
		}
		fmt.Fprintf(a.out, "Session %d (code %s): %s\n", snap.Session.ID, snap.Session.Code, state)
	}
	if len(snap.Files) == 0 {
		fmt.Fprintln(a.out, "No shared files")
		return
	}
	for _, f := range snap.Files {
		fmt.Fprintf(a.out, "%6d %-40s %10d bytes  by user %d  %d downloads\n",
			f.ID, f.FileName, f.FileSize, f.SharedByUserID, f.DownloadCount)
	}
}

func (a *App) sessionShare(ctx context.Context, args []string) {
	if a.session == nil {
		fmt.Fprintln(a.out, "Not in a session")
		return
	}
	fileID, ok := a.parseID(args, "Usage: session share <fileId>")
	if !ok {
		return
	}

	sf, err := a.session.ShareFile(ctx, a.sessionID, fileID)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "Shared %s into the session (entry %d)\n", sf.FileName, sf.ID)
}

func (a *App) sessionRemove(ctx context.Context, args []string) {
	if a.session == nil {
		fmt.Fprintln(a.out, "Not in a session")
		return
	}
	sfID, ok := a.parseID(args, "Usage: session remove <sessionFileId>")
	if !ok {
		return
	}

	if err := a.session.RemoveSharedFile(ctx, a.sessionID, sfID); err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "Removed from the session")
}

func (a *App) sessionDownload(ctx context.Context, args []string) {
	if a.session == nil {
		fmt.Fprintln(a.out, "Not in a session")
		return
	}
	sfID, ok := a.parseID(args, "Usage: session download <sessionFileId>")
	if !ok {
		return
	}

	handle, err := a.transfer.FetchSessionFile(ctx, a.sessionID, sfID)
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
}

func (a *App) sessionParticipants(ctx context.Context) {
	if a.session == nil {
		fmt.Fprintln(a.out, "Not in a session")
		return
	}

	participants, err := a.session.Participants(ctx, a.sessionID)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	for _, p := range participants {
		fmt.Fprintf(a.out, "user %d, joined %s\n", p.UserID, p.JoinedAt.Format("15:04:05"))
	}
}

func (a *App) sessionLeave(ctx context.Context) {
	if a.session == nil {
		fmt.Fprintln(a.out, "Not in a session")
		return
	}

	if err := a.session.Leave(ctx, a.sessionID); err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	a.stopPolling()
	fmt.Fprintln(a.out, "Left the session")
}

func (a *App) sessionEnd(ctx context.Context) {
	if a.session == nil {
		fmt.Fprintln(a.out, "Not in a session")
		return
	}

	if err := a.session.End(ctx, a.sessionID); err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	a.stopPolling()
	fmt.Fprintln(a.out, "Session ended")
}
