package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) status() string {
	parts := make([]string, 0, 2)
	if name := a.userName(); name != "" {
		parts = append(parts, name)
	}
	if a.sessionID != 0 {
		parts = append(parts, fmt.Sprintf("session %d", a.sessionID))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}

// Root runs the REPL until the user exits or stdin closes.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to fileshare CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Fprintf(a.out, "fileshare %s> ", a.status())
		if !scanner.Scan() {
			break
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			a.help()
		case "register":
			a.register(ctx)
		case "login":
			a.login(ctx)
		case "logout":
			a.logout(ctx)
		case "whoami":
			a.whoami()
		case "files":
			a.listFiles(ctx)
		case "upload":
			a.upload(ctx, args)
		case "download":
			a.download(ctx, args)
		case "rename":
			a.renameFile(ctx, args)
		case "star":
			a.starFile(ctx, args)
		case "rm":
			a.removeFile(ctx, args)
		case "folders":
			a.listFolders()
		case "mkdir":
			a.makeFolder(ctx, args)
		case "mvdir":
			a.renameFolder(ctx, args)
		case "rmdir":
			a.removeFolder(ctx, args)
		case "shares":
			a.listShares()
		case "share":
			a.createShare(ctx, args)
		case "unshare":
			a.deleteShare(ctx, args)
		case "stats":
			a.stats()
		case "session":
			a.sessionCommand(ctx, args)
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}

func (a *App) help() {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Available commands: register, login, exit")
		return
	}
	fmt.Fprintln(a.out, "Files:    files, upload <path> [folderId], download <fileId>, rename <fileId> <name>, star <fileId>, rm <fileId>")
	fmt.Fprintln(a.out, "Folders:  folders, mkdir <name> [parentId], mvdir <folderId> <name>, rmdir <folderId>")
	fmt.Fprintln(a.out, "Shares:   shares, share <fileId> <type>, unshare <shareId>")
	fmt.Fprintln(a.out, "Session:  session create|join <code>|status|share <fileId>|remove <sfId>|download <sfId>|participants|leave|end")
	fmt.Fprintln(a.out, "Other:    whoami, stats, logout, exit")
}
