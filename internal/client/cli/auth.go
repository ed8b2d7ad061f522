package cli

import (
	"context"
	"fmt"
)

func (a *App) login(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	password, err := GetPassword(a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	user, err := a.auth.Login(ctx, email, password)
	if err != nil {
		fmt.Fprintf(a.out, "Login failed: %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", user.Email)

	a.afterLogin(ctx)
}

func (a *App) register(ctx context.Context) {
	name, err := GetSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	password, err := GetPassword(a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	user, err := a.auth.Register(ctx, name, email, password)
	if err != nil {
		fmt.Fprintf(a.out, "Registration failed: %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "Registered and logged in as %s\n", user.Email)

	a.afterLogin(ctx)
}

// afterLogin pulls the account's collections and seeds the analytics
// aggregate. Failures here degrade the views, not the session.
func (a *App) afterLogin(ctx context.Context) {
	if err := a.data.Load(ctx); err != nil {
		a.log.Warn(ctx, "failed to load account data", "error", err)
	}
	if err := a.analytics.InitializeFromBackend(ctx); err != nil {
		a.log.Warn(ctx, "failed to seed analytics", "error", err)
	}
}

func (a *App) logout(ctx context.Context) {
	a.stopPolling()
	if err := a.auth.Logout(ctx); err != nil {
		fmt.Fprintf(a.out, "Logout failed: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "Logged out")
}

func (a *App) whoami() {
	user, ok := a.auth.CurrentUser()
	if !ok {
		fmt.Fprintln(a.out, "Not logged in")
		return
	}
	fmt.Fprintf(a.out, "%s <%s>, %d bytes used\n", user.Name, user.Email, user.StorageUsed)
}
