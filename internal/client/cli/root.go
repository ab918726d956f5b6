package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/docudefense/internal/common"
)

func (a *App) getStatus() string {
	s := ""
	if email := a.session.Email(); email != "" {
		s = email + " "
	}
	if m := a.mode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root restores the session, starts the connectivity watcher and runs the
// REPL until the user exits.
func (a *App) Root(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to DocuDefense CLI (type 'help' for commands)")

	if err := a.session.Init(ctx); err != nil {
		if errors.Is(err, common.ErrInvalidToken) {
			fmt.Fprintln(a.out, "Your session is no longer valid, please log in again")
		} else {
			a.logger.Error(ctx, "failed to restore session", "error", err)
		}
	}

	a.checkOnline(ctx)
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}
