package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/docudefense/internal/client/models"
	"github.com/dmitrijs2005/docudefense/internal/client/services"
	"github.com/dmitrijs2005/docudefense/internal/common"
)

const uploadDateLayout = "2006-01-02 15:04"

func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		return common.ErrNotLoggedIn
	}
	return nil
}

func (a *App) Files(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	l, err := a.dashboard.Refresh(ctx)
	if err != nil {
		return err
	}
	a.printListing(l)
	return nil
}

func (a *App) Upload(ctx context.Context, path string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	res, err := a.dashboard.Upload(ctx, path)
	if res != nil {
		fmt.Fprintf(a.out, "Uploaded %s (version %d)\n", models.DisplayName(res.Filename), int(res.Version))
	}
	if err != nil {
		return err
	}
	a.printListing(a.dashboard.Listing())
	return nil
}

// Download saves version of filename; 0 selects the current version.
func (a *App) Download(ctx context.Context, filename string, version int) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	path, err := a.dashboard.Download(ctx, filename, version)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved to %s\n", path)
	return nil
}

// Versions toggles the version history of filename.
func (a *App) Versions(ctx context.Context, filename string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	l := a.dashboard.Listing()
	if l == nil {
		var err error
		if l, err = a.dashboard.Refresh(ctx); err != nil {
			return err
		}
	}
	if _, ok := l.Registry.Current(filename); !ok {
		return fmt.Errorf("%w: %s", common.ErrorNotFound, filename)
	}

	a.dashboard.Toggle(filename)
	a.printListing(l)
	return nil
}

func (a *App) DeleteFile(ctx context.Context, filename string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if err := a.dashboard.Delete(ctx, filename); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s\n", models.DisplayName(filename))
	return nil
}

func (a *App) printListing(l *services.Listing) {
	if l == nil {
		return
	}
	if l.Stale {
		fmt.Fprintf(a.out, "(offline: cached listing from %s)\n", l.CachedAt.Local().Format(uploadDateLayout))
	}

	if l.Registry.Len() == 0 {
		fmt.Fprintln(a.out, "  (no documents)")
		return
	}

	for _, name := range l.Registry.Filenames() {
		cur, _ := l.Registry.Current(name)
		history := l.Registry.History(name)

		marker := " "
		if len(history) > 0 {
			marker = "+"
			if a.dashboard.Expanded(name) {
				marker = "-"
			}
		}
		fmt.Fprintf(a.out, "%s %-40s v%-4d %s\n", marker, models.DisplayName(name), cur.Version, formatDate(cur.UploadDate))

		if !a.dashboard.Expanded(name) {
			continue
		}
		for _, h := range history {
			fmt.Fprintf(a.out, "    %-38s v%-4d %s\n", "", h.Version, formatDate(h.UploadDate))
		}
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(uploadDateLayout)
}
