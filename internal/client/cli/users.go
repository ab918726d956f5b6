package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/docudefense/internal/client/models"
	"github.com/dmitrijs2005/docudefense/internal/client/services"
	"github.com/dmitrijs2005/docudefense/internal/common"
)

func (a *App) Users(ctx context.Context) error {
	users, err := a.directory.Load(ctx)
	if err != nil {
		return err
	}
	a.printUsers(users)
	return nil
}

func (a *App) Search(ctx context.Context, term string) error {
	users, err := a.directory.SetTerm(ctx, term)
	if err != nil {
		return err
	}
	a.printUsers(users)
	return nil
}

// ClearSearch drops the search term and shows the first unfiltered page.
func (a *App) ClearSearch(ctx context.Context) error {
	users, err := a.directory.SetTerm(ctx, "")
	if err != nil {
		return err
	}
	a.printUsers(users)
	return nil
}

func (a *App) NextPage(ctx context.Context) error {
	users, err := a.directory.Next(ctx)
	if err != nil {
		return err
	}
	a.printUsers(users)
	return nil
}

func (a *App) PrevPage(ctx context.Context) error {
	users, err := a.directory.Prev(ctx)
	if err != nil {
		return err
	}
	a.printUsers(users)
	return nil
}

// AddUser creates a user from prompted fields; the directory reloads after.
func (a *App) AddUser(ctx context.Context) error {
	in, err := a.readUserInput(false)
	if err != nil {
		return err
	}

	created, err := a.directory.Create(ctx, in)
	if created != nil {
		fmt.Fprintf(a.out, "Created user %s (%s)\n", created.FullName(), created.ID)
	}
	if err != nil {
		return err
	}
	a.printUsers(a.directory.Users())
	return nil
}

// Profile edits the logged-in user's own directory entry.
func (a *App) Profile(ctx context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrNotLoggedIn
	}
	id, err := a.session.UserID(ctx)
	if err != nil {
		return err
	}

	in, err := a.readUserInput(true)
	if err != nil {
		return err
	}
	if in.IsEmpty() {
		fmt.Fprintln(a.out, "Nothing to update")
		return nil
	}

	updated, err := a.directory.Update(ctx, id, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated %s\n", updated.FullName())

	if in.Email != "" && !strings.EqualFold(in.Email, a.session.Email()) {
		fmt.Fprintln(a.out, "Email changed, please log in again")
		return a.session.Logout(ctx)
	}
	return nil
}

// DeleteAccount removes the logged-in user after confirmation, then logs out.
func (a *App) DeleteAccount(ctx context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrNotLoggedIn
	}
	id, err := a.session.UserID(ctx)
	if err != nil {
		return err
	}

	confirm, err := getSimpleText(a.reader, "This cannot be undone. Type 'yes' to delete your account", a.out)
	if err != nil {
		return err
	}
	if confirm != "yes" {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	if err := a.directory.Delete(ctx, id); err != nil {
		return err
	}
	if err := a.dashboard.Forget(ctx); err != nil {
		a.logger.Warn(ctx, "failed to clear cached documents", "error", err)
	}
	if err := a.session.Logout(ctx); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Account deleted")
	return nil
}

func (a *App) printUsers(users []models.User) {
	q := a.directory.Query()

	header := fmt.Sprintf("Page %d", q.Page)
	if q.Term != "" {
		header += fmt.Sprintf(", search %q", q.Term)
	}
	fmt.Fprintln(a.out, header)

	if len(users) == 0 {
		fmt.Fprintln(a.out, "  (no users)")
	}
	email := a.session.Email()
	for _, u := range users {
		mark := " "
		if services.CanEdit(u, email) {
			mark = "*"
		}
		fmt.Fprintf(a.out, "%s %-24s %-28s %-30s %s\n", mark, u.ID, u.FullName(), u.Email, u.Birthdate)
	}

	var nav []string
	if a.directory.CanPrev() {
		nav = append(nav, "prev")
	}
	if a.directory.CanNext() {
		nav = append(nav, "next")
	}
	if len(nav) > 0 {
		fmt.Fprintf(a.out, "(%s)\n", strings.Join(nav, ", "))
	}
}
