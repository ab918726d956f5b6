package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/docudefense/internal/client/models"
	"github.com/dmitrijs2005/docudefense/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// readUserInput prompts for the user fields. With partial set, every field
// may be left empty and the password is only asked for on request.
func (a *App) readUserInput(partial bool) (models.UserInput, error) {
	var in models.UserInput
	hint := ""
	if partial {
		hint = " (leave empty to keep)"
	}

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Enter first name" + hint, &in.FirstName},
		{"Enter surname" + hint, &in.Surname},
		{"Enter email" + hint, &in.Email},
		{"Enter birthdate (YYYY-MM-DD)" + hint, &in.Birthdate},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return in, err
		}
		*f.dst = v
	}
	if err := ValidateBirthdate(in.Birthdate); err != nil {
		return in, fmt.Errorf("%w: %w", common.ErrorValidation, err)
	}

	if partial {
		change, err := getSimpleText(a.reader, "Change password? (y/N)", a.out)
		if err != nil {
			return in, err
		}
		if change != "y" && change != "yes" {
			return in, nil
		}
	}

	password, err := getPassword(a.out)
	if err != nil {
		return in, err
	}
	defer common.WipeByteArray(password)
	in.Password = string(password)

	return in, nil
}

// Register prompts for the new account's fields, creates it and logs in
// with the same credentials.
//
// The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	a.session.OpenAuthModal()
	defer a.session.CloseAuthModal()

	in, err := a.readUserInput(false)
	if err != nil {
		return err
	}

	user, err := a.session.Register(ctx, in)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s, logged in as %s\n", user.FullName(), a.session.Email())
	return nil
}

// Login prompts the user for credentials and authenticates against the
// backend. The token is persisted, so the session survives a restart.
//
// The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	a.session.OpenAuthModal()
	defer a.session.CloseAuthModal()

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, email, string(password)); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", a.session.Email())
	return nil
}

// Logout removes the stored token.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// WhoAmI prints the identity carried by the stored token.
func (a *App) WhoAmI(ctx context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrNotLoggedIn
	}

	claims, err := a.tokens.Claims(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Email:   %s\n", claims.Email)
	if claims.ExpiresAt != nil {
		fmt.Fprintf(a.out, "Expires: %s\n", claims.ExpiresAt.Local().Format(time.DateTime))
	}

	id, err := a.session.UserID(ctx)
	if err != nil {
		a.logger.Warn(ctx, "cannot resolve user id", "error", err)
		id = "unknown"
	}
	fmt.Fprintf(a.out, "User ID: %s\n", id)
	return nil
}
