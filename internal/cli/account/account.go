// Package account holds the sign-in commands.
package account

import (
	"fmt"

	"github.com/julianstephens/habitgarden/internal/auth"
	"github.com/julianstephens/habitgarden/internal/cli"
	"github.com/julianstephens/habitgarden/internal/errors"
)

type AuthCmd struct {
	Register RegisterCmd `cmd:"" help:"Create an account and sign in."`
	Login    LoginCmd    `cmd:"" help:"Sign in to sync your garden."`
	Logout   LogoutCmd   `cmd:"" help:"Sign out and return to guest mode."`
	Whoami   WhoamiCmd   `cmd:"" help:"Show the signed-in account." default:"1"`
}

// credentials fills in whatever was not given on the command line.
func credentials(ctx *cli.Context, email, password *string) error {
	if *email == "" {
		v, err := ctx.Prompt.Input("Email")
		if err != nil {
			return err
		}
		*email = v
	}
	if *password == "" {
		v, err := ctx.Prompt.Password("Password")
		if err != nil {
			return err
		}
		*password = v
	}
	return nil
}

type RegisterCmd struct {
	Email    string `help:"Account email."`
	Name     string `help:"Display name."`
	Password string `help:"Account password (prompted when omitted)." env:"GARDEN_PASSWORD" hidden:""`
}

func (c *RegisterCmd) Run(ctx *cli.Context) error {
	if err := ctx.RequireRemote(); err != nil {
		return err
	}
	if err := credentials(ctx, &c.Email, &c.Password); err != nil {
		return err
	}
	user, err := ctx.Auth.Register(ctx.Ctx(), c.Email, c.Password, c.Name)
	if err != nil {
		return err
	}
	ctx.Printf("%s Account created for %s\n", cli.SuccessStyle.Render("✓"), user.Email)
	ctx.Println("  Your habits now sync with the server.")
	return nil
}

type LoginCmd struct {
	Email    string `help:"Account email."`
	Password string `help:"Account password (prompted when omitted)." env:"GARDEN_PASSWORD" hidden:""`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	if err := ctx.RequireRemote(); err != nil {
		return err
	}
	if err := credentials(ctx, &c.Email, &c.Password); err != nil {
		return err
	}
	user, err := ctx.Auth.Login(ctx.Ctx(), c.Email, c.Password)
	if err != nil {
		return err
	}
	greeting := user.Email
	if user.Name != "" {
		greeting = fmt.Sprintf("%s (%s)", user.Name, user.Email)
	}
	ctx.Printf("%s Signed in as %s\n", cli.SuccessStyle.Render("✓"), greeting)
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if err := ctx.Auth.Logout(); err != nil {
		if errors.Is(err, auth.ErrNotLoggedIn) {
			ctx.Println("Not signed in.")
			return nil
		}
		return err
	}
	ctx.Printf("%s Signed out. Your guest garden is active again.\n", cli.SuccessStyle.Render("✓"))
	return nil
}

type WhoamiCmd struct {
	Remote bool `help:"Ask the server to confirm the session."`
}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	id, err := ctx.Auth.Current()
	if err != nil {
		return err
	}
	if !id.Authenticated {
		ctx.Println("Guest (not signed in)")
		return nil
	}
	ctx.Printf("Signed in as %s\n", id.Email)
	if !c.Remote {
		return nil
	}
	if err := ctx.RequireRemote(); err != nil {
		return err
	}
	user, err := ctx.Auth.Me(ctx.Ctx())
	if err != nil {
		return fmt.Errorf("server did not confirm the session: %w", err)
	}
	ctx.Printf("  Server account: %s (premium: %t, since %s)\n", user.Email, user.IsPremium, user.CreatedAt.Format("2006-01-02"))
	return nil
}
