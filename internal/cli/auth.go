package cli

import (
	"os"

	"github.com/spf13/cobra"

	"marithon/internal/client"
)

const passwordEnv = "MARITHON_PASSWORD"

func (cli *CLI) newLoginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := cli.client()
			if err != nil {
				return err
			}
			sess, err := c.Login(cmd.Context(), email, passwordOrEnv(password))
			if err != nil {
				return err
			}
			if sess.User != nil {
				cli.reporter.linef("logged in as %s", sess.User.Email)
				return nil
			}
			cli.reporter.linef("logged in")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (default $"+passwordEnv+")")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (cli *CLI) newSignupCmd() *cobra.Command {
	var in client.SignupRequest
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := cli.client()
			if err != nil {
				return err
			}
			in.Password = passwordOrEnv(in.Password)
			user, err := c.Signup(cmd.Context(), in)
			if err != nil {
				return err
			}
			cli.reporter.linef("created account %s; run login to start a session", user.Email)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Email, "email", "", "Account email")
	f.StringVar(&in.Password, "password", "", "Account password (default $"+passwordEnv+")")
	f.StringVar(&in.Username, "username", "", "Username (default: email local part)")
	f.StringVar(&in.FirstName, "first-name", "", "First name")
	f.StringVar(&in.LastName, "last-name", "", "Last name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (cli *CLI) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session and clear it locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := cli.client()
			if err != nil {
				return err
			}
			if err := c.Logout(cmd.Context()); err != nil {
				cli.opts.Logger.Warn().Err(err).Msg("server logout failed; local session cleared")
			}
			cli.reporter.linef("logged out")
			return nil
		},
	}
}

func (cli *CLI) newWhoamiCmd() *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := cli.client()
			if err != nil {
				return err
			}
			get := c.Me
			if offline {
				get = c.CachedUser
			}
			user, err := get(cmd.Context())
			if err != nil {
				return err
			}
			return cli.reporter.table([][2]string{
				{"Email", user.Email},
				{"Username", user.Username},
				{"Name", joinName(user.FirstName, user.LastName)},
				{"Role", string(user.Role)},
			})
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "Show the cached user without contacting the server")
	return cmd
}

func passwordOrEnv(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv(passwordEnv)
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	}
	return first + " " + last
}
