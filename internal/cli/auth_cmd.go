package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/svillanueva/mochila/internal/remote"
)

func newLoginCmd(app *App) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the camp server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				form := huh.NewForm(
					huh.NewGroup(
						huh.NewInput().Title("Username").Value(&username),
						huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
					),
				)
				if err := form.Run(); err != nil {
					return err
				}
			}

			// Credentials must be in place before Login: the client attaches
			// them to the user lookup that follows the login post.
			app.Creds.Write(remote.Credentials{Username: username, Password: password})

			user, err := app.Auth.Login(cmd.Context(), username, password)
			if err != nil {
				app.Creds.Clear()
				return fmt.Errorf("login failed: %w", err)
			}

			app.User.Write(*user)
			fmt.Printf("Logged in as %s (%s)\n", user.Username, strings.Join(user.Roles, ", "))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted if omitted)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Auth.Logout(cmd.Context()); err != nil {
				// Clear local state regardless; the server session will expire.
				fmt.Printf("warning: server logout failed: %v\n", err)
			}
			app.Creds.Clear()
			app.User.Clear()
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			user := app.User.Read(remote.User{})
			if user.Username == "" {
				fmt.Println("Not logged in.")
				return nil
			}
			fmt.Printf("%s (%s)\n", user.Username, strings.Join(user.Roles, ", "))
			return nil
		},
	}
}
