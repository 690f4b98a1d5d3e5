package commands

import (
	"errors"
	"fmt"
	"imovelhub/pkg/client"
	"imovelhub/pkg/session"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func sessionManager() (*session.Manager, error) {
	dir := home
	if dir == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(userHome, ".imovelhub")
	}
	storage, err := session.NewFileStorage(dir)
	if err != nil {
		return nil, err
	}
	return session.NewManager(storage), nil
}

func loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := sessionManager()
			if err != nil {
				return err
			}
			signed, err := client.NewHTTP(apiURL).SignIn(email, password)
			if err != nil {
				return err
			}
			if err := manager.Save(*signed); err != nil {
				return err
			}
			fmt.Printf("Signed in as %s (%s)\n", signed.User.Name, signed.User.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account as the server sees it now",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := sessionManager()
			if err != nil {
				return err
			}
			current, err := manager.Restore()
			if errors.Is(err, session.ErrNoSession) {
				fmt.Println("Not signed in")
				return nil
			}
			if err != nil {
				return err
			}
			fresh, err := client.NewHTTP(apiURL).Me(current.Token)
			var apiErr *client.APIError
			if errors.As(err, &apiErr) {
				manager.Clear()
				fmt.Printf("Session ended: %s\n", apiErr.Message)
				return nil
			}
			if err != nil {
				return err
			}
			refreshed, err := manager.Refresh(*fresh)
			if err != nil {
				return err
			}
			fmt.Printf("%s <%s> role=%s account=%s validation=%s\n",
				refreshed.User.Name, refreshed.User.Email, refreshed.User.Role, refreshed.User.AccountType, refreshed.User.ValidationStatus)
			return nil
		},
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := sessionManager()
			if err != nil {
				return err
			}
			return manager.Clear()
		},
	}
}
