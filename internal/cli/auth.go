package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// AuthOptions holds flags shared by register and login.
type AuthOptions struct {
	*RootOptions
	Email    string
	Password string
	Name     string
}

// NewRegisterCommand creates the register command.
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AuthOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account on the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(opts.RootOptions)
			if err != nil {
				return err
			}

			resp, err := e.client.Register(cmd.Context(), opts.Email, opts.Password, opts.Name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered and logged in as %s\n", resp.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "account email (required)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "account password (required)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "display name (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AuthOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and cache the session locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(opts.RootOptions)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			resp, err := e.client.Login(ctx, opts.Email, opts.Password)
			if err != nil {
				return err
			}

			// Warm the recipe cache so list/show work offline.
			if _, err := e.client.ListRecipes(ctx, resp.AccessToken); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not warm recipe cache: %v\n", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", resp.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "account email (required)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "account password (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the cached session",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(rootOpts)
			if err != nil {
				return err
			}

			if err := e.store.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

// requireToken loads the cached bearer token or explains how to get one.
func (e *env) requireToken(cmd *cobra.Command) (string, error) {
	token, err := e.store.LoadToken(cmd.Context())
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", errors.New("not logged in (run 'bakebook login')")
	}
	return token, nil
}
