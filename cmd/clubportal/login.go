package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pearcec/clubportal/internal/portal"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Choose a role and start an interactive session",
	Long: `Asks whether you are a society or a student, then the matching email,
and opens the society dashboard or the student shell.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sh := stdinShell(cmd.OutOrStdout())
		return runLogin(cmd.Context(), current, sh)
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

// runLogin asks for a role until one parses, then hands over to its shell.
func runLogin(ctx context.Context, a *app, sh *shell) error {
	fmt.Fprintln(sh.out, "Welcome to the Club Portal")
	for {
		answer, ok := sh.ask("Login as (society/student)")
		if !ok {
			return nil
		}
		role, err := portal.ParseRole(answer)
		if err != nil {
			fmt.Fprintln(sh.out, "Choose society or student.")
			continue
		}
		sess := a.session(role)
		if err := sh.login(ctx, sess); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if role == portal.RoleSociety {
			return runSocietyShell(ctx, a, sh, sess)
		}
		return runStudentShell(ctx, a, sh, sess, portal.InterestSet{})
	}
}

// loginWith logs in with email when given, otherwise asks for it.
func loginWith(ctx context.Context, sh *shell, sess *portal.Session, email string) error {
	if strings.TrimSpace(email) == "" {
		err := sh.login(ctx, sess)
		if errors.Is(err, io.EOF) {
			return errors.New(portal.UserMessage(sess.Login(ctx, "")))
		}
		return err
	}
	if err := sess.Login(ctx, email); err != nil {
		return userError(err)
	}
	return nil
}

// loginOnce opens a non-interactive session for one-shot commands.
func loginOnce(ctx context.Context, role portal.Role, email string) error {
	sess := current.session(role)
	if err := sess.Login(ctx, email); err != nil {
		return userError(err)
	}
	return nil
}

// userError turns err into the message a person at the terminal should see.
func userError(err error) error {
	return errors.New(portal.UserMessage(err))
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
