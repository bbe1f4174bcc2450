package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pearcec/clubportal/internal/portal"
)

var (
	societyEmail string
	societyTitle string
	societyDate  string
	societyDesc  string
	societyJSON  bool
)

var societyCmd = &cobra.Command{
	Use:   "society",
	Short: "Society admin: manage events and announcements",
	Long: `Society admins create events (tags are predicted from the description),
edit or delete them, and post announcements.

Commands:
  shell     Interactive dashboard
  add       Create one event
  edit      Edit one event
  delete    Delete one event
  predict   Preview the tags a description would get`,
}

var societyShellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Open the interactive society dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		sh := stdinShell(cmd.OutOrStdout())
		sess := current.session(portal.RoleSociety)
		if err := loginWith(cmd.Context(), sh, sess, societyEmail); err != nil {
			return err
		}
		return runSocietyShell(cmd.Context(), current, sh, sess)
	},
}

var societyAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an event",
	Example: `  clubportal society add --email chess@college.edu \
    --title "Blitz night" --date 2025-03-01 --desc "Five-minute games, all levels"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loginOnce(cmd.Context(), portal.RoleSociety, societyEmail); err != nil {
			return err
		}
		ev, err := current.store.Create(cmd.Context(), societyTitle, societyDate, societyDesc)
		if err != nil {
			return userError(err)
		}
		if societyJSON {
			return writeJSON(cmd.OutOrStdout(), ev)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Event Added! Predicted Tags: %s\n", joinTags(ev.Tags, "None predicted."))
		printEvents(cmd.OutOrStdout(), []portal.Event{ev})
		return nil
	},
}

var societyEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := loginOnce(ctx, portal.RoleSociety, societyEmail); err != nil {
			return err
		}
		// One-shot runs start with an empty store; seed it so the event is known.
		if err := current.store.Load(ctx); err != nil {
			return userError(err)
		}
		id := portal.EventID(args[0])
		existing, ok := current.store.Get(id)
		if !ok {
			return userError(fmt.Errorf("%w: %s", portal.ErrNotFound, id))
		}
		ev, err := current.store.Edit(ctx, id,
			orDefault(societyTitle, existing.Title),
			orDefault(societyDate, existing.Date),
			orDefault(societyDesc, existing.Description),
		)
		if err != nil {
			return userError(err)
		}
		if societyJSON {
			return writeJSON(cmd.OutOrStdout(), ev)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Event updated!")
		printEvents(cmd.OutOrStdout(), []portal.Event{ev})
		return nil
	},
}

var societyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loginOnce(cmd.Context(), portal.RoleSociety, societyEmail); err != nil {
			return err
		}
		if err := current.store.Delete(cmd.Context(), portal.EventID(args[0])); err != nil {
			return userError(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Event deleted!")
		return nil
	},
}

var societyPredictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Preview predicted tags for a description",
	RunE: func(cmd *cobra.Command, args []string) error {
		draft := portal.Draft{Title: orDefault(societyTitle, "preview"), Date: orDefault(societyDate, "preview"), Description: societyDesc}
		if err := draft.Validate(); err != nil {
			return userError(err)
		}
		tags, err := current.client.PredictTags(cmd.Context(), draft)
		if err != nil {
			return userError(err)
		}
		if societyJSON {
			return writeJSON(cmd.OutOrStdout(), map[string][]string{"tags": tags})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Predicted Tags: %s\n", joinTags(tags, msgNoTags))
		return nil
	},
}

func init() {
	societyCmd.PersistentFlags().StringVar(&societyEmail, "email", "", "Society email")
	societyCmd.PersistentFlags().BoolVar(&societyJSON, "json", false, "Output as JSON")

	for _, c := range []*cobra.Command{societyAddCmd, societyEditCmd, societyPredictCmd} {
		c.Flags().StringVar(&societyTitle, "title", "", "Event title")
		c.Flags().StringVar(&societyDate, "date", "", "Event date (YYYY-MM-DD)")
		c.Flags().StringVar(&societyDesc, "desc", "", "Event description; tags are predicted from it")
	}

	societyCmd.AddCommand(societyShellCmd)
	societyCmd.AddCommand(societyAddCmd)
	societyCmd.AddCommand(societyEditCmd)
	societyCmd.AddCommand(societyDeleteCmd)
	societyCmd.AddCommand(societyPredictCmd)

	rootCmd.AddCommand(societyCmd)
}

const societyHelp = `Commands:
  add              Create an event
  edit <id>        Edit an event (blank answers keep the current value)
  delete <id>      Delete an event
  events           Show your posted events
  refresh          Load all events from the event service
  predict          Preview tags for a description
  announce         Post an announcement
  announcements    Show announcements
  help             Show this help
  quit             Leave the dashboard`

// runSocietyShell drives the society dashboard until quit or EOF. sess must
// be logged in.
func runSocietyShell(ctx context.Context, a *app, sh *shell, sess *portal.Session) error {
	if err := sess.Require(); err != nil {
		return userError(err)
	}
	out := sh.out
	fmt.Fprintln(out, "Society Admin Dashboard. Type 'help' for commands.")

	sh.loop("society>", func(cmd, rest string) bool {
		switch cmd {
		case "help", "?":
			fmt.Fprintln(out, societyHelp)

		case "add":
			title, ok1 := sh.ask("Event Title")
			date, ok2 := sh.ask("Event Date (YYYY-MM-DD)")
			desc, ok3 := sh.ask("Event Description (Tags will be predicted from this)")
			if !ok1 || !ok2 || !ok3 {
				return true
			}
			ev, err := a.store.Create(ctx, title, date, desc)
			if err != nil {
				fmt.Fprintln(out, portal.UserMessage(err))
				return false
			}
			fmt.Fprintf(out, "Event Added! Predicted Tags: %s\n", joinTags(ev.Tags, "None predicted."))

		case "edit":
			existing, ok := a.store.Get(portal.EventID(rest))
			if !ok {
				fmt.Fprintln(out, portal.UserMessage(portal.ErrNotFound))
				return false
			}
			title, ok1 := sh.askDefault("Event Title", existing.Title)
			date, ok2 := sh.askDefault("Event Date", existing.Date)
			desc, ok3 := sh.askDefault("Event Description", existing.Description)
			if !ok1 || !ok2 || !ok3 {
				return true
			}
			ev, err := a.store.Edit(ctx, existing.ID, title, date, desc)
			if err != nil {
				fmt.Fprintln(out, portal.UserMessage(err))
				return false
			}
			fmt.Fprintf(out, "Event updated! Predicted Tags: %s\n", joinTags(ev.Tags, "None predicted."))

		case "delete":
			if rest == "" {
				fmt.Fprintln(out, "Usage: delete <id>")
				return false
			}
			if err := a.store.Delete(ctx, portal.EventID(rest)); err != nil {
				fmt.Fprintln(out, portal.UserMessage(err))
				return false
			}
			fmt.Fprintln(out, "Event deleted!")

		case "events":
			printEvents(out, a.store.Snapshot())

		case "refresh":
			if err := a.store.Load(ctx); err != nil {
				fmt.Fprintln(out, "Could not load events; showing none.")
			}
			fmt.Fprintf(out, "%d events loaded.\n", a.store.Len())

		case "predict":
			desc, ok := sh.ask("Event Description")
			if !ok {
				return true
			}
			tags, err := a.client.PredictTags(ctx, portal.Draft{Title: "preview", Date: "preview", Description: desc})
			if err != nil {
				fmt.Fprintln(out, portal.UserMessage(err))
				return false
			}
			fmt.Fprintf(out, "Predicted Tags: %s\n", joinTags(tags, msgNoTags))

		case "announce":
			text, ok := sh.ask("Type announcement")
			if !ok {
				return true
			}
			if _, err := a.board.Post(text); err != nil {
				fmt.Fprintln(out, portal.UserMessage(err))
				return false
			}
			fmt.Fprintln(out, "Announcement posted.")

		case "announcements":
			printAnnouncements(out, a.board.List())

		default:
			fmt.Fprintf(out, "Unknown command %q. Type 'help' for commands.\n", cmd)
		}
		return false
	})
	return nil
}
