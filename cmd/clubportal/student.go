package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pearcec/clubportal/internal/portal"
	"github.com/pearcec/clubportal/internal/reminder"
	"github.com/pearcec/clubportal/internal/watch"
)

// reminderFile is the export name inside the configured reminder directory.
const reminderFile = "clubportal-reminders.ics"

var (
	studentEmail     string
	studentInterests []string
	studentJSON      bool
	studentCron      string
	studentOut       string
)

var studentCmd = &cobra.Command{
	Use:   "student",
	Short: "Student: select interests and see recommended events",
	Long: `Students log in with their college email, select interests from the tag
vocabulary, and see every event whose tags overlap them.

Commands:
  recommend   Print recommended events once
  shell       Interactive interest picker
  watch       Refresh recommendations on a schedule
  remind      Export events as an iCalendar file with alarms`,
}

var studentRecommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Print events matching --interest",
	Example: `  clubportal student recommend --email me@college.edu --interest coding --interest music`,
	RunE: func(cmd *cobra.Command, args []string) error {
		interests, err := portal.NewInterestSet(studentInterests...)
		if err != nil {
			return err
		}
		if err := loginOnce(cmd.Context(), portal.RoleStudent, studentEmail); err != nil {
			return err
		}
		recs := portal.Recommend(current.store.Snapshot(), interests)
		if studentJSON {
			if recs == nil {
				recs = []portal.Recommendation{}
			}
			return writeJSON(cmd.OutOrStdout(), recs)
		}
		printRecommendations(cmd.OutOrStdout(), recs, interests)
		return nil
	},
}

var studentShellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Open the interactive student view",
	RunE: func(cmd *cobra.Command, args []string) error {
		interests, err := portal.NewInterestSet(studentInterests...)
		if err != nil {
			return err
		}
		sh := stdinShell(cmd.OutOrStdout())
		sess := current.session(portal.RoleStudent)
		if err := loginWith(cmd.Context(), sh, sess, studentEmail); err != nil {
			return err
		}
		return runStudentShell(cmd.Context(), current, sh, sess, interests)
	},
}

var studentWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reprint recommendations on a cron schedule until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		interests, err := portal.NewInterestSet(studentInterests...)
		if err != nil {
			return err
		}
		if err := loginOnce(cmd.Context(), portal.RoleStudent, studentEmail); err != nil {
			return err
		}

		spec := current.cfg.Watch.Cron
		if studentCron != "" {
			spec = studentCron
		}
		out := cmd.OutOrStdout()
		w, err := watch.New(spec, current.store, interests, func(recs []portal.Recommendation, total int) {
			fmt.Fprintf(out, "\n== %s (%d events) ==\n", time.Now().Format("2006-01-02 15:04:05"), total)
			printRecommendations(out, recs, interests)
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := w.Start(ctx); err != nil {
			return err
		}
		fmt.Fprintf(out, "Watching on %q; next: %s. Ctrl-C to stop.\n", spec, strings.Join(w.Next(3), ", "))
		<-ctx.Done()
		w.Stop()
		return nil
	},
}

var studentRemindCmd = &cobra.Command{
	Use:   "remind [id...]",
	Short: "Export events as reminders (recommended events when no id is given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		interests, err := portal.NewInterestSet(studentInterests...)
		if err != nil {
			return err
		}
		if err := loginOnce(cmd.Context(), portal.RoleStudent, studentEmail); err != nil {
			return err
		}
		events, err := reminderEvents(current.store, interests, args)
		if err != nil {
			return userError(err)
		}
		return exportReminders(cmd.OutOrStdout(), current, events, studentOut)
	},
}

func init() {
	studentCmd.PersistentFlags().StringVar(&studentEmail, "email", "", "College email")
	studentCmd.PersistentFlags().StringSliceVarP(&studentInterests, "interest", "i", nil, "Interest tag (repeatable)")

	studentRecommendCmd.Flags().BoolVar(&studentJSON, "json", false, "Output as JSON")
	studentWatchCmd.Flags().StringVar(&studentCron, "cron", "", "Refresh schedule (overrides config watch.cron)")
	studentRemindCmd.Flags().StringVarP(&studentOut, "out", "o", "", "Output .ics path (default: reminder dir)")

	studentCmd.AddCommand(studentRecommendCmd)
	studentCmd.AddCommand(studentShellCmd)
	studentCmd.AddCommand(studentWatchCmd)
	studentCmd.AddCommand(studentRemindCmd)

	rootCmd.AddCommand(studentCmd)
}

// reminderEvents picks events by id, or the recommended ones when ids is empty.
func reminderEvents(store *portal.Store, interests portal.InterestSet, ids []string) ([]portal.Event, error) {
	if len(ids) == 0 {
		var events []portal.Event
		for _, rec := range portal.Recommend(store.Snapshot(), interests) {
			events = append(events, rec.Event)
		}
		return events, nil
	}
	events := make([]portal.Event, 0, len(ids))
	for _, id := range ids {
		ev, ok := store.Get(portal.EventID(id))
		if !ok {
			return nil, fmt.Errorf("%w: %s", portal.ErrNotFound, id)
		}
		events = append(events, ev)
	}
	return events, nil
}

// exportReminders writes events as an .ics file and reports what was skipped.
func exportReminders(w io.Writer, a *app, events []portal.Event, path string) error {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events to remind you about.")
		return nil
	}
	if path == "" {
		path = filepath.Join(a.cfg.ReminderDir(), reminderFile)
	}
	content, skipped := reminder.Build(events, a.cfg.Reminders.Lead, time.Now())
	for _, s := range skipped {
		fmt.Fprintf(w, "Skipped %q: %s\n", s.Event.Title, s.Reason)
	}
	if len(skipped) == len(events) {
		return nil
	}
	if err := reminder.WriteFile(path, content); err != nil {
		return fmt.Errorf("write reminders: %w", err)
	}
	fmt.Fprintf(w, "Wrote %d reminder(s) to %s\n", len(events)-len(skipped), path)
	return nil
}

const studentHelp = `Commands:
  tags             Show the interest grid
  toggle <tag>     Select or clear an interest
  interests        Show selected interests
  recommend        Show recommended events
  events           Show how many events are loaded
  refresh          Reload events from the event service
  remind [id...]   Export reminders (recommended events when no id is given)
  help             Show this help
  quit             Leave`

// runStudentShell drives the student view until quit or EOF. sess must be
// logged in.
func runStudentShell(ctx context.Context, a *app, sh *shell, sess *portal.Session, interests portal.InterestSet) error {
	if err := sess.Require(); err != nil {
		return userError(err)
	}
	out := sh.out
	fmt.Fprintln(out, "Select Your Interests. Type 'help' for commands.")

	sh.loop("student>", func(cmd, rest string) bool {
		switch cmd {
		case "help", "?":
			fmt.Fprintln(out, studentHelp)

		case "tags":
			printTagGrid(out, interests)

		case "toggle":
			on, err := interests.Toggle(rest)
			if err != nil {
				fmt.Fprintf(out, "Unknown tag %q. Type 'tags' to see them.\n", rest)
				return false
			}
			if on {
				fmt.Fprintf(out, "Selected %s\n", rest)
			} else {
				fmt.Fprintf(out, "Cleared %s\n", rest)
			}

		case "interests":
			fmt.Fprintf(out, "Interests: %s\n", joinTags(interests.Tags(), "none"))

		case "recommend":
			printRecommendations(out, portal.Recommend(a.store.Snapshot(), interests), interests)

		case "events":
			fmt.Fprintf(out, "%d events loaded.\n", a.store.Len())

		case "refresh":
			if err := a.store.Load(ctx); err != nil {
				fmt.Fprintln(out, "Could not load events; showing none.")
			}
			fmt.Fprintf(out, "%d events loaded.\n", a.store.Len())

		case "remind":
			events, err := reminderEvents(a.store, interests, strings.Fields(rest))
			if err != nil {
				fmt.Fprintln(out, portal.UserMessage(err))
				return false
			}
			if err := exportReminders(out, a, events, ""); err != nil {
				fmt.Fprintln(out, err)
			}

		default:
			fmt.Fprintf(out, "Unknown command %q. Type 'help' for commands.\n", cmd)
		}
		return false
	})
	return nil
}
