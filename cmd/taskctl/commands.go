package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/phrazzld/tasktracker/internal/client"
	"github.com/urfave/cli/v3"
)

// taskFields are the form fields settable from the command line.
var taskFields = []string{
	client.FieldTitle,
	client.FieldDescription,
	client.FieldDate,
	client.FieldPriority,
	client.FieldStatus,
	client.FieldProgress,
}

func taskFieldFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: client.FieldTitle, Usage: "task title"},
		&cli.StringFlag{Name: client.FieldDescription, Usage: "task description"},
		&cli.StringFlag{Name: client.FieldDate, Usage: "date, e.g. 2024-03-05"},
		&cli.StringFlag{Name: client.FieldPriority, Usage: "High, Medium or Low"},
		&cli.StringFlag{Name: client.FieldStatus, Usage: "Pending, In Progress or Completed"},
		&cli.StringFlag{Name: client.FieldProgress, Usage: "progress, e.g. 30%"},
	}
}

// applyFields copies the field flags the user set into the form draft.
func applyFields(ctrl *client.Controller, c *cli.Command) error {
	for _, name := range taskFields {
		if !c.IsSet(name) {
			continue
		}
		if err := ctrl.SetField(name, c.String(name)); err != nil {
			return err
		}
	}
	return nil
}

// loadTasks fetches the list and reports on stderr when it is stale or empty
// because the server could not be reached.
func (a *app) loadTasks(ctx context.Context, c *cli.Command) (*client.Controller, error) {
	ctrl, err := a.tasks()
	if err != nil {
		return nil, err
	}

	errOut := c.Root().ErrWriter
	switch ctrl.Load(ctx) {
	case client.FreshnessCached:
		_, _ = fmt.Fprintln(errOut, "warning: server unreachable, showing cached tasks")
	case client.FreshnessNone:
		if notice, ok := ctrl.Notice(); ok {
			_, _ = fmt.Fprintf(errOut, "warning: %v\n", notice.Err)
			ctrl.DismissNotice()
		}
	}
	return ctrl, nil
}

func (a *app) listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List tasks",
		UsageText: "taskctl list [--search text] [--priority All|High|Medium|Low]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "only titles containing this text"},
			&cli.StringFlag{Name: "priority", Aliases: []string{"p"}, Usage: "All, High, Medium or Low", Value: string(client.PriorityAll)},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			filter, err := client.ParsePriorityFilter(c.String("priority"))
			if err != nil {
				return err
			}

			ctrl, err := a.loadTasks(ctx, c)
			if err != nil {
				return err
			}
			ctrl.SetSearch(c.String("search"))
			ctrl.SetPriorityFilter(filter)
			return renderTasks(c.Root().Writer, ctrl.Visible())
		},
	}
}

func (a *app) addCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Create a task",
		UsageText: "taskctl add --title text [--priority Low] [--status Pending] ...",
		Flags:     taskFieldFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctrl, err := a.loadTasks(ctx, c)
			if err != nil {
				return err
			}
			if err := applyFields(ctrl, c); err != nil {
				return err
			}

			created, err := ctrl.Create(ctx, ctrl.Form().Draft())
			if err != nil {
				return fmt.Errorf("create task: %w", err)
			}
			_, err = fmt.Fprintf(c.Root().Writer, "Created task %s\n", created.ID)
			return err
		},
	}
}

func (a *app) editCommand() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Change fields of a task",
		UsageText: "taskctl edit [field flags] <id>",
		ArgsUsage: "<id>",
		Flags:     taskFieldFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			id := c.Args().First()
			if id == "" {
				return errors.New("edit requires a task id")
			}

			ctrl, err := a.loadTasks(ctx, c)
			if err != nil {
				return err
			}
			if ctrl.BeginEdit(id) == client.OutcomeNoMatch {
				return fmt.Errorf("task %s not found", id)
			}
			if err := applyFields(ctrl, c); err != nil {
				return err
			}

			outcome, err := ctrl.Submit(ctx)
			if err != nil {
				return fmt.Errorf("update task: %w", err)
			}
			if outcome == client.OutcomeNoMatch {
				_, err = fmt.Fprintf(c.Root().Writer, "Task %s updated on the server but is no longer listed locally\n", id)
				return err
			}
			_, err = fmt.Fprintf(c.Root().Writer, "Updated task %s\n", id)
			return err
		},
	}
}

func (a *app) deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a task",
		ArgsUsage: "<id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			id := c.Args().First()
			if id == "" {
				return errors.New("delete requires a task id")
			}

			ctrl, err := a.loadTasks(ctx, c)
			if err != nil {
				return err
			}
			outcome, err := ctrl.Delete(ctx, id)
			if err != nil {
				return fmt.Errorf("delete task: %w", err)
			}
			if outcome == client.OutcomeNoMatch {
				_, err = fmt.Fprintf(c.Root().Writer, "Deleted task %s (it was not in the local list)\n", id)
				return err
			}
			_, err = fmt.Fprintf(c.Root().Writer, "Deleted task %s\n", id)
			return err
		},
	}
}

func (a *app) loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and print the issued token",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			res, err := a.authClient().Login(ctx, c.String("email"), c.String("password"))
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			if !res.Success {
				return fmt.Errorf("login failed: %s", res.Message)
			}
			out := c.Root().Writer
			_, _ = fmt.Fprintln(out, res.Message)
			if res.Token != "" {
				_, _ = fmt.Fprintf(out, "token: %s\n", res.Token)
			}
			return nil
		},
	}
}

func (a *app) registerCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Create an account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true},
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true},
			&cli.StringFlag{Name: "confirm-password", Required: true},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			res, err := a.authClient().Register(ctx, client.RegisterRequest{
				Username:        c.String("username"),
				Email:           c.String("email"),
				Password:        c.String("password"),
				ConfirmPassword: c.String("confirm-password"),
			})
			if err != nil {
				var apiErr *client.APIError
				if errors.As(err, &apiErr) && apiErr.Message != "" {
					return fmt.Errorf("registration failed: %s", apiErr.Message)
				}
				return fmt.Errorf("register: %w", err)
			}
			_, err = fmt.Fprintln(c.Root().Writer, res.Msg)
			return err
		},
	}
}
