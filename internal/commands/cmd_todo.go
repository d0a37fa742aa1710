package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/stagehand/internal/core/styles"
	"github.com/colonyops/stagehand/internal/core/todo"
	"github.com/colonyops/stagehand/internal/stagehand"
	"github.com/colonyops/stagehand/pkg/iojson"
)

// TodoCmd implements the stagehand todo command group.
type TodoCmd struct {
	flags *Flags
	app   *stagehand.App

	// create/update flags
	title  string
	tags   []string
	status string
	body   string

	// list flags
	listJSON bool
}

// NewTodoCmd creates a new todo command.
func NewTodoCmd(flags *Flags, app *stagehand.App) *TodoCmd {
	return &TodoCmd{flags: flags, app: app}
}

func (cmd *TodoCmd) todos() *stagehand.TodoService {
	return cmd.app.Todos
}

// Register adds the todo command to the application.
func (cmd *TodoCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "todo",
		Usage: "Manage flat-file todo records",
		Description: `Todo records are markdown files with YAML front matter, one per
record, addressable by short id with or without the "#" prefix.

Examples:
  stagehand todo list                          # open records
  stagehand todo create --title "Fix parser"   # create a record
  stagehand todo get "#a1b2c3d4"               # show one record
  stagehand todo update a1b2c3d4 --status done # close a record
  stagehand todo search parser                 # fuzzy search
  stagehand todo gc                            # prune old closed records`,
		Commands: []*cli.Command{
			cmd.listCmd(),
			cmd.listAllCmd(),
			cmd.getCmd(),
			cmd.createCmd(),
			cmd.updateCmd(),
			cmd.appendCmd(),
			cmd.deleteCmd(),
			cmd.searchCmd(),
			cmd.gcCmd(),
		},
	})

	return app
}

func (cmd *TodoCmd) jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:        "json",
		Usage:       "emit records as JSON lines",
		Destination: &cmd.listJSON,
	}
}

func (cmd *TodoCmd) listCmd() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List open records",
		UsageText: "stagehand todo list [--json]",
		Flags:     []cli.Flag{cmd.jsonFlag()},
		Action: func(ctx context.Context, c *cli.Command) error {
			records, err := cmd.todos().List(ctx)
			if err != nil {
				return fmt.Errorf("list todos: %w", err)
			}
			return cmd.writeRecords(c, records)
		},
	}
}

func (cmd *TodoCmd) listAllCmd() *cli.Command {
	return &cli.Command{
		Name:      "list-all",
		Usage:     "List every record, open before closed",
		UsageText: "stagehand todo list-all [--json]",
		Flags:     []cli.Flag{cmd.jsonFlag()},
		Action: func(ctx context.Context, c *cli.Command) error {
			records, err := cmd.todos().ListAll(ctx)
			if err != nil {
				return fmt.Errorf("list todos: %w", err)
			}
			return cmd.writeRecords(c, records)
		},
	}
}

func (cmd *TodoCmd) getCmd() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Show one record including its body",
		UsageText: "stagehand todo get <id> [--json]",
		Flags:     []cli.Flag{cmd.jsonFlag()},
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := requireID(c, "get")
			if err != nil {
				return err
			}

			record, err := cmd.todos().Get(ctx, id)
			if err != nil {
				return err
			}

			if cmd.listJSON {
				return iojson.WriteWith(c.Root().Writer, os.Stderr, record)
			}
			fmt.Fprint(c.Root().Writer, todo.Serialize(record))
			return nil
		},
	}
}

func (cmd *TodoCmd) createCmd() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Create a new record",
		UsageText: "stagehand todo create --title <title> [--tag <tag>]... [--status <status>] [--body <markdown>]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "title",
				Aliases:     []string{"t"},
				Usage:       "record title",
				Required:    true,
				Destination: &cmd.title,
			},
			&cli.StringSliceFlag{
				Name:        "tag",
				Usage:       "tag to attach, repeatable",
				Destination: &cmd.tags,
			},
			&cli.StringFlag{
				Name:        "status",
				Aliases:     []string{"s"},
				Usage:       "initial status (defaults to open)",
				Destination: &cmd.status,
			},
			&cli.StringFlag{
				Name:        "body",
				Aliases:     []string{"b"},
				Usage:       "markdown body",
				Destination: &cmd.body,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			record, err := cmd.todos().Create(ctx, cmd.title, cmd.tags, cmd.status, cmd.body)
			if err != nil {
				return err
			}

			fmt.Fprintln(c.Root().Writer, styles.ID.Render(record.DisplayID()), record.Title)
			return nil
		},
	}
}

func (cmd *TodoCmd) updateCmd() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update fields on a record",
		UsageText: "stagehand todo update <id> [--title <title>] [--tag <tag>]... [--status <status>] [--body <markdown>]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "title",
				Aliases:     []string{"t"},
				Usage:       "new title",
				Destination: &cmd.title,
			},
			&cli.StringSliceFlag{
				Name:        "tag",
				Usage:       "replacement tag set, repeatable",
				Destination: &cmd.tags,
			},
			&cli.StringFlag{
				Name:        "status",
				Aliases:     []string{"s"},
				Usage:       "new status",
				Destination: &cmd.status,
			},
			&cli.StringFlag{
				Name:        "body",
				Aliases:     []string{"b"},
				Usage:       "replacement body",
				Destination: &cmd.body,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := requireID(c, "update")
			if err != nil {
				return err
			}

			patch := todo.Patch{}
			if c.IsSet("title") {
				patch.Title = &cmd.title
			}
			if c.IsSet("tag") {
				patch.Tags = &cmd.tags
			}
			if c.IsSet("status") {
				patch.Status = &cmd.status
			}
			if c.IsSet("body") {
				patch.Body = &cmd.body
			}

			record, err := cmd.todos().Update(ctx, id, patch)
			if err != nil {
				return err
			}

			fmt.Fprintln(c.Root().Writer, styles.ID.Render(record.DisplayID()), "updated")
			return nil
		},
	}
}

func (cmd *TodoCmd) appendCmd() *cli.Command {
	return &cli.Command{
		Name:      "append",
		Usage:     "Append a text block to a record's body",
		UsageText: "stagehand todo append <id> <text>",
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := requireID(c, "append")
			if err != nil {
				return err
			}
			if c.NArg() < 2 {
				return fmt.Errorf("usage: stagehand todo append <id> <text>")
			}

			text := strings.Join(c.Args().Slice()[1:], " ")
			record, err := cmd.todos().Append(ctx, id, text)
			if err != nil {
				return err
			}

			fmt.Fprintln(c.Root().Writer, styles.ID.Render(record.DisplayID()), "appended")
			return nil
		},
	}
}

func (cmd *TodoCmd) deleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a record",
		UsageText: "stagehand todo delete <id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := requireID(c, "delete")
			if err != nil {
				return err
			}

			record, err := cmd.todos().Delete(ctx, id)
			if err != nil {
				return err
			}

			fmt.Fprintln(c.Root().Writer, styles.ID.Render(record.DisplayID()), "deleted")
			return nil
		},
	}
}

func (cmd *TodoCmd) searchCmd() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Fuzzy search records by id, title, tags, and status",
		UsageText: "stagehand todo search <query> [--json]",
		Flags:     []cli.Flag{cmd.jsonFlag()},
		Action: func(ctx context.Context, c *cli.Command) error {
			query := strings.Join(c.Args().Slice(), " ")
			records, err := cmd.todos().Search(ctx, query)
			if err != nil {
				return fmt.Errorf("search todos: %w", err)
			}
			return cmd.writeRecords(c, records)
		},
	}
}

func (cmd *TodoCmd) gcCmd() *cli.Command {
	return &cli.Command{
		Name:      "gc",
		Usage:     "Remove closed records past the retention window",
		UsageText: "stagehand todo gc",
		Action: func(ctx context.Context, c *cli.Command) error {
			removed, err := cmd.todos().GC(ctx)
			if err != nil {
				return err
			}

			if len(removed) == 0 {
				fmt.Fprintln(c.Root().Writer, styles.Muted.Render("nothing to collect"))
				return nil
			}
			for _, id := range removed {
				fmt.Fprintln(c.Root().Writer, styles.ID.Render("#"+id), "removed")
			}
			return nil
		},
	}
}

func (cmd *TodoCmd) writeRecords(c *cli.Command, records []todo.Record) error {
	w := c.Root().Writer

	if cmd.listJSON {
		for _, record := range records {
			if err := iojson.WriteLine(w, record); err != nil {
				return err
			}
		}
		return nil
	}

	for _, record := range records {
		line := fmt.Sprintf("%s %s %s",
			styles.ID.Render(record.DisplayID()),
			styles.StatusStyle(record.Closed()).Render(record.Status),
			record.Title,
		)
		if len(record.Tags) > 0 {
			line += " " + styles.Tag.Render("["+strings.Join(record.Tags, ", ")+"]")
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

func requireID(c *cli.Command, verb string) (string, error) {
	if c.NArg() < 1 {
		return "", fmt.Errorf("usage: stagehand todo %s <id>", verb)
	}
	return c.Args().Get(0), nil
}
