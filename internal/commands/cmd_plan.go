package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/stagehand/internal/core/styles"
	"github.com/colonyops/stagehand/internal/stagehand"
)

func stdoutFd() uintptr { return os.Stdout.Fd() }

// PlanCmd implements the stagehand plan command group.
type PlanCmd struct {
	flags *Flags
	app   *stagehand.App

	// enter flags
	enterResume bool

	// show flags
	showRaw bool
}

// NewPlanCmd creates a new plan command.
func NewPlanCmd(flags *Flags, app *stagehand.App) *PlanCmd {
	return &PlanCmd{flags: flags, app: app}
}

// Register adds the plan command to the application.
func (cmd *PlanCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "plan",
		Usage: "Control the plan/build workflow",
		Description: `Plan mode restricts the session to read-only exploration while a plan
is written into a single plan artifact. Approving the plan restores
full access and tracks step completion.

Examples:
  stagehand plan enter            # start a read-only planning phase
  stagehand plan exit             # leave plan mode without tracking
  stagehand plan run              # approve the plan and track execution
  stagehand plan status           # show current mode and step progress
  stagehand plan show             # render the plan artifact`,
		Commands: []*cli.Command{
			cmd.enterCmd(),
			cmd.exitCmd(),
			cmd.runCmd(),
			cmd.statusCmd(),
			cmd.showCmd(),
		},
	})

	return app
}

func (cmd *PlanCmd) enterCmd() *cli.Command {
	return &cli.Command{
		Name:      "enter",
		Usage:     "Enter the read-only planning phase",
		UsageText: "stagehand plan enter [name] [--resume]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "resume",
				Aliases:     []string{"r"},
				Usage:       "continue the most recent plan artifact instead of starting fresh",
				Destination: &cmd.enterResume,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cmd.app.Plan.Enter(c.Args().First(), cmd.enterResume); err != nil {
				return fmt.Errorf("enter plan mode: %w", err)
			}
			st := cmd.app.Plan.State()
			fmt.Fprintln(c.Root().Writer, styles.Success.Render("plan mode on"), styles.Muted.Render(st.PlanFile))
			return nil
		},
	}
}

func (cmd *PlanCmd) exitCmd() *cli.Command {
	return &cli.Command{
		Name:      "exit",
		Usage:     "Leave plan mode without execution tracking",
		UsageText: "stagehand plan exit",
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cmd.app.Plan.Exit(); err != nil {
				return fmt.Errorf("exit plan mode: %w", err)
			}
			fmt.Fprintln(c.Root().Writer, styles.Success.Render("plan mode off"))
			return nil
		},
	}
}

func (cmd *PlanCmd) runCmd() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Approve the plan and begin tracked execution",
		UsageText: "stagehand plan run",
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cmd.app.Plan.Run(); err != nil {
				return err
			}
			st := cmd.app.Plan.State()
			fmt.Fprintf(c.Root().Writer, "executing %d steps\n", len(st.Steps))
			return nil
		},
	}
}

func (cmd *PlanCmd) statusCmd() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Show the current mode and step progress",
		UsageText: "stagehand plan status",
		Action: func(ctx context.Context, c *cli.Command) error {
			st := cmd.app.Plan.State()
			w := c.Root().Writer

			switch {
			case st.Enabled:
				fmt.Fprintln(w, styles.Title.Render("planning"), styles.Muted.Render(st.PlanFile))
			case st.Executing:
				fmt.Fprintf(w, "%s %d/%d steps\n", styles.Title.Render("executing"), st.CompletedCount(), len(st.Steps))
			default:
				fmt.Fprintln(w, styles.Muted.Render("idle"))
			}

			for _, step := range st.Steps {
				mark := "[ ]"
				style := styles.StatusOpen
				if step.Completed {
					mark = "[x]"
					style = styles.StatusClosed
				}
				fmt.Fprintf(w, "  %s %d. %s\n", mark, step.Step, style.Render(step.Text))
			}
			return nil
		},
	}
}

func (cmd *PlanCmd) showCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Render the current plan artifact",
		UsageText: "stagehand plan show [--raw]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "raw",
				Usage:       "print the raw markdown without terminal rendering",
				Destination: &cmd.showRaw,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			path, content, err := cmd.app.Plan.PlanContents()
			if err != nil {
				return err
			}

			w := c.Root().Writer
			fmt.Fprintln(w, styles.Muted.Render(path))

			if cmd.showRaw || !term.IsTerminal(int(stdoutFd())) {
				fmt.Fprint(w, content)
				return nil
			}

			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(100),
			)
			if err != nil {
				return fmt.Errorf("create markdown renderer: %w", err)
			}

			out, err := renderer.Render(content)
			if err != nil {
				return fmt.Errorf("render plan: %w", err)
			}
			fmt.Fprint(w, out)
			return nil
		},
	}
}
