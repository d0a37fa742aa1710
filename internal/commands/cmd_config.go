package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/stagehand/internal/core/styles"
)

// ConfigCmd implements the stagehand config command group.
type ConfigCmd struct {
	flags *Flags
}

// NewConfigCmd creates a new config command.
func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags}
}

// Register adds the config command to the application.
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate the configuration file",
				UsageText:   "stagehand config validate",
				Description: "Checks config structure, write-glob patterns, and that the data, plan, and todo paths on disk are usable.",
				Action:      cmd.runValidate,
			},
		},
	})

	return app
}

func (cmd *ConfigCmd) runValidate(ctx context.Context, c *cli.Command) error {
	w := c.Root().Writer

	if err := cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath); err != nil {
		fmt.Fprintln(w, styles.Error.Render("configuration is invalid"))
		fmt.Fprintln(w, err.Error())
		return cli.Exit("", 1)
	}

	fmt.Fprintln(w, styles.Success.Render("configuration is valid"))
	return nil
}
