// Package commands implements the CLI commands for the zapret2 MCP server.
package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/zapret/internal/build"
	"go.trai.ch/zapret/internal/core/domain"
)

// CLI represents the command line interface for zapret2-mcp.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Serve(ctx context.Context, in io.Reader, out, status io.Writer) error
	Exec(ctx context.Context, command string, timeout time.Duration) (domain.ExecResult, error)
	ListLogs(category domain.LogCategory) ([]domain.LogEntry, error)
	ReadLog(category domain.LogCategory, timestamp string) (string, error)
	SetLogFormat(format domain.LogFormat)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	c := &CLI{app: a}

	rootCmd := &cobra.Command{
		Use:   domain.AppName,
		Short: "MCP server that installs, configures and diagnoses zapret2",
		Long: "Without a subcommand, zapret2-mcp speaks the Model Context Protocol on stdin and stdout.\n" +
			"Commands run locally, in a container (ZAPRET2_MODE=docker) or over SSH (ZAPRET2_MODE=ssh).",
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Version:           build.Version,
		PersistentPreRunE: c.applyLogFormat,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().String("log-format", "", "Diagnostic log format: auto, pretty or json")

	c.rootCmd = rootCmd
	rootCmd.AddCommand(c.newExecCmd())
	rootCmd.AddCommand(c.newLogsCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

func (c *CLI) applyLogFormat(cmd *cobra.Command, _ []string) error {
	flag := cmd.Flags().Lookup("log-format")
	if flag == nil || !flag.Changed {
		return nil
	}
	format, err := domain.ParseLogFormat(flag.Value.String())
	if err != nil {
		return err
	}
	c.app.SetLogFormat(format)
	return nil
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetInput sets the stream the MCP server reads from.
func (c *CLI) SetInput(in io.Reader) {
	c.rootCmd.SetIn(in)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
