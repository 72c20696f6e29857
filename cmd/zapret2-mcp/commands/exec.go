package commands

import (
	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
	"go.trai.ch/zapret/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newExecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec [--timeout 30s] -- <command> [args...]",
		Short: "Run a shell command on the configured target",
		Long: "Runs the command through the selected executor exactly as the MCP tools do.\n" +
			"A single argument is a shell script; several are quoted as one argv.\n" +
			"Stdout and stderr are passed through; a failed command exits non-zero.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			timeout, err := cmd.Flags().GetDuration("timeout")
			if err != nil {
				return err
			}

			command := commandLine(args)
			res, err := c.app.Exec(cmd.Context(), command, timeout)
			if err != nil {
				if execErr, ok := domain.AsExecError(err); ok {
					res = domain.ExecResult{Stdout: execErr.Stdout, Stderr: execErr.Stderr}
					err = zerr.With(zerr.Wrap(err, "command failed"), "kind", execErr.Kind.String())
				}
			}

			_, _ = cmd.OutOrStdout().Write([]byte(res.Stdout))
			_, _ = cmd.ErrOrStderr().Write([]byte(res.Stderr))
			return err
		},
	}
	cmd.Flags().Duration("timeout", domain.DefaultExecTimeout, "Kill the command after this long")
	return cmd
}

// commandLine keeps a single argument as shell text and quotes several as argv.
func commandLine(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return shellquote.Join(args...)
}
