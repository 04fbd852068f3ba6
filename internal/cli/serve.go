package cli

import (
	"github.com/spf13/cobra"

	"github.com/larrypadri/pysetup/internal/server"
)

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [dir]",
		Short: "Serve the guide and live project status over HTTP",
		Long: `Serve runs a small local web server with the tutorial and a live view of
the project: doctor results and parsed requirements, re-scanned on a
schedule. It binds to localhost by default and stops on Ctrl-C.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.Config()
			if err != nil {
				return err
			}
			listen := flagOrConfig(cmd, "addr", addr, cfg.Serve.Addr)

			printInfo("Serving on http://%s", listen)
			printDetail("guide at /, status JSON at /api/status — Ctrl-C to stop")

			srv := server.New(server.Options{
				Addr:       listen,
				ProjectDir: argOrDot(args),
				Exec:       c.newExec(),
				Python:     cfg.Python,
				Logger:     c.Logger,
			})
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8765", "listen address")

	return cmd
}
