package cli

import (
	"log"

	"github.com/spf13/cobra"

	"produce-grader/internal/api/mcp"
)

func newMCPCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server on stdio",
		Long:  `Launch an MCP server exposing the assess_image and model_info tools.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, c, err := opts.openContainer(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := c.Close(); err != nil {
					log.Printf("Error closing services: %v", err)
				}
			}()

			return mcp.Serve(ctx, c.AssessmentService, cfg.Model.Version)
		},
	}
}
