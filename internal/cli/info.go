package cli

import (
	"log"

	"github.com/spf13/cobra"
)

func newInfoCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Describe the configured grading model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			format, err := resolveOutput(output, w)
			if err != nil {
				return err
			}

			_, c, err := opts.openContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := c.Close(); err != nil {
					log.Printf("Error closing services: %v", err)
				}
			}()

			info := c.AssessmentService.ModelInfo()
			if format == outputJSON {
				return writeJSON(w, info)
			}
			return writeModelInfoTable(w, info)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputAuto, "Output format: auto or table or json")
	return cmd
}
