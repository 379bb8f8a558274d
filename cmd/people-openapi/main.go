// people-openapi prints the OpenAPI document of the People API without
// starting the server.
//
//	go run ./cmd/people-openapi --format yaml --output openapi.yaml
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aanand-mishra/people-api/internal/docs"
	"github.com/aanand-mishra/people-api/internal/http/router"
	"github.com/aanand-mishra/people-api/internal/logger"
	"github.com/aanand-mishra/people-api/internal/service"
	"github.com/aanand-mishra/people-api/internal/storage/memory"
	"github.com/aanand-mishra/people-api/internal/validation"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:          "people-openapi",
		Short:        "Print the OpenAPI document of the People API",
		Args:         cobra.NoArgs,
		Version:      docs.Version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The handlers are never invoked; the service only has to exist
			// for the route table to be built.
			svc := service.NewPeople(memory.New(), validation.New(), logger.Nop())
			doc, err := docs.Build(router.Routes(svc))
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			return docs.Write(w, doc, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", docs.FormatJSON, "Output format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "File to write to, - for stdout")

	return cmd
}
