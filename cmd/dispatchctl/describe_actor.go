package main

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

// newCmdDescribeActor polls a cascade-node's admin server for readiness,
// the CLI analogue of the teacher's `linkerd check` single-component
// health probe (cli/cmd/check.go), scoped down to one HTTP GET.
func newCmdDescribeActor() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "describe-actor",
		Short: "report a cascade-node's readiness and local actor count",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := &http.Client{Timeout: 5 * time.Second}
			resp, err := client.Get(fmt.Sprintf("http://%s/ready", addr))
			if err != nil {
				return fmt.Errorf("dispatchctl: reach %s: %w", addr, err)
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("dispatchctl: read response: %w", err)
			}
			fmt.Printf("%s -> %s: %s", addr, resp.Status, body)
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:9996", "cascade-node admin server address")
	return cmd
}
