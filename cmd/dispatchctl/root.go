// Package main implements dispatchctl, an operator inspection CLI over
// the dispatch fabric's on-disk/wire artifacts (hash mappings, actor
// health), grounded on the teacher's cli/cmd cobra family rather than
// any single file there (the teacher's CLI is Kubernetes-shaped end to
// end; only its command-tree structure and flag idioms transfer).
package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cascadedb/cascade/pkg/version"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "dispatchctl",
	Short: "dispatchctl inspects a cascade dispatch fabric",
	Long:  `dispatchctl inspects hash mappings and actor/dispatcher state for a cascade dispatch fabric.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetLevel(log.DebugLevel)
		} else {
			log.SetLevel(log.WarnLevel)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "turn on debug logging")
	rootCmd.AddCommand(newCmdInspectMapping())
	rootCmd.AddCommand(newCmdDescribeActor())
	rootCmd.AddCommand(newCmdVersion())
}

func newCmdVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print dispatchctl's version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(version.Version)
			return nil
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
