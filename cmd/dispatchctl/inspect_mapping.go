package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cascadedb/cascade/pkg/stream"
)

// newCmdInspectMapping reads a hash mapping's compact run-length form
// (one "actorID count" pair per line, the text analogue of
// stream.RLEPair) and reports per-actor vnode ownership, grounded on the
// teacher's `linkerd get`-style "load a resource, print a summary table"
// commands (cli/cmd/get.go).
func newCmdInspectMapping() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "inspect-mapping",
		Short: "summarize a hash mapping's run-length-encoded vnode ownership",
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := readRLEFile(file)
			if err != nil {
				return err
			}
			mapping, err := stream.HashMappingFromRLE(pairs)
			if err != nil {
				return err
			}

			counts := make(map[stream.ActorID]int)
			for vn := 0; vn < mapping.Len(); vn++ {
				counts[mapping.Lookup(stream.VirtualNode(vn))]++
			}

			fmt.Printf("total vnodes: %d\n", mapping.Len())
			fmt.Printf("owning actors: %d\n", len(counts))
			for actor, n := range counts {
				fmt.Printf("  actor %d: %d vnodes\n", actor, n)
			}
			return nil
		},
	}

	flags := pflag.NewFlagSet("inspect-mapping", pflag.ExitOnError)
	flags.StringVarP(&file, "file", "f", "", "path to the RLE-encoded mapping file")
	cmd.Flags().AddFlagSet(flags)
	cmd.MarkFlagRequired("file")

	return cmd
}

func readRLEFile(path string) ([]stream.RLEPair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dispatchctl: open mapping file: %w", err)
	}
	defer f.Close()

	var pairs []stream.RLEPair
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("dispatchctl: malformed mapping line %q", line)
		}
		actor, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("dispatchctl: bad actor id %q: %w", fields[0], err)
		}
		count, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("dispatchctl: bad count %q: %w", fields[1], err)
		}
		pairs = append(pairs, stream.RLEPair{ActorID: stream.ActorID(actor), Count: uint32(count)})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("dispatchctl: read mapping file: %w", err)
	}
	return pairs, nil
}
