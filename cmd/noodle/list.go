package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/aretw0/noodle/pkg/codec"
)

var (
	listJSON  bool
	listMatch string
)

type listEntry struct {
	Key      string `json:"key"`
	Course   string `json:"course,omitempty"`
	Section  string `json:"section"`
	Bytes    int    `json:"bytes"`
	Capacity string `json:"capacity"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored notes",
	Long: `List every note entry in the store with its decoded course and section
identifiers and how much of the per-entry capacity it uses. Entries whose
keys do not decode (foreign data sharing the store) are skipped.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if !doublestar.ValidatePattern(listMatch) {
			fatal("Invalid match pattern", fmt.Errorf("%q", listMatch))
		}

		store, err := newStore()
		if err != nil {
			fatal("Failed to open store", err)
		}

		entries, err := store.List(context.Background())
		if err != nil {
			fatal("Failed to list store", err)
		}

		var out []listEntry
		for _, e := range entries {
			section, course, ok := codec.DecodeKey(e.Key)
			if !ok {
				continue
			}
			if matched, _ := doublestar.Match(listMatch, section); !matched {
				continue
			}
			usage := codec.UsageOf(len(e.Value))
			out = append(out, listEntry{
				Key:      e.Key,
				Course:   course,
				Section:  section,
				Bytes:    usage.Bytes,
				Capacity: usage.Band.String(),
			})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(out); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		for _, e := range out {
			course := e.Course
			if course == "" {
				course = "-"
			}
			fmt.Printf("%s\t%s\t%d bytes (%s)\n", course, e.Section, e.Bytes, e.Capacity)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listMatch, "match", "*", "Glob pattern for section identifiers")
}
