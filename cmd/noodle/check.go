package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/noodle/pkg/codec"
)

var (
	checkName   string
	checkTitle  string
	checkURL    string
	checkAnchor string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Estimate whether a note fits the capacity ceiling",
	Long: `Estimate the encoded size of a prospective note against the per-entry
capacity ceiling of the storage medium. Text is read from --text or stdin.
Exits non-zero when the note would exceed the ceiling.`,
	Run: func(cmd *cobra.Command, args []string) {
		text, _ := cmd.Flags().GetString("text")
		if text == "" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				fatal("Failed to read stdin", err)
			}
			text = string(data)
		}

		usage := codec.Estimate(codec.Record{
			Text:         text,
			CourseName:   checkName,
			SectionTitle: checkTitle,
			PageURL:      checkURL,
			AnchorID:     checkAnchor,
		})

		fmt.Printf("%d of %d bytes (%s)\n", usage.Bytes, codec.EntryCeiling, usage.Band)
		if usage.Band == codec.BandOver {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().String("text", "", "Note text (stdin when omitted)")
	checkCmd.Flags().StringVar(&checkName, "course-name", "", "Course display name")
	checkCmd.Flags().StringVar(&checkTitle, "section-title", "", "Section display title")
	checkCmd.Flags().StringVar(&checkURL, "url", "", "Page URL")
	checkCmd.Flags().StringVar(&checkAnchor, "anchor", "", "Anchor element ID")
}
