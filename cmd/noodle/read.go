package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	readCourse string
	readJSON   bool
)

var readCmd = &cobra.Command{
	Use:   "read [section]",
	Short: "Read the note for a section",
	Long:  `Read the stored note for a section. Outputs the plain text by default, or the full record with --json.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		section := args[0]

		service, err := newService()
		if err != nil {
			fatal("Failed to initialize noodle", err)
		}

		rec, err := service.LoadNote(context.Background(), readCourse, section)
		if err != nil {
			fatal("Failed to read note", err)
		}
		if rec == nil {
			fmt.Fprintf(os.Stderr, "No note stored for section '%s'.\n", section)
			os.Exit(1)
		}

		if readJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(rec); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		fmt.Print(rec.Text)
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().StringVar(&readCourse, "course", "", "Course identifier")
	readCmd.Flags().BoolVar(&readJSON, "json", false, "Output in JSON format")
}
