package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCourse string

var deleteCmd = &cobra.Command{
	Use:   "delete [section]",
	Short: "Delete the note for a section",
	Long:  `Delete permanently removes the stored note for a section.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		section := args[0]

		service, err := newService()
		if err != nil {
			fatal("Failed to initialize noodle", err)
		}

		if err := service.DeleteNote(context.Background(), deleteCourse, section); err != nil {
			fatal("Failed to delete note", err)
		}

		fmt.Printf("Note deleted: %s\n", section)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().StringVar(&deleteCourse, "course", "", "Course identifier")
}
