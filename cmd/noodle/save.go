package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/noodle/pkg/codec"
	"github.com/aretw0/noodle/pkg/core"
)

var (
	saveCourse  string
	saveSection string
	saveText    string
	saveName    string
	saveTitle   string
	savePageURL string
	saveAnchor  string
)

// saveCmd represents the save command
var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save a note for a course section",
	Long: `Create or update the note for a section. Text is taken from --text,
or from stdin when --text is absent.`,
	Run: func(cmd *cobra.Command, args []string) {
		text := saveText
		if text == "" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				fatal("Failed to read stdin", err)
			}
			text = string(data)
		}

		service, err := newService()
		if err != nil {
			fatal("Failed to initialize noodle", err)
		}

		req := core.SaveRequest{
			Text:         text,
			CourseName:   saveName,
			SectionTitle: saveTitle,
			PageURL:      savePageURL,
			AnchorID:     saveAnchor,
		}

		usage := service.Estimate(req)
		if usage.Band >= codec.BandNear {
			fmt.Fprintf(os.Stderr, "warning: note is %d bytes, %s capacity ceiling\n", usage.Bytes, usage.Band)
		}

		if err := service.SaveNote(context.Background(), saveCourse, saveSection, req); err != nil {
			fatal("Failed to save note", err)
		}

		fmt.Printf("Note saved for section '%s'.\n", saveSection)
	},
}

func init() {
	rootCmd.AddCommand(saveCmd)
	saveCmd.Flags().StringVar(&saveCourse, "course", "", "Course identifier")
	saveCmd.Flags().StringVar(&saveSection, "section", "", "Section identifier")
	saveCmd.Flags().StringVar(&saveText, "text", "", "Note text (stdin when omitted)")
	saveCmd.Flags().StringVar(&saveName, "course-name", "", "Course display name")
	saveCmd.Flags().StringVar(&saveTitle, "section-title", "", "Section display title")
	saveCmd.Flags().StringVar(&savePageURL, "url", "", "Page URL the note belongs to")
	saveCmd.Flags().StringVar(&saveAnchor, "anchor", "", "Anchor element ID on the page")
	saveCmd.MarkFlagRequired("section")
}
