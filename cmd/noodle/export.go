package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/noodle/pkg/export"
)

var (
	exportOut         string
	exportStdout      bool
	exportFrontmatter bool
)

var exportCmd = &cobra.Command{
	Use:   "export [course]",
	Short: "Export every note of a course as markdown",
	Long: `Collect all stored notes of a course into one markdown document.
The document is written to a file named after the course unless --stdout
or --out is given.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		course := args[0]

		service, err := newService()
		if err != nil {
			fatal("Failed to initialize noodle", err)
		}

		bundle, err := service.CollectCourseNotes(context.Background(), course)
		if err != nil {
			fatal("Failed to collect notes", err)
		}

		var opts []export.Option
		if exportFrontmatter {
			opts = append(opts, export.WithFrontmatter())
		}
		doc := export.Render(bundle, opts...)

		if len(bundle.Sections) == 0 {
			fmt.Fprintf(os.Stderr, "No notes stored for course '%s'.\n", course)
			os.Exit(1)
		}

		if exportStdout {
			fmt.Print(doc.Text)
			return
		}

		target := exportOut
		if target == "" {
			target = doc.Filename
		}
		if dir := filepath.Dir(target); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				fatal("Failed to create output directory", err)
			}
		}
		if err := os.WriteFile(target, []byte(doc.Text+"\n"), 0o644); err != nil {
			fatal("Failed to write export", err)
		}

		fmt.Printf("Exported %d sections to %s\n", len(bundle.Sections), target)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default: derived from course name)")
	exportCmd.Flags().BoolVar(&exportStdout, "stdout", false, "Write the document to stdout")
	exportCmd.Flags().BoolVar(&exportFrontmatter, "frontmatter", false, "Prepend a YAML metadata block")
}
