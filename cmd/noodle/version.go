package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/noodle"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of noodle",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("noodle version %s\n", strings.TrimSpace(noodle.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
