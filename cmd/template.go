package cmd

import (
	"github.com/spf13/cobra"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Inspect the project template catalog",
	Long:  `Inspect the project templates available to "iotwb new" and "iotwb env"`,
}

func init() {
	rootCmd.AddCommand(templateCmd)
}
