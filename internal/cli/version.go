package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/elmgo-ml/elmgo/elm"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the elmgo version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("elmgo %s\n", elm.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
