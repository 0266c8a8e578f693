package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-adeptkey/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if outputJSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(version.GetInfo("adeptkey"))
		}
		fmt.Fprintln(cmd.OutOrStdout(), version.String("adeptkey"))
		return nil
	},
}
