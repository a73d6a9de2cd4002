package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Prints the unique repositories linked from the README",
	Long:  `Prints one owner/name per line, sorted, without contacting the API.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return bindLocalFlags(cmd)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		refs, err := loadReferences(cfg)
		if err != nil {
			return err
		}
		for _, ref := range refs {
			fmt.Fprintln(cmd.OutOrStdout(), ref)
		}
		newLogger(cfg.Verbose).Printf("Extracted %d repositories from %s", len(refs), cfg.Readme)
		return nil
	},
}

func init() {
	extractCmd.Flags().Int("limit", 0, "Only consider the first N links of the README (0 = all)")
}
