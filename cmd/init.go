package cmd

import (
	"github.com/spf13/cobra"

	"github.com/askdocs/askdocs/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize askdocs configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure askdocs and writes a .askdocs.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
