package main

import (
	"github.com/spf13/cobra"

	"divinewithin/internal/core/breath"
	"divinewithin/internal/ui/terminal"
)

var techniquesCmd = &cobra.Command{
	Use:   "techniques",
	Short: "List breathwork techniques and their phase timings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table := breath.DefaultTable()
		if err := table.Validate(); err != nil {
			return err
		}
		terminal.New(cmd.OutOrStdout()).Techniques(table)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(techniquesCmd)
}
