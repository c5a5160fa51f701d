package commands

import "github.com/spf13/cobra"

func init() {
	rootCmd.AddCommand(backupCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage snapshots of the host's distribution identity",
	Long: `Manage snapshots: create them, list them, prune old ones, and move
them between hosts as archives.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}
