package cli

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openStore()
		if err != nil {
			return err
		}
		defer repo.Close()

		logger.Info("Migrations applied", "path", cfg.SQLiteDBPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
