package cmd

import (
	"fmt"

	"db-fill/internal/logger"
	"db-fill/internal/provision"
	"db-fill/internal/schema"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cleanTable string
	dropTable  bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove all rows from a table, or drop it",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateTableName(cleanTable); err != nil {
			return err
		}

		query := Dialect.TruncateQuery(cleanTable)
		if dropTable {
			query = schema.BuildDropTable(Dialect, cleanTable)
		}

		log := logger.Named("clean").With(zap.String("table", cleanTable))
		log.Info("Cleaning table", zap.String("sql", query))
		if _, err := DB.ExecContext(cmd.Context(), query); err != nil {
			log.Error("Clean failed", zap.Error(err))
			return fmt.Errorf("failed to clean %s: %w", cleanTable, err)
		}
		log.Info("Table cleaned", zap.Bool("dropped", dropTable))
		return nil
	},
}

func validateTableName(table string) error {
	if table == "" {
		return fmt.Errorf("--table is required")
	}
	if !provision.IsIdentifier(table) {
		return fmt.Errorf("%w: %q is not a valid identifier", provision.ErrInvalidRequest, table)
	}
	return nil
}

func init() {
	RootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().StringVarP(&cleanTable, "table", "t", "", "Target table name")
	cleanCmd.Flags().BoolVar(&dropTable, "drop", false, "Drop the table instead of truncating it")
}
