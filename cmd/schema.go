package cmd

import (
	"fmt"
	"sync"

	"subdaap-sync/core/config"
	"subdaap-sync/core/database"
	"subdaap-sync/feature/catalog/models"
	"subdaap-sync/feature/state"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// schemaCmd represents the schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the local store schema",
	Long:  `Compares the tables of the local store with the catalog models and reports missing columns. --migrate creates or extends the tables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		migrate, _ := cmd.Flags().GetBool("migrate")

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("database connection required: %w", err)
		}

		tables := append(models.All(), &state.SyncState{})
		if migrate {
			if err := db.AutoMigrate(tables...); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
		}

		report, err := checkSchema(db, tables)
		if err != nil {
			return err
		}

		fmt.Println("\n=== Schema Report ===")
		failed := 0
		for _, t := range report {
			status := "ok"
			if len(t.missing) > 0 {
				status = fmt.Sprintf("missing %v", t.missing)
				failed++
			}
			fmt.Printf("%-16s %s\n", t.table, status)
		}
		if failed > 0 {
			return fmt.Errorf("%d tables do not match the catalog models", failed)
		}
		return nil
	},
}

type tableReport struct {
	table   string
	missing []string
}

func checkSchema(db *gorm.DB, tables []any) ([]tableReport, error) {
	cache := &sync.Map{}
	report := make([]tableReport, 0, len(tables))
	for _, model := range tables {
		s, err := schema.Parse(model, cache, db.NamingStrategy)
		if err != nil {
			return nil, fmt.Errorf("failed to parse model: %w", err)
		}
		missing, err := database.MissingColumns(db, s.Table, s.DBNames...)
		if err != nil {
			return nil, err
		}
		report = append(report, tableReport{table: s.Table, missing: missing})
	}
	return report, nil
}

func init() {
	schemaCmd.Flags().Bool("migrate", false, "create missing tables and columns first")
	RootCmd.AddCommand(schemaCmd)
}
