package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"subdaap-sync/core/reconcile"
	"subdaap-sync/feature/synchronizer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one synchronization pass",
	Long: `Runs one pass for every configured remote, or for the remote selected with
--index. --reset forgets the stored version markers first so that every
entity is reconciled again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		startTime := time.Now()

		index, _ := cmd.Flags().GetInt("index")
		reset, _ := cmd.Flags().GetBool("reset")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		app, err := bootstrap(ctx, false)
		if err != nil {
			return err
		}
		defer app.logger.Sync()

		if len(app.cfg.Remotes) == 0 {
			return fmt.Errorf("no remotes configured")
		}

		var results []*synchronizer.Result
		var syncErr error
		if index > 0 {
			s, ok := app.runner.Synchronizer(index)
			if !ok {
				return fmt.Errorf("no remote with index %d", index)
			}
			if reset {
				if err := s.Reset(ctx); err != nil {
					return err
				}
			}
			res, err := app.runner.SyncOne(ctx, index)
			results = append(results, res)
			syncErr = err
		} else {
			if reset {
				for _, r := range app.cfg.Remotes {
					s, _ := app.runner.Synchronizer(r.Index)
					if err := s.Reset(ctx); err != nil {
						return err
					}
				}
			}
			results, syncErr = app.runner.SyncAll(ctx)
		}

		if jsonOutput {
			filename := fmt.Sprintf("sync_%d.json", time.Now().Unix())
			data, err := json.MarshalIndent(results, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			if err := os.WriteFile(filename, data, 0644); err != nil {
				return fmt.Errorf("failed to save JSON file: %w", err)
			}
			app.logger.Info("Detailed JSON report saved", zap.String("file", filename))
		}

		fmt.Println("\n=== Sync Metrics ===")
		for _, r := range results {
			if r == nil {
				continue
			}
			fmt.Printf("[%d] %s\n", r.Index, r.Name)
			fmt.Printf("  Items Version: %d -> %d\n", r.Previous.Items, r.Versions.Items)
			fmt.Printf("  Containers Version: %d -> %d\n", r.Previous.Containers, r.Versions.Containers)
			fmt.Printf("  Items: +%d ~%d -%d\n", r.Items.Inserted, r.Items.Updated, r.Items.Removed)
			fmt.Printf("  Artists: +%d ~%d -%d\n", r.Artists.Inserted, r.Artists.Updated, r.Artists.Removed)
			fmt.Printf("  Albums: +%d ~%d -%d\n", r.Albums.Inserted, r.Albums.Updated, r.Albums.Removed)
			fmt.Printf("  Containers: +%d ~%d -%d\n", r.Containers.Inserted, r.Containers.Updated, r.Containers.Removed)
			fmt.Printf("  Container Items: %d\n", r.ContainerItems)
		}
		total := totalEntities(results)
		fmt.Printf("Total: +%d ~%d -%d (%d unchanged)\n", total.Inserted, total.Updated, total.Removed, total.Unchanged)
		fmt.Printf("Execution Time: %s\n", time.Since(startTime).String())

		return syncErr
	},
}

// totalEntities adds up the entity summaries of every finished pass.
func totalEntities(results []*synchronizer.Result) reconcile.Summary {
	var total reconcile.Summary
	for _, r := range results {
		if r != nil {
			total = total.Add(r.Entities())
		}
	}
	return total
}

func init() {
	syncCmd.Flags().Int("index", 0, "only synchronize the remote with this index")
	syncCmd.Flags().Bool("reset", false, "forget stored versions before syncing")
	syncCmd.Flags().Bool("json", false, "save the detailed results as JSON")
	RootCmd.AddCommand(syncCmd)
}
