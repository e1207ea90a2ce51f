package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	archiveSnapshot bool
	yesConfirm      bool
	showLimit       int
)

// snapshotCmd reports persisted snapshots and optionally archives the latest one.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Report persisted inventory snapshots (optionally archive)",
	Long: `Report the snapshot stored in the database and the archived copies in the bucket.
Snapshots are taken by the running server; this command never touches live inventory.

Examples:
  # Report only
  snapshot

  # Copy the database snapshot to the bucket (with interactive confirmation)
  snapshot --archive

  # Archive with auto-confirm (non-interactive)
  snapshot --archive --yes`,
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().BoolVar(&archiveSnapshot, "archive", false, "Upload the database snapshot to the archive bucket and prune old archives")
	snapshotCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm archiving (non-interactive)")
	snapshotCmd.Flags().IntVar(&showLimit, "limit", 10, "Maximum number of archive objects to list (0 for all)")

	RootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	d, err := bootstrap(ctx, nil)
	if err != nil {
		return err
	}
	l := d.logger
	defer l.Sync()

	if !d.snapshots.Enabled() {
		l.Warn("Snapshot persistence is disabled. Enable DATABASE_ENABLED or STORAGE_ENABLED.")
		return nil
	}

	// Step 1: Report
	if d.db != nil {
		row, ok, err := d.snapshots.Latest(ctx)
		if err != nil {
			return fmt.Errorf("failed to read latest snapshot: %w", err)
		}
		if ok {
			l.Info("Persisted snapshot",
				zap.Uint("id", row.ID),
				zap.Time("taken_at", row.TakenAt),
				zap.Int("warehouses", row.Warehouses),
				zap.Int("records", row.Records),
				zap.Int("conflicts", row.Conflicts),
			)
		} else {
			l.Info("No snapshot persisted in the database yet")
		}
	}

	if d.archive != nil {
		objects, err := d.archive.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list archive: %w", err)
		}
		l.Info("Archived snapshots", zap.Int("count", len(objects)))

		// Oldest first; show the newest
		start := 0
		if showLimit > 0 && len(objects) > showLimit {
			start = len(objects) - showLimit
			l.Info("Older archives not shown", zap.Int("count", start))
		}
		for _, name := range objects[start:] {
			l.Info("Archive object", zap.String("object", name))
		}
	}

	if !archiveSnapshot {
		return nil
	}

	// Step 2: Archive (if confirmed)
	l.Info("Archiving persisted snapshot",
		zap.String("bucket", d.cfg.Storage.Bucket),
		zap.Int("retention", d.cfg.Storage.Retention),
	)
	if !confirmDestructiveAction() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	object, err := d.snapshots.ArchivePersisted(ctx)
	if err != nil {
		return fmt.Errorf("failed to archive snapshot: %w", err)
	}
	l.Info("Snapshot archived", zap.String("object", object))
	return nil
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(response)
	return response == "yes"
}
