package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/repohealth/internal/contract"
	"github.com/huangsam/repohealth/internal/parquet"
)

// ExportSnapshots writes every snapshot run and project score to two Parquet files
// named after outputFile, and reports progress to w.
func ExportSnapshots(store contract.SnapshotStore, outputFile string, w io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return fmt.Errorf("%w: snapshot store is not configured", contract.ErrNoSnapshots)
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get snapshot status: %w", err)
	}
	if status.TotalRuns == 0 {
		return contract.ErrNoSnapshots
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total snapshot runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total project scores: %d\n", status.TotalScores)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve snapshot runs: %w", err)
	}
	scores, err := store.GetAllProjectScores()
	if err != nil {
		return fmt.Errorf("failed to retrieve project scores: %w", err)
	}

	runsFile := outputFile + ".snapshot_runs.parquet"
	if err := parquet.WriteSnapshotRunsParquet(parquet.ConvertSnapshotRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write snapshot runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d snapshot runs to: %s\n", len(runs), runsFile)

	scoresFile := outputFile + ".project_scores.parquet"
	if err := parquet.WriteProjectScoresParquet(parquet.ConvertProjectScoreRecords(scores), scoresFile); err != nil {
		return fmt.Errorf("failed to write project scores: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d project scores to: %s\n", len(scores), scoresFile)

	return nil
}
