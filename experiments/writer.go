package experiments

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Writer persists testbed results as CSV files under a timestamped
// directory. Persistence stays on the caller's side of the core: the
// selectors themselves never touch the filesystem.
type Writer struct {
	baseDir string
}

func NewWriter() (*Writer, error) {
	// Create a subfolder named by current timestamp
	timestamp := time.Now().UTC().Format(time.RFC3339)
	baseDir := filepath.Join("experiments", "bandit", timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) WriteRoundRecords(strategy string, records []RoundRecord) error {
	path := filepath.Join(w.baseDir, strategy+"_rounds.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create rounds file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"round", "option", "reward", "cumulative_reward", "cumulative_regret"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write rounds header: %w", err)
	}

	for _, record := range records {
		row := []string{
			strconv.Itoa(record.Round),
			record.ChosenOption,
			strconv.FormatFloat(record.Reward, 'f', -1, 64),
			strconv.FormatFloat(record.CumulativeReward, 'f', 4, 64),
			strconv.FormatFloat(record.CumulativeRegret, 'f', 4, 64),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write round row: %w", err)
		}
	}

	return nil
}
