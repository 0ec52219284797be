package results

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	ReportFile      = "tournament_results.json"
	GameRecordsFile = "game_records.csv"
	StandingsFile   = "standings.csv"
)

type Writer struct {
	baseDir string
}

// NewWriter creates a subfolder of root named by the current timestamp.
func NewWriter(root string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

// WriteReport stores the full tournament report as indented JSON.
func (w *Writer) WriteReport(report any) (string, error) {
	path := filepath.Join(w.baseDir, ReportFile)
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode tournament report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write tournament report: %w", err)
	}
	return path, nil
}

func (w *Writer) WriteGameRecords(records []Result) error {
	header := []string{"game_id", "matchup", "game", "players", "winner", "is_tie", "duration", "turns", "success", "error"}

	rows := make([][]string, 0, len(records))
	for _, record := range records {
		winner := "Failed"
		if record.Succeeded() {
			winner = strings.Join(record.Winners(), "|")
		}
		turns := 0
		if record.DetailedStats != nil {
			turns = record.DetailedStats.TotalTurns
		}
		rows = append(rows, []string{
			record.GameID,
			strconv.Itoa(record.MatchupIndex),
			strconv.Itoa(record.GameNumber),
			strings.Join(record.Names(), ", "),
			winner,
			strconv.FormatBool(record.IsTie),
			strconv.FormatFloat(record.DurationSeconds, 'f', 2, 64),
			strconv.Itoa(turns),
			strconv.FormatBool(record.Succeeded()),
			record.Error,
		})
	}
	return w.WriteCSV(GameRecordsFile, header, rows)
}

func (w *Writer) WriteCSV(name string, header []string, rows [][]string) error {
	return WriteCSV(filepath.Join(w.baseDir, name), header, rows)
}

// WriteCSV writes header and rows to path.
func WriteCSV(path string, header []string, rows [][]string) error {
	// Create a file
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", filepath.Base(path), err)
	}
	for _, row := range rows {
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write %s row: %w", filepath.Base(path), err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// Load reads game results from a saved report or from a bare JSON list of results.
func Load(path string) ([]Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var list []Result
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("failed to decode results list: %w", err)
		}
		return list, nil
	}

	var report struct {
		Games []Result `json:"games"`
	}
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode tournament report: %w", err)
	}
	return report.Games, nil
}
