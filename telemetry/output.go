package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/protozoa/config"
)

// OutputManager handles structured experiment output with CSV logging.
type OutputManager struct {
	dir          string
	movementFile *os.File
	perfFile     *os.File

	movementHeaderWritten bool
	perfHeaderWritten     bool
}

// NewOutputManager creates a new output manager and initializes the output
// directory. Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "movement.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating movement.csv: %w", err)
	}
	om.movementFile = f

	f, err = os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		om.movementFile.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML next to the CSV logs.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteMovement appends a window stats record to movement.csv.
func (om *OutputManager) WriteMovement(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if !om.movementHeaderWritten {
		om.movementHeaderWritten = true
		return gocsv.MarshalFile([]WindowStats{stats}, om.movementFile)
	}
	return gocsv.MarshalWithoutHeaders([]WindowStats{stats}, om.movementFile)
}

// WritePerf appends a perf stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStatsCSV) error {
	if om == nil {
		return nil
	}
	if !om.perfHeaderWritten {
		om.perfHeaderWritten = true
		return gocsv.MarshalFile([]PerfStatsCSV{stats}, om.perfFile)
	}
	return gocsv.MarshalWithoutHeaders([]PerfStatsCSV{stats}, om.perfFile)
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() {
	if om == nil {
		return
	}
	if om.movementFile != nil {
		om.movementFile.Close()
	}
	if om.perfFile != nil {
		om.perfFile.Close()
	}
}
