// Package testutil provides shared test infrastructure for the lattice
// scheduler packages: the golden schedule dataset and testdata path helpers.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/golden_schedules.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one assembly compiled with the default scheduler
// configuration, and the shape of the timeline it must produce.
type GoldenTestCase struct {
	Name     string `json:"name"`
	Assembly string `json:"assembly"` // relative to testdata/

	NumSlices       int   `json:"num_slices"`
	PatchesPerSlice []int `json:"patches_per_slice"`
	RoutingCells    int   `json:"routing_cells"` // summed over every slice
}

// TestdataPath resolves a path under the repository's testdata/ directory.
// The path is resolved relative to this source file: lattice/internal/testutil/ → testdata/.
func TestdataPath(t *testing.T, rel string) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", rel)
}

// LoadGoldenDataset loads the golden schedule dataset from the testdata directory.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	data, err := os.ReadFile(TestdataPath(t, "golden_schedules.json"))
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}
