package solver

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFileConfigMissingFileReturnsDefaults(t *testing.T) {
	abs, train, err := LoadFileConfig(filepath.Join(t.TempDir(), "missing.hcl"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if abs != DefaultAbstraction() {
		t.Fatalf("abstraction = %+v, want defaults", abs)
	}
	if train != DefaultTrainingConfig() {
		t.Fatalf("training = %+v, want defaults", train)
	}
}

func TestLoadFileConfigOverridesSelectedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "solver.hcl")
	contents := `
abstraction {
  enable_raises         = false
  max_raises_per_bucket = 3
}

training {
  iterations               = 5000
  seed                     = 42
  checkpoint_every_minutes = 2
  sampling                 = "full"
}
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	abs, train, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if abs.EnableRaises {
		t.Fatal("abs.EnableRaises = true, want false")
	}
	if abs.MaxRaisesPerBucket != 3 {
		t.Fatalf("abs.MaxRaisesPerBucket = %d, want 3", abs.MaxRaisesPerBucket)
	}
	if train.Iterations != 5000 {
		t.Fatalf("train.Iterations = %d, want 5000", train.Iterations)
	}
	if train.Seed != 42 {
		t.Fatalf("train.Seed = %d, want 42", train.Seed)
	}
	if train.CheckpointEvery != 2*time.Minute {
		t.Fatalf("train.CheckpointEvery = %v, want 2m", train.CheckpointEvery)
	}
	if train.Sampling != SamplingModeFullTraversal {
		t.Fatalf("train.Sampling = %v, want full", train.Sampling)
	}
	// Fields absent from the file keep their default values.
	if train.ParallelTables != DefaultTrainingConfig().ParallelTables {
		t.Fatalf("train.ParallelTables = %d, want default", train.ParallelTables)
	}
}

func TestLoadFileConfigRejectsUnknownSamplingMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "solver.hcl")
	contents := `
training {
  sampling = "bogus"
}
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, err := LoadFileConfig(path); err == nil {
		t.Fatal("expected an error for an unknown sampling mode")
	}
}
