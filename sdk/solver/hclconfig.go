package solver

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// FileConfig is the HCL-decoded shape of a solver config file: one
// "abstraction" block and one "training" block, both optional. Either
// block may omit fields; missing fields fall back to the package defaults.
type FileConfig struct {
	Abstraction *AbstractionFileConfig `hcl:"abstraction,block"`
	Training    *TrainingFileConfig    `hcl:"training,block"`
}

// AbstractionFileConfig mirrors AbstractionConfig with HCL tags.
type AbstractionFileConfig struct {
	EnableRaises       *bool `hcl:"enable_raises,optional"`
	MaxRaisesPerBucket *int  `hcl:"max_raises_per_bucket,optional"`
}

// TrainingFileConfig mirrors TrainingConfig with HCL tags. CheckpointEvery
// is expressed in minutes on disk since HCL has no native duration type.
type TrainingFileConfig struct {
	Iterations          *int    `hcl:"iterations,optional"`
	Seed                *int64  `hcl:"seed,optional"`
	ParallelTables      *int    `hcl:"parallel_tables,optional"`
	CheckpointEveryMins *int    `hcl:"checkpoint_every_minutes,optional"`
	ProgressEvery       *int    `hcl:"progress_every,optional"`
	EnableRaises        *bool   `hcl:"enable_raises,optional"`
	MaxRaisesPerBucket  *int    `hcl:"max_raises_per_bucket,optional"`
	AdaptiveRaiseVisits *int    `hcl:"adaptive_raise_visits,optional"`
	UseCFRPlus          *bool   `hcl:"use_cfr_plus,optional"`
	Sampling            *string `hcl:"sampling,optional"`
	UseDCFR             *bool   `hcl:"use_dcfr,optional"`
}

// LoadFileConfig parses an HCL config file and layers it over the package
// defaults, returning ready-to-validate AbstractionConfig/TrainingConfig
// values. A missing file is not an error: it yields the bare defaults, the
// same convention internal/server's config loader uses.
func LoadFileConfig(path string) (AbstractionConfig, TrainingConfig, error) {
	abs := DefaultAbstraction()
	train := DefaultTrainingConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return abs, train, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return abs, train, fmt.Errorf("parse HCL config: %s", diags.Error())
	}

	var fc FileConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &fc); diags.HasErrors() {
		return abs, train, fmt.Errorf("decode HCL config: %s", diags.Error())
	}

	if fc.Abstraction != nil {
		if v := fc.Abstraction.EnableRaises; v != nil {
			abs.EnableRaises = *v
		}
		if v := fc.Abstraction.MaxRaisesPerBucket; v != nil {
			abs.MaxRaisesPerBucket = *v
		}
	}

	if fc.Training != nil {
		t := fc.Training
		if v := t.Iterations; v != nil {
			train.Iterations = *v
		}
		if v := t.Seed; v != nil {
			train.Seed = *v
		}
		if v := t.ParallelTables; v != nil {
			train.ParallelTables = *v
		}
		if v := t.CheckpointEveryMins; v != nil {
			train.CheckpointEvery = time.Duration(*v) * time.Minute
		}
		if v := t.ProgressEvery; v != nil {
			train.ProgressEvery = *v
		}
		if v := t.EnableRaises; v != nil {
			train.EnableRaises = *v
		}
		if v := t.MaxRaisesPerBucket; v != nil {
			train.MaxRaisesPerBucket = *v
		}
		if v := t.AdaptiveRaiseVisits; v != nil {
			train.AdaptiveRaiseVisits = *v
		}
		if v := t.UseCFRPlus; v != nil {
			train.UseCFRPlus = *v
		}
		if v := t.UseDCFR; v != nil {
			train.UseDCFR = *v
		}
		if v := t.Sampling; v != nil {
			mode, err := parseSamplingModeName(*v)
			if err != nil {
				return abs, train, err
			}
			train.Sampling = mode
		}
	}

	if err := abs.Validate(); err != nil {
		return abs, train, fmt.Errorf("abstraction config: %w", err)
	}
	if err := train.Validate(); err != nil {
		return abs, train, fmt.Errorf("training config: %w", err)
	}

	return abs, train, nil
}

func parseSamplingModeName(name string) (SamplingMode, error) {
	switch name {
	case "external":
		return SamplingModeExternal, nil
	case "full":
		return SamplingModeFullTraversal, nil
	default:
		return SamplingModeExternal, fmt.Errorf("unknown sampling mode %q", name)
	}
}
