package main

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mreid/holdemtoss/sdk/solver"
)

var cli struct {
	Debug bool `help:"enable debug logging"`

	Train TrainCmd `cmd:"" help:"run MCCFR training and emit a blueprint"`
	Eval  EvalCmd  `cmd:"" help:"evaluate an existing blueprint"`
}

type TrainCmd struct {
	Config              string `help:"path to an HCL config file providing abstraction/training defaults"`
	Out                 string `help:"path to write the blueprint pack" required:""`
	Iterations          int    `help:"number of MCCFR iterations" default:"100000"`
	Parallel            int    `help:"number of concurrent tables" default:"1"`
	Seed                int64  `help:"random seed; 0 keeps the configured seed" default:"0"`
	CheckpointMins      int    `help:"checkpoint interval in minutes, stored in the training config; checkpoints are written only by --checkpoint-every" default:"10"`
	CheckpointPath      string `help:"path to write periodic checkpoints"`
	CheckpointEvery     int    `help:"checkpoint interval in iterations (0 disables)" default:"0"`
	ProgressEvery       int    `help:"log progress every N iterations (0 => iterations/100)" default:"0"`
	DisableRaises       bool   `help:"disable raise actions for minimal smoke testing"`
	MaxRaises           int    `help:"limit raises per node (0 keeps the configured limit)" default:"0"`
	AdaptiveRaiseVisits int    `help:"visits before expanding raises (0 disables adaptive expansion)" default:"500"`
	Smoke               bool   `help:"apply smoke preset (few iterations, max raises=2, adaptive disabled)"`
	ResumeFrom          string `help:"resume training from checkpoint file"`
	CPUProfile          string `help:"write CPU profile to file"`
	CFRPlus             bool   `help:"enable CFR+ (cumulative regrets floored at zero)"`
	Sampling            string `help:"sampling mode (external|full)" enum:"external,full" default:"external"`
}

type EvalCmd struct {
	Blueprint string `help:"path to blueprint pack" required:""`
	Hands     int    `help:"number of hands to simulate" default:"10000"`
	Seed      int64  `help:"random seed; 0 uses seed 1" default:"0"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("solver"),
		kong.Description("Hold'em Toss MCCFR solver tooling"),
		kong.UsageOnError(),
	)

	setupLogger(cli.Debug)

	switch ctx.Command() {
	case "train":
		if err := cli.Train.Run(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("training failed")
		}
	case "eval":
		if err := cli.Eval.Run(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("evaluation failed")
		}
	default:
		log.Fatal().Msgf("unknown command: %s", ctx.Command())
	}
}

func setupLogger(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
}

func (cmd *TrainCmd) Run(ctx context.Context) error {
	mode, err := parseSamplingMode(cmd.Sampling)
	if err != nil {
		return err
	}

	// Set up CPU profiling if requested
	if cmd.CPUProfile != "" {
		f, err := os.Create(cmd.CPUProfile)
		if err != nil {
			return fmt.Errorf("create cpu profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("start cpu profile: %w", err)
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", cmd.CPUProfile).Msg("CPU profiling enabled")
	}

	var trainer *solver.Trainer

	if cmd.ResumeFrom != "" {
		trainer, err = solver.LoadTrainerFromCheckpoint(cmd.ResumeFrom)
		if err != nil {
			return fmt.Errorf("load checkpoint: %w", err)
		}
		if cmd.Iterations > 0 {
			if err := trainer.SetTotalIterations(cmd.Iterations); err != nil {
				return err
			}
		}
		if cmd.CheckpointPath != "" && cmd.CheckpointEvery > 0 {
			trainer.EnableCheckpoints(cmd.CheckpointPath, cmd.CheckpointEvery)
		}
		if cmd.ProgressEvery > 0 {
			trainer.SetProgressEvery(cmd.ProgressEvery)
		}
		if cmd.DisableRaises {
			log.Warn().Msg("cannot disable raises when resuming from checkpoint; keeping original abstraction")
		}
		if cmd.MaxRaises > 0 {
			log.Warn().Int("max_raises", cmd.MaxRaises).Msg("cannot change raise limit when resuming from checkpoint; keeping original abstraction")
		}
		if cmd.Smoke {
			log.Warn().Msg("cannot apply smoke preset when resuming from checkpoint; keeping original abstraction")
		}
		trainCfg := trainer.TrainingConfig()
		if mode != trainCfg.Sampling {
			log.Warn().Str("requested", mode.String()).Str("checkpoint", trainCfg.Sampling.String()).Msg("cannot change sampling mode when resuming from checkpoint; keeping original")
		}
		if cmd.CFRPlus && !trainCfg.UseCFRPlus {
			log.Warn().Msg("cannot enable CFR+ when resuming from checkpoint; keeping original regret mode")
		} else if !cmd.CFRPlus && trainCfg.UseCFRPlus {
			log.Warn().Msg("checkpoint was trained with CFR+; continuing with CFR+ mode")
		}
		log.Info().Int("iterations", trainCfg.Iterations).Int("resume_iteration", int(trainer.Iteration())).Int("max_raises", trainCfg.MaxRaisesPerBucket).Int("parallel", trainCfg.ParallelTables).Str("sampling", trainCfg.Sampling.String()).Str("checkpoint", cmd.ResumeFrom).Msg("resuming training run")
	} else {
		var abs solver.AbstractionConfig
		var train solver.TrainingConfig
		if cmd.Config != "" {
			abs, train, err = solver.LoadFileConfig(cmd.Config)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			log.Info().Str("path", cmd.Config).Msg("loaded solver config")
		} else {
			abs = solver.DefaultAbstraction()
			train = solver.DefaultTrainingConfig()
		}

		if cmd.Smoke {
			train.Iterations = 100
			abs.MaxRaisesPerBucket = 2
			train.MaxRaisesPerBucket = 2
			train.AdaptiveRaiseVisits = 0 // Disable adaptive for smoke runs
			log.Info().Msg("applying smoke preset (iterations=100, max_raises=2, adaptive_disabled)")
		}

		if cmd.Iterations > 0 && !cmd.Smoke {
			train.Iterations = cmd.Iterations
		}
		if cmd.Parallel > 0 {
			train.ParallelTables = cmd.Parallel
		}
		if cmd.Seed != 0 {
			train.Seed = cmd.Seed
		}
		if cmd.CheckpointMins > 0 {
			train.CheckpointEvery = time.Duration(cmd.CheckpointMins) * time.Minute
		}
		if cmd.ProgressEvery > 0 {
			train.ProgressEvery = cmd.ProgressEvery
		}
		if cmd.AdaptiveRaiseVisits >= 0 && !cmd.Smoke {
			train.AdaptiveRaiseVisits = cmd.AdaptiveRaiseVisits
		}
		if cmd.DisableRaises {
			train.EnableRaises = false
			abs.EnableRaises = false
			abs.MaxRaisesPerBucket = 0
			train.MaxRaisesPerBucket = 0
		} else if cmd.MaxRaises > 0 {
			abs.MaxRaisesPerBucket = cmd.MaxRaises
			train.MaxRaisesPerBucket = cmd.MaxRaises
		}

		train.UseCFRPlus = cmd.CFRPlus
		train.Sampling = mode

		trainer, err = solver.NewTrainer(abs, train)
		if err != nil {
			return err
		}
		if cmd.CheckpointPath != "" && cmd.CheckpointEvery > 0 {
			trainer.EnableCheckpoints(cmd.CheckpointPath, cmd.CheckpointEvery)
		}
		if cmd.ProgressEvery > 0 {
			trainer.SetProgressEvery(cmd.ProgressEvery)
		}
		if cmd.DisableRaises {
			trainer.SetRaisesEnabled(false)
		}
		log.Info().Int("iterations", train.Iterations).Int("max_raises", abs.MaxRaisesPerBucket).Int("parallel", train.ParallelTables).Bool("cfr_plus", train.UseCFRPlus).Str("sampling", train.Sampling.String()).Msg("starting training run")
	}

	start := time.Now()
	progress := func(p solver.Progress) {
		log.Info().Int("iteration", p.Iteration).Int("infosets", p.RegretTableSize).Int64("nodes", p.Stats.NodesVisited).Int64("terminals", p.Stats.TerminalNodes).Int("max_depth", p.Stats.MaxDepth).Dur("iter_time", p.Stats.IterationTime).Msg("progress")
	}

	if err := trainer.Run(ctx, progress); err != nil {
		return err
	}

	if trainer.TrainingConfig().AdaptiveRaiseVisits > 0 {
		expanded, tracked := trainer.AdaptiveStats()
		log.Info().Int("adaptive_tracked", tracked).Int("adaptive_expanded", expanded).Msg("adaptive raise summary")
	}

	bp := trainer.Blueprint()
	bp.Version = 1
	duration := time.Since(start)
	log.Info().Dur("duration", duration).Int("infosets", len(bp.Strategies)).Msg("training completed")

	if err := bp.Save(cmd.Out); err != nil {
		return fmt.Errorf("save blueprint: %w", err)
	}
	log.Info().Str("path", cmd.Out).Msg("blueprint saved")
	return nil
}

func parseSamplingMode(input string) (solver.SamplingMode, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", "external":
		return solver.SamplingModeExternal, nil
	case "full":
		return solver.SamplingModeFullTraversal, nil
	default:
		return solver.SamplingModeExternal, fmt.Errorf("unknown sampling mode %q", input)
	}
}

func (cmd *EvalCmd) Run(ctx context.Context) error {
	if cmd.Hands <= 0 {
		return fmt.Errorf("hands must be positive (got %d)", cmd.Hands)
	}
	bp, err := solver.LoadBlueprint(cmd.Blueprint)
	if err != nil {
		return fmt.Errorf("load blueprint: %w", err)
	}

	log.Info().
		Str("generated", bp.GeneratedAt.Format(time.RFC3339)).
		Int("iterations", bp.Iterations).
		Int("infosets", len(bp.Strategies)).
		Msg("blueprint loaded")

	opts := evaluationOptions{
		BlueprintPath: cmd.Blueprint,
		Hands:         cmd.Hands,
		Seed:          cmd.Seed,
	}

	res, err := runEvaluation(ctx, log.Logger, opts)
	if err != nil {
		return fmt.Errorf("run evaluation: %w", err)
	}

	log.Info().
		Uint64("hands_completed", res.HandsCompleted).
		Dur("duration", res.Duration).
		Msg("evaluation complete")

	for _, p := range res.Players {
		log.Info().
			Str("player", p.Name).
			Float64("bb_per_100", p.BBPer100).
			Float64("bb_per_hand", p.BBPerHand).
			Int("net_chips", p.NetChips).
			Int("hands", p.Hands).
			Msg("player summary")
	}
	return nil
}
