package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/elmgo-ml/elmgo/core/model"
	"github.com/elmgo-ml/elmgo/dataset"
	"github.com/elmgo-ml/elmgo/elm"
	"github.com/elmgo-ml/elmgo/internal/config"
	"github.com/elmgo-ml/elmgo/mha"
	"github.com/elmgo-ml/elmgo/pkg/log"
	"github.com/elmgo-ml/elmgo/visual"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Fit a model on a CSV dataset",
	Long: `Fit an extreme learning machine on a CSV dataset and save it.

Examples:
  # Plain ELM regression on the last column of data.csv
  elmgo train --data data.csv

  # GA-tuned classifier with a held-out test split and a convergence chart
  elmgo train --data iris.csv --task classification --tuned \
      --epochs 200 --convergence-png curve.png --test-size 0.2`,
	RunE: runTrain,
}

func init() {
	trainCmd.Flags().String("data", "", "training CSV path (required)")
	trainCmd.Flags().String("target", "", "target column name (default: last column)")
	trainCmd.Flags().String("task", "", "regression or classification")
	trainCmd.Flags().Bool("tuned", false, "tune hidden weights with a metaheuristic")
	trainCmd.Flags().String("optimizer", "", "metaheuristic to use: GA, PSO or DE")
	trainCmd.Flags().String("objective", "", "training metric short code, e.g. RMSE or AS")
	trainCmd.Flags().Int("epochs", 0, "metaheuristic epochs")
	trainCmd.Flags().Float64("test-size", -1, "fraction of data held out for evaluation")
	trainCmd.Flags().String("model", "", "output path for the fitted model")
	trainCmd.Flags().String("loss-csv", "", "write the per-epoch loss history to this CSV")
	trainCmd.Flags().String("convergence-png", "", "write a convergence chart to this image")
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyTrainFlags(cmd, cfg)
	if cfg.Data == "" {
		return fmt.Errorf("--data is required")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := log.GetLoggerWithName("cli")

	ds, err := dataset.LoadCSV(cfg.Data, dataset.CSVOptions{
		HasHeader:    cfg.HasHeader,
		TargetColumn: cfg.TargetColumn,
	})
	if err != nil {
		return err
	}
	logger.Info("dataset loaded",
		log.SamplesKey, ds.NSamples(),
		log.FeaturesKey, ds.NFeatures(),
	)

	if cfg.Task == "classification" {
		return trainClassifier(cmd, cfg, ds, logger)
	}
	return trainRegressor(cmd, cfg, ds, logger)
}

func trainRegressor(cmd *cobra.Command, cfg *config.Config, ds *dataset.Dataset, logger log.Logger) error {
	XTrain, YTrain := ds.X, ds.Y
	var XTest, YTest *mat.Dense
	if cfg.TestSize > 0 {
		split, err := dataset.TrainTestSplit(ds.X, ds.Y, cfg.TestSize, cfg.Seed)
		if err != nil {
			return err
		}
		XTrain, YTrain = split.XTrain, split.YTrain
		XTest, YTest = split.XTest, split.YTest
	}

	opts := estimatorOptions(cfg)
	var history []float64
	var persistable interface{}

	start := time.Now()
	if cfg.Tuned {
		reg, err := elm.NewMhaELMRegressor(opts...)
		if err != nil {
			return err
		}
		if err := reg.Fit(cmd.Context(), XTrain, YTrain); err != nil {
			return err
		}
		history = reg.LossCurve()
		persistable = reg
	} else {
		reg, err := elm.NewELMRegressor(opts...)
		if err != nil {
			return err
		}
		if err := reg.Fit(XTrain, YTrain); err != nil {
			return err
		}
		persistable = reg
	}
	logger.Info("training complete",
		log.PhaseKey, log.PhaseTraining,
		log.DurationMsKey, time.Since(start).Milliseconds(),
		log.RandomSeedKey, cfg.Seed,
	)

	if XTest != nil {
		if err := reportRegression(persistable.(regressionScorer), XTest, YTest, logger); err != nil {
			return err
		}
	}
	return finishTraining(cfg, persistable, history, logger)
}

func trainClassifier(cmd *cobra.Command, cfg *config.Config, ds *dataset.Dataset, logger log.Logger) error {
	labels, err := ds.Labels()
	if err != nil {
		return err
	}

	XTrain, trainLabels := ds.X, labels
	var XTest *mat.Dense
	var testLabels []int
	if cfg.TestSize > 0 {
		split, err := dataset.StratifiedTrainTestSplit(ds.X, ds.Y, labels, cfg.TestSize, cfg.Seed)
		if err != nil {
			return err
		}
		XTrain, XTest = split.XTrain, split.XTest
		trainLabels, err = labelColumn(split.YTrain)
		if err != nil {
			return err
		}
		testLabels, err = labelColumn(split.YTest)
		if err != nil {
			return err
		}
	}

	opts := estimatorOptions(cfg)
	var history []float64
	var persistable interface{}

	start := time.Now()
	if cfg.Tuned {
		clf, err := elm.NewMhaELMClassifier(opts...)
		if err != nil {
			return err
		}
		if err := clf.Fit(cmd.Context(), XTrain, trainLabels); err != nil {
			return err
		}
		history = clf.LossCurve()
		persistable = clf
	} else {
		clf, err := elm.NewELMClassifier(opts...)
		if err != nil {
			return err
		}
		if err := clf.Fit(XTrain, trainLabels); err != nil {
			return err
		}
		persistable = clf
	}
	logger.Info("training complete",
		log.PhaseKey, log.PhaseTraining,
		log.DurationMsKey, time.Since(start).Milliseconds(),
		log.RandomSeedKey, cfg.Seed,
	)

	if XTest != nil {
		if err := reportClassification(persistable.(classificationScorer), XTest, testLabels, logger); err != nil {
			return err
		}
	}
	return finishTraining(cfg, persistable, history, logger)
}

// estimatorOptions translates the CLI config to estimator options.
func estimatorOptions(cfg *config.Config) []elm.Option {
	opts := []elm.Option{
		elm.WithLayerSizes(cfg.LayerSizes...),
		elm.WithActivation(cfg.Activation),
		elm.WithSeed(cfg.Seed),
	}
	if cfg.Tuned {
		optCfg := mha.DefaultConfig()
		optCfg.Epochs = cfg.Epochs
		optCfg.PopSize = cfg.PopSize
		optCfg.Seed = cfg.Seed
		opts = append(opts,
			elm.WithOptimizer(cfg.Optimizer),
			elm.WithOptimizerConfig(optCfg),
			elm.WithObjective(cfg.DefaultObjective()),
			elm.WithBounds([]float64{cfg.LowerBound}, []float64{cfg.UpperBound}),
			elm.WithParallelFitness(cfg.Parallel),
		)
	}
	return opts
}

type regressionScorer interface {
	Scores(X, y mat.Matrix, names []string) (map[string]float64, error)
}

type classificationScorer interface {
	Scores(X mat.Matrix, y []int, names []string) (map[string]float64, error)
}

func reportRegression(reg regressionScorer, X, Y mat.Matrix, logger log.Logger) error {
	scores, err := reg.Scores(X, Y, []string{"RMSE", "MAE", "R2"})
	if err != nil {
		return err
	}
	logger.Info("test scores",
		log.OperationKey, log.OperationScore,
		log.PhaseKey, log.PhaseTesting,
		"RMSE", scores["RMSE"],
		"MAE", scores["MAE"],
		log.R2ScoreKey, scores["R2"],
	)
	return nil
}

func reportClassification(clf classificationScorer, X mat.Matrix, y []int, logger log.Logger) error {
	scores, err := clf.Scores(X, y, []string{"AS", "F1S"})
	if err != nil {
		return err
	}
	logger.Info("test scores",
		log.OperationKey, log.OperationScore,
		log.PhaseKey, log.PhaseTesting,
		log.AccuracyKey, scores["AS"],
		"F1S", scores["F1S"],
	)
	return nil
}

func finishTraining(cfg *config.Config, persistable interface{}, history []float64, logger log.Logger) error {
	if err := model.SaveModel(persistable, cfg.Model); err != nil {
		return err
	}
	logger.Info("model saved", "path", cfg.Model)

	if cfg.LossCSV != "" && len(history) > 0 {
		if err := elm.SaveLossCSV(cfg.LossCSV, history); err != nil {
			return err
		}
	}
	if cfg.ConvergencePNG != "" && len(history) > 0 {
		err := visual.SaveConvergencePNG(cfg.ConvergencePNG, history, visual.ConvergenceOptions{
			Title:  fmt.Sprintf("%s convergence", cfg.Optimizer),
			YLabel: cfg.DefaultObjective(),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// labelColumn converts a single-column float matrix back to integer labels.
func labelColumn(Y *mat.Dense) ([]int, error) {
	rows, _ := Y.Dims()
	labels := make([]int, rows)
	for i := 0; i < rows; i++ {
		labels[i] = int(Y.At(i, 0))
	}
	return labels, nil
}

// loadConfig resolves the koanf configuration for a command invocation.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// applyTrainFlags overlays explicitly set command flags onto the config.
func applyTrainFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("data") {
		cfg.Data, _ = cmd.Flags().GetString("data")
	}
	if cmd.Flags().Changed("target") {
		cfg.TargetColumn, _ = cmd.Flags().GetString("target")
	}
	if cmd.Flags().Changed("task") {
		cfg.Task, _ = cmd.Flags().GetString("task")
	}
	if cmd.Flags().Changed("tuned") {
		cfg.Tuned, _ = cmd.Flags().GetBool("tuned")
	}
	if cmd.Flags().Changed("optimizer") {
		cfg.Optimizer, _ = cmd.Flags().GetString("optimizer")
	}
	if cmd.Flags().Changed("objective") {
		cfg.Objective, _ = cmd.Flags().GetString("objective")
	}
	if cmd.Flags().Changed("epochs") {
		cfg.Epochs, _ = cmd.Flags().GetInt("epochs")
	}
	if cmd.Flags().Changed("test-size") {
		cfg.TestSize, _ = cmd.Flags().GetFloat64("test-size")
	}
	if cmd.Flags().Changed("model") {
		cfg.Model, _ = cmd.Flags().GetString("model")
	}
	if cmd.Flags().Changed("loss-csv") {
		cfg.LossCSV, _ = cmd.Flags().GetString("loss-csv")
	}
	if cmd.Flags().Changed("convergence-png") {
		cfg.ConvergencePNG, _ = cmd.Flags().GetString("convergence-png")
	}
}
