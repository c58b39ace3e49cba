package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"qswitch/internal/code"
	"qswitch/internal/config"
	"qswitch/internal/convert"
	"qswitch/internal/encode"
	"qswitch/internal/pauli"
	"qswitch/internal/suite"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Run flags
	codeName   string
	initial    int
	errorType  string
	errorQubit int
	convertTo  string
	decodeMode string
	projected  bool

	// Suite flags
	suiteWorkers int

	logger *zap.Logger
	cfg    *config.Config
)

// rootCmd runs a single code or a conversion between the two codes.
var rootCmd = &cobra.Command{
	Use:   "qswitch",
	Short: "qswitch - quantum error-correcting code switcher",
	Long: `qswitch simulates a single logical qubit held in one of two stabilizer
codes (Surface-13, Surface-17) on an exact state-vector engine: logical
state preparation, single-qubit fault injection, syndrome extraction, and
switching the logical state between the codes.

Measurement is expectation-value based; nothing collapses, so every run is
deterministic.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		// Initialize logger
		zc := zap.NewProductionConfig()
		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("failed to parse log level: %w", err)
		}
		zc.Level = zap.NewAtomicLevelAt(parsed)
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runRequest,
}

var suiteCmd = &cobra.Command{
	Use:   "suite",
	Short: "Run the built-in verification scenarios",
	Long: `Runs the reference scenario table: every documented single-code case with
its expected syndrome and logical value, and the conversion cases checked
against their clean baselines. Cases run in parallel, one register each.`,
	RunE: runSuite,
}

var codesCmd = &cobra.Command{
	Use:   "codes",
	Short: "Print the stabilizer tables of the built-in codes",
	RunE:  runCodes,
}

func buildRequest(cmd *cobra.Command) (convert.Request, error) {
	if codeName == "" {
		if convertTo == "" {
			return convert.Request{}, fmt.Errorf("--code is required (surface13 or surface17)")
		}
		// Conversion with an implicit source.
		codeName = cfg.DefaultCode
	}
	src, err := code.ByName(codeName)
	if err != nil {
		return convert.Request{}, err
	}
	op, err := pauli.Parse(errorType)
	if err != nil {
		return convert.Request{}, err
	}
	if !cmd.Flags().Changed("initial") {
		initial = cfg.DefaultInitial
	}
	if !cmd.Flags().Changed("decode_mode") {
		decodeMode = cfg.DecodeMode
	}
	mode, err := encode.ParseDecodeMode(decodeMode)
	if err != nil {
		return convert.Request{}, err
	}

	req := convert.Request{
		Source:     src,
		Initial:    initial,
		Error:      op,
		ErrorQubit: errorQubit,
		DecodeMode: mode,
		Projected:  projected,
	}
	if convertTo != "" && convertTo != codeName {
		tgt, err := code.ByName(convertTo)
		if err != nil {
			return convert.Request{}, err
		}
		req.Target = tgt
	}
	return req, nil
}

func runRequest(cmd *cobra.Command, args []string) error {
	req, err := buildRequest(cmd)
	if err != nil {
		return err
	}
	res, err := convert.NewPipeline(logger).Run(req)
	if err != nil {
		return err
	}
	if req.DecodeMode == encode.DecodeSyndromeAssisted {
		logger.Info("decoded",
			zap.Int("bit", res.Decision.Bit),
			zap.Strings("flipped", res.Decision.Flipped))
	}
	fmt.Println(strings.Join(res.Render(), "\n"))
	return nil
}

func runSuite(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !cmd.Flags().Changed("workers") {
		suiteWorkers = cfg.SuiteWorkers
	}
	report, err := suite.Run(ctx, logger, suite.Builtin(), suiteWorkers)
	if err != nil {
		return err
	}
	fmt.Println(strings.Join(report.Render(), "\n"))
	if !report.Ok() {
		return fmt.Errorf("%d of %d cases failed", report.Total()-report.Passed, report.Total())
	}
	return nil
}

func runCodes(cmd *cobra.Command, args []string) error {
	for _, name := range code.Names() {
		def, err := code.ByName(name)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s): %d data qubits, %d ancillas\n",
			def.Label, def.Name, def.DataQubits, def.AncillaQubits)
		for _, s := range def.Stabilizers {
			fmt.Printf("  %-3s %s  data %v  ancilla %d\n", s.Name, s.Basis, s.Data, s.Ancilla)
		}
		fmt.Printf("  logical X: %v\n", def.LogicalX)
		fmt.Printf("  logical Z: %v\n\n", def.LogicalZ)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "qswitch.yaml", "Config file path")

	rootCmd.Flags().StringVar(&codeName, "code", "", "Select which surface code to run (surface13 or surface17)")
	rootCmd.Flags().IntVar(&initial, "initial", 0, "Initial logical state (0 or 1)")
	rootCmd.Flags().StringVar(&errorType, "error_type", "", "Type of single-qubit error to apply (X, Y, or Z)")
	rootCmd.Flags().IntVar(&errorQubit, "error_qubit", convert.NoErrorQubit, "Index of qubit to apply error")
	rootCmd.Flags().StringVar(&convertTo, "convert_to", "", "Convert to this code (if specified)")
	rootCmd.Flags().StringVar(&decodeMode, "decode_mode", "raw", "Logical decode mode (raw or syndrome)")
	rootCmd.Flags().BoolVar(&projected, "projected", false, "Use the exact code-space preparation (plain runs only)")

	suiteCmd.Flags().IntVar(&suiteWorkers, "workers", 4, "Parallel suite workers")

	rootCmd.AddCommand(suiteCmd)
	rootCmd.AddCommand(codesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
