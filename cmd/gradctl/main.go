package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gradpath/internal/config"
)

var (
	verbose bool
	timeout time.Duration

	logger   *zap.Logger
	aiConfig *config.AIConfig
)

var rootCmd = &cobra.Command{
	Use:   "gradctl",
	Short: "gradpath - graduate admissions assistant",
	Long: `gradctl drafts statements of purpose, evaluates existing ones,
searches scholarships and compares university fees.

Without SOP_EVALUATOR_API_KEY or GEMINI_API_KEY the AI collaborators
answer with sample results after a short simulated delay.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		zc.OutputPaths = []string{"stderr"}
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else {
			zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if aiConfig == nil {
			aiConfig = config.DefaultAIConfig()
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Answer the questionnaire and generate a statement of purpose",
	RunE:  runWizard,
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a statement of purpose",
	Long: `Sends a statement of purpose for evaluation and prints the
strengths, weaknesses, suggestions and overall score.

Example:
  gradctl evaluate --file sop.txt --university "Stanford University" --program "MS CS"`,
	RunE: runEvaluate,
}

var scholarshipsCmd = &cobra.Command{
	Use:   "scholarships",
	Short: "Search scholarships",
	RunE:  runScholarships,
}

var feesCmd = &cobra.Command{
	Use:   "fees [university...]",
	Short: "Compare annual costs of up to five universities",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFees,
}

var (
	wizardOutDir string
	evalOutDir   string

	evalFile       string
	evalText       string
	evalUniversity string
	evalProgram    string
	evalCopy       bool

	searchCriteria struct {
		university, program, country, degree string
		minAmount                            int
	}

	feeProgram   string
	feeDegree    string
	feeCompareBy string
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Operation timeout")

	wizardCmd.Flags().StringVar(&wizardOutDir, "out", ".", "Directory the document is saved to")

	evaluateCmd.Flags().StringVar(&evalFile, "file", "", "SOP file (.pdf, .docx or .txt)")
	evaluateCmd.Flags().StringVar(&evalText, "text", "", "SOP text")
	evaluateCmd.Flags().StringVar(&evalUniversity, "university", "", "Target university (required)")
	evaluateCmd.Flags().StringVar(&evalProgram, "program", "", "Target program (required)")
	evaluateCmd.Flags().BoolVar(&evalCopy, "copy", false, "Copy the evaluated text to the clipboard")
	evaluateCmd.Flags().StringVar(&evalOutDir, "out", "", "Save the evaluated text into this directory")
	evaluateCmd.MarkFlagsMutuallyExclusive("file", "text")

	scholarshipsCmd.Flags().StringVar(&searchCriteria.university, "university", "", "University name contains")
	scholarshipsCmd.Flags().StringVar(&searchCriteria.program, "program", "", "Program contains")
	scholarshipsCmd.Flags().StringVar(&searchCriteria.country, "country", "", "Country")
	scholarshipsCmd.Flags().StringVar(&searchCriteria.degree, "degree", "", "Degree level")
	scholarshipsCmd.Flags().IntVar(&searchCriteria.minAmount, "min-amount", 0, "Minimum amount in USD")

	feesCmd.Flags().StringVar(&feeProgram, "program", "", "Program (required)")
	feesCmd.Flags().StringVar(&feeDegree, "degree", "", "Degree level (required)")
	feesCmd.Flags().StringVar(&feeCompareBy, "compare-by", "total", "Chart metric: total, tuition or living")

	rootCmd.AddCommand(wizardCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(scholarshipsCmd)
	rootCmd.AddCommand(feesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
