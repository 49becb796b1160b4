// advisorctl runs the advisory pipeline from the command line, without the
// HTTP server.
//
// Usage:
//
//	advisorctl "Compare Raft vs PBFT for financial trading"
//	advisorctl --interactive
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/praxisworks/advisor/internal/config"
	"github.com/praxisworks/advisor/internal/knowledge"
	"github.com/praxisworks/advisor/internal/llm"
	"github.com/praxisworks/advisor/internal/orchestrator"
	"github.com/praxisworks/advisor/internal/telemetry"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	interactive bool
	model       string
	backendURL  string
	mock        bool
	corpusPath  string
	verbose     bool
}

var exampleQuestions = []string{
	"Compare Raft vs PBFT consensus algorithms for financial trading systems",
	"How do multi-agent systems handle Byzantine fault tolerance?",
	"What are the performance implications of consensus algorithms in HFT?",
}

var rootCmd = &cobra.Command{
	Use:   "advisorctl [question]",
	Short: "Multi-specialist advisory pipeline for technical questions",
	Long: `advisorctl decomposes a technical question, routes it to specialist
roles, gathers cited evidence, and synthesizes a bullet-point report.

With no backend configured (--mock or an empty OLLAMA_URL) the pipeline runs
fully offline on deterministic responses.`,
	Args: cobra.MaximumNArgs(1),
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	RunE: runRoot,
}

func init() {
	f := rootCmd.Flags()
	f.BoolVarP(&rootFlags.interactive, "interactive", "i", false, "Run in interactive mode")
	f.StringVar(&rootFlags.model, "model", "", "Backend model to use (default: llama3:latest)")
	f.StringVar(&rootFlags.backendURL, "backend-url", "", "Backend generate endpoint (default: $OLLAMA_URL)")
	f.BoolVar(&rootFlags.mock, "mock", false, "Force mock mode; never contact a backend")
	f.StringVar(&rootFlags.corpusPath, "corpus", "", "Knowledge corpus YAML (default: built-in corpus)")
	f.BoolVarP(&rootFlags.verbose, "verbose", "v", false, "Print the full event log instead of the tail")
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if rootFlags.model != "" {
		cfg.Backend.Model = rootFlags.model
	}
	if rootFlags.backendURL != "" {
		cfg.Backend.URL = rootFlags.backendURL
	}
	if rootFlags.mock {
		cfg.Backend.URL = ""
	}

	logger := zap.NewNop()
	if rootFlags.verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer logger.Sync()
	}

	source := knowledge.NewSource(logger)
	if rootFlags.corpusPath != "" {
		cfg.Corpus.Path = rootFlags.corpusPath
	}
	if cfg.Corpus.Path != "" {
		if err := source.LoadFile(cfg.Corpus.Path); err != nil {
			fmt.Fprintf(os.Stderr, "warning: corpus %s not loaded (%v); using built-in corpus\n", cfg.Corpus.Path, err)
		}
	}

	p := &pipeline{
		cfg:    cfg,
		source: source,
		logger: logger,
		rec:    telemetry.NewRecorder(logger),
	}

	if rootFlags.interactive {
		return runInteractive(cmd, p)
	}
	if len(args) == 0 {
		return fmt.Errorf("provide a question or use --interactive\n\nUsage: advisorctl \"Compare Raft vs PBFT for financial trading\"")
	}
	p.runQuestion(cmd, args[0])
	return nil
}

// pipeline holds the long-lived pieces of the CLI session. The recorder is
// shared across questions and Reset between them; the orchestrator is
// rebuilt per question so no run state carries over.
type pipeline struct {
	cfg    *config.Config
	source *knowledge.Source
	logger *zap.Logger
	rec    *telemetry.Recorder
}

// runQuestion runs one question through a fresh orchestrator and prints the
// report.
func (p *pipeline) runQuestion(cmd *cobra.Command, question string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nProcessing: %s\n", question)
	fmt.Fprintln(out, strings.Repeat("-", 50))

	client := llm.NewClient(p.cfg.Backend, p.rec, p.logger)
	orch := orchestrator.New(p.source, client, p.rec, p.logger)
	report := orch.Run(cmd.Context(), question)

	events := report.Events
	if rootFlags.verbose {
		events = p.rec.Events()
	}
	fmt.Fprintln(out, "\nRun log:")
	for _, e := range events {
		fmt.Fprintf(out, "  %s\n", e)
	}
	fmt.Fprintf(out, "\n%s\n", report.Answer)
	fmt.Fprintf(out, "\nFinal metrics: %s\n", report.Summary)
}

func runInteractive(cmd *cobra.Command, p *pipeline) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\nInteractive mode")
	fmt.Fprintln(out, "Type 'quit' or 'exit' to leave")
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintln(out, "\nExample questions:")
	for i, q := range exampleQuestions {
		fmt.Fprintf(out, "  %d. %s\n", i+1, q)
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "\n> Enter your question: ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\nGoodbye!")
			return scanner.Err()
		}
		question := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(question) {
		case "quit", "exit", "q":
			fmt.Fprintln(out, "Goodbye!")
			return nil
		case "":
			fmt.Fprintln(out, "Please enter a question.")
			continue
		}

		// A bare number selects an example question.
		if n, err := strconv.Atoi(question); err == nil {
			if n < 1 || n > len(exampleQuestions) {
				fmt.Fprintln(out, "Invalid example number.")
				continue
			}
			question = exampleQuestions[n-1]
			fmt.Fprintf(out, "Using example: %s\n", question)
		}

		p.rec.Reset()
		p.runQuestion(cmd, question)
	}
}
