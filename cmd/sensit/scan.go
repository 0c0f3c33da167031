package sensit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sensit/sensit/internal/aivalidate"
	"github.com/sensit/sensit/internal/audit"
	"github.com/sensit/sensit/internal/config"
	"github.com/sensit/sensit/internal/extract"
	"github.com/sensit/sensit/internal/livecheck"
	"github.com/sensit/sensit/internal/pipeline"
	"github.com/sensit/sensit/internal/report"
	"github.com/sensit/sensit/internal/rules"
	"github.com/sensit/sensit/internal/source"
	"github.com/sensit/sensit/internal/types"
)

var (
	flagURL       string
	flagFile      string
	flagDirectory string

	flagConfig        string
	flagOutput        string
	flagSARIFOut      string
	flagJSONOnly      bool
	flagNoAI          bool
	flagNoAPI         bool
	flagAIProvider    string
	flagMinConfidence float64
	flagShowScore     bool

	flagRules         string
	flagInclude       string
	flagExclude       string
	flagMaxBytes      int64
	flagMinEntropy    float64
	flagMinLength     int
	flagCrawlDepth    int
	flagCrawlMaxPages int
	flagTimeout       time.Duration
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a file, directory or URL for credentials",
		RunE:  runScan,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagURL, "url", "u", "", "scan a web page (same-domain crawl)")
	cmd.Flags().StringVarP(&flagFile, "file", "f", "", "scan a single file")
	cmd.Flags().StringVarP(&flagDirectory, "directory", "d", "", "scan a directory tree")

	cmd.Flags().StringVarP(&flagConfig, "config", "c", "", "explicit config file path (skips the local/global search)")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "write JSON report to this file")
	cmd.Flags().StringVar(&flagSARIFOut, "sarif", "", "write SARIF 2.1.0 report to this file")
	cmd.Flags().BoolVar(&flagJSONOnly, "json-only", false, "print the JSON report to stdout instead of the terminal view")
	cmd.Flags().BoolVar(&flagNoAI, "no-ai", false, "skip AI confidence validation")
	cmd.Flags().BoolVar(&flagNoAPI, "no-api", false, "skip live API validation")
	cmd.Flags().StringVar(&flagAIProvider, "ai-provider", "", "AI provider: openai|gemini|ollama|azure-openai")
	cmd.Flags().Float64Var(&flagMinConfidence, "min-confidence", 0, "skip live checks for secrets below this AI confidence (0-100)")
	cmd.Flags().BoolVar(&flagShowScore, "show-score", false, "show the composite 0-100 score per secret")

	cmd.Flags().StringVar(&flagRules, "rules", "", "custom rule pattern file (YAML)")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 0, "skip files larger than this (default 10MB)")
	cmd.Flags().Float64Var(&flagMinEntropy, "min-entropy", 0, "entropy threshold in bits/symbol (default 3.5)")
	cmd.Flags().IntVar(&flagMinLength, "min-length", 0, "minimum literal length for entropy candidates (default 12)")
	cmd.Flags().IntVar(&flagCrawlDepth, "crawl-depth", 0, "maximum crawl depth from the start URL (default 2)")
	cmd.Flags().IntVar(&flagCrawlMaxPages, "crawl-max-pages", 0, "maximum pages fetched per crawl (default 30)")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "per live check timeout (default 10s)")
}

func runScan(cmd *cobra.Command, _ []string) error {
	log := newLogger()

	// Config precedence: CLI > local file > global file > environment.
	var gcfg, lcfg config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	}
	if flagConfig != "" {
		c, err := config.LoadFile(flagConfig)
		if err != nil {
			return fmt.Errorf("config %s: %w", flagConfig, err)
		}
		lcfg = c
	} else {
		cfgRoot := "."
		if flagDirectory != "" {
			cfgRoot = flagDirectory
		}
		if c, err := config.LoadLocal(cfgRoot); err == nil {
			lcfg = c
		}
	}
	lcfg.ApplyEnv()
	gcfg.ApplyEnv()

	src, target, err := selectTarget(lcfg, gcfg, log)
	if err != nil {
		return err
	}

	set := loadRules(lcfg, gcfg, log)
	minEntropy := pickFloat(flagMinEntropy, extractionFloat(lcfg, func(e *config.ExtractionConfig) *float64 { return e.MinEntropy }), extractionFloat(gcfg, func(e *config.ExtractionConfig) *float64 { return e.MinEntropy }))
	minLength := pickInt(flagMinLength, extractionInt(lcfg, func(e *config.ExtractionConfig) *int { return e.MinLength }), extractionInt(gcfg, func(e *config.ExtractionConfig) *int { return e.MinLength }))

	p := &pipeline.Pipeline{
		Matcher:  extract.NewMatcher(set, log),
		Analyzer: extract.NewAnalyzer(minEntropy, minLength, log),
		Log:      log,
	}

	if !skipAI(lcfg, gcfg) {
		if provider := buildProvider(lcfg, gcfg, log); provider != nil {
			p.AI = aivalidate.NewValidator(provider, log)
		}
	}
	if !skipAPI(lcfg, gcfg) {
		timeout := flagTimeout
		if timeout == 0 {
			if secs := validationInt(lcfg, gcfg, func(v *config.ValidationConfig) *int { return v.TimeoutSecs }); secs > 0 {
				timeout = time.Duration(secs) * time.Second
			}
		}
		p.Live = livecheck.NewValidator(timeout, log)
	}
	p.Opts.MinConfidence = pickFloat(flagMinConfidence,
		validationFloatPtr(lcfg, func(v *config.ValidationConfig) *float64 { return v.MinConfidence }),
		validationFloatPtr(gcfg, func(v *config.ValidationConfig) *float64 { return v.MinConfidence }))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithField("target", target).Info("starting scan")
	res, runErr := p.Run(ctx, src, target)

	if flagJSONOnly {
		if err := report.WriteJSON(os.Stdout, res); err != nil {
			log.WithError(err).Error("json output failed")
		}
	} else {
		report.Render(os.Stdout, res, report.PrintOptions{NoColor: flagNoColor, ShowScore: flagShowScore})
	}
	writeExports(res, log)

	if err := audit.New().Record(audit.Summarize(res)); err != nil {
		log.WithError(err).Debug("audit record not written")
	}

	if errors.Is(runErr, context.Canceled) {
		log.Warn("scan interrupted, partial results shown")
		osExit(130)
		return nil
	}
	if runErr != nil {
		// Execute maps this to exit 1; 2 stays reserved for live-confirmed
		// results.
		log.WithError(runErr).Error("scan failed")
		return runErr
	}

	osExit(exitCode(res))
	return nil
}

// exitCode maps the scan outcome onto the process exit contract: 0 when
// clean, 1 when candidates were found, 2 when at least one is a working
// credential.
func exitCode(res *types.ScanResult) int {
	switch {
	case len(res.LiveConfirmed()) > 0:
		return 2
	case len(res.Secrets) > 0:
		return 1
	}
	return 0
}

// selectTarget maps the target flags onto a content source. Exactly one of
// --url, --file, --directory must be set. Source tuning follows the usual
// precedence: flags, then the scanning block of the local and global config.
func selectTarget(lcfg, gcfg config.FileConfig, log logrus.FieldLogger) (source.Source, string, error) {
	n := 0
	for _, f := range []string{flagURL, flagFile, flagDirectory} {
		if f != "" {
			n++
		}
	}
	if n != 1 {
		return nil, "", errors.New("exactly one of --url, --file or --directory is required")
	}
	maxBytes := pickInt64(flagMaxBytes,
		scanningInt64(lcfg, func(s *config.ScanningConfig) *int64 { return s.MaxBytes }),
		scanningInt64(gcfg, func(s *config.ScanningConfig) *int64 { return s.MaxBytes }))
	switch {
	case flagURL != "":
		c := source.NewCrawlSource(log)
		if depth := pickInt(flagCrawlDepth,
			scanningInt(lcfg, func(s *config.ScanningConfig) *int { return s.CrawlDepth }),
			scanningInt(gcfg, func(s *config.ScanningConfig) *int { return s.CrawlDepth })); depth > 0 {
			c.MaxDepth = depth
		}
		if pages := pickInt(flagCrawlMaxPages,
			scanningInt(lcfg, func(s *config.ScanningConfig) *int { return s.CrawlMaxPages }),
			scanningInt(gcfg, func(s *config.ScanningConfig) *int { return s.CrawlMaxPages })); pages > 0 {
			c.MaxPages = pages
		}
		return c, flagURL, nil
	case flagFile != "":
		f := source.NewFileSource()
		if maxBytes > 0 {
			f.MaxBytes = maxBytes
		}
		abs, _ := filepath.Abs(flagFile)
		return f, abs, nil
	default:
		d := source.NewDirSource(log)
		if maxBytes > 0 {
			d.MaxBytes = maxBytes
		}
		if inc := pickString(flagInclude,
			scanningString(lcfg, func(s *config.ScanningConfig) *string { return s.Include }),
			scanningString(gcfg, func(s *config.ScanningConfig) *string { return s.Include })); inc != "" {
			d.IncludeGlobs = splitGlobs(inc)
		}
		if exc := pickString(flagExclude,
			scanningString(lcfg, func(s *config.ScanningConfig) *string { return s.Exclude }),
			scanningString(gcfg, func(s *config.ScanningConfig) *string { return s.Exclude })); exc != "" {
			d.ExcludeGlobs = splitGlobs(exc)
		}
		abs, _ := filepath.Abs(flagDirectory)
		return d, abs, nil
	}
}

func loadRules(lcfg, gcfg config.FileConfig, log logrus.FieldLogger) rules.Set {
	path := pickString(flagRules, lcfg.RulesPath, gcfg.RulesPath)
	if path != "" {
		return rules.Load(path, log)
	}
	return rules.Builtin(log)
}

// buildProvider assembles the AI provider from flags, file config and
// environment. Returns nil when no provider is usable; the pipeline then
// degrades to extraction-only scoring.
func buildProvider(lcfg, gcfg config.FileConfig, log logrus.FieldLogger) aivalidate.Provider {
	name := pickString(flagAIProvider, lcfg.AIProvider, gcfg.AIProvider)

	cfg := aivalidate.Config{Provider: name}
	switch name {
	case "gemini":
		pc := firstProvider(lcfg.Gemini, gcfg.Gemini)
		fillProviderConfig(&cfg, pc)
	case "ollama":
		pc := firstProvider(lcfg.Ollama, gcfg.Ollama)
		fillProviderConfig(&cfg, pc)
	case "azure-openai":
		ac := lcfg.Azure
		if ac == nil || ac.APIKey == nil {
			ac = gcfg.Azure
		}
		if ac != nil {
			cfg.APIKey = strDeref(ac.APIKey)
			cfg.Endpoint = strDeref(ac.Endpoint)
			cfg.Deployment = strDeref(ac.Deployment)
			cfg.MaxTokens = intDeref(ac.MaxTokens)
			cfg.BatchSize = intDeref(ac.BatchSize)
		}
	default: // openai or unset
		pc := firstProvider(lcfg.OpenAI, gcfg.OpenAI)
		fillProviderConfig(&cfg, pc)
		if name == "" && cfg.APIKey == "" {
			log.Info("no AI provider configured, skipping confidence validation")
			return nil
		}
	}

	provider, err := aivalidate.New(cfg, log)
	if err != nil {
		log.WithError(err).Warn("AI provider unavailable, continuing without confidence validation")
		return nil
	}
	return provider
}

func fillProviderConfig(cfg *aivalidate.Config, pc *config.ProviderConfig) {
	if pc == nil {
		return
	}
	cfg.APIKey = strDeref(pc.APIKey)
	cfg.Model = strDeref(pc.Model)
	cfg.BaseURL = strDeref(pc.BaseURL)
	cfg.MaxTokens = intDeref(pc.MaxTokens)
	cfg.BatchSize = intDeref(pc.BatchSize)
	if pc.Temp != nil {
		cfg.Temperature = *pc.Temp
	}
}

func firstProvider(local, global *config.ProviderConfig) *config.ProviderConfig {
	if local != nil && local.APIKey != nil {
		return local
	}
	if global != nil && global.APIKey != nil {
		return global
	}
	if local != nil {
		return local
	}
	return global
}

func skipAI(lcfg, gcfg config.FileConfig) bool {
	if flagNoAI {
		return true
	}
	return validationBool(lcfg, gcfg, func(v *config.ValidationConfig) *bool { return v.NoAI })
}

func skipAPI(lcfg, gcfg config.FileConfig) bool {
	if flagNoAPI {
		return true
	}
	return validationBool(lcfg, gcfg, func(v *config.ValidationConfig) *bool { return v.NoAPI })
}

func writeExports(res *types.ScanResult, log logrus.FieldLogger) {
	if flagOutput != "" {
		if err := report.ExportJSON(flagOutput, res); err != nil {
			log.WithError(err).Error("json export failed")
		} else {
			log.WithField("path", flagOutput).Info("wrote JSON report")
		}
	}
	if flagSARIFOut != "" {
		f, err := os.Create(flagSARIFOut)
		if err != nil {
			log.WithError(err).Error("sarif export failed")
			return
		}
		defer f.Close()
		if err := report.WriteSARIF(f, res, version); err != nil {
			log.WithError(err).Error("sarif export failed")
		} else {
			log.WithField("path", flagSARIFOut).Info("wrote SARIF report")
		}
	}
}

func splitGlobs(s string) []string {
	var out []string
	for _, g := range strings.Split(s, ",") {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}

func scanningString(fc config.FileConfig, get func(*config.ScanningConfig) *string) *string {
	if fc.Scanning == nil {
		return nil
	}
	return get(fc.Scanning)
}

func scanningInt(fc config.FileConfig, get func(*config.ScanningConfig) *int) *int {
	if fc.Scanning == nil {
		return nil
	}
	return get(fc.Scanning)
}

func scanningInt64(fc config.FileConfig, get func(*config.ScanningConfig) *int64) *int64 {
	if fc.Scanning == nil {
		return nil
	}
	return get(fc.Scanning)
}

func extractionFloat(fc config.FileConfig, get func(*config.ExtractionConfig) *float64) *float64 {
	if fc.Extraction == nil {
		return nil
	}
	return get(fc.Extraction)
}

func extractionInt(fc config.FileConfig, get func(*config.ExtractionConfig) *int) *int {
	if fc.Extraction == nil {
		return nil
	}
	return get(fc.Extraction)
}

func validationFloatPtr(fc config.FileConfig, get func(*config.ValidationConfig) *float64) *float64 {
	if fc.Validation == nil {
		return nil
	}
	return get(fc.Validation)
}

func validationInt(lcfg, gcfg config.FileConfig, get func(*config.ValidationConfig) *int) int {
	for _, fc := range []config.FileConfig{lcfg, gcfg} {
		if fc.Validation != nil {
			if v := get(fc.Validation); v != nil {
				return *v
			}
		}
	}
	return 0
}

func validationBool(lcfg, gcfg config.FileConfig, get func(*config.ValidationConfig) *bool) bool {
	for _, fc := range []config.FileConfig{lcfg, gcfg} {
		if fc.Validation != nil {
			if v := get(fc.Validation); v != nil {
				return *v
			}
		}
	}
	return false
}
