package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/Veraticus/dateformat/pkg/config"
	"github.com/Veraticus/dateformat/pkg/types"
)

// Exit codes
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

const ruleFlagSep = "="

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run parses args, resolves every date and returns the exit code
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var (
		configPath string
		listen     string
		timezone   string
		output     string
		rules      []string
		explain    bool
		formatOnly bool
		debug      bool
		help       bool
	)

	flags := flag.NewFlagSet("dateformat", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&configPath, "config", "", "Path to config file (.yaml, .toml or .jsonc)")
	flags.StringVar(&listen, "listen", "", "Serve the HTTP API on this address (e.g. :8080)")
	flags.StringVar(&timezone, "tz", "", "Location for dates without a zone (default Local)")
	flags.StringVar(&output, "output", "", "Output format: text or json")
	flags.StringArrayVar(&rules, "rule", nil, "Extra rule as REGEX=FORMAT (repeatable)")
	flags.BoolVar(&explain, "explain", false, "List every rule matching each date")
	flags.BoolVar(&formatOnly, "format-only", false, "Print the resolved format only")
	flags.BoolVar(&debug, "debug", false, "Enable debug logging on stderr")
	flags.BoolVar(&help, "help", false, "Show help message")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(stdout, flags)
			return exitOK
		}
		return exitUsage
	}

	if help {
		printUsage(stdout, flags)
		return exitOK
	}

	// Load configuration
	cfg, err := config.LoadPath(configPath)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return exitUsage
	}

	// Override config with command line flags
	if timezone != "" {
		cfg.Timezone = timezone
	}
	if output != "" {
		cfg.Output = output
	}
	if listen != "" {
		cfg.Listen = listen
	}
	if debug {
		cfg.Debug = true
	}
	if explain {
		cfg.Explain = true
	}
	if formatOnly {
		cfg.FormatOnly = true
	}
	for _, raw := range rules {
		rule, err := parseRuleFlag(raw)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitUsage
		}
		cfg.Rules = append(cfg.Rules, rule)
	}

	if err := config.Validate(cfg); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return exitUsage
	}

	// Create dependencies
	deps, err := NewDependencies(cfg, stdout, stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error creating dependencies: %v\n", err)
		return exitUsage
	}

	app := NewApplication(deps)

	if cfg.Listen != "" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := app.Serve(ctx, cfg.Listen); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error serving: %v\n", err)
			return exitFailed
		}
		return exitOK
	}

	var failed int
	if dates := flags.Args(); len(dates) > 0 {
		failed = app.Run(dates)
	} else {
		failed, err = app.RunReader(stdin)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error reading input: %v\n", err)
			return exitFailed
		}
	}

	if failed > 0 {
		return exitFailed
	}
	return exitOK
}

// parseRuleFlag splits REGEX=FORMAT at the last separator, since
// expressions may contain '=' in lookarounds.
func parseRuleFlag(raw string) (types.Rule, error) {
	i := strings.LastIndex(raw, ruleFlagSep)
	if i <= 0 || i == len(raw)-1 {
		return types.Rule{}, fmt.Errorf("invalid --rule %q (want REGEX=FORMAT)", raw)
	}
	return types.Rule{
		Name:   "flag",
		Regex:  raw[:i],
		Format: raw[i+1:],
	}, nil
}

func printUsage(w io.Writer, flags *flag.FlagSet) {
	_, _ = fmt.Fprintln(w, "dateformat - determine the format of date strings and convert them to epoch milliseconds")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Usage: dateformat [OPTIONS] [DATE...]")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "With no DATE arguments, dates are read from stdin one per line.")
	_, _ = fmt.Fprintln(w, "With --listen, dates are resolved over HTTP:")
	_, _ = fmt.Fprintln(w, "  GET  /api/v1/resolve?value=DATE[&explain=true]")
	_, _ = fmt.Fprintln(w, "  GET  /api/v1/rules")
	_, _ = fmt.Fprintln(w, "  POST /api/v1/rules  {\"regex\": ..., \"format\": ...}")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Options:")
	_, _ = fmt.Fprint(w, flags.FlagUsages())
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Environment Variables:")
	_, _ = fmt.Fprintln(w, "  DATEFORMAT_CONFIG         Path to config file")
	_, _ = fmt.Fprintln(w, "  DATEFORMAT_TZ             Location for dates without a zone")
	_, _ = fmt.Fprintln(w, "  DATEFORMAT_OUTPUT         Output format (text/json)")
	_, _ = fmt.Fprintln(w, "  DATEFORMAT_LISTEN         Serve the HTTP API on this address")
	_, _ = fmt.Fprintln(w, "  DATEFORMAT_MATCH_TIMEOUT  Per-rule match timeout (default: 100ms)")
	_, _ = fmt.Fprintln(w, "  DATEFORMAT_LOG_LEVEL      Log level (default: warn)")
	_, _ = fmt.Fprintln(w, "  DATEFORMAT_DEBUG          Enable debug logging (true/false)")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Configuration file: ~/.config/dateformat/config.yaml")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Exit status is 0 when every date resolves, 1 when any fails and 2 for usage errors.")
}
