package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/Veraticus/dateformat/pkg/config"
	"github.com/Veraticus/dateformat/pkg/monitor"
	"github.com/Veraticus/dateformat/pkg/report"
	"github.com/Veraticus/dateformat/pkg/resolver"
	"github.com/Veraticus/dateformat/pkg/server"
)

const shutdownTimeout = 5 * time.Second

// Dependencies holds all the dependencies for the application
type Dependencies struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Resolver *resolver.Resolver
	Reporter report.Reporter
	Monitor  *monitor.InputMonitor
	Server   *server.App
}

// NewDependencies creates all dependencies with the given configuration.
// Results go to stdout and logs to stderr.
func NewDependencies(cfg *config.Config, stdout, stderr io.Writer) (*Dependencies, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	deps := &Dependencies{
		Config: cfg,
		Logger: newLogger(stderr, level),
	}

	deps.Resolver = resolver.New("",
		resolver.WithLocation(loc),
		resolver.WithLogger(deps.Logger),
		resolver.WithMatchTimeout(cfg.MatchTimeout.Duration),
		resolver.WithRules(cfg.Rules...),
	)

	if cfg.Output == config.OutputJSON {
		deps.Reporter = report.NewJSONReporter(stdout)
	} else {
		deps.Reporter = report.NewTextReporter(stdout, cfg.FormatOnly)
	}

	deps.Monitor = monitor.NewInputMonitor(deps.Resolver, deps.Reporter, deps.Logger)
	deps.Monitor.SetExplain(cfg.Explain)

	deps.Server = server.NewApp(deps.Resolver, deps.Logger)

	return deps, nil
}

// newLogger writes human-readable logs, colored only on a terminal
func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	console := zerolog.ConsoleWriter{
		Out:     w,
		NoColor: !isTerminal(w),
	}
	return zerolog.New(console).Level(level).With().Timestamp().Logger()
}

// isTerminal returns true if w is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Application represents the main application
type Application struct {
	deps *Dependencies
}

// NewApplication creates a new application with the given dependencies
func NewApplication(deps *Dependencies) *Application {
	return &Application{
		deps: deps,
	}
}

// Run resolves each date and returns how many failed
func (a *Application) Run(dates []string) int {
	before := a.failed()
	for _, date := range dates {
		a.deps.Monitor.HandleLine(date)
	}
	a.logSummary()
	return a.failed() - before
}

// RunReader resolves every line of r and returns how many failed
func (a *Application) RunReader(r io.Reader) (int, error) {
	before := a.failed()

	reader := bufio.NewReader(r)
	buf := make([]byte, 4096)
	for {
		n, err := reader.Read(buf)
		if n > 0 {
			a.deps.Monitor.HandleData(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			a.deps.Monitor.Flush()
			return a.failed() - before, err
		}
	}
	a.deps.Monitor.Flush()
	a.logSummary()

	return a.failed() - before, nil
}

func (a *Application) failed() int {
	_, failed := a.deps.Monitor.Stats()
	return failed
}

func (a *Application) logSummary() {
	processed, failed := a.deps.Monitor.Stats()
	a.deps.Logger.Debug().
		Int("processed", processed).
		Int("failed", failed).
		Int("rules", len(a.deps.Resolver.Rules())).
		Msg("Done")
}

// Serve runs the HTTP API on addr until ctx is cancelled
func (a *Application) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return a.serveListener(ctx, ln)
}

func (a *Application) serveListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.deps.Server.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	a.deps.Logger.Info().Str("addr", ln.Addr().String()).Msg("Listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
