package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Siphelele-Maphumulo/WeatherApp/internal/config"
	"github.com/Siphelele-Maphumulo/WeatherApp/pkg/view"
	"github.com/Siphelele-Maphumulo/WeatherApp/pkg/weather/openweather"
)

const prompt = "Enter city name... "

type options struct {
	city  string
	once  bool
	test  bool
	debug bool
	help  bool
}

func parseArgs(args []string) (options, error) {
	var opts options
	for _, arg := range args {
		switch arg {
		case "-once":
			opts.once = true
		case "-test":
			opts.test = true
		case "-debug":
			opts.debug = true
		case "-h", "-help", "--help":
			opts.help = true
		default:
			if strings.HasPrefix(arg, "-") {
				return opts, fmt.Errorf("unknown flag: %s", arg)
			}
			if opts.city != "" {
				return opts, fmt.Errorf("unexpected argument: %s", arg)
			}
			opts.city = arg
		}
	}
	return opts, nil
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: weather [city] [-once] [-test] [-debug]")
	fmt.Fprintln(w, "Examples: weather")
	fmt.Fprintln(w, "          weather \"Cape Town\"")
	fmt.Fprintln(w, "          weather Durban -once")
	fmt.Fprintln(w, "          weather -test -debug")
	fmt.Fprintln(w, "Type a city name and press enter to look it up; \"quit\" or EOF exits.")
}

func newLogger(debug bool, w io.Writer) *zap.Logger {
	level := zapcore.WarnLevel
	if debug {
		level = zapcore.DebugLevel
	}
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(w)), zap.NewAtomicLevelAt(level))
	return zap.New(core)
}

// screen draws frames for state changes. Edits to the query alone are not
// drawn since the frame does not show the query.
type screen struct {
	mu          sync.Mutex
	out         io.Writer
	logger      *zap.Logger
	interactive bool
	drawn       bool
	last        view.State
	renderErr   error
}

func (s *screen) draw(st view.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.drawn && sameFrame(s.last, st) {
		s.last = st
		return
	}
	s.drawn = true
	s.last = st

	fmt.Fprintln(s.out)
	if err := view.Render(s.out, st); err != nil {
		s.renderErr = err
		s.logger.Error("rendering failed", zap.Error(err))
		fmt.Fprintf(s.out, "! %v\n", err)
	}
	if s.interactive && !st.Loading {
		fmt.Fprintf(s.out, "\n%s", prompt)
	}
}

func (s *screen) printf(format string, a ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format, a...)
}

// failed reports the most recent rendering fault, if any.
func (s *screen) failed() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderErr
}

func sameFrame(a, b view.State) bool {
	return a.Loading == b.Loading && a.Err == b.Err && a.Snapshot == b.Snapshot
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		usage(stderr)
		return 2
	}
	if opts.help {
		usage(stdout)
		return 0
	}

	logger := newLogger(opts.debug, stderr)
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if cfg.APIKey == "" && !opts.test {
		logger.Warn("no API key configured; set OPENWEATHER_API_KEY or VITE_API_KEY, or write ~/.config/weather/openweather_api_key")
	}

	providerOpts := []openweather.Option{
		openweather.WithBaseURL(cfg.BaseURL),
		openweather.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		openweather.WithLogger(logger.Named("openweather")),
		openweather.WithDebug(opts.debug),
	}
	if opts.test {
		providerOpts = append(providerOpts, openweather.WithTestData(cfg.TestFile))
	}
	provider := openweather.New(cfg.APIKey, providerOpts...)

	defaultCity := cfg.DefaultCity
	if opts.city != "" {
		defaultCity = opts.city
	}

	scr := &screen{out: stdout, logger: logger, interactive: !opts.once}
	v := view.New(view.Config{
		Provider:    provider,
		Logger:      logger.Named("view"),
		DefaultCity: defaultCity,
		OnChange:    scr.draw,
	})

	v.Mount(ctx)

	if opts.once {
		v.Wait()
		if v.State().Err != "" || scr.failed() != nil {
			return 1
		}
		return 0
	}

	// Stops the input reader once the loop returns.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := readLines(ctx, stdin, logger)
	for {
		select {
		case <-ctx.Done():
			v.Wait()
			scr.printf("\n")
			return 0
		case line, ok := <-lines:
			if !ok {
				v.Wait()
				scr.printf("\n")
				return 0
			}
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "quit", "exit":
				v.Wait()
				return 0
			}

			v.SetCityQuery(line)
			if !v.SubmitSearch(ctx) {
				scr.printf("%s", prompt)
			}
		}
	}
}

// readLines feeds stdin to a channel so the input loop can also watch ctx.
func readLines(ctx context.Context, r io.Reader, logger *zap.Logger) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			logger.Error("reading input failed", zap.Error(err))
		}
	}()
	return lines
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
