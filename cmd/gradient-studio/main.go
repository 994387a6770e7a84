// Package main provides the gradient-studio command: an interactive CSS
// gradient editor with a live preview window, plus one-shot modes that
// export the CSS or a PNG from a Lua preset.
package main

import (
	"errors"
	"expvar"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/opd-ai/go-gradient/internal/profiling"
	"github.com/opd-ai/go-gradient/pkg/studio"
)

// Version is the current version of gradient-studio.
// This default value can be overridden at build time using:
//
//	go build -ldflags "-X main.Version=x.y.z"
var Version = "0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options holds the parsed command line.
type options struct {
	configPath string
	version    bool
	export     bool
	pngPath    string
	width      int
	height     int
	copy       bool
	watch      bool
	headless   bool
	strict     bool
	logLevel   string
	logJSON    bool
	logFile    string
	envFile    string
	debugAddr  string
	cpuProfile string
	memProfile string
	tracePath  string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("gradient-studio", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "c", "", "Path to a Lua preset")
	fs.BoolVar(&o.version, "v", false, "Print version and exit")
	fs.BoolVar(&o.export, "export", false, "Print the CSS declaration and exit")
	fs.StringVar(&o.pngPath, "png", "", "Write the gradient as a PNG file and exit")
	fs.IntVar(&o.width, "width", 640, "PNG width in pixels")
	fs.IntVar(&o.height, "height", 480, "PNG height in pixels")
	fs.BoolVar(&o.copy, "copy", false, "Copy the CSS declaration to the clipboard and exit")
	fs.BoolVar(&o.watch, "watch", false, "Reload the preset when it changes on disk")
	fs.BoolVar(&o.headless, "headless", false, "Run without the preview window")
	fs.BoolVar(&o.strict, "strict", false, "Treat preset warnings as errors")
	fs.StringVar(&o.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	fs.BoolVar(&o.logJSON, "log-json", false, "Write logs as JSON")
	fs.StringVar(&o.logFile, "log-file", "", "Write JSON logs to a rotated file instead of stderr")
	fs.StringVar(&o.envFile, "env", "", "Load GRADIENT_* overrides from a dotenv file")
	fs.StringVar(&o.debugAddr, "debug-addr", "", "Serve metrics at http://ADDR/debug/vars")
	fs.StringVar(&o.cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	fs.StringVar(&o.memProfile, "memprofile", "", "Write memory profile to file")
	fs.StringVar(&o.tracePath, "trace", "", "Write an execution trace to file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return o, nil
}

// oneShot reports whether the command exits after producing output.
func (o *options) oneShot() bool {
	return o.export || o.pngPath != "" || o.copy
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	if o.version {
		fmt.Fprintf(stdout, "gradient-studio version %s\n", Version)
		return 0
	}

	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil {
			fmt.Fprintf(stderr, "Failed to load env file %s: %v\n", o.envFile, err)
			return 1
		}
	}

	logger, closeLog, err := newLogger(o, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid log level: %v\n", err)
		return 2
	}
	defer closeLog()

	profConfig := profiling.Config{
		CPUProfilePath: o.cpuProfile,
		MemProfilePath: o.memProfile,
		TracePath:      o.tracePath,
	}
	if profConfig.ProfilingEnabled() {
		profiler := profiling.New(profConfig)
		if err := profiler.Start(); err != nil {
			fmt.Fprintf(stderr, "Failed to start profiling: %v\n", err)
			return 1
		}
		defer func() {
			if err := profiler.Stop(); err != nil {
				fmt.Fprintf(stderr, "Warning: failed to stop profiling: %v\n", err)
			}
		}()
	}

	s, err := newStudio(o, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading preset: %v\n", err)
		return 1
	}

	if o.oneShot() {
		return runOneShot(s, o, stdout, stderr)
	}
	return runInteractive(s, o, stdout, stderr, logger)
}

func newLogger(o *options, stderr io.Writer) (studio.Logger, func(), error) {
	level, err := studio.ParseLevel(o.logLevel)
	if err != nil {
		return nil, nil, err
	}
	switch {
	case o.logFile != "":
		logger, closer := studio.RotatingFileLogger(o.logFile, level, studio.RotationConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		})
		return logger, func() { closer.Close() }, nil
	case o.logJSON:
		return studio.JSONLogger(stderr, level), func() {}, nil
	default:
		return studio.TextLogger(stderr, level), func() {}, nil
	}
}

func newStudio(o *options, logger studio.Logger) (studio.Studio, error) {
	opts := studio.DefaultOptions()
	opts.Headless = o.headless
	opts.WatchConfig = o.watch
	opts.StrictValidation = o.strict
	opts.Logger = logger

	if o.configPath == "" {
		return studio.NewFromState(studio.DefaultState(), &opts)
	}
	if _, err := os.Stat(o.configPath); err != nil {
		return nil, err
	}
	return studio.New(o.configPath, &opts)
}

func runOneShot(s studio.Studio, o *options, stdout, stderr io.Writer) int {
	if o.export {
		fmt.Fprintln(stdout, s.Result().Declaration)
	}

	if o.pngPath != "" {
		if err := writePNG(s, o.pngPath, o.width, o.height); err != nil {
			fmt.Fprintf(stderr, "Error writing PNG: %v\n", err)
			return 1
		}
	}

	if o.copy {
		if err := s.Dispatch(studio.Copy{}); err != nil {
			fmt.Fprintf(stderr, "Error copying to clipboard: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, "Copied to clipboard")
	}
	return 0
}

func writePNG(s studio.Studio, path string, width, height int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return s.WritePNG(f, width, height)
}

func runInteractive(s studio.Studio, o *options, stdout, stderr io.Writer, logger studio.Logger) int {
	s.Metrics().RegisterExpvar()
	if o.debugAddr != "" {
		srv := startDebugServer(o.debugAddr, logger)
		defer srv.Close()
	}

	stopped := make(chan struct{}, 1)
	s.SetErrorHandler(func(err error) {
		fmt.Fprintf(stderr, "Warning: %v\n", err)
	})
	s.SetEventHandler(func(e studio.Event) {
		switch e.Type {
		case studio.EventStateChanged:
			logger.Debug("state changed", "background", e.Message)
			return
		case studio.EventStopped:
			select {
			case stopped <- struct{}{}:
			default:
			}
		}
		fmt.Fprintf(stdout, "[%s] %s: %s\n", e.Timestamp.Format("15:04:05"), e.Type, e.Message)
	})

	if err := s.Start(); err != nil {
		fmt.Fprintf(stderr, "Failed to start: %v\n", err)
		return 1
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	for {
		select {
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				fmt.Fprintln(stdout, "Received SIGHUP, reloading preset...")
				if err := s.ReloadConfig(); err != nil {
					fmt.Fprintf(stderr, "Reload failed: %v\n", err)
				}
				continue
			}
			fmt.Fprintln(stdout, "Shutting down...")
			if err := s.Stop(); err != nil {
				fmt.Fprintf(stderr, "Stop error: %v\n", err)
				return 1
			}
			fmt.Fprintln(stdout, s.Result().Declaration)
			return 0

		case <-stopped:
			// The preview window was closed.
			if err := s.Stop(); err != nil {
				fmt.Fprintf(stderr, "Stop error: %v\n", err)
				return 1
			}
			fmt.Fprintln(stdout, s.Result().Declaration)
			return 0
		}
	}
}

// startDebugServer serves expvar metrics on addr.
func startDebugServer(addr string, logger studio.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/debug/vars", expvar.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("debug server failed", "addr", addr, "error", err)
		}
	}()
	logger.Info("serving metrics", "url", "http://"+addr+"/debug/vars")
	return srv
}
