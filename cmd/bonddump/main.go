// Command bonddump prints the contents of a Bond compact binary payload.
//
//	bonddump [flags] <file|->
//
// The decoded tree is written to stdout as text, JSON, YAML or CBOR, or
// browsed interactively with -i.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	bondreader "github.com/wippyai/bond-reader"
	"github.com/wippyai/bond-reader/bond"
	"github.com/wippyai/bond-reader/config"
	"github.com/wippyai/bond-reader/render"
	"github.com/wippyai/bond-reader/source"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type flags struct {
	path        string
	configPath  string
	format      string
	color       string
	compression string
	logLevel    string
	protocol    uint16
	maxDepth    int
	verbose     int
	noGUIDs     bool
	header      bool
	interactive bool
}

func newFlagSet(f *flags, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("bonddump", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: bonddump [flags] <file|->")
		fs.PrintDefaults()
	}

	fs.StringVarP(&f.path, "path", "p", "", "Payload file, - for stdin (or pass it as an argument)")
	fs.StringVarP(&f.configPath, "config", "c", "", "TOML config file (default $"+config.EnvPath+")")
	fs.StringVarP(&f.format, "format", "f", "text", "Output format: text, json, yaml, cbor")
	fs.StringVar(&f.color, "color", config.ColorAuto, "Colorize output: auto, always, never")
	fs.StringVar(&f.compression, "compression", "auto", "Input compression: auto, none, zstd, gzip, lz4")
	fs.StringVar(&f.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	fs.Uint16Var(&f.protocol, "protocol-version", bond.ProtocolV2, "Compact binary protocol version (1 or 2)")
	fs.IntVar(&f.maxDepth, "max-depth", bond.DefaultMaxDepth, "Maximum nesting depth, 0 for unlimited")
	fs.CountVarP(&f.verbose, "verbose", "v", "Lower the log level by one step per use")
	fs.BoolVar(&f.noGUIDs, "no-guids", false, "Keep GUID-shaped field runs as separate fields")
	fs.BoolVar(&f.header, "header", false, "Print a source summary line before text output")
	fs.BoolVarP(&f.interactive, "interactive", "i", false, "Browse the tree in a terminal UI")
	return fs
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var f flags
	fs := newFlagSet(&f, stderr)
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return exitOK
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fs.Usage()
		return exitUsage
	}

	path := f.path
	if path == "" && fs.NArg() == 1 {
		path = fs.Arg(0)
	} else if path == "" || fs.NArg() > 0 {
		fs.Usage()
		return exitUsage
	}

	cfg, err := loadConfig(fs, &f)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	log := newLogger(stderr, cfg.LogLevel)
	defer func() { _ = log.Sync() }()
	bond.SetLogger(log)
	source.SetLogger(log)

	srcOpts := []source.Option{source.WithCompression(cfg.Compression), source.WithStdin(stdin)}
	doc, err := bondreader.ReadFileWith(path, srcOpts, append(cfg.DecodeOptions(), bond.WithLogger(log))...)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	if f.interactive {
		if err := runInteractive(doc); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
		return exitOK
	}

	opts := render.Options{
		Format: cfg.Format,
		Color:  useColor(cfg.Color, stdout),
		Header: cfg.Header,
	}
	if err := render.Write(stdout, doc, opts); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}

// loadConfig reads the config file and applies the flags the user set
// explicitly on top of it.
func loadConfig(fs *pflag.FlagSet, f *flags) (config.Config, error) {
	cfg, err := config.Load(config.Path(f.configPath))
	if err != nil {
		return config.Config{}, err
	}

	if fs.Changed("format") {
		if cfg.Format, err = render.ParseFormat(f.format); err != nil {
			return config.Config{}, err
		}
	}
	if fs.Changed("color") {
		cfg.Color = f.color
	}
	if fs.Changed("compression") {
		if cfg.Compression, err = source.ParseCompression(f.compression); err != nil {
			return config.Config{}, err
		}
	}
	if fs.Changed("protocol-version") {
		cfg.ProtocolVersion = f.protocol
	}
	if fs.Changed("max-depth") {
		cfg.MaxDepth = f.maxDepth
	}
	if fs.Changed("no-guids") {
		cfg.DetectGUIDs = !f.noGUIDs
	}
	if fs.Changed("header") {
		cfg.Header = f.header
	}
	if fs.Changed("log-level") {
		if cfg.LogLevel, err = zapcore.ParseLevel(f.logLevel); err != nil {
			return config.Config{}, err
		}
	}
	if f.verbose > 0 {
		steps := zapcore.Level(min(f.verbose, 4))
		cfg.LogLevel = max(cfg.LogLevel-steps, zapcore.DebugLevel)
	}

	return cfg, cfg.Validate()
}

func newLogger(w io.Writer, level zapcore.Level) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core).Named("bonddump")
}

// useColor resolves a color mode against the output stream.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
