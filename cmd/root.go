// Package cmd implements the nesconf command line.
package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/charmbracelet/log"

	"github.com/nibzard/nesconf/internal/config"
	"github.com/nibzard/nesconf/internal/emu"
	"github.com/nibzard/nesconf/internal/logging"
	"github.com/nibzard/nesconf/internal/manager"
	"github.com/nibzard/nesconf/internal/recent"
	"github.com/nibzard/nesconf/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the nesconf CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

type cli struct {
	ctx    context.Context
	stdout io.Writer
	stderr io.Writer
	path   string
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("nesconf", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")
	configPath := fs.String("config", "", "Settings file (default $"+config.EnvConfigPath+" or the user config dir)")
	logLevel := fs.String("log-level", "", "Log level (debug|info|warn|error)")
	logFormat := fs.String("log-format", "", "Log format (text|json|logfmt)")
	logFile := fs.String("log-file", "", "Write logs to this file instead of stderr")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}

	c := &cli{ctx: ctx, stdout: stdout, stderr: stderr}
	if *showVersion {
		return c.versionCommand()
	}

	opts := logging.FromEnv()
	if *logLevel != "" {
		opts.Level = logging.ParseLevel(*logLevel)
	}
	if *logFormat != "" {
		opts.Formatter = logging.ParseFormatter(*logFormat)
	}
	var logOut io.Writer = stderr
	if *logFile != "" {
		f, err := logging.OpenFile(config.ExpandPath(*logFile))
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	logging.Setup(logOut, opts)

	c.path = config.ExpandPath(*configPath)
	if c.path == "" {
		c.path = config.DefaultPath()
	}

	subcommand := "show"
	remaining := fs.Args()
	if len(remaining) > 0 {
		subcommand = remaining[0]
		remaining = remaining[1:]
	}

	switch subcommand {
	case "show":
		return c.showCommand(remaining)
	case "path":
		fmt.Fprintln(c.stdout, c.path)
		return nil
	case "get":
		return c.getCommand(remaining)
	case "set":
		return c.setCommand(remaining)
	case "recent":
		return c.recentCommand(remaining)
	case "defaults":
		return c.defaultsCommand(remaining)
	case "apply":
		return c.applyCommand(remaining)
	case "validate":
		return c.validateCommand(remaining)
	case "clone-check":
		return c.cloneCheckCommand(remaining)
	case "tui":
		return c.tuiCommand(remaining)
	case "version":
		return c.versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

func (c *cli) showCommand(args []string) error {
	fs := flag.NewFlagSet("nesconf show", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	format := fs.String("format", "toml", "Output format (toml|json)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	cfg := config.Load(c.path)
	switch *format {
	case "toml":
		return config.Encode(c.stdout, cfg)
	case "json":
		enc := json.NewEncoder(c.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg.Settings)
	default:
		return fmt.Errorf("unknown format %q (want toml or json)", *format)
	}
}

func (c *cli) getCommand(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: nesconf get <key>")
	}
	mgr, err := manager.New(c.path, nil, manager.ReadOnly())
	if err != nil {
		return err
	}
	defer mgr.Close()

	value, ok := mgr.Live().Get(args[0])
	if !ok {
		return fmt.Errorf("%w: %s", config.ErrUnknownKey, args[0])
	}
	fmt.Fprintln(c.stdout, value)
	return nil
}

func (c *cli) setCommand(args []string) error {
	if len(args) == 0 || len(args)%2 != 0 {
		return fmt.Errorf("usage: nesconf set <key> <value> [<key> <value>...]")
	}
	mgr, err := manager.New(c.path, emu.NewCore())
	if err != nil {
		return err
	}
	defer mgr.Close()

	edit := mgr.Config()
	for i := 0; i < len(args); i += 2 {
		if err := edit.Set(args[i], args[i+1]); err != nil {
			if rerr := mgr.RejectChanges(); rerr != nil {
				log.Warn("discard edits", "err", rerr)
			}
			return err
		}
	}
	if err := mgr.ApplyChanges(); err != nil {
		return err
	}
	if mgr.Live().NeedsSave() {
		return fmt.Errorf("settings applied but not saved to %s", mgr.Path())
	}
	for i := 0; i < len(args); i += 2 {
		value, _ := mgr.Live().Get(args[i])
		fmt.Fprintf(c.stdout, "%s = %s\n", args[i], value)
	}
	return nil
}

func (c *cli) recentCommand(args []string) error {
	action := "list"
	if len(args) > 0 {
		action = args[0]
		args = args[1:]
	}

	switch action {
	case "list", "ls":
		if len(args) > 0 {
			return fmt.Errorf("unexpected arguments: %v", args)
		}
		cfg := config.Load(c.path)
		items := cfg.RecentItems()
		if items.Len() == 0 {
			fmt.Fprintln(c.stdout, "No recent files.")
			return nil
		}
		for i, item := range items {
			fmt.Fprintf(c.stdout, "%2d. %s\t%s\n", i+1, item, item.Path)
		}
		return nil
	case "add":
		return c.recentAdd(args)
	default:
		return fmt.Errorf("unknown recent action: %s (want list or add)", action)
	}
}

func (c *cli) recentAdd(args []string) error {
	fs := flag.NewFlagSet("nesconf recent add", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	name := fs.String("name", "", "Display name (default: file name)")
	archive := fs.Int("archive-index", recent.NoArchive, "Index of the ROM inside an archive")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: nesconf recent add [-name NAME] [-archive-index N] <path>")
	}

	item, err := ui.ParseEntry(fs.Arg(0))
	if err != nil {
		return err
	}
	if *name != "" {
		item.RomName = *name
	}
	if *archive != recent.NoArchive {
		if *archive < 0 {
			return fmt.Errorf("archive index %d is negative", *archive)
		}
		item.ArchiveIndex = *archive
	}

	mgr, err := manager.New(c.path, emu.NewCore())
	if err != nil {
		return err
	}
	defer mgr.Close()

	mgr.Config().AddRecentFile(item.Path, item.RomName, item.ArchiveIndex)
	fmt.Fprintf(c.stdout, "Added %s\n", item)
	return nil
}

func (c *cli) defaultsCommand(args []string) error {
	fs := flag.NewFlagSet("nesconf defaults", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	all := fs.Bool("all", false, "Reset every section, not only input and preferences")
	if err := fs.Parse(args); err != nil {
		return err
	}

	mgr, err := manager.New(c.path, emu.NewCore())
	if err != nil {
		return err
	}
	defer mgr.Close()

	edit := mgr.Config()
	if *all {
		edit.Update(func(s *config.Settings) {
			recentFiles := s.RecentFiles
			*s = config.DefaultSettings()
			s.RecentFiles = recentFiles
		})
	}
	edit.InitializeDefaults()
	if err := mgr.ApplyChanges(); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "Defaults written to %s\n", mgr.Path())
	return nil
}

func (c *cli) applyCommand(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	mgr, err := manager.New(c.path, nil, manager.ReadOnly())
	if err != nil {
		return err
	}
	defer mgr.Close()

	core := emu.NewCore()
	if err := mgr.Live().ApplyConfig(core); err != nil {
		return err
	}

	snap := core.Snapshot()
	fmt.Fprintf(c.stdout, "Region:      %s\n", snap.Model)
	fmt.Fprintf(c.stdout, "Video:       x%d, filter %s\n", snap.Video.VideoScale, snap.Video.VideoFilter)
	fmt.Fprintf(c.stdout, "Audio:       %d Hz, volume %d, enabled %t\n", snap.Audio.SampleRate, snap.Audio.MasterVolume, snap.Audio.EnableAudio)
	fmt.Fprintf(c.stdout, "Input:       %d controller(s)\n", len(snap.Input.Controllers))
	fmt.Fprintf(c.stdout, "Emulation:   speed %d%%, overclock %d%%\n", snap.Emulation.EmulationSpeed, snap.Emulation.OverclockRate)
	fmt.Fprintf(c.stdout, "Preferences: %d shortcut(s)\n", len(snap.Preferences.ShortcutKeys))
	return nil
}

func (c *cli) validateCommand(args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("unexpected arguments: %v", args[1:])
	}
	path := c.path
	if len(args) == 1 {
		path = config.ExpandPath(args[0])
	}

	if _, err := config.ReadFile(path); err != nil {
		var se *config.SchemaError
		if errors.As(err, &se) {
			fmt.Fprintf(c.stdout, "%s: %d problem(s)\n", path, len(se.Violations))
			for _, v := range se.Violations {
				fmt.Fprintf(c.stdout, "  - %s\n", v)
			}
		}
		return err
	}
	fmt.Fprintf(c.stdout, "%s: ok\n", path)
	return nil
}

func (c *cli) cloneCheckCommand(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	src := config.Load(c.path)
	clone, err := src.Clone()
	if err != nil {
		return err
	}

	var a, b bytes.Buffer
	if err := config.Encode(&a, src); err != nil {
		return err
	}
	if err := config.Encode(&b, clone); err != nil {
		return err
	}
	if !reflect.DeepEqual(src.Settings, clone.Settings) || !bytes.Equal(a.Bytes(), b.Bytes()) {
		return fmt.Errorf("clone of %s differs from its source", c.path)
	}
	fmt.Fprintf(c.stdout, "clone ok (%d bytes, %d recent files)\n", a.Len(), clone.RecentItems().Len())
	return nil
}

func (c *cli) tuiCommand(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	mgr, err := manager.New(c.path, emu.NewCore())
	if err != nil {
		return err
	}
	defer mgr.Close()
	return ui.Run(c.ctx, mgr)
}

func (c *cli) versionCommand() error {
	fmt.Fprintf(c.stdout, "nesconf version %s (settings %s)\n", Version, config.CurrentVersion)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "nesconf - manage NES emulator settings")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  nesconf [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  show [-format toml|json]       Print the settings (default command)")
	fmt.Fprintln(w, "  path                           Print the settings file location")
	fmt.Fprintln(w, "  get <key>                      Print one setting, e.g. audio.master_volume")
	fmt.Fprintln(w, "  set <key> <value>...           Change settings, apply and save them")
	fmt.Fprintln(w, "  recent [list]                  List recent files")
	fmt.Fprintln(w, "  recent add [-name N] <path>    Add a file to the recent list")
	fmt.Fprintln(w, "  defaults [-all]                Restore first-run defaults")
	fmt.Fprintln(w, "  apply                          Apply the settings to the emulation core")
	fmt.Fprintln(w, "  validate [file]                Check a settings file against the schema")
	fmt.Fprintln(w, "  clone-check                    Verify the settings survive a copy")
	fmt.Fprintln(w, "  tui                            Browse recent files")
	fmt.Fprintln(w, "  version                        Show version information")
	fmt.Fprintln(w, "  help                           Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  %-20s Settings file location\n", config.EnvConfigPath)
	fmt.Fprintf(w, "  %-20s Log level\n", logging.EnvLevel)
	fmt.Fprintf(w, "  %-20s Log format\n", logging.EnvFormat)
}
