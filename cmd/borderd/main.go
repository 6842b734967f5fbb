// Command borderd runs the window-border overlay engine, or sends a
// control-plane message to an already-running instance.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/1broseidon/borderd/internal/config"
	"github.com/1broseidon/borderd/internal/engine"
	"github.com/1broseidon/borderd/internal/winapi"
)

// exitCode mirrors spec §6's "negative values for device creation failures
// (D3D, D2D, composition), in that order" — this implementation's
// composition chain is a single stage (raw GDI, not a D3D/D2D/DComp
// triple), so it collapses the three to one negative code.
const (
	exitOK                 = 0
	exitConfigError        = 1
	exitSingleInstance     = -1
	exitPlatformBackend    = -2
	exitCompositionDevice  = -3
	exitHostWindowCreation = -4
)

var (
	flagConsole        bool
	flagMode           string
	flagColor          string
	flagThickness      float64
	flagCorner         string
	flagForegroundOnly bool

	successColor = color.New(color.FgGreen, color.Bold)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
	keyColor     = color.New(color.FgCyan)
)

func main() {
	root := &cobra.Command{
		Use:   "borderd",
		Short: "Window-border overlay engine",
	}

	run := &cobra.Command{
		Use:   "run",
		Short: "Start the overlay engine in the foreground",
		RunE:  runOverlay,
	}
	run.Flags().BoolVar(&flagConsole, "console", false, "log as text instead of JSON, with colorized diagnostics")
	run.Flags().StringVar(&flagMode, "mode", "auto", "render mode: auto, dwm, or dcomp")
	run.Flags().StringVar(&flagColor, "color", "", "border color as #RRGGBB or #AARRGGBB")
	run.Flags().Float64Var(&flagThickness, "thickness", 0, "border thickness in px")
	run.Flags().StringVar(&flagCorner, "corner", "", "corner radius token: default, donot, round, roundsmall")
	run.Flags().BoolVar(&flagForegroundOnly, "foregroundonly", false, "only border the foreground window")

	sendConfig := &cobra.Command{
		Use:   "send-config key=value [key=value ...]",
		Short: "Push a settings update to a running instance",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSendConfig,
	}

	sendTargets := &cobra.Command{
		Use:   "send-targets [0xHWND ...]",
		Short: "Push an explicit window target-list override to a running instance",
		RunE:  runSendTargets,
	}

	root.AddCommand(run, sendConfig, sendTargets)

	if err := root.Execute(); err != nil {
		errorColor.Fprintln(os.Stderr, err)
		os.Exit(exitConfigError)
	}
}

func newLogger(console bool) *slog.Logger {
	if console {
		return slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

func resolveRenderMode(mode string) (config.RenderMode, error) {
	switch mode {
	case "auto", "dwm":
		// "auto resolves to dwm when OS supports native per-window border
		// attributes, else dcomp" (spec §6) — detecting DWMWA_BORDER_COLOR
		// support at runtime needs a live DWM call this CLI layer
		// shouldn't make before the engine exists, so auto and an explicit
		// dwm request both take the WindowAttribute variant; a caller on
		// an unsupported Windows release sees it fail per-window at
		// runtime (logged, not fatal) rather than at startup.
		return config.RenderModeWindowAttribute, nil
	case "dcomp":
		return config.RenderModeComposited, nil
	default:
		return "", fmt.Errorf("unrecognized --mode %q (want auto, dwm, or dcomp)", mode)
	}
}

func loadStartupConfig() (*config.Config, error) {
	path, err := config.DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

func applyFlagOverrides(cfg *config.Config, cmd *cobra.Command) error {
	if cmd.Flags().Changed("mode") {
		mode, err := resolveRenderMode(flagMode)
		if err != nil {
			return err
		}
		cfg.RenderMode = mode
	}
	if cmd.Flags().Changed("color") {
		cfg.ColorHex = flagColor
	}
	if cmd.Flags().Changed("thickness") {
		cfg.Thickness = flagThickness
	}
	if cmd.Flags().Changed("corner") {
		cfg.Corner = flagCorner
	}
	if cmd.Flags().Changed("foregroundonly") {
		cfg.ForegroundOnly = flagForegroundOnly
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cmd.Flags().Changed("color") {
		resolved, err := config.ParseColor(cfg.ColorHex)
		if err != nil {
			return err
		}
		cfg.Color = resolved
	}
	return nil
}

// runOverlay implements the `run` subcommand: build the Engine and block
// on its message loop until an interrupt signal triggers shutdown (spec
// §5 "Cancellation"); there is no tray icon.
func runOverlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadStartupConfig()
	if err != nil {
		errorColor.Fprintln(os.Stderr, err)
		os.Exit(exitConfigError)
	}
	if err := applyFlagOverrides(cfg, cmd); err != nil {
		errorColor.Fprintln(os.Stderr, err)
		os.Exit(exitConfigError)
	}

	logger := newLogger(flagConsole)
	if flagConsole {
		successColor.Fprintf(os.Stdout, "borderd starting: mode=%s color=%s thickness=%.1f corner=%s\n",
			cfg.RenderMode, cfg.ColorHex, cfg.Thickness, cfg.Corner)
	}

	e, err := engine.New(cfg, logger)
	if err != nil {
		errorColor.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		e.Shutdown()
	}()

	e.Run()
	e.Shutdown()
	return nil
}

// exitCodeFor maps an Engine construction failure to one of spec §7's
// "Fatal startup" negative exit codes. Engine.New doesn't tag its errors
// by stage, so this inspects the message it wrapped each failure with.
func exitCodeFor(err error) int {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "single-instance") || strings.Contains(msg, "another instance"):
		return exitSingleInstance
	case strings.Contains(msg, "platform backend"):
		return exitPlatformBackend
	case strings.Contains(msg, "composition device"):
		return exitCompositionDevice
	case strings.Contains(msg, "host window"):
		return exitHostWindowCreation
	default:
		return exitConfigError
	}
}

// runSendConfig implements `send-config`: joins args into the settings
// wire format of spec §6 and delivers it to the running instance.
func runSendConfig(cmd *cobra.Command, args []string) error {
	return sendToRunningInstance(strings.Join(args, " "))
}

// runSendTargets implements `send-targets`: builds the `HWNDS ...` wire
// message of spec §6 from the given hex handles.
func runSendTargets(cmd *cobra.Command, args []string) error {
	for _, a := range args {
		if _, err := strconv.ParseUint(strings.TrimPrefix(a, "0x"), 16, 64); err != nil {
			return fmt.Errorf("invalid window handle %q: %w", a, err)
		}
	}
	return sendToRunningInstance("HWNDS " + strings.Join(args, " "))
}

func sendToRunningInstance(text string) error {
	hwnd, err := winapi.FindWindow(engine.HostWindowClassName)
	if err != nil {
		return fmt.Errorf("no running borderd instance found: %w", err)
	}
	if err := winapi.SendCopyData(hwnd, text); err != nil {
		return err
	}
	keyColor.Fprintln(os.Stdout, "sent: "+text)
	return nil
}
