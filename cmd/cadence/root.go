package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/cadence/app"
	"github.com/lixenwraith/cadence/audio"
	"github.com/lixenwraith/cadence/config"
	"github.com/lixenwraith/cadence/demo"
	"github.com/lixenwraith/cadence/logging"
)

type rootFlags struct {
	configPath string
	debug      bool
	fps        int
	noAudio    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "cadence",
		Short: "Terminal demos for the cadence frame loop.",
		Long: `cadence runs small terminal programs on a single-threaded frame loop ` +
			`driving cooperative tasks, timers, prioritized event dispatch and layered drawing. ` +
			`Esc or Ctrl-C quits every demo.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "config file (.toml, .yaml or .yml)")
	pf.BoolVarP(&flags.debug, "debug", "d", false, "write a debug log and show the metrics overlay")
	pf.IntVar(&flags.fps, "fps", 0, "frames per second (overrides config)")
	pf.BoolVar(&flags.noAudio, "no-audio", false, "disable sound cues")

	root.AddCommand(
		demoCmd("countdown", "Count down with sound cues; any key skips", flags, demo.Countdown),
		demoCmd("painter", "Paint with the mouse and save the canvas", flags, demo.Painter),
		demoCmd("scenes", "Switch between scenes with a fade transition", flags, demo.Scenes),
	)
	return root
}

func demoCmd(name, short string, flags *rootFlags, main app.Main) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, flags)
			if err != nil {
				return err
			}
			return run(cmd.Context(), name, cfg, main)
		},
	}
}

// resolveConfig layers defaults, the config file and explicitly set flags
func resolveConfig(cmd *cobra.Command, flags *rootFlags) (config.Config, error) {
	cfg := config.Default()
	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed
	if changed("debug") {
		cfg.Debug = flags.debug
	}
	if changed("fps") {
		cfg.FPS = flags.fps
	}
	if changed("no-audio") {
		cfg.Audio = !flags.noAudio
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, name string, cfg config.Config, main app.Main) error {
	logger, closer, err := logging.Setup(cfg.Debug, cfg.LogDir)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger = logger.With().Str("demo", name).Logger()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}

	player := audio.NewPlayer(cfg.Audio, logger)
	defer player.Close()

	host, err := app.New(cfg, screen, app.WithLogger(logger), app.WithAudio(player))
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Int("fps", cfg.FPS).Bool("audio", !player.Silent()).Msg("starting")
	err = host.Run(ctx, main)
	logger.Info().Err(err).Msg("stopped")
	return err
}
