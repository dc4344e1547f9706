// Entry point for the camshot point-and-shoot camera application.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"camshot/internal/camera"
	"camshot/internal/config"
	"camshot/internal/display"
	"camshot/internal/log"
	"camshot/internal/sim"
	"camshot/internal/ui"
)

var version = "dev"

var (
	cfgFile    string
	debug      bool
	storageDir string
	cfg        *config.Config
)

func main() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "camshot",
		Short:   "A touchscreen point-and-shoot camera",
		Long:    `Camshot turns a small touchscreen and a camera module into a point-and-shoot camera with on-screen settings for storage, size, effects, ISO, and exposure.`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetDebug(debug)

			var err error
			if cfgFile != "" {
				cfg, err = config.LoadFile(cfgFile)
			} else {
				cfgFile = config.DefaultPath()
				cfg, err = config.Load()
			}
			if err != nil {
				log.Warn("loading config, using defaults", err)
				cfg = config.New()
			}
			if storageDir != "" {
				// Overrides the first (folder) destination only; the boot
				// partition and upload staging radios keep their targets
				cfg.Storage.Dirs[0] = storageDir
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/camshot/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&storageDir, "storage-dir", "", "override the folder storage destination")

	rootCmd.AddCommand(NewRunCmd())
	rootCmd.AddCommand(NewSimCmd())

	return rootCmd
}

// NewRunCmd creates the command that runs against real hardware (or a
// desktop window standing in for the touchscreen).
func NewRunCmd() *cobra.Command {
	var fakeCamera bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the camera UI in a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !display.Available() {
				return fmt.Errorf("window backend not compiled in; use 'camshot sim' or rebuild with -tags gui")
			}

			cam, err := openCamera(fakeCamera)
			if err != nil {
				return err
			}
			defer cam.Close()

			window := display.NewWindow(cfg.Display.Width, cfg.Display.Height)
			app := ui.New(cfg, cfgFile, cam, window, ui.LoadIcons(cfg.Icons.Dir))

			go func() {
				if err := app.Run(); err != nil {
					log.Error("dispatch loop", err)
				}
				window.Quit()
			}()
			window.Run()
			return nil
		},
	}

	cmd.Flags().BoolVar(&fakeCamera, "fake-camera", false, "use the built-in test pattern instead of a real sensor")
	return cmd
}

// NewSimCmd creates the terminal simulator command
func NewSimCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sim",
		Short: "Run the camera UI in the terminal with a fake sensor",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Log lines would tear the rendered frame; keep them in a file
			logFile, err := os.CreateTemp("", "camshot-sim-*.log")
			if err == nil {
				defer logFile.Close()
				log.SetOutput(logFile)
			}

			cam, err := openCamera(true)
			if err != nil {
				return err
			}
			defer cam.Close()

			backend := display.NewMemory(cfg.Display.Width, cfg.Display.Height)
			app := ui.New(cfg, cfgFile, cam, backend, ui.LoadIcons(cfg.Icons.Dir))
			return sim.Run(app.Run, backend)
		},
	}
}

// openCamera opens the configured sensor, configures the persisted size
// profile, and starts the preview stream.
func openCamera(fake bool) (camera.Camera, error) {
	var (
		cam camera.Camera
		err error
	)
	if fake {
		cam = camera.NewFake()
	} else {
		cam, err = camera.Open(cfg.Camera.Device)
		if err != nil {
			return nil, err
		}
	}
	if err := cam.Configure(camera.SizeProfiles[cfg.Settings.Size]); err != nil {
		cam.Close()
		return nil, err
	}
	if err := cam.Start(); err != nil {
		cam.Close()
		return nil, err
	}
	return cam, nil
}
