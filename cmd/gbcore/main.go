package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli"

	"github.com/16meyrat/gbcemu-go/internal/emulator"
	"github.com/16meyrat/gbcemu-go/pkg/diagnostics"
	"github.com/16meyrat/gbcemu-go/pkg/host"
	"github.com/16meyrat/gbcemu-go/pkg/log"
	"github.com/16meyrat/gbcemu-go/pkg/romloader"
	"github.com/16meyrat/gbcemu-go/pkg/saves"
	"github.com/16meyrat/gbcemu-go/pkg/snapshot"
	"github.com/16meyrat/gbcemu-go/pkg/stream"
)

func main() {
	app := cli.NewApp()
	app.Name = "gbcore"
	app.Usage = "a Game Boy / Game Boy Color emulator core"
	app.Version = "0.1.0"
	app.Commands = []cli.Command{
		{
			Name:      "run",
			Usage:     "load and run a ROM",
			ArgsUsage: "<rom>",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "save-dir", Usage: "directory battery saves are read from and written to (default: next to the ROM)"},
				cli.BoolFlag{Name: "headless", Usage: "run without opening a window; discards audio"},
				cli.IntFlag{Name: "frames", Usage: "stop after N frames (headless only, 0 = unbounded)"},
				cli.StringFlag{Name: "stream-addr", Usage: "address to serve spectator websocket frames on, e.g. :8080"},
				cli.StringFlag{Name: "snapshot", Usage: "write a BMP of the final frame to this path on exit"},
				cli.StringFlag{Name: "frame-times", Usage: "write a frame-pacing PNG chart to this path on exit"},
			},
			Action: runCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.NewExitError("gbcore run: a ROM path is required", 1)
	}
	romPath := c.Args().Get(0)

	logger := log.New()

	rom, err := romloader.Load(romPath)
	if err != nil {
		return fmt.Errorf("loading rom: %w", err)
	}

	emu, err := emulator.New(rom, host.AudioSampleRate, logger)
	if err != nil {
		return fmt.Errorf("starting emulator: %w", err)
	}

	savePath := saves.PathFor(romPath)
	if dir := c.String("save-dir"); dir != "" {
		savePath = filepath.Join(dir, filepath.Base(savePath))
	}
	if battery, err := saves.Load(savePath); err != nil {
		logger.Errorf("loading save: %v", err)
	} else if battery != nil {
		if err := emu.Cart.LoadSave(battery); err != nil {
			logger.Errorf("restoring save: %v", err)
		}
	}
	defer func() {
		if battery := emu.Close(); battery != nil {
			if err := saves.Write(savePath, battery); err != nil {
				logger.Errorf("writing save: %v", err)
			}
		}
	}()

	var hub *stream.Hub
	if addr := c.String("stream-addr"); addr != "" {
		hub = stream.NewHub()
		go func() {
			if err := http.ListenAndServe(addr, hub); err != nil {
				logger.Errorf("spectator stream stopped: %v", err)
			}
		}()
		logger.Infof("spectator stream listening on %s", addr)
	}

	var frameTimes []time.Duration
	trackFrameTime := c.String("frame-times") != ""

	if c.Bool("headless") {
		frames := c.Int("frames")
		for i := 0; frames == 0 || i < frames; i++ {
			start := time.Now()
			emu.RunFrame()
			if trackFrameTime {
				frameTimes = append(frameTimes, time.Since(start))
			}
			if hub != nil {
				if err := hub.Broadcast(emu.PPU.Framebuffer()); err != nil {
					logger.Errorf("broadcasting frame: %v", err)
				}
			}
		}
	} else {
		backend := host.NewSDL2Backend()
		if err := backend.Open(romPath, 4); err != nil {
			return fmt.Errorf("opening host window: %w", err)
		}
		defer backend.Close()

		driver := host.NewDriver(backend, host.DefaultKeyMap())
		stop := make(chan struct{})
		if err := driver.Run(emu, stop); err != nil {
			return fmt.Errorf("running emulator: %w", err)
		}
	}

	if path := c.String("snapshot"); path != "" {
		if err := snapshot.WriteFile(path, emu.PPU.Framebuffer()); err != nil {
			return fmt.Errorf("writing snapshot: %w", err)
		}
	}
	if path := c.String("frame-times"); path != "" {
		if err := diagnostics.FrameTimeChart(path, frameTimes); err != nil {
			return fmt.Errorf("writing frame-time chart: %w", err)
		}
	}

	return nil
}

