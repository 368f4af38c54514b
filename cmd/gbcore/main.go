// Command gbcore is a headless runner that exercises the core
// end-to-end: load a ROM, run a fixed number of frames, then print the
// final frame's hash and optionally flush battery RAM. It is a thin
// demonstration around internal/machine, grounded in
// valerio-go-jeebie's cmd/jeebie use of urfave/cli for exactly this
// kind of flag surface; argument parsing itself is not part of the
// core's correctness surface.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/urfave/cli"

	"github.com/tylergibbs2/gbcore/display/wsframe"
	"github.com/tylergibbs2/gbcore/internal/machine"
)

func main() {
	app := cli.NewApp()
	app.Name = "gbcore"
	app.Usage = "gbcore [options] <ROM file>"
	app.Description = "Headless Game Boy core runner"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "frames",
			Usage: "number of frames to run before exiting",
			Value: 60,
		},
		cli.StringFlag{
			Name:  "save-dir",
			Usage: "directory for battery-backed RAM files (disabled if empty)",
		},
		cli.StringFlag{
			Name:  "load-state",
			Usage: "path to a save-state file to resume from",
		},
		cli.StringFlag{
			Name:  "save-state",
			Usage: "path to write a save-state file to after running",
		},
		cli.IntFlag{
			Name:  "serve",
			Usage: "if nonzero, also serve a websocket frame feed on this port while the frames run",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "gbcore:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() == 0 {
		cli.ShowAppHelp(c)
		return fmt.Errorf("no ROM path provided")
	}
	romPath := c.Args().Get(0)

	rom, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("reading rom: %w", err)
	}

	cfg := machine.Config{Logger: cliLogger{}}

	var store *fileBatteryStore
	if dir := c.String("save-dir"); dir != "" {
		store = &fileBatteryStore{dir: dir}
		cfg.Battery = store
	}

	m, err := machine.New(rom, cfg)
	if err != nil {
		return fmt.Errorf("constructing machine: %w", err)
	}
	defer m.Close()

	if statePath := c.String("load-state"); statePath != "" {
		raw, err := os.ReadFile(statePath)
		if err != nil {
			return fmt.Errorf("reading save state: %w", err)
		}
		if err := m.LoadState(raw); err != nil {
			return fmt.Errorf("loading save state: %w", err)
		}
	}

	var hub *wsframe.Hub
	if port := c.Int("serve"); port != 0 {
		hub = wsframe.NewHub()
		go hub.Run()
		go func() {
			addr := fmt.Sprintf(":%d", port)
			fmt.Fprintf(os.Stderr, "gbcore: serving frames on %s\n", addr)
			if err := http.ListenAndServe(addr, hub); err != nil {
				fmt.Fprintln(os.Stderr, "gbcore: websocket server:", err)
			}
		}()
	}

	frames := c.Int("frames")
	for i := 0; i < frames; i++ {
		frame := m.Tick()
		if hub != nil {
			hub.PushFrame(frame)
		}
	}

	fmt.Printf("frames=%d hash=%016x\n", frames, m.FrameHash())

	if out := c.String("save-state"); out != "" {
		if err := os.WriteFile(out, m.SaveState(), 0644); err != nil {
			return fmt.Errorf("writing save state: %w", err)
		}
	}

	return nil
}

type cliLogger struct{}

func (cliLogger) Debugf(format string, args ...interface{}) {}
func (cliLogger) Infof(format string, args ...interface{})  { fmt.Fprintf(os.Stderr, format+"\n", args...) }
func (cliLogger) Warnf(format string, args ...interface{})  { fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...) }
