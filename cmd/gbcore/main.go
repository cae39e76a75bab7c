// Command gbcore is the host entrypoint: it loads a cartridge image,
// then either free-runs it headlessly for a fixed number of frames or
// drives it interactively through a terminal renderer. Grounded on the
// teacher's cmd/jeebie/main.go urfave/cli wiring, trimmed of the
// event-driven and test-pattern modes this core doesn't carry forward.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/student/gbcore/gbcore"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "gbcore"
	app.Usage = "gbcore [options] <ROM file>"
	app.Description = "A cycle-stepped handheld console emulation core"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM image",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without a terminal display",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
		},
		cli.BoolFlag{
			Name:  "trace",
			Usage: "Print a trace line for every instruction executed",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save a frame snapshot every N frames in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: a temp directory)",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("gbcore exited with an error", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	data, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("reading ROM: %w", err)
	}

	console := newConsole(data, c.Bool("trace"))

	if c.Bool("headless") {
		return runHeadless(console, c, romPath)
	}

	renderer, err := newTerminalRenderer(console)
	if err != nil {
		return err
	}
	return renderer.Run()
}

// newConsole builds the Console with gbcore.New. It does not recover
// panics: a fatal cartridge error raised during construction (an
// unsupported controller type or an image shorter than its header
// declares) propagates as a panic. Fatal panics raised while stepping are
// recovered only in headless mode, by runHeadless via reportFatal.
func newConsole(rom []byte, trace bool) *gbcore.Console {
	return gbcore.New(rom, trace)
}

func runHeadless(console *gbcore.Console, c *cli.Context, romPath string) (err error) {
	frames := c.Int("frames")
	if frames <= 0 {
		return errors.New("headless mode requires --frames with a positive value")
	}

	snapshotInterval := c.Int("snapshot-interval")
	snapshotDir := c.String("snapshot-dir")
	if snapshotInterval > 0 {
		if snapshotDir == "" {
			snapshotDir, err = os.MkdirTemp("", "gbcore-snapshots-*")
			if err != nil {
				return fmt.Errorf("creating snapshot directory: %w", err)
			}
		} else if err := os.MkdirAll(snapshotDir, 0o755); err != nil {
			return fmt.Errorf("creating snapshot directory: %w", err)
		}
	}

	romName := filepath.Base(romPath)
	romName = romName[:len(romName)-len(filepath.Ext(romName))]

	defer func() {
		if r := recover(); r != nil {
			err = reportFatal(console, r)
		}
	}()

	slog.Info("running headless", "rom", romPath, "frames", frames, "snapshot_interval", snapshotInterval)

	for i := 0; i < frames; i++ {
		for !console.NewFrame() {
			console.Step()
		}

		if snapshotInterval > 0 && (i+1)%snapshotInterval == 0 {
			path := filepath.Join(snapshotDir, fmt.Sprintf("%s_frame_%d.txt", romName, i+1))
			if err := saveSnapshot(console, path); err != nil {
				slog.Error("failed to save snapshot", "frame", i+1, "error", err)
			} else {
				slog.Info("saved frame snapshot", "frame", i+1, "path", path)
			}
		}
		if i%10 == 0 {
			slog.Info("frame progress", "completed", i+1, "total", frames)
		}
	}

	slog.Info("headless run completed", "frames", frames, "instructions", console.InstructionCount())
	return nil
}

// reportFatal implements spec.md 7's "user-visible" contract: the host
// surfaces the panic message with PC and opcode, with no attempt at
// partial recovery.
func reportFatal(console *gbcore.Console, r interface{}) error {
	return fmt.Errorf("fatal emulation error at PC=0x%04X: %v", console.PC(), r)
}

func saveSnapshot(console *gbcore.Console, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	fmt.Fprintf(file, "# gbcore frame snapshot\n")
	fmt.Fprintf(file, "# frame: %d, instructions: %d\n", console.FrameCount(), console.InstructionCount())
	fmt.Fprintf(file, "# resolution: 160x144 -> 160x72 text rows\n#\n")

	for _, line := range renderFrameToHalfBlocks(console.Frame(), screenWidth, screenHeight) {
		fmt.Fprintln(file, line)
	}
	return nil
}
