package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/student/gbcore/gbcore"
	"github.com/student/gbcore/gbcore/memory"
)

const (
	screenWidth  = 160
	screenHeight = 144
	frameTime    = time.Second / 60
	registerPaneWidth = 26
	minTermWidth      = screenWidth + registerPaneWidth + 2
	minTermHeight     = screenHeight/2 + 2
)

// terminalRenderer is a trimmed, tcell-based host surface grounded on
// the teacher's render/terminal.go: the game screen rendered with
// half-block characters plus a register readout, without the
// teacher's disassembly/log panes and debugger pause/step state
// machine, which are out of this core's scope.
type terminalRenderer struct {
	screen  tcell.Screen
	console *gbcore.Console
	running bool
}

func newTerminalRenderer(c *gbcore.Console) (*terminalRenderer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}

	return &terminalRenderer{screen: screen, console: c, running: true}, nil
}

func (t *terminalRenderer) Run() error {
	defer t.screen.Fini()

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	// handleInput runs on its own goroutine and calls Console.KeyDown/
	// KeyUp, which only enqueue the event — Step drains the queue on
	// this goroutine, so the two never touch guest state concurrently.
	go t.handleInput()

	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	for t.running {
		select {
		case <-ticker.C:
			for !t.console.NewFrame() {
				t.console.Step()
			}
			t.render()
			t.screen.Show()
		case <-signals:
			t.running = false
			return nil
		}
	}
	return nil
}

func (t *terminalRenderer) handleInput() {
	for t.running {
		ev := t.screen.PollEvent()
		keyEv, ok := ev.(*tcell.EventKey)
		if !ok {
			if _, resized := ev.(*tcell.EventResize); resized {
				t.screen.Sync()
			}
			continue
		}

		switch keyEv.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			t.running = false
			return
		case tcell.KeyEnter:
			t.tap(memory.Start)
		case tcell.KeyRight:
			t.tap(memory.Right)
		case tcell.KeyLeft:
			t.tap(memory.Left)
		case tcell.KeyUp:
			t.tap(memory.Up)
		case tcell.KeyDown:
			t.tap(memory.Down)
		case tcell.KeyRune:
			switch keyEv.Rune() {
			case 'a':
				t.tap(memory.ButtonA)
			case 's':
				t.tap(memory.ButtonB)
			case 'q':
				t.tap(memory.Select)
			}
		}
	}
}

// tap presses and releases a button: terminal key events carry no
// reliable key-up signal, so every input is treated as momentary, the
// same limitation the teacher's terminal backend works around.
func (t *terminalRenderer) tap(b memory.Button) {
	t.console.KeyDown(b)
	t.console.KeyUp(b)
}

func (t *terminalRenderer) render() {
	termWidth, termHeight := t.screen.Size()
	if termWidth < minTermWidth || termHeight < minTermHeight {
		t.screen.Clear()
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		for i, ch := range msg {
			t.screen.SetContent(i, termHeight/2, ch, nil, style)
		}
		return
	}

	t.screen.Clear()
	t.drawGameBoy()
	t.drawRegisters(termWidth)
}

func (t *terminalRenderer) drawGameBoy() {
	lines := renderFrameToHalfBlocks(t.console.Frame(), screenWidth, screenHeight)
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for y, line := range lines {
		for x, ch := range line {
			t.screen.SetContent(x, y, ch, nil, style)
		}
	}
}

func (t *terminalRenderer) drawRegisters(termWidth int) {
	startX := screenWidth + 2
	if startX >= termWidth {
		return
	}

	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	lines := []string{
		t.console.Regs(),
		fmt.Sprintf("Instr: %d", t.console.InstructionCount()),
		fmt.Sprintf("Frame: %d", t.console.FrameCount()),
	}
	for y, line := range lines {
		x := startX
		for _, ch := range line {
			if x >= termWidth {
				break
			}
			t.screen.SetContent(x, y, ch, nil, style)
			x++
		}
	}
}
