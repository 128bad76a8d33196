// ABOUTME: CLI entry point for the differential display engine demo
// ABOUTME: Parses flags, loads config and capabilities, drives a minimal line editor loop

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"golang.org/x/text/encoding/charmap"

	"github.com/vigna-ne/dispd/internal/config"
	"github.com/vigna-ne/dispd/pkg/buffer"
	"github.com/vigna-ne/dispd/pkg/display"
	"github.com/vigna-ne/dispd/pkg/termcap"
	"github.com/vigna-ne/dispd/pkg/tui"
	"github.com/vigna-ne/dispd/pkg/tui/terminal"
	"github.com/vigna-ne/dispd/pkg/tui/theme"
)

func main() {
	args := parseFlags()

	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args cliArgs) error {
	settings := config.Default()
	if args.configPath != "" {
		loaded, err := config.Load(args.configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		settings = loaded
	}
	if args.termOver != "" {
		settings.TermOverride = args.termOver
	}
	if args.forceANSI {
		settings.ForceANSIProfile = true
	}
	if !args.utf8 {
		settings.UTF8 = false
	}

	caps, err := resolveCapabilities(settings)
	if err != nil {
		return fmt.Errorf("resolving terminal capabilities: %w", err)
	}
	caps.IOUTF8 = settings.UTF8
	if settings.NoColorVideoOverride != 0 {
		caps.NoColorVideo = settings.NoColorVideoOverride
	}

	term := terminal.NewProcessTerminal()
	term.SetCursorNormal(caps.CursorNormal)
	w, h, err := term.Size()
	if err != nil {
		w, h = caps.Cols, caps.Rows
	}
	caps.Cols, caps.Rows = w, h

	if err := term.EnterRawMode(); err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	defer term.ExitRawMode()
	defer terminal.RestoreOnPanic(term, caps.CursorNormal)

	term.Write([]byte(caps.EnterCAMode + caps.KeypadXmit))
	if caps.HasMetaKey {
		term.Write([]byte(caps.MetaOn))
	}
	defer func() {
		// Leave the terminal usable: scroll region restored, cursor on the
		// last row, the rest of that row cleared, alternate screen and
		// keypad modes undone.
		if caps.ChangeScrollRegion != nil {
			term.Write([]byte(caps.ChangeScrollRegion(0, caps.Rows-1)))
		}
		if caps.CursorAddress != nil {
			term.Write([]byte(caps.CursorAddress(caps.Rows-1, 0)))
		}
		term.Write([]byte(caps.ClrEOL))
		if caps.HasMetaKey {
			term.Write([]byte(caps.MetaOff))
		}
		term.Write([]byte(caps.KeypadLocal + caps.ExitCAMode + caps.CursorNormal))
	}()

	enc := buffer.Encoding8Bit
	if settings.UTF8 {
		enc = buffer.EncodingUTF8
	}

	engine, err := display.New(caps, writerFunc(term.Write),
		display.WithTurbo(settings.Turbo),
		display.WithSpecifiedWindow(caps.Rows-1),
		display.WithCharmap(charmapByName(settings.CharmapName)),
	)
	if err != nil {
		return fmt.Errorf("creating display engine: %w", err)
	}

	if th := theme.Builtin(settings.ColorPalette); th != nil {
		theme.Set(th)
	}

	buf := newDemoBuffer(settings.TabSize, enc)
	buf.winY = caps.Rows - 1
	if args.fileName != "" {
		buf.name = args.fileName
	}

	drawStatus := func() {
		st := tui.Status{
			Name:     buf.name,
			Row:      buf.curLine,
			Col:      buf.column(),
			Modified: buf.modified,
			TabSize:  buf.tabSize,
			Encoding: enc.String(),
		}
		engine.DrawStatusLine(tui.Render(st, caps.Cols, theme.Current().Palette))
	}

	term.OnResize(func(width, height int) {
		buf.winY = height - 1
		engine.Resize(height, width)
		caps.Cols, caps.Rows = width, height
		engine.RefreshWindow(buf)
		drawStatus()
	})

	engine.ResetWindow()
	engine.RefreshWindow(buf)
	drawStatus()

	if args.configPath != "" {
		watcher := config.NewWatcher(args.configPath, func(s config.Settings) {
			settings = s
			if th := theme.Builtin(settings.ColorPalette); th != nil {
				theme.Set(th)
			}
			buf.tabSize = settings.TabSize
			drawStatus()
		})
		watcher.Start()
		defer watcher.Stop()
	}

	return runLoop(engine, buf, drawStatus)
}

// writerFunc adapts a Write method value to io.Writer.
type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

// charmapByName maps the config's charmap name to an x/text encoding
// table; nil (raw low-byte output) when the name is empty or unknown.
func charmapByName(name string) *charmap.Charmap {
	switch name {
	case "ISO-8859-1", "latin1":
		return charmap.ISO8859_1
	case "ISO-8859-15", "latin9":
		return charmap.ISO8859_15
	case "Windows-1252":
		return charmap.Windows1252
	case "KOI8-R":
		return charmap.KOI8R
	default:
		return nil
	}
}

func resolveCapabilities(s config.Settings) (termcap.Capabilities, error) {
	if s.TermOverride != "" {
		os.Setenv("TERM", s.TermOverride)
	}
	if s.ForceANSIProfile {
		return termcap.ANSIProfile(), nil
	}
	return termcap.Load(context.Background())
}

// runLoop reads raw stdin bytes and applies them to buf, redrawing
// via the display engine. It recognizes Ctrl-D as exit, CR/LF as a new
// line, Backspace/DEL as deleting the line's last character, and treats
// every other byte as a character insert; this is enough to exercise
// the engine's incremental update paths without a full editor.
func runLoop(e *display.Engine, buf *demoBuffer, drawStatus func()) error {
	r := bufio.NewReader(os.Stdin)
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil
		}
		row := buf.CurrentLine() - buf.TopLine()
		switch b {
		case 0x04: // Ctrl-D
			return nil
		case '\r', '\n':
			buf.newline()
			e.RefreshWindow(buf)
		case 0x08, 0x7F: // Backspace / DEL
			if col, width, ok := buf.deleteLastRune(); ok {
				if ld, lok := buf.Line(row); lok {
					e.UpdateDeletedChar(buf, ld, row, col, buf.runeCount(), width)
				}
			}
		default:
			buf.insertRune(rune(b))
			e.UpdateLine(buf, row, false, true)
		}
		drawStatus()
	}
}
