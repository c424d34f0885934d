package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/sketchthis/sketchlang"
)

const (
	appName     = "sketch"
	historyFile = ".sketchlang_history"
	promptMain  = "==> "
	promptCont  = "... "
)

var (
	errColor    = color.New(color.FgRed)
	valueColor  = color.New(color.FgBlue)
	bannerColor = color.New(color.FgGreen)

	banner = fmt.Sprintf("SketchLang %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit, :svg to show the document.", sketchlang.Version)
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch cmd := os.Args[1]; cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "version":
		fmt.Println(sketchlang.Version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`SketchLang %s

Usage:
  %s run <file.sk> [-o out.svg] [-limit N]   Run a program and emit its SVG.
  %s repl                                    Start the REPL.
  %s version                                 Print the version.

`, sketchlang.Version, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	out := fs.String("o", "", "write the SVG document to this file instead of stdout")
	limit := fs.Int("limit", 0, "execution budget (evaluated operations); 0 means unlimited")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <file.sk> [-o out.svg] [-limit N]\n", appName)
		return 2
	}
	file := fs.Arg(0)

	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	ip := sketchlang.New()
	ip.Limit = *limit
	if *out == "" {
		// keep stdout clean for the SVG document
		ip.Out = os.Stderr
	}

	svg, runErr := ip.RunProgram(string(src))
	if runErr != nil {
		errColor.Fprintln(os.Stderr, sketchlang.WrapErrorWithSource(runErr, string(src)))
		return 1
	}

	if *out != "" {
		if err := os.WriteFile(*out, []byte(svg), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "%s: cannot write %s: %v\n", appName, *out, err)
			return 1
		}
		return 0
	}
	fmt.Print(svg)
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(_ []string) int {
	bannerColor.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ip := sketchlang.New()

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return 0
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit":
				return 0
			case ":svg":
				if ip.Canvas().Started() {
					fmt.Print(ip.Canvas().SVG())
				} else {
					fmt.Println("no canvas started; try: start svg width 200 height 200")
				}
			default:
				fmt.Println("unknown command. Type :quit to exit, :svg to show the document.")
			}
			continue
		}

		v, err := ip.EvalSource(code)
		if err != nil {
			errColor.Fprintln(os.Stderr, sketchlang.WrapErrorWithSource(err, code))
			continue
		}
		if v.Tag != sketchlang.VTNull {
			valueColor.Println(sketchlang.FormatValue(v))
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

// readByParseProbe accumulates lines until the buffer parses, switching to
// the continuation prompt while the parser reports truncated input
// (an unclosed block or dangling expression).
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, perr := sketchlang.Parse(src); perr == nil || !sketchlang.IsIncomplete(perr) {
			return src, true
		}
	}
}
