package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"
	"github.com/peterh/liner"

	idzeykl "github.com/idzeykl/idzeykl-src"
)

const (
	appName     = "idzeykl"
	historyFile = ".idzeykl_history"
	promptMain  = "==> "
	suffix      = ".idzey"
)

var errc = color.New(color.FgRed)

func main() {
	opts, optind, err := getopt.Getopts(os.Args, "htv")
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		usage()
		os.Exit(1)
	}

	tokenDump := false
	for _, opt := range opts {
		switch opt.Option {
		case 'h':
			usage()
			os.Exit(0)
		case 'v':
			fmt.Println(idzeykl.Version)
			os.Exit(0)
		case 't':
			tokenDump = true
		}
	}

	args := os.Args[optind:]
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	switch args[0] {
	case "run":
		os.Exit(cmdRun(args[1:], tokenDump))
	case "repl":
		os.Exit(cmdRepl())
	case "version":
		fmt.Println(idzeykl.Version)
	case "help":
		usage()
	default:
		// Bare compatibility form: idzeykl <input.idzey> [<output>]
		os.Exit(cmdRun(args, tokenDump))
	}
}

func usage() {
	fmt.Printf(`IdzeyKL %s

Usage:
  %s run <input%s> [<output>]    Run a script; with <output>, stdout goes there.
  %s -t <input%s>                Dump the token stream of a script.
  %s repl                          Start the interactive REPL.
  %s version                       Print the interpreter version.

Diagnostics always go to stderr. Exit code is 0 on success, 1 on any error.
`, idzeykl.Version, appName, suffix, appName, suffix, appName, appName)
}

// readSource loads an input file, enforcing the case-sensitive .idzey suffix
// and rejecting empty sources before any parsing happens.
func readSource(path string) (string, error) {
	if !strings.HasSuffix(path, suffix) {
		return "", fmt.Errorf("input file must have the %s suffix: %s", suffix, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("cannot read %s: %v", path, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("source file is empty: %s", path)
	}
	return string(data), nil
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string, tokenDump bool) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <input%s> [<output>]\n", appName, suffix)
		return 1
	}

	src, err := readSource(args[0])
	if err != nil {
		errc.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}

	if tokenDump {
		return dumpTokens(src)
	}

	program, perr := idzeykl.Parse(src)
	if perr != nil {
		errc.Fprintln(os.Stderr, idzeykl.WrapErrorWithSource(perr, src).Error())
		return 1
	}

	ip := idzeykl.NewInterpreter()
	if len(args) > 1 {
		out, ferr := os.Create(args[1]) // truncates on open
		if ferr != nil {
			errc.Fprintf(os.Stderr, "%s: cannot open %s: %v\n", appName, args[1], ferr)
			return 1
		}
		defer out.Close()
		ip.Out = out
	}

	if rerr := ip.Run(program); rerr != nil {
		errc.Fprintln(os.Stderr, rerr.Error())
		return 1
	}
	return 0
}

func dumpTokens(src string) int {
	lx := idzeykl.NewLexer(src)
	for _, tok := range lx.Scan() {
		fmt.Println(idzeykl.FormatToken(tok))
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl() int {
	fmt.Printf("IdzeyKL %s REPL\nCtrl+C cancels input, Ctrl+D exits.\n", idzeykl.Version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	ip := idzeykl.NewInterpreter()

	for {
		line, err := ln.Prompt(promptMain)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			errc.Fprintln(os.Stderr, err.Error())
			return 1
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		v, eerr := ip.EvalSource(line)
		if eerr != nil {
			errc.Fprintln(os.Stderr, eerr.Error())
			continue
		}
		fmt.Println(idzeykl.FormatValue(v))
		ln.AppendHistory(line)
	}
}
