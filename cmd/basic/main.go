// cmd/basic runs a previously-assembled bytecode program. It has no
// lexer, parser, or compiler of its own: program assembly happens
// upstream, and this binary only loads the serialized Program and drives
// the interpreter core against real stdio.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ncruces/go-strftime"

	"basic/internal/bytecode"
	"basic/internal/filemanager"
	"basic/internal/interp"
	"basic/internal/printer"
	"basic/internal/rtypes"
)

const version = "1.0.0"

// commandAliases mirrors the short-form aliases a BASIC user would
// expect from a command-line interpreter front end.
var commandAliases = map[string]string{
	"r": "run",
	"v": "version",
	"h": "help",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		return
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	switch cmd {
	case "--help", "-h", "help":
		showUsage()
	case "--version", "-v", "version":
		showVersion()
	case "run":
		if len(args) < 2 {
			log.Fatal("no program file provided to run command")
		}
		runFile(args[1], args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		showUsage()
		os.Exit(1)
	}
}

func runFile(path string, flags []string) {
	debug := false
	for _, f := range flags {
		if f == "-debug" || f == "--debug" {
			debug = true
		}
	}

	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("could not open program file: %v", err)
	}
	defer f.Close()

	prog, err := bytecode.Deserialize(f)
	if err != nil {
		log.Fatalf("could not load program: %v", err)
	}

	if debug {
		log.Printf("loading %s at %s", path, strftime.Format("%Y-%m-%d %H:%M:%S", time.Now()))
	}

	stdin := bufio.NewReader(os.Stdin)
	host := &interp.Host{
		Input:    newStdinInput(stdin),
		Output:   printer.NewWriterSink(os.Stdout),
		Screen:   newTermScreen(os.Stdout),
		Stdlib:   processStdlib{},
		Clock:    systemClock{},
		Keyboard: newStdioKeyboard(stdin),
		Types:    rtypes.NewRegistry(),
		Files:    filemanager.New(),
	}
	defer host.Files.CloseAll()

	ip := interp.New(prog, host)
	if err := ip.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println("basic - run a compiled BASIC program")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  basic run <program.bpc> [-debug]   Run a compiled program  (alias: r)")
	fmt.Println("  basic version                      Print version info     (alias: v)")
	fmt.Println("  basic help                          Show this message      (alias: h)")
}

func showVersion() {
	fmt.Printf("basic %s\n", version)
}
