// cmd/lx/main.go
//
// lx – command-line entry point for the lightning site generator.
//
// Subcommands
// -----------
//
//	lx check [--json] [--dump] [files...]   validate site_info sections
//	lx generate [--local] [--serve]         write the build manifest, serve
//	lx new <template> <title>               create content from a template
//	lx version                              print the version
//
// Exit codes: 0 success, 1 a command failed, 2 usage error.
//
// Each subcommand owns a flag.FlagSet and returns an exit code, so `run`
// is testable without touching os.Exit.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// version is overridden at link time with -ldflags "-X main.version=…".
var version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}
	switch args[0] {
	case "check":
		return checkCmd(ctx, args[1:], stdout, stderr)
	case "generate":
		return generateCmd(ctx, args[1:], stdout, stderr)
	case "new":
		return newCmd(ctx, args[1:], stdout, stderr)
	case "version", "--version", "-V":
		fmt.Fprintf(stdout, "lx %s\n", version)
		return 0
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "lx: unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `lx – a fast, reliable, configurable static site generator.

Usage:
  lx check [--json] [--dump] [files...]
  lx generate [--local] [--serve]
  lx new <template> <title>
  lx version

The project file (lightning.yaml) is found under $LX_ROOT or by climbing
from the working directory.
`)
}

func failf(w io.Writer, format string, a ...any) int {
	fmt.Fprintf(w, "lx: "+format+"\n", a...)
	return 1
}
