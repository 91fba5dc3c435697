package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/igxactly-forks/lightning/internal/config"
	"github.com/igxactly-forks/lightning/internal/project"
	"github.com/igxactly-forks/lightning/internal/scaffold"
	"github.com/igxactly-forks/lightning/internal/secrets"
)

func newCmd(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: lx new <template> <title>")
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}
	template, title := fs.Arg(0), fs.Arg(1)

	path, err := project.Find()
	if err != nil {
		return failf(stderr, "%v", err)
	}
	info, err := project.LoadSite(path, nil)
	if err != nil {
		return failf(stderr, "%v", err)
	}
	cfg, err := config.Load(ctx, config.Options{File: path, Secrets: secrets.NewVault(zap.S())})
	if err != nil {
		return failf(stderr, "settings: %v", err)
	}

	out, err := scaffold.New(template, cfg.Build.ContentDir, title, info, time.Now())
	if err != nil {
		return failf(stderr, "%v", err)
	}
	fmt.Fprintf(stdout, "created %s\n", out)
	return 0
}
