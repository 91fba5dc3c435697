package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/igxactly-forks/lightning/internal/project"
	"github.com/igxactly-forks/lightning/internal/siteinfo"
)

// checkResult is one line of `lx check --json`.
type checkResult struct {
	File  string             `json:"file"`
	OK    bool               `json:"ok"`
	Kind  string             `json:"kind,omitempty"`
	Error string             `json:"error,omitempty"`
	Site  *siteinfo.SiteInfo `json:"site,omitempty"`
}

// maxParallelChecks bounds concurrent file loads.
const maxParallelChecks = 8

func checkCmd(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "print results as JSON")
	dump := fs.Bool("dump", false, "dump each validated record")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	files := fs.Args()
	if len(files) == 0 {
		f, err := project.Find()
		if err != nil {
			return failf(stderr, "%v", err)
		}
		files = []string{f}
	}

	v := siteinfo.NewValidator(nil, nil)
	results := make([]checkResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelChecks)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := checkResult{File: f}
			info, err := project.LoadSite(f, v)
			if err != nil {
				res.Kind = siteinfo.KindOf(err)
				res.Error = err.Error()
			} else {
				res.OK = true
				res.Site = &info
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return failf(stderr, "%v", err)
	}

	failed := 0
	for _, r := range results {
		if !r.OK {
			failed++
		}
	}

	if *asJSON {
		out, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return failf(stderr, "encode: %v", err)
		}
		fmt.Fprintln(stdout, string(out))
	} else {
		for _, r := range results {
			if !r.OK {
				fmt.Fprintf(stderr, "FAIL %s\n", r.Error)
				continue
			}
			fmt.Fprintf(stdout, "ok   %s  %s <%s>\n", r.File, r.Site.Title, r.Site.URL)
			if *dump {
				fmt.Fprint(stdout, spew.Sdump(r.Site))
			}
		}
	}

	if failed > 0 {
		return 1
	}
	return 0
}
