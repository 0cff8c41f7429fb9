// Command shadow_compare replays read routes against the legacy student
// management service and the Go API and reports where their answers differ.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"
	"time"
)

func main() {
	var (
		cmp         comparer
		targetsPath string
		timeout     time.Duration
	)
	flag.StringVar(&cmp.goBase, "go-base", "http://localhost:8081/api/v1", "Go API base URL")
	flag.StringVar(&cmp.legacyBase, "legacy-base", "http://localhost:8080", "Legacy API base URL")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "shadow_compare", "targets.json"), "JSON targets file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.BoolVar(&cmp.unwrap, "unwrap-data", true, "Compare only the data member of Go response envelopes")
	flag.Parse()

	targets, err := loadTargets(targetsPath)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("targets file %s not found, using built-in student routes", targetsPath)
		targets, err = defaultTargets, nil
	}
	if err != nil {
		log.Fatalf("load targets: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	cmp.client = &http.Client{Timeout: timeout}

	results := make([]result, 0, len(targets))
	for _, t := range targets {
		results = append(results, cmp.compare(ctx, t))
	}

	breaking := report(os.Stdout, results)
	if breaking > 0 {
		os.Exit(1)
	}
}

// report writes one line per target and returns how many critical targets
// failed to match.
func report(w io.Writer, results []result) int {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RESULT\tMETHOD\tPATH\tGO\tLEGACY\tCRITICAL\tNOTE")

	breaking, optional := 0, 0
	for _, res := range results {
		status := res.outcome()
		note := ""
		switch {
		case res.Err != nil:
			note = res.Err.Error()
		case !res.BodyMatch:
			note = "bodies differ"
		}
		if status != outcomeMatch {
			if res.Target.Critical {
				breaking++
			} else {
				optional++
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d (%s)\t%d (%s)\t%t\t%s\n",
			status, res.Target.Method, res.Target.Path,
			res.Go.Status, res.Go.Elapsed.Round(time.Millisecond),
			res.Legacy.Status, res.Legacy.Elapsed.Round(time.Millisecond),
			res.Target.Critical, note)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "Breaking diffs: %d, Optional diffs: %d\n", breaking, optional)
	return breaking
}
