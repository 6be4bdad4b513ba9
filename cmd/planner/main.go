// Command planner runs a one-shot route analysis from the command line:
// it reads a GeoJSON route, queries live facilities, scores candidates,
// and writes the ranked report to stdout or a file.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/yusefelshater/TransCalc/internal/adapters/export"
	"github.com/yusefelshater/TransCalc/internal/adapters/fallback"
	"github.com/yusefelshater/TransCalc/internal/adapters/maprender"
	"github.com/yusefelshater/TransCalc/internal/adapters/overpass"
	"github.com/yusefelshater/TransCalc/internal/core/domain"
	"github.com/yusefelshater/TransCalc/internal/core/ports"
	"github.com/yusefelshater/TransCalc/internal/core/usecases"
	"github.com/yusefelshater/TransCalc/internal/pkg/config"
	"github.com/yusefelshater/TransCalc/internal/pkg/logging"
)

func main() {
	var (
		input   = flag.String("input", "", "GeoJSON route file (required)")
		topK    = flag.Int("top-k", usecases.DefaultTopK, "existing candidates to keep")
		format  = flag.String("format", "json", "output format: json, csv, or xlsx")
		output  = flag.String("output", "", "output file (default stdout)")
		withMap = flag.Bool("map", false, "also render an HTML map into the runs directory")
		verbose = flag.Bool("verbose", false, "log every geodata attempt")
	)
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load("transcalc-planner")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logging.Setup(os.Getenv("LOG_LEVEL"), "text")

	data, err := os.ReadFile(*input)
	if err != nil {
		log.Fatalf("read route: %v", err)
	}
	path, err := domain.ParsePathGeoJSON(data)
	if err != nil {
		log.Fatalf("parse route: %v", err)
	}

	gateway := overpass.New(overpass.Options{
		Endpoints:  cfg.Overpass.Endpoints,
		Timeout:    time.Duration(cfg.Overpass.Timeout) * time.Second,
		MaxRetries: cfg.Overpass.Retries,
		Backoff:    cfg.Overpass.BackoffSchedule(),
		Verbose:    *verbose || cfg.Overpass.Verbose,
	})

	var renderer ports.MapRenderer
	if *withMap {
		renderer = maprender.New(cfg.Planner.RunsDir)
	}

	planner := usecases.NewPlannerService(
		gateway,
		fallback.New(cfg.Planner.FallbackFile),
		usecases.NewScorer(gateway),
		nil,
		renderer,
	)

	result, err := planner.Analyze(context.Background(), path, nil, *topK)
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}

	printSummary(path, result)

	out := io.Writer(os.Stdout)
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("create output: %v", err)
		}
		defer f.Close()
		out = f
	}

	report := export.NewReport(path, domain.DefaultWeights(), result)
	switch *format {
	case "json":
		err = export.JSON(out, report)
	case "csv":
		err = export.CSV(out, report)
	case "xlsx":
		err = export.Excel(out, report)
	default:
		log.Fatalf("unknown format: %s", *format)
	}
	if err != nil {
		log.Fatalf("write report: %v", err)
	}
}

func printSummary(path domain.Path, result *domain.AnalysisResult) {
	fmt.Fprintf(os.Stderr, "route: %d points, %.1f km\n", len(path), path.TotalLength()/1000)
	fmt.Fprintf(os.Stderr, "existing candidates: %d, proposed sites: %d\n",
		len(result.Existing), len(result.Proposed))
	for i, c := range result.Existing {
		fmt.Fprintf(os.Stderr, "  %d. %s  score=%.3f (norm %.3f)\n",
			i+1, c.Name, c.Score.TotalScore, c.Score.TotalScoreNorm)
	}
	if result.MapPath != "" {
		fmt.Fprintf(os.Stderr, "map: %s\n", result.MapPath)
	}
}
