// Command visbench benchmarks visibility detection methods over generated
// worlds, persists the runs to SQLite and writes comparison charts.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/banshee-data/sightline/internal/config"
	"github.com/banshee-data/sightline/internal/monitoring"
	"github.com/banshee-data/sightline/internal/security"
	"github.com/banshee-data/sightline/internal/version"
	"github.com/banshee-data/sightline/internal/vision/bench"
	"github.com/banshee-data/sightline/internal/vision/l2depth"
	"github.com/banshee-data/sightline/internal/vision/monitor"
	"github.com/banshee-data/sightline/internal/vision/storage/sqlite"
)

var (
	planPath    = flag.String("plan", "", "YAML benchmark plan (overrides -agents/-targets)")
	agentsCSV   = flag.String("agents", "", "Comma-separated agent counts, crossed with -targets")
	targetsCSV  = flag.String("targets", "", "Comma-separated target counts, crossed with -agents")
	methodsCSV  = flag.String("methods", "", "Comma-separated methods (default: all)")
	iterations  = flag.Int("iterations", bench.DefaultIterations, "Iterations per scenario (matrix mode)")
	ticks       = flag.Int("ticks", bench.DefaultTicks, "Ticks per iteration (matrix mode)")
	tuningPath  = flag.String("config", "", "Tuning config JSON (default: built-in defaults)")
	dbPath      = flag.String("db", "visbench.db", "SQLite database for run results (empty to skip)")
	outDir      = flag.String("out", "visbench-out", "Directory for charts")
	heatmaps    = flag.Bool("heatmaps", false, "Write depth heatmaps of the first observer per scenario")
	quiet       = flag.Bool("quiet", false, "Suppress progress logging")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func parseMethods(s string) ([]bench.Method, error) {
	if s == "" {
		return nil, nil
	}
	var out []bench.Method
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m, err := bench.ParseMethod(part)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func loadPlan() (bench.Plan, error) {
	methods, err := parseMethods(*methodsCSV)
	if err != nil {
		return bench.Plan{}, err
	}
	if *planPath != "" {
		p, err := bench.LoadPlan(*planPath)
		if err != nil {
			return bench.Plan{}, err
		}
		if len(methods) > 0 {
			p.Methods = methods
		}
		return p, p.Validate()
	}
	if *agentsCSV == "" && *targetsCSV == "" {
		p := bench.DefaultPlan()
		if len(methods) > 0 {
			p.Methods = methods
		}
		return p, p.Validate()
	}
	agents, err := bench.ParseCSVInts(*agentsCSV)
	if err != nil {
		return bench.Plan{}, fmt.Errorf("-agents: %w", err)
	}
	targets, err := bench.ParseCSVInts(*targetsCSV)
	if err != nil {
		return bench.Plan{}, fmt.Errorf("-targets: %w", err)
	}
	if len(agents) == 0 || len(targets) == 0 {
		return bench.Plan{}, fmt.Errorf("-agents and -targets must both be set")
	}
	p := bench.MatrixPlan(agents, targets, methods, *iterations, *ticks)
	return p, p.Validate()
}

func loadTuning() (*config.TuningConfig, error) {
	if *tuningPath == "" {
		return config.DefaultTuningConfig(), nil
	}
	return config.LoadTuningConfig(*tuningPath)
}

func chartName(run *bench.Run) string {
	return security.SanitizeFilename(fmt.Sprintf("ticks_%s_%s", run.Scenario.Name, run.Method)) + ".png"
}

func heatmapName(scenario, layer string) string {
	return security.SanitizeFilename(fmt.Sprintf("depth_%s_%s", scenario, layer)) + ".png"
}

// outputPath places name under the output directory.
func outputPath(name string) (string, error) {
	return security.JoinWithin(*outDir, name)
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println("visbench " + version.String())
		return
	}
	if *quiet {
		monitoring.SetLogger(nil)
	}

	plan, err := loadPlan()
	if err != nil {
		log.Fatalf("invalid plan: %v", err)
	}
	tuning, err := loadTuning()
	if err != nil {
		log.Fatalf("failed to load tuning config: %v", err)
	}
	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("failed to create output dir: %v", err)
	}

	runner := bench.NewRunner(tuning)

	var store *sqlite.RunStore
	if *dbPath != "" {
		db, err := sqlite.Open(*dbPath)
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()
		if err := sqlite.MigrateUp(db); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}
		store = sqlite.NewRunStore(db)
	}

	runner.OnRun = func(run *bench.Run) error {
		log.Printf("%s / %s: mean %.3fms p95 %.3fms, %.1f queries/tick",
			run.Scenario.Name, run.Method, run.Summary.MeanMs, run.Summary.P95Ms, run.Summary.MeanQueries)
		if store != nil {
			if err := store.Insert(run); err != nil {
				return fmt.Errorf("store run: %w", err)
			}
			if err := store.InsertSamples(run.ID, run.Samples); err != nil {
				return fmt.Errorf("store samples: %w", err)
			}
		}
		path, err := outputPath(chartName(run))
		if err != nil {
			return err
		}
		if err := monitor.WriteTickChart(run, path); err != nil {
			log.Printf("tick chart for %s: %v", run.Scenario.Name, err)
		}
		return nil
	}

	if *heatmaps {
		for _, sc := range plan.Selected() {
			snap, err := runner.Snapshot(sc)
			if err != nil {
				log.Fatalf("snapshot %s: %v", sc.Name, err)
			}
			for _, layer := range []struct {
				name string
				grid *l2depth.Grid
			}{{"env", snap.Environment}, {"targets", snap.Targets}} {
				path, err := outputPath(heatmapName(sc.Name, layer.name))
				if err != nil {
					log.Fatalf("heatmap: %v", err)
				}
				if err := monitor.WriteDepthHeatmap(layer.grid, sc.Name+" "+layer.name, path); err != nil {
					log.Fatalf("heatmap: %v", err)
				}
			}
			log.Printf("%s: observer %s sees %d targets", sc.Name, snap.Observer, snap.Result.Len())
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runs, err := runner.RunPlan(ctx, plan)
	if err != nil {
		log.Printf("benchmark stopped: %v", err)
	}
	if len(runs) == 0 {
		log.Fatalf("no runs completed")
	}

	summaryPath, err := outputPath("summary.html")
	if err != nil {
		log.Fatalf("summary path: %v", err)
	}
	f, err := os.Create(summaryPath)
	if err != nil {
		log.Fatalf("failed to create summary: %v", err)
	}
	defer f.Close()
	if err := monitor.WriteSummaryHTML(f, runs); err != nil {
		log.Fatalf("failed to write summary: %v", err)
	}
	log.Printf("wrote %d runs, summary at %s", len(runs), summaryPath)
}
