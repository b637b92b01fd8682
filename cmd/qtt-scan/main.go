package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/VandersypenQutech/qtt"
	"github.com/VandersypenQutech/qtt/internal/app/config"
	"github.com/VandersypenQutech/qtt/internal/app/sweep"
	"github.com/VandersypenQutech/qtt/internal/domain"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	var err error

	switch cmd {
	case "run":
		err = runCommand(os.Args[2:])
	case "plan":
		err = planCommand(os.Args[2:])
	case "validate":
		err = validateCommand(os.Args[2:])
	case "stats":
		err = statsCommand(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		printUsage()
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		log.Fatalf("qtt-scan %s: %v", cmd, err)
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", "./data/config.yaml", "Path to lab configuration file")
	jobPath := fs.String("job", "", "Scan job file to execute (omit to keep the session running)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	lab, err := qtt.Open(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *jobPath == "" {
		return lab.Run(ctx)
	}

	job, err := config.LoadJob(*jobPath)
	if err != nil {
		return fmt.Errorf("load job: %w", err)
	}
	if err := lab.Start(ctx); err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := lab.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	var ds *qtt.Dataset
	switch job.ScanType {
	case qtt.Scan2DFast:
		ds, err = lab.Scan2DFast(job, nil)
	case qtt.Scan1DFast:
		ds, err = lab.Scan1DFast(job, nil)
	case qtt.Scan2D:
		ds, err = lab.Scan2D(job, nil)
	default:
		ds, err = lab.Scan1D(job, nil)
	}
	if err != nil {
		return err
	}

	fmt.Printf("dataset written to %s (%d arrays)\n", ds.Location, len(ds.Arrays))
	return nil
}

func planCommand(args []string) error {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	param := fs.String("param", "P1", "Axis reference (gate name or instrument.parameter)")
	start := fs.Float64("start", 0, "Sweep start value")
	end := fs.Float64("end", 0, "Sweep end value")
	step := fs.Float64("step", 1, "Sweep step size")
	sweepRange := fs.Float64("range", 0, "Sweep range centered on start (overrides end)")
	target := fs.Float64("target", 0, "Target point count imposed by hardware triggers (0 for none)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	spec := domain.AxisSpec{
		Param: domain.ParseParamRef(*param),
		Start: *start,
		End:   *end,
		Range: *sweepRange,
		Step:  *step,
	}
	values, revised, err := sweep.Plan(spec, *target)
	if err != nil {
		return err
	}

	lo, hi := revised.Bounds()
	fmt.Printf("%s: %d points over [%g, %g], step %g\n", revised.Param, len(values), lo, hi, revised.Step)
	for _, v := range values {
		fmt.Printf("  %g\n", v)
	}
	return nil
}

func validateCommand(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cfgPath := fs.String("config", "./data/config.yaml", "Path to configuration file to validate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := qtt.LoadConfig(*cfgPath); err != nil {
		return err
	}
	fmt.Printf("config %s looks good\n", *cfgPath)
	return nil
}

func statsCommand(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	url := fs.String("url", "http://localhost:9100/metrics", "Prometheus metrics endpoint")
	interval := fs.Duration("interval", 2*time.Second, "Refresh interval")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	fmt.Printf("Streaming metrics from %s (Ctrl+C to stop)\n", *url)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := printMetricsSnapshot(*url); err != nil {
				fmt.Fprintf(os.Stderr, "stats error: %v\n", err)
			}
		}
	}
}

func printMetricsSnapshot(url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	targets := map[string]float64{
		"qtt_scan_points_total":      0,
		"qtt_datasets_written_total": 0,
		"qtt_scan_active":            0,
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		for key := range targets {
			if strings.HasPrefix(line, key+" ") {
				var value float64
				if _, err := fmt.Sscanf(line, key+" %f", &value); err == nil {
					targets[key] = value
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	fmt.Printf("[%s] points=%f datasets=%f active=%f\n",
		time.Now().Format(time.RFC3339),
		targets["qtt_scan_points_total"],
		targets["qtt_datasets_written_total"],
		targets["qtt_scan_active"],
	)
	return nil
}

func printUsage() {
	fmt.Printf(`qtt-scan CLI

Usage:
  qtt-scan <command> [flags]

Commands:
  run        Start a lab session using the provided config
  plan       Print the sweep grid a scan would drive
  validate   Load and validate a config file without starting a session
  stats      Poll the Prometheus metrics endpoint and print live counters

Examples:
  qtt-scan run -config ./data/config.yaml
  qtt-scan run -config ./data/config.yaml -job ./data/job.yaml
  qtt-scan plan -param P1 -start -100 -end 100 -step 2.5
  qtt-scan validate -config ./data/config.yaml
  qtt-scan stats -url http://localhost:9100/metrics -interval 1s
`)
}
