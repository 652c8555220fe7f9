// Command matcher is a thin demo entrypoint over pkg/matcher. It wires a
// config file, the concurrency substrate and an optional NATS progress
// reporter together and runs a full auto-match pass. Loading class
// artifacts from disk is an external collaborator (spec §1) this command
// does not implement; it only demonstrates correct wiring of the core
// against whatever graph a loader has already populated.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/starkandwayne/goutils/ansi"

	"github.com/Chocohead/Matcher/internal/config"
	"github.com/Chocohead/Matcher/internal/log"
	"github.com/Chocohead/Matcher/internal/parallel"
	"github.com/Chocohead/Matcher/internal/progress"
	"github.com/Chocohead/Matcher/pkg/matcher"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults used if empty)")
	level := flag.String("level", "", "default classifier level to record in the config and log at startup: Initial, Intermediate, Full, Extra (overrides config; AutoMatchAll always runs its own level sequence)")
	debug := flag.Bool("debug", false, "enable debug-level logging")
	trace := flag.Bool("trace", false, "enable trace-level logging")
	natsURL := flag.String("nats-url", "", "NATS server URL to publish progress ticks to (disabled if empty)")
	natsSubject := flag.String("nats-subject", "matcher.progress", "NATS subject to publish progress ticks to")
	flag.Parse()

	ansi.Color(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))

	if *trace {
		log.SetLevel(log.LevelTrace)
	} else if *debug {
		log.SetLevel(log.LevelDebug)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.NewLoader().LoadFile(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, ansi.Sprintf("@R{error:} %s", err))
			os.Exit(1)
		}
		cfg = loaded
	}
	if err := config.NewLoader().ApplyEnv(cfg); err != nil {
		fmt.Fprintln(os.Stderr, ansi.Sprintf("@R{error:} %s", err))
		os.Exit(1)
	}
	if *level != "" {
		cfg.DefaultLevel = *level
	}

	var reporter *progress.NATSReporter
	onProgress := func(done, total int) {}
	if *natsURL != "" {
		r, err := progress.NewNATSReporter(*natsURL, *natsSubject)
		if err != nil {
			fmt.Fprintln(os.Stderr, ansi.Sprintf("@R{error:} %s", err))
			os.Exit(1)
		}
		reporter = r
		defer reporter.Close()
		onProgress = reporter.Reporter("autoMatchAll")
	}

	g := matcher.NewGraph()
	ar := matcher.NewArbiter(g)
	env := &matcher.Env{Graph: g, Insns: matcher.NoInstructions{}}
	runOpts := parallel.RunOpts{MaxWorkers: cfg.MaxWorkers, Stride: cfg.ProgressStride}
	driver := matcher.NewDriver(g, ar, env, cfg.Thresholds, runOpts)

	log.INFO("matcher starting: level=%s maxWorkers=%d", cfg.DefaultLevel, cfg.MaxWorkers)

	ctx := context.Background()
	if err := driver.AutoMatchAll(ctx, onProgress); err != nil {
		fmt.Fprintln(os.Stderr, ansi.Sprintf("@R{error:} %s", err))
		os.Exit(1)
	}
	if _, err := driver.MergeMatchClasses(ctx, onProgress); err != nil {
		fmt.Fprintln(os.Stderr, ansi.Sprintf("@R{error:} %s", err))
		os.Exit(1)
	}
	ar.PropagateNames(onProgress)

	status := g.Status(true)
	log.INFO("done: %s", status.String())
}
