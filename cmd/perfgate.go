package main

import (
	"flag"
	"os"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/codequality-tools/perfgate/pkg/config"
	"github.com/codequality-tools/perfgate/pkg/invoker"
	"github.com/codequality-tools/perfgate/pkg/metric"
	"github.com/codequality-tools/perfgate/pkg/runner"
)

var (
	configPath = flag.String("config", "cmd/config_harness.json", "Path to harness configuration file")
	verbosity  = flag.String("verbosity", "info", "Logging verbosity - choose from [info, debug, trace]")
)

func init() {
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{
		TimestampFormat: time.StampMilli,
		FullTimestamp:   true,
	})
	log.SetOutput(os.Stdout)

	switch *verbosity {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "trace":
		log.SetLevel(log.TraceLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

func main() {
	cfg := config.ReadConfigurationFile(*configPath)
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	policy := cfg.Policy()
	runID := uuid.New().String()

	baseline := runner.NewPerformanceRunner(cfg.Baseline.Version, policy)
	candidate := runner.NewPerformanceRunner(cfg.Candidate.Version, policy)

	exerciseVersion(baseline, &cfg, cfg.Baseline)
	exerciseVersion(candidate, &cfg, cfg.Candidate)

	if cfg.OutputPathPrefix != "" {
		exporter := metric.Exporter{}
		exporter.ReportRun(cfg.Baseline.Version, runID, baseline.Metrics())
		exporter.ReportRun(cfg.Candidate.Version, runID, candidate.Metrics())
		if err := exporter.WriteCSVs(cfg.OutputPathPrefix); err != nil {
			log.Error("Failed to export measurement artifacts: ", err)
		}
	}

	if err := candidate.AssertVersionHasNotRegressed(baseline); err != nil {
		log.Fatal(err)
	}

	log.Infof("Comparison %s finished: %s has not regressed against %s",
		runID, cfg.Candidate.Version, cfg.Baseline.Version)
}

func exerciseVersion(r *runner.PerformanceRunner, cfg *config.HarnessConfiguration, side config.VersionConfiguration) {
	var buildInvoker runner.BuildInvoker

	if side.IsRemote() {
		ssh := &invoker.SSHInvoker{
			Host:         side.RemoteHost,
			Username:     side.RemoteUsername,
			Program:      cfg.BuildProgram,
			BaseArgs:     cfg.BuildArgs,
			BuildTargets: cfg.BuildTargets,
			CleanTargets: cfg.CleanTargets,
			WorkingDir:   side.WorkingDirectory,
		}
		if err := ssh.Connect(); err != nil {
			log.Fatal(err)
		}
		defer ssh.Close()

		buildInvoker = ssh
	} else {
		buildInvoker = &invoker.ProcessInvoker{
			Program:      cfg.BuildProgram,
			BaseArgs:     cfg.BuildArgs,
			BuildTargets: cfg.BuildTargets,
			CleanTargets: cfg.CleanTargets,
			WorkingDir:   side.WorkingDirectory,
			Timeout:      time.Duration(cfg.BuildTimeoutMilli) * time.Millisecond,
		}
	}

	if err := r.Exercise(buildInvoker); err != nil {
		log.Fatalf("Exercising %s failed: %v", r.Version(), err)
	}
}
