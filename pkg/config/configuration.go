package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/codequality-tools/perfgate/pkg/runner"
)

// VersionConfiguration identifies one side of a comparison: the label used
// in diagnostics and artifacts, and where its builds run.
type VersionConfiguration struct {
	Version          string `json:"Version"`
	WorkingDirectory string `json:"WorkingDirectory"`

	// When RemoteHost is set the builds run over SSH instead of locally.
	RemoteHost     string `json:"RemoteHost"`
	RemoteUsername string `json:"RemoteUsername"`
}

func (v *VersionConfiguration) IsRemote() bool {
	return v.RemoteHost != ""
}

type HarnessConfiguration struct {
	Candidate VersionConfiguration `json:"Candidate"`
	Baseline  VersionConfiguration `json:"Baseline"`

	BuildProgram string   `json:"BuildProgram"`
	BuildArgs    []string `json:"BuildArgs"`
	BuildTargets []string `json:"BuildTargets"`
	CleanTargets []string `json:"CleanTargets"`

	// Zero values fall back to the policy defaults.
	WarmupIterations        int     `json:"WarmupIterations"`
	MeasuredIterations      int     `json:"MeasuredIterations"`
	InterRunDelayMilli      int     `json:"InterRunDelayMilli"`
	QuiescenceDelayMilli    int     `json:"QuiescenceDelayMilli"`
	MinRegressionPercentage float64 `json:"MinRegressionPercentage"`
	NumStandardErrors       float64 `json:"NumStandardErrors"`

	BuildTimeoutMilli int `json:"BuildTimeoutMilli"`

	OutputPathPrefix string `json:"OutputPathPrefix"`
}

func ReadConfigurationFile(path string) HarnessConfiguration {
	byteValue, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}

	var config HarnessConfiguration
	err = json.Unmarshal(byteValue, &config)
	if err != nil {
		log.Fatal(err)
	}

	return config
}

// Policy merges the configured overrides onto the default exercise policy.
func (c *HarnessConfiguration) Policy() runner.ExercisePolicy {
	policy := runner.DefaultExercisePolicy()

	if c.WarmupIterations > 0 {
		policy.WarmupIterations = c.WarmupIterations
	}
	if c.MeasuredIterations > 0 {
		policy.MeasuredIterations = c.MeasuredIterations
	}
	if c.InterRunDelayMilli > 0 {
		policy.InterRunDelay = time.Duration(c.InterRunDelayMilli) * time.Millisecond
	}
	if c.QuiescenceDelayMilli > 0 {
		policy.QuiescenceDelay = time.Duration(c.QuiescenceDelayMilli) * time.Millisecond
	}
	if c.MinRegressionPercentage > 0 {
		policy.MinRegressionPercentage = c.MinRegressionPercentage
	}
	if c.NumStandardErrors > 0 {
		policy.NumStandardErrors = c.NumStandardErrors
	}

	return policy
}

func (c *HarnessConfiguration) Validate() error {
	if c.BuildProgram == "" {
		return fmt.Errorf("BuildProgram must be set")
	}
	if len(c.CleanTargets) == 0 {
		return fmt.Errorf("CleanTargets must not be empty")
	}
	if c.WarmupIterations < 0 || c.MeasuredIterations < 0 {
		return fmt.Errorf("iteration counts must not be negative")
	}

	for _, side := range []struct {
		name string
		cfg  VersionConfiguration
	}{{"Candidate", c.Candidate}, {"Baseline", c.Baseline}} {
		if side.cfg.Version == "" {
			return fmt.Errorf("%s.Version must be set", side.name)
		}
		if side.cfg.WorkingDirectory == "" {
			return fmt.Errorf("%s.WorkingDirectory must be set", side.name)
		}
		if side.cfg.IsRemote() && side.cfg.RemoteUsername == "" {
			return fmt.Errorf("%s.RemoteUsername must be set for remote host %s", side.name, side.cfg.RemoteHost)
		}
	}

	// The two sides may only share a working directory when they run on
	// different hosts; the measurement loop assumes exclusive use of it.
	if c.Candidate.WorkingDirectory == c.Baseline.WorkingDirectory &&
		c.Candidate.RemoteHost == c.Baseline.RemoteHost {
		return fmt.Errorf("candidate and baseline must not share working directory %s", c.Candidate.WorkingDirectory)
	}

	return nil
}
