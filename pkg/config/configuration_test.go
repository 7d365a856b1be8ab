package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfiguration() HarnessConfiguration {
	return HarnessConfiguration{
		Candidate: VersionConfiguration{
			Version:          "0.10.0-SNAPSHOT",
			WorkingDirectory: "/tmp/perfgate/candidate",
		},
		Baseline: VersionConfiguration{
			Version:          "0.9.2",
			WorkingDirectory: "/tmp/perfgate/baseline",
		},
		BuildProgram: "./gradlew",
		BuildTargets: []string{"check"},
		CleanTargets: []string{"clean"},
	}
}

func TestReadConfigurationFile(t *testing.T) {
	raw := `{
		"Candidate": {"Version": "0.10.0", "WorkingDirectory": "/work/a"},
		"Baseline": {"Version": "0.9.2", "WorkingDirectory": "/work/b"},
		"BuildProgram": "./gradlew",
		"BuildTargets": ["check"],
		"CleanTargets": ["clean"],
		"MeasuredIterations": 5,
		"InterRunDelayMilli": 250
	}`
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	cfg := ReadConfigurationFile(path)

	assert.Equal(t, "0.10.0", cfg.Candidate.Version)
	assert.Equal(t, "./gradlew", cfg.BuildProgram)
	assert.Equal(t, 5, cfg.MeasuredIterations)
	assert.Equal(t, 250, cfg.InterRunDelayMilli)
}

func TestPolicyDefaults(t *testing.T) {
	cfg := validConfiguration()
	policy := cfg.Policy()

	assert.Equal(t, 3, policy.WarmupIterations)
	assert.Equal(t, 10, policy.MeasuredIterations)
	assert.Equal(t, 500*time.Millisecond, policy.InterRunDelay)
	assert.Equal(t, 5*time.Second, policy.QuiescenceDelay)
	assert.Equal(t, 0.02, policy.MinRegressionPercentage)
	assert.Equal(t, float64(3), policy.NumStandardErrors)
}

func TestPolicyOverrides(t *testing.T) {
	cfg := validConfiguration()
	cfg.WarmupIterations = 1
	cfg.MeasuredIterations = 20
	cfg.InterRunDelayMilli = 100
	cfg.QuiescenceDelayMilli = 1000
	cfg.MinRegressionPercentage = 0.05
	cfg.NumStandardErrors = 2

	policy := cfg.Policy()

	assert.Equal(t, 1, policy.WarmupIterations)
	assert.Equal(t, 20, policy.MeasuredIterations)
	assert.Equal(t, 100*time.Millisecond, policy.InterRunDelay)
	assert.Equal(t, time.Second, policy.QuiescenceDelay)
	assert.Equal(t, 0.05, policy.MinRegressionPercentage)
	assert.Equal(t, float64(2), policy.NumStandardErrors)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		testName string
		mutate   func(*HarnessConfiguration)
		wantErr  string
	}{
		{
			testName: "valid",
			mutate:   func(*HarnessConfiguration) {},
		},
		{
			testName: "missing_build_program",
			mutate:   func(c *HarnessConfiguration) { c.BuildProgram = "" },
			wantErr:  "BuildProgram",
		},
		{
			testName: "missing_clean_targets",
			mutate:   func(c *HarnessConfiguration) { c.CleanTargets = nil },
			wantErr:  "CleanTargets",
		},
		{
			testName: "missing_version_label",
			mutate:   func(c *HarnessConfiguration) { c.Baseline.Version = "" },
			wantErr:  "Baseline.Version",
		},
		{
			testName: "negative_iterations",
			mutate:   func(c *HarnessConfiguration) { c.MeasuredIterations = -1 },
			wantErr:  "must not be negative",
		},
		{
			testName: "shared_working_directory_same_host",
			mutate: func(c *HarnessConfiguration) {
				c.Candidate.WorkingDirectory = c.Baseline.WorkingDirectory
			},
			wantErr: "must not share working directory",
		},
		{
			testName: "shared_working_directory_different_hosts",
			mutate: func(c *HarnessConfiguration) {
				c.Candidate.WorkingDirectory = c.Baseline.WorkingDirectory
				c.Candidate.RemoteHost = "worker-1"
				c.Candidate.RemoteUsername = "perf"
			},
		},
		{
			testName: "remote_without_username",
			mutate: func(c *HarnessConfiguration) {
				c.Candidate.RemoteHost = "worker-1"
			},
			wantErr: "RemoteUsername",
		},
	}

	for _, test := range tests {
		t.Run(test.testName, func(t *testing.T) {
			cfg := validConfiguration()
			test.mutate(&cfg)

			err := cfg.Validate()
			if test.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), test.wantErr)
			}
		})
	}
}
