package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cptspacemanspiff/batnotify/internal/config"
	"github.com/cptspacemanspiff/batnotify/internal/notify"
)

type result struct {
	cfg    *config.Config
	ran    bool
	err    error
	stdout string
	stderr string
}

func execute(t *testing.T, args ...string) result {
	t.Helper()

	var res result
	cmd := NewCommand(func(_ context.Context, cfg *config.Config, _ *logrus.Logger) error {
		res.ran = true
		res.cfg = cfg
		return nil
	})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	res.err = cmd.Execute()
	res.stdout = stdout.String()
	res.stderr = stderr.String()
	return res
}

func TestNoArgsPrintsUsage(t *testing.T) {
	res := execute(t)

	require.NoError(t, res.err)
	assert.False(t, res.ran)
	assert.Contains(t, res.stdout, "Usage:")
	assert.Contains(t, res.stdout, "batnotify -d")
}

func TestHelp(t *testing.T) {
	for _, arg := range []string{"-h", "--help"} {
		res := execute(t, arg)

		require.NoError(t, res.err, arg)
		assert.False(t, res.ran, arg)
		assert.Contains(t, res.stdout, "--percentage", arg)
	}
}

func TestOnlyLoggingFlagsPrintsUsage(t *testing.T) {
	res := execute(t, "--verbose")

	require.NoError(t, res.err)
	assert.False(t, res.ran)
	assert.Contains(t, res.stdout, "Usage:")
}

func TestDefaultFlag(t *testing.T) {
	res := execute(t, "-d")

	require.NoError(t, res.err)
	require.True(t, res.ran)
	assert.Equal(t, 30.0, res.cfg.Threshold)
	assert.Equal(t, notify.UrgencyNormal, res.cfg.Urgency)
	assert.Equal(t, config.DefaultInterval, res.cfg.Interval)
	assert.Equal(t, config.DefaultLongInterval, res.cfg.LongInterval)
}

func TestPercentageAndUrgency(t *testing.T) {
	res := execute(t, "-p", "25.5", "-u", "critical")

	require.NoError(t, res.err)
	require.True(t, res.ran)
	assert.Equal(t, 25.5, res.cfg.Threshold)
	assert.Equal(t, notify.UrgencyCritical, res.cfg.Urgency)
}

func TestUrgencyAloneUsesDefaultPercentage(t *testing.T) {
	res := execute(t, "-u", "low")

	require.NoError(t, res.err)
	require.True(t, res.ran)
	assert.Equal(t, 30.0, res.cfg.Threshold)
	assert.Equal(t, notify.UrgencyLow, res.cfg.Urgency)
}

func TestPercentageOverridesDefault(t *testing.T) {
	res := execute(t, "-d", "-p", "15")

	require.NoError(t, res.err)
	assert.Equal(t, 15.0, res.cfg.Threshold)
}

func TestInvalidInput(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantErrSub string
	}{
		{name: "zero percentage", args: []string{"-p", "0"}, wantErrSub: "invalid percentage"},
		{name: "percentage above 100", args: []string{"-p", "150"}, wantErrSub: "invalid percentage"},
		{name: "NaN percentage", args: []string{"-p", "NaN"}, wantErrSub: "invalid percentage"},
		{name: "zero percentage with urgency", args: []string{"-p", "0", "-u", "low"}, wantErrSub: "invalid percentage"},
		{name: "bad urgency", args: []string{"-u", "bogus"}, wantErrSub: "bogus is an invalid urgency"},
		{name: "non-numeric percentage", args: []string{"-p", "lots"}, wantErrSub: "invalid argument"},
		{name: "unknown flag", args: []string{"-x"}, wantErrSub: "unknown shorthand flag"},
		{name: "bad interval", args: []string{"-d", "--interval", "1ms"}, wantErrSub: "interval must be between"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, tt.args...)

			require.Error(t, res.err)
			assert.Contains(t, res.err.Error(), tt.wantErrSub)
			assert.False(t, res.ran)
			assert.Contains(t, res.stdout, "Usage:", "usage goes to stdout on input errors")
		})
	}
}

func TestFailFastFlag(t *testing.T) {
	res := execute(t, "-d", "--fail-fast")

	require.NoError(t, res.err)
	assert.True(t, res.cfg.FailFast)
}

func TestRunnerErrorIsReturned(t *testing.T) {
	want := errors.New("no battery found")
	cmd := NewCommand(func(context.Context, *config.Config, *logrus.Logger) error {
		return want
	})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"-d"})

	err := cmd.Execute()
	assert.ErrorIs(t, err, want)
}

func TestSIGTERMCancelsRunner(t *testing.T) {
	cancelled := false
	cmd := NewCommand(func(ctx context.Context, _ *config.Config, _ *logrus.Logger) error {
		require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGTERM))
		select {
		case <-ctx.Done():
			cancelled = true
		case <-time.After(5 * time.Second):
		}
		return nil
	})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"-d"})

	require.NoError(t, cmd.Execute())
	assert.True(t, cancelled, "SIGTERM should cancel the run context")
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, errors.New("locate battery: no battery found"))

	assert.Contains(t, buf.String(), "Error: ")
	assert.Contains(t, buf.String(), "locate battery: no battery found\n")
}
