package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portalkombat/internal/config"
	"portalkombat/internal/domain"
	"portalkombat/internal/machine"
	pkservice "portalkombat/internal/service"
)

func init() {
	color.NoColor = true
}

func TestNewRoot_Commands(t *testing.T) {
	root := NewRoot("1.2.3")

	for _, name := range []string{"run", "check", "status", "history", "init", "service"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
	for _, name := range []string{"install", "uninstall", "start", "stop", "status"} {
		cmd, _, err := root.Find([]string{"service", name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestNewRoot_Version(t *testing.T) {
	root := NewRoot("1.2.3")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "portalkombat 1.2.3\n", out.String())
}

func TestInit_WritesConfig(t *testing.T) {
	t.Setenv(config.EnvPassword, "")
	path := filepath.Join(t.TempDir(), "config.yaml")

	root := NewRoot("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader("alice\ns3cret\n"))
	root.SetArgs([]string{"init", "--path", path, "--allow-host", "10.0.0.0/8"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), path)

	cfg, _, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "alice", cfg.Profile.Username)
	assert.Equal(t, "s3cret", cfg.Profile.Password)
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.Portal.AllowedHosts)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// Second run refuses to overwrite
	root = NewRoot("test")
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader("alice\ns3cret\n"))
	root.SetArgs([]string{"init", "--path", path})
	assert.Error(t, root.Execute())
}

func TestInit_RejectsEmptyPassword(t *testing.T) {
	root := NewRoot("test")
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader("\n"))
	root.SetArgs([]string{"init", "--path", filepath.Join(t.TempDir(), "c.yaml"), "-u", "alice"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile.password")
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, machine.CycleReport{
		Steps: []machine.Step{
			{From: domain.StateIdle, To: domain.StateAdapterOn},
			{From: domain.StateAdapterOn, To: domain.StateOnLoginPage},
			{From: domain.StateOnLoginPage, To: domain.StateIdle},
		},
		PortalURL: "http://10.0.0.1:1000/fgtauth?abc",
		Attempted: true,
		Outcome:   domain.OutcomeWrongCredentials,
		Duration:  1500 * time.Millisecond,
	})

	out := buf.String()
	assert.Contains(t, out, "Idle -> AdapterOn -> OnLoginPage -> Idle")
	assert.Contains(t, out, "portal: http://10.0.0.1:1000/fgtauth?abc")
	assert.Contains(t, out, "login: wrong_credentials")
	assert.Contains(t, out, "took: 1.5s")
}

func TestPrintReport_NotAttempted(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, machine.CycleReport{
		Steps: []machine.Step{{From: domain.StateIdle, To: domain.StateIdle}},
	})
	assert.Contains(t, buf.String(), "Idle -> Idle")
	assert.Contains(t, buf.String(), "not attempted")
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	printStatus(&buf, pkservice.Status{
		Status:              "running",
		State:               domain.StateIdle,
		Username:            "alice",
		PollIntervalSeconds: 30,
		Cycles:              7,
		StartedAt:           time.Now(),
		Outcomes:            map[string]int{"success": 3, "unknown": 1},
		Version:             "1.0.0",
	})

	out := buf.String()
	assert.Contains(t, out, "daemon: running (1.0.0)")
	assert.Contains(t, out, "state: Idle")
	assert.Contains(t, out, "every 30s, 7 cycles")
	assert.Contains(t, out, "history: success=3 unknown=1")
}

func TestPrintAttempts(t *testing.T) {
	var buf bytes.Buffer
	printAttempts(&buf, nil)
	assert.Contains(t, buf.String(), "no login attempts recorded")

	buf.Reset()
	printAttempts(&buf, []domain.Attempt{{
		At:         time.Now(),
		PortalHost: "http://10.0.0.1:1000",
		Outcome:    domain.OutcomeMaxConcurrentSessions,
	}})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "TIME"))
	assert.Contains(t, lines[1], "max_concurrent_sessions")
	assert.Contains(t, lines[1], "http://10.0.0.1:1000")
}

func TestServiceConfig(t *testing.T) {
	cfg := serviceConfig("")
	assert.Equal(t, "portalkombat", cfg.Name)
	assert.Equal(t, []string{"run"}, cfg.Arguments)

	cfg = serviceConfig("portalkombat.yaml")
	require.Len(t, cfg.Arguments, 3)
	assert.True(t, filepath.IsAbs(cfg.Arguments[2]))
}
