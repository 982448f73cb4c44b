package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"portalkombat/internal/domain"
	"portalkombat/internal/machine"
	pkservice "portalkombat/internal/service"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	warnColor = color.New(color.FgYellow)
	failColor = color.New(color.FgRed, color.Bold)
	dimColor  = color.New(color.Faint)
	keyColor  = color.New(color.FgCyan)
)

func outcomeColor(o domain.LoginOutcome) *color.Color {
	switch o {
	case domain.OutcomeSuccess:
		return okColor
	case domain.OutcomeWrongCredentials, domain.OutcomeMaxConcurrentSessions:
		return failColor
	default:
		return warnColor
	}
}

func stateColor(s domain.MachineState) *color.Color {
	switch s {
	case domain.StateIdle:
		return okColor
	case domain.StateOnLoginPage:
		return warnColor
	default:
		return keyColor
	}
}

// printReport writes the transitions and outcome of one cycle
func printReport(w io.Writer, r machine.CycleReport) {
	path := []string{domain.StateIdle.String()}
	for _, step := range r.Steps {
		path = append(path, step.To.String())
	}
	fmt.Fprintf(w, "%s %s\n", keyColor.Sprint("cycle:"), strings.Join(path, " -> "))

	if r.PortalURL != "" {
		fmt.Fprintf(w, "%s %s\n", keyColor.Sprint("portal:"), r.PortalURL)
	}
	if r.Attempted {
		line := outcomeColor(r.Outcome).Sprint(r.Outcome.String())
		if r.Detail != "" {
			line += dimColor.Sprintf(" (%s)", r.Detail)
		}
		fmt.Fprintf(w, "%s %s\n", keyColor.Sprint("login:"), line)
	} else {
		fmt.Fprintf(w, "%s %s\n", keyColor.Sprint("login:"), dimColor.Sprint("not attempted"))
	}
	fmt.Fprintf(w, "%s %s\n", keyColor.Sprint("took:"), r.Duration.Round(time.Millisecond))
}

// printStatus writes a daemon status snapshot
func printStatus(w io.Writer, st pkservice.Status) {
	fmt.Fprintf(w, "%s %s (%s)\n", keyColor.Sprint("daemon:"), okColor.Sprint(st.Status), st.Version)
	fmt.Fprintf(w, "%s %s\n", keyColor.Sprint("state:"), stateColor(st.State).Sprint(st.State.String()))
	fmt.Fprintf(w, "%s %s\n", keyColor.Sprint("profile:"), st.Username)
	fmt.Fprintf(w, "%s every %ds, %d cycles since %s\n", keyColor.Sprint("polling:"),
		st.PollIntervalSeconds, st.Cycles, st.StartedAt.Local().Format(time.RFC3339))

	if st.LastCycle != nil {
		fmt.Fprintf(w, "%s %s ago\n", keyColor.Sprint("last cycle:"), time.Since(st.LastCycle.Started).Round(time.Second))
		if st.LastCycle.Attempted {
			fmt.Fprintf(w, "%s %s\n", keyColor.Sprint("last login:"), outcomeColor(st.LastCycle.Outcome).Sprint(st.LastCycle.Outcome.String()))
		}
	}

	if len(st.Outcomes) > 0 {
		parts := make([]string, 0, len(st.Outcomes))
		for _, o := range domain.Outcomes() {
			if n, ok := st.Outcomes[o.String()]; ok {
				parts = append(parts, fmt.Sprintf("%s=%d", o, n))
			}
		}
		fmt.Fprintf(w, "%s %s\n", keyColor.Sprint("history:"), strings.Join(parts, " "))
	}
}

// printAttempts writes attempts as a table, newest first
func printAttempts(w io.Writer, attempts []domain.Attempt) {
	if len(attempts) == 0 {
		fmt.Fprintln(w, dimColor.Sprint("no login attempts recorded"))
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tOUTCOME\tPORTAL\tDETAIL")
	for _, a := range attempts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			a.At.Local().Format("2006-01-02 15:04:05"),
			outcomeColor(a.Outcome).Sprint(a.Outcome.String()),
			a.PortalHost,
			a.Detail)
	}
	tw.Flush()
}
