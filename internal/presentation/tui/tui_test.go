package tui

import (
	"bytes"
	"testing"
	"time"

	"github.com/aretw0/hostprep/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func sampleReport() *domain.Report {
	start := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	r := domain.NewReport("run-7", "pi-kitchen", "jarvis", start)
	r.Steps = []domain.StepResult{
		{Step: domain.StepInterpreter, Outcome: domain.OutcomeOK, Duration: 20 * time.Millisecond},
		{Step: domain.StepSystemPackages, Outcome: domain.OutcomeFailed, Duration: 3 * time.Second},
		{Step: domain.StepDevices, Outcome: domain.OutcomeOK, Output: "card 1: USB PnP Sound Device\n"},
	}
	r.Steps[0].Info("python3", "Found python3 at /usr/bin/python3")
	r.Steps[1].Fail("apt-get", "sudo apt-get install -y alsa-utils failed (exit code 100):\nE: Unable to locate package")
	r.Finish(start.Add(time.Minute))
	return r
}

func TestPrinter_Report(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false).Report(sampleReport())
	out := buf.String()

	assert.Contains(t, out, "✓ Interpreter check")
	assert.Contains(t, out, "✗ System packages (3s)")
	assert.Contains(t, out, "✗ sudo apt-get install -y alsa-utils failed (exit code 100):")
	assert.Contains(t, out, "      E: Unable to locate package")
	assert.Contains(t, out, "    card 1: USB PnP Sound Device")
	assert.Contains(t, out, ">>> Provisioning finished with failures")
	assert.NotContains(t, out, "Found python3", "info findings are hidden unless verbose")
	assert.NotContains(t, out, "\x1b[", "no colors when not a terminal")
}

func TestPrinter_Verbose(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, true).Report(sampleReport())

	assert.Contains(t, buf.String(), "• Found python3 at /usr/bin/python3")
}

func TestPrinter_StepStart(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false).StepStart(domain.StepEnvironment)

	assert.Equal(t, ">>> [4/7] Environment setup...\n", buf.String())
}

func TestSummaryMarkdown(t *testing.T) {
	md := SummaryMarkdown(sampleReport())

	assert.Contains(t, md, "# Run run-7")
	assert.Contains(t, md, "- **Status:** degraded (exit 2)")
	assert.Contains(t, md, "| System packages | failed | 3s |")
	assert.Contains(t, md, "- **error** (System packages): sudo apt-get install -y alsa-utils failed (exit code 100):")
	assert.NotContains(t, md, "Found python3")
}

func TestPrintSummary_Plain(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, PrintSummary(&buf, sampleReport()))
	assert.Equal(t, SummaryMarkdown(sampleReport()), buf.String())
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "0.1.0")

	assert.Contains(t, buf.String(), "v0.1.0")
	assert.NotContains(t, buf.String(), "\x1b[")
}
