package audit_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/hostprep/pkg/audit"
	"github.com/aretw0/hostprep/pkg/domain"
	"github.com/aretw0/hostprep/pkg/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const placeholderConfig = `# API Keys - Replace these with your actual keys
DEEPGRAM_API_KEY = "your_deepgram_api_key_here"
GROQ_API_KEY = "your_groq_api_key_here"

WAKE_WORD_ENABLED = True
WAKE_WORD_PORCUPINE_ACCESS_KEY = "YOUR_PORCUPINE_ACCESS_KEY"
`

const filledConfig = `DEEPGRAM_API_KEY = "988be47d91aca476e11aad90ed37e5ab"
GROQ_API_KEY = "gsk_realvalue"
WAKE_WORD_PORCUPINE_ACCESS_KEY = "pv_realvalue"
`

func writeConfig(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func credentialAdvisories(res domain.StepResult) []string {
	var subjects []string
	for _, f := range res.Findings {
		if f.Severity == domain.SeverityAdvisory {
			subjects = append(subjects, f.Subject)
		}
	}
	return subjects
}

func TestScan(t *testing.T) {
	sentinels := plan.Default().Audit.Sentinels

	matches := audit.Scan([]byte(placeholderConfig), sentinels)
	require.Len(t, matches, 3)
	assert.Equal(t, "Deepgram API key", matches[0].Sentinel.Credential)
	assert.Equal(t, 2, matches[0].Line)
	assert.Equal(t, 3, matches[1].Line)
	assert.Equal(t, 6, matches[2].Line)

	assert.Empty(t, audit.Scan([]byte(filledConfig), sentinels))
}

func TestScan_IsLiteralContainment(t *testing.T) {
	sentinels := []plan.Sentinel{{Credential: "Token", Value: "CHANGE_ME"}}

	// A commented-out placeholder still counts: nothing is parsed
	assert.Len(t, audit.Scan([]byte("# TOKEN = CHANGE_ME\n"), sentinels), 1)
	// Case matters
	assert.Empty(t, audit.Scan([]byte("TOKEN = change_me\n"), sentinels))
}

func TestRun_AllPlaceholders(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "jarvis/config.py", placeholderConfig)

	cfg := plan.Default().Audit
	cfg.EnvFile = ""
	res := audit.Run(cfg, dir)

	assert.Equal(t, domain.OutcomeAdvisory, res.Outcome)
	assert.Equal(t, []string{"Deepgram API key", "Groq API key", "Porcupine access key"}, credentialAdvisories(res))
}

func TestRun_NoPlaceholders(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "jarvis/config.py", filledConfig)

	res := audit.Run(plan.Default().Audit, dir)

	assert.Equal(t, domain.OutcomeOK, res.Outcome)
	assert.Empty(t, res.Findings)
}

func TestRun_MissingConfigFile(t *testing.T) {
	res := audit.Run(plan.Default().Audit, t.TempDir())

	assert.Equal(t, domain.OutcomeAdvisory, res.Outcome)
	require.Len(t, res.Findings, 1)
	assert.Equal(t, "jarvis/config.py", res.Findings[0].Subject)
	assert.Contains(t, res.Findings[0].Message, "not found")
}

func TestRun_EnvFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "jarvis/config.py", filledConfig)
	writeConfig(t, dir, ".env", "DEEPGRAM_API_KEY=your_deepgram_api_key_here\nGROQ_API_KEY=\n")

	res := audit.Run(plan.Default().Audit, dir)

	assert.Equal(t, []string{"DEEPGRAM_API_KEY", "GROQ_API_KEY"}, credentialAdvisories(res))
	assert.Contains(t, res.Findings[0].Message, "placeholder")
	assert.Contains(t, res.Findings[1].Message, "is empty")
}

func TestCheckEnvFile_MissingKey(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".env", "# only one key\nGROQ_API_KEY=gsk_real\n")

	issues, err := audit.CheckEnvFile(filepath.Join(dir, ".env"), []string{"DEEPGRAM_API_KEY", "GROQ_API_KEY"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []audit.EnvIssue{{Key: "DEEPGRAM_API_KEY", Reason: "is not set"}}, issues)
}

func TestRun_EnvFileOptional(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "jarvis/config.py", filledConfig)

	res := audit.Run(plan.Default().Audit, dir)
	assert.Empty(t, res.Findings, "a missing .env is not an advisory")
}
