package config

import (
	"testing"
	"time"

	"github.com/MuhammadNoman15/kyle-automation/internal/infrastructure/env"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv(KeyLoginURL, "https://intake.example.test/User/Login.aspx")
	t.Setenv(KeyCreateJobURL, "https://intake.example.test/Job/CreateJob.aspx")
	t.Setenv(KeyCompanyID, "company")
	t.Setenv(KeyUsername, "user")
	t.Setenv(KeyPassword, "pass")
}

func TestLoad_MissingKeys(t *testing.T) {
	for _, key := range requiredKeys {
		t.Setenv(key, "")
	}
	t.Setenv(KeyLoginURL, "https://intake.example.test/User/Login.aspx")

	_, err := Load(&env.EnvService{})
	require.ErrorIs(t, err, ErrMissingConfig)
	assert.Contains(t, err.Error(), "CREATE_JOB_URL, INTAKE_COMPANY_ID, INTAKE_USERNAME, INTAKE_PASSWORD")
	assert.NotContains(t, err.Error(), "LOGIN_URL")
}

func TestLoad_IgnoresAccountVariables(t *testing.T) {
	setRequired(t)
	t.Setenv("USERNAME", "jdoe")
	t.Setenv("PASSWORD", "hunter")
	t.Setenv("COMPANY_ID", "other")

	cfg, err := Load(&env.EnvService{})
	require.NoError(t, err)

	assert.Equal(t, "user", cfg.Intake.Username)
	assert.Equal(t, "pass", cfg.Intake.Password)
	assert.Equal(t, "company", cfg.Intake.CompanyID)
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	for _, key := range []string{KeyHTTPAddr, KeyHeadless, KeyWaitTimeout, KeySettleDelay, KeyJobTimeout, KeyLogLevel, KeyLogFile, KeyDiagnosticsDir, KeyFieldMapFile, KeyPopupScans} {
		t.Setenv(key, "")
	}

	cfg, err := Load(&env.EnvService{})
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.HTTPAddr)
	assert.Equal(t, 5*time.Minute, cfg.JobTimeout)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 10*time.Second, cfg.Intake.ElementTimeout)
	assert.Equal(t, time.Second, cfg.Intake.Settle)
	assert.Equal(t, "company", cfg.Intake.CompanyID)
	assert.Equal(t, 5, cfg.Popups.MaxScans)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "diagnostics", cfg.DiagnosticsDir)
	assert.Empty(t, cfg.FieldMapFile)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv(KeyHTTPAddr, "127.0.0.1:8080")
	t.Setenv(KeyHeadless, "false")
	t.Setenv(KeyWaitTimeout, "20")
	t.Setenv(KeySettleDelay, "250ms")
	t.Setenv(KeyJobTimeout, "10m")
	t.Setenv(KeyPopupScans, "3")
	t.Setenv(KeyLogFormat, "console")
	t.Setenv(KeyFieldMapFile, "/etc/intake/fields.yaml")

	cfg, err := Load(&env.EnvService{})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.HTTPAddr)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 20*time.Second, cfg.Browser.Timeout)
	assert.Equal(t, 20*time.Second, cfg.Intake.ElementTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Intake.Settle)
	assert.Equal(t, 10*time.Minute, cfg.JobTimeout)
	assert.Equal(t, 3, cfg.Popups.MaxScans)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "/etc/intake/fields.yaml", cfg.FieldMapFile)
}
