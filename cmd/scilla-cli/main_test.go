package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI with colors off and returns stdout, stderr and the error.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--color", "off"}, args...))

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")

	require.NoError(t, err)
	assert.Equal(t, "scilla "+version+" (language server 0.1.0)\n", out)
}

func TestFmtRewritesFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contracts", "a.scilla")
	writeFile(t, path, "scilla_version   0")
	writeFile(t, filepath.Join(dir, "README.md"), "docs")

	out, _, err := run(t, "fmt", dir)

	require.NoError(t, err)
	assert.Equal(t, "reformatted "+path+"\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "scilla_version 0 ", string(data))
}

func TestFmtCheck(t *testing.T) {
	dir := t.TempDir()
	dirty := filepath.Join(dir, "dirty.scilla")
	clean := filepath.Join(dir, "clean.scillib")
	writeFile(t, dirty, "scilla_version\n0")
	writeFile(t, clean, "scilla_version 0 ")

	out, _, err := run(t, "fmt", "--check", dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 files need formatting")
	assert.Equal(t, dirty+"\n", out)

	data, _ := os.ReadFile(dirty)
	assert.Equal(t, "scilla_version\n0", string(data))
}

func TestFmtStdout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.scilla")
	writeFile(t, path, "match x with | True => foo | False => bar end")

	out, _, err := run(t, "fmt", "--stdout", path)

	require.NoError(t, err)
	assert.Equal(t, "\nmatch x with\n\t| True =>\n\tfoo \n\t| False =>\n\tbar \nend\n", out)
}

func TestFmtReportsFailures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.scilla"), "transition f (x : Uint32)")
	writeFile(t, filepath.Join(dir, "good.scilla"), "let x = 1")

	out, errOut, err := run(t, "fmt", dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to format 1 files")
	assert.Contains(t, errOut, "bad.scilla: unbalanced blocks")
	assert.Contains(t, out, "good.scilla")
}

func TestFmtFlagConflict(t *testing.T) {
	_, _, err := run(t, "fmt", "--check", "--stdout", ".")
	assert.ErrorContains(t, err, "--stdout cannot be used with --check")
}

func TestUnknownColorMode(t *testing.T) {
	_, _, err := run(t, "version", "--color", "rainbow")
	assert.ErrorContains(t, err, "rainbow")
}

// fakeChecker installs a scilla-checker script and a settings file pointing at it.
func fakeChecker(t *testing.T, output string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake checker is a shell script")
	}

	dir := t.TempDir()
	script := fmt.Sprintf("#!/bin/sh\ncat <<'EOF'\n%s\nEOF\n", output)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scilla-checker"), []byte(script), 0o755))

	cfg := filepath.Join(dir, "scilla.toml")
	writeFile(t, cfg, fmt.Sprintf("binaries_path = %q\n", dir))
	return cfg
}

func TestCheckLocal(t *testing.T) {
	cfg := fakeChecker(t, `{"warnings":[{"warning_message":"No accept","warning_id":1,"start_location":{"line":1,"column":1},"end_location":{"line":0,"column":0}}],"gas_remaining":"7984"}`)
	contract := filepath.Join(t.TempDir(), "hello.scilla")
	writeFile(t, contract, "scilla_version 0\n")

	out, _, err := run(t, "check", "--config", cfg, "--gas", contract)

	require.NoError(t, err)
	assert.Contains(t, out, "warning[1]: No accept")
	assert.Contains(t, out, contract+":1:1")
	assert.Contains(t, out, contract+": 7984 of gas remaining")
	assert.Contains(t, out, "Checked 1 files in")
}

func TestCheckFailsOnErrors(t *testing.T) {
	cfg := fakeChecker(t, `{"errors":[{"error_message":"Syntax error","start_location":{"line":1,"column":5},"end_location":{"line":0,"column":0}}]}`)
	contract := filepath.Join(t.TempDir(), "bad.scilla")
	writeFile(t, contract, "scilla_version x\n")

	out, errOut, err := run(t, "check", "--config", cfg, contract)

	require.Error(t, err)
	assert.Contains(t, out, "error: Syntax error")
	assert.Contains(t, errOut, "Check failed after")
}

func TestCheckRemote(t *testing.T) {
	var gotGas string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotGas = r.URL.Query().Get("gas_limit")
		_, _ = w.Write([]byte(`{"warnings":[],"error":[],"gas_usage":"100"}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	cfg := filepath.Join(dir, "scilla.toml")
	writeFile(t, cfg, fmt.Sprintf("remote_url = %q\n", srv.URL))
	contract := filepath.Join(dir, "hello.scilla")
	writeFile(t, contract, "scilla_version 0\n")

	out, _, err := run(t, "check", "--config", cfg, "--remote", "--gas-limit", "42", contract)

	require.NoError(t, err)
	assert.Equal(t, "42", gotGas)
	assert.Contains(t, out, "Checked 1 files")
}

func TestCheckRejectsBadGasLimit(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "scilla.toml")
	writeFile(t, cfg, "")

	_, _, err := run(t, "check", "--config", cfg, "--gas-limit", "0", filepath.Join(dir, "x.scilla"))
	assert.ErrorContains(t, err, "gas limit")
}

func TestCashflow(t *testing.T) {
	cfg := fakeChecker(t, `{"warnings":[],"cashflow_tags":{"State variables":[{"field":"owner","tag":"NotMoney"}],"ADT constructors":[]}}`)
	contract := filepath.Join(t.TempDir(), "hello.scilla")
	writeFile(t, contract, "scilla_version 0\n")

	out, _, err := run(t, "cashflow", "--config", cfg, contract)

	require.NoError(t, err)
	assert.Equal(t, "Field  Tag\n-----  ---\nowner  NotMoney\n", out)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "500ns", formatDuration(500*time.Nanosecond))
	assert.Equal(t, "1.5μs", formatDuration(1500*time.Nanosecond))
	assert.Equal(t, "2.5ms", formatDuration(2500*time.Microsecond))
	assert.Equal(t, "1.50s", formatDuration(1500*time.Millisecond))
	assert.Equal(t, "2.00min", formatDuration(2*time.Minute))
}
