package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPolicyShowDefault(t *testing.T) {
	t.Setenv("POLICY_FILE", "")

	out, err := execute(t, "policy", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "delete  hospital_admin, nursing_head, principal\n")
	assert.Contains(t, out, "write   hospital_admin, nursing_head, principal, tutor\n")
	assert.Contains(t, out, "read    hospital_admin, nursing_head, principal, student, tutor\n")
}

func TestPolicyShowFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("write: [principal, tutor]\ndelete: [principal]\n"), 0o600))

	out, err := execute(t, "policy", "show", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "delete  principal\n")
	assert.Contains(t, out, "report  principal, tutor\n")
}

func TestPolicyShowRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("delete: [principal]\n"), 0o600))

	_, err := execute(t, "policy", "show", "--file", path)
	assert.Error(t, err)
}

func TestMigrateDownRequiresSteps(t *testing.T) {
	_, err := execute(t, "migrate", "down", "--steps", "0")
	assert.EqualError(t, err, "--steps must be at least 1")
}

func TestCreateProfileHasNoPasswordFlag(t *testing.T) {
	assert.Nil(t, createProfileCmd().Flags().Lookup("password"))

	_, err := execute(t, "create-profile", "--email", "a@b.test", "--name", "A", "--role", "tutor", "--password", "secret")
	assert.ErrorContains(t, err, "unknown flag: --password")
}

func TestReadPasswordFromEnv(t *testing.T) {
	t.Setenv(passwordEnv, "from-env")

	cmd := createProfileCmd()
	cmd.SetIn(strings.NewReader("from-stdin\n"))
	pwd, err := readPassword(cmd)
	require.NoError(t, err)
	assert.Equal(t, "from-env", pwd)
}

func TestReadPasswordFromPipedStdin(t *testing.T) {
	t.Setenv(passwordEnv, "")

	cmd := createProfileCmd()
	cmd.SetIn(strings.NewReader("s3cret pass\r\nignored\n"))
	pwd, err := readPassword(cmd)
	require.NoError(t, err)
	assert.Equal(t, "s3cret pass", pwd)

	cmd.SetIn(strings.NewReader("no-newline"))
	pwd, err = readPassword(cmd)
	require.NoError(t, err)
	assert.Equal(t, "no-newline", pwd)
}

func TestReadPasswordPromptsOnTerminal(t *testing.T) {
	t.Setenv(passwordEnv, "")
	origRead, origTerm := readPasswordFunc, isTerminalFunc
	t.Cleanup(func() { readPasswordFunc, isTerminalFunc = origRead, origTerm })
	isTerminalFunc = func(int) bool { return true }
	readPasswordFunc = func(int) ([]byte, error) { return []byte("typed"), nil }

	var out bytes.Buffer
	cmd := createProfileCmd()
	cmd.SetOut(&out)
	pwd, err := readPassword(cmd)
	require.NoError(t, err)
	assert.Equal(t, "typed", pwd)
	assert.Contains(t, out.String(), "Enter password: ")
	assert.NotContains(t, out.String(), "typed")
}

func TestCreateProfileRejectsEmptyPassword(t *testing.T) {
	t.Setenv(passwordEnv, "")

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader("\n"))
	cmd.SetArgs([]string{"create-profile", "--email", "a@b.test", "--name", "A", "--role", "tutor"})
	assert.EqualError(t, cmd.Execute(), "password must not be empty")
}
