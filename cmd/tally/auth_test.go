package main

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPrompter(in *os.File, out *bytes.Buffer) *prompter {
	return &prompter{raw: in, in: bufio.NewReader(in), out: out}
}

func TestSecretReadsLineWhenNotATerminal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stdin")
	require.NoError(t, os.WriteFile(path, []byte("ann@example.com\n  s3cret \n"), 0o600))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out bytes.Buffer
	p := newTestPrompter(f, &out)

	email, err := p.ask("email", "")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", email)

	pw, err := p.secret("password", "")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pw)
	assert.Equal(t, "email: password: ", out.String())
}

func TestSecretPrefersFlagValue(t *testing.T) {
	var out bytes.Buffer
	p := &prompter{raw: strings.NewReader(""), in: bufio.NewReader(strings.NewReader("")), out: &out}

	pw, err := p.secret("password", "from-flag")
	require.NoError(t, err)
	assert.Equal(t, "from-flag", pw)
	assert.Empty(t, out.String())
}

func TestSecretRequiresAnswer(t *testing.T) {
	var out bytes.Buffer
	p := &prompter{raw: strings.NewReader("\n"), in: bufio.NewReader(strings.NewReader("\n")), out: &out}

	_, err := p.secret("password", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password is required")
}
