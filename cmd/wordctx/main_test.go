package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmd_Definition(t *testing.T) {
	root := newRootCmd()
	assert.Equal(t, "wordctx", root.Use)

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"ingest", "recognize", "runs"}, names)

	for _, name := range []string{"config", "driver", "dsn", "log-level"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), name)
	}
}

func TestIngestThenRecognize(t *testing.T) {
	t.Setenv("WORDCTX_DRIVER", "")
	t.Setenv("WORDCTX_DSN", "")

	dir := t.TempDir()
	db := filepath.Join(dir, "words.db")
	corpus := filepath.Join(dir, "corpus.txt")
	require.NoError(t, os.WriteFile(corpus, []byte("The cat sat on the mat. The dog ran home."), 0644))

	out, err := runCLI(t, "", "--dsn", db, "--log-level", "error", "ingest", corpus)
	require.NoError(t, err)
	assert.Contains(t, out, "2 sentences")

	out, err = runCLI(t, "", "--dsn", db, "--log-level", "error", "recognize", "the c_t sat")
	require.NoError(t, err)
	assert.Equal(t, "the cat sat\n", out)

	out, err = runCLI(t, "the dog r%\n\nthe mat\n", "--dsn", db, "--log-level", "error", "recognize")
	require.NoError(t, err)
	assert.Equal(t, "the dog ran\nthe mat\n", out)

	out, err = runCLI(t, "", "--dsn", db, "--log-level", "error", "runs")
	require.NoError(t, err)
	assert.Contains(t, out, corpus)
}

func TestIngestRequiresInput(t *testing.T) {
	_, err := runCLI(t, "", "--driver", "memory", "ingest")
	assert.Error(t, err)
}

func TestIngestInlineText(t *testing.T) {
	out, err := runCLI(t, "", "--driver", "memory", "--log-level", "error", "ingest", "--text", "a b c")
	require.NoError(t, err)
	assert.Contains(t, out, "inline: 1 sentences, 6 pairs, 0 failed")
}

func TestRecognizeNoCandidate(t *testing.T) {
	_, err := runCLI(t, "", "--driver", "memory", "--log-level", "error", "recognize", "the %")
	assert.Error(t, err)
}

func TestUnknownDriver(t *testing.T) {
	_, err := runCLI(t, "", "--driver", "mongo", "runs")
	assert.Error(t, err)
}

func TestIngestMissingFileTouchesNothing(t *testing.T) {
	db := filepath.Join(t.TempDir(), "words.db")
	_, err := runCLI(t, "", "--dsn", db, "ingest", "/nonexistent/corpus.txt")
	require.Error(t, err)

	_, statErr := os.Stat(db)
	assert.True(t, os.IsNotExist(statErr), "store should not be opened for unreadable input")
}

func TestRecognizeFileSpansLineBreaks(t *testing.T) {
	t.Setenv("WORDCTX_DRIVER", "")
	t.Setenv("WORDCTX_DSN", "")

	dir := t.TempDir()
	db := filepath.Join(dir, "words.db")
	_, err := runCLI(t, "", "--dsn", db, "--log-level", "error", "ingest", "--text", "the cat sat. the dog ran")
	require.NoError(t, err)

	masked := filepath.Join(dir, "masked.txt")
	require.NoError(t, os.WriteFile(masked, []byte("the\n%\nsat\n"), 0644))

	out, err := runCLI(t, "", "--dsn", db, "--log-level", "error", "recognize", "--file", masked)
	require.NoError(t, err)
	assert.Equal(t, "the cat sat\n", out)

	// line by line, "%" stands alone and has no context to rank by
	out, err = runCLI(t, "the\n%\nsat\n", "--dsn", db, "--log-level", "error", "recognize")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 3)
}

func TestRecognizeFileRejectsArgs(t *testing.T) {
	_, err := runCLI(t, "", "--driver", "memory", "recognize", "--file", "x.txt", "the cat")
	assert.Error(t, err)
}

func TestRecognizeMissingFile(t *testing.T) {
	_, err := runCLI(t, "", "--driver", "memory", "recognize", "--file", "/nonexistent/masked.txt")
	assert.Error(t, err)
}
