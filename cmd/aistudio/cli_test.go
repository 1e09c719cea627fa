package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leofalp/aistudio/internal/app"
	"github.com/leofalp/aistudio/tools"
)

// TestMain points the user config directory at a scratch dir so the default
// sqlite history never lands in the real one.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "aistudio-cli")
	if err != nil {
		panic(err)
	}
	os.Setenv("HOME", dir)
	os.Setenv("XDG_CONFIG_HOME", dir)
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("AISTUDIO_LOG_LEVEL", "error")

	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), err
}

func TestListCommand(t *testing.T) {
	out, err := execute(t, "list")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 22)
	assert.Contains(t, lines[0], "NAME")
	assert.True(t, strings.HasPrefix(lines[1], "palette"), lines[1])
	assert.Contains(t, out, "gemini-3-pro-preview")
}

func TestListOneTool(t *testing.T) {
	out, err := execute(t, "list", "travel")
	require.NoError(t, err)
	assert.Contains(t, out, "destination")
	assert.Contains(t, out, "1..14")
	assert.Contains(t, out, "Budget|Medium|Luxury")

	_, err = execute(t, "list", "horoscope")
	assert.ErrorIs(t, err, tools.ErrUnknownTool)
}

// fakeGemini answers every generateContent call with a palette reply.
func fakeGemini(t *testing.T) *httptest.Server {
	t.Helper()
	reply, _ := json.Marshal(`{"themeName":"Dusk","colors":[{"hex":"112233","name":"Night","usage":"Background"}]}`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":`+string(reply)+`}]},"finishReason":"STOP"}],`+
			`"usageMetadata":{"promptTokenCount":100,"candidatesTokenCount":50,"totalTokenCount":150},"modelVersion":"gemini-2.5-flash"}`)
	}))
	t.Cleanup(func() {
		srv.Close()
		http.DefaultTransport.(*http.Transport).CloseIdleConnections()
	})
	return srv
}

func TestHistoryCommandEmpty(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	out, err := execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")
}

func TestRunThenHistory(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_API_BASE_URL", fakeGemini(t).URL)

	out, err := execute(t, "run", "palette", "-f", "mood=calm", "--json")
	require.NoError(t, err)
	var run app.Run
	require.NoError(t, json.Unmarshal([]byte(out), &run))
	require.NotEmpty(t, run.ID)
	assert.FileExists(t, filepath.Join(dir, "aistudio", "history.db"))

	out, err = execute(t, "history")
	require.NoError(t, err)
	assert.NotContains(t, out, "No runs recorded.")
	assert.Contains(t, out, run.ID)
	assert.Contains(t, out, "palette")

	out, err = execute(t, "history", run.ID)
	require.NoError(t, err)
	assert.Contains(t, out, `"tool": "palette"`)
	assert.Contains(t, out, `"mood": "calm"`)
}

func TestHistoryCommandHonoursBackend(t *testing.T) {
	t.Setenv("AISTUDIO_HISTORY", "off")
	_, err := execute(t, "history")
	assert.ErrorContains(t, err, "history is disabled")
}

func TestConfigFlagRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nonsense: true\n"), 0o600))
	_, err := execute(t, "--config", path, "list")
	assert.Error(t, err)
}

func TestBuildInput(t *testing.T) {
	in, err := buildInput([]string{"mood=calm", "note=a=b", " days =3"}, "")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"mood": "calm", "note": "a=b", "days": "3"}, in.Fields)
	assert.Nil(t, in.Image)

	_, err = buildInput([]string{"novalue"}, "")
	assert.ErrorIs(t, err, tools.ErrInvalidInput)
}

func TestReadImage(t *testing.T) {
	dir := t.TempDir()
	gif := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")

	named := filepath.Join(dir, "pixel.gif")
	require.NoError(t, os.WriteFile(named, gif, 0o600))
	img, err := readImage(named)
	require.NoError(t, err)
	assert.Equal(t, "image/gif", img.MimeType)
	assert.Equal(t, base64.StdEncoding.EncodeToString(gif), img.Data)

	sniffed := filepath.Join(dir, "pixel")
	require.NoError(t, os.WriteFile(sniffed, gif, 0o600))
	img, err = readImage(sniffed)
	require.NoError(t, err)
	assert.Equal(t, "image/gif", img.MimeType)

	_, err = readImage(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}

func TestLoadBatch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pic.gif"), []byte("GIF89a"), 0o600))
	path := filepath.Join(dir, "jobs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
parallelism: 3
jobs:
  - tool: palette
    fields: {mood: Calm forest}
  - tool: vision
    image: pic.gif
`), 0o600))

	jobs, par, err := loadBatch(path)
	require.NoError(t, err)
	assert.Equal(t, 3, par)
	require.Len(t, jobs, 2)
	assert.Equal(t, "Calm forest", jobs[0].Input.Fields["mood"])
	require.NotNil(t, jobs[1].Input.Image)
	assert.Equal(t, "image/gif", jobs[1].Input.Image.MimeType)
}

func TestLoadBatchErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		return p
	}

	_, _, err := loadBatch(write("empty.yaml", ""))
	assert.ErrorContains(t, err, "no jobs")

	_, _, err = loadBatch(write("notool.yaml", "jobs:\n  - fields: {a: b}\n"))
	assert.ErrorContains(t, err, "has no tool")

	_, _, err = loadBatch(write("typo.yaml", "jobz: []\n"))
	assert.Error(t, err)

	_, _, err = loadBatch(write("noimg.yaml", "jobs:\n  - tool: vision\n    image: nope.png\n"))
	assert.Error(t, err)
}

func TestWriteBatch(t *testing.T) {
	var buf bytes.Buffer
	err := writeBatch(&buf, []app.BatchResult{
		{Job: app.Job{Tool: "palette"}, Run: &app.Run{ID: "r1", Output: &tools.Output{Tool: "palette"}}},
		{Job: app.Job{Tool: "nope"}, Err: errors.New("unknown tool")},
	})
	assert.ErrorContains(t, err, "1 of 2 jobs failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"id":"r1"`)
	assert.Contains(t, lines[1], `"error":"unknown tool"`)
}

func TestWriteOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeOutput(&buf, &tools.Output{Text: "hello"}))
	assert.Equal(t, "hello\n", buf.String())

	buf.Reset()
	require.NoError(t, writeOutput(&buf, &tools.Output{Data: map[string]string{"a": "b"}}))
	assert.Equal(t, "{\n  \"a\": \"b\"\n}\n", buf.String())
}
