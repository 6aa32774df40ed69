package service

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pythonOrSkip(t *testing.T) string {
	t.Helper()
	pythonBin, err := exec.LookPath("python3")
	if err != nil {
		t.Skip("python3 not available")
	}
	return pythonBin
}

func TestExecuteSubstitutesContractPaths(t *testing.T) {
	pythonBin := pythonOrSkip(t)

	dir := t.TempDir()
	inputPath := filepath.Join(dir, "in.jsonl")
	outputPath := filepath.Join(dir, "out.csv")
	require.NoError(t, os.WriteFile(inputPath, []byte("{\"a\": 1}\n"), 0644))

	program := `with open('/home/user/input.jsonl') as f:
    data = f.read()
with open('/home/user/output.csv', 'w') as out:
    out.write('a\n1\n')
print('done')
`

	e := NewPythonExecutor(pythonBin, 10*time.Second)
	result := e.Execute(context.Background(), program, inputPath, outputPath)

	require.True(t, result.OK, result.Error)
	assert.Contains(t, result.Stdout, "done")

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, "a\n1\n", string(content))
}

func TestExecuteCapturesStderrOnFault(t *testing.T) {
	pythonBin := pythonOrSkip(t)

	dir := t.TempDir()
	e := NewPythonExecutor(pythonBin, 10*time.Second)
	result := e.Execute(context.Background(), "raise ValueError('bad parse')",
		filepath.Join(dir, "in.jsonl"), filepath.Join(dir, "out.csv"))

	assert.False(t, result.OK)
	assert.Contains(t, result.Error, "ValueError")
	assert.Contains(t, result.Error, "bad parse")
}

func TestExecuteTimesOut(t *testing.T) {
	pythonBin := pythonOrSkip(t)

	dir := t.TempDir()
	e := NewPythonExecutor(pythonBin, 500*time.Millisecond)

	start := time.Now()
	result := e.Execute(context.Background(), "import time\ntime.sleep(30)",
		filepath.Join(dir, "in.jsonl"), filepath.Join(dir, "out.csv"))
	elapsed := time.Since(start)

	assert.False(t, result.OK)
	assert.Equal(t, "execution timed out", result.Error)
	assert.Less(t, elapsed, 10*time.Second)
}

func TestExecuteRespectsCallerCancellation(t *testing.T) {
	pythonBin := pythonOrSkip(t)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(200 * time.Millisecond)
		cancel()
	}()

	dir := t.TempDir()
	e := NewPythonExecutor(pythonBin, time.Minute)
	result := e.Execute(ctx, "import time\ntime.sleep(30)",
		filepath.Join(dir, "in.jsonl"), filepath.Join(dir, "out.csv"))

	assert.False(t, result.OK)
	assert.NotEmpty(t, result.Error)
}

func TestExecutorDefaults(t *testing.T) {
	e := NewPythonExecutor("", 0)
	assert.Equal(t, "python3", e.pythonBin)
	assert.Equal(t, 60*time.Second, e.timeout)
}
