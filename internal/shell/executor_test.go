package shell

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/flarebyte/spackter/internal/apperr"
	"github.com/flarebyte/spackter/internal/console"
	"github.com/stretchr/testify/require"
)

func newTestExecutor(t *testing.T) (*Executor, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	e, err := New(DefaultShell, console.New(&out, &errOut, true), nil)
	require.NoError(t, err)
	return e, &out, &errOut
}

func TestRun_StreamsMergedOutputInOrder(t *testing.T) {
	e, out, _ := newTestExecutor(t)
	ok, err := e.Run(context.Background(), "echo one; echo two 1>&2; printf three")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t,
		"===> Running commands:\n  $ echo one\n  $ echo two 1>&2\n  $ printf three\none\ntwo\nthree\n",
		out.String())
}

func TestRun_NonZeroAborts(t *testing.T) {
	e, _, _ := newTestExecutor(t)
	ok, err := e.Run(context.Background(), "exit 3")
	require.False(t, ok)
	require.ErrorIs(t, err, apperr.ErrPhaseFailure)
	require.Contains(t, err.Error(), "return code 3")
}

func TestRun_ContinueOnError(t *testing.T) {
	e, _, errOut := newTestExecutor(t)
	ok, err := e.Run(context.Background(), "exit 2", ContinueOnError())
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, "===> Error: exit 2 failed with return code 2\n", errOut.String())
}

func TestRun_DirAndEnv(t *testing.T) {
	e, out, _ := newTestExecutor(t)
	dir := t.TempDir()
	ok, err := e.Run(context.Background(), `pwd; echo "$SPACKTER_TEST_VAR"`,
		WithDir(dir), WithEnv(map[string]string{"SPACKTER_TEST_VAR": "hello"}), Quiet())
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, out.String())

	got, err := e.Output(context.Background(), `pwd; echo "$SPACKTER_TEST_VAR"`,
		WithDir(dir), WithEnv(map[string]string{"SPACKTER_TEST_VAR": "hello"}))
	require.NoError(t, err)
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 2)
	gotDir, err := filepath.EvalSymlinks(lines[0])
	require.NoError(t, err)
	require.Equal(t, resolved, gotDir)
	require.Equal(t, "hello", lines[1])
}

func TestOutput_Failure(t *testing.T) {
	e, _, _ := newTestExecutor(t)
	got, err := e.Output(context.Background(), "echo partial; exit 1")
	require.Error(t, err)
	require.Equal(t, "partial", got)
}

func TestRun_CancelledContext(t *testing.T) {
	e, _, _ := newTestExecutor(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok, err := e.Run(ctx, "sleep 5", ContinueOnError())
	require.False(t, ok)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRun_CancelStopsCompoundLine(t *testing.T) {
	e, _, _ := newTestExecutor(t)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	start := time.Now()
	ok, err := e.Run(ctx, "true && sleep 30", Quiet())
	require.False(t, ok)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), waitDelay)
}

func TestOutput_CancelStopsCompoundLine(t *testing.T) {
	e, _, _ := newTestExecutor(t)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := e.Output(ctx, "echo started; sleep 30; echo never")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), waitDelay)
}

func TestNew_ParsesShellWords(t *testing.T) {
	e, err := New(`bash -e -c`, console.New(os.Stdout, os.Stderr, true), nil)
	require.NoError(t, err)
	require.Equal(t, "bash", e.program)
	require.Equal(t, []string{"-e", "-c"}, e.args)

	_, err = New("   ", console.New(os.Stdout, os.Stderr, true), nil)
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestLineWriter_SplitsAcrossWrites(t *testing.T) {
	var buf bytes.Buffer
	lw := newLineWriter(&buf)
	_, _ = lw.Write([]byte("ab"))
	require.Empty(t, buf.String())
	_, _ = lw.Write([]byte("c\nde"))
	require.Equal(t, "abc\n", buf.String())
	lw.Flush()
	require.Equal(t, "abc\nde\n", buf.String())
}

func TestQuote(t *testing.T) {
	require.Equal(t, "zlib@1.3+shared", Quote("zlib@1.3+shared"))
	require.Equal(t, "''", Quote(""))
	require.Equal(t, `'a b'`, Quote("a b"))
	require.Equal(t, `'it'\''s'`, Quote("it's"))
}

func TestApplyEnvOverlay(t *testing.T) {
	got := applyEnvOverlay([]string{"A=1", "B=2", "=bad"}, map[string]string{"B": "3", "C": "4"})
	require.Equal(t, []string{"A=1", "B=3", "C=4"}, got)
}
