package shell

import (
	"bytes"
	"io"
	"os/exec"
	"sort"
	"strings"
	"syscall"
)

// lineWriter forwards complete lines to w as they arrive.
type lineWriter struct {
	w   io.Writer
	buf bytes.Buffer
}

func newLineWriter(w io.Writer) *lineWriter { return &lineWriter{w: w} }

func (l *lineWriter) Write(p []byte) (int, error) {
	n := len(p)
	if l.w == nil {
		return n, nil
	}
	_, _ = l.buf.Write(p)
	for {
		i := bytes.IndexByte(l.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := l.buf.Next(i + 1)
		if _, err := l.w.Write(line); err != nil {
			return n, err
		}
	}
	return n, nil
}

// Flush writes a trailing partial line, newline-terminated.
func (l *lineWriter) Flush() {
	if l.w == nil || l.buf.Len() == 0 {
		return
	}
	rest := l.buf.Bytes()
	_, _ = l.w.Write(append(append([]byte(nil), rest...), '\n'))
	l.buf.Reset()
}

// signalGroup signals the process group led by cmd, falling back to the
// process itself.
func signalGroup(cmd *exec.Cmd, sig syscall.Signal) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	if pid := cmd.Process.Pid; pid > 0 {
		if err := syscall.Kill(-pid, sig); err == nil {
			return
		}
	}
	_ = cmd.Process.Signal(sig)
}

func applyEnvOverlay(base []string, overlay map[string]string) []string {
	if len(overlay) == 0 {
		return append([]string(nil), base...)
	}
	m := map[string]string{}
	for _, kv := range base {
		i := strings.IndexByte(kv, '=')
		if i <= 0 {
			continue
		}
		m[kv[:i]] = kv[i+1:]
	}
	for k, v := range overlay {
		m[k] = v
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(m))
	for _, k := range keys {
		out = append(out, k+"="+m[k])
	}
	return out
}

// Quote returns s as a single POSIX shell word.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("@%+=:,./_-", r)) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
