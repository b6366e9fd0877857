package git

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

const (
	initialScanBuffer = 64 * 1024
	maxScanBuffer     = 10 * 1024 * 1024
)

// process is a running git command whose stdout feeds a stream.
type process struct {
	ctx    context.Context
	cmd    *exec.Cmd
	stderr bytes.Buffer
	waited bool
}

func startProcess(ctx context.Context, cmd *exec.Cmd) (*process, io.Reader, error) {
	p := &process{ctx: ctx, cmd: cmd}
	cmd.Stderr = &p.stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("creating stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("starting git %s: %w", cmd.Args[1], err)
	}
	return p, stdout, nil
}

// wait reaps the process and converts its exit status into an error.
func (p *process) wait() error {
	if p.waited {
		return nil
	}
	p.waited = true
	err := p.cmd.Wait()
	if err == nil {
		return nil
	}
	if ctxErr := p.ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 141 {
		// SIGPIPE after we stopped reading.
		return nil
	}
	if msg := strings.TrimSpace(p.stderr.String()); msg != "" {
		return fmt.Errorf("git failed: %s", msg)
	}
	return fmt.Errorf("git failed: %w", err)
}

func (p *process) kill() error {
	if p.waited {
		return nil
	}
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	p.waited = true
	_ = p.cmd.Wait()
	return nil
}

// scanner pulls records from a reader and remembers how it ended.
type scanner struct {
	sc   *bufio.Scanner
	proc *process // nil for in-memory sources
	err  error    // terminal error; io.EOF on a clean end
}

func newScanner(r io.Reader, proc *process, split bufio.SplitFunc) *scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, initialScanBuffer), maxScanBuffer)
	sc.Split(split)
	return &scanner{sc: sc, proc: proc}
}

// next returns the next record, or false once the stream has ended.
func (s *scanner) next() (string, bool) {
	if s.err != nil {
		return "", false
	}
	if s.sc.Scan() {
		return s.sc.Text(), true
	}
	s.err = s.finish(s.sc.Err())
	return "", false
}

func (s *scanner) finish(scanErr error) error {
	if s.proc == nil {
		if scanErr != nil {
			return scanErr
		}
		return io.EOF
	}
	if scanErr != nil {
		_ = s.proc.kill()
		return scanErr
	}
	if err := s.proc.wait(); err != nil {
		return err
	}
	return io.EOF
}

// fail ends the stream with err, killing the producer.
func (s *scanner) fail(err error) {
	if s.err != nil {
		return
	}
	s.err = err
	if s.proc != nil {
		_ = s.proc.kill()
	}
}

func (s *scanner) close() error {
	if s.err == nil {
		s.err = io.EOF
	}
	if s.proc != nil {
		return s.proc.kill()
	}
	return nil
}

// scanNUL splits on NUL terminators as produced by git log -z.
func scanNUL(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, 0); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// scanLinesVerbatim splits on '\n' only, keeping any '\r'.
func scanLinesVerbatim(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

type logStream struct {
	s *scanner
}

func newLogStream(r io.Reader, proc *process) *logStream {
	return &logStream{s: newScanner(r, proc, scanNUL)}
}

func (l *logStream) Next(max int) ([]Commit, error) {
	if max <= 0 {
		max = 1
	}
	var batch []Commit
	for len(batch) < max {
		record, ok := l.s.next()
		if !ok {
			return batch, l.s.err
		}
		record = strings.TrimLeft(record, "\n")
		if record == "" {
			continue
		}
		c, err := parseCommitRecord(record)
		if err != nil {
			l.s.fail(err)
			return batch, err
		}
		batch = append(batch, c)
	}
	return batch, nil
}

func (l *logStream) Close() error {
	return l.s.close()
}

type lineStream struct {
	s *scanner
}

func newLineStream(r io.Reader, proc *process) *lineStream {
	return &lineStream{s: newScanner(r, proc, scanLinesVerbatim)}
}

func (l *lineStream) Next(max int) ([]string, error) {
	if max <= 0 {
		max = 1
	}
	var batch []string
	for len(batch) < max {
		line, ok := l.s.next()
		if !ok {
			return batch, l.s.err
		}
		batch = append(batch, line)
	}
	return batch, nil
}

func (l *lineStream) Close() error {
	return l.s.close()
}
