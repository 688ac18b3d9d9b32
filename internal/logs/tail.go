package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"ecalib/internal/logging"
)

const pollInterval = 250 * time.Millisecond

// Query selects log lines. Empty fields match everything.
type Query struct {
	InvocationID string
	Component    string
	Limit        int
}

// Result holds matched lines and the file offset reading stopped at.
type Result struct {
	Lines  []string
	Offset int64
}

// Matches reports whether line carries the fields q asks for. Both the
// console (key=value) and JSON encodings are recognized.
func (q Query) Matches(line string) bool {
	if !hasField(line, logging.FieldInvocationID, q.InvocationID) {
		return false
	}
	if q.Component == "" {
		return true
	}
	// The console handler prints the component as a "name:" prefix.
	return hasField(line, logging.FieldComponent, q.Component) ||
		strings.Contains(line, " "+q.Component+": ")
}

func hasField(line, key, value string) bool {
	if value == "" {
		return true
	}
	return strings.Contains(line, key+"="+value) ||
		strings.Contains(line, key+`="`+value+`"`) ||
		strings.Contains(line, `"`+key+`":"`+value+`"`)
}

// Tail returns the last q.Limit matching lines of path. A non-positive limit
// returns every match. A missing file yields an empty result.
func Tail(path string, q Query) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{}, nil
		}
		return Result{}, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if info, err := file.Stat(); err != nil {
		return Result{}, fmt.Errorf("stat log file: %w", err)
	} else if info.IsDir() {
		return Result{}, fmt.Errorf("log path %q is a directory", path)
	}

	var (
		ring  []string
		idx   int
		count int
		all   []string
	)
	if q.Limit > 0 {
		ring = make([]string, q.Limit)
	}
	scanner := newScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if !q.Matches(line) {
			continue
		}
		if ring == nil {
			all = append(all, line)
			continue
		}
		ring[idx] = line
		idx = (idx + 1) % q.Limit
		if count < q.Limit {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return Result{}, fmt.Errorf("read log file: %w", err)
	}
	offset, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return Result{}, fmt.Errorf("determine log offset: %w", err)
	}

	if ring == nil {
		return Result{Lines: all, Offset: offset}, nil
	}
	lines := make([]string, count)
	if count == q.Limit {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%q.Limit]
		}
	} else {
		copy(lines, ring[:count])
	}
	return Result{Lines: lines, Offset: offset}, nil
}

// Follow calls emit for every matching line appended after offset until ctx
// is done. A truncated file is re-read from the start.
func Follow(ctx context.Context, path string, offset int64, q Query, emit func(string)) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		lines, next, err := readFrom(path, offset)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if q.Matches(line) {
				emit(line)
			}
		}
		offset = next

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func readFrom(path string, offset int64) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, offset, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, offset, fmt.Errorf("stat log file: %w", err)
	}
	if offset > info.Size() {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, offset, fmt.Errorf("seek log file: %w", err)
	}

	// Only whole lines are consumed; a partial trailing line waits for the
	// next poll.
	reader := bufio.NewReader(file)
	var lines []string
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, offset, fmt.Errorf("read log file: %w", err)
		}
		offset += int64(len(line))
		lines = append(lines, strings.TrimRight(line, "\r\n"))
	}
	return lines, offset, nil
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return scanner
}
