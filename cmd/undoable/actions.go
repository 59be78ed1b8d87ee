package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dshills/undoable/internal/undoable"
)

// decodeActions reads one JSON action per line.
// Blank lines and lines starting with '#' are skipped.
func decodeActions(r io.Reader) ([]undoable.Action, error) {
	var actions []undoable.Action

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		action, ok, err := decodeLine(scanner.Bytes())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if ok {
			actions = append(actions, action)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading actions: %w", err)
	}
	return actions, nil
}

func decodeLine(raw []byte) (undoable.Action, bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] == '#' {
		return undoable.Action{}, false, nil
	}

	var action undoable.Action
	if err := json.Unmarshal(raw, &action); err != nil {
		return undoable.Action{}, false, fmt.Errorf("decode action: %w", err)
	}
	return action, true, nil
}

// actionTail reads actions appended to a file since the last call.
// Only complete lines are consumed.
type actionTail struct {
	path   string
	offset int64
	line   int
}

func newActionTail(path string) *actionTail {
	return &actionTail{path: path}
}

func (t *actionTail) next() ([]undoable.Action, error) {
	f, err := os.Open(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() < t.offset {
		// Truncated: start over
		t.offset = 0
		t.line = 0
	}
	if _, err := f.Seek(t.offset, io.SeekStart); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	end := bytes.LastIndexByte(data, '\n')
	if end < 0 {
		return nil, nil
	}

	var actions []undoable.Action
	for _, raw := range bytes.Split(data[:end], []byte{'\n'}) {
		t.line++
		action, ok, err := decodeLine(raw)
		if err != nil {
			t.offset += int64(end + 1)
			return actions, fmt.Errorf("%s:%d: %w", t.path, t.line, err)
		}
		if ok {
			actions = append(actions, action)
		}
	}
	t.offset += int64(end + 1)
	return actions, nil
}
