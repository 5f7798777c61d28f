// Package helper runs the auxiliary drag-and-drop process and decodes the
// newline-delimited JSON it writes to stdout.
//
// The helper is started as "path x y" with the initial pointer position.
// It prints one object per line:
//
//	{"event_type":"hovered","path":"/tmp/a.txt","x":10,"y":20}
//
// and exits after a drop, or when it reads "shutdown" on stdin.
package helper

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"inputmon/internal/logging"
	"inputmon/internal/metrics"
)

// Helper event types as written by the helper process.
const (
	Hovered   = "hovered"
	Dropped   = "dropped"
	Cancelled = "cancelled"
)

// File drag event types delivered to listeners.
const (
	HoveredFile          = "hovered_file"
	DroppedFile          = "dropped_file"
	HoveredFileCancelled = "hovered_file_cancelled"
)

// ErrMalformedLine is wrapped by ParseLine for lines that are not valid
// JSON or do not match the line schema.
var ErrMalformedLine = errors.New("malformed helper line")

// Message is one decoded line.
type Message struct {
	EventType string  `json:"event_type"`
	Path      *string `json:"path"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// FilePath returns the path, or "" when the helper sent null.
func (m Message) FilePath() string {
	if m.Path == nil {
		return ""
	}
	return *m.Path
}

// Translate maps a helper event type to the file drag event type.
func Translate(eventType string) (string, bool) {
	switch eventType {
	case Hovered:
		return HoveredFile, true
	case Dropped:
		return DroppedFile, true
	case Cancelled:
		return HoveredFileCancelled, true
	}
	return "", false
}

//go:embed line.schema.json
var lineSchemaJSON []byte

const lineSchemaURL = "https://inputmon.local/schema/helper-line-v1.schema.json"

var lineSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(lineSchemaURL, bytes.NewReader(lineSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	return compiler.Compile(lineSchemaURL)
})

// ParseLine decodes and validates one line of helper output.
func ParseLine(line []byte) (Message, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return Message{}, fmt.Errorf("%w: empty", ErrMalformedLine)
	}

	var instance any
	if err := json.Unmarshal(line, &instance); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformedLine, err)
	}

	schema, err := lineSchema()
	if err != nil {
		return Message{}, fmt.Errorf("compile line schema: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformedLine, err)
	}

	var msg Message
	if err := json.Unmarshal(line, &msg); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformedLine, err)
	}
	return msg, nil
}

const maxLineSize = 1 << 20

// ReadMessages reads lines from r until EOF, calling emit for each valid
// message in order. Malformed lines, including lines longer than
// maxLineSize, are logged at debug level, counted and skipped.
func ReadMessages(r io.Reader, emit func(Message), logger *slog.Logger, m *metrics.InputMetrics) error {
	logger = logging.OrDiscard(logger)

	br := bufio.NewReaderSize(r, maxLineSize)
	for {
		line, err := br.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			for errors.Is(err, bufio.ErrBufferFull) {
				_, err = br.ReadSlice('\n')
			}
			m.RecordMalformedLine()
			logger.Debug("skip helper line",
				"error", fmt.Errorf("%w: longer than %d bytes", ErrMalformedLine, maxLineSize))
			if err != nil {
				return ignoreEOF(err)
			}
			continue
		}
		if err != nil && (err != io.EOF || len(line) == 0) {
			return ignoreEOF(err)
		}

		msg, perr := ParseLine(line)
		if perr != nil {
			m.RecordMalformedLine()
			logger.Debug("skip helper line", "error", perr)
		} else {
			emit(msg)
		}
		if err != nil {
			return nil
		}
	}
}

func ignoreEOF(err error) error {
	if err == io.EOF {
		return nil
	}
	return err
}
