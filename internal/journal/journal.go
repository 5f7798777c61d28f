// Package journal records dispatched input events, drag gestures and file
// drag notifications in a SQLite database.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"inputmon/internal/event"
	"inputmon/internal/filedrag"
	"inputmon/internal/gesture"
	"inputmon/internal/logging"
	"inputmon/internal/registry"
)

// Record sources.
const (
	SourceInput = "input"
	SourceDrag  = "drag"
	SourceFile  = "file"
)

// DefaultQueueSize is the number of records the subscribers buffer ahead
// of the writer.
const DefaultQueueSize = 4096

// ErrClosed is returned by operations on a closed journal.
var ErrClosed = errors.New("journal closed")

const schema = `
CREATE TABLE IF NOT EXISTS records (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    source      TEXT NOT NULL,
    kind        TEXT NOT NULL,
    time_ns     INTEGER NOT NULL,
    button      INTEGER,
    key_code    INTEGER,
    key_name    TEXT,
    x           REAL NOT NULL DEFAULT 0,
    y           REAL NOT NULL DEFAULT 0,
    start_x     REAL,
    start_y     REAL,
    dx          INTEGER,
    dy          INTEGER,
    path        TEXT,
    platform    TEXT
);

CREATE INDEX IF NOT EXISTS idx_records_time ON records(time_ns);
CREATE INDEX IF NOT EXISTS idx_records_source ON records(source, time_ns);
`

// Record is one journal row. Fields that do not apply to the source are
// left zero.
type Record struct {
	ID     int64
	Source string
	Kind   string
	Time   time.Time

	Button  int32
	KeyCode int32
	KeyName string

	X, Y           float64
	StartX, StartY float64
	DeltaX, DeltaY int64

	Path     string
	Platform string
}

// Options controls what is written.
type Options struct {
	// RecordKeys stores key codes and names. Without it key events are
	// kept with their kind only.
	RecordKeys bool

	// RecordMoves stores mouse_move events and dragmove phases.
	RecordMoves bool

	// QueueSize bounds the subscriber buffer. Defaults to DefaultQueueSize.
	QueueSize int

	Logger *slog.Logger
}

// Journal is an open event journal.
type Journal struct {
	db     *sql.DB
	opts   Options
	logger *slog.Logger

	queue *registry.Queue[Record]
	flush chan chan struct{}
	quit  chan struct{}
	wg    sync.WaitGroup

	closeOnce sync.Once
}

// Open opens or creates the journal at path and starts its writer.
func Open(path string, opts Options) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// One connection keeps the WAL writer single and ids ordered.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	j := &Journal{
		db:     db,
		opts:   opts,
		logger: logging.OrDiscard(opts.Logger).With("path", path),
		queue:  registry.NewQueue[Record](opts.QueueSize),
		flush:  make(chan chan struct{}),
		quit:   make(chan struct{}),
	}

	j.wg.Add(1)
	go j.writer()
	return j, nil
}

func (j *Journal) writer() {
	defer j.wg.Done()
	for {
		select {
		case r := <-j.queue.C():
			j.write(r)
		case reply := <-j.flush:
			j.drain()
			close(reply)
		case <-j.quit:
			j.drain()
			return
		}
	}
}

func (j *Journal) drain() {
	for {
		select {
		case r := <-j.queue.C():
			j.write(r)
		default:
			return
		}
	}
}

func (j *Journal) write(r Record) {
	if err := j.insert(context.Background(), r); err != nil {
		j.logger.Warn("write journal record", "source", r.Source, "kind", r.Kind, "error", err)
	}
}

func (j *Journal) insert(ctx context.Context, r Record) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO records (source, kind, time_ns, button, key_code, key_name,
			x, y, start_x, start_y, dx, dy, path, platform)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Source, r.Kind, r.Time.UnixNano(),
		nullInt(r.Button), nullInt(r.KeyCode), nullString(r.KeyName),
		r.X, r.Y, nullFloat(r.Source == SourceDrag, r.StartX), nullFloat(r.Source == SourceDrag, r.StartY),
		nullInt(r.DeltaX), nullInt(r.DeltaY),
		nullString(r.Path), nullString(r.Platform),
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// RecordEvent writes e synchronously. Events filtered by Options are
// skipped without error.
func (j *Journal) RecordEvent(ctx context.Context, e event.Event) error {
	r, ok := j.fromEvent(e)
	if !ok {
		return nil
	}
	return j.insert(ctx, r)
}

// RecordDrag writes d synchronously.
func (j *Journal) RecordDrag(ctx context.Context, d gesture.Drag) error {
	r, ok := j.fromDrag(d)
	if !ok {
		return nil
	}
	return j.insert(ctx, r)
}

// RecordFileDrag writes e synchronously.
func (j *Journal) RecordFileDrag(ctx context.Context, e filedrag.FileEvent) error {
	return j.insert(ctx, fromFileEvent(e))
}

func (j *Journal) fromEvent(e event.Event) (Record, bool) {
	if e.Kind == event.KindMouseMove && !j.opts.RecordMoves {
		return Record{}, false
	}
	r := Record{
		Source: SourceInput,
		Kind:   e.Kind.String(),
		Time:   e.Time,
		X:      e.X,
		Y:      e.Y,
	}
	switch {
	case e.Kind == event.KindButtonPress || e.Kind == event.KindButtonRelease:
		r.Button = e.Button.Code()
	case e.Kind == event.KindWheel:
		r.DeltaX, r.DeltaY = e.DeltaX, e.DeltaY
	case e.IsKey() && j.opts.RecordKeys:
		r.KeyCode = e.Key.Code()
		r.KeyName = e.Key.Name()
	}
	return r, true
}

func (j *Journal) fromDrag(d gesture.Drag) (Record, bool) {
	if d.Phase == gesture.PhaseMove && !j.opts.RecordMoves {
		return Record{}, false
	}
	return Record{
		Source: SourceDrag,
		Kind:   d.Phase.String(),
		Time:   d.Time,
		Button: d.Button.Code(),
		X:      d.Current.X,
		Y:      d.Current.Y,
		StartX: d.Start.X,
		StartY: d.Start.Y,
	}, true
}

func fromFileEvent(e filedrag.FileEvent) Record {
	sec, frac := math.Modf(e.Timestamp)
	return Record{
		Source:   SourceFile,
		Kind:     e.EventType,
		Time:     time.Unix(int64(sec), int64(frac*float64(time.Second))),
		X:        e.X,
		Y:        e.Y,
		Path:     e.FilePath,
		Platform: e.Platform,
	}
}

// Events returns a subscriber that queues input events for the writer.
// A full queue drops the event and reports registry.ErrQueueFull.
func (j *Journal) Events() registry.Subscriber[event.Event] {
	return registry.Func[event.Event](func(e event.Event) error {
		r, ok := j.fromEvent(e)
		if !ok {
			return nil
		}
		return j.queue.Invoke(r)
	})
}

// Drags returns a queued subscriber for drag gestures.
func (j *Journal) Drags() registry.Subscriber[gesture.Drag] {
	return registry.Func[gesture.Drag](func(d gesture.Drag) error {
		r, ok := j.fromDrag(d)
		if !ok {
			return nil
		}
		return j.queue.Invoke(r)
	})
}

// FileDrags returns a queued subscriber for file drag events.
func (j *Journal) FileDrags() registry.Subscriber[filedrag.FileEvent] {
	return registry.Func[filedrag.FileEvent](func(e filedrag.FileEvent) error {
		return j.queue.Invoke(fromFileEvent(e))
	})
}

// Flush blocks until every record queued before the call is written.
func (j *Journal) Flush(ctx context.Context) error {
	reply := make(chan struct{})
	select {
	case j.flush <- reply:
	case <-j.quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-reply:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Recent returns up to limit records, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, source, kind, time_ns, button, key_code, key_name,
			x, y, start_x, start_y, dx, dy, path, platform
		FROM records ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r              Record
			timeNs         int64
			button, code   sql.NullInt32
			name           sql.NullString
			startX, startY sql.NullFloat64
			dx, dy         sql.NullInt64
			path, platform sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Source, &r.Kind, &timeNs, &button, &code, &name,
			&r.X, &r.Y, &startX, &startY, &dx, &dy, &path, &platform); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		r.Time = time.Unix(0, timeNs)
		r.Button = button.Int32
		r.KeyCode = code.Int32
		r.KeyName = name.String
		r.StartX, r.StartY = startX.Float64, startY.Float64
		r.DeltaX, r.DeltaY = dx.Int64, dy.Int64
		r.Path = path.String
		r.Platform = platform.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// Count returns the number of records from source, or of all records when
// source is empty.
func (j *Journal) Count(ctx context.Context, source string) (int64, error) {
	var n int64
	var err error
	if source == "" {
		err = j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n)
	} else {
		err = j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records WHERE source = ?`, source).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// Ping checks that the database is reachable.
func (j *Journal) Ping(ctx context.Context) error {
	return j.db.PingContext(ctx)
}

// Close writes any queued records and closes the database.
func (j *Journal) Close() error {
	var err error
	j.closeOnce.Do(func() {
		close(j.quit)
		j.wg.Wait()
		err = j.db.Close()
	})
	return err
}

func nullInt[N int32 | int64](v N) any {
	if v == 0 {
		return nil
	}
	return int64(v)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullFloat(valid bool, v float64) any {
	if !valid {
		return nil
	}
	return v
}
