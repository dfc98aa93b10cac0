package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a goroutine-safe bytes.Buffer for capturing sink output.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// readJSONRecords parses the JSON file sink's output, one document per line.
func readJSONRecords(t *testing.T, dir string) []map[string]interface{} {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(dir, jsonLogFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("reading json log: %v", err)
	}

	var records []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var doc map[string]interface{}
		if err := json.Unmarshal([]byte(line), &doc); err != nil {
			t.Fatalf("json log line %q: %v", line, err)
		}
		records = append(records, doc)
	}
	return records
}

func newTestLoggerInDir(t *testing.T, dir string, opts ...LoggerOption) *Logger {
	t.Helper()

	logger, err := New(testConfig(dir), opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = logger.Close(ctx)
	})
	return logger
}

func TestNewFailsOnUnusableDirectory(t *testing.T) {
	// A regular file where the directory should be makes MkdirAll fail.
	base := t.TempDir()
	blocked := filepath.Join(base, "blocked")
	if err := os.WriteFile(blocked, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig(filepath.Join(blocked, "logs"))
	if _, err := New(cfg); err == nil {
		t.Fatal("New() error = nil, want permanent configuration error")
	}
}

// A DEBUG record reaches the console sink but not the file sinks.
func TestSeverityFiltering(t *testing.T) {
	dir := t.TempDir()
	console := &syncBuffer{}
	logger := newTestLoggerInDir(t, dir, WithConsoleOut(console))

	logger.Debug(context.Background(), "debug visibility check")

	if !strings.Contains(console.String(), "DEBUG") {
		t.Errorf("console output = %q, want DEBUG record", console.String())
	}
	if records := readJSONRecords(t, dir); len(records) != 0 {
		t.Errorf("json sink received %d records, want 0", len(records))
	}
	if data, err := os.ReadFile(filepath.Join(dir, textLogFile)); err == nil && len(data) > 0 {
		t.Errorf("text sink received %q, want nothing", data)
	}

	logger.Info(context.Background(), "info reaches files")
	if records := readJSONRecords(t, dir); len(records) != 1 {
		t.Errorf("json sink received %d records, want 1", len(records))
	}
}

// Call-site extras win over ambient context extras on key collision.
func TestCollisionPrecedence(t *testing.T) {
	dir := t.TempDir()
	logger := newTestLoggerInDir(t, dir)

	ctx := logger.SetContext(context.Background(),
		WithContextExtra(map[string]interface{}{"k": "from-context"}),
	)
	logger.Info(ctx, "collision", Extra(map[string]interface{}{"k": "from-call"}))

	records := readJSONRecords(t, dir)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if got := records[0]["k"]; got != "from-call" {
		t.Errorf("k = %v, want from-call", got)
	}
}

// Reserved record keys cannot be overridden by extras.
func TestReservedKeysProtected(t *testing.T) {
	dir := t.TempDir()
	logger := newTestLoggerInDir(t, dir)

	logger.Info(context.Background(), "the real message", Extra(map[string]interface{}{
		"message": "spoofed",
		"level":   "spoofed",
	}))

	records := readJSONRecords(t, dir)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if got := records[0]["message"]; got != "the real message" {
		t.Errorf("message = %v", got)
	}
	if got := records[0]["level"]; got != "info" {
		t.Errorf("level = %v", got)
	}
}

// Round-trip: a serialized record parses into exactly the reserved keys plus the
// context and call-site extras, with no null placeholders.
func TestStructuredRoundTrip(t *testing.T) {
	dir := t.TempDir()
	logger := newTestLoggerInDir(t, dir)

	ctx := logger.SetContext(context.Background(), WithRequestID("ab12cd34"))
	logger.Info(ctx, "round trip", Extra(map[string]interface{}{"plan": "pro"}))

	records := readJSONRecords(t, dir)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	doc := records[0]

	wantKeys := []string{
		FieldTimestamp, FieldLevel, FieldMessage, FieldLogger,
		FieldService, FieldEnvironment, FieldRequestID, FieldUserID,
		"plan",
	}
	for _, k := range wantKeys {
		if _, ok := doc[k]; !ok {
			t.Errorf("missing key %q", k)
		}
	}
	if len(doc) != len(wantKeys) {
		t.Errorf("document has %d keys %v, want %d", len(doc), doc, len(wantKeys))
	}
	for k, v := range doc {
		if v == nil {
			t.Errorf("key %q serialized as null", k)
		}
	}

	if doc[FieldRequestID] != "ab12cd34" {
		t.Errorf("request_id = %v", doc[FieldRequestID])
	}
	if doc[FieldUserID] != "-" {
		t.Errorf("user_id = %v, want sentinel", doc[FieldUserID])
	}
}

func TestNamedLogger(t *testing.T) {
	dir := t.TempDir()
	logger := newTestLoggerInDir(t, dir)

	logger.Named("billing").Info(context.Background(), "invoice created")

	records := readJSONRecords(t, dir)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if got := records[0][FieldLogger]; got != "billing" {
		t.Errorf("logger = %v, want billing", got)
	}
}

func TestErrRendersException(t *testing.T) {
	dir := t.TempDir()
	logger := newTestLoggerInDir(t, dir)

	logger.Error(context.Background(), "operation failed", Err(errors.New("boom")))

	records := readJSONRecords(t, dir)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	exc, _ := records[0][FieldException].(string)
	if !strings.Contains(exc, "boom") {
		t.Errorf("exception = %q, want error message included", exc)
	}
	if !strings.Contains(exc, "goroutine") {
		t.Errorf("exception = %q, want stack trace included", exc)
	}
}

// An unserializable extra is coerced to a string; the record is still delivered.
func TestUnserializableExtraCoerced(t *testing.T) {
	dir := t.TempDir()
	logger := newTestLoggerInDir(t, dir)

	logger.Info(context.Background(), "coercion", Extra(map[string]interface{}{
		"bad": make(chan int),
	}))

	records := readJSONRecords(t, dir)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if _, ok := records[0]["bad"].(string); !ok {
		t.Errorf("bad = %T %v, want coerced string", records[0]["bad"], records[0]["bad"])
	}
}

func TestFormattedVariants(t *testing.T) {
	dir := t.TempDir()
	logger := newTestLoggerInDir(t, dir)

	logger.Infof(context.Background(), "received %d items from %s", 3, "queue")

	records := readJSONRecords(t, dir)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if got := records[0][FieldMessage]; got != "received 3 items from queue" {
		t.Errorf("message = %v", got)
	}
}

// Within a single sink, records from one unit of work arrive in call order.
func TestCallOrderPreserved(t *testing.T) {
	dir := t.TempDir()
	logger := newTestLoggerInDir(t, dir)

	ctx := context.Background()
	logger.Info(ctx, "first")
	logger.Info(ctx, "second")
	logger.Info(ctx, "third")

	records := readJSONRecords(t, dir)
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	for i, want := range []string{"first", "second", "third"} {
		if records[i][FieldMessage] != want {
			t.Errorf("record %d message = %v, want %s", i, records[i][FieldMessage], want)
		}
	}
}

// Concurrent log calls never interleave within a single record.
func TestConcurrentCallsAtomicRecords(t *testing.T) {
	dir := t.TempDir()
	logger := newTestLoggerInDir(t, dir)

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				logger.Info(context.Background(), "concurrent write check")
			}
		}(i)
	}
	wg.Wait()

	// readJSONRecords fails the test if any line is not a complete document.
	records := readJSONRecords(t, dir)
	if len(records) != workers*20 {
		t.Errorf("got %d records, want %d", len(records), workers*20)
	}
}

func TestConsoleLineFormat(t *testing.T) {
	dir := t.TempDir()
	console := &syncBuffer{}
	logger := newTestLoggerInDir(t, dir, WithConsoleOut(console))

	ctx := logger.SetContext(context.Background(), WithRequestID("ab12cd34"), WithUserID("u-9"))
	logger.Info(ctx, "line check")

	out := console.String()
	if !strings.Contains(out, "[SERVICE:test-service][ENV:test][REQ:ab12cd34][USER:u-9]") {
		t.Errorf("console line = %q, want bracketed context", out)
	}
	if !strings.Contains(out, " - INFO - ") {
		t.Errorf("console line = %q, want level part", out)
	}
	if !strings.HasSuffix(strings.TrimRight(out, "\n"), " - app - line check") {
		t.Errorf("console line = %q, want logger and message last", out)
	}
}

// Logging-internal sink failures are reported to the fallback stream and never
// propagate to the caller.
func TestSinkFailureInvisibleToCaller(t *testing.T) {
	dir := t.TempDir()
	errOut := &syncBuffer{}

	cfg := testConfig(dir)
	logger, err := New(cfg, WithErrorOut(errOut), WithConsoleOut(failingWriter{}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer logger.Close(context.Background())

	logger.Info(context.Background(), "survives sink failure")

	if !strings.Contains(errOut.String(), "console sink") {
		t.Errorf("fallback stream = %q, want console sink failure note", errOut.String())
	}
	// The other sinks still delivered.
	if records := readJSONRecords(t, dir); len(records) != 1 {
		t.Errorf("json sink received %d records, want 1", len(records))
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, os.ErrClosed
}
