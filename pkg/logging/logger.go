package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/logward/logward/pkg/config"
	"github.com/logward/logward/pkg/errors"
	"github.com/logward/logward/pkg/retry"
)

// File names inside the configured log directory.
const (
	textLogFile = "app.log"
	jsonLogFile = "app.json.log"
)

// zerologSetup configures the package-global zerolog serialization settings once.
// Field names and timestamp format are part of the wire contract with the sinks.
var zerologSetup sync.Once

func setupZerolog() {
	zerologSetup.Do(func() {
		zerolog.TimestampFieldName = FieldTimestamp
		zerolog.LevelFieldName = FieldLevel
		zerolog.MessageFieldName = FieldMessage
		zerolog.TimeFieldFormat = time.RFC3339Nano
		zerolog.TimestampFunc = func() time.Time {
			return time.Now().UTC()
		}
	})
}

// Logger is the single entry point for request-scoped logging. Every call reads
// the ambient RequestContext from the supplied context.Context, merges it with
// call-site extras, and dispatches the fully formed record to every installed
// sink whose minimum severity is satisfied.
//
// A Logger is safe for concurrent use. Logging-internal failures are reported to
// the fallback error stream and never propagate to the caller.
type Logger struct {
	name       string
	zlog       zerolog.Logger
	cfg        *config.Config
	defaultCtx RequestContext
	now        func() time.Time
	elastic    *elasticSink
	closeFns   closers
}

// LoggerOption customizes logger construction. Used mainly by tests to redirect
// the console stream and inject a deterministic clock.
type LoggerOption func(*loggerOptions)

type loggerOptions struct {
	consoleOut io.Writer
	errOut     io.Writer
	now        func() time.Time
}

// WithConsoleOut redirects the console sink away from stdout.
func WithConsoleOut(w io.Writer) LoggerOption {
	return func(o *loggerOptions) {
		o.consoleOut = w
	}
}

// WithErrorOut redirects the fallback error stream away from stderr.
func WithErrorOut(w io.Writer) LoggerOption {
	return func(o *loggerOptions) {
		o.errOut = w
	}
}

// WithClock injects the time source used for rotation boundaries, remote index
// naming, and context timestamps.
func WithClock(now func() time.Time) LoggerOption {
	return func(o *loggerOptions) {
		o.now = now
	}
}

// New constructs the logging facility from configuration: it creates the log
// directory, opens both rotating file sinks, installs the console sink, and, when
// remote configuration is present, installs the Elasticsearch sink (connection is
// established separately via ConnectRemote).
//
// An unusable log directory is a permanent error: the process should fail fast
// rather than log silently into nowhere.
func New(cfg *config.Config, opts ...LoggerOption) (*Logger, error) {
	setupZerolog()

	o := loggerOptions{
		consoleOut: os.Stdout,
		errOut:     os.Stderr,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if err := os.MkdirAll(cfg.Log.Directory, 0o755); err != nil {
		return nil, errors.NewPermanent("log directory not writable", err)
	}

	fileLevel := parseLogLevel(cfg.Log.FileLevel)
	consoleLevel := parseLogLevel(cfg.Log.ConsoleLevel)

	textFile := newDailyWriter(filepath.Join(cfg.Log.Directory, textLogFile), cfg.Log.MaxBackups, o.now)
	jsonFile := newDailyWriter(filepath.Join(cfg.Log.Directory, jsonLogFile), cfg.Log.MaxBackups, o.now)

	l := &Logger{
		name: "app",
		cfg:  cfg,
		now:  o.now,
		closeFns: closers{
			textFile.Close,
			jsonFile.Close,
		},
	}
	l.defaultCtx = newRequestContext(cfg.Service.Name, cfg.Service.Env, o.now)

	sinks := []io.Writer{
		newSink(SinkTextFile, fileLevel, lineWriter{out: textFile}, o.errOut),
		newSink(SinkJSONFile, fileLevel, jsonFile, o.errOut),
		newSink(SinkConsole, consoleLevel, lineWriter{out: o.consoleOut}, o.errOut),
	}

	if cfg.Elastic.Enabled() {
		es := newElasticSink(cfg.Elastic, o.now, o.errOut)
		sinks = append(sinks, newSink(SinkElastic, parseLogLevel(cfg.Elastic.Level), es, o.errOut))
		l.elastic = es
	}

	l.zlog = zerolog.New(zerolog.MultiLevelWriter(sinks...)).
		With().Timestamp().Logger().
		Level(zerolog.DebugLevel) // sinks apply their own minimums

	return l, nil
}

// parseLogLevel converts a string log level to zerolog.Level.
func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Named returns a logger that stamps records with the given logger name.
// Sinks and the default context are shared with the parent.
func (l *Logger) Named(name string) *Logger {
	child := *l
	child.name = name
	return &child
}

// SetContext replaces the ambient request context on ctx with a fresh one built
// from facility defaults (service, environment) overlaid with the supplied
// options. The returned context carries the new RequestContext; the previous one
// is untouched, so concurrent units of work never observe each other's context.
func (l *Logger) SetContext(ctx context.Context, opts ...ContextOption) context.Context {
	rc := newRequestContext(l.cfg.Service.Name, l.cfg.Service.Env, l.now, opts...)
	return WithRequestContext(ctx, rc)
}

// Context returns the ambient RequestContext for ctx, falling back to the
// process-wide default built at construction. A context is therefore always
// present for any log call.
func (l *Logger) Context(ctx context.Context) RequestContext {
	if rc, ok := RequestContextFrom(ctx); ok {
		return rc
	}
	return l.defaultCtx
}

// Option configures a single log call.
type Option func(*callOptions)

type callOptions struct {
	extra map[string]interface{}
	err   error
}

// Extra attaches call-site key/value data to the record. On key collision with
// the ambient context, the call-site value wins.
func Extra(extra map[string]interface{}) Option {
	return func(o *callOptions) {
		o.extra = extra
	}
}

// Err captures an error into the record's exception field, rendered together
// with the current stack. The error itself is only observed, never re-raised or
// mutated by the facility.
func Err(err error) Option {
	return func(o *callOptions) {
		o.err = err
	}
}

// Debug logs a message at DEBUG level with the ambient context attached.
func (l *Logger) Debug(ctx context.Context, msg string, opts ...Option) {
	l.log(ctx, zerolog.DebugLevel, msg, opts...)
}

// Info logs a message at INFO level with the ambient context attached.
func (l *Logger) Info(ctx context.Context, msg string, opts ...Option) {
	l.log(ctx, zerolog.InfoLevel, msg, opts...)
}

// Error logs a message at ERROR level with the ambient context attached.
func (l *Logger) Error(ctx context.Context, msg string, opts ...Option) {
	l.log(ctx, zerolog.ErrorLevel, msg, opts...)
}

// Debugf logs a formatted message at DEBUG level.
func (l *Logger) Debugf(ctx context.Context, format string, args ...interface{}) {
	l.log(ctx, zerolog.DebugLevel, fmt.Sprintf(format, args...))
}

// Infof logs a formatted message at INFO level.
func (l *Logger) Infof(ctx context.Context, format string, args ...interface{}) {
	l.log(ctx, zerolog.InfoLevel, fmt.Sprintf(format, args...))
}

// Errorf logs a formatted message at ERROR level.
func (l *Logger) Errorf(ctx context.Context, format string, args ...interface{}) {
	l.log(ctx, zerolog.ErrorLevel, fmt.Sprintf(format, args...))
}

// log builds one atomic record and hands it to the sink set. The record is fully
// formed (context merged, extras coerced, exception rendered) before any sink
// sees a byte of it.
func (l *Logger) log(ctx context.Context, level zerolog.Level, msg string, opts ...Option) {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}

	ev := l.zlog.WithLevel(level).
		Str(FieldLogger, l.name).
		Fields(l.mergedFields(ctx, o.extra))

	if o.err != nil {
		ev = ev.Str(FieldException, renderException(o.err))
	}

	ev.Msg(msg)
}

// mergedFields merges the ambient context with call-site extras at well-defined
// precedence: context fields < context extras < call-site extras. Keys reserved
// by the record itself are dropped from the merge; the record's own values win.
func (l *Logger) mergedFields(ctx context.Context, extra map[string]interface{}) map[string]interface{} {
	rc := l.Context(ctx)

	m := make(map[string]interface{}, 4+len(rc.Extra)+len(extra))
	m[FieldService] = rc.Service
	m[FieldEnvironment] = rc.Environment
	m[FieldRequestID] = rc.RequestID
	m[FieldUserID] = rc.UserID

	for k, v := range rc.Extra {
		m[k] = coerceValue(v)
	}
	for k, v := range extra {
		m[k] = coerceValue(v)
	}

	for k := range reservedFields {
		delete(m, k)
	}

	return m
}

// renderException renders a captured error with the stack active at the log call.
// Inside a recovering deferred function this still includes the panic frames.
func renderException(err error) string {
	return fmt.Sprintf("%v\n%s", err, debug.Stack())
}

// ConnectRemote establishes the remote store connection, retrying transient
// failures with exponential backoff until ctx is done or the attempts are
// exhausted. It is a no-op when no remote store is configured.
//
// Failure leaves the facility in degraded mode: local and console sinks keep
// working, remote records are dropped and counted.
func (l *Logger) ConnectRemote(ctx context.Context) error {
	if l.elastic == nil {
		return nil
	}

	return retry.Do(ctx, retry.Config{
		MaxAttempts:  5,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
	}, func() error {
		return l.elastic.Connect(ctx)
	})
}

// ConnectRemoteAsync launches ConnectRemote in the background so process startup
// is never blocked on the remote store. The outcome is logged.
func (l *Logger) ConnectRemoteAsync(ctx context.Context) {
	if l.elastic == nil {
		return
	}

	go func() {
		if err := l.ConnectRemote(ctx); err != nil {
			l.Error(ctx, "remote log store connection failed, running in degraded mode", Err(err))
			return
		}
		l.Info(ctx, "remote log store connected")
	}()
}

// RemoteEnabled reports whether a remote sink is installed.
func (l *Logger) RemoteEnabled() bool {
	return l.elastic != nil
}

// CheckRemote verifies the remote store is connected and reachable.
// Returns nil when no remote sink is configured.
func (l *Logger) CheckRemote(ctx context.Context) error {
	if l.elastic == nil {
		return nil
	}
	return l.elastic.Ping(ctx)
}

// Close flushes the remote queue (bounded by ctx) and closes the rotating file
// writers. The logger must not be used after Close.
func (l *Logger) Close(ctx context.Context) error {
	var first error
	if l.elastic != nil {
		if err := l.elastic.Close(ctx); err != nil {
			first = err
		}
	}
	if err := l.closeFns.closeAll(); err != nil && first == nil {
		first = err
	}
	return first
}
