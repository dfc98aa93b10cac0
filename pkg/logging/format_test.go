package logging

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFormatLineFixedOrder(t *testing.T) {
	event := []byte(`{"timestamp":"2026-08-25T10:00:00Z","level":"info","service":"svc","environment":"prod","request_id":"ab12cd34","user_id":"u-1","logger":"app","message":"hello","path":"/ping"}`)

	got := string(formatLine(event))
	want := "2026-08-25T10:00:00Z - INFO - [SERVICE:svc][ENV:prod][REQ:ab12cd34][USER:u-1] - app - hello\n"

	if got != want {
		t.Errorf("formatLine() =\n%q\nwant\n%q", got, want)
	}
}

// Arbitrary extras never leak into the line format; it stays fixed and greppable.
func TestFormatLineExcludesExtras(t *testing.T) {
	event := []byte(`{"timestamp":"t","level":"debug","service":"s","environment":"e","request_id":"r","user_id":"u","logger":"l","message":"m","custom_key":"custom_value"}`)

	if got := string(formatLine(event)); strings.Contains(got, "custom_value") {
		t.Errorf("formatLine() leaked extras: %q", got)
	}
}

func TestFormatLineMissingFields(t *testing.T) {
	event := []byte(`{"level":"error","message":"boom"}`)

	got := string(formatLine(event))
	want := "- - ERROR - [SERVICE:-][ENV:-][REQ:-][USER:-] - - - boom\n"

	if got != want {
		t.Errorf("formatLine() = %q, want %q", got, want)
	}
}

func TestFormatLineException(t *testing.T) {
	event := []byte(`{"timestamp":"t","level":"error","message":"failed","exception":"boom\nstack frame"}`)

	got := string(formatLine(event))
	if !strings.Contains(got, "failed\nboom\nstack frame") {
		t.Errorf("formatLine() = %q, want exception on following lines", got)
	}
}

// Formatting never fails: an unparseable event passes through verbatim.
func TestFormatLineUnparseable(t *testing.T) {
	got := string(formatLine([]byte("not json")))
	if got != "not json\n" {
		t.Errorf("formatLine() = %q, want passthrough", got)
	}
}

func TestCoerceValue(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want interface{}
	}{
		{name: "string passes", in: "hello", want: "hello"},
		{name: "number passes", in: 42, want: 42},
		{name: "nil passes", in: nil, want: nil},
		{name: "map passes", in: map[string]string{"k": "v"}, want: map[string]string{"k": "v"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := coerceValue(tt.in)
			gotJSON, _ := json.Marshal(got)
			wantJSON, _ := json.Marshal(tt.want)
			if string(gotJSON) != string(wantJSON) {
				t.Errorf("coerceValue(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// Unserializable values are coerced to their string representation rather than
// failing at the serialization boundary.
func TestCoerceValueUnserializable(t *testing.T) {
	ch := make(chan int)
	got := coerceValue(ch)

	s, ok := got.(string)
	if !ok {
		t.Fatalf("coerceValue(chan) = %T, want string", got)
	}
	if s == "" {
		t.Error("coerced representation is empty")
	}
}
