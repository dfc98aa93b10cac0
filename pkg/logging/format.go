package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// formatLine renders a structured event into the fixed line format used by the
// console and text file sinks:
//
//	<timestamp> - <LEVEL> - [SERVICE:s][ENV:e][REQ:r][USER:u] - <logger> - <message>
//
// The input is a JSON event document as produced by the structured pipeline.
// Fields absent from the event render as "-". The function is pure and never
// fails: an unparseable event is passed through verbatim so nothing is lost.
func formatLine(event []byte) []byte {
	var doc map[string]interface{}
	if err := json.Unmarshal(event, &doc); err != nil {
		return append(bytes.TrimRight(event, "\n"), '\n')
	}

	var b bytes.Buffer
	b.WriteString(stringField(doc, FieldTimestamp))
	b.WriteString(" - ")
	b.WriteString(strings.ToUpper(stringField(doc, FieldLevel)))
	b.WriteString(" - ")
	fmt.Fprintf(&b, "[SERVICE:%s][ENV:%s][REQ:%s][USER:%s]",
		stringField(doc, FieldService),
		stringField(doc, FieldEnvironment),
		stringField(doc, FieldRequestID),
		stringField(doc, FieldUserID),
	)
	b.WriteString(" - ")
	b.WriteString(stringField(doc, FieldLogger))
	b.WriteString(" - ")
	b.WriteString(stringField(doc, FieldMessage))
	if exc, ok := doc[FieldException].(string); ok && exc != "" {
		b.WriteByte('\n')
		b.WriteString(exc)
	}
	b.WriteByte('\n')
	return b.Bytes()
}

func stringField(doc map[string]interface{}, key string) string {
	v, ok := doc[key]
	if !ok {
		return sentinel
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// lineWriter adapts a byte stream destination to the line format. It receives
// structured events and writes one rendered line per event.
type lineWriter struct {
	out io.Writer
}

func (w lineWriter) Write(p []byte) (int, error) {
	if _, err := w.out.Write(formatLine(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// coerceValue makes a value safe for serialization. JSON-serializable values pass
// through unchanged; anything else is coerced to its string representation so the
// formatter can never fail on a caller-supplied extra.
func coerceValue(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	if _, err := json.Marshal(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return v
}
