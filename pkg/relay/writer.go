package relay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Sink receives relay frames in order.
type Sink interface {
	Send(event string, data any) error
}

type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

var _ Sink = (*Writer)(nil)

// Writer encodes frames as server-sent events and flushes each one.
type Writer struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

func NewWriter(w http.ResponseWriter) *Writer {
	return &Writer{
		w:  w,
		rc: http.NewResponseController(w),
	}
}

// Start writes the event stream headers.
func (w *Writer) Start(status int) {
	w.w.Header().Set("Content-Type", "text/event-stream")
	w.w.Header().Set("Cache-Control", "no-cache")
	w.w.Header().Set("Connection", "keep-alive")

	w.w.WriteHeader(status)
}

func (w *Writer) Send(event string, data any) error {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(Frame{Event: event, Data: data}); err != nil {
		return err
	}

	frame := strings.TrimSpace(buf.String())

	if _, err := fmt.Fprintf(w.w, "data: %s\n\n", frame); err != nil {
		return err
	}

	if err := w.rc.Flush(); err != nil {
		return err
	}

	return nil
}
