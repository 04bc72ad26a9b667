package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adrianliechti/lahde/pkg/provider"
	"github.com/adrianliechti/lahde/pkg/validator"

	"github.com/stretchr/testify/require"
)

type testStream struct {
	events []provider.Event
	err    error

	index  int
	closed bool
}

func newTestStream(t *testing.T, err error, data ...string) *testStream {
	s := &testStream{err: err, index: -1}

	for _, d := range data {
		event, perr := provider.ParseEvent([]byte(d))
		require.NoError(t, perr)

		s.events = append(s.events, event)
	}

	return s
}

func (s *testStream) Next() bool {
	if s.index+1 >= len(s.events) {
		return false
	}

	s.index++
	return true
}

func (s *testStream) Event() provider.Event {
	return s.events[s.index]
}

func (s *testStream) Err() error {
	if s.index+1 >= len(s.events) {
		return s.err
	}

	return nil
}

func (s *testStream) Close() error {
	s.closed = true
	return nil
}

type testSink struct {
	frames []Frame
	fail   int
}

func (s *testSink) Send(event string, data any) error {
	if s.fail > 0 && len(s.frames)+1 >= s.fail {
		return errors.New("broken pipe")
	}

	s.frames = append(s.frames, Frame{Event: event, Data: data})
	return nil
}

func (s *testSink) events() []string {
	var result []string

	for _, f := range s.frames {
		result = append(result, f.Event)
	}

	return result
}

func textDelta(text string) string {
	data, _ := json.Marshal(map[string]any{
		"type":  "response.output_text.delta",
		"delta": text,
	})

	return string(data)
}

const groundedAnswer = "Vuosilomaa kertyy kaksi ja puoli päivää jokaiselta täydeltä lomanmääräytymiskuukaudelta, kun työsuhde on jatkunut yli vuoden.\n\nLähteet:\n- henkilostoopas.pdf\n"

func TestForwardGrounded(t *testing.T) {
	half := len(groundedAnswer) / 2

	for !strings.HasPrefix(groundedAnswer[half:], " ") {
		half++
	}

	stream := newTestStream(t, nil,
		`{"type":"response.created","response":{"id":"resp_1"}}`,
		`{"type":"response.file_search_call.completed","item_id":"fs_1"}`,
		textDelta(groundedAnswer[:half]),
		textDelta(groundedAnswer[half:]),
		`{"type":"response.completed","response":{"id":"resp_1"}}`,
	)

	sink := &testSink{}

	turn, err := New().Forward(context.Background(), stream, sink)
	require.NoError(t, err)

	require.True(t, stream.closed)
	require.Equal(t, []string{
		"response.created",
		"response.file_search_call.completed",
		"response.output_text.delta",
		"response.output_text.delta",
		"response.completed",
	}, sink.events())

	require.Equal(t, groundedAnswer, turn.Text)
	require.Equal(t, []validator.ToolCall{{Type: "response.file_search_call.completed"}}, turn.ToolCalls)
	require.Equal(t, validator.ConfidenceHigh, turn.Result.Confidence)
	require.Empty(t, turn.Result.Warnings)
	require.Equal(t, []string{"henkilostoopas.pdf"}, turn.Citations)
}

func TestForwardUngrounded(t *testing.T) {
	answer := strings.Repeat("Vuosilomaa kertyy kaksi ja puoli päivää kuukaudessa kun työsuhde on jatkunut vuoden. ", 3)

	stream := newTestStream(t, nil, textDelta(answer))
	sink := &testSink{}

	turn, err := New().Forward(context.Background(), stream, sink)
	require.NoError(t, err)

	require.Equal(t, validator.ConfidenceLow, turn.Result.Confidence)
	require.Equal(t, []string{"response.output_text.delta", EventValidationWarning, EventResponseDisclaimer}, sink.events())

	warning := sink.frames[1].Data.(ValidationWarning)
	require.Equal(t, validator.ConfidenceLow, warning.Confidence)
	require.Equal(t, []string{validator.WarningUngrounded, validator.WarningMissingCitations}, warning.Warnings)
	require.Len(t, warning.Messages, 2)

	require.Equal(t, DisclaimerMessage, sink.frames[2].Data.(Disclaimer).Message)
}

func TestForwardMediumHasNoDisclaimer(t *testing.T) {
	answer := strings.Replace(groundedAnswer, "Lähteet:", "Tiedostot:", 1)

	stream := newTestStream(t, nil,
		`{"type":"response.output_item.done","item":{"type":"file_search_call","id":"fs_1"}}`,
		textDelta(answer),
	)

	sink := &testSink{}

	turn, err := New().Forward(context.Background(), stream, sink)
	require.NoError(t, err)

	require.Equal(t, validator.ConfidenceMedium, turn.Result.Confidence)
	require.Equal(t, []string{"response.output_item.done", "response.output_text.delta", EventValidationWarning}, sink.events())
}

func TestForwardStreamFailure(t *testing.T) {
	stream := newTestStream(t, errors.New("connection reset"), textDelta("Vuosilomaa kertyy"))
	sink := &testSink{}

	turn, err := New().Forward(context.Background(), stream, sink)

	require.ErrorIs(t, err, ErrStreamFailed)
	require.Nil(t, turn)
	require.True(t, stream.closed)

	require.Equal(t, []string{"response.output_text.delta", EventError}, sink.events())
	require.Equal(t, "stream_failed", sink.frames[1].Data.(StreamError).Error)
}

func TestForwardStreamFailureUndeliveredErrorFrame(t *testing.T) {
	stream := newTestStream(t, errors.New("connection reset"), textDelta("Vuosilomaa kertyy"))
	sink := &testSink{fail: 2}

	turn, err := New().Forward(context.Background(), stream, sink)

	require.ErrorIs(t, err, ErrStreamFailed)
	require.Nil(t, turn)
	require.True(t, stream.closed)
	require.Equal(t, []string{"response.output_text.delta"}, sink.events())
}

func TestForwardWriteFailureAborts(t *testing.T) {
	stream := newTestStream(t, nil, textDelta("a"), textDelta("b"), textDelta("c"))
	sink := &testSink{fail: 2}

	turn, err := New().Forward(context.Background(), stream, sink)

	require.ErrorIs(t, err, ErrAborted)
	require.Nil(t, turn)
	require.True(t, stream.closed)
	require.Equal(t, 1, stream.index)
	require.Len(t, sink.frames, 1)
}

func TestForwardCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stream := newTestStream(t, nil, textDelta("a"))
	sink := &testSink{}

	_, err := New().Forward(ctx, stream, sink)

	require.ErrorIs(t, err, ErrAborted)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, sink.frames)
	require.True(t, stream.closed)
}

func TestWriterFraming(t *testing.T) {
	rec := httptest.NewRecorder()

	w := NewWriter(rec)
	w.Start(http.StatusOK)

	stream := newTestStream(t, nil, `{"type":"response.output_text.delta","delta":"<b>Kyllä</b>"}`)

	_, err := New().Forward(context.Background(), stream, w)
	require.NoError(t, err)

	require.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	require.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	require.True(t, rec.Flushed)

	frames := strings.Split(strings.TrimSuffix(rec.Body.String(), "\n\n"), "\n\n")
	require.Len(t, frames, 3)

	require.Equal(t, `data: {"event":"response.output_text.delta","data":{"type":"response.output_text.delta","delta":"<b>Kyllä</b>"}}`, frames[0])
	require.True(t, strings.HasPrefix(frames[1], `data: {"event":"validation.warning","data":{"confidence":"low"`))
	require.True(t, strings.HasPrefix(frames[2], `data: {"event":"response.disclaimer"`))
}
