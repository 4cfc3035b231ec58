package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func TestProcessorCommitsMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msg := kafka.Message{
		Topic:     "exercise_catalog",
		Partition: 0,
		Offset:    12,
		Value:     json.RawMessage(`{"exercise_name":"Pull-Ups"}`),
		Time:      time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("exercise.upserted")},
		},
	}

	before := testutil.ToFloat64(processedCounter.WithLabelValues("exercise_catalog", "exercise.upserted"))
	reader := &stubReader{msgs: []kafka.Message{msg}, errAfter: context.Canceled}
	handler := &RecordingHandler{}
	logger, _ := logtest.NewNullLogger()
	proc := NewProcessor(reader, handler, WithLogger(logger))

	err := proc.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, handler.count)
	require.Equal(t, 1, reader.commitCount)
	require.Equal(t, "exercise.upserted", handler.last.Headers["event_type"])
	require.JSONEq(t, `{"exercise_name":"Pull-Ups"}`, string(handler.last.Payload))
	require.Equal(t, before+1, testutil.ToFloat64(processedCounter.WithLabelValues("exercise_catalog", "exercise.upserted")))
}

func TestProcessorCommitsFailedMessages(t *testing.T) {
	msg := kafka.Message{Topic: "exercise_catalog", Offset: 3, Headers: []kafka.Header{{Key: "event_type", Value: []byte("exercise.deleted")}}}
	reader := &stubReader{msgs: []kafka.Message{msg}, errAfter: context.Canceled}
	handler := &RecordingHandler{err: errors.New("store offline")}
	logger, hook := logtest.NewNullLogger()

	before := testutil.ToFloat64(failedCounter.WithLabelValues("exercise_catalog", "exercise.deleted"))
	err := NewProcessor(reader, handler, WithLogger(logger)).Run(context.Background())
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, reader.commitCount)
	require.Equal(t, before+1, testutil.ToFloat64(failedCounter.WithLabelValues("exercise_catalog", "exercise.deleted")))
	require.Equal(t, "handler error", hook.LastEntry().Message)
}

func TestProcessorRetriesFetchErrors(t *testing.T) {
	reader := &stubReader{fetchErrs: []error{errors.New("broker unavailable")}, errAfter: context.Canceled}
	handler := &RecordingHandler{}
	logger, hook := logtest.NewNullLogger()

	err := NewProcessor(reader, handler, WithLogger(logger), WithFetchBackoff(0)).Run(context.Background())
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, handler.count)
	require.Equal(t, "fetch error", hook.Entries[0].Message)
}

func TestProcessorStopsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewProcessor(&stubReader{}, &RecordingHandler{}).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

type stubReader struct {
	msgs        []kafka.Message
	idx         int
	fetchErrs   []error
	commitCount int
	errAfter    error
}

func (r *stubReader) FetchMessage(context.Context) (kafka.Message, error) {
	if len(r.fetchErrs) > 0 {
		err := r.fetchErrs[0]
		r.fetchErrs = r.fetchErrs[1:]
		return kafka.Message{}, err
	}
	if r.idx >= len(r.msgs) {
		return kafka.Message{}, r.errAfter
	}
	msg := r.msgs[r.idx]
	r.idx++
	return msg, nil
}

func (r *stubReader) CommitMessages(_ context.Context, _ ...kafka.Message) error {
	r.commitCount++
	return nil
}

func (r *stubReader) Close() error { return nil }

type RecordingHandler struct {
	count int
	last  Message
	err   error
}

var _ Handler = (*RecordingHandler)(nil)

func (h *RecordingHandler) Handle(_ context.Context, msg Message) error {
	h.count++
	h.last = msg
	return h.err
}
