package worker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	requestStream = "format.requests"
	resultStream  = "format.rendered"
	errorStream   = "format.rendered.errors"
	group         = "formatter-workers"
)

func newStreamWorker(t *testing.T, logger *zap.Logger) (*Worker, *redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr:       mr.Addr(),
		MaxRetries: -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	cfg := testConfig()
	cfg.RedisAddr = mr.Addr()
	cfg.BlockTime = 50 * time.Millisecond
	cfg.MaxRetries = 2

	return NewWorker(cfg, client, newTestProcessor(t), logger), client, mr
}

func addRequest(t *testing.T, client *redis.Client, data string) {
	t.Helper()
	err := client.XAdd(context.Background(), &redis.XAddArgs{
		Stream: requestStream,
		Values: map[string]interface{}{"data": data},
	}).Err()
	require.NoError(t, err)
}

func pendingCount(t *testing.T, client *redis.Client) int64 {
	t.Helper()
	pending, err := client.XPending(context.Background(), requestStream, group).Result()
	require.NoError(t, err)
	return pending.Count
}

func readData(t *testing.T, client *redis.Client, stream string, v interface{}) {
	t.Helper()
	messages, err := client.XRange(context.Background(), stream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, messages, 1)

	data, ok := messages[0].Values["data"].(string)
	require.True(t, ok)
	require.NoError(t, json.Unmarshal([]byte(data), v))
}

func TestWorker_ProcessesStream(t *testing.T) {
	w, client, _ := newStreamWorker(t, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, w.Start())

	addRequest(t, client, `{"request_id":"ok","template":"Hello {Name}","values":["World"]}`)
	addRequest(t, client, `{"request_id":"bad","template":"Hello {Name","values":["World"]}`)

	require.Eventually(t, func() bool {
		return client.XLen(ctx, resultStream).Val() == 1 && client.XLen(ctx, errorStream).Val() == 1
	}, 3*time.Second, 20*time.Millisecond)

	require.NoError(t, w.Stop())

	var result FormatResult
	readData(t, client, resultStream, &result)
	assert.Equal(t, "ok", result.RequestID)
	assert.Equal(t, "Hello World", result.Output)

	var event ErrorEvent
	readData(t, client, errorStream, &event)
	assert.Equal(t, "bad", event.RequestID)
	assert.Contains(t, event.Error, "render failed")

	assert.Equal(t, int64(0), pendingCount(t, client))
}

func TestWorker_StartWithExistingGroup(t *testing.T) {
	w, client, _ := newStreamWorker(t, zap.NewNop())

	err := client.XGroupCreateMkStream(context.Background(), requestStream, group, "0").Err()
	require.NoError(t, err)

	require.NoError(t, w.Start())
	require.NoError(t, w.Stop())
}

func TestWorker_FinishesMessageReadBeforeStop(t *testing.T) {
	w, client, _ := newStreamWorker(t, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, client.XGroupCreateMkStream(ctx, requestStream, group, "0").Err())
	addRequest(t, client, `{"request_id":"late","template":"{A}","values":[1]}`)

	streams, err := client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: w.id,
		Streams:  []string{requestStream, ">"},
		Count:    1,
		Block:    -1,
	}).Result()
	require.NoError(t, err)
	require.Len(t, streams, 1)
	require.Len(t, streams[0].Messages, 1)
	require.Equal(t, int64(1), pendingCount(t, client))

	// the worker is stopping while the message is in flight
	w.cancel()
	w.handleMessage(streams[0].Messages[0])

	assert.Equal(t, int64(1), client.XLen(ctx, resultStream).Val())
	assert.Equal(t, int64(0), pendingCount(t, client))
}

func TestWorker_PublishRetries(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	w, _, mr := newStreamWorker(t, zap.New(core))

	mr.Close()

	err := w.publish(context.Background(), resultStream, []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish to stream")
	assert.Equal(t, 3, logs.FilterMessage("publish attempt failed").Len())
}

func TestHealthServer_Ready(t *testing.T) {
	w, client, _ := newStreamWorker(t, zap.NewNop())
	hs := NewHealthServer(w.config, client, w.processor, zap.NewNop())
	handler := hs.Handler()

	get := func(path string) (int, HealthResponse) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return rec.Code, resp
	}

	code, resp := get("/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, resp.Checks["consumer_group"], "missing")

	code, resp = get("/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", resp.Checks["redis"])

	require.NoError(t, w.Start())
	defer func() { _ = w.Stop() }()

	code, resp = get("/ready")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", resp.Status)
	assert.Equal(t, group, resp.Checks["consumer_group"])
	assert.Equal(t, "0", resp.Checks["pending"])
}
