package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aescanero/dago-node-formatter/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// stopTimeout bounds how long Stop waits for the in-flight message
	stopTimeout = 5 * time.Second

	// messageTimeout bounds publishing and acknowledging one message. It
	// stays below stopTimeout so a message finishing during Stop completes.
	messageTimeout = 3 * time.Second
)

// Worker represents the formatter worker
type Worker struct {
	id            string
	config        *config.Config
	redisClient   *redis.Client
	processor     *Processor
	logger        *zap.Logger
	ctx           context.Context
	cancel        context.CancelFunc
	done          sync.WaitGroup
	streamKey     string
	consumerGroup string
	resultStream  string
	errorStream   string
}

// NewWorker creates a new worker
func NewWorker(
	cfg *config.Config,
	redisClient *redis.Client,
	processor *Processor,
	logger *zap.Logger,
) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	return &Worker{
		id:            cfg.WorkerID,
		config:        cfg,
		redisClient:   redisClient,
		processor:     processor,
		logger:        logger,
		ctx:           ctx,
		cancel:        cancel,
		streamKey:     cfg.StreamKey,
		consumerGroup: cfg.ConsumerGroup,
		resultStream:  cfg.ResultStream,
		errorStream:   cfg.ErrorStream(),
	}
}

// Start starts the worker
func (w *Worker) Start() error {
	w.logger.Info("starting formatter worker",
		zap.String("worker_id", w.id),
		zap.String("stream_key", w.streamKey),
		zap.String("consumer_group", w.consumerGroup),
	)

	// Create consumer group if it doesn't exist
	if err := w.ensureConsumerGroup(); err != nil {
		return fmt.Errorf("failed to ensure consumer group: %w", err)
	}

	w.done.Add(1)
	go w.processWork()

	w.logger.Info("formatter worker started", zap.String("worker_id", w.id))
	return nil
}

// Stop stops the worker gracefully
func (w *Worker) Stop() error {
	w.logger.Info("stopping formatter worker", zap.String("worker_id", w.id))

	w.cancel()

	stopped := make(chan struct{})
	go func() {
		w.done.Wait()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(stopTimeout):
		return fmt.Errorf("worker %s did not stop within %s", w.id, stopTimeout)
	}

	w.logger.Info("formatter worker stopped", zap.String("worker_id", w.id))
	return nil
}

// ensureConsumerGroup creates the consumer group if it doesn't exist
func (w *Worker) ensureConsumerGroup() error {
	err := w.redisClient.XGroupCreateMkStream(w.ctx, w.streamKey, w.consumerGroup, "0").Err()
	if err != nil {
		// BUSYGROUP error means the group already exists, which is fine
		if strings.HasPrefix(err.Error(), "BUSYGROUP") {
			w.logger.Debug("consumer group already exists",
				zap.String("group", w.consumerGroup),
			)
			return nil
		}
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	w.logger.Info("created consumer group",
		zap.String("group", w.consumerGroup),
		zap.String("stream", w.streamKey),
	)
	return nil
}

// processWork processes work from the Redis stream
func (w *Worker) processWork() {
	defer w.done.Done()
	w.logger.Info("starting work processing loop")

	for {
		select {
		case <-w.ctx.Done():
			w.logger.Info("work processing loop stopped")
			return
		default:
			streams, err := w.redisClient.XReadGroup(w.ctx, &redis.XReadGroupArgs{
				Group:    w.consumerGroup,
				Consumer: w.id,
				Streams:  []string{w.streamKey, ">"},
				Count:    1,
				Block:    w.config.BlockTime,
			}).Result()

			if err != nil {
				if errors.Is(err, redis.Nil) || w.ctx.Err() != nil {
					continue
				}
				w.logger.Error("failed to read from stream",
					zap.Error(err),
				)
				w.sleep(w.ctx, time.Second)
				continue
			}

			for _, stream := range streams {
				for _, message := range stream.Messages {
					w.handleMessage(message)
				}
			}
		}
	}
}

// handleMessage handles a single format request message
func (w *Worker) handleMessage(message redis.XMessage) {
	messageID := message.ID
	w.logger.Debug("processing format request",
		zap.String("message_id", messageID),
	)

	// A message read before Stop is still published and acknowledged, so it
	// runs on a context that Stop does not cancel.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(w.ctx), messageTimeout)
	defer cancel()

	out := w.resolve(ctx, message)
	if err := w.publish(ctx, out.stream, out.payload); err != nil {
		w.logger.Error("failed to publish outcome",
			zap.String("message_id", messageID),
			zap.String("stream", out.stream),
			zap.Error(err),
		)
	}

	w.acknowledgeMessage(ctx, messageID)
}

// outcome is what a message produces: the stream to publish to and the
// payload to publish there
type outcome struct {
	stream  string
	payload []byte
}

// resolve turns a stream message into either a result or an error event
func (w *Worker) resolve(ctx context.Context, message redis.XMessage) outcome {
	request, err := parseFormatRequest(message.Values)
	if err != nil {
		w.logger.Error("failed to parse format request",
			zap.String("message_id", message.ID),
			zap.Error(err),
		)
		return w.errorOutcome(message.ID, "", err)
	}

	result, err := w.processor.Process(ctx, request)
	if err != nil {
		w.logger.Error("failed to process format request",
			zap.String("message_id", message.ID),
			zap.String("request_id", request.RequestID),
			zap.Error(err),
		)
		return w.errorOutcome(message.ID, request.RequestID, err)
	}

	data, err := json.Marshal(result)
	if err != nil {
		return w.errorOutcome(message.ID, request.RequestID, fmt.Errorf("failed to marshal result: %w", err))
	}

	w.logger.Info("rendered format request",
		zap.String("request_id", result.RequestID),
		zap.String("syntax", string(result.Syntax)),
		zap.String("path", string(result.PathTaken)),
		zap.String("reasoning", result.Reasoning),
	)

	return outcome{stream: w.resultStream, payload: data}
}

// ErrorEvent is published when a request cannot be rendered
type ErrorEvent struct {
	MessageID string    `json:"message_id"`
	RequestID string    `json:"request_id,omitempty"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// errorOutcome builds the error event for a failed message
func (w *Worker) errorOutcome(messageID, requestID string, err error) outcome {
	data, marshalErr := json.Marshal(ErrorEvent{
		MessageID: messageID,
		RequestID: requestID,
		Error:     err.Error(),
		Timestamp: time.Now().UTC(),
	})
	if marshalErr != nil {
		data = []byte(fmt.Sprintf(`{"message_id":%q,"error":%q}`, messageID, err.Error()))
	}
	return outcome{stream: w.errorStream, payload: data}
}

// parseFormatRequest parses a format request from a Redis message
func parseFormatRequest(values map[string]interface{}) (*FormatRequest, error) {
	dataStr, ok := values["data"].(string)
	if !ok {
		return nil, fmt.Errorf("missing or invalid 'data' field")
	}

	// UseNumber keeps integers exact and lets format specifiers see them
	decoder := json.NewDecoder(strings.NewReader(dataStr))
	decoder.UseNumber()

	var request FormatRequest
	if err := decoder.Decode(&request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal format request: %w", err)
	}

	return &request, nil
}

// publish adds payload to stream, retrying up to MaxRetries times
func (w *Worker) publish(ctx context.Context, stream string, payload []byte) error {
	var err error
	for attempt := 0; attempt <= w.config.MaxRetries; attempt++ {
		if attempt > 0 {
			w.sleep(ctx, time.Duration(attempt)*100*time.Millisecond)
		}

		_, err = w.redisClient.XAdd(ctx, &redis.XAddArgs{
			Stream: stream,
			Values: map[string]interface{}{
				"data": string(payload),
			},
		}).Result()
		if err == nil {
			return nil
		}

		w.logger.Warn("publish attempt failed",
			zap.String("stream", stream),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}
	return fmt.Errorf("failed to publish to stream: %w", err)
}

// acknowledgeMessage acknowledges a message from the stream
func (w *Worker) acknowledgeMessage(ctx context.Context, messageID string) {
	err := w.redisClient.XAck(ctx, w.streamKey, w.consumerGroup, messageID).Err()
	if err != nil {
		w.logger.Error("failed to acknowledge message",
			zap.String("message_id", messageID),
			zap.Error(err),
		)
	}
}

// sleep waits for d or until ctx is done
func (w *Worker) sleep(ctx context.Context, d time.Duration) {
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
