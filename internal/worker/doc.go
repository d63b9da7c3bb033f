// Package worker implements the formatter worker lifecycle and Redis Streams integration.
//
// The worker consumes format requests from a Redis Stream through a consumer
// group, renders them, and publishes results for downstream nodes.
//
// Example usage:
//
//	cfg, _ := config.Load()
//	redisClient := redis.NewClient(cfg.RedisOptions())
//	processor := worker.NewProcessor(worker.ProcessorOptions{
//	    CELEnabled:        cfg.CELEnabled,
//	    HandlebarsEnabled: cfg.HandlebarsEnabled,
//	    MaxTemplateLength: cfg.MaxTemplateLength,
//	}, logger)
//
//	w := worker.NewWorker(cfg, redisClient, processor, logger)
//	if err := w.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Stop()
//
// A request is a JSON document in the message's "data" field:
//
//	{"request_id": "r-1", "template": "Hello {Name}", "values": ["World"]}
//
// Results go to RESULT_STREAM; failures go to RESULT_STREAM.errors. Every
// message is acknowledged whether or not it rendered.
//
// Health checks are provided via a separate HTTP server:
//
//	healthServer := worker.NewHealthServer(cfg, redisClient, processor, logger)
//	healthServer.Start()
//	defer healthServer.Stop()
package worker
