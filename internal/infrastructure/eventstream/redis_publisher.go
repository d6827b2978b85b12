package eventstream

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/statlink/internal/platform/logging"
	"github.com/riskibarqy/statlink/internal/platform/resilience"
	"github.com/riskibarqy/statlink/internal/usecase"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const DefaultLinkStream = "statlink.players.linked"

type RedisPublisherConfig struct {
	URL            string
	Stream         string
	MaxLen         int64
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

type streamClient interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// RedisPublisher appends link events to a Redis stream.
type RedisPublisher struct {
	client  streamClient
	closer  func() error
	stream  string
	maxLen  int64
	timeout time.Duration
	breaker *resilience.CircuitBreaker
	logger  *logging.Logger
}

// NewRedisPublisher connects to cfg.URL and pings it before returning.
func NewRedisPublisher(ctx context.Context, cfg RedisPublisherConfig, logger *logging.Logger) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(strings.TrimSpace(cfg.URL))
	if err != nil {
		return nil, crerr.Wrap(err, "invalid REDIS_URL")
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, crerr.Wrap(err, "ping redis")
	}

	p := newRedisPublisher(client, cfg, logger)
	p.closer = client.Close
	return p, nil
}

func newRedisPublisher(client streamClient, cfg RedisPublisherConfig, logger *logging.Logger) *RedisPublisher {
	if logger == nil {
		logger = logging.Default()
	}
	stream := strings.TrimSpace(cfg.Stream)
	if stream == "" {
		stream = DefaultLinkStream
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	return &RedisPublisher{
		client:  client,
		stream:  stream,
		maxLen:  cfg.MaxLen,
		timeout: timeout,
		breaker: resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		logger:  logger,
	}
}

func (p *RedisPublisher) PublishPlayerLinked(ctx context.Context, event usecase.PlayerLinkedEvent) error {
	body, err := sonic.Marshal(event)
	if err != nil {
		return crerr.Wrap(err, "marshal player linked event")
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("redis.stream", p.stream),
			attribute.Int64("statlink.secondary_player_id", event.SecondaryPlayerID),
			attribute.Int64("statlink.player_id", event.PlayerID),
		)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"type":                "player.linked",
			"run_id":              event.RunID,
			"secondary_player_id": strconv.FormatInt(event.SecondaryPlayerID, 10),
			"player_id":           strconv.FormatInt(event.PlayerID, 10),
			"data":                string(body),
			"timestamp":           event.LinkedAt.Unix(),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	err = p.breaker.Execute(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		return p.client.XAdd(ctx, args).Err()
	})
	if crerr.Is(err, resilience.ErrCircuitOpen) {
		p.logger.WarnContext(ctx, "redis circuit breaker rejected event", "stream", p.stream, "state", p.breaker.State())
		return fmt.Errorf("redis stream is temporarily unavailable: %w", err)
	}
	if err != nil {
		return crerr.Wrapf(err, "xadd %s", p.stream)
	}
	return nil
}

func (p *RedisPublisher) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer()
}
