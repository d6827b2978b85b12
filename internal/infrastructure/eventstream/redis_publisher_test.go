package eventstream

import (
	"context"
	"errors"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/statlink/internal/platform/logging"
	"github.com/riskibarqy/statlink/internal/platform/resilience"
	"github.com/riskibarqy/statlink/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStream struct {
	calls []*redis.XAddArgs
	err   error
}

func (f *fakeStream) XAdd(_ context.Context, a *redis.XAddArgs) *redis.StringCmd {
	f.calls = append(f.calls, a)
	return redis.NewStringResult("1-0", f.err)
}

func sampleEvent() usecase.PlayerLinkedEvent {
	return usecase.PlayerLinkedEvent{
		RunID:             "link-20260101T000000-abcd",
		SecondaryPlayerID: 31,
		SecondaryName:     "Heung-Min Son",
		PlayerID:          7,
		PlayerName:        "Son Heung-Min",
		MatchType:         "fuzzy",
		Score:             0.91,
		LinkedAt:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRedisPublisher_PublishPlayerLinked(t *testing.T) {
	fake := &fakeStream{}
	p := newRedisPublisher(fake, RedisPublisherConfig{MaxLen: 1000}, logging.NewNop())

	require.NoError(t, p.PublishPlayerLinked(context.Background(), sampleEvent()))
	require.Len(t, fake.calls, 1)

	args := fake.calls[0]
	assert.Equal(t, DefaultLinkStream, args.Stream)
	assert.Equal(t, int64(1000), args.MaxLen)
	assert.True(t, args.Approx)

	values, ok := args.Values.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "player.linked", values["type"])
	assert.Equal(t, "7", values["player_id"])

	var decoded usecase.PlayerLinkedEvent
	require.NoError(t, sonic.UnmarshalString(values["data"].(string), &decoded))
	assert.Equal(t, sampleEvent(), decoded)
}

func TestRedisPublisher_BreakerOpensOnRepeatedFailures(t *testing.T) {
	fake := &fakeStream{err: errors.New("connection refused")}
	p := newRedisPublisher(fake, RedisPublisherConfig{
		Stream: "test.stream",
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:   true,
			TripAfter: 2,
			Cooldown:  time.Minute,
			Probes:    1,
		},
	}, logging.NewNop())

	for i := 0; i < 2; i++ {
		err := p.PublishPlayerLinked(context.Background(), sampleEvent())
		require.Error(t, err)
		assert.NotErrorIs(t, err, resilience.ErrCircuitOpen)
	}

	err := p.PublishPlayerLinked(context.Background(), sampleEvent())
	require.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Len(t, fake.calls, 2)
}

func TestRedisPublisher_CloseWithoutClient(t *testing.T) {
	p := newRedisPublisher(&fakeStream{}, RedisPublisherConfig{}, nil)
	assert.NoError(t, p.Close())
}
