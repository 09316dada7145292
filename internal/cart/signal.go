package cart

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/divya8341883853/clothstore-backend/pkg/enums"
	"github.com/divya8341883853/clothstore-backend/pkg/redis"
	"github.com/divya8341883853/clothstore-backend/pkg/types"
)

// ChannelCartChanged is the pub/sub channel carrying cart change signals.
const ChannelCartChanged = "cart:changed"

// ChangeSignal announces that an owner's cart contents changed. Consumers
// recount; the signal intentionally carries no line data.
type ChangeSignal struct {
	OwnerKind enums.OwnerKind `json:"owner_kind"`
	OwnerRef  string          `json:"owner_ref"`
}

// Identity rebuilds the owner key from a decoded signal.
func (s ChangeSignal) Identity() types.Identity {
	return types.Identity{Kind: s.OwnerKind, Ref: s.OwnerRef}
}

// Publisher pushes change signals out to interested listeners.
type Publisher interface {
	PublishCartChanged(ctx context.Context, owner types.Identity) error
}

type redisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher wires change signals onto Redis pub/sub.
func NewRedisPublisher(client *redis.Client) Publisher {
	return &redisPublisher{client: client}
}

func (p *redisPublisher) PublishCartChanged(ctx context.Context, owner types.Identity) error {
	payload, err := json.Marshal(ChangeSignal{OwnerKind: owner.Kind, OwnerRef: owner.Ref})
	if err != nil {
		return fmt.Errorf("marshal change signal: %w", err)
	}
	return p.client.Publish(ctx, redis.Channel(ChannelCartChanged), payload)
}

// SignalSource yields decoded change signals until the context ends.
type SignalSource interface {
	Signals(ctx context.Context) (<-chan ChangeSignal, error)
}

type redisSource struct {
	client *redis.Client
}

// NewRedisSource subscribes to the cart change channel.
func NewRedisSource(client *redis.Client) SignalSource {
	return &redisSource{client: client}
}

func (s *redisSource) Signals(ctx context.Context) (<-chan ChangeSignal, error) {
	sub := s.client.Subscribe(ctx, redis.Channel(ChannelCartChanged))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe cart channel: %w", err)
	}

	out := make(chan ChangeSignal)
	go func() {
		defer close(out)
		defer sub.Close()
		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				signal, err := decodeSignal(msg)
				if err != nil {
					continue
				}
				select {
				case out <- signal:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func decodeSignal(msg *goredis.Message) (ChangeSignal, error) {
	var signal ChangeSignal
	if err := json.Unmarshal([]byte(msg.Payload), &signal); err != nil {
		return ChangeSignal{}, err
	}
	return signal, nil
}
