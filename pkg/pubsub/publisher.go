package pubsub

import "context"

// Pack is a single message routed to a topic. Key is used for partitioning,
// Msg carries an encoded payload.
type Pack struct {
	Key []byte
	Msg []byte
}

type Publisher interface {
	Publish(ctx context.Context, topic string, pack *Pack) error
	Stop(ctx context.Context) error
}
