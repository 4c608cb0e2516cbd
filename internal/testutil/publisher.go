package testutil

import (
	"context"
	"sync"

	"github.com/questboard/backend/pkg/pubsub"
)

// MockPublisher records published packs per topic instead of reaching kafka.
type MockPublisher struct {
	mutex  sync.Mutex
	Packs  map[string][]*pubsub.Pack
	closed bool
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{Packs: map[string][]*pubsub.Pack{}}
}

func (p *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.Packs[topic] = append(p.Packs[topic], pack)
	return nil
}

func (p *MockPublisher) Stop(ctx context.Context) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.closed = true
	return nil
}

func (p *MockPublisher) Published(topic string) []*pubsub.Pack {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.Packs[topic]
}
