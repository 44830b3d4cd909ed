package sim

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/framekit/hal"
)

// Counter is a simulated completion counter
type Counter struct {
	device *Device
	id     uint64
	name   string

	mutex     sync.Mutex
	value     uint64
	changed   chan struct{}
	destroyed bool
}

var _ hal.Counter = &Counter{}

func newCounter(device *Device, id uint64, name string, initialValue uint64) *Counter {
	return &Counter{
		device:  device,
		id:      id,
		name:    name,
		value:   initialValue,
		changed: make(chan struct{}),
	}
}

func (c *Counter) Name() string { return c.name }

func (c *Counter) CompletedValue() uint64 {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.value
}

// Signal raises the counter to value. Lower values are ignored so the completed value never
// moves backwards.
func (c *Counter) Signal(value uint64) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.destroyed {
		return errors.Newf("counter %q signaled after it was destroyed", c.name)
	}

	if value > c.value {
		c.value = value
		close(c.changed)
		c.changed = make(chan struct{})
	}

	return nil
}

func (c *Counter) WaitFor(ctx context.Context, value uint64) error {
	for {
		c.mutex.Lock()
		if c.value >= value {
			c.mutex.Unlock()
			return nil
		}
		if c.destroyed {
			c.mutex.Unlock()
			return errors.Newf("counter %q destroyed while waiting for %d", c.name, value)
		}
		changed := c.changed
		c.mutex.Unlock()

		select {
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "waiting for counter %q to reach %d", c.name, value)
		case <-changed:
		}
	}
}

func (c *Counter) Destroy() error {
	c.mutex.Lock()
	if c.destroyed {
		c.mutex.Unlock()
		return errors.Newf("counter %q destroyed twice", c.name)
	}
	c.destroyed = true
	close(c.changed)
	c.changed = make(chan struct{})
	c.mutex.Unlock()

	c.device.removeCounter(c.id)
	return nil
}
