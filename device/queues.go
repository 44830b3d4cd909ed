package device

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/framekit/hal"
	"github.com/vkngwrapper/framekit/release"
	"golang.org/x/exp/slog"
)

// Submit submits cmd to queueType and signals the queue's fence after it. It returns the fence
// value that completes once cmd has executed.
func (d *Device) Submit(queueType hal.QueueType, cmd hal.CommandBuffer) (uint64, error) {
	if queueType < 0 || queueType >= hal.QueueTypeCount {
		return 0, errors.Newf("invalid queue type %d", queueType)
	}

	d.submitMutex[queueType].Lock()
	defer d.submitMutex[queueType].Unlock()

	queue := d.hw.Queue(queueType)
	err := queue.Submit(cmd)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to submit to the %s queue", queueType)
	}

	return d.queueFences[queueType].SignalNext(queue)
}

// WaitForGPUIdle signals every queue's fence and waits for all of them, waits for the last
// frame, then destroys everything in the release queue.
func (d *Device) WaitForGPUIdle(ctx context.Context) error {
	for _, queueType := range hal.QueueTypes() {
		d.submitMutex[queueType].Lock()
		value, err := d.queueFences[queueType].SignalNext(d.hw.Queue(queueType))
		d.submitMutex[queueType].Unlock()
		if err != nil {
			return errors.Wrap(err, "failed to drain GPU queues")
		}

		err = d.queueFences[queueType].Wait(ctx, value)
		if err != nil {
			return errors.Wrap(err, "failed to drain GPU queues")
		}
	}

	err := d.frameFence.WaitIdle(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to drain GPU queues")
	}

	d.retireFrames(d.frameFence.Completion())

	released, err := d.releaseQueue.Flush()
	d.logger.Debug("Device::WaitForGPUIdle", slog.Int("Released", released))
	if err != nil {
		return errors.Wrap(err, "failed to flush the release queue")
	}
	return nil
}

// AddToReleaseQueue destroys object once the graphics queue has finished every command
// submitted so far and the next submission after it
func (d *Device) AddToReleaseQueue(object release.Releasable) error {
	return d.AddToReleaseQueueOn(object, hal.QueueGraphics)
}

// AddToReleaseQueueOn destroys object once queueType has finished every command submitted so
// far and the next submission after it. Commands that reference object must be submitted no
// later than that next submission.
func (d *Device) AddToReleaseQueueOn(object release.Releasable, queueType hal.QueueType) error {
	if queueType < 0 || queueType >= hal.QueueTypeCount {
		return errors.Newf("invalid queue type %d", queueType)
	}

	d.submitMutex[queueType].Lock()
	target := d.queueFences[queueType].LastSignaledValue() + 1
	d.submitMutex[queueType].Unlock()

	return d.releaseQueue.Enqueue(object, queueType, target)
}
