package device

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/framekit/fence"
	"github.com/vkngwrapper/framekit/hal"
	"github.com/vkngwrapper/framekit/linear"
	"golang.org/x/exp/slog"
)

func (d *Device) frameSlot(frameIndex uint64) int {
	return int(frameIndex % uint64(d.options.FramesInFlight))
}

// BeginFrame blocks until the GPU has finished the frame that last used this frame's constant
// allocator, FramesInFlight frames ago. It then retires the ring descriptor tables of every
// completed frame, resets the constant allocator, and destroys released objects whose fences
// have completed.
func (d *Device) BeginFrame(ctx context.Context) error {
	if d.inFrame.Load() {
		return errors.New("BeginFrame called twice without EndFrame")
	}

	frameIndex := d.frameIndex.Load()
	inFlight := uint64(d.options.FramesInFlight)

	done := d.frameFence.Completion()
	if frameIndex > inFlight {
		var err error
		done, err = d.frameFence.WaitCompletion(ctx, frameIndex-inFlight)
		if err != nil {
			return errors.Wrapf(err, "failed to begin frame %d", frameIndex)
		}
	}

	d.retireFrames(done)

	d.constantsMutex.Lock()
	err := d.constants[d.frameSlot(frameIndex)].Clear(done)
	if err == nil {
		d.inFrame.Store(true)
	}
	d.constantsMutex.Unlock()
	if err != nil {
		return errors.Wrapf(err, "failed to begin frame %d", frameIndex)
	}

	d.processReleases()

	d.logger.Debug("Device::BeginFrame",
		slog.Uint64("Frame", frameIndex),
		slog.Uint64("Completed", done.Value()))
	return nil
}

// EndFrame closes the frame being recorded: the ring and constant allocators are told which
// frame their current contents belong to, and the frame fence is signaled with the frame index
// on the graphics queue after all of the frame's graphics work.
func (d *Device) EndFrame() error {
	if !d.inFrame.Load() {
		return errors.New("EndFrame called without BeginFrame")
	}

	frameIndex := d.frameIndex.Load()

	d.ringMutex.Lock()
	err := d.ring.FinishCurrentFrame(frameIndex)
	d.ringMutex.Unlock()
	if err != nil {
		return errors.Wrapf(err, "failed to end frame %d", frameIndex)
	}

	d.submitMutex[hal.QueueGraphics].Lock()
	err = d.frameFence.Signal(d.hw.Queue(hal.QueueGraphics), frameIndex)
	d.submitMutex[hal.QueueGraphics].Unlock()
	if err != nil {
		return errors.Wrapf(err, "failed to end frame %d", frameIndex)
	}

	d.constantsMutex.Lock()
	d.constants[d.frameSlot(frameIndex)].FinishFrame(frameIndex)
	d.inFrame.Store(false)
	d.frameIndex.Store(frameIndex + 1)
	d.constantsMutex.Unlock()

	// Opportunistic, non-blocking cleanup of whatever has already finished
	d.retireFrames(d.frameFence.Completion())
	d.processReleases()

	if d.options.Flags&DeviceCreateValidateEveryFrame != 0 {
		err = d.Validate()
		if err != nil {
			d.fatal("EndFrame", errors.Wrapf(err, "validation failed after frame %d", frameIndex))
		}
	}

	d.logger.Debug("Device::EndFrame", slog.Uint64("Frame", frameIndex))
	return nil
}

func (d *Device) retireFrames(done fence.Completion) {
	d.ringMutex.Lock()
	defer d.ringMutex.Unlock()

	d.ring.ReleaseCompletedFrames(done)
}

func (d *Device) processReleases() {
	// Failures have already been logged by the release queue and never stop the frame
	_, _ = d.releaseQueue.ProcessOnce()
}

// currentConstants returns the constant allocator of the frame being recorded. The caller must
// hold constantsMutex.
func (d *Device) currentConstants() *linear.Allocator {
	return d.constants[d.frameSlot(d.frameIndex.Load())]
}
