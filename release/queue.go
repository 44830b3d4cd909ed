// Package release defers the destruction of objects the GPU may still be reading until the
// queue that used them reports completion on its fence.
package release

import (
	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/framekit/fence"
	"github.com/vkngwrapper/framekit/hal"
	"github.com/vkngwrapper/framekit/internal/utils"
	"github.com/vkngwrapper/framekit/memutils"
	"golang.org/x/exp/slog"
)

// Releasable is an object whose destruction must wait for the GPU
type Releasable interface {
	Destroy() error
}

// ReleaseFunc adapts a function to Releasable
type ReleaseFunc func() error

func (f ReleaseFunc) Destroy() error { return f() }

// Entry is an object waiting for Queue's fence to reach Target
type Entry struct {
	Object Releasable
	Queue  hal.QueueType
	Target uint64
}

// Queue holds one FIFO of entries per hardware queue. Targets enqueued on one hardware queue
// are expected to be non-decreasing, so each FIFO drains from the front and stops at the first
// entry whose target has not completed. Builds with the debug_framekit tag assert on targets
// that go backwards.
type Queue struct {
	logger *slog.Logger
	fences [hal.QueueTypeCount]*fence.Fence

	mutex   utils.OptionalMutex
	pending [hal.QueueTypeCount][]Entry
}

// New creates a release queue that checks entries for each hardware queue against that
// queue's fence. When useMutex is false the caller must serialize every method.
func New(logger *slog.Logger, fences [hal.QueueTypeCount]*fence.Fence, useMutex bool) (*Queue, error) {
	for queueType, f := range fences {
		if f == nil {
			return nil, errors.Newf("release queue requires a fence for the %s queue", hal.QueueType(queueType))
		}
	}

	return &Queue{
		logger: utils.LoggerOrDiscard(logger),
		fences: fences,
		mutex:  utils.OptionalMutex{UseMutex: useMutex},
	}, nil
}

// Enqueue schedules object for destruction once the fence of queueType reaches target
func (q *Queue) Enqueue(object Releasable, queueType hal.QueueType, target uint64) error {
	if object == nil {
		return errors.New("cannot enqueue a nil object for release")
	}
	if queueType < 0 || queueType >= hal.QueueTypeCount {
		return errors.Newf("invalid queue type %d", queueType)
	}

	q.mutex.Lock()
	defer q.mutex.Unlock()

	fifo := q.pending[queueType]
	memutils.DebugAssert(len(fifo) == 0 || fifo[len(fifo)-1].Target <= target,
		"release target %d on the %s queue is behind the previous target %d", target, queueType, lastTarget(fifo))

	q.pending[queueType] = append(fifo, Entry{Object: object, Queue: queueType, Target: target})
	return nil
}

func lastTarget(fifo []Entry) uint64 {
	if len(fifo) == 0 {
		return 0
	}
	return fifo[len(fifo)-1].Target
}

// ProcessOnce destroys every entry at the front of each FIFO whose target has completed. Objects
// are destroyed outside the lock. A failed Destroy does not stop the drain: the failures are
// logged and returned combined. It returns the number of entries removed.
func (q *Queue) ProcessOnce() (int, error) {
	var ready []Entry

	q.mutex.Lock()
	for queueType := range q.pending {
		fifo := q.pending[queueType]
		if len(fifo) == 0 {
			continue
		}

		completed := q.fences[queueType].CompletedValue()
		count := 0
		for count < len(fifo) && fifo[count].Target <= completed {
			count++
		}
		if count == 0 {
			continue
		}

		ready = append(ready, fifo[:count]...)
		q.pending[queueType] = popFront(fifo, count)
	}
	q.mutex.Unlock()

	return len(ready), q.destroy("ProcessOnce", ready)
}

// Flush destroys every entry regardless of fence values. It must only be called once the GPU
// is idle.
func (q *Queue) Flush() (int, error) {
	var ready []Entry

	q.mutex.Lock()
	for queueType := range q.pending {
		ready = append(ready, q.pending[queueType]...)
		q.pending[queueType] = nil
	}
	q.mutex.Unlock()

	return len(ready), q.destroy("Flush", ready)
}

func popFront(fifo []Entry, count int) []Entry {
	remaining := copy(fifo, fifo[count:])
	for i := remaining; i < len(fifo); i++ {
		fifo[i] = Entry{}
	}
	return fifo[:remaining]
}

func (q *Queue) destroy(operation string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	var err error
	for _, entry := range entries {
		destroyErr := entry.Object.Destroy()
		if destroyErr != nil {
			err = errors.CombineErrors(err, errors.Wrapf(destroyErr, "failed to release object waiting on %s fence value %d",
				entry.Queue, entry.Target))
		}
	}

	q.logger.Debug("Queue::"+operation, slog.Int("Released", len(entries)))
	if err != nil {
		q.logger.Error("Queue::"+operation+" failed to destroy objects", slog.Any("error", err))
	}
	return err
}

// Len returns the number of entries waiting on every queue
func (q *Queue) Len() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	total := 0
	for _, fifo := range q.pending {
		total += len(fifo)
	}
	return total
}

// Pending returns the number of entries waiting on queueType's fence
func (q *Queue) Pending(queueType hal.QueueType) int {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	return len(q.pending[queueType])
}

// WriteJSON writes the number of entries and the target range of each FIFO as fields of an
// open json object
func (q *Queue) WriteJSON(json *jwriter.ObjectState) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	for _, queueType := range hal.QueueTypes() {
		fifo := q.pending[queueType]

		obj := json.Name(queueType.String()).Object()
		obj.Name("Pending").Int(len(fifo))
		obj.Name("Completed").Int(int(q.fences[queueType].CompletedValue()))
		if len(fifo) > 0 {
			obj.Name("OldestTarget").Int(int(fifo[0].Target))
			obj.Name("NewestTarget").Int(int(fifo[len(fifo)-1].Target))
		}
		obj.End()
	}
}
