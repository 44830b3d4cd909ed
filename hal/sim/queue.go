package sim

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/framekit/hal"
	"golang.org/x/exp/slog"
)

// Work is a CommandBuffer whose execution runs the function on the queue's goroutine.
// Any other CommandBuffer value completes immediately when it reaches the front of the queue.
type Work func()

// Executable is implemented by command buffers that do something when the simulated
// hardware executes them
type Executable interface {
	Execute()
}

func (w Work) Execute() { w() }

type opKind int

const (
	opSubmit opKind = iota
	opSignal
	opWait
)

type queueOp struct {
	kind    opKind
	cmd     hal.CommandBuffer
	counter hal.Counter
	value   uint64
}

// Queue is a simulated hardware queue. Commands execute in submission order on a dedicated
// goroutine.
type Queue struct {
	device    *Device
	queueType hal.QueueType

	mutex  sync.Mutex
	closed bool
	ops    chan queueOp

	submitted atomic.Uint64
	executed  atomic.Uint64
}

var _ hal.Queue = &Queue{}

func newQueue(device *Device, queueType hal.QueueType, depth int) *Queue {
	return &Queue{
		device:    device,
		queueType: queueType,
		ops:       make(chan queueOp, depth),
	}
}

func (q *Queue) Type() hal.QueueType { return q.queueType }

func (q *Queue) Submit(cmd hal.CommandBuffer) error {
	return q.push(queueOp{kind: opSubmit, cmd: cmd})
}

func (q *Queue) Signal(counter hal.Counter, value uint64) error {
	if counter == nil {
		return errors.New("signal requires a counter")
	}
	return q.push(queueOp{kind: opSignal, counter: counter, value: value})
}

func (q *Queue) Wait(counter hal.Counter, value uint64) error {
	if counter == nil {
		return errors.New("wait requires a counter")
	}
	return q.push(queueOp{kind: opWait, counter: counter, value: value})
}

// Executed returns the number of command buffers this queue has finished executing
func (q *Queue) Executed() uint64 {
	return q.executed.Load()
}

// Submitted returns the number of command buffers submitted to this queue
func (q *Queue) Submitted() uint64 {
	return q.submitted.Load()
}

func (q *Queue) push(op queueOp) error {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	if q.closed {
		return errors.Newf("%s queue is closed", q.queueType)
	}

	if op.kind == opSubmit {
		q.submitted.Add(1)
	}
	q.ops <- op
	return nil
}

func (q *Queue) close() {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	if !q.closed {
		q.closed = true
		close(q.ops)
	}
}

func (q *Queue) run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	for op := range q.ops {
		switch op.kind {
		case opSubmit:
			if executable, ok := op.cmd.(Executable); ok {
				executable.Execute()
			}
			q.executed.Add(1)
		case opSignal:
			if err := op.counter.Signal(op.value); err != nil {
				q.device.logger.Error("simulated queue failed to signal", slog.String("Queue", q.queueType.String()), slog.Any("error", err))
			}
		case opWait:
			if err := op.counter.WaitFor(ctx, op.value); err != nil {
				q.device.logger.Error("simulated queue failed to wait", slog.String("Queue", q.queueType.String()), slog.Any("error", err))
			}
		}
	}
}
