package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/vkngwrapper/framekit/device"
	"github.com/vkngwrapper/framekit/hal"
	"github.com/vkngwrapper/framekit/hal/sim"
	"github.com/vkngwrapper/framekit/memutils"
	"github.com/vkngwrapper/framekit/release"
)

type runOptions struct {
	frames          int
	framesInFlight  int
	backbuffers     int
	resourceHeap    int
	ringCapacity    int
	pageSize        int
	tablesPerFrame  int
	tableSize       int
	constantsCount  int
	constantSize    int
	retiresPerFrame int
	spikeFrame      int
	spikeFactor     int
	gpuDelay        time.Duration
	detailed        bool
	externalSync    bool
	validate        bool
}

var runOpts runOptions

func init() {
	cmd := newRunCmd()
	flags := cmd.Flags()
	flags.IntVar(&runOpts.frames, "frames", 120, "Number of frames to simulate")
	flags.IntVar(&runOpts.framesInFlight, "frames-in-flight", 2, "Frames the CPU may record ahead of the GPU")
	flags.IntVar(&runOpts.backbuffers, "backbuffers", 3, "Swapchain image count")
	flags.IntVar(&runOpts.resourceHeap, "resource-heap", 4096, "Persistent resource descriptor capacity")
	flags.IntVar(&runOpts.ringCapacity, "ring-capacity", 1024, "Transient descriptor ring capacity")
	flags.IntVar(&runOpts.pageSize, "page-size", 64*1024, "Frame constant page size in bytes")
	flags.IntVar(&runOpts.tablesPerFrame, "tables", 16, "Transient descriptor tables per frame")
	flags.IntVar(&runOpts.tableSize, "table-size", 8, "Descriptors per transient table")
	flags.IntVar(&runOpts.constantsCount, "constants", 64, "Frame constant allocations per frame")
	flags.IntVar(&runOpts.constantSize, "constant-size", 256, "Size in bytes of each frame constant")
	flags.IntVar(&runOpts.retiresPerFrame, "retires", 4, "Persistent descriptors created and retired through the release queue per frame")
	flags.IntVar(&runOpts.spikeFrame, "spike-frame", 10, "Frame on which constant usage spikes, 0 to disable")
	flags.IntVar(&runOpts.spikeFactor, "spike-factor", 8, "Multiplier applied to constant allocations on the spike frame")
	flags.DurationVar(&runOpts.gpuDelay, "gpu-delay", 0, "Simulated GPU execution time per frame")
	flags.BoolVar(&runOpts.detailed, "detailed", false, "Include free ranges and pages in JSON output")
	flags.BoolVar(&runOpts.externalSync, "externally-synchronized", false, "Create the device without internal locks")
	flags.BoolVar(&runOpts.validate, "validate", false, "Validate every allocator at the end of each frame")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulated frame loop",
		Long: `The run command records the configured number of frames on a simulated
GPU, then waits for it to go idle and prints allocator statistics.

Example:
  framesim run --frames 600 --frames-in-flight 3
  framesim run --ring-capacity 64 --tables 32
  framesim run --json --detailed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runSimulation(ctx, cmd, runOpts)
		},
	}
	return cmd
}

// simulationResult is what the human-readable report prints
type simulationResult struct {
	frames            int
	peakConstantPages int
	peakRingSlots     int
	retired           int
	stats             device.Statistics
}

func runSimulation(ctx context.Context, cmd *cobra.Command, opts runOptions) error {
	if opts.frames <= 0 {
		return errors.Newf("--frames must be positive, got %d", opts.frames)
	}

	logger := newLogger(cmd.ErrOrStderr())

	hw := sim.New(logger, sim.Options{})
	defer hw.Close()

	var abortErr error
	createOptions := device.CreateOptions{
		RingCapacity:     opts.ringCapacity,
		ConstantPageSize: opts.pageSize,
		FramesInFlight:   opts.framesInFlight,
		BackbufferCount:  opts.backbuffers,
		Abort: func(err error) {
			if abortErr == nil {
				abortErr = err
			}
		},
	}
	createOptions.HeapCapacities[hal.DescriptorKindResource] = opts.resourceHeap
	if opts.externalSync {
		createOptions.Flags |= device.DeviceCreateExternallySynchronized
	}
	if opts.validate {
		createOptions.Flags |= device.DeviceCreateValidateEveryFrame
	}

	d, err := device.New(logger, hw, createOptions)
	if err != nil {
		return err
	}

	result, err := simulate(ctx, d, opts, &abortErr)
	if memutils.IsConfigurationExhausted(err) {
		err = errors.WithHint(err, "raise --ring-capacity or --resource-heap, or lower the per-frame workload")
	}
	if err != nil {
		// The GPU may never go idle after a failure
		destroyCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		destroyErr := d.Destroy(destroyCtx)
		return errors.CombineErrors(err, destroyErr)
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		fmt.Fprintln(out, d.BuildStatsString(opts.detailed))
	} else {
		printReport(cmd, result)
	}

	return d.Destroy(ctx)
}

func simulate(ctx context.Context, d *device.Device, opts runOptions, abortErr *error) (simulationResult, error) {
	result := simulationResult{frames: opts.frames}
	graphics := d.Queue(hal.QueueGraphics)

	for frame := 1; frame <= opts.frames; frame++ {
		err := d.BeginFrame(ctx)
		if err != nil {
			return result, err
		}

		for i := 0; i < opts.retiresPerFrame; i++ {
			handle := d.AllocatePersistentDescriptor(hal.DescriptorKindResource)
			if *abortErr != nil {
				return result, errors.Wrapf(*abortErr, "frame %d", frame)
			}
			err = d.AddToReleaseQueue(release.ReleaseFunc(func() error {
				result.retired++
				return d.FreeDescriptor(handle)
			}))
			if err != nil {
				return result, err
			}
		}

		for i := 0; i < opts.tablesPerFrame; i++ {
			d.AllocateTransientDescriptorTable(opts.tableSize)
			if *abortErr != nil {
				return result, errors.Wrapf(*abortErr, "frame %d", frame)
			}
		}

		constants := opts.constantsCount
		if frame == opts.spikeFrame {
			constants *= opts.spikeFactor
		}
		for i := 0; i < constants; i++ {
			alloc := d.AllocateFrameConstant(opts.constantSize)
			if *abortErr != nil {
				return result, errors.Wrapf(*abortErr, "frame %d", frame)
			}
			alloc.CPU[0] = byte(frame)
		}

		// Uploads go through the copy queue and graphics waits on them
		uploaded, err := d.Submit(hal.QueueCopy, nil)
		if err != nil {
			return result, err
		}
		err = d.QueueFence(hal.QueueCopy).QueueWait(graphics, uploaded)
		if err != nil {
			return result, err
		}

		delay := opts.gpuDelay
		_, err = d.Submit(hal.QueueGraphics, sim.Work(func() {
			if delay > 0 {
				time.Sleep(delay)
			}
		}))
		if err != nil {
			return result, err
		}

		stats := d.CalculateStatistics()
		if stats.Constants.BlockCount > result.peakConstantPages {
			result.peakConstantPages = stats.Constants.BlockCount
		}
		if stats.Transient.AllocationUnits > result.peakRingSlots {
			result.peakRingSlots = stats.Transient.AllocationUnits
		}

		err = d.EndFrame()
		if err != nil {
			return result, err
		}
	}

	err := d.WaitForGPUIdle(ctx)
	if err != nil {
		return result, err
	}
	result.stats = d.CalculateStatistics()
	return result, nil
}

func printReport(cmd *cobra.Command, result simulationResult) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Simulated %d frames\n", result.frames)
	fmt.Fprintf(out, "  retired descriptors: %d\n", result.retired)
	fmt.Fprintf(out, "  peak ring slots:     %d / %d\n", result.peakRingSlots, result.stats.Transient.BlockUnits)
	fmt.Fprintf(out, "  constant pages:      %d (peak %d)\n", result.stats.Constants.BlockCount, result.peakConstantPages)
	fmt.Fprintf(out, "  pending releases:    %d\n", result.stats.PendingReleases)

	fmt.Fprintln(out, "Persistent heaps:")
	for _, kind := range hal.DescriptorKinds() {
		stats := result.stats.Persistent[kind]
		fmt.Fprintf(out, "  %-13s %d / %d\n", kind.String()+":", stats.AllocationUnits, stats.BlockUnits)
	}

	if verbose {
		fmt.Fprintf(out, "Constant bytes unused at idle: %d\n", result.stats.Constants.UnusedUnits())
	}
}
