package logging

import (
	"time"
)

// TimingContext holds timing information for manual Start/End tracking
type TimingContext struct {
	name      string
	startTime time.Time
}

// Time executes fn and logs its duration at debug level.
//
// Example:
//
//	logging.Time("transform topology", func() {
//	    data = topology.Transform(resources, kinds, opts)
//	})
func Time(name string, fn func()) {
	Get().Time(name, fn)
}

// TimeWithResult executes fn, logs its duration and returns its result
func TimeWithResult[T any](name string, fn func() T) T {
	if !IsEnabled() {
		return fn()
	}

	start := time.Now()
	result := fn()
	logDuration(Get(), name, time.Since(start))
	return result
}

// Start begins a timing measurement; pair it with End or EndWithCount.
//
// Example:
//
//	ctx := logging.Start("sync topology informers")
//	// ... wait for caches ...
//	logging.EndWithCount(ctx, synced)
func Start(name string) TimingContext {
	return TimingContext{
		name:      name,
		startTime: time.Now(),
	}
}

// End completes a timing measurement started with Start
func End(ctx TimingContext) time.Duration {
	duration := time.Since(ctx.startTime)
	if IsEnabled() {
		logDuration(Get(), ctx.name, duration)
	}
	return duration
}

// EndWithCount completes a timing measurement and logs the number of items processed
func EndWithCount(ctx TimingContext, count int) time.Duration {
	duration := time.Since(ctx.startTime)
	if IsEnabled() {
		Get().Debug(ctx.name,
			"duration", duration.String(),
			"ms", duration.Milliseconds(),
			"count", count,
		)
	}
	return duration
}

// Time is the Logger form of the package-level Time
func (l *Logger) Time(name string, fn func()) {
	if !l.IsEnabled() {
		fn()
		return
	}

	start := time.Now()
	fn()
	logDuration(l, name, time.Since(start))
}

func logDuration(l *Logger, name string, duration time.Duration) {
	l.Debug(name,
		"duration", duration.String(),
		"ms", duration.Milliseconds(),
	)
}
