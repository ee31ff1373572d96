package config

import "runtime"

// Worker count resolution chain (highest priority first):
//   1. --workers / -w
//   2. QUADCALC_WORKERS, then the YAML file
//   3. Cached calibration profile (~/.quadcalc_calibration.json)
//   4. Hardware estimate (this file)

// ApplyAdaptiveWorkers fills in settings left at their automatic zero value
// from the hardware. User-specified values are preserved.
func ApplyAdaptiveWorkers(cfg AppConfig) AppConfig {
	if cfg.Workers == 0 {
		cfg.Workers = EstimateOptimalWorkers()
	}
	if cfg.TasksPerWorker == 0 {
		cfg.TasksPerWorker = EstimateOptimalTasksPerWorker()
	}
	return cfg
}

// EstimateOptimalWorkers returns one worker per logical CPU. Integrand
// evaluation is CPU-bound, so oversubscribing only adds scheduling cost.
func EstimateOptimalWorkers() int {
	return max(1, runtime.NumCPU())
}

// EstimateOptimalTasksPerWorker returns the pool oversubscription factor.
// More tasks smooth out uneven per-sample cost on machines with few cores;
// on large machines the extra tasks mostly add queueing overhead.
func EstimateOptimalTasksPerWorker() int {
	switch numCPU := runtime.NumCPU(); {
	case numCPU <= 2:
		return 8
	case numCPU <= 16:
		return 4
	default:
		return 2
	}
}
