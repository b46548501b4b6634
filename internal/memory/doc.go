// Package memory configures the Go runtime memory limit in containers and
// watches heap usage so decoded-preview caches can be released under pressure.
//
// # Configuration
//
// Call [ConfigureFromEnv] early in main, before significant allocations:
//
//	func main() {
//	    memory.ConfigureFromEnv()
//	    // ...
//	}
//
// # Environment Variables
//
//   - GOMEMLIMIT: Standard Go environment variable. If set, takes precedence
//     over all other configuration. Accepts values like "400MiB" or "1GiB".
//
//   - MEMORY_LIMIT: Container memory limit in bytes, typically set via the
//     Kubernetes Downward API:
//
//	env:
//	- name: MEMORY_LIMIT
//	  valueFrom:
//	    resourceFieldRef:
//	      resource: limits.memory
//
//   - MEMORY_RATIO: Fraction of MEMORY_LIMIT to use for the Go heap, between
//     0.0 and 1.0. Default is 0.85. Lower it when libvips is enabled, since
//     its allocations are outside the Go heap.
//
// # Memory Monitoring
//
// [Monitor] samples heap usage and runs registered handlers once each time
// usage crosses the critical watermark:
//
//	monitor := memory.NewMonitor(memory.DefaultConfig())
//	monitor.OnCritical(func() { previews.ClearFor("memory_pressure") })
//	monitor.Start()
//	defer monitor.Stop()
//
// Handlers are re-armed once usage falls below the high watermark.
package memory
