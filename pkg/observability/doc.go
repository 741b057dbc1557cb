/*
Package observability turns execution lifecycle events into Prometheus metrics
and structured log lines.

Both are plain domain.LifecycleHooks values; Combine chains several of them so
an application can log and count at once.
*/
package observability
