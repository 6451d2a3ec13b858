/*
Package observability provides tools for monitoring the turtle engine.

It turns lifecycle hooks into Prometheus metrics and structured log lines,
and measures frame timing through the runner's frame observer.
*/
package observability
