// Package tracing wraps OpenTelemetry so that the orchestrator, the worker
// processes and their threads record spans through two helpers, StartSpan
// and EndSpan, without importing the SDK. Until Init is called spans are
// no-ops.
package tracing
