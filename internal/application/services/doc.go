// Package services coordinates hygiene runs: loading records, running the
// orchestrator, persisting reports, scheduling and alert delivery.
package services
