// Package ports defines the interfaces that adapters (sinks, sources,
// stores, providers) implement for the hygiene pipeline. Agents and services
// depend on these so tests can swap in mocks.
package ports
