// Package registry holds the process-wide set of provider connectors and
// which of them are enabled.
//
// A Registry is an explicit instance injected into the orchestrator. All
// access is guarded by a RWMutex so a resolution always observes a
// self-consistent enabled set while admin toggles run concurrently.
//
// The initial enablement of a connector is decided once, when it is first
// registered: with an allow-list only listed names are enabled, otherwise a
// connector is enabled iff it reports a credential. Afterwards only Enable
// and Disable change it.
package registry
