package protocol

// ProviderEventType tells whether a provider was registered or is going
// away.
type ProviderEventType int

const (
	ProviderRegistered ProviderEventType = iota
	ProviderUnregistering
)

// ProviderEvent notifies a provider (de)registration in the service
// registry.
type ProviderEvent struct {
	Provider Provider
	Type     ProviderEventType
}

type ProviderSink func(ProviderEvent)

// Registry is the process-wide service registry of protocol providers. The
// core filters it down to multi-user-chat capable providers itself.
type Registry interface {
	Providers() []Provider
	AddProviderSink(ProviderSink) (remove func())
}
