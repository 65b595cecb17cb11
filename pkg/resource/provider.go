package resource

// Provider is the engine-facing contract for a cloud provider: a session
// plus per-service client/resource/endpoint factories. Concrete providers
// (pkg/provider) are external collaborators; the core only depends on this
// interface. Grounded on original_source/pdep/plan.py's
// AwsLocalStackProvider and the engine's own Provider contract.
type Provider interface {
	// Client returns an opaque low-level client handle for service.
	Client(service string) (any, error)
	// Resource returns an opaque higher-level resource handle for service.
	Resource(service string) (any, error)
	// Endpoint returns the URL this provider routes service calls to.
	Endpoint(service string) (string, error)
}
