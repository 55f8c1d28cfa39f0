package requester

import (
	"go.uber.org/fx"
)

// Module provides the transport for the configured mode and a Dispatcher on top of it.
var Module = fx.Module("requester",
	fx.Provide(
		NewTransport,
		func(transport Transport) *Dispatcher {
			return NewDispatcher(transport)
		},
	),
)
