// Package session implements server-side web sessions: a signed cookie
// carries an opaque identifier, and the session state lives in a pluggable
// storage Backend.
//
// # Lifecycle
//
// Manager.Middleware installs a per-request Lifecycle and a lazily opened
// Session. The first call to FromContext loads the record referenced by the
// cookie. Mutations mark the session dirty and register a single save that
// runs right before the response header is written, or when the handler
// returns or panics. Requests that never touch their session never reach the
// backend.
//
//	m, err := session.NewFromConfig(cfg, session.WithBackend(backend))
//	if err != nil {
//	    return err
//	}
//	router.Use(m.Middleware)
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    s := session.MustFromContext(r.Context())
//	    s.Set("user_id", 42)
//	    s.Flash("Welcome back")
//	}
//
// Stored records are the JSON tuple [renewed, created, state] with
// fractional epoch seconds, signed with a key derived from the cookie secret
// so that a shared store cannot inject state.
//
// # Expiry and reissue
//
// State older than Config.Timeout is discarded on load; the identifier is
// kept. Any access after Config.ReissueTime since the last renewal re-saves
// the session and re-sends the cookie even without data changes.
//
// # Backends
//
// MemoryBackend, FileBackend, LRUBackend and ChainBackend ship here;
// pkg/redis, pkg/pg, pkg/mongo and pkg/s3 provide networked ones. A Registry
// builds backends by name from a BackendSpec, which can come from flat
// environment settings or a YAML file. InstrumentedBackend exports
// Prometheus metrics for any backend.
//
// Storage failures never fail a request: loads degrade to a fresh session
// and failed saves are logged.
package session
