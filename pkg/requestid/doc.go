// Package requestid assigns every HTTP request an identifier, exposes it in
// the X-Request-ID response header and the request context, and feeds it to
// pkg/logger through LogExtractor.
package requestid
