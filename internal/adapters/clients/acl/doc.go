// Package acl is the anti-corruption layer between remote HTTP services and
// the domain. Remote DTOs stay unexported here, remote failures become domain
// errors, and remote data is validated before it becomes a domain value.
//
// [PostsAdapter] is the adapter for the posts feed. It fetches through the
// instrumented client from package clients and routes every non-2xx response
// or transport error through [MapHTTPError]:
//
//	any 4xx or 5xx            -> domain.ErrUnavailable
//	clients.ErrCircuitOpen    -> domain.ErrUnavailable
//	transport errors          -> domain.ErrUnavailable
package acl
