// Package delivery defines the contract every transport entrypoint of the
// service implements, so main can start them uniformly.
package delivery

import "context"

// Delivery is a long-running transport (e.g. the HTTP server). Serve blocks
// until the delivery stops or fails.
type Delivery interface {
	Serve(ctx context.Context) error
}
