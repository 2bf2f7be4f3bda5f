// Package modules builds and runs the application modules in dependency order.
package modules

import (
	"context"
	"sync"
)

// Runner is a module with background work.
type Runner interface {
	Run(ctx context.Context, wg *sync.WaitGroup)
	Close() error
}
