package guard

import (
	"context"
	"fmt"
	"sync"
)

// maxHops bounds redirect chains; the default table needs at most two.
const maxHops = 8

// Navigator holds the current location and runs every move through the
// guard, following redirects.
type Navigator struct {
	table *Table
	guard *Guard

	mu      sync.Mutex
	current string
}

func NewNavigator(table *Table, guard *Guard) *Navigator {
	return &Navigator{table: table, guard: guard}
}

func (n *Navigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Navigate moves to path and returns the navigation record of the page that
// was finally reached. On ErrBlocked the location is unchanged.
func (n *Navigator) Navigate(ctx context.Context, path string) (Navigation, error) {
	from := n.Current()
	to := path
	for hop := 0; hop < maxHops; hop++ {
		nav := n.table.Resolve(from, to)
		out := n.guard.Before(ctx, nav)
		switch out.Decision {
		case Allow:
			n.mu.Lock()
			n.current = nav.To
			n.mu.Unlock()
			return nav, nil
		case Redirect:
			to = out.Target
		default:
			return nav, fmt.Errorf("%w: %s (%s)", ErrBlocked, nav.To, out.Reason)
		}
	}
	return Navigation{}, fmt.Errorf("%w: too many redirects from %s", ErrBlocked, path)
}
