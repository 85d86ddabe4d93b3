package orders

import (
	"context"
	"strings"
)

type actionFunc func(context.Context, Event) error

type actionFactory struct {
	byStatus map[string]actionFunc
}

func newActionFactory(onCreated, onAdvanced, onPaid, onCancelled actionFunc) *actionFactory {
	return &actionFactory{
		byStatus: map[string]actionFunc{
			"created": onCreated,
			// upstream uses both labels for the same state
			"confirmed": onAdvanced,
			"preparing": onAdvanced,

			"ready_for_pickup": onAdvanced,
			"paid":             onPaid,
			"cancelled":        onCancelled,
			"deleted":          onCancelled,
		},
	}
}

func (f *actionFactory) get(status string) (actionFunc, bool) {
	status = strings.ToLower(strings.TrimSpace(status))
	fn, ok := f.byStatus[status]
	return fn, ok
}
