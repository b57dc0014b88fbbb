package middleware

import (
	"context"

	"github.com/knowdesk/pagekit/pkg/page"
)

// Observers fans page events out to every non-nil observer in order.
func Observers(obs ...page.Observer) page.Observer {
	list := make(multiObserver, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			list = append(list, o)
		}
	}
	return list
}

type multiObserver []page.Observer

func (m multiObserver) LoadStarted(ctx context.Context, name, key string) (context.Context, func(error)) {
	dones := make([]func(error), 0, len(m))
	for _, o := range m {
		var done func(error)
		ctx, done = o.LoadStarted(ctx, name, key)
		dones = append(dones, done)
	}
	return ctx, func(err error) {
		for i := len(dones) - 1; i >= 0; i-- {
			dones[i](err)
		}
	}
}

func (m multiObserver) Finished(ctx context.Context, res *page.Result) {
	for _, o := range m {
		o.Finished(ctx, res)
	}
}
