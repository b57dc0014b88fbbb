package page

import (
	"context"

	"github.com/knowdesk/pagekit/pkg/routes"
)

type routeKey struct{}

// WithRouteFunc installs route as the ambient URL builder of ctx.
func WithRouteFunc(ctx context.Context, route RouteFunc) context.Context {
	return context.WithValue(ctx, routeKey{}, route)
}

// Route returns the ambient URL builder of ctx, or the application's
// default route table when none is installed.
func Route(ctx context.Context) RouteFunc {
	if ctx != nil {
		if fn, ok := ctx.Value(routeKey{}).(RouteFunc); ok && fn != nil {
			return fn
		}
	}
	return routes.Route
}
