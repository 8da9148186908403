package plugin

import (
	"context"
	"errors"
	"net/http"
)

// ErrNoRobot is returned by HTTPCallback.Call when the request context
// does not carry a robot instance.
var ErrNoRobot = errors.New("no robot in request context")

type robotContextKey struct{}

// WithRobot returns a copy of ctx carrying the robot under the reserved
// context key consumed by HTTPCallback.
func WithRobot(ctx context.Context, r Robot) context.Context {
	return context.WithValue(ctx, robotContextKey{}, r)
}

// RobotFromRequest extracts the robot stored in the request context.
func RobotFromRequest(req *http.Request) (Robot, bool) {
	r, ok := req.Context().Value(robotContextKey{}).(Robot)
	return r, ok
}

// RouteCallback populates the response accumulator for one HTTP route.
// Errors propagate unchanged to the hosting HTTP layer, which owns
// error-to-status translation.
type RouteCallback func(h Handler, r *http.Request, w *Response) error

// HTTPCallback bridges an HTTP exchange into a handler invocation. The
// (descriptor, callback) pair is fixed at construction; Call is safe for
// concurrent use since every call operates on a fresh handler instance
// and a fresh response accumulator.
type HTTPCallback struct {
	handler  *HandlerDescriptor
	callback RouteCallback
}

// NewHTTPCallback binds a handler descriptor to a route callback.
func NewHTTPCallback(handler *HandlerDescriptor, callback RouteCallback) HTTPCallback {
	return HTTPCallback{handler: handler, callback: callback}
}

// Call runs one exchange. HEAD requests short-circuit to 204 with an
// empty body and never reach the callback: HEAD responses must carry no
// body. Any other method constructs a handler bound to the robot found in
// the request context and invokes the callback with (handler, request,
// response). The callback populates the accumulator by mutation.
func (c HTTPCallback) Call(r *http.Request) (*Response, error) {
	res := NewResponse()
	if r.Method == http.MethodHead {
		res.WriteHeader(http.StatusNoContent)
		return res, nil
	}

	robot, ok := RobotFromRequest(r)
	if !ok {
		return res, ErrNoRobot
	}
	h := c.handler.New(robot)
	if err := c.callback(h, r, res); err != nil {
		return res, err
	}
	return res, nil
}
