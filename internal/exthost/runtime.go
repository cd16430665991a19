package exthost

import "context"

// Signaler is the transport used by Runtime.
type Signaler interface {
	Stop(ctx context.Context, windowID string) error
	Start(ctx context.Context, windowID string) error
}

// Runtime is the extension runtime of one window.
type Runtime struct {
	signaler Signaler
	windowID string
}

func NewRuntime(signaler Signaler, windowID string) *Runtime {
	return &Runtime{signaler: signaler, windowID: windowID}
}

func (r *Runtime) Stop(ctx context.Context) error  { return r.signaler.Stop(ctx, r.windowID) }
func (r *Runtime) Start(ctx context.Context) error { return r.signaler.Start(ctx, r.windowID) }

// Local signals an in-process Server without a network hop.
type Local struct {
	srv *Server
}

func NewLocal(srv *Server) *Local { return &Local{srv: srv} }

func (l *Local) Stop(ctx context.Context, windowID string) error {
	_, err := l.srv.Stop(ctx, windowRequest(windowID))
	return err
}

func (l *Local) Start(ctx context.Context, windowID string) error {
	_, err := l.srv.Start(ctx, windowRequest(windowID))
	return err
}

func (l *Local) Status(ctx context.Context, windowID string) (map[string]interface{}, error) {
	st, err := l.srv.Status(ctx, windowRequest(windowID))
	if err != nil {
		return nil, err
	}
	return st.AsMap(), nil
}
