package exthost

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lzjever/mbos-wbs/internal/observability"
)

type hostState struct {
	running bool
	stops   int
	starts  int
	changed time.Time
}

// Server tracks the extension host of each window.
type Server struct {
	mu      sync.Mutex
	windows map[string]*hostState
	log     *zap.Logger
}

func NewServer(log *zap.Logger) *Server {
	return &Server{windows: make(map[string]*hostState), log: log}
}

func (s *Server) Stop(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	return s.signal(req, "stop", false)
}

func (s *Server) Start(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	return s.signal(req, "start", true)
}

func (s *Server) Status(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	wid := windowIDOf(req)
	if wid == "" {
		return nil, status.Error(codes.InvalidArgument, "window_id is required")
	}
	s.mu.Lock()
	st, ok := s.windows[wid]
	s.mu.Unlock()
	if !ok {
		return nil, status.Errorf(codes.NotFound, "window %s has no extension host", wid)
	}
	return structpb.NewStruct(map[string]interface{}{
		"window_id": wid,
		"running":   st.running,
		"stops":     float64(st.stops),
		"starts":    float64(st.starts),
		"changed":   st.changed.Format(time.RFC3339Nano),
	})
}

func (s *Server) signal(req *structpb.Struct, signal string, running bool) (*emptypb.Empty, error) {
	wid := windowIDOf(req)
	if wid == "" {
		return nil, status.Error(codes.InvalidArgument, "window_id is required")
	}
	observability.ExtHostSignalsTotal.WithLabelValues(signal).Inc()

	s.mu.Lock()
	st, ok := s.windows[wid]
	if !ok {
		st = &hostState{}
		s.windows[wid] = st
	}
	st.running = running
	if running {
		st.starts++
	} else {
		st.stops++
	}
	st.changed = time.Now().UTC()
	s.mu.Unlock()

	s.log.Info("exthost: signal", zap.String("window_id", wid), zap.String("signal", signal))
	return &emptypb.Empty{}, nil
}
