package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/rubberove/switflake/internal/runtime"
	idsvc "github.com/rubberove/switflake/internal/services/ids"
	logpkg "github.com/rubberove/switflake/pkg/log"
)

// Server hosts the HTTP/JSON API.
type Server struct {
	rt     *runtime.Runtime
	svc    *idsvc.Service
	logger logpkg.Logger
	srv    *http.Server
	lis    net.Listener
}

// New constructs a server with its own service instance.
func New(rt *runtime.Runtime) *Server {
	return NewWithService(rt, idsvc.New(rt), logpkg.NewLogger())
}

// NewWithService constructs a server sharing an existing service instance.
func NewWithService(rt *runtime.Runtime, svc *idsvc.Service, logger logpkg.Logger) *Server {
	mux := http.NewServeMux()
	s := &Server{
		rt:     rt,
		svc:    svc,
		logger: logger.WithComponent("http"),
		srv:    &http.Server{Handler: cors(mux)},
	}
	mux.HandleFunc("/v1/healthz", s.handleHealth)
	mux.HandleFunc("/v1/node", s.handleNode)
	mux.HandleFunc("/v1/ids/generate", s.handleGenerate)
	mux.HandleFunc("/v1/ids/decode", s.handleDecode)
	mux.HandleFunc("/v1/ids/inspect", s.handleInspect)
	mux.Handle("/metrics", rt.Metrics().Handler())
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// ListenAndServe binds to addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	s.logger.Info("http listening", logpkg.Str("addr", l.Addr().String()))
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(cctx)
		return nil
	case err := <-errCh:
		return err
	}
}

// Close closes the listener.
func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
