// Package playertwin is an in-memory stand-in for the player service. It implements the same
// HTTP surface and the same validation and authorization rules, including the service's
// unusual status codes, so that the contract suite can be run without a real deployment.
package playertwin

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Twin is the fake player service. It is an http.Handler.
type Twin struct {
	Store  *Store
	router chi.Router
	logger logrus.FieldLogger
}

func New(logger logrus.FieldLogger) *Twin {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	t := &Twin{Store: NewStore(), logger: logger}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(t.requestLog)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "")
	})
	t.Routes(r)
	t.router = r
	return t
}

// Routes mounts the player API.
func (t *Twin) Routes(r chi.Router) {
	r.Route("/player", func(r chi.Router) {
		r.Get("/create/{editor}", t.CreatePlayer)
		r.Patch("/update/{editor}/{id}", t.UpdatePlayer)
		r.Delete("/delete/{editor}", t.DeletePlayer)
		r.Post("/get", t.GetPlayer)
		r.Get("/get/all", t.GetAllPlayers)
	})
}

func (t *Twin) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	t.router.ServeHTTP(w, r)
}

func (t *Twin) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		t.logger.WithFields(logrus.Fields{
			"requestId": chimw.GetReqID(r.Context()),
			"method":    r.Method,
			"path":      r.URL.Path,
			"status":    ww.Status(),
			"elapsed":   time.Since(start).Milliseconds(),
		}).Debug("twin request")
	})
}

// Server is a running Twin.
type Server struct {
	*Twin
	URL      string
	listener net.Listener
	server   *http.Server
	done     chan struct{}
}

// Start serves a new Twin on addr, such as ":8080" or "127.0.0.1:0". The listener is open when
// Start returns, so requests can be sent immediately.
func Start(addr string, logger logrus.FieldLogger) (*Server, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("can't listen on %s: %w", addr, err)
	}
	twin := New(logger)
	s := &Server{
		Twin:     twin,
		URL:      "http://" + l.Addr().String(),
		listener: l,
		server:   &http.Server{Handler: twin, ReadHeaderTimeout: 10 * time.Second},
		done:     make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		if err := s.server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			twin.logger.WithError(err).Error("player twin stopped")
		}
	}()
	twin.logger.WithField("url", s.URL).Info("player twin listening")
	return s, nil
}

func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.server.Shutdown(ctx)
	<-s.done
	return err
}
