package relay

import (
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

// Server is an in-process NATS server for hosts that have no broker to
// publish to.
type Server struct {
	ns *server.Server

	startupTimeout time.Duration
	host           string
	port           int
}

type ServerOpt func(*Server)

// WithStartTimeout sets how long Start waits for the server to accept clients.
func WithStartTimeout(d time.Duration) ServerOpt {
	return func(s *Server) {
		s.startupTimeout = d
	}
}

// WithHost sets the bind host.
func WithHost(host string) ServerOpt {
	return func(s *Server) {
		s.host = host
	}
}

// WithPort sets the bind port; -1 picks a random free port.
func WithPort(port int) ServerOpt {
	return func(s *Server) {
		s.port = port
	}
}

func NewServer(opts ...ServerOpt) (*Server, error) {
	s := &Server{
		startupTimeout: 10 * time.Second,
		host:           "127.0.0.1",
		port:           -1,
	}

	for _, opt := range opts {
		opt(s)
	}

	ns, err := server.NewServer(&server.Options{
		Host:   s.host,
		Port:   s.port,
		NoLog:  true,
		NoSigs: true, // the host handles signals
	})
	if err != nil {
		return nil, fmt.Errorf("create nats server: %w", err)
	}
	s.ns = ns

	return s, nil
}

// Start runs the server in the background and waits until it is ready.
func (s *Server) Start() error {
	s.ns.Start()

	if !s.ns.ReadyForConnections(s.startupTimeout) {
		s.ns.Shutdown()
		return fmt.Errorf("nats server not ready for connections")
	}
	return nil
}

// ClientURL is the URL clients connect to.
func (s *Server) ClientURL() string {
	return s.ns.ClientURL()
}

func (s *Server) Shutdown() {
	s.ns.Shutdown()
	s.ns.WaitForShutdown()
}
