package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
)

const (
	DefaultPort = 3000

	// Greeting is the exact body served on GET /.
	Greeting = "Hello, World!"
)

var greetingBody = []byte(Greeting)

type Config struct {
	Host string
	Port int

	// Out receives the startup line. Defaults to stdout.
	Out io.Writer
}

func (c Config) addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// BindError is returned by Start when the listening socket cannot be
// established.
type BindError struct {
	Addr string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("bind %s: %v", e.Addr, e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }

// Handler returns the responder's request handler. Only GET / is routed;
// everything else gets the ServeMux defaults.
func Handler() http.Handler {
	mux := http.NewServeMux()

	// {$} anchors the pattern so it does not act as a catch-all.
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		// The mux matches on the decoded path, so /%2F lands here as "//".
		if r.URL.EscapedPath() != "/" || r.URL.RawQuery != "" || r.URL.ForceQuery {
			http.NotFound(w, r)
			return
		}
		w.Write(greetingBody)
	})

	return mux
}

// Listener is a bound, not yet serving, responder.
type Listener struct {
	ln     net.Listener
	server *http.Server
}

// Start binds the socket and prints the startup line. It does not serve;
// call Serve for that.
func Start(cfg Config) (*Listener, error) {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, &BindError{Addr: cfg.addr(), Err: fmt.Errorf("invalid port %d", cfg.Port)}
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}

	ln, err := net.Listen("tcp", cfg.addr())
	if err != nil {
		return nil, &BindError{Addr: cfg.addr(), Err: err}
	}

	l := &Listener{
		ln:     ln,
		server: &http.Server{Handler: Handler()},
	}
	fmt.Fprintf(cfg.Out, "Server is running on %s\n", l.URL())
	return l, nil
}

// Serve accepts connections until Shutdown is called, in which case it
// returns nil.
func (l *Listener) Serve() error {
	err := l.server.Serve(l.ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting, waits for in-flight requests, and releases the
// socket even if Serve was never called.
func (l *Listener) Shutdown(ctx context.Context) error {
	err := l.server.Shutdown(ctx)
	l.ln.Close()
	return err
}

func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

func (l *Listener) Port() int {
	if tcp, ok := l.ln.Addr().(*net.TCPAddr); ok {
		return tcp.Port
	}
	return 0
}

// URL is the local URL the responder is reachable at.
func (l *Listener) URL() string {
	return fmt.Sprintf("http://localhost:%d", l.Port())
}
