package server_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"hellod/internal/server"
)

func TestGreeting(t *testing.T) {
	h := server.Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hello, World!", w.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
}

func TestGreetingIdempotent(t *testing.T) {
	h := server.Handler()

	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, server.Greeting, w.Body.String())
	}
}

func TestNotGreeting(t *testing.T) {
	h := server.Handler()

	tests := []struct {
		method string
		target string
		status int
	}{
		{"GET", "/foo", http.StatusNotFound},
		{"GET", "/?x=1", http.StatusNotFound},
		{"GET", "/?", http.StatusNotFound},
		{"GET", "//", http.StatusMovedPermanently},
		{"GET", "/%2F", http.StatusNotFound},
		{"GET", "/%2f", http.StatusNotFound},
		{"GET", "/index.html", http.StatusNotFound},
		{"POST", "/", http.StatusMethodNotAllowed},
		{"DELETE", "/", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(tt.method, tt.target, nil))
			assert.Equal(t, tt.status, w.Code)
			assert.NotContains(t, w.Body.String(), server.Greeting)
		})
	}
}

func TestStartServeShutdown(t *testing.T) {
	var out bytes.Buffer
	l, err := server.Start(server.Config{Host: "127.0.0.1", Port: 0, Out: &out})
	assert.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- l.Serve() }()

	assert.Equal(t, "Server is running on "+l.URL()+"\n", out.String())

	resp, err := http.Get("http://" + l.Addr().String() + "/")
	assert.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, server.Greeting, string(body))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, l.Shutdown(ctx))
	assert.NoError(t, <-done)
}

func TestSecondBindFails(t *testing.T) {
	first, err := server.Start(server.Config{Host: "127.0.0.1", Port: 0, Out: io.Discard})
	assert.NoError(t, err)
	defer first.Shutdown(context.Background())

	second, err := server.Start(server.Config{Host: "127.0.0.1", Port: first.Port(), Out: io.Discard})
	assert.Nil(t, second)

	var bindErr *server.BindError
	assert.ErrorAs(t, err, &bindErr)
	assert.ErrorIs(t, err, syscall.EADDRINUSE)
}

func TestInvalidPort(t *testing.T) {
	_, err := server.Start(server.Config{Port: 70000, Out: io.Discard})

	var bindErr *server.BindError
	assert.ErrorAs(t, err, &bindErr)
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.ListenAndServe(ctx, server.Config{Host: "127.0.0.1", Port: 0, Out: io.Discard})
	}()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("ListenAndServe did not return after cancel")
	}
}

func TestListenAndServeBindError(t *testing.T) {
	first, err := server.Start(server.Config{Host: "127.0.0.1", Port: 0, Out: io.Discard})
	assert.NoError(t, err)
	defer first.Shutdown(context.Background())

	err = server.ListenAndServe(context.Background(), server.Config{Host: "127.0.0.1", Port: first.Port(), Out: io.Discard})

	var bindErr *server.BindError
	assert.ErrorAs(t, err, &bindErr)
}
