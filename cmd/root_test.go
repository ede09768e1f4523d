package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"hellod/internal/probe"
	"hellod/internal/server"
	"hellod/internal/stats"
)

func TestServerConfigDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := serverConfig(v)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "", cfg.Host)
}

func TestServerConfigFromEnv(t *testing.T) {
	t.Setenv("HELLOD_PORT", "8081")
	t.Setenv("HELLOD_HOST", "127.0.0.1")

	v := viper.New()
	setDefaults(v)

	cfg := serverConfig(v)
	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, "127.0.0.1", cfg.Host)
}

func TestTargetURL(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	assert.Equal(t, "http://localhost:3000/", targetURL(v, ""))
	assert.Equal(t, "http://example.com/", targetURL(v, "http://example.com/"))

	v.Set("port", 9000)
	assert.Equal(t, "http://localhost:9000/", targetURL(v, ""))
}

func TestSubcommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["probe"])
	assert.True(t, names["history"])
}

func TestReportErrorBind(t *testing.T) {
	first, err := server.Start(server.Config{Host: "127.0.0.1", Port: 0, Out: io.Discard})
	assert.NoError(t, err)
	defer first.Shutdown(context.Background())

	v := viper.New()
	setDefaults(v)
	v.Set("host", "127.0.0.1")
	v.Set("port", first.Port())
	cfg := serverConfig(v)
	cfg.Out = io.Discard

	err = server.ListenAndServe(context.Background(), cfg)

	var out bytes.Buffer
	assert.Equal(t, 1, reportError(&out, err))
	assert.Contains(t, out.String(), "cannot listen")
	assert.Contains(t, out.String(), fmt.Sprintf("127.0.0.1:%d", first.Port()))
}

func TestReportErrorOther(t *testing.T) {
	var out bytes.Buffer
	assert.Equal(t, 1, reportError(&out, errors.New("probe failed: 3 of 10 requests did not get the greeting")))
	assert.NotContains(t, out.String(), "cannot listen")
	assert.Contains(t, out.String(), "probe failed")
}

func TestProgressLine(t *testing.T) {
	r := probe.NewRunner(probe.Config{URL: "http://localhost:3000/", Requests: 4})
	r.Stats.Add(stats.Success, 13, time.Millisecond, "")
	r.Stats.Add(stats.Mismatch, 9, time.Millisecond, "status 404")

	line := progressLine(r, time.Second)
	assert.Contains(t, line, " 50% | 2/4 ")
	assert.Contains(t, line, "Inf:   0")
	assert.Contains(t, line, "OK: 1")
	assert.Contains(t, line, "Err: 50.0%")
	assert.Equal(t, "[██████████----------]", progressBar(0.5, 20))
}
