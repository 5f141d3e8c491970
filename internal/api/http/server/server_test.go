package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/jobtracker-server/internal/mocks"
)

func TestHTTPServer_Address(t *testing.T) {
	s := NewHTTPServer(http.NotFoundHandler(), ":0", time.Second, time.Second)
	assert.Equal(t, ":0", s.Address())
}

func TestHTTPServer_Stop_NotStarted(t *testing.T) {
	s := NewHTTPServer(http.NotFoundHandler(), ":0", time.Second, time.Second)
	assert.NoError(t, s.Stop(context.Background()))
}

func TestHTTPServer_Start_ListenError(t *testing.T) {
	s := NewHTTPServer(http.NotFoundHandler(), ":0", time.Second, time.Second)
	sec := mocks.NewSecurityLayer(t)
	sec.On("Listen", "tcp", ":0").Return(nil, errors.New("address in use")).Once()

	err := s.Start(sec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}

func TestHTTPServer_Start_ServesAndStops(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})
	s := NewHTTPServer(handler, ":0", time.Second, time.Second)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	sec := mocks.NewSecurityLayer(t)
	sec.On("Listen", "tcp", ":0").Return(ln, nil).Once()

	done := make(chan error, 1)
	go func() { done <- s.Start(sec) }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get("http://" + ln.Addr().String())
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))

	require.NoError(t, s.Stop(context.Background()))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
