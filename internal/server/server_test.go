package server

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerStartStop(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s := NewServer("127.0.0.1:0", mux)
	addr, err := s.Start()
	require.NoError(t, err)

	resp, err := http.Get(fmt.Sprintf("http://%s/health", addr))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	_, err = http.Get(fmt.Sprintf("http://%s/health", addr))
	assert.Error(t, err)
}

func TestServerStartBindError(t *testing.T) {
	first := NewServer("127.0.0.1:0", http.NewServeMux())
	addr, err := first.Start()
	require.NoError(t, err)
	defer first.Stop(context.Background())

	second := NewServer(addr.String(), http.NewServeMux())
	_, err = second.Start()
	assert.Error(t, err)
}
