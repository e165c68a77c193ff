package main

import (
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/apoio-comunitario-api/internal/config"
	"github.com/harentsoaR/apoio-comunitario-api/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func TestStartHTTPServer_ShutsDownWhenListenFails(t *testing.T) {
	gin.SetMode(gin.TestMode)

	busy, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer busy.Close()
	port := strconv.Itoa(busy.Addr().(*net.TCPAddr).Port)

	app := fxtest.New(t,
		fx.Supply(config.Config{APIPort: port}),
		fx.Supply(zap.NewNop()),
		fx.Supply(server.NewHTTPServer(gin.New())),
		fx.Invoke(startHTTPServer),
	)
	app.RequireStart()
	defer app.RequireStop()

	select {
	case sig := <-app.Wait():
		assert.Equal(t, 1, sig.ExitCode)
	case <-time.After(5 * time.Second):
		t.Fatal("application kept running without a listener")
	}
}
