package server

import (
	"bytes"
	"testing"
	"time"

	"task-registry/config"
	"task-registry/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RoutesHTTPServerErrorsToLogger(t *testing.T) {
	var buf bytes.Buffer
	srv := New(Dependencies{
		Config: &config.Config{ServerPort: 0, ShutdownTimeout: time.Second},
		Logger: logger.New("INFO", &buf),
	})

	require.NotNil(t, srv.httpServer.ErrorLog)
	srv.httpServer.ErrorLog.Print("http: Accept error: too many open files")

	assert.Contains(t, buf.String(), `"message":"http: Accept error: too many open files"`)
}
