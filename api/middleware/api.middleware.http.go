package middleware

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/handlers"
	nuts "github.com/vaudience/go-nuts"
)

type CORSConfig struct {
	AllowedOrigins []string
}

// Wrap applies recovery, request logging and CORS, outermost first.
func Wrap(next http.Handler, cors CORSConfig) http.Handler {
	h := handlers.CORS(
		handlers.AllowedOrigins(cors.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(next)
	h = handlers.CustomLoggingHandler(io.Discard, h, logRequest)
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{}),
		handlers.PrintRecoveryStack(true),
	)(h)
}

func logRequest(_ io.Writer, params handlers.LogFormatterParams) {
	nuts.L.Infof("[HTTP] %s %s %d %dB", params.Request.Method, params.URL.RequestURI(), params.StatusCode, params.Size)
}

type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	nuts.L.Errorf("[HTTP] Recovered from panic: %s", fmt.Sprint(v...))
}
