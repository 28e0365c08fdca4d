package server

import (
	"bufio"
	"net"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/golang-jwt/jwt/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
	"github.com/m-mizutani/scanstream/pkg/utils/logging"
)

const tokenLeeway = 30 * time.Second

func preProcess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID, ctx := logging.CtxRequestID(r.Context())
		logger := logging.Default().With(slog.String("request_id", string(reqID)))
		ctx = logging.With(ctx, logger)

		w.Header().Set("X-Request-ID", string(reqID))
		lw := &statusCodeLogger{
			ResponseWriter: w,
			statusCode:     http.StatusOK, // Default to 200 if WriteHeader is not called
		}

		requestedAt := time.Now()
		next.ServeHTTP(lw, r.WithContext(ctx))

		logger.Info("http access",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr),
			slog.Int("status_code", lw.statusCode),
			slog.Int64("content_length", r.ContentLength),
			slog.String("user_agent", r.UserAgent()),
			slog.Duration("elapsed", time.Since(requestedAt)),
		)
	})
}

type statusCodeLogger struct {
	http.ResponseWriter
	statusCode int
}

func (x *statusCodeLogger) WriteHeader(code int) {
	x.statusCode = code
	x.ResponseWriter.WriteHeader(code)
}

func (x *statusCodeLogger) Unwrap() http.ResponseWriter {
	return x.ResponseWriter
}

// Hijack lets websocket upgrades pass through the access logger.
func (x *statusCodeLogger) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := x.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, goerr.New("response writer does not support hijacking")
	}
	x.statusCode = http.StatusSwitchingProtocols
	return hj.Hijack()
}

// authenticate verifies the bearer token and stores its subject as the actor.
func authenticate(secret types.JWTSecret) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := verifyToken(r.Header.Get("Authorization"), secret)
			if err != nil {
				writeError(w, r, err)
				return
			}

			ctx := ctxWithActor(r.Context(), actor)
			ctx = logging.WithAttrs(ctx, slog.String("actor", string(actor)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func verifyToken(header string, secret types.JWTSecret) (types.UserID, error) {
	if secret == "" {
		return "", goerr.Wrap(types.ErrUnauthorized, "token verification is not configured")
	}

	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return "", goerr.Wrap(types.ErrUnauthorized, "bearer token is required")
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) {
			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(tokenLeeway),
	)
	if err != nil {
		return "", goerr.Wrap(types.ErrUnauthorized, "invalid bearer token", goerr.V("reason", err.Error()))
	}
	if claims.Subject == "" {
		return "", goerr.Wrap(types.ErrUnauthorized, "token has no subject")
	}

	return types.UserID(claims.Subject), nil
}
