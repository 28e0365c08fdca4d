package config

import (
	"log/slog"

	"github.com/m-mizutani/scanstream/pkg/controller/server"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
	"github.com/m-mizutani/scanstream/pkg/infra/broadcast"
	"github.com/urfave/cli/v3"
)

// Server holds API authentication and subscriber settings.
type Server struct {
	jwtSecret      types.JWTSecret
	originPatterns []string
	bufferSize     int64
}

func (x *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "jwt-secret",
			Usage:       "HS256 secret used to verify API bearer tokens",
			Category:    "Server",
			Required:    true,
			Sources:     cli.EnvVars("SCANSTREAM_JWT_SECRET"),
			Destination: (*string)(&x.jwtSecret),
		},
		&cli.StringSliceFlag{
			Name:        "ws-origin",
			Usage:       "Host pattern allowed to open a websocket from a browser (repeatable)",
			Category:    "Server",
			Sources:     cli.EnvVars("SCANSTREAM_WS_ORIGIN"),
			Destination: &x.originPatterns,
		},
		&cli.Int64Flag{
			Name:        "ws-buffer-size",
			Usage:       "Messages buffered per subscriber before it is disconnected",
			Category:    "Server",
			Value:       broadcast.DefaultBufferSize,
			Sources:     cli.EnvVars("SCANSTREAM_WS_BUFFER_SIZE"),
			Destination: &x.bufferSize,
		},
	}
}

func (x *Server) HubOptions() []broadcast.Option {
	return []broadcast.Option{
		broadcast.WithBufferSize(int(x.bufferSize)),
	}
}

func (x *Server) Options() []server.Option {
	return []server.Option{
		server.WithJWTSecret(x.jwtSecret),
		server.WithOriginPatterns(x.originPatterns...),
	}
}

func (x *Server) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("JWTSecret", x.jwtSecret),
		slog.Any("OriginPatterns", x.originPatterns),
		slog.Int64("BufferSize", x.bufferSize),
	)
}
