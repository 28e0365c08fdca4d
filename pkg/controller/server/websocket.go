package server

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/m-mizutani/scanstream/pkg/infra/broadcast"
	"github.com/m-mizutani/scanstream/pkg/utils/errutil"
	"github.com/m-mizutani/scanstream/pkg/utils/logging"
)

const wsWriteTimeout = 10 * time.Second

// handleWebSocket streams every broadcast message to the client. Messages
// from the client are discarded.
func handleWebSocket(hub *broadcast.Hub, originPatterns []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			errutil.HandleError(r.Context(), "fail to accept websocket", err)
			return
		}
		defer conn.CloseNow()

		sub, err := hub.Subscribe()
		if err != nil {
			conn.Close(websocket.StatusGoingAway, "server is shutting down")
			return
		}
		defer hub.Unsubscribe(sub)

		logger := logging.From(r.Context()).With("subscriber", sub.ID())
		logger.Info("subscriber connected")
		defer logger.Info("subscriber disconnected")

		ctx := conn.CloseRead(r.Context())
		for {
			select {
			case <-ctx.Done():
				return

			case msg, ok := <-sub.C():
				if !ok {
					if sub.Dropped() {
						conn.Close(websocket.StatusPolicyViolation, "subscriber fell behind")
					} else {
						conn.Close(websocket.StatusGoingAway, "server is shutting down")
					}
					return
				}

				writeCtx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
				err := conn.Write(writeCtx, websocket.MessageText, msg)
				cancel()
				if err != nil {
					logger.Debug("fail to write websocket message", "error", err)
					return
				}
			}
		}
	}
}
