package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/scanstream/pkg/controller/server"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
)

func TestActorContext(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		ctx := server.CtxWithActor(context.Background(), "alice")
		gt.V(t, server.ActorFrom(ctx)).Equal(types.UserID("alice"))
	})

	t.Run("empty without actor", func(t *testing.T) {
		gt.V(t, server.ActorFrom(context.Background())).Equal(types.UserID(""))
	})

	t.Run("inner value wins", func(t *testing.T) {
		ctx := server.CtxWithActor(context.Background(), "alice")
		ctx = server.CtxWithActor(ctx, "bob")
		gt.V(t, server.ActorFrom(ctx)).Equal(types.UserID("bob"))
	})

	t.Run("survives detaching from cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(server.CtxWithActor(context.Background(), "alice"))
		detached := context.WithoutCancel(ctx)
		cancel()

		gt.V(t, server.ActorFrom(detached)).Equal(types.UserID("alice"))
		gt.NoError(t, detached.Err())
	})

	t.Run("set by authentication", func(t *testing.T) {
		var got types.UserID
		h := server.Authenticate(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = server.ActorFrom(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/scans", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "carol", time.Hour))
		h.ServeHTTP(httptest.NewRecorder(), req)

		gt.V(t, got).Equal(types.UserID("carol"))
	})
}
