package server

var (
	CtxWithActor = ctxWithActor
	ActorFrom    = actorFrom
	Authenticate = authenticate
)
