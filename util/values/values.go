package values

type ContextKey string

// Response statuses returned in the ServerResponse envelope.
const (
	Success        = "success"
	Created        = "created"
	Error          = "error"
	BadRequestBody = "bad-request-body"
	Unprocessable  = "unprocessable"
	NotAllowed     = "not-allowed"
	Conflict       = "conflict"
	NotFound       = "not-found"
	NotAuthorised  = "not-authorised"
	TokenExpired   = "token-expired"
	ActiveLogin    = "active-login"
)

const (
	HeaderRequestSource = "X-Request-Source"
	HeaderRequestID     = "X-Request-ID"
	HeaderActor         = "X-Actor"
)

const (
	ContextTracingKey = ContextKey("tracing-context")
	ContextActorKey   = ContextKey("actor")
)

// Editor actors. There is no account system; every request acts as one of
// these two roles.
const (
	ActorAdmin        = "Admin"
	ActorCollaborator = "Collaborator"
)

// DefaultCreatorID is stamped on every synthesized spot.
const DefaultCreatorID = "expert_001"
