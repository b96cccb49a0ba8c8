package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/lucsky/cuid"

	"github.com/klokal/databuilder/util/tracing"
	"github.com/klokal/databuilder/util/values"
)

// RequestTracing handles the request tracing context
func RequestTracing(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		requestSource := r.Header.Get(values.HeaderRequestSource)
		if requestSource == "" {
			errM := errors.New("X-Request-Source is empty")

			writeErrorResponse(w, errM, values.Error, errM.Error())
			return
		}

		requestID := r.Header.Get(values.HeaderRequestID)
		if requestID == "" {
			requestID = cuid.New()
		}

		tracingContext := tracing.Context{
			RequestID:     requestID,
			RequestSource: requestSource,
		}

		ctx = context.WithValue(ctx, values.ContextTracingKey, tracingContext)
		next.ServeHTTP(w, r.WithContext(ctx))
	}

	return http.HandlerFunc(fn)
}

// ActorContext resolves the acting editor role from the X-Actor header.
// There is no account system; an absent or unknown header means Admin, and
// anything else must name the collaborator role.
func ActorContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := r.Header.Get(values.HeaderActor)
		switch actor {
		case "", values.ActorAdmin:
			actor = values.ActorAdmin
		case values.ActorCollaborator:
		default:
			writeErrorResponse(w, errors.New("unknown actor"), values.NotAllowed, "unknown X-Actor role")
			return
		}

		ctx := context.WithValue(r.Context(), values.ContextActorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
