// Events webhook handler.
//
// This file exposes POST /api/events, the inbound webhook endpoint. It is
// the one route that runs without the bearer-auth guard: verification of
// the caller happens through the payload's token field, and the
// url_verification handshake must succeed before any credential exists.
//
// The raw body is read once and handed to the dispatcher unparsed so the
// persisted envelope stores the payload byte-for-byte.
package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-slack-sim/internal/http/middleware"
)

// maxEventBodyBytes bounds the accepted webhook payload size.
const maxEventBodyBytes = 1 << 20

// Events dispatches one inbound webhook payload.
//
// A url_verification payload is answered with its challenge echoed
// verbatim as the whole response body. An event_callback is persisted and
// applied, and acknowledged with the bare success envelope; replays of an
// already-ingested event ID acknowledge without reapplying.
func (h *Handlers) Events(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxEventBodyBytes))
	if err != nil {
		fail(c, ErrCodeInvalidArguments)
		return
	}

	res, err := h.events.HandleInbound(c.Request.Context(), body)
	if err != nil {
		failErr(c, err)
		return
	}

	if res.Handshake {
		c.String(http.StatusOK, res.Challenge)
		return
	}
	if res.Duplicate {
		middleware.LoggerFrom(c).Info().
			Str("event_id", res.EventID).
			Msg("duplicate event replayed")
	}
	ok(c, nil)
}
