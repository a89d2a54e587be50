package resolver

import (
	"context"
	"fmt"

	"github.com/kestrel-dns/kestrel/internal/dns/common/log"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/record"
)

// Serve drives handler against req, the shared entry point every transport
// (UDP, TCP) calls after decoding a query off the wire. It exists so that no
// transport has to remember, on its own, that a handler's reply must carry
// the request's transaction id: mismatches are logged and replaced with a
// SERVFAIL built fresh from req, never forwarded to the client as-is.
//
// Mirrors DNSHandler.handle from the reference server, generalized from a
// single hard-coded resolver call to any injected Handler.
func Serve(ctx context.Context, handler Handler, logger log.Logger, req record.Message, info RequestInfo) (reply record.Message) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error(map[string]any{
				"request_id": req.ID,
				"transport":  info.Transport.String(),
				"panic":      fmt.Sprint(p),
			}, "handler panicked, substituting SERVFAIL")
			servfail := req.Reply()
			servfail.RCode = codes.RCodeServFail
			reply = *servfail
		}
	}()

	reply = handler.Resolve(ctx, req, info)
	if reply.ID == req.ID {
		return reply
	}
	logger.Warn(map[string]any{
		"request_id": req.ID,
		"reply_id":   reply.ID,
		"transport":  info.Transport.String(),
	}, "handler returned mismatched transaction id, substituting SERVFAIL")
	servfail := req.Reply()
	servfail.RCode = codes.RCodeServFail
	return *servfail
}
