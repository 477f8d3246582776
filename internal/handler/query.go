package handler

import (
	"errors"

	"github.com/mopgo/server/internal/net"
	"github.com/mopgo/server/internal/net/packet"
	"github.com/mopgo/server/internal/query"
)

var errNoPlayer = errors.New("session has no player in world")

// registerQueries wires every query responder. Replies go back on the
// requesting session in the order the responder produced them.
func registerQueries(reg *packet.Registry, states []packet.SessionState, deps *Deps) {
	if deps.Query == nil {
		return
	}
	for op, fn := range deps.Query.Routes() {
		fn := fn // per-iteration copy; go.mod targets go 1.21 loop semantics
		reg.Register(op, states, func(sess any, r *packet.Reader) error {
			return handleQuery(sess.(*net.Session), r, fn, deps)
		})
	}
}

func handleQuery(sess *net.Session, r *packet.Reader, fn query.Func, deps *Deps) error {
	p := deps.World.GetBySession(sess.ID)
	if p == nil {
		return errNoPlayer
	}
	out, err := fn(r, p)
	if err != nil {
		return err
	}
	for _, resp := range out {
		sess.Send(resp.Opcode, resp.Payload)
	}
	return nil
}
