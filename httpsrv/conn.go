package httpsrv

import (
	"errors"

	"github.com/golang/glog"

	"github.com/imaneoujja/IMGFS/cmn"
	"github.com/imaneoujja/IMGFS/transport"
)

const recvChunkSize = 4096

// serveConn is a worker's entire lifetime: read bytes until a complete
// request is parsed, dispatch it against the shared store, write a
// response, then either loop for further requests on the same connection
// or exit (spec §4.3). The connection socket is always closed on exit,
// including every error path.
func (srv *Server) serveConn(conn *transport.Conn) {
	defer conn.Close()

	p := newParser()
	chunk := make([]byte, recvChunkSize)

	for {
		req, ok, err := p.feed(nil)
		if err != nil {
			glog.Warningf("imgfs: %s: parse error: %v", conn.RemoteAddr(), err)
			resp := errorResponse(cmn.WrapErr(cmn.KindIO, err, "parse request"))
			_ = resp.write(conn)
			return
		}
		if !ok {
			n, err := conn.Recv(chunk)
			if err != nil {
				if !errors.Is(err, transport.ErrConnClosed) {
					glog.Warningf("imgfs: %s: recv: %v", conn.RemoteAddr(), err)
				}
				return
			}
			req, ok, err = p.feed(chunk[:n])
			if err != nil {
				glog.Warningf("imgfs: %s: parse error: %v", conn.RemoteAddr(), err)
				resp := errorResponse(cmn.WrapErr(cmn.KindIO, err, "parse request"))
				_ = resp.write(conn)
				return
			}
			if !ok {
				continue
			}
		}

		resp := srv.dispatch(req)
		if err := resp.write(conn); err != nil {
			glog.Warningf("imgfs: %s: send: %v", conn.RemoteAddr(), err)
			return
		}
	}
}
