package httpsrv

import (
	"fmt"

	"github.com/imaneoujja/IMGFS/cmn"
	"github.com/imaneoujja/IMGFS/transport"
)

type response struct {
	Status  int
	Reason  string
	Headers map[string]string
	Body    []byte
}

var reasonPhrases = map[int]string{
	200: "OK",
	302: "Found",
	500: "Internal Server Error",
}

func newResponse(status int, headers map[string]string, body []byte) *response {
	return &response{Status: status, Reason: reasonPhrases[status], Headers: headers, Body: body}
}

// write builds "VERSION SP STATUS CRLF" + headers + "Content-Length" +
// blank line + body, and sends it in full over conn, looping until the
// whole buffer is flushed or the socket errors (spec §4.3 "Response
// writer").
func (r *response) write(conn *transport.Conn) error {
	buf := make([]byte, 0, 256+len(r.Body))
	buf = append(buf, fmt.Sprintf("HTTP/1.1 %d %s\r\n", r.Status, r.Reason)...)
	for k, v := range r.Headers {
		buf = append(buf, fmt.Sprintf("%s: %s\r\n", k, v)...)
	}
	buf = append(buf, fmt.Sprintf("Content-Length: %d\r\n\r\n", len(r.Body))...)
	buf = append(buf, r.Body...)
	return conn.Send(buf)
}

// errorResponse maps any operation error to a 500 with the error kind's
// name as the body. Missing-query-vars failures go through the same path
// rather than a 400 - deliberate, see spec §7 "Propagation".
func errorResponse(err error) *response {
	kind := cmn.KindOf(err)
	return newResponse(500, map[string]string{"Content-Type": "text/plain"}, []byte(kind.String()))
}
