// Package httpsrv implements imgfs's HTTP engine: the accept loop, the
// per-connection request parser state machine, the static route table,
// and the response writer described in spec §4.3.
/*
 * Copyright (c) 2018, NVIDIA CORPORATION. All rights reserved.
 */
package httpsrv

import (
	"bytes"
	"net/url"
	"strconv"
	"strings"

	"github.com/imaneoujja/IMGFS/cmn"
)

// MaxHeaderSize is the parser's initial read-buffer size and the cap on
// how large the request line + headers may grow before COMPLETE is
// reached. Once Content-Length is known, the buffer may be grown exactly
// once, to MaxHeaderSize+Content-Length (spec §4.3 "Buffer growth").
const MaxHeaderSize = 8192

type parseState int

const (
	stateHeadersIncomplete parseState = iota
	stateAwaitBody
	stateComplete
)

// request is one fully-parsed HTTP request.
type request struct {
	Method  string
	URI     string
	Path    string
	Query   url.Values
	Headers map[string]string
	Body    []byte
}

// parser holds one connection's growable read buffer and parse state
// machine (spec §4.3 "Parser state machine").
type parser struct {
	buf           []byte
	state         parseState
	headerEnd     int // index just past CRLFCRLF, once found
	contentLength int
	grownOnce     bool
	pendingReq    *request // head block parsed, body not yet fully buffered
}

func newParser() *parser {
	return &parser{buf: make([]byte, 0, MaxHeaderSize), state: stateHeadersIncomplete}
}

// feed appends newly-read bytes and advances the state machine. It
// returns (req, true, nil) once a full request is parsed; (nil, false,
// nil) if more bytes are needed; or a non-nil error (KindIO) if the
// buffer filled without finding the header terminator.
func (p *parser) feed(data []byte) (*request, bool, error) {
	p.buf = append(p.buf, data...)

	if p.state == stateHeadersIncomplete {
		idx := bytes.Index(p.buf, []byte("\r\n\r\n"))
		if idx == -1 {
			if len(p.buf) >= MaxHeaderSize {
				return nil, false, cmn.NewErr(cmn.KindIO, "header terminator not found within %d bytes", MaxHeaderSize)
			}
			return nil, false, nil
		}
		p.headerEnd = idx + 4

		req, err := parseHeadBlock(p.buf[:p.headerEnd])
		if err != nil {
			return nil, false, err
		}
		p.contentLength = 0
		if cl, ok := req.Headers["content-length"]; ok {
			n, err := strconv.Atoi(strings.TrimSpace(cl))
			if err != nil || n < 0 {
				return nil, false, cmn.NewErr(cmn.KindInvalidArgument, "invalid Content-Length %q", cl)
			}
			p.contentLength = n
		}

		if p.contentLength == 0 {
			p.state = stateComplete
			req.Body = nil
			return p.finish(req)
		}

		if !p.grownOnce {
			grown := make([]byte, 0, MaxHeaderSize+p.contentLength)
			grown = append(grown, p.buf...)
			p.buf = grown
			p.grownOnce = true
		}
		p.state = stateAwaitBody
		p.pendingReq = req
	}

	if p.state == stateAwaitBody {
		haveBody := len(p.buf) - p.headerEnd
		if haveBody < p.contentLength {
			return nil, false, nil
		}
		req := p.pendingReq
		req.Body = p.buf[p.headerEnd : p.headerEnd+p.contentLength]
		return p.finish(req)
	}

	return nil, false, nil
}

// finish transitions back to HEADERS_INCOMPLETE, retaining any residual
// bytes already buffered past this request's body as the start of the
// next one (spec §4.3 step 4: pipelining-friendly).
func (p *parser) finish(req *request) (*request, bool, error) {
	consumed := p.headerEnd + p.contentLength
	residual := append([]byte(nil), p.buf[consumed:]...)
	p.buf = make([]byte, 0, MaxHeaderSize)
	p.buf = append(p.buf, residual...)
	p.state = stateHeadersIncomplete
	p.headerEnd = 0
	p.contentLength = 0
	p.grownOnce = false
	p.pendingReq = nil
	return req, true, nil
}

func parseHeadBlock(block []byte) (*request, error) {
	lines := strings.Split(strings.TrimRight(string(block), "\r\n"), "\r\n")
	if len(lines) == 0 || lines[0] == "" {
		return nil, cmn.NewErr(cmn.KindIO, "empty request")
	}

	parts := strings.Fields(lines[0])
	if len(parts) != 3 {
		return nil, cmn.NewErr(cmn.KindIO, "malformed request line %q", lines[0])
	}
	method, uri := parts[0], parts[1]

	u, err := url.Parse(uri)
	if err != nil {
		return nil, cmn.WrapErr(cmn.KindIO, err, "malformed URI %q", uri)
	}

	headers := make(map[string]string, len(lines)-1)
	for _, line := range lines[1:] {
		if line == "" {
			continue
		}
		kv := strings.SplitN(line, ":", 2)
		if len(kv) != 2 {
			continue
		}
		headers[strings.ToLower(strings.TrimSpace(kv[0]))] = strings.TrimSpace(kv[1])
	}

	return &request{
		Method:  method,
		URI:     uri,
		Path:    u.Path,
		Query:   u.Query(),
		Headers: headers,
	}, nil
}
