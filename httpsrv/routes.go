package httpsrv

import (
	"io/ioutil"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"

	"github.com/golang/glog"

	"github.com/imaneoujja/IMGFS/cmn"
	"github.com/imaneoujja/IMGFS/imgfs"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

type handlerFunc func(*Server, *request) (*response, error)

type route struct {
	method string
	path   string
	fn     handlerFunc
}

// routeTable is the static (method, URI) -> handler mapping (spec §4.3
// "Dispatch"). A tuple not found here is ERR_INVALID_COMMAND.
var routeTable = []route{
	{"GET", "/imgfs/list", handleList},
	{"POST", "/imgfs/insert", handleInsert},
	{"GET", "/imgfs/read", handleRead},
	{"GET", "/imgfs/delete", handleDelete},
	{"GET", "/", handleIndex},
	{"GET", "/index.html", handleIndex},
}

func (srv *Server) dispatch(req *request) *response {
	srv.Stats.AddRequest()

	for _, r := range routeTable {
		if r.method == req.Method && r.path == req.Path {
			resp, err := r.fn(srv, req)
			if err != nil {
				glog.Warningf("imgfs: %s %s failed: %v", req.Method, req.Path, err)
				return errorResponse(err)
			}
			return resp
		}
	}
	err := cmn.NewErr(cmn.KindInvalidCommand, "no handler for %s %s", req.Method, req.Path)
	glog.Warningf("imgfs: %s %s failed: %v", req.Method, req.Path, err)
	return errorResponse(err)
}

func requireQuery(req *request, keys ...string) error {
	for _, k := range keys {
		if req.Query.Get(k) == "" {
			return cmn.NewErr(cmn.KindNotEnoughArguments, "missing query parameter %q", k)
		}
	}
	return nil
}

func handleList(srv *Server, req *request) (*response, error) {
	listing := srv.Store.List()
	body, err := jsonAPI.Marshal(struct {
		Images []string
	}{Images: listing.Images})
	if err != nil {
		return nil, cmn.WrapErr(cmn.KindRuntime, err, "marshal list response")
	}
	return newResponse(200, map[string]string{"Content-Type": "application/json"}, body), nil
}

func handleInsert(srv *Server, req *request) (*response, error) {
	if err := requireQuery(req, "name"); err != nil {
		return nil, err
	}
	name := req.Query.Get("name")
	if err := srv.Store.Insert(name, req.Body); err != nil {
		return nil, err
	}
	srv.Stats.AddBytesServed(int64(len(req.Body)))
	return newResponse(302, map[string]string{"Location": "/index.html"}, nil), nil
}

func handleRead(srv *Server, req *request) (*response, error) {
	if err := requireQuery(req, "img_id", "res"); err != nil {
		return nil, err
	}
	res, err := imgfs.ParseResolution(req.Query.Get("res"))
	if err != nil {
		return nil, err
	}
	data, err := srv.Store.Read(req.Query.Get("img_id"), res)
	if err != nil {
		return nil, err
	}
	srv.Stats.AddBytesServed(int64(len(data)))
	return newResponse(200, map[string]string{"Content-Type": "image/jpeg"}, data), nil
}

func handleDelete(srv *Server, req *request) (*response, error) {
	if err := requireQuery(req, "img_id"); err != nil {
		return nil, err
	}
	if err := srv.Store.Delete(req.Query.Get("img_id")); err != nil {
		return nil, err
	}
	return newResponse(302, map[string]string{"Location": "/index.html"}, nil), nil
}

func handleIndex(srv *Server, req *request) (*response, error) {
	if srv.IndexPath == "" {
		return newResponse(200, map[string]string{"Content-Type": "text/html"}, []byte("<html><body>imgFS</body></html>")), nil
	}
	body, err := ioutil.ReadFile(filepath.Clean(srv.IndexPath))
	if err != nil {
		return nil, cmn.WrapErr(cmn.KindIO, err, "read index file %s", srv.IndexPath)
	}
	return newResponse(200, map[string]string{"Content-Type": "text/html"}, body), nil
}
