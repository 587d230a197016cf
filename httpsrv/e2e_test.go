package httpsrv_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"io/ioutil"
	"net/http"
	"path/filepath"
	"testing"

	jsoniter "github.com/json-iterator/go"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/imaneoujja/IMGFS/httpsrv"
	"github.com/imaneoujja/IMGFS/imgfs"
	"github.com/imaneoujja/IMGFS/stats"
)

func TestHTTPEngine(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "imgfs HTTP engine")
}

func fixtureJPEG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{100, 150, 200, 255})
		}
	}
	var buf bytes.Buffer
	_ = jpeg.Encode(&buf, img, nil)
	return buf.Bytes()
}

var _ = Describe("full HTTP flow", func() {
	var (
		srv  *httpsrv.Server
		base string
	)

	BeforeEach(func() {
		dir, err := ioutil.TempDir("", "imgfs-e2e")
		Expect(err).NotTo(HaveOccurred())

		path := filepath.Join(dir, "store.imgfs")
		store, err := imgfs.Create(path, imgfs.CreateOpts{
			MaxFiles: 16,
			ThumbRes: [2]uint16{64, 64},
			SmallRes: [2]uint16{256, 256},
		})
		Expect(err).NotTo(HaveOccurred())

		statsRunner, err := stats.NewRunner("")
		Expect(err).NotTo(HaveOccurred())

		srv = &httpsrv.Server{Store: store, Stats: statsRunner}
		Expect(srv.Start("127.0.0.1", 0)).To(Succeed())
		base = "http://" + srv.Addr()
	})

	AfterEach(func() {
		srv.Shutdown()
	})

	It("inserts, reads at a derived resolution, lists, and deletes", func() {
		noRedirect := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
		body := fixtureJPEG(32, 32)

		req, err := http.NewRequest(http.MethodPost, base+"/imgfs/insert?name=cat.jpg", bytes.NewReader(body))
		Expect(err).NotTo(HaveOccurred())
		resp, err := noRedirect.Do(req)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusFound))

		resp, err = http.Get(base + "/imgfs/read?img_id=cat.jpg&res=small")
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(resp.Header.Get("Content-Type")).To(Equal("image/jpeg"))

		data, err := ioutil.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Width).To(Equal(256))
		Expect(cfg.Height).To(Equal(256))

		resp, err = http.Get(base + "/imgfs/list")
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		var listing struct{ Images []string }
		Expect(jsoniter.NewDecoder(resp.Body).Decode(&listing)).To(Succeed())
		Expect(listing.Images).To(Equal([]string{"cat.jpg"}))

		req, err = http.NewRequest(http.MethodGet, base+"/imgfs/delete?img_id=cat.jpg", nil)
		Expect(err).NotTo(HaveOccurred())
		resp, err = noRedirect.Do(req)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusFound))

		resp, err = http.Get(base + "/imgfs/list")
		Expect(err).NotTo(HaveOccurred())
		Expect(jsoniter.NewDecoder(resp.Body).Decode(&listing)).To(Succeed())
		Expect(listing.Images).To(BeEmpty())
	})

	It("reports InvalidCommand for an unknown route", func() {
		resp, err := http.Get(base + "/imgfs/frobnicate")
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
		data, _ := ioutil.ReadAll(resp.Body)
		Expect(string(data)).To(Equal("InvalidCommand"))
	})

	It("reports NotEnoughArguments when a required query var is missing", func() {
		resp, err := http.Get(base + "/imgfs/read?img_id=ghost")
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
		data, _ := ioutil.ReadAll(resp.Body)
		Expect(string(data)).To(Equal("NotEnoughArguments"))
	})

	It("reports ImageNotFound for an unknown id", func() {
		resp, err := http.Get(base + "/imgfs/read?img_id=ghost&res=orig")
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
		data, _ := ioutil.ReadAll(resp.Body)
		Expect(string(data)).To(Equal("ImageNotFound"))
	})
})
