package imgfs

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/imaneoujja/IMGFS/cmn"
)

func makeJPEG(t *testing.T, w, h int, fill color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode fixture jpeg: %v", err)
	}
	return buf.Bytes()
}

func newTestStore(t *testing.T, maxFiles uint32) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.imgfs")
	store, err := Create(path, CreateOpts{
		MaxFiles: maxFiles,
		ThumbRes: [2]uint16{64, 64},
		SmallRes: [2]uint16{256, 256},
	})
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	return store, path
}

func TestCreateInsertReadOriginal(t *testing.T) {
	store, path := newTestStore(t, 4)
	defer store.Close()

	b := makeJPEG(t, 32, 32, color.RGBA{255, 0, 0, 255})
	if err := store.Insert("cat.jpg", b); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := store.Read("cat.jpg", ResOrig)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, b) {
		t.Fatalf("round-trip mismatch: got %d bytes, want %d", len(got), len(b))
	}

	listing := store.List()
	if len(listing.Images) != 1 || listing.Images[0] != "cat.jpg" {
		t.Fatalf("unexpected listing: %v", listing.Images)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	wantSize := int64(HeaderSize) + 4*int64(MetadataSize) + int64(len(b))
	if info.Size() != wantSize {
		t.Fatalf("file size = %d, want %d", info.Size(), wantSize)
	}
}

func TestLazyThumbMaterialisation(t *testing.T) {
	store, path := newTestStore(t, 4)
	defer store.Close()

	b := makeJPEG(t, 32, 32, color.RGBA{0, 255, 0, 255})
	if err := store.Insert("cat.jpg", b); err != nil {
		t.Fatalf("insert: %v", err)
	}

	versionBefore := store.Header.Version

	thumb1, err := store.Read("cat.jpg", ResThumb)
	if err != nil {
		t.Fatalf("first thumb read: %v", err)
	}
	if len(thumb1) == 0 {
		t.Fatal("thumb payload empty")
	}

	slot := store.findByID("cat.jpg")
	if store.Metadata[slot].Size[ResThumb] == 0 {
		t.Fatal("size[THUMB] still 0 after materialisation")
	}
	if store.Metadata[slot].Offset[ResThumb] < uint64(payloadRegionStart(store.Header.MaxFiles)) {
		t.Fatalf("offset[THUMB] = %d, not in payload region", store.Metadata[slot].Offset[ResThumb])
	}
	if store.Header.Version != versionBefore {
		t.Fatalf("version changed on lazy resize: before=%d after=%d", versionBefore, store.Header.Version)
	}

	sizeAfterFirst, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	thumb2, err := store.Read("cat.jpg", ResThumb)
	if err != nil {
		t.Fatalf("second thumb read: %v", err)
	}
	if !bytes.Equal(thumb1, thumb2) {
		t.Fatal("lazy resize not idempotent: byte mismatch across reads")
	}

	sizeAfterSecond, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if sizeAfterFirst.Size() != sizeAfterSecond.Size() {
		t.Fatalf("payload region grew on second read: %d -> %d", sizeAfterFirst.Size(), sizeAfterSecond.Size())
	}
}

func TestContentDedup(t *testing.T) {
	store, path := newTestStore(t, 4)
	defer store.Close()

	b := makeJPEG(t, 16, 16, color.RGBA{10, 20, 30, 255})
	if err := store.Insert("a", b); err != nil {
		t.Fatalf("insert a: %v", err)
	}
	sizeAfterA, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Insert("b", b); err != nil {
		t.Fatalf("insert b: %v", err)
	}
	if store.Header.NbFiles != 2 {
		t.Fatalf("nb_files = %d, want 2", store.Header.NbFiles)
	}

	sizeAfterB, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if sizeAfterB.Size() != sizeAfterA.Size() {
		t.Fatalf("payload region grew by dedup insert: %d -> %d", sizeAfterA.Size(), sizeAfterB.Size())
	}

	got, err := store.Read("b", ResOrig)
	if err != nil || !bytes.Equal(got, b) {
		t.Fatalf("read b after dedup: got=%v err=%v", got, err)
	}

	if err := store.Delete("a"); err != nil {
		t.Fatalf("delete a: %v", err)
	}

	got, err = store.Read("b", ResOrig)
	if err != nil || !bytes.Equal(got, b) {
		t.Fatalf("read b after deleting a: got=%v err=%v", got, err)
	}
}

func TestDuplicateID(t *testing.T) {
	store, _ := newTestStore(t, 4)
	defer store.Close()

	b1 := makeJPEG(t, 16, 16, color.RGBA{1, 1, 1, 255})
	b2 := makeJPEG(t, 16, 16, color.RGBA{2, 2, 2, 255})

	if err := store.Insert("a", b1); err != nil {
		t.Fatalf("insert a: %v", err)
	}
	versionBefore := store.Header.Version

	err := store.Insert("a", b2)
	if err == nil {
		t.Fatal("expected DuplicateID error")
	}
	if cmn.KindOf(err) != cmn.KindDuplicateID {
		t.Fatalf("got kind %v, want DuplicateID", cmn.KindOf(err))
	}
	if store.Header.NbFiles != 1 {
		t.Fatalf("nb_files = %d, want 1", store.Header.NbFiles)
	}
	if store.Header.Version != versionBefore {
		t.Fatalf("version changed on failed insert: before=%d after=%d", versionBefore, store.Header.Version)
	}
}

func TestDeleteCleanup(t *testing.T) {
	store, _ := newTestStore(t, 4)
	defer store.Close()

	b := makeJPEG(t, 16, 16, color.RGBA{5, 5, 5, 255})
	if err := store.Insert("a", b); err != nil {
		t.Fatalf("insert: %v", err)
	}
	nbBefore := store.Header.NbFiles - 1

	if err := store.Delete("a"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	listing := store.List()
	for _, id := range listing.Images {
		if id == "a" {
			t.Fatal("deleted id still listed")
		}
	}
	if store.Header.NbFiles != nbBefore {
		t.Fatalf("nb_files = %d, want %d", store.Header.NbFiles, nbBefore)
	}
}

func TestStatsHooksFireOnDedupAndLazyResize(t *testing.T) {
	store, _ := newTestStore(t, 4)
	defer store.Close()

	var dedupHits, lazyResizes int
	store.OnDedupHit = func() { dedupHits++ }
	store.OnLazyResize = func() { lazyResizes++ }

	b := makeJPEG(t, 16, 16, color.RGBA{9, 9, 9, 255})
	if err := store.Insert("a", b); err != nil {
		t.Fatalf("insert a: %v", err)
	}
	if dedupHits != 0 {
		t.Fatalf("dedupHits = %d after first insert, want 0", dedupHits)
	}

	if err := store.Insert("b", b); err != nil {
		t.Fatalf("insert b: %v", err)
	}
	if dedupHits != 1 {
		t.Fatalf("dedupHits = %d after duplicate insert, want 1", dedupHits)
	}

	if _, err := store.Read("a", ResThumb); err != nil {
		t.Fatalf("read thumb: %v", err)
	}
	if lazyResizes != 1 {
		t.Fatalf("lazyResizes = %d after first thumb read, want 1", lazyResizes)
	}

	if _, err := store.Read("a", ResThumb); err != nil {
		t.Fatalf("second read thumb: %v", err)
	}
	if lazyResizes != 1 {
		t.Fatalf("lazyResizes = %d after already-materialised read, want 1", lazyResizes)
	}
}

func TestCapacityEdge(t *testing.T) {
	store, _ := newTestStore(t, 2)
	defer store.Close()

	b1 := makeJPEG(t, 8, 8, color.RGBA{1, 0, 0, 255})
	b2 := makeJPEG(t, 8, 8, color.RGBA{0, 1, 0, 255})
	b3 := makeJPEG(t, 8, 8, color.RGBA{0, 0, 1, 255})

	if err := store.Insert("a", b1); err != nil {
		t.Fatalf("insert a: %v", err)
	}
	if err := store.Insert("b", b2); err != nil {
		t.Fatalf("insert b: %v", err)
	}

	err := store.Insert("c", b3)
	if err == nil || cmn.KindOf(err) != cmn.KindImgfsFull {
		t.Fatalf("expected ImgfsFull, got %v", err)
	}

	if err := store.Delete("a"); err != nil {
		t.Fatalf("delete a: %v", err)
	}

	if err := store.Insert("c", b3); err != nil {
		t.Fatalf("insert c after delete: %v", err)
	}
	slot := store.findByID("c")
	if slot != 0 {
		t.Fatalf("reused slot = %d, want 0", slot)
	}
}
