package imgfs

import (
	"io"
	"os"
	"sync"

	"github.com/OneOfOne/xxhash"
	"github.com/golang/glog"

	"github.com/imaneoujja/IMGFS/cmn"
)

// CreateOpts configures a freshly created store (spec §4.2.7).
type CreateOpts struct {
	MaxFiles  uint32
	ThumbRes  [2]uint16
	SmallRes  [2]uint16
}

const (
	defaultMaxFiles = 128
	hardMaxFiles    = 4096 // sanity ceiling, see SPEC_FULL.md §12
)

// Store owns the open file handle and the in-memory mirror of the
// metadata table. All mutating access goes through Mu: every exported
// operation holds it for its whole duration.
type Store struct {
	Mu   sync.Mutex
	path string
	file *os.File

	Header   Header
	Metadata []MetadataRecord

	// idx maps an xxhash of img_id to the candidate slot indices that
	// hash to it - a fast, purely in-process pre-filter used by findByID
	// (read/delete) in place of a dense scan. dedup does not use it and
	// still scans every slot. It is never persisted;
	// content-addressing on disk is still SHA-256 per spec §3.
	idx map[uint64][]int

	// OnDedupHit and OnLazyResize are optional observability hooks,
	// wired by httpsrv.Server to the running stats.Runner. Left nil by
	// imgfscmd's one-shot CLI invocations, which track no live counters.
	OnDedupHit   func()
	OnLazyResize func()
}

func hashID(id string) uint64 {
	return xxhash.ChecksumString64(id)
}

func (s *Store) indexAdd(slot int, id string) {
	h := hashID(id)
	s.idx[h] = append(s.idx[h], slot)
}

func (s *Store) indexRemove(slot int, id string) {
	h := hashID(id)
	list := s.idx[h]
	for i, v := range list {
		if v == slot {
			s.idx[h] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// findByID returns the unique valid slot index holding img_id, or -1.
func (s *Store) findByID(id string) int {
	for _, slot := range s.idx[hashID(id)] {
		if slot < len(s.Metadata) && s.Metadata[slot].Valid() && s.Metadata[slot].ImgID == id {
			return slot
		}
	}
	return -1
}

// Create stamps a fresh store file: a header plus opts.MaxFiles
// zero-initialised metadata records (spec §4.2.7).
func Create(path string, opts CreateOpts) (*Store, error) {
	if opts.MaxFiles == 0 {
		opts.MaxFiles = defaultMaxFiles
	}
	if opts.MaxFiles > hardMaxFiles {
		return nil, cmn.NewErr(cmn.KindMaxFiles, "max_files %d exceeds ceiling %d", opts.MaxFiles, hardMaxFiles)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, cmn.WrapErr(cmn.KindIO, err, "create store file %s", path)
	}

	s := &Store{
		path: path,
		file: f,
		Header: Header{
			Name:     StoreTag,
			Version:  0,
			NbFiles:  0,
			MaxFiles: opts.MaxFiles,
			ResizedRes: [4]uint16{
				opts.ThumbRes[0], opts.ThumbRes[1],
				opts.SmallRes[0], opts.SmallRes[1],
			},
		},
		Metadata: make([]MetadataRecord, opts.MaxFiles),
		idx:      make(map[uint64][]int, opts.MaxFiles),
	}

	if err := s.writeHeader(); err != nil {
		f.Close()
		return nil, err
	}
	for i := range s.Metadata {
		if err := s.writeMetadata(i); err != nil {
			f.Close()
			return nil, err
		}
	}
	glog.Infof("imgfs: created store %s (max_files=%d, thumb=%dx%d, small=%dx%d)",
		path, opts.MaxFiles, opts.ThumbRes[0], opts.ThumbRes[1], opts.SmallRes[0], opts.SmallRes[1])
	return s, nil
}

// Open reads an existing store's header and metadata table into memory.
func Open(path string) (*Store, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, cmn.WrapErr(cmn.KindIO, err, "open store file %s", path)
	}

	hbuf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(f, hbuf); err != nil {
		f.Close()
		return nil, cmn.WrapErr(cmn.KindIO, err, "read header of %s", path)
	}
	header := unmarshalHeader(hbuf)

	s := &Store{
		path:     path,
		file:     f,
		Header:   header,
		Metadata: make([]MetadataRecord, header.MaxFiles),
		idx:      make(map[uint64][]int, header.MaxFiles),
	}

	mbuf := make([]byte, MetadataSize)
	for i := uint32(0); i < header.MaxFiles; i++ {
		if _, err := io.ReadFull(f, mbuf); err != nil {
			f.Close()
			return nil, cmn.WrapErr(cmn.KindIO, err, "read metadata slot %d of %s", i, path)
		}
		rec := unmarshalMetadata(mbuf)
		s.Metadata[i] = rec
		if rec.Valid() {
			s.indexAdd(int(i), rec.ImgID)
		}
	}
	glog.Infof("imgfs: opened store %s (nb_files=%d/%d, version=%d)", path, header.NbFiles, header.MaxFiles, header.Version)
	return s, nil
}

// Close flushes and releases the file handle. Idempotent; never fails.
func (s *Store) Close() {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	if s.file == nil {
		return
	}
	if err := s.file.Sync(); err != nil {
		glog.Warningf("imgfs: sync %s on close: %v", s.path, err)
	}
	if err := s.file.Close(); err != nil {
		glog.Warningf("imgfs: close %s: %v", s.path, err)
	}
	s.file = nil
}

func (s *Store) writeHeader() error {
	if _, err := s.file.WriteAt(s.Header.marshal(), 0); err != nil {
		return cmn.WrapErr(cmn.KindIO, err, "write header of %s", s.path)
	}
	return nil
}

func (s *Store) writeMetadata(slot int) error {
	cmn.AssertMsg(slot >= 0 && slot < len(s.Metadata), "slot %d out of range [0,%d)", slot, len(s.Metadata))
	buf := s.Metadata[slot].marshal()
	if _, err := s.file.WriteAt(buf, metadataOffset(slot)); err != nil {
		return cmn.WrapErr(cmn.KindIO, err, "write metadata slot %d of %s", slot, s.path)
	}
	return nil
}

// appendPayload seeks to the end of the payload region and writes bytes,
// returning the offset they were written at.
func (s *Store) appendPayload(data []byte) (int64, error) {
	off, err := s.file.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, cmn.WrapErr(cmn.KindIO, err, "seek end of %s", s.path)
	}
	n, err := s.file.Write(data)
	if err != nil {
		return 0, cmn.WrapErr(cmn.KindIO, err, "append payload to %s", s.path)
	}
	if n != len(data) {
		return 0, cmn.NewErr(cmn.KindIO, "short write appending payload to %s", s.path)
	}
	return off, nil
}

// readPayload performs a random-access read of size bytes at offset.
func (s *Store) readPayload(offset int64, size uint32) ([]byte, error) {
	buf := make([]byte, size)
	if _, err := s.file.ReadAt(buf, offset); err != nil {
		return nil, cmn.WrapErr(cmn.KindIO, err, "read payload at %d of %s", offset, s.path)
	}
	return buf, nil
}
