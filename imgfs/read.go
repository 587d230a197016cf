package imgfs

import (
	"github.com/golang/glog"

	"github.com/imaneoujja/IMGFS/cmn"
	"github.com/imaneoujja/IMGFS/codec"
)

// Read returns the bytes of img_id at the given resolution, lazily
// materialising THUMB/SMALL derivatives on first demand (spec §4.2.3).
func (s *Store) Read(imgID string, res Resolution) ([]byte, error) {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	slot := s.findByID(imgID)
	if slot == -1 {
		return nil, cmn.NewErr(cmn.KindImageNotFound, "no image with id %q", imgID)
	}

	if s.Metadata[slot].Size[res] == 0 && res != ResOrig {
		if err := s.lazyResize(slot, res); err != nil {
			return nil, err
		}
	}

	rec := &s.Metadata[slot]
	buf, err := s.readPayload(int64(rec.Offset[res]), rec.Size[res])
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// lazyResize materialises resolution res for slot i on first read (spec
// §4.2.4). The header's version is NOT bumped: lazy materialisation is
// invisible cache work, not a logical mutation of the store. Only meta[i]
// is persisted. On any codec failure the metadata is left untouched and
// KindImgLib is returned.
func (s *Store) lazyResize(i int, res Resolution) error {
	cmn.Assert(res == ResThumb || res == ResSmall)
	rec := &s.Metadata[i]
	if rec.Size[res] != 0 {
		return nil // already materialised; no-op
	}

	orig, err := s.readPayload(int64(rec.Offset[ResOrig]), rec.Size[ResOrig])
	if err != nil {
		return err
	}

	img, err := codec.Decode(orig)
	if err != nil {
		return err
	}

	var w, h uint16
	if res == ResThumb {
		w, h = s.Header.ThumbRes()
	} else {
		w, h = s.Header.SmallRes()
	}
	resized := codec.Thumbnail(img, uint32(w), uint32(h))

	encoded, err := codec.Encode(resized)
	if err != nil {
		return err
	}

	off, err := s.appendPayload(encoded)
	if err != nil {
		return err
	}

	rec.Size[res] = uint32(len(encoded))
	rec.Offset[res] = uint64(off)
	if err := s.writeMetadata(i); err != nil {
		rec.Size[res] = 0
		rec.Offset[res] = 0
		return err
	}

	if s.OnLazyResize != nil {
		s.OnLazyResize()
	}
	glog.Infof("imgfs: lazily materialised %s for slot %d (%d bytes)", res, i, len(encoded))
	return nil
}
