package imgfs

import (
	"crypto/sha256"

	"github.com/golang/glog"

	"github.com/imaneoujja/IMGFS/cmn"
	"github.com/imaneoujja/IMGFS/codec"
)

// Insert adds a new logical image to the store (spec §4.2.2). Preconditions:
// 1 <= len(imgID) <= 127, and bytes is non-empty.
func (s *Store) Insert(imgID string, bytes []byte) error {
	if len(imgID) == 0 || len(imgID) > maxImgIDLen {
		return cmn.NewErr(cmn.KindInvalidImgID, "img_id length %d out of range [1, %d]", len(imgID), maxImgIDLen)
	}
	if len(bytes) == 0 {
		return cmn.NewErr(cmn.KindInvalidArgument, "empty image body")
	}

	s.Mu.Lock()
	defer s.Mu.Unlock()

	if s.Header.NbFiles == s.Header.MaxFiles {
		return cmn.NewErr(cmn.KindImgfsFull, "store is full (%d/%d)", s.Header.NbFiles, s.Header.MaxFiles)
	}

	slot := -1
	for i := range s.Metadata {
		if !s.Metadata[i].Valid() {
			slot = i
			break
		}
	}
	if slot == -1 {
		return cmn.NewErr(cmn.KindImgfsFull, "no empty slot available")
	}

	width, height, err := codec.Dimensions(bytes)
	if err != nil {
		return err
	}
	sha := sha256.Sum256(bytes)

	draft := MetadataRecord{
		ImgID:   imgID,
		Sha:     sha,
		OrigRes: [2]uint32{width, height},
		IsValid: isNonEmpty,
	}
	draft.Size[ResOrig] = uint32(len(bytes))
	// offset[ORIG] left at 0: dedup fills it from a content match, or
	// leaves it 0 to signal the caller (below) to append the payload.
	s.Metadata[slot] = draft

	matched, err := s.dedup(slot)
	if err != nil {
		// restore the empty slot - dedup found a DuplicateId or failed.
		s.Metadata[slot] = MetadataRecord{}
		return err
	}

	if !matched {
		off, err := s.appendPayload(bytes)
		if err != nil {
			s.Metadata[slot] = MetadataRecord{}
			return err
		}
		s.Metadata[slot].Offset[ResOrig] = uint64(off)
	} else if s.OnDedupHit != nil {
		s.OnDedupHit()
	}

	s.Header.NbFiles++
	s.Header.Version++
	if err := s.writeHeader(); err != nil {
		return err
	}
	if err := s.writeMetadata(slot); err != nil {
		return err
	}
	s.indexAdd(slot, imgID)

	glog.Infof("imgfs: insert %q (slot %d, %d bytes, dedup=%v)", imgID, slot, len(bytes), matched)
	return nil
}

// dedup scans every valid slot j != i looking for an img_id collision or a
// content (SHA-256) match, per spec §4.2.5. The scan covers every slot up
// to MaxFiles, not just NbFiles, since deletes can leave holes below the
// last valid index. It returns whether a content match was found; when it
// was, every resolution's offset and size was copied from the match so
// invariant 5 (size==0 iff offset==0) keeps holding for the new slot too.
func (s *Store) dedup(i int) (matched bool, err error) {
	target := &s.Metadata[i]
	for j := range s.Metadata {
		if j == i || !s.Metadata[j].Valid() {
			continue
		}
		other := &s.Metadata[j]
		if other.ImgID == target.ImgID {
			return false, cmn.NewErr(cmn.KindDuplicateID, "img_id %q already present", target.ImgID)
		}
		if !matched && other.Sha == target.Sha {
			target.Offset = other.Offset
			target.Size = other.Size
			matched = true
			// keep scanning: a later slot could still collide on img_id.
		}
	}
	return matched, nil
}
