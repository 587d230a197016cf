package imgfs

import (
	"github.com/golang/glog"

	"github.com/imaneoujja/IMGFS/cmn"
)

// Delete invalidates the slot holding img_id (spec §4.2.6). Payload bytes
// are never reclaimed: a subsequent insert may reuse the slot, but it
// cannot recover the offsets the deleted slot pointed at.
func (s *Store) Delete(imgID string) error {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	slot := s.findByID(imgID)
	if slot == -1 {
		return cmn.NewErr(cmn.KindImageNotFound, "no image with id %q", imgID)
	}

	s.Metadata[slot].IsValid = isEmpty
	if err := s.writeMetadata(slot); err != nil {
		s.Metadata[slot].IsValid = isNonEmpty
		return err
	}
	s.indexRemove(slot, imgID)

	s.Header.NbFiles--
	s.Header.Version++
	if err := s.writeHeader(); err != nil {
		return err
	}

	glog.Infof("imgfs: delete %q (slot %d)", imgID, slot)
	return nil
}
