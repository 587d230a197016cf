package imgfs

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/imaneoujja/IMGFS/cmn"
)

// ListJSON is the structured form of list (spec §4.3's list response
// shape): just the img_ids of every valid slot, in increasing slot order.
type ListJSON struct {
	Images []string
}

// List returns the img_id of every valid slot, in increasing slot index
// order. Never mutates the store.
func (s *Store) List() ListJSON {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	out := ListJSON{Images: make([]string, 0, s.Header.NbFiles)}
	for _, rec := range s.Metadata {
		if rec.Valid() {
			out.Images = append(out.Images, rec.ImgID)
		}
	}
	return out
}

// Dump renders the human-readable stdout form: the header fields followed
// by one line per valid metadata record, in increasing slot order. When
// NbFiles is 0, an explicit "empty" marker is emitted instead of a record
// dump (see original_source/done/imgfs_tools.c's print_header/print_metadata,
// carried into SPEC_FULL.md §12).
func (s *Store) Dump() string {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	var b strings.Builder
	// strings.Builder.Write never fails; fmt.Fprintf's returned error is
	// always nil here, so assert it rather than thread it through Dump's
	// signature.
	emit := func(format string, args ...interface{}) {
		_, err := fmt.Fprintf(&b, format, args...)
		cmn.AssertNoErr(err)
	}

	h := s.Header
	emit("*** imgFS Header ***\n")
	emit("name: %s\n", h.Name)
	emit("version: %d\n", h.Version)
	emit("nb_files: %d\n", h.NbFiles)
	emit("max_files: %d\n", h.MaxFiles)
	emit("thumb_res: %dx%d\n", h.ResizedRes[0], h.ResizedRes[1])
	emit("small_res: %dx%d\n", h.ResizedRes[2], h.ResizedRes[3])

	if h.NbFiles == 0 {
		emit("*** imgFS is empty ***\n")
		return b.String()
	}

	emit("*** imgFS Metadata ***\n")
	for i, rec := range s.Metadata {
		if !rec.Valid() {
			continue
		}
		emit("slot %d: img_id=%s sha=%s orig=%dx%d size[T,S,O]=%d,%d,%d offset[T,S,O]=%d,%d,%d\n",
			i, rec.ImgID, hex.EncodeToString(rec.Sha[:]), rec.OrigRes[0], rec.OrigRes[1],
			rec.Size[ResThumb], rec.Size[ResSmall], rec.Size[ResOrig],
			rec.Offset[ResThumb], rec.Offset[ResSmall], rec.Offset[ResOrig])
	}
	return b.String()
}
