package imgfs

import "testing"

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{
		Name:       StoreTag,
		Version:    7,
		NbFiles:    3,
		MaxFiles:   128,
		ResizedRes: [4]uint16{64, 64, 256, 256},
	}
	got := unmarshalHeader(h.marshal())
	if got.Name != h.Name || got.Version != h.Version || got.NbFiles != h.NbFiles ||
		got.MaxFiles != h.MaxFiles || got.ResizedRes != h.ResizedRes {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", got, h)
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	m := MetadataRecord{
		ImgID:   "some-image.jpg",
		OrigRes: [2]uint32{800, 600},
		Size:    [3]uint32{100, 200, 9000},
		Offset:  [3]uint64{64, 164, 1000},
		IsValid: isNonEmpty,
	}
	for i := range m.Sha {
		m.Sha[i] = byte(i)
	}

	got := unmarshalMetadata(m.marshal())
	if got.ImgID != m.ImgID || got.OrigRes != m.OrigRes || got.Size != m.Size ||
		got.Offset != m.Offset || got.IsValid != m.IsValid || got.Sha != m.Sha {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", got, m)
	}
}

func TestMetadataOffsetsAreDense(t *testing.T) {
	if metadataOffset(0) != int64(HeaderSize) {
		t.Fatalf("slot 0 offset = %d, want %d", metadataOffset(0), HeaderSize)
	}
	if metadataOffset(1) != int64(HeaderSize)+int64(MetadataSize) {
		t.Fatalf("slot 1 offset wrong")
	}
	if payloadRegionStart(10) != int64(HeaderSize)+10*int64(MetadataSize) {
		t.Fatalf("payload region start wrong")
	}
}
