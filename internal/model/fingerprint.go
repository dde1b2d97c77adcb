package model

import (
	"encoding/binary"
	"math"

	"github.com/zeebo/xxh3"
)

// fingerprint hashes the canonical (sorted, normalized) encoding of a problem.
// Two problems with equal fingerprints have identical variables and coefficients.
func fingerprint(p *Problem) uint64 {
	buf := make([]byte, 0, 64*(len(p.items)+len(p.shelves)))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(p.slotLimit))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(p.items)))
	for _, item := range p.items {
		buf = appendString(buf, item.ID)
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(item.Volume))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(item.Par))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(item.Frequency))
	}
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(p.shelves)))
	for _, shelf := range p.shelves {
		buf = appendString(buf, shelf.ID)
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(shelf.Distance))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(shelf.Capacity))
	}
	return xxh3.Hash(buf)
}

func appendString(buf []byte, s string) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}
