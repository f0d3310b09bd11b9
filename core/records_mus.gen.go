// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	maphUXKbZQ2Δj91UBΔTScDFQAΞΞ   = ord.NewMapSer[string, string](ord.String, ord.String)
	sliceefx976PQak8aNgmRQhZbtgΞΞ = ord.NewSliceSer[float32](varint.Float32)
)

var IDMUS = iDMUS{}

type iDMUS struct{}

func (s iDMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s iDMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ID(tmp)
	return
}

func (s iDMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s iDMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var MetadataMUS = metadataMUS{}

type metadataMUS struct{}

func (s metadataMUS) Marshal(v Metadata, bs []byte) (n int) {
	n = ord.String.Marshal(v.Category, bs)
	n += ord.String.Marshal(v.Source, bs[n:])
	n += ord.String.Marshal(v.DocumentType, bs[n:])
	n += ord.String.Marshal(v.Platform, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.CreatedAt, bs[n:])
	return n + maphUXKbZQ2Δj91UBΔTScDFQAΞΞ.Marshal(v.Extra, bs[n:])
}

func (s metadataMUS) Unmarshal(bs []byte) (v Metadata, n int, err error) {
	v.Category, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Source, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.DocumentType, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Platform, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Extra, n1, err = maphUXKbZQ2Δj91UBΔTScDFQAΞΞ.Unmarshal(bs[n:])
	n += n1
	return
}

func (s metadataMUS) Size(v Metadata) (size int) {
	size = ord.String.Size(v.Category)
	size += ord.String.Size(v.Source)
	size += ord.String.Size(v.DocumentType)
	size += ord.String.Size(v.Platform)
	size += raw.TimeUnixMicro.Size(v.CreatedAt)
	return size + maphUXKbZQ2Δj91UBΔTScDFQAΞΞ.Size(v.Extra)
}

func (s metadataMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = maphUXKbZQ2Δj91UBΔTScDFQAΞΞ.Skip(bs[n:])
	n += n1
	return
}

var RawDocumentMUS = rawDocumentMUS{}

type rawDocumentMUS struct{}

func (s rawDocumentMUS) Marshal(v RawDocument, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.DocID, bs[n:])
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.Source, bs[n:])
	n += ord.String.Marshal(v.Content, bs[n:])
	n += MetadataMUS.Marshal(v.Metadata, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.IndexedAt, bs[n:])
	return n + varint.Int.Marshal(v.ChunkCount, bs[n:])
}

func (s rawDocumentMUS) Unmarshal(bs []byte) (v RawDocument, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.DocID, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Source, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Metadata, n1, err = MetadataMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.IndexedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ChunkCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	return
}

func (s rawDocumentMUS) Size(v RawDocument) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.DocID)
	size += ord.String.Size(v.Title)
	size += ord.String.Size(v.Source)
	size += ord.String.Size(v.Content)
	size += MetadataMUS.Size(v.Metadata)
	size += raw.TimeUnixMicro.Size(v.IndexedAt)
	return size + varint.Int.Size(v.ChunkCount)
}

func (s rawDocumentMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = MetadataMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	return
}

var ChunkMUS = chunkMUS{}

type chunkMUS struct{}

func (s chunkMUS) Marshal(v Chunk, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.DocumentId, bs[n:])
	n += ord.String.Marshal(v.Content, bs[n:])
	n += varint.Int.Marshal(v.Ordinal, bs[n:])
	n += varint.Int.Marshal(v.TotalChunks, bs[n:])
	n += varint.Int.Marshal(v.StartOffset, bs[n:])
	n += varint.Int.Marshal(v.EndOffset, bs[n:])
	n += varint.Int.Marshal(v.WordCount, bs[n:])
	n += varint.Int.Marshal(v.SentenceCount, bs[n:])
	n += ord.String.Marshal(v.Strategy, bs[n:])
	return n + varint.Int.Marshal(v.OverlapWords, bs[n:])
}

func (s chunkMUS) Unmarshal(bs []byte) (v Chunk, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.DocumentId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Ordinal, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.TotalChunks, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.StartOffset, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.EndOffset, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.WordCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SentenceCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Strategy, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.OverlapWords, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	return
}

func (s chunkMUS) Size(v Chunk) (size int) {
	size = IDMUS.Size(v.Id)
	size += IDMUS.Size(v.DocumentId)
	size += ord.String.Size(v.Content)
	size += varint.Int.Size(v.Ordinal)
	size += varint.Int.Size(v.TotalChunks)
	size += varint.Int.Size(v.StartOffset)
	size += varint.Int.Size(v.EndOffset)
	size += varint.Int.Size(v.WordCount)
	size += varint.Int.Size(v.SentenceCount)
	size += ord.String.Size(v.Strategy)
	return size + varint.Int.Size(v.OverlapWords)
}

func (s chunkMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = IDMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	return
}

var IndexedEntryMUS = indexedEntryMUS{}

type indexedEntryMUS struct{}

func (s indexedEntryMUS) Marshal(v IndexedEntry, bs []byte) (n int) {
	n = ChunkMUS.Marshal(v.Chunk, bs)
	n += sliceefx976PQak8aNgmRQhZbtgΞΞ.Marshal(v.Vector, bs[n:])
	return n + MetadataMUS.Marshal(v.Metadata, bs[n:])
}

func (s indexedEntryMUS) Unmarshal(bs []byte) (v IndexedEntry, n int, err error) {
	v.Chunk, n, err = ChunkMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Vector, n1, err = sliceefx976PQak8aNgmRQhZbtgΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Metadata, n1, err = MetadataMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (s indexedEntryMUS) Size(v IndexedEntry) (size int) {
	size = ChunkMUS.Size(v.Chunk)
	size += sliceefx976PQak8aNgmRQhZbtgΞΞ.Size(v.Vector)
	return size + MetadataMUS.Size(v.Metadata)
}

func (s indexedEntryMUS) Skip(bs []byte) (n int, err error) {
	n, err = ChunkMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = sliceefx976PQak8aNgmRQhZbtgΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = MetadataMUS.Skip(bs[n:])
	n += n1
	return
}
