// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"github.com/poiesic/corpora/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	var id core.ID
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalRawDocument serializes a RawDocument to bytes.
func MarshalRawDocument(doc *core.RawDocument) []byte {
	buf := make([]byte, core.RawDocumentMUS.Size(*doc))
	core.RawDocumentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalRawDocument deserializes a RawDocument from bytes.
func UnmarshalRawDocument(data []byte) (*core.RawDocument, error) {
	doc, _, err := core.RawDocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// MarshalIndexedEntry serializes an IndexedEntry to bytes.
func MarshalIndexedEntry(entry *core.IndexedEntry) []byte {
	buf := make([]byte, core.IndexedEntryMUS.Size(*entry))
	core.IndexedEntryMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalIndexedEntry deserializes an IndexedEntry from bytes.
func UnmarshalIndexedEntry(data []byte) (*core.IndexedEntry, error) {
	entry, _, err := core.IndexedEntryMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
