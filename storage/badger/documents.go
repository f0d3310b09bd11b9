package badger

import (
	"bytes"
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a document repository over the backend.
//
// Returns the storage.DocumentRepository interface to enforce abstraction.
func NewDocumentRepository(backend *Backend) (storage.DocumentRepository, error) {
	return &DocumentRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns the database lifecycle.
func (r *DocumentRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *DocumentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutDocument stores a document, replacing any prior document with the same
// DocID.
func (r *DocumentRepository) PutDocument(ctx context.Context, doc *core.RawDocument) error {
	if err := core.ValidateDocument(doc); err != nil {
		return err
	}
	doc.Id = core.IDFromContent(doc.DocID)

	return r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		key := makeDocumentKey(doc.DocID)
		if err := tx.Set(key, storage.MarshalRawDocument(doc)); err != nil {
			return err
		}
		if err := tx.Set(makeDocumentIDKey(doc.Id), []byte(doc.DocID)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetDocument retrieves a document by DocID.
func (r *DocumentRepository) GetDocument(ctx context.Context, docID string) (*core.RawDocument, error) {
	var result *core.RawDocument
	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		var err error
		result, err = readDocument(tx, makeDocumentKey(docID))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetDocumentByID retrieves a document by its content-hash ID.
func (r *DocumentRepository) GetDocumentByID(ctx context.Context, id core.ID) (*core.RawDocument, error) {
	var result *core.RawDocument
	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		item, err := tx.Get(makeDocumentIDKey(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		var docID string
		if err := item.Value(func(val []byte) error {
			docID = string(val)
			return nil
		}); err != nil {
			return err
		}
		result, err = readDocument(tx, makeDocumentKey(docID))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// DeleteDocument removes a document by DocID.
func (r *DocumentRepository) DeleteDocument(ctx context.Context, docID string) error {
	return r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		key := makeDocumentKey(docID)
		if _, err := tx.Get(key); err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		if err := tx.Delete(makeDocumentIDKey(core.IDFromContent(docID))); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ListDocuments returns all stored documents ordered by DocID.
func (r *DocumentRepository) ListDocuments(ctx context.Context) ([]*core.RawDocument, error) {
	var results []*core.RawDocument
	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var doc *core.RawDocument
			err := iter.Item().Value(func(val []byte) error {
				var err error
				doc, err = storage.UnmarshalRawDocument(val)
				return err
			})
			if err != nil {
				return err
			}
			if doc != nil {
				results = append(results, doc)
			}
		}
		return nil
	}, false)
	return results, err
}

// CountDocuments returns the number of stored documents.
func (r *DocumentRepository) CountDocuments(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if bytes.HasPrefix(iter.Item().Key(), opts.Prefix) {
				count++
			}
		}
		return nil
	}, false)
	return count, err
}

// readDocument reads a raw document from the transaction.
// Returns nil without error when the key is absent.
func readDocument(tx *badger.Txn, key []byte) (*core.RawDocument, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var doc *core.RawDocument
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		doc, unmarshalErr = storage.UnmarshalRawDocument(val)
		return unmarshalErr
	})
	return doc, err
}
