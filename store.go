package bankledger

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Store persists one Document per bank. Writes replace the whole document;
// callers read-modify-write under their own serialization discipline.
type Store interface {
	// Load returns the document for bankName, or ErrNotFound.
	Load(bankName string) (*Document, error)
	// Write fully replaces the document for bankName.
	Write(bankName string, doc *Document) error
	// Create fails with ErrAlreadyExists if a document is already present.
	Create(bankName string, doc *Document) error
	// Delete removes the document. Returns ErrNotFound if absent.
	Delete(bankName string) error
}

// FileStore keeps one JSON file per bank under a directory. Writes go to a
// temp file first and are renamed into place so a crash mid-write cannot
// corrupt the previous document.
type FileStore struct {
	dir string
	log *zerolog.Logger
}

var (
	_ Store = (*FileStore)(nil)
)

func NewFileStore(dir string, log *zerolog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, ErrStorage{Op: "mkdir", Err: err}
	}
	return &FileStore{dir: dir, log: log}, nil
}

func (fs *FileStore) path(bankName string) string {
	return filepath.Join(fs.dir, bankName+".json")
}

func (fs *FileStore) Load(bankName string) (*Document, error) {
	f, err := os.Open(fs.path(bankName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound{Kind: "bank", Name: bankName}
		}
		return nil, ErrStorage{Op: "open", Err: err}
	}
	defer f.Close()

	var doc Document
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, ErrStorage{Op: "decode", Err: err}
	}
	return &doc, nil
}

func (fs *FileStore) Write(bankName string, doc *Document) error {
	return fs.writeAtomic(bankName, doc)
}

func (fs *FileStore) Create(bankName string, doc *Document) error {
	if _, err := os.Stat(fs.path(bankName)); err == nil {
		return ErrAlreadyExists{Kind: "bank", Key: bankName}
	} else if !os.IsNotExist(err) {
		return ErrStorage{Op: "stat", Err: err}
	}
	return fs.writeAtomic(bankName, doc)
}

func (fs *FileStore) Delete(bankName string) error {
	if err := os.Remove(fs.path(bankName)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound{Kind: "bank", Name: bankName}
		}
		return ErrStorage{Op: "remove", Err: err}
	}
	return nil
}

func (fs *FileStore) writeAtomic(bankName string, doc *Document) error {
	path := fs.path(bankName)
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return ErrStorage{Op: "create", Err: err}
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		f.Close()
		return ErrStorage{Op: "encode", Err: err}
	}
	if err := f.Close(); err != nil {
		return ErrStorage{Op: "close", Err: err}
	}

	if err := os.Rename(tmp, path); err != nil {
		return ErrStorage{Op: "rename", Err: err}
	}
	return nil
}
