// Package ledger persists the tracked product records between scan
// cycles. The file backend keeps the hand-editable JSON document; the
// postgres backend holds the same records in a table for shared
// deployments.
package ledger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"

	"offerwatch/internal/domain"
	"offerwatch/internal/domain/entity"
	"offerwatch/pkg/errcodes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type ledgerDocument struct {
	Products []entity.Product `json:"products"`
}

// File reads and rewrites a single JSON document of the form
// {"products": [...]}. Saves go through a temp file in the same
// directory so a crash mid-write never truncates the ledger.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Load(_ context.Context) ([]entity.Product, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.MalformedLedger,
			fmt.Sprintf("read ledger %s", f.path))
	}

	var doc ledgerDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, domain.WrapError(err, errcodes.MalformedLedger,
			fmt.Sprintf("decode ledger %s", f.path))
	}

	return doc.Products, nil
}

func (f *File) Save(_ context.Context, products []entity.Product) error {
	if products == nil {
		products = []entity.Product{}
	}

	data, err := json.MarshalIndent(ledgerDocument{Products: products}, "", "  ")
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "encode ledger")
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*")
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "create ledger temp file")
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return domain.WrapError(err, errcodes.InternalServerError, "write ledger temp file")
	}

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return domain.WrapError(err, errcodes.InternalServerError, "chmod ledger temp file")
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return domain.WrapError(err, errcodes.InternalServerError, "close ledger temp file")
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return domain.WrapError(err, errcodes.InternalServerError,
			fmt.Sprintf("replace ledger %s", f.path))
	}

	return nil
}
