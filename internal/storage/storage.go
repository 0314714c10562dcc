// Package storage keeps uploaded files on the public disk.
package storage

import (
	"context"
	iofs "io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// FileStorage stores uploaded files and hands back a reference to them
type FileStorage interface {
	// Store writes data under dir with a generated name and returns its reference
	Store(ctx context.Context, dir string, data []byte, ext string) (string, error)

	// Delete removes the referenced file; a missing file is not an error
	Delete(ctx context.Context, ref string) error

	// Exists reports whether the referenced file is present
	Exists(ref string) bool
}

// Disk is a FileStorage backed by an afero filesystem
type Disk struct {
	fs afero.Fs
}

// NewDisk creates a Disk rooted at dir on the OS filesystem
func NewDisk(dir string) *Disk {
	return NewDiskFs(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

// NewDiskFs creates a Disk on top of an existing filesystem
func NewDiskFs(fs afero.Fs) *Disk {
	return &Disk{fs: fs}
}

// Store writes data under dir with a uuid file name
func (d *Disk) Store(ctx context.Context, dir string, data []byte, ext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	ref := path.Join(strings.Trim(dir, "/"), uuid.NewString()+ext)

	if err := d.fs.MkdirAll(d.abs(path.Dir(ref)), 0o755); err != nil {
		return "", errors.Wrapf(err, "failed to create directory %s", dir)
	}
	if err := afero.WriteFile(d.fs, d.abs(ref), data, 0o644); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", ref)
	}

	return ref, nil
}

// Delete removes the referenced file
func (d *Disk) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ref == "" {
		return nil
	}

	err := d.fs.Remove(d.abs(ref))
	if err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return errors.Wrapf(err, "failed to delete %s", ref)
	}
	return nil
}

// Exists reports whether the referenced file is present
func (d *Disk) Exists(ref string) bool {
	if ref == "" {
		return false
	}
	ok, err := afero.Exists(d.fs, d.abs(ref))
	return err == nil && ok
}

// HTTPFileSystem exposes the disk for static serving
func (d *Disk) HTTPFileSystem() http.FileSystem {
	return afero.NewHttpFs(d.fs).Dir("/")
}

func (d *Disk) abs(ref string) string {
	return path.Join("/", ref)
}
