// Package bundle packs an NLTK data directory into a tar.gz archive so that
// hosts without network access can be provisioned from a file.
package bundle

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"github.com/mholt/archiver/v4"
	"github.com/opencontainers/go-digest"
	"kubegems.io/nlpdata/pkg/errors"
)

var tgz = archiver.CompressedArchive{
	Archival:    archiver.Tar{},
	Compression: archiver.Gz{},
}

// Pack archives dir into the file intofile and returns the archive digest.
// An empty intofile only computes the digest.
func Pack(ctx context.Context, dir string, intofile string) (digest.Digest, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		return "", err
	}
	if !fi.IsDir() {
		return "", errors.NewParameterInvalidError(fmt.Sprintf("%s is not a directory", dir))
	}
	files, err := archiver.FilesFromDisk(
		&archiver.FromDiskOptions{ClearAttributes: true},
		map[string]string{dir + string(os.PathSeparator): ""},
	)
	if err != nil {
		return "", err
	}

	writers := []io.Writer{}
	if intofile != "" {
		if err := os.MkdirAll(filepath.Dir(intofile), 0o755); err != nil {
			return "", err
		}
		f, err := os.Create(intofile)
		if err != nil {
			return "", err
		}
		defer f.Close()

		writers = append(writers, f)
	}
	d := digest.Canonical.Digester()
	writers = append(writers, d.Hash())

	if err := tgz.Archive(ctx, io.MultiWriter(writers...), files); err != nil {
		return "", err
	}
	logr.FromContextOrDiscard(ctx).V(1).Info("packed bundle", "dir", dir, "files", len(files), "digest", d.Digest().String())
	return d.Digest(), nil
}

// Unpack extracts the archive fromfile into intodir. When expected is set the
// archive is verified against it before anything is written.
func Unpack(ctx context.Context, fromfile string, intodir string, expected digest.Digest) error {
	if expected != "" {
		if err := expected.Validate(); err != nil {
			return errors.NewParameterInvalidError(fmt.Sprintf("digest %s: %v", expected, err))
		}
		if err := verify(fromfile, expected); err != nil {
			return err
		}
	}
	f, err := os.Open(fromfile)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := os.MkdirAll(intodir, 0o755); err != nil {
		return err
	}
	return tgz.Extract(ctx, f, nil, func(ctx context.Context, af archiver.File) error {
		nameinlocal, err := localName(intodir, af.NameInArchive)
		if err != nil {
			return err
		}
		if af.IsDir() {
			return os.MkdirAll(nameinlocal, af.Mode().Perm()|0o700)
		}
		srcfile, err := af.Open()
		if err != nil {
			return err
		}
		defer srcfile.Close()

		if err := os.MkdirAll(filepath.Dir(nameinlocal), 0o755); err != nil {
			return err
		}
		intofile, err := os.OpenFile(nameinlocal, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, af.Mode().Perm())
		if err != nil {
			return err
		}
		defer intofile.Close()

		_, err = io.Copy(intofile, srcfile)
		return err
	})
}

func verify(filename string, expected digest.Digest) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	got, err := expected.Algorithm().FromReader(f)
	if err != nil {
		return err
	}
	if got != expected {
		return errors.NewDigestInvalidError(expected, got)
	}
	return nil
}

// localName joins name onto dir and rejects entries escaping dir.
func localName(dir, name string) (string, error) {
	joined := filepath.Join(dir, filepath.FromSlash(name))
	rel, err := filepath.Rel(dir, joined)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", errors.NewParameterInvalidError(fmt.Sprintf("archive entry %s escapes %s", name, dir))
	}
	return joined, nil
}
