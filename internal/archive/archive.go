// Package archive writes and reads the zip bundles produced by the exporter.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrDuplicateEntry is returned when two entries share a name.
var ErrDuplicateEntry = errors.New("archive: duplicate entry")

// Entry is one named file of a bundle.
type Entry struct {
	Name string
	Data []byte
}

// Zip writes entries, in order, as a deflated zip archive to w. Every entry is stamped
// with modTime so bundles built from the same inputs are byte-identical.
func Zip(w io.Writer, modTime time.Time, entries ...Entry) error {
	seen := make(map[string]bool, len(entries))
	zw := zip.NewWriter(w)
	for _, e := range entries {
		if seen[e.Name] {
			return fmt.Errorf("zip %s: %w", e.Name, ErrDuplicateEntry)
		}
		seen[e.Name] = true
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: e.Name, Method: zip.Deflate, Modified: modTime})
		if err != nil {
			return fmt.Errorf("zip %s: %w", e.Name, err)
		}
		if _, err := fw.Write(e.Data); err != nil {
			return fmt.Errorf("zip %s: %w", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("zip: %w", err)
	}
	return nil
}

// ReadEntries returns the files of an in-memory archive in stored order. Directories are skipped.
func ReadEntries(data []byte) ([]Entry, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("read entries: %w", err)
	}
	out := make([]Entry, 0, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("read entries %s: %w", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read entries %s: %w", f.Name, err)
		}
		out = append(out, Entry{Name: f.Name, Data: b})
	}
	return out, nil
}

// Unzip extracts zipPath into destDir, creating it if needed, and returns the absolute
// paths written. Entries that would land outside destDir are skipped.
func Unzip(zipPath, destDir string) (extracted []string, err error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("unzip: %w", err)
	}
	defer r.Close()
	absDir, err := filepath.Abs(destDir)
	if err != nil {
		return nil, fmt.Errorf("unzip: %w", err)
	}
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, fmt.Errorf("unzip: %w", err)
	}
	for _, f := range r.File {
		dest := filepath.Clean(filepath.Join(absDir, f.Name))
		if !strings.HasPrefix(dest, absDir+string(os.PathSeparator)) {
			continue
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0755); err != nil {
				return nil, fmt.Errorf("unzip: %w", err)
			}
			continue
		}
		if err := extract(f, dest); err != nil {
			return nil, fmt.Errorf("unzip %s: %w", f.Name, err)
		}
		extracted = append(extracted, dest)
	}
	return extracted, nil
}

func extract(f *zip.File, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
