package backup

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"guild-progression/internal/adapters/storage/yamlfile"
	"guild-progression/internal/core/domain"
)

const (
	filePrefix = "guild-"
	fileSuffix = ".yaml.zst"
	stampFmt   = "20060102-150405.000"
)

// Writer stores zstd-compressed YAML snapshots of the guild document and
// keeps the newest Retain files.
type Writer struct {
	dir    string
	retain int
	now    func() time.Time
}

func NewWriter(dir string, retain int) *Writer {
	return &Writer{dir: dir, retain: retain, now: time.Now}
}

// Write stores a snapshot and returns its path.
func (w *Writer) Write(doc *domain.Document) (string, error) {
	data, err := yamlfile.Encode(doc)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	path := filepath.Join(w.dir, filePrefix+w.now().UTC().Format(stampFmt)+fileSuffix)
	if err := writeCompressed(path, data); err != nil {
		return "", err
	}

	slog.Info("Guild backup written", "path", path, "bytes", len(data))
	w.prune()
	return path, nil
}

func writeCompressed(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close backup: %w", cerr)
		}
	}()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("create encoder: %w", err)
	}

	bw := bufio.NewWriter(enc)
	if _, err := bw.Write(data); err != nil {
		enc.Close()
		return fmt.Errorf("write backup: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return fmt.Errorf("flush backup: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finish backup: %w", err)
	}
	return nil
}

// Read decodes a snapshot written by Write.
func Read(path string) (*domain.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open backup: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}
	defer dec.Close()

	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("decompress backup: %w", err)
	}
	return yamlfile.Decode(data)
}

// List returns snapshot paths, oldest first.
func (w *Writer) List() ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list backups: %w", err)
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		paths = append(paths, filepath.Join(w.dir, name))
	}
	sort.Strings(paths)
	return paths, nil
}

func (w *Writer) prune() {
	if w.retain <= 0 {
		return
	}
	paths, err := w.List()
	if err != nil {
		slog.Warn("Failed to list backups for pruning", "error", err)
		return
	}
	for len(paths) > w.retain {
		if err := os.Remove(paths[0]); err != nil {
			slog.Warn("Failed to remove old backup", "path", paths[0], "error", err)
		}
		paths = paths[1:]
	}
}
