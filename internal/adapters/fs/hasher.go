package fs

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/mint/internal/core/domain"
	"go.trai.ch/mint/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher provides hashing functionality for tasks and files.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}

	return hasher.Sum64(), nil
}

// ComputeInputHash computes a single hash representing the task definition,
// environment and input files. Input order does not affect the result.
func (h *Hasher) ComputeInputHash(task *domain.Task, env map[string]string, inputs []string) (string, error) {
	hasher := xxhash.New()

	hashTaskDefinition(task, hasher)
	hashEnvironment(env, hasher)

	sorted := slices.Clone(inputs)
	slices.Sort(sorted)
	for _, input := range sorted {
		if err := h.hashPath(input, hasher); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

func hashTaskDefinition(task *domain.Task, hasher *xxhash.Digest) {
	writeField(hasher, task.Name.String())
	writeField(hasher, string(task.Kind))
	writeField(hasher, task.Project)
	writeList(hasher, task.Command)
	writeList(hasher, task.Sources)
	writeField(hasher, task.Dest)
	writeField(hasher, task.Banner)
	writeList(hasher, domain.Strings(task.Inputs))
	writeList(hasher, domain.Strings(task.Outputs))
	writeList(hasher, domain.Strings(task.Dependencies))
	writeField(hasher, task.WorkingDir.String())
	hashEnvironment(task.Environment, hasher)
}

func hashEnvironment(env map[string]string, hasher *xxhash.Digest) {
	for _, k := range slices.Sorted(maps.Keys(env)) {
		_, _ = hasher.WriteString(k)
		_, _ = hasher.Write([]byte{'='})
		writeField(hasher, env[k])
	}
	_, _ = hasher.Write([]byte{0})
}

func writeField(hasher *xxhash.Digest, s string) {
	_, _ = hasher.WriteString(s)
	_, _ = hasher.Write([]byte{0})
}

func writeList(hasher *xxhash.Digest, items []string) {
	for _, item := range items {
		writeField(hasher, item)
	}
	_, _ = hasher.Write([]byte{0})
}

func (h *Hasher) hashPath(path string, mainHasher io.Writer) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return zerr.With(domain.ErrInputNotFound, "path", path)
		}
		return zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", path)
	}

	if !info.IsDir() {
		return h.hashFile(path, mainHasher)
	}

	for filePath, err := range h.walker.WalkFiles(path) {
		if err != nil {
			return err
		}
		if err := h.hashFile(filePath, mainHasher); err != nil {
			return err
		}
	}
	return nil
}

func (h *Hasher) hashFile(path string, mainHasher io.Writer) error {
	_, _ = mainHasher.Write([]byte(path))
	_, _ = mainHasher.Write([]byte{0})

	hash, err := h.ComputeFileHash(path)
	if err != nil {
		return err
	}

	if err := binary.Write(mainHasher, binary.LittleEndian, hash); err != nil {
		return zerr.Wrap(err, domain.ErrWriteHashFailed.Error())
	}
	return nil
}

// ComputeOutputHash computes the hash of the output files relative to root.
func (h *Hasher) ComputeOutputHash(outputs []string, root string) (string, error) {
	sorted := slices.Clone(outputs)
	slices.Sort(sorted)

	hasher := xxhash.New()

	for _, output := range sorted {
		path := filepath.Join(root, output)

		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, iofs.ErrNotExist) {
				return "", zerr.With(zerr.Wrap(iofs.ErrNotExist, "output file missing"), "path", path)
			}
			return "", zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", path)
		}

		if err := h.hashPath(path, hasher); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}
