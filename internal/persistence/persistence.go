// Package persistence reads and writes the pipeline's JSON artifacts: the
// staging candidate list and the catalog record list.
//
// Writes are atomic: data goes to a temporary file in the destination
// directory which is then renamed over the target.
package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/agentstation/sizer/pkg/catalogs"
	"github.com/agentstation/sizer/pkg/constants"
	"github.com/agentstation/sizer/pkg/errors"
)

// ReadCandidates reads a staging artifact.
// A missing or undecodable file is a *errors.MalformedArtifactError.
func ReadCandidates(path string) ([]catalogs.Candidate, error) {
	var out []catalogs.Candidate
	if err := readJSON(path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteCandidates writes a staging artifact.
func WriteCandidates(path string, candidates []catalogs.Candidate) error {
	if candidates == nil {
		candidates = []catalogs.Candidate{}
	}
	return writeJSON(path, candidates)
}

// ReadRecords reads a catalog artifact.
// A missing or undecodable file is a *errors.MalformedArtifactError.
func ReadRecords(path string) ([]catalogs.Record, error) {
	var out []catalogs.Record
	if err := readJSON(path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteRecords writes a catalog artifact.
func WriteRecords(path string, records []catalogs.Record) error {
	if records == nil {
		records = []catalogs.Record{}
	}
	return writeJSON(path, records)
}

func readJSON(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.NewMalformedArtifactError(path, errors.WrapIO("read", path, err))
	}
	if err := json.Unmarshal(data, target); err != nil {
		return errors.NewMalformedArtifactError(path, errors.WrapParse("json", path, err))
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.WrapIO("encode", path, err)
	}
	data = append(data, '\n')
	return WriteFileAtomic(path, data)
}

// WriteFileAtomic writes data to path via a temporary file and rename,
// creating parent directories as needed.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.WrapIO("create", "temp file", err)
	}
	tempPath := tempFile.Name()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
		return errors.WrapIO("write", path, err)
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempPath)
		return errors.WrapIO("write", path, err)
	}
	if err := os.Chmod(tempPath, constants.FilePermissions); err != nil {
		_ = os.Remove(tempPath)
		return errors.WrapIO("chmod", path, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return errors.WrapIO("rename", path, err)
	}
	return nil
}
