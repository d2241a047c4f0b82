package codec

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol/model"
)

// DefaultExtension is appended to saved grid files that have none
const DefaultExtension = ".txt"

// ErrIO matches any *IOError
var ErrIO = errors.New("grid file i/o failure")

// IOError reports a failure to open, read or write a grid file
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrIO) hold for every IOError
func (e *IOError) Is(target error) bool { return target == ErrIO }

// LoadFile reads and decodes a grid file
func LoadFile(path string) (model.CellSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	cells, err := DecodeString(string(data))
	if err != nil {
		return nil, errors.Wrapf(err, "[LoadFile] %s", path)
	}
	return cells, nil
}

// SaveFile encodes cells and writes them to path, returning the path actually written
func SaveFile(path string, cells model.CellSet) (string, error) {
	if filepath.Ext(path) == "" {
		path += DefaultExtension
	}
	var buf bytes.Buffer
	if err := Encode(&buf, cells); err != nil {
		return "", errors.Wrapf(err, "[SaveFile] %s", path)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", &IOError{Op: "write", Path: path, Err: err}
	}
	return path, nil
}
