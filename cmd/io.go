package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rubiojr/exprdoc/ast"
	"github.com/rubiojr/exprdoc/codec"
	"github.com/rubiojr/exprdoc/document"
)

// stdio stands for stdin or stdout in file arguments.
const stdio = "-"

func (e *env) read(path string) ([]byte, error) {
	if path == stdio {
		return io.ReadAll(e.in)
	}
	return os.ReadFile(path)
}

// formatFor picks the explicit format name when given, then the file
// extension, then the configured default.
func (e *env) formatFor(name, path string) (document.Format, error) {
	if name != "" {
		return document.FormatFor(name)
	}
	if path != "" && path != stdio {
		f, err := document.FormatForPath(path)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, document.ErrUnknownFormat) {
			return nil, err
		}
	}
	return e.format, nil
}

// decodeFile reads and decodes the tree stored in path.
func (e *env) decodeFile(path, from string) (ast.Node, error) {
	f, err := e.formatFor(from, path)
	if err != nil {
		return nil, err
	}
	data, err := e.read(path)
	if err != nil {
		return nil, err
	}
	e.log.Debug("decoding", "path", path, "format", f.Name(), "bytes", len(data))
	n, err := codec.Unmarshal(e.reg, e.opts, f, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

// encode renders n in format f.
func (e *env) encode(n ast.Node, f document.Format) ([]byte, error) {
	data, err := codec.Marshal(e.reg, e.opts, f, n)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return data, nil
}

// write sends data to path, or stdout when path is empty or "-".
func (e *env) write(path string, data []byte) error {
	if path == "" || path == stdio {
		_, err := e.out.Write(data)
		return err
	}
	e.log.Debug("writing", "path", path, "bytes", len(data))
	return os.WriteFile(path, data, 0o644)
}
