package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/worklens/internal/compiler"
	"github.com/roach88/worklens/internal/model"
)

// LoadError represents an error that occurred while loading a request file.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadRequest reads a request document. .cue files are compiled as CUE;
// .yaml, .yml and .json files are decoded with yaml.v3 and encoded into CUE.
// Either way the document is checked against #Request before decoding.
func LoadRequest(path string) (*model.Request, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("request file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("reading request file: %v", err)}
	}

	v, err := requestValue(path, data)
	if err != nil {
		return nil, err
	}

	req, err := compiler.CompileRequest(v)
	if err != nil {
		var compileErr *compiler.CompileError
		if errors.As(err, &compileErr) {
			return nil, &LoadError{Code: ErrCodeSchema, Message: compileErr.Message, Pos: compileErr.Pos}
		}
		return nil, &LoadError{Code: ErrCodeSchema, Message: err.Error()}
	}
	return req, nil
}

// requestValue builds the CUE value for a request document.
func requestValue(path string, data []byte) (cue.Value, error) {
	ctx := compiler.Context()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".cue":
		v := ctx.CompileBytes(data, cue.Filename(path))
		if err := v.Err(); err != nil {
			return cue.Value{}, &LoadError{Code: ErrCodeParseFailed, Message: err.Error()}
		}
		return v, nil

	case ".yaml", ".yml", ".json":
		var doc any
		dec := yaml.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&doc); err != nil {
			return cue.Value{}, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("parsing %s: %v", path, err)}
		}
		v := ctx.Encode(doc)
		if err := v.Err(); err != nil {
			return cue.Value{}, &LoadError{Code: ErrCodeParseFailed, Message: err.Error()}
		}
		return v, nil

	default:
		return cue.Value{}, &LoadError{
			Code:    ErrCodeUnsupported,
			Message: fmt.Sprintf("unsupported request file extension %q (want .cue, .yaml, .yml or .json)", ext),
		}
	}
}

// loadErrorCode extracts the CLI code from a loader error.
func loadErrorCode(err error) string {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code
	}
	return ErrCodeGeneric
}
