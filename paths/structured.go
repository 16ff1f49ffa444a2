package paths

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"

	vgfs "github.com/tezedge/tezedge-snapshots/libs/fs"
)

// ReadStructuredFile reads the file located at the given path into the given
// value. The file content is expected to be TOML.
func ReadStructuredFile(path string, v interface{}) error {
	buf, err := vgfs.ReadFile(path)
	if err != nil {
		return fmt.Errorf("couldn't read file: %w", err)
	}

	if err := toml.Unmarshal(buf, v); err != nil {
		return fmt.Errorf("couldn't unmarshal file content: %w", err)
	}

	return nil
}

// WriteStructuredFile marshals the given value as TOML and writes it at the
// given path.
func WriteStructuredFile(path string, v interface{}) error {
	buf := bytes.Buffer{}
	if err := toml.NewEncoder(&buf).Encode(v); err != nil {
		return fmt.Errorf("couldn't marshal content: %w", err)
	}

	if err := vgfs.WriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("couldn't write file: %w", err)
	}

	return nil
}
