package history

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// snapshot copies the database at src to dst, along with its -wal and -shm
// files when the browser left them behind.
func snapshot(src, dst string) error {
	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("snapshot database: %w", err)
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		err := copyFile(src+suffix, dst+suffix)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("snapshot %s file: %w", suffix, err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	input, err := os.Open(src)
	if err != nil {
		return err
	}
	defer input.Close()

	output, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(output, input); err != nil {
		output.Close()
		return err
	}
	return output.Close()
}
