package accounts

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"mirrorfeed/lib/textutil"
)

// Read parses a newline-delimited account list. Blank lines and lines
// starting with "#" are skipped, handles are lowercased and lose their
// leading "@".
func Read(r io.Reader) ([]string, error) {
	var out []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		handle := textutil.NormalizeHandle(line)
		if handle == "" {
			continue
		}
		out = append(out, handle)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

// ReadFile reads the account list at `path`. A missing file is an
// error, there is nothing to do without it.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open account list: %w", err)
	}
	defer f.Close()

	return Read(f)
}
