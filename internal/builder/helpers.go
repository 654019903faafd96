package builder

import (
	"fmt"
	"io"
	"os"
	"regexp"
)

var windowCRregexp = regexp.MustCompile(`\r?\n`)

func replaceWindowsCarriageReturn(b []byte) []byte {
	return windowCRregexp.ReplaceAll(b, []byte("\n"))
}

// copyFile copies src over dst byte for byte, truncating dst if it exists.
func copyFile(src, dst string) (int64, error) {
	sourceFileStat, err := os.Stat(src)
	if err != nil {
		return 0, err
	}

	if !sourceFileStat.Mode().IsRegular() {
		return 0, fmt.Errorf("%s is not a regular file", src)
	}

	source, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer source.Close()

	destination, err := os.Create(dst)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(destination, source)
	if cerr := destination.Close(); err == nil {
		err = cerr
	}
	return n, err
}
