package dcm

import (
	"errors"
	"io"
	"os"

	"github.com/joseph-ayodele/qc-pdfreader/constants"
)

// IsDICOM reports whether path starts with a Part 10 preamble and the DICM prefix.
func IsDICOM(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, constants.DICMPreambleLength+len(constants.DICMMagic))
	if _, err := io.ReadFull(f, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return false, nil
		}
		return false, err
	}
	return string(buf[constants.DICMPreambleLength:]) == constants.DICMMagic, nil
}
