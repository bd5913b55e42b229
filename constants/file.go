package constants

import "strings"

// DICOM Part 10 files carry a 128 byte preamble followed by the "DICM" prefix.
const (
	DICMPreambleLength = 128
	DICMMagic          = "DICM"
)

// PDFMagic is the required prefix of an encapsulated PDF stream.
const PDFMagic = "%PDF"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
