package input

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joseph-ayodele/qc-pdfreader/internal/common"
	"github.com/joseph-ayodele/qc-pdfreader/internal/dcm"
)

// DirStats summarises a discovery walk.
type DirStats struct {
	Scanned uint32
	Matched uint32
	Skipped uint32
	Failed  uint32
}

// FromDir walks root and groups DICOM files by directory: every directory
// (root included) holding at least one DICOM file becomes one series. Series
// and files are sorted by path. Hidden files and directories are skipped.
func FromDir(root string, logger *slog.Logger) (*Data, DirStats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var stats DirStats
	if strings.TrimSpace(root) == "" {
		return nil, stats, common.NewAppError(common.CodeInput, "input directory is required", common.ErrInvalidInput)
	}

	byDir := map[string][]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			stats.Failed++
			logger.Warn("walk error", "path", path, "error", walkErr)
			return nil // continue walking
		}
		if path != root && isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		stats.Scanned++
		ok, err := dcm.IsDICOM(path)
		if err != nil {
			stats.Failed++
			logger.Warn("cannot read file", "path", path, "error", err)
			return nil
		}
		if !ok {
			stats.Skipped++
			logger.Debug("not a dicom file", "path", path)
			return nil
		}
		stats.Matched++
		dir := filepath.Dir(path)
		byDir[dir] = append(byDir[dir], path)
		return nil
	})
	if err != nil {
		return nil, stats, common.WrapError(err, "walk")
	}
	if len(byDir) == 0 {
		return nil, stats, fmt.Errorf("%w in %s", ErrNoFiles, root)
	}

	dirs := make([]string, 0, len(byDir))
	for d := range byDir {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	series := make([][]string, 0, len(dirs))
	for _, d := range dirs {
		files := byDir[d]
		sort.Strings(files)
		series = append(series, files)
	}

	logger.Info("input discovered",
		"root", root,
		"series", len(series),
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"skipped", stats.Skipped,
		"failed", stats.Failed)
	return New(series, nil, logger), stats, nil
}

// FromFiles builds a single series from explicit file paths, keeping their order.
func FromFiles(paths []string, logger *slog.Logger) (*Data, error) {
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return nil, common.NewAppError(common.CodeInput, "input file", err)
		}
	}
	files := append([]string(nil), paths...)
	return New([][]string{files}, nil, logger), nil
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}
