// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package manifest

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
)

var validExts = []string{".png", ".jpg", ".jpeg", ".bmp", ".tiff", ".webp"}

// Scan walks a dataset root laid out as root/<outer>/<class>/<file> and
// builds manifest rows. The outer directory name encodes resolution and
// distortion tier ("4k", "1080", with optional "_m"/"_s" suffixes); the
// class directory is the content category. Category numbers are assigned
// 1..N over the sorted class names so repeated scans are stable.
func Scan(root string) ([]Row, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset root: %w", err)
	}

	var rows []Row
	classes := map[string]bool{}

	for _, outer := range entries {
		if !outer.IsDir() {
			continue
		}
		res, dist, distName, ok := parseOuterDir(outer.Name())
		if !ok {
			// Unrecognized folders (e.g. training images) are skipped.
			continue
		}

		classEntries, err := os.ReadDir(path.Join(root, outer.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", outer.Name(), err)
		}

		for _, class := range classEntries {
			if !class.IsDir() {
				continue
			}
			classes[class.Name()] = true

			files, err := os.ReadDir(path.Join(root, outer.Name(), class.Name()))
			if err != nil {
				return nil, fmt.Errorf("failed to read %s/%s: %w", outer.Name(), class.Name(), err)
			}

			for _, f := range files {
				if f.IsDir() || !hasImageExt(f.Name()) || strings.HasPrefix(f.Name(), ".") {
					continue
				}
				relPath := path.Join(outer.Name(), class.Name(), f.Name())
				rows = append(rows, Row{
					// rel_path doubles as the id: bare filenames
					// like 0001.png repeat across folders.
					ImageID:        relPath,
					RelPath:        relPath,
					CategoryName:   class.Name(),
					Resolution:     res,
					Distortion:     dist,
					DistortionName: distName,
				})
			}
		}
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no images found under %s", root)
	}

	// Number categories over the sorted class names.
	classList := make([]string, 0, len(classes))
	for c := range classes {
		classList = append(classList, c)
	}
	sort.Strings(classList)
	classID := make(map[string]int, len(classList))
	for i, c := range classList {
		classID[c] = i + 1
	}
	for i := range rows {
		rows[i].Category = classID[rows[i].CategoryName]
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].RelPath < rows[j].RelPath })
	return rows, nil
}

// parseOuterDir decodes a top-level dataset folder name into its
// resolution class and distortion tier (base=1, M=2, S=3).
func parseOuterDir(name string) (res string, dist int, distName string, ok bool) {
	low := strings.ToLower(strings.TrimSpace(name))

	switch {
	case strings.HasPrefix(low, "4k"):
		res = "4K"
	case strings.HasPrefix(low, "1080"):
		res = "1080"
	default:
		return "", 0, "", false
	}

	switch {
	case strings.Contains(low, "_s"):
		dist, distName = 3, "S"
	case strings.Contains(low, "_m"):
		dist, distName = 2, "M"
	default:
		dist, distName = 1, "base"
	}

	return res, dist, distName, true
}

func hasImageExt(name string) bool {
	low := strings.ToLower(name)
	for _, ext := range validExts {
		if strings.HasSuffix(low, ext) {
			return true
		}
	}
	return false
}
