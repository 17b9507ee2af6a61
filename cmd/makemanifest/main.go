// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command makemanifest scans an image corpus directory, optionally samples
// it down to a target size with a fixed 1080:4K ratio, and writes a
// manifest CSV the server can import.
//
// Usage:
//
//	makemanifest -root /data/images -out manifest.csv
//	makemanifest -root /data/images -out manifest.csv -sample 6000 -ratio 4:1 -seed 42
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/danielhkuo/strata-survey/manifest"
)

func main() {
	root := flag.String("root", "", "corpus root directory to scan (required)")
	out := flag.String("out", "manifest.csv", "output manifest CSV path")
	sample := flag.Int("sample", 0, "sample down to this many images (0 = keep all)")
	ratio := flag.String("ratio", "4:1", "1080:4K sampling ratio")
	seed := flag.Int64("seed", 42, "sampling seed")
	flag.Parse()

	if *root == "" {
		slog.Error("missing required -root flag")
		flag.Usage()
		os.Exit(1)
	}

	rows, err := manifest.Scan(*root)
	if err != nil {
		slog.Error("corpus scan failed", "error", err, "root", *root)
		os.Exit(1)
	}
	slog.Info("corpus scanned", "root", *root, "images", len(rows))

	if *sample > 0 {
		rows, err = manifest.Sample(rows, *sample, *ratio, *seed)
		if err != nil {
			slog.Error("sampling failed", "error", err)
			os.Exit(1)
		}
		slog.Info("corpus sampled", "images", len(rows), "ratio", *ratio, "seed", *seed)
	}

	if err := manifest.Write(*out, rows); err != nil {
		slog.Error("manifest write failed", "error", err, "out", *out)
		os.Exit(1)
	}
	slog.Info("manifest written", "out", *out, "images", len(rows))
}
