// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package manifest reads, writes, builds, and subsamples corpus manifests.

# Format

A manifest is a CSV with the columns:

	image_id, rel_path, category, category_name,
	resolution, distortion, distortion_name

image_id is the rel_path (bare filenames repeat across folders), category
is a stable 1..N numbering of sorted class names, resolution is "1080" or
"4K", distortion is the ordinal tier 1 (base), 2 (M), 3 (S).

# Building

Scan walks a dataset root laid out as root/<outer>/<class>/<file> where
the outer folder name encodes resolution and distortion tier:

	4K/       -> 4K, base
	4K_M/     -> 4K, M
	1080_S/   -> 1080, S

# Subsampling

Sample draws a fixed-size stratified subset with a configurable 1080:4K
ratio, using largest-remainder quota allocation across (category,
distortion) strata. Deterministic under a seed so a study's manifest can
be regenerated.

The cmd/makemanifest binary wraps Scan and Sample.
*/
package manifest
