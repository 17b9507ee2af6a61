// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain, request, and response types for the
Strata Survey API.

# Domain Types

  - Participant: one registered rater (anonymized respondent hash,
    declared device and screen resolution)
  - Image: one corpus entry with its stratification axes
    (category x resolution x distortion) and live exposure count
  - Assignment: one (participant, image) pair with its 0-based ordinal
  - Rating: one 1-5 quality score plus text-clarity judgment

# Stratification

AxisValues carries the distinct values of the three stratification axes.
A stratum is the set of images sharing one (category, resolution,
distortion) triple; it is derived on demand and never stored.

# Score Scale

Ratings use a 1-5 absolute category scale:

	1 Bad, 2 Poor, 3 Fair, 4 Good, 5 Excellent

ScoreLabels holds the descriptive text stored with each rating and shown
during the training phase.
*/
package models
