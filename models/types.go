package models

import "time"

// Score labels shown during training and stored alongside each rating
const (
	ScoreBad       = 1
	ScorePoor      = 2
	ScoreFair      = 3
	ScoreGood      = 4
	ScoreExcellent = 5
)

// ScoreLabels maps a 1-5 quality score to its descriptive label
var ScoreLabels = map[int]string{
	ScoreBad:       "Bad - severe distortion (heavy blur, strong noise, text illegible)",
	ScorePoor:      "Poor - obvious distortion, detail loss, text unclear",
	ScoreFair:      "Fair - some distortion, still acceptable",
	ScoreGood:      "Good - slight distortion, does not affect normal viewing",
	ScoreExcellent: "Excellent - almost no distortion, clear and natural",
}

// Text clarity judgment constants
const (
	ClarityClear    = "clear"
	ClarityNotClear = "not_clear"
	ClarityNoText   = "no_text"
)

// ValidClarity reports whether s is one of the accepted text-clarity values.
func ValidClarity(s string) bool {
	return s == ClarityClear || s == ClarityNotClear || s == ClarityNoText
}

// Request types

type RegisterParticipantRequest struct {
	StudentID        string `json:"student_id"`
	Device           string `json:"device"`
	ScreenResolution string `json:"screen_resolution"`
}

type SubmitRatingRequest struct {
	ImageID     string `json:"image_id"`
	Score       int    `json:"score"`
	TextClarity string `json:"text_clarity"`
}

// Response types

type RegisterParticipantResponse struct {
	ParticipantID string `json:"participant_id"`
	AssignedCount int    `json:"assigned_count"`
	Short         bool   `json:"short"`
}

type AssignmentEntry struct {
	ImageID string `json:"image_id"`
	Ord     int    `json:"ord"`
	URL     string `json:"url"`
}

type AssignmentSequenceResponse struct {
	ParticipantID string            `json:"participant_id"`
	Assignments   []AssignmentEntry `json:"assignments"`
}

type SubmitRatingResponse struct {
	RatingID string `json:"rating_id"`
	Message  string `json:"message"`
}

type ProgressResponse struct {
	Assigned int `json:"assigned"`
	Rated    int `json:"rated"`
}

type TrainingLevel struct {
	Score int    `json:"score"`
	Label string `json:"label"`
}

type CorpusStats struct {
	Images           int      `json:"images"`
	Participants     int      `json:"participants"`
	Categories       []int    `json:"categories"`
	Resolutions      []string `json:"resolutions"`
	Distortions      []int    `json:"distortions"`
	ExposureMin      int      `json:"exposure_min"`
	ExposureMax      int      `json:"exposure_max"`
	ExposureMean     float64  `json:"exposure_mean"`
	ShortAssignments int      `json:"short_assignments"`
}

type ImportResponse struct {
	Imported int  `json:"imported"`
	Skipped  bool `json:"skipped"`
}

// Domain types

type Participant struct {
	ID               string    `json:"id"`
	RespondentHash   string    `json:"-"` // Never expose in JSON
	Device           string    `json:"device"`
	ScreenResolution string    `json:"screen_resolution"`
	RegisteredAt     time.Time `json:"registered_at"`
}

type Image struct {
	ID             string `json:"id"`
	RelPath        string `json:"rel_path"`
	Category       int    `json:"category"`
	CategoryName   string `json:"category_name,omitempty"`
	Resolution     string `json:"resolution"`
	Distortion     int    `json:"distortion"`
	DistortionName string `json:"distortion_name,omitempty"`
	ExposureCount  int    `json:"exposure_count"`
}

type Assignment struct {
	ParticipantID string    `json:"participant_id"`
	ImageID       string    `json:"image_id"`
	Ord           int       `json:"ord"`
	AssignedAt    time.Time `json:"assigned_at"`
}

type Rating struct {
	ID            string    `json:"id"`
	ParticipantID string    `json:"participant_id"`
	ImageID       string    `json:"image_id"`
	Score         int       `json:"score"`
	Label         string    `json:"label"`
	TextClarity   string    `json:"text_clarity"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// AxisValues are the distinct stratification values present in the catalog.
// The cross product of the three slices enumerates every possible stratum.
type AxisValues struct {
	Categories  []int
	Resolutions []string
	Distortions []int
}

// Empty reports whether any axis has no values (unusable catalog).
func (a AxisValues) Empty() bool {
	return len(a.Categories) == 0 || len(a.Resolutions) == 0 || len(a.Distortions) == 0
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
