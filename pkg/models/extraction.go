package models

// ContentType labels extracted text by subject-matter heuristic.
type ContentType string

const (
	ContentMathematical ContentType = "mathematical"
	ContentScientific   ContentType = "scientific"
	ContentHandwritten  ContentType = "handwritten_notes"
	ContentTextbook     ContentType = "textbook"
	ContentGeneral      ContentType = "general"
	ContentUnknown      ContentType = "unknown"
)

// ContentTypes lists every defined label. Classification never produces a
// value outside this set.
var ContentTypes = []ContentType{
	ContentMathematical,
	ContentScientific,
	ContentHandwritten,
	ContentTextbook,
	ContentGeneral,
	ContentUnknown,
}

// Suggestions holds static study prompts keyed off the content type.
type Suggestions struct {
	Summary       string   `json:"summary"`
	Explanation   string   `json:"explanation"`
	QuizQuestions []string `json:"quiz_questions"`
}

// ExtractionResult is the complete outcome of one pipeline run. Results are
// built once and never mutated afterwards; a failed run is still a
// well-formed result with Success false and Confidence 0.
type ExtractionResult struct {
	Success    bool    `json:"success"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	WordCount  int     `json:"word_count"`
	CharCount  int     `json:"char_count"`

	// Error carries a human-readable failure description; Note carries
	// non-fatal degradation info (engine fallback, skipped preprocessing
	// stages).
	Error string `json:"error,omitempty"`
	Note  string `json:"note,omitempty"`

	ContentType ContentType  `json:"content_type,omitempty"`
	Suggestions *Suggestions `json:"suggestions,omitempty"`

	// Engine names the backend that produced the text.
	Engine       string `json:"engine,omitempty"`
	Preprocessed bool   `json:"preprocessed"`

	// Populated by batch processing to tie a result back to its input.
	ImagePath string `json:"image_path,omitempty"`
	ImageName string `json:"image_name,omitempty"`

	ProcessingTimeSec float64 `json:"processing_time_sec"`
}

// BatchResult is the ordered outcome of a batch run. Its length always
// equals the number of input paths and index i corresponds to input i;
// per-item failures occupy their slot rather than being omitted.
type BatchResult []*ExtractionResult

// EngineInfo describes the extraction backends and preprocessing features
// available to the pipeline.
type EngineInfo struct {
	Engines          []string        `json:"engines"`
	PrimaryEngine    string          `json:"primary_engine"`
	SupportedFormats []string        `json:"supported_formats"`
	MaxImageSize     int             `json:"max_image_size"`
	Preprocessing    map[string]bool `json:"preprocessing_features"`
	ContentTypes     []ContentType   `json:"content_types_supported"`
}
