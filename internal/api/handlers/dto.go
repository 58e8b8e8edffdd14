package handlers

type ErrorResponse struct {
	Error string `json:"error"`
}

type UploadResponse struct {
	FileName string `json:"fileName"`
	FilePath string `json:"filePath"`
}

type TranscribeRequest struct {
	FileName string `json:"fileName"`
}

type TranscribeResponse struct {
	Transcript string `json:"transcript"`
}

type SummarizeRequest struct {
	Transcript string `json:"transcript"`
}

type SummarizeResponse struct {
	Summary     string   `json:"summary"`
	Insights    []string `json:"insights,omitempty"`
	ActionItems []string `json:"action_items,omitempty"`
}

// SummaryErrorResponse carries the failure kind and, for a runner that
// exited non-zero, whatever it printed.
type SummaryErrorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind"`
	Stdout string `json:"stdout,omitempty"`
	Stderr string `json:"stderr,omitempty"`
}
