package core

import "time"

// File references a generated or attached artifact (image, audio, video...).
type File struct {
	Name     string         `json:"name"`
	URL      string         `json:"url"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ProviderResponse is the normalized outcome of one connector invocation.
// A response carrying an error is retained for observability even when it
// also carries text; only Valid responses feed consolidation.
type ProviderResponse struct {
	Provider  string    `json:"provider"`
	Modality  Modality  `json:"type"`
	Text      string    `json:"text,omitempty"`
	HTML      string    `json:"html,omitempty"`
	Files     []File    `json:"files,omitempty"`
	Sources   []string  `json:"sources,omitempty"`
	Raw       any       `json:"raw,omitempty"`
	Error     string    `json:"error,omitempty"`
	ErrorKind ErrorKind `json:"errorKind,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Valid reports whether the response can be used for consolidation: no
// error and non-empty text.
func (r ProviderResponse) Valid() bool { return r.Error == "" && r.Text != "" }

// Failed reports whether the response carries an error.
func (r ProviderResponse) Failed() bool { return r.Error != "" }

// NewErrorResponse builds an error-bearing response classified via KindOf.
func NewErrorResponse(provider string, modality Modality, err error) ProviderResponse {
	if err == nil {
		err = ErrUnknown
	}
	return ProviderResponse{
		Provider:  provider,
		Modality:  modality,
		Error:     err.Error(),
		ErrorKind: KindOf(err),
		Timestamp: time.Now(),
	}
}

// PartitionResponses splits responses into valid and invalid subsets while
// preserving the relative order of each.
func PartitionResponses(responses []ProviderResponse) (valid, invalid []ProviderResponse) {
	valid = make([]ProviderResponse, 0, len(responses))
	for _, r := range responses {
		if r.Valid() {
			valid = append(valid, r)
			continue
		}
		invalid = append(invalid, r)
	}
	return valid, invalid
}
