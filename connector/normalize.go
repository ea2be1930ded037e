package connector

import (
	"time"

	"github.com/hupe1980/omnimesh/core"
	"github.com/tidwall/gjson"
)

// textPaths are probed in order; the first non-empty string wins.
var textPaths = []string{
	"text",
	"content",
	"response",
	"generated_text",
	"0.generated_text",
	"choices.0.message.content",
	"content.0.text",
}

// Normalize maps a heterogeneous JSON payload into a ProviderResponse.
// Unrecognized or missing fields default to empty; a payload that is not
// JSON is kept verbatim as Raw with no text. Normalize does not scrub.
func Normalize(provider string, modality core.Modality, payload []byte) core.ProviderResponse {
	resp := core.ProviderResponse{Provider: provider, Modality: modality, Timestamp: time.Now()}
	if !gjson.ValidBytes(payload) {
		resp.Raw = string(payload)
		return resp
	}
	parsed := gjson.ParseBytes(payload)
	resp.Raw = parsed.Value()
	resp.Text = firstText(parsed)
	resp.HTML = parsed.Get("html").String()

	parsed.Get("files").ForEach(func(_, f gjson.Result) bool {
		file := core.File{Name: f.Get("name").String(), URL: f.Get("url").String()}
		if md, ok := f.Get("metadata").Value().(map[string]any); ok {
			file.Metadata = md
		}
		resp.Files = append(resp.Files, file)
		return true
	})
	parsed.Get("sources").ForEach(func(_, s gjson.Result) bool {
		if s.Type == gjson.String && s.Str != "" {
			resp.Sources = append(resp.Sources, s.Str)
		}
		return true
	})
	return resp
}

func firstText(parsed gjson.Result) string {
	for _, path := range textPaths {
		if v := parsed.Get(path); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}
