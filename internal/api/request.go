package api

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"mime"
	"net/http"

	"github.com/BurntSushi/toml"

	fserr "github.com/matzehuels/flowschem/pkg/errors"
	"github.com/matzehuels/flowschem/pkg/pipeline"
)

// documentRequest is the JSON form of a request body.
type documentRequest struct {
	Source string         `json:"source"`
	Style  map[string]any `json:"style,omitempty"`
}

// readDocument reads the pipeline input of a request: a JSON envelope when
// the content type says so, the raw .flow source otherwise.
func readDocument(r *http.Request) (pipeline.Options, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{Name: "request"}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		opts.Source = body
		return opts, nil
	}

	var req documentRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return opts, fserr.Wrap(fserr.ErrCodeInvalidInput, err, "invalid JSON body")
	}
	opts.Source = []byte(req.Source)
	if len(req.Style) > 0 {
		styleTOML, err := encodeStyle(req.Style)
		if err != nil {
			return opts, err
		}
		opts.StyleTOML = styleTOML
	}
	return opts, nil
}

// encodeStyle turns the JSON style object into the TOML overlay the
// pipeline applies, so both paths share one decoder. Whole JSON numbers
// become TOML integers so they decode into integer keys like font-weight.
func encodeStyle(style map[string]any) ([]byte, error) {
	values := make(map[string]any, len(style))
	for k, v := range style {
		if f, ok := v.(float64); ok && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			v = int64(f)
		}
		values[k] = v
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(values); err != nil {
		return nil, fserr.Wrap(fserr.ErrCodeInvalidStyle, err, "invalid style object")
	}
	return buf.Bytes(), nil
}
