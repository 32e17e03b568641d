package dropzone

import (
	"encoding/json"
	"net/http"

	"github.com/zinc-sig/dropsign/internal/signer"
)

// Target is where the upload control sends the file bytes. It is either a
// FormPost or a DirectURL; a nil Target means no destination is available.
type Target interface {
	Method() string
	Destination() string
}

// FormPost is a presigned POST: form fields plus the URL they are posted to.
type FormPost struct {
	Fields  map[string]string
	PostURL string
}

func (FormPost) Method() string        { return http.MethodPost }
func (f FormPost) Destination() string { return f.PostURL }

// DirectURL is a presigned URL the file body is PUT to as-is.
type DirectURL struct {
	URL string
}

func (DirectURL) Method() string        { return http.MethodPut }
func (d DirectURL) Destination() string { return d.URL }

// Meta is auxiliary per-file metadata carried alongside the target.
type Meta struct {
	FileURL *string `json:"fileUrl"`
}

// UploadParams is the per-file input of the upload control.
type UploadParams struct {
	Target Target
	Meta   Meta
}

// Available reports whether the params name a destination.
func (p UploadParams) Available() bool {
	return p.Target != nil && p.Target.Destination() != ""
}

// MarshalJSON renders the {fields, meta, url} shape, with nulls when the
// descriptor is empty.
func (p UploadParams) MarshalJSON() ([]byte, error) {
	out := struct {
		Fields map[string]string `json:"fields"`
		Meta   Meta              `json:"meta"`
		URL    *string           `json:"url"`
		Method string            `json:"method,omitempty"`
	}{Meta: p.Meta}

	switch t := p.Target.(type) {
	case FormPost:
		out.Fields = t.Fields
		out.URL = &t.PostURL
		out.Method = t.Method()
	case DirectURL:
		out.URL = &t.URL
		out.Method = t.Method()
	}

	return json.Marshal(out)
}

// emptyParams is the fallback used when no descriptor could be fetched.
func emptyParams() UploadParams {
	return UploadParams{}
}

// paramsFromResponse shapes a signing response into upload params.
// A post URL selects form-post mode; a file URL alone selects direct mode.
func paramsFromResponse(resp *signer.SigningResponse) UploadParams {
	if resp == nil {
		return emptyParams()
	}

	params := UploadParams{}
	if resp.HasFileURL() {
		fileURL := *resp.FileURL
		params.Meta.FileURL = &fileURL
	}

	switch {
	case resp.HasPostURL():
		params.Target = FormPost{Fields: resp.Data.Fields, PostURL: *resp.Data.URL}
	case resp.HasFileURL():
		params.Target = DirectURL{URL: *resp.FileURL}
	}

	return params
}
