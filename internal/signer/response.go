package signer

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SigningResponse is the body returned by the signing endpoint.
// Nullable members are pointers so that an explicit null survives decoding.
type SigningResponse struct {
	Data    PostData `json:"data"`
	FileURL *string  `json:"fileUrl"`

	raw json.RawMessage
}

// PostData holds the presigned POST form fields and destination URL.
type PostData struct {
	Fields FormFields `json:"fields"`
	URL    *string    `json:"url"`
}

// FormFields are the presigned POST form values. Policies may carry
// non-string scalars such as success_action_status; those keep their JSON
// text, so 201 becomes "201".
type FormFields map[string]string

func (f *FormFields) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}

	fields := make(FormFields, len(members))
	for k, v := range members {
		v = bytes.TrimSpace(v)
		switch {
		case len(v) == 0 || bytes.Equal(v, []byte("null")):
			continue
		case v[0] == '"':
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return fmt.Errorf("form field %q: %w", k, err)
			}
			fields[k] = s
		default:
			fields[k] = string(v)
		}
	}
	*f = fields
	return nil
}

// Raw returns the response body exactly as the endpoint sent it. It is nil
// for responses built in code.
func (r *SigningResponse) Raw() json.RawMessage {
	if r == nil {
		return nil
	}
	return r.raw
}

// HasPostURL reports whether the response names a form-post destination.
func (r *SigningResponse) HasPostURL() bool {
	return r != nil && r.Data.URL != nil && *r.Data.URL != ""
}

// HasFileURL reports whether the response carries a resolved file URL.
func (r *SigningResponse) HasFileURL() bool {
	return r != nil && r.FileURL != nil && *r.FileURL != ""
}
