package signer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(&Config{URL: url, Timeout: 2 * time.Second}, zerolog.Nop())
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(nil, zerolog.Nop())

	assert.Equal(t, DefaultURL, client.URL())
	assert.Equal(t, 10*time.Second, client.config.Timeout)
}

func TestFetchUploadDescriptor_RequestShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/sign_s3", r.URL.Path)
		assert.Equal(t, "photo one.png", r.URL.Query().Get("file_name"))
		assert.Equal(t, "image/png", r.URL.Query().Get("file_type"))
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"fields":null,"url":null},"fileUrl":null}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL + "/sign_s3")
	_, err := client.FetchUploadDescriptor(context.Background(), "photo one.png", "image/png", "secret-token")
	require.NoError(t, err)
}

func TestFetchUploadDescriptor_ReturnsBodyVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"data": {
				"fields": {"key": "abc", "policy": "p0l1cy", "x-amz-signature": "sig"},
				"url": "https://bucket/obj"
			},
			"fileUrl": "https://cdn/obj"
		}`))
	}))
	defer server.Close()

	body, err := newTestClient(server.URL).FetchUploadDescriptor(context.Background(), "a.png", "image/png", "t")
	require.NoError(t, err)

	assert.Equal(t, FormFields{"key": "abc", "policy": "p0l1cy", "x-amz-signature": "sig"}, body.Data.Fields)
	require.NotNil(t, body.Data.URL)
	assert.Equal(t, "https://bucket/obj", *body.Data.URL)
	require.NotNil(t, body.FileURL)
	assert.Equal(t, "https://cdn/obj", *body.FileURL)
	assert.True(t, body.HasPostURL())
	assert.True(t, body.HasFileURL())
}

func TestFetchUploadDescriptor_NonStringFieldsAndExtraMembers(t *testing.T) {
	payload := `{"data":{"fields":{"key":"abc","success_action_status":201,"acl":null},"url":"https://bucket/"},"fileUrl":"https://cdn/abc","expires":3600}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	body, err := newTestClient(server.URL).FetchUploadDescriptor(context.Background(), "a.png", "image/png", "t")
	require.NoError(t, err)

	assert.Equal(t, FormFields{"key": "abc", "success_action_status": "201"}, body.Data.Fields)
	assert.True(t, body.HasPostURL())
	assert.Equal(t, payload, string(body.Raw()))
}

func TestFormFields_RejectsNonObject(t *testing.T) {
	var fields FormFields
	assert.Error(t, json.Unmarshal([]byte(`["key"]`), &fields))
	assert.Error(t, json.Unmarshal([]byte(`{"key": "unterminated}`), &fields))
	assert.NoError(t, json.Unmarshal([]byte(`null`), &fields))
	assert.Nil(t, fields)
}

func TestFetchUploadDescriptor_NullMembers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"fields":null,"url":null},"fileUrl":null}`))
	}))
	defer server.Close()

	body, err := newTestClient(server.URL).FetchUploadDescriptor(context.Background(), "a.png", "image/png", "t")
	require.NoError(t, err)

	assert.Nil(t, body.Data.Fields)
	assert.Nil(t, body.Data.URL)
	assert.Nil(t, body.FileURL)
	assert.False(t, body.HasPostURL())
	assert.False(t, body.HasFileURL())
}

func TestFetchUploadDescriptor_ErrorStatus(t *testing.T) {
	for _, code := range []int{400, 401, 403, 404, 500, 503} {
		t.Run(http.StatusText(code), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(code)
				_, _ = w.Write([]byte(`{"msg":"nope"}`))
			}))
			defer server.Close()

			body, err := newTestClient(server.URL).FetchUploadDescriptor(context.Background(), "a.png", "image/png", "t")
			require.Error(t, err)
			assert.Nil(t, body)

			var signErr *RemoteSigningError
			require.True(t, errors.As(err, &signErr))
			assert.Equal(t, code, signErr.StatusCode)
			assert.Equal(t, http.StatusText(code), signErr.Status)
		})
	}
}

func TestFetchUploadDescriptor_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url).FetchUploadDescriptor(context.Background(), "a.png", "image/png", "t")
	require.Error(t, err)

	var netErr *NetworkError
	assert.True(t, errors.As(err, &netErr))
}

func TestFetchUploadDescriptor_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchUploadDescriptor(context.Background(), "a.png", "image/png", "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestFetchUploadDescriptor_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(server.URL).FetchUploadDescriptor(ctx, "a.png", "image/png", "t")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
