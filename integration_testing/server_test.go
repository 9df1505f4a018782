//go:build integration

package integration_testing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForServer(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool {
		resp, err := http.Get(serverEndpoint + "/")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 10*time.Second, 200*time.Millisecond)
}

func loginAdmin(t *testing.T) string {
	t.Helper()

	body := fmt.Sprintf(`{"username":%q,"password":%q}`, testAdminUsername, testAdminPassword)
	resp, err := http.Post(
		serverEndpoint+"/api/login",
		"application/json",
		strings.NewReader(body),
	)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loginResp))
	require.NotEmpty(t, loginResp.Token)
	return loginResp.Token
}

func doAuthorized(t *testing.T, method, path, contentType string, body io.Reader, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, serverEndpoint+path, body)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestServer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	suite := newSuite(ctx)
	defer suite.cleanup()

	waitForServer(t)
	token := loginAdmin(t)

	t.Run("posts lifecycle", func(t *testing.T) {
		resp := doAuthorized(t, http.MethodPost, "/api/blogs", "application/json",
			strings.NewReader(`{"title":"Hello World","content_md":"first!","tags":["intro"]}`),
			token,
		)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var created struct {
			Ok   bool   `json:"ok"`
			Slug string `json:"slug"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
		require.True(t, created.Ok)
		require.Equal(t, "hello-world", created.Slug)

		getResp, err := http.Get(serverEndpoint + "/api/blogs/hello-world")
		require.NoError(t, err)
		defer getResp.Body.Close()
		require.Equal(t, http.StatusOK, getResp.StatusCode)

		var post struct {
			Title     string   `json:"title"`
			ContentMd string   `json:"content_md"`
			Tags      []string `json:"tags"`
		}
		require.NoError(t, json.NewDecoder(getResp.Body).Decode(&post))
		assert.Equal(t, "Hello World", post.Title)
		assert.Equal(t, "first!", post.ContentMd)
		assert.Equal(t, []string{"intro"}, post.Tags)

		delResp := doAuthorized(t, http.MethodDelete, "/api/blogs/hello-world", "", nil, token)
		defer delResp.Body.Close()
		require.Equal(t, http.StatusOK, delResp.StatusCode)

		goneResp, err := http.Get(serverEndpoint + "/api/blogs/hello-world")
		require.NoError(t, err)
		defer goneResp.Body.Close()
		assert.Equal(t, http.StatusNotFound, goneResp.StatusCode)
	})

	t.Run("post without tags", func(t *testing.T) {
		resp := doAuthorized(t, http.MethodPost, "/api/blogs", "application/json",
			strings.NewReader(`{"title":"No Tags Here","content_md":"plain post"}`),
			token,
		)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var created struct {
			Ok   bool   `json:"ok"`
			Slug string `json:"slug"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
		require.True(t, created.Ok)
		require.Equal(t, "no-tags-here", created.Slug)

		getResp, err := http.Get(serverEndpoint + "/api/blogs/no-tags-here")
		require.NoError(t, err)
		defer getResp.Body.Close()
		require.Equal(t, http.StatusOK, getResp.StatusCode)

		var post struct {
			Tags []string `json:"tags"`
		}
		require.NoError(t, json.NewDecoder(getResp.Body).Decode(&post))
		assert.Equal(t, []string{}, post.Tags)

		// a tagless update must round-trip as well
		updResp := doAuthorized(t, http.MethodPut, "/api/blogs/no-tags-here", "application/json",
			strings.NewReader(`{"title":"No Tags Here","content_md":"edited"}`),
			token,
		)
		defer updResp.Body.Close()
		require.Equal(t, http.StatusOK, updResp.StatusCode)
	})

	t.Run("profile upsert and get", func(t *testing.T) {
		resp := doAuthorized(t, http.MethodPut, "/api/profile", "application/json",
			strings.NewReader(`{"name":"Yaswanth","summary":"I build backends"}`),
			token,
		)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		getResp, err := http.Get(serverEndpoint + "/api/profile")
		require.NoError(t, err)
		defer getResp.Body.Close()
		require.Equal(t, http.StatusOK, getResp.StatusCode)

		var p struct {
			Name    string `json:"name"`
			Summary string `json:"summary"`
		}
		require.NoError(t, json.NewDecoder(getResp.Body).Decode(&p))
		assert.Equal(t, "Yaswanth", p.Name)
		assert.Equal(t, "I build backends", p.Summary)
	})

	t.Run("image upload and download", func(t *testing.T) {
		imageData := bytes.Repeat([]byte{0xAB, 0xCD, 0xEF}, 100*1024)

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="file"; filename="pic.jpg"`)
		header.Set("Content-Type", "image/jpeg")
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(imageData)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		resp := doAuthorized(t, http.MethodPost, "/api/uploads", mw.FormDataContentType(), &buf, token)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var uploaded struct {
			FileID     string `json:"file_id"`
			PublicPath string `json:"public_path"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&uploaded))
		require.NotEmpty(t, uploaded.FileID)

		getResp, err := http.Get(serverEndpoint + uploaded.PublicPath)
		require.NoError(t, err)
		defer getResp.Body.Close()
		require.Equal(t, http.StatusOK, getResp.StatusCode)
		assert.Equal(t, "image/jpeg", getResp.Header.Get("Content-Type"))
		assert.Equal(t, "public, max-age=31536000", getResp.Header.Get("Cache-Control"))

		downloaded, err := io.ReadAll(getResp.Body)
		require.NoError(t, err)
		assert.Equal(t, imageData, downloaded)
	})

	t.Run("unauthorized write is rejected", func(t *testing.T) {
		resp, err := http.Post(
			serverEndpoint+"/api/blogs",
			"application/json",
			strings.NewReader(`{"title":"Nope","content_md":"nope"}`),
		)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
