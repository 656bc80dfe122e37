package firefly

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newIMSServer serves the client-credentials grant, recording the submitted
// form for assertions.
func newIMSServer(t *testing.T, token string, form *map[string][]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("ims method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("ims content-type = %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if form != nil {
			*form = r.PostForm
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": token})
	}))
}

func imageResponse(url string) map[string]any {
	return map[string]any{
		"outputs": []map[string]any{
			{"image": map[string]string{"url": url}},
		},
	}
}

func TestClient_AccessToken(t *testing.T) {
	var form map[string][]string
	ims := newIMSServer(t, "tok-123", &form)
	defer ims.Close()

	c := New(Config{
		IMSEndpoint:  ims.URL,
		ClientID:     "cid",
		ClientSecret: "secret",
		Scopes:       []string{"openid", "firefly_api"},
	})

	tok, err := c.AccessToken(context.Background())
	if err != nil {
		t.Fatalf("AccessToken: %v", err)
	}
	if tok != "tok-123" {
		t.Fatalf("token = %q", tok)
	}
	if got := form["grant_type"]; len(got) != 1 || got[0] != "client_credentials" {
		t.Fatalf("grant_type = %v", got)
	}
	if got := form["scope"]; len(got) != 1 || got[0] != "openid,firefly_api" {
		t.Fatalf("scope = %v", got)
	}
	if form["client_id"][0] != "cid" || form["client_secret"][0] != "secret" {
		t.Fatalf("credentials = %v", form)
	}
}

func TestClient_AccessToken_RejectsEmptyToken(t *testing.T) {
	ims := newIMSServer(t, "", nil)
	defer ims.Close()

	c := New(Config{IMSEndpoint: ims.URL})
	if _, err := c.AccessToken(context.Background()); err == nil || !strings.Contains(err.Error(), "empty access_token") {
		t.Fatalf("expected empty-token error, got %v", err)
	}
}

func TestClient_AccessToken_HTTPError(t *testing.T) {
	ims := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"invalid_client"}`, http.StatusUnauthorized)
	}))
	defer ims.Close()

	c := New(Config{IMSEndpoint: ims.URL})
	_, err := c.AccessToken(context.Background())
	if err == nil || !strings.Contains(err.Error(), "invalid_client") {
		t.Fatalf("expected error with body snippet, got %v", err)
	}
}

func TestClient_Generate(t *testing.T) {
	ims := newIMSServer(t, "tok-123", nil)
	defer ims.Close()

	var gotBody map[string]any
	var gotAuth, gotKey, gotPath string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("x-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(imageResponse("https://cdn.example/out.png"))
	}))
	defer api.Close()

	c := New(Config{IMSEndpoint: ims.URL, BaseURL: api.URL, ClientID: "cid"})

	url, err := c.Generate(context.Background(), "a latte", "no straws")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if url != "https://cdn.example/out.png" {
		t.Fatalf("url = %q", url)
	}
	if gotPath != "/v3/images/generate" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotAuth != "Bearer tok-123" || gotKey != "cid" {
		t.Fatalf("auth = %q, key = %q", gotAuth, gotKey)
	}
	if gotBody["prompt"] != "a latte" || gotBody["negativePrompt"] != "no straws" {
		t.Fatalf("body = %v", gotBody)
	}
	if n, ok := gotBody["numVariations"].(float64); !ok || n != 1 {
		t.Fatalf("numVariations = %v", gotBody["numVariations"])
	}
	size, _ := gotBody["size"].(map[string]any)
	if size["width"] != float64(1024) || size["height"] != float64(1024) {
		t.Fatalf("size = %v", size)
	}
}

func TestClient_Generate_OmitsEmptyNegative(t *testing.T) {
	ims := newIMSServer(t, "tok-123", nil)
	defer ims.Close()

	var gotBody map[string]any
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(imageResponse("https://cdn.example/out.png"))
	}))
	defer api.Close()

	c := New(Config{IMSEndpoint: ims.URL, BaseURL: api.URL})
	if _, err := c.Generate(context.Background(), "a latte", ""); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, present := gotBody["negativePrompt"]; present {
		t.Fatalf("empty negative prompt must be omitted: %v", gotBody)
	}
}

func TestClient_Generate_NoOutputs(t *testing.T) {
	ims := newIMSServer(t, "tok-123", nil)
	defer ims.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"outputs": []any{}})
	}))
	defer api.Close()

	c := New(Config{IMSEndpoint: ims.URL, BaseURL: api.URL})
	if _, err := c.Generate(context.Background(), "a latte", ""); err == nil || !strings.Contains(err.Error(), "no image in response") {
		t.Fatalf("expected no-image error, got %v", err)
	}
}

func TestClient_Generate_TokenFailureIsFatal(t *testing.T) {
	ims := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ims.Close()

	c := New(Config{IMSEndpoint: ims.URL, BaseURL: "http://unused.invalid"})
	if _, err := c.Generate(context.Background(), "a latte", ""); err == nil {
		t.Fatalf("expected token failure")
	}
}

func TestClient_CompositeLogo(t *testing.T) {
	ims := newIMSServer(t, "tok-123", nil)
	defer ims.Close()

	var gotBody map[string]any
	var gotPath string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(imageResponse("https://cdn.example/branded.png"))
	}))
	defer api.Close()

	c := New(Config{
		IMSEndpoint: ims.URL,
		BaseURL:     api.URL,
		LogoURL:     "https://assets.example/logo.png",
	})

	url, err := c.CompositeLogo(context.Background(), "https://cdn.example/raw.png")
	if err != nil {
		t.Fatalf("CompositeLogo: %v", err)
	}
	if url != "https://cdn.example/branded.png" {
		t.Fatalf("url = %q", url)
	}
	if gotPath != "/v3/images/generate-object-composite" {
		t.Fatalf("path = %q", gotPath)
	}

	image, _ := gotBody["image"].(map[string]any)
	source, _ := image["source"].(map[string]any)
	if source["url"] != "https://cdn.example/raw.png" {
		t.Fatalf("image ref = %v", gotBody["image"])
	}
	object, _ := gotBody["object"].(map[string]any)
	objSource, _ := object["source"].(map[string]any)
	if objSource["url"] != "https://assets.example/logo.png" {
		t.Fatalf("object ref = %v", gotBody["object"])
	}
	placement, _ := gotBody["placement"].(map[string]any)
	inset, _ := placement["inset"].(map[string]any)
	for _, side := range []string{"left", "top", "right", "bottom"} {
		if inset[side] != float64(64) {
			t.Fatalf("inset %s = %v", side, inset[side])
		}
	}
}

func TestClient_CompositeLogo_NoLogoConfigured(t *testing.T) {
	c := New(Config{})
	if _, err := c.CompositeLogo(context.Background(), "https://cdn.example/raw.png"); err == nil || !strings.Contains(err.Error(), "no logo asset configured") {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	c := New(Config{BaseURL: "https://api.example/"})
	if c.imsEndpoint != DefaultIMSEndpoint {
		t.Fatalf("ims endpoint = %q", c.imsEndpoint)
	}
	if c.baseURL != "https://api.example" {
		t.Fatalf("trailing slash not trimmed: %q", c.baseURL)
	}
}
