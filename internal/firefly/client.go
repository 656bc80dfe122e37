// Package firefly implements the client for the external image-generation
// provider. It exchanges service credentials for a bearer token
// (client-credentials flow against the identity endpoint), submits a
// synthesized prompt for a single square render, and composites the brand
// logo onto the result.
//
// Failure policy mirrors the product contract: token and generation
// failures are fatal and surface as descriptive errors; logo compositing is
// best-effort and the caller falls back to the pre-composite image URL.
// Nothing here retries; a failed call is reported immediately.
package firefly

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Default provider endpoints. Tests point both at httptest servers.
const (
	DefaultIMSEndpoint = "https://ims-na1.adobelogin.com/ims/token/v3"
	DefaultBaseURL     = "https://firefly-api.adobe.io"
)

// Output image geometry: one square render per request.
const (
	outputSize    = 1024
	numVariations = 1
)

// logoInset is the symmetric placement inset (pixels) for the composited
// logo, keeping it centered with even margins.
const logoInset = 64

// Config carries the credentials and endpoints for a Client.
type Config struct {
	IMSEndpoint  string
	BaseURL      string
	ClientID     string
	ClientSecret string
	Scopes       []string
	LogoURL      string
	Timeout      time.Duration
}

// Client talks to the identity and image-generation endpoints. It is safe
// for concurrent use.
type Client struct {
	http         *http.Client
	imsEndpoint  string
	baseURL      string
	clientID     string
	clientSecret string
	scopes       []string
	logoURL      string
}

// New constructs a Client, applying endpoint and timeout defaults.
func New(cfg Config) *Client {
	ims := cfg.IMSEndpoint
	if ims == "" {
		ims = DefaultIMSEndpoint
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		http:         &http.Client{Timeout: timeout},
		imsEndpoint:  ims,
		baseURL:      base,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		scopes:       cfg.Scopes,
		logoURL:      cfg.LogoURL,
	}
}

// AccessToken exchanges the configured service credentials for a bearer
// token via the client-credentials grant.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"scope":         {strings.Join(c.scopes, ",")},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.imsEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("identity token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("identity token request: %s: %s", resp.Status, readBody(resp.Body))
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("identity token response: %w", err)
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("identity token response: empty access_token")
	}
	return out.AccessToken, nil
}

// imageRef points an API request at an externally hosted image.
type imageRef struct {
	Source struct {
		URL string `json:"url"`
	} `json:"source"`
}

func newImageRef(u string) imageRef {
	var r imageRef
	r.Source.URL = u
	return r
}

// generateResponse is the shared response envelope of the generation and
// composite endpoints.
type generateResponse struct {
	Outputs []struct {
		Image struct {
			URL string `json:"url"`
		} `json:"image"`
	} `json:"outputs"`
}

// Generate renders a single 1024x1024 photo-preset image for the prompt and
// optional negative prompt. It returns the hosted output image URL.
func (c *Client) Generate(ctx context.Context, prompt, negativePrompt string) (string, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return "", err
	}

	body := map[string]any{
		"prompt":        prompt,
		"numVariations": numVariations,
		"size":          map[string]int{"width": outputSize, "height": outputSize},
		"style":         map[string]any{"presets": []string{"photo"}},
	}
	if negativePrompt != "" {
		body["negativePrompt"] = negativePrompt
	}

	var out generateResponse
	if err := c.post(ctx, token, "/v3/images/generate", body, &out); err != nil {
		return "", fmt.Errorf("image generation: %w", err)
	}
	if len(out.Outputs) == 0 || out.Outputs[0].Image.URL == "" {
		return "", fmt.Errorf("image generation: no image in response")
	}
	return out.Outputs[0].Image.URL, nil
}

// CompositeLogo overlays the configured logo asset onto the generated image,
// centered with a symmetric inset, and returns the composited image URL.
// Callers treat any error as non-fatal and keep the original URL.
func (c *Client) CompositeLogo(ctx context.Context, imageURL string) (string, error) {
	if c.logoURL == "" {
		return "", fmt.Errorf("logo composite: no logo asset configured")
	}
	token, err := c.AccessToken(ctx)
	if err != nil {
		return "", err
	}

	body := map[string]any{
		"image":  newImageRef(imageURL),
		"object": newImageRef(c.logoURL),
		"placement": map[string]any{
			"alignment": map[string]string{"horizontal": "center", "vertical": "center"},
			"inset": map[string]int{
				"left": logoInset, "top": logoInset, "right": logoInset, "bottom": logoInset,
			},
		},
		"numVariations": numVariations,
		"size":          map[string]int{"width": outputSize, "height": outputSize},
	}

	var out generateResponse
	if err := c.post(ctx, token, "/v3/images/generate-object-composite", body, &out); err != nil {
		return "", fmt.Errorf("logo composite: %w", err)
	}
	if len(out.Outputs) == 0 || out.Outputs[0].Image.URL == "" {
		return "", fmt.Errorf("logo composite: no image in response")
	}
	return out.Outputs[0].Image.URL, nil
}

// post sends an authenticated JSON request to path and decodes the response
// into dst.
func (c *Client) post(ctx context.Context, token, path string, body, dst any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: %s", resp.Status, readBody(resp.Body))
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

// readBody returns a bounded snippet of an error response body for messages.
func readBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	return strings.TrimSpace(string(b))
}
