package blob

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Cloudinary uploads base64 images through Cloudinary's signed upload API.
type Cloudinary struct {
	cloudName string
	apiKey    string
	apiSecret string
	folder    string
	client    *http.Client
}

func NewCloudinary(cloudName, apiKey, apiSecret, folder string) *Cloudinary {
	return &Cloudinary{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		folder:    folder,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Cloudinary) UploadBase64(ctx context.Context, base64Image, publicID string) (string, error) {
	if base64Image == "" {
		return "", errors.New("empty image payload")
	}

	// Strip a data-URI prefix if the client sent one.
	payload := base64Image
	if i := strings.Index(base64Image, ","); i != -1 {
		payload = base64Image[i+1:]
	}

	finalPublicID := publicID
	if c.folder != "" {
		finalPublicID = c.folder + "/" + publicID
	}

	form := url.Values{}
	form.Add("file", "data:image/jpeg;base64,"+payload)
	form.Add("api_key", c.apiKey)
	form.Add("public_id", finalPublicID)

	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	form.Add("timestamp", timestamp)

	// Signed upload: SHA1 over the signed params plus the API secret.
	signatureString := fmt.Sprintf("public_id=%s&timestamp=%s%s", finalPublicID, timestamp, c.apiSecret)
	form.Add("signature", fmt.Sprintf("%x", sha1.Sum([]byte(signatureString))))

	endpoint := "https://api.cloudinary.com/v1_1/" + c.cloudName + "/image/upload"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("cloudinary request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("cloudinary returned status %d: %s", res.StatusCode, string(body))
	}

	var cloudRes struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
		Error     struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &cloudRes); err != nil {
		return "", fmt.Errorf("cloudinary response parse failed: %w", err)
	}
	if cloudRes.Error.Message != "" {
		return "", fmt.Errorf("cloudinary error: %s", cloudRes.Error.Message)
	}

	if cloudRes.SecureURL != "" {
		return cloudRes.SecureURL, nil
	}
	return cloudRes.URL, nil
}
