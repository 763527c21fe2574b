package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ProofExtractor turns a payment-proof image into raw text. The backend
// only consumes the text; extraction runs in an external OCR service.
type ProofExtractor interface {
	Extract(ctx context.Context, image io.Reader, filename string) (string, error)
}

// OCRClient calls an HTTP OCR service. Every call carries a deadline;
// hitting it maps to ErrProofExtractionTimeout instead of blocking the
// upload request.
type OCRClient struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
}

func NewOCRClient() *OCRClient {
	endpoint := os.Getenv("OCR_SERVICE_URL")
	if endpoint == "" {
		endpoint = "http://localhost:8090/extract"
	}

	timeout := 20 * time.Second
	if raw := os.Getenv("OCR_TIMEOUT_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			timeout = time.Duration(secs) * time.Second
		}
	}

	return &OCRClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		timeout:  timeout,
	}
}

func (c *OCRClient) Extract(ctx context.Context, image io.Reader, filename string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, image); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
			return "", ErrProofExtractionTimeout
		}
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocr service returned status %d", resp.StatusCode)
	}

	var extracted struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&extracted); err != nil {
		return "", fmt.Errorf("failed to decode ocr response: %v", err)
	}
	return extracted.Text, nil
}
