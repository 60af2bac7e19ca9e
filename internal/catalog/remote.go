package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrRemoteUnavailable = errors.New("remote catalog unavailable")
	ErrRemoteBadStatus   = errors.New("remote catalog bad status")
	ErrRemoteDecode      = errors.New("remote catalog bad payload")
)

// RemoteClient talks to the remote catalog service. It never retries: every
// call either succeeds once or fails once, and the Synchronizer decides what
// to do with the failure.
type RemoteClient struct {
	BaseURL string
	Client  *http.Client
}

func NewRemoteClient(baseURL string) *RemoteClient {
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		baseURL = strings.TrimRight(baseURL, "/")
	}
	return &RemoteClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchAll retrieves the full product list. The remote has no pagination; the
// response is a single JSON array. Transport errors, non-2xx statuses and
// decode errors all fail the call.
func (c *RemoteClient) FetchAll(ctx context.Context) ([]Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/get", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrRemoteUnavailable
		}
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return nil, ErrRemoteUnavailable
		}
		return nil, ErrRemoteUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status=%d", ErrRemoteBadStatus, resp.StatusCode)
	}

	var products []Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteDecode, err)
	}

	// The remote has no favorite concept: every fetched record arrives with
	// the flag unset regardless of what the wire carried.
	for i := range products {
		products[i].IsFavorite = false
	}
	return products, nil
}

const (
	imagePartName = "files[]"
	imageFileName = "image.jpg"
)

// Submit posts a new product as a multipart form. Failures inside the request
// round trip — transport errors and non-2xx statuses — collapse into a false
// result rather than an error; only the inability to construct the request at
// all comes back as an error. Callers get a boolean verdict, never a typed
// server failure.
func (c *RemoteClient) Submit(ctx context.Context, p Product, imageBytes []byte) (bool, error) {
	body, contentType, err := encodeSubmitForm(p, imageBytes)
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/add", body)
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.Client.Do(req)
	if err != nil {
		return false, nil
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode >= 200 && resp.StatusCode <= 299, nil
}

func encodeSubmitForm(p Product, imageBytes []byte) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	// UUID boundary, same as the original clients of this API.
	if err := w.SetBoundary(uuid.NewString()); err != nil {
		return nil, "", err
	}

	fields := map[string]string{
		"product_name": p.Name,
		"product_type": p.Type,
		"price":        strconv.FormatFloat(p.Price, 'f', -1, 64),
		"tax":          strconv.FormatFloat(p.Tax, 'f', -1, 64),
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}

	if imageBytes != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, imagePartName, imageFileName))
		h.Set("Content-Type", "image/jpeg")

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(imageBytes); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
