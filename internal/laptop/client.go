package laptop

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

var (
	ErrClientNotFound      = errors.New("laptop service: not found")
	ErrClientAlreadyExists = errors.New("laptop service: already exists")
	ErrClientBadStatus     = errors.New("laptop service: bad status")
	ErrClientUnavailable   = errors.New("laptop service: unavailable")
	ErrClientStream        = errors.New("laptop service: stream error")
)

// RateResult is one server answer on a rating stream.
type RateResult struct {
	LaptopID     string  `json:"laptop_id"`
	RatedCount   uint32  `json:"rated_count"`
	AverageScore float64 `json:"average_score"`
}

type Score struct {
	LaptopID string  `json:"laptop_id"`
	Score    float64 `json:"score"`
}

// Client talks to the laptop HTTP API. Streaming calls carry no client-wide
// timeout; bound them with ctx.
type Client struct {
	BaseURL string
	Client  *http.Client
}

func NewClient(baseURL string) *Client {
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		baseURL = strings.TrimRight(baseURL, "/")
	}
	return &Client{
		BaseURL: baseURL,
		Client:  &http.Client{},
	}
}

func (c *Client) CreateLaptop(ctx context.Context, l *Laptop) (string, error) {
	var out createResp
	if err := c.doJSON(ctx, http.MethodPost, "/laptops", createReq{Laptop: l}, http.StatusCreated, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *Client) GetLaptop(ctx context.Context, id string) (*Laptop, error) {
	var l Laptop
	if err := c.doJSON(ctx, http.MethodGet, "/laptops/"+url.PathEscape(id), nil, http.StatusOK, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *Client) GetRating(ctx context.Context, id string) (RateResult, error) {
	var out RateResult
	err := c.doJSON(ctx, http.MethodGet, "/laptops/"+url.PathEscape(id)+"/rating", nil, http.StatusOK, &out)
	return out, err
}

// SearchLaptops calls found for every laptop the server streams back.
// Returning an error from found aborts the stream.
func (c *Client) SearchLaptops(ctx context.Context, filter *Filter, found func(*Laptop) error) error {
	body, err := json.Marshal(filter)
	if err != nil {
		return err
	}

	resp, err := c.send(ctx, http.MethodPost, "/laptops/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, http.StatusOK); err != nil {
		return err
	}

	return readStream(resp.Body, func(raw json.RawMessage) error {
		var msg searchResp
		if err := json.Unmarshal(raw, &msg); err != nil {
			return err
		}
		return found(msg.Laptop)
	})
}

// RateLaptops sends scores as a single stream and returns the server's
// answers in submission order.
func (c *Client) RateLaptops(ctx context.Context, scores []Score) ([]RateResult, error) {
	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	for _, s := range scores {
		if err := enc.Encode(s); err != nil {
			return nil, err
		}
	}

	resp, err := c.send(ctx, http.MethodPost, "/laptops/ratings", ContentTypeScores, &body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, http.StatusOK); err != nil {
		return nil, err
	}

	out := make([]RateResult, 0, len(scores))
	err = readStream(resp.Body, func(raw json.RawMessage) error {
		var res RateResult
		if err := json.Unmarshal(raw, &res); err != nil {
			return err
		}
		out = append(out, res)
		return nil
	})
	return out, err
}

func (c *Client) UploadImage(ctx context.Context, laptopID, contentType string, data io.Reader) (ImageInfo, error) {
	resp, err := c.send(ctx, http.MethodPost, "/laptops/"+url.PathEscape(laptopID)+"/image", contentType, data)
	if err != nil {
		return ImageInfo{}, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, http.StatusCreated); err != nil {
		return ImageInfo{}, err
	}

	var info ImageInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return ImageInfo{}, err
	}
	return info, nil
}

// ContentTypeScores is the media type of a rating request stream.
const ContentTypeScores = "application/x-ndjson"

func (c *Client) doJSON(ctx context.Context, method, path string, in any, want int, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	resp, err := c.send(ctx, method, path, "application/json", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, want); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) send(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrClientUnavailable, err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response, want int) error {
	if resp.StatusCode == want {
		return nil
	}

	msg := readErrorMessage(resp.Body)
	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrClientNotFound, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrClientAlreadyExists, msg)
	default:
		return fmt.Errorf("%w: status=%d: %s", ErrClientBadStatus, resp.StatusCode, msg)
	}
}

func readErrorMessage(r io.Reader) string {
	var e struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(r, maxBodyBytes))
	if json.Unmarshal(raw, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(raw))
}

// readStream decodes newline-delimited JSON and hands every message to fn.
// A trailing {"error": ...} message is turned into ErrClientStream.
func readStream(r io.Reader, fn func(json.RawMessage) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxBodyBytes)

	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		var probe struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(line, &probe); err != nil {
			return fmt.Errorf("decode stream message: %w", err)
		}
		if probe.Error != "" {
			return fmt.Errorf("%w: %s", ErrClientStream, probe.Error)
		}

		if err := fn(json.RawMessage(line)); err != nil {
			return err
		}
	}
	return sc.Err()
}
