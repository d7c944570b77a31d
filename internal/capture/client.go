package capture

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Message is the wire envelope of the service's message protocol.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// StatusResponse is the GET_STATUS reply.
type StatusResponse struct {
	Enabled      bool `json:"enabled"`
	ShouldRecord bool `json:"shouldRecord"`
}

// recordResponse is the RECORD_INPUT reply.
type recordResponse struct {
	Success bool `json:"success"`
}

// Client talks to the imprint service's message endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the service at baseURL,
// e.g. "http://127.0.0.1:7820".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Status asks the service whether capture should run for pageURL.
func (c *Client) Status(pageURL string) (*StatusResponse, error) {
	var status StatusResponse
	err := c.post(Message{
		Type:    "GET_STATUS",
		Payload: map[string]string{"url": pageURL},
	}, &status)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// Send delivers one capture request. The caller treats failures as dropped
// captures; Send itself never retries.
func (c *Client) Send(req Request) error {
	var resp recordResponse
	if err := c.post(Message{Type: "RECORD_INPUT", Payload: req}, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("capture not accepted")
	}
	return nil
}

func (c *Client) post(msg Message, out any) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Post(c.baseURL+"/api/message", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("message rejected: status %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// Attach performs the page-load admission check and, when capture is
// admitted, returns a recorder wired to the service. It returns (nil, nil)
// when the page fails admission: no listeners should attach at all.
func Attach(client *Client, page PageContext, log logrus.FieldLogger) (*Recorder, error) {
	status, err := client.Status(page.URL)
	if err != nil {
		// Treated as a torn-down service context: capture silently disabled.
		log.WithError(err).Debug("status check failed, capture disabled")
		return nil, nil
	}
	if !status.Enabled || !status.ShouldRecord {
		return nil, nil
	}
	return NewRecorder(page, client, log), nil
}
