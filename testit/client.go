package testit

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// RemoteError is any non-success response from the service. 204 counts as
// success; every other non-2xx status produces a RemoteError carrying the
// response body text.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote call failed with status %d: %s", e.StatusCode, e.Body)
}

// Options configures a Client.
type Options struct {
	// InsecureSkipVerify disables TLS certificate verification for this
	// client only.
	InsecureSkipVerify bool
}

// Client talks to the test-management service's v2 REST API using
// PrivateToken authentication.
type Client struct {
	logger  zerolog.Logger
	baseURL string
	token   string
	http    *http.Client
}

// New returns a client for the service at baseURL. The URL is normalized to
// end with a separator so API paths concatenate cleanly.
func New(logger zerolog.Logger, baseURL, token string, opts Options) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	httpClient := &http.Client{}
	if opts.InsecureSkipVerify {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &Client{
		logger:  logger,
		baseURL: baseURL,
		token:   token,
		http:    httpClient,
	}
}

// SearchTestRuns returns the runs of a project.
func (c *Client) SearchTestRuns(ctx context.Context, projectID string) ([]TestRun, error) {
	var runs []TestRun
	req := testRunSearchRequest{ProjectIDs: []string{projectID}}
	if err := c.doJSON(ctx, http.MethodPost, "api/v2/testRuns/search", req, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// CreateTestRun creates a run named name in the project.
func (c *Client) CreateTestRun(ctx context.Context, projectID, name string) (TestRun, error) {
	var run TestRun
	req := testRunCreateRequest{ProjectID: projectID, Name: name}
	if err := c.doJSON(ctx, http.MethodPost, "api/v2/testRuns", req, &run); err != nil {
		return TestRun{}, err
	}
	return run, nil
}

// SearchAutoTests returns the not-deleted autotests of the project whose
// external id equals externalID, in the order the service returns them.
func (c *Client) SearchAutoTests(ctx context.Context, projectID, externalID string) ([]AutoTest, error) {
	var tests []AutoTest
	req := autoTestSearchRequest{
		Filter: autoTestSearchFilter{
			ProjectIDs:  []string{projectID},
			ExternalIDs: []string{externalID},
			IsDeleted:   false,
		},
	}
	if err := c.doJSON(ctx, http.MethodPost, "api/v2/autoTests/search", req, &tests); err != nil {
		return nil, err
	}
	return tests, nil
}

// CreateAutoTest registers a new autotest definition.
func (c *Client) CreateAutoTest(ctx context.Context, create AutoTestCreate) (AutoTest, error) {
	var test AutoTest
	if err := c.doJSON(ctx, http.MethodPost, "api/v2/autoTests", create, &test); err != nil {
		return AutoTest{}, err
	}
	return test, nil
}

// UpdateAutoTest replaces the definition fields of an existing autotest.
func (c *Client) UpdateAutoTest(ctx context.Context, update AutoTestUpdate) error {
	return c.doJSON(ctx, http.MethodPut, "api/v2/autoTests", update, nil)
}

// AddTestResults appends results to the run. The service expects an array
// body even for a single element.
func (c *Client) AddTestResults(ctx context.Context, runID string, results []TestResult) error {
	path := fmt.Sprintf("api/v2/testRuns/%s/testResults", runID)
	return c.doJSON(ctx, http.MethodPost, path, results, nil)
}

// UploadAttachment streams the file at path through the attachments
// endpoint and returns the reference the service assigned.
func (c *Client) UploadAttachment(ctx context.Context, path, contentType string) (AttachmentRef, error) {
	f, err := os.Open(path)
	if err != nil {
		return AttachmentRef{}, fmt.Errorf("failed to open attachment %s: %w", path, err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := createFilePart(mw, filepath.Base(path), contentType)
	if err != nil {
		return AttachmentRef{}, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return AttachmentRef{}, fmt.Errorf("failed to read attachment %s: %w", path, err)
	}
	if err := mw.Close(); err != nil {
		return AttachmentRef{}, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"api/v2/attachments", &body)
	if err != nil {
		return AttachmentRef{}, err
	}
	req.Header.Set("Authorization", "PrivateToken "+c.token)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var ref AttachmentRef
	if err := c.send(req, &ref); err != nil {
		return AttachmentRef{}, err
	}
	return ref, nil
}

func createFilePart(mw *multipart.Writer, filename, contentType string) (io.Writer, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	return mw.CreatePart(header)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "PrivateToken "+c.token)
	req.Header.Set("Content-Type", "application/json")

	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out interface{}) error {
	c.logger.Debug().Str("method", req.Method).Str("url", req.URL.String()).Msg("Calling remote service")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response of %s: %w", req.URL.Path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RemoteError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent || len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response of %s: %w", req.URL.Path, err)
	}
	return nil
}
