package workflowy

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"regexp"
	"time"

	apperrors "github.com/matzehuels/brainlift/pkg/errors"
	"github.com/matzehuels/brainlift/pkg/httputil"
)

// DefaultBaseURL is the WorkFlowy host.
const DefaultBaseURL = "https://workflowy.com"

// shareParamsRe locates the share parameters embedded in the share page.
var shareParamsRe = regexp.MustCompile(`PROJECT_TREE_DATA_URL_PARAMS = (\{.*?\});`)

// Client fetches shared WorkFlowy outlines.
//
// A zero-configured client talks to workflowy.com with a 30 second timeout.
// BaseURL exists for tests, which point it at a local server.
type Client struct {
	http    *http.Client
	baseURL string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithBaseURL overrides the WorkFlowy host.
func WithBaseURL(base string) ClientOption {
	return func(c *Client) { c.baseURL = base }
}

// NewClient creates a WorkFlowy client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ShareInfo is the result of resolving a share page: the session cookie
// WorkFlowy hands out and the canonical share id embedded in the HTML.
type ShareInfo struct {
	SessionID string
	ShareID   string
}

// ResolveShare loads the share page and extracts the session cookie and
// share id needed for the tree endpoint.
func (c *Client) ResolveShare(ctx context.Context, shareURL string) (ShareInfo, error) {
	if err := apperrors.ValidateURL(shareURL); err != nil {
		return ShareInfo{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, shareURL, nil)
	if err != nil {
		return ShareInfo{}, err
	}

	resp, err := httputil.Do(c.http, req)
	if err != nil {
		return ShareInfo{}, apperrors.Wrap(apperrors.ErrCodeNetwork, err, "fetch share page %s", shareURL)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ShareInfo{}, apperrors.Wrap(apperrors.ErrCodeNetwork, err, "read share page")
	}

	var info ShareInfo
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "sessionid" {
			info.SessionID = cookie.Value
		}
	}
	if info.SessionID == "" {
		return ShareInfo{}, apperrors.New(apperrors.ErrCodeInvalidOutline, "no session cookie on share page")
	}

	m := shareParamsRe.FindSubmatch(body)
	if m == nil {
		return ShareInfo{}, apperrors.New(apperrors.ErrCodeInvalidOutline, "share id not found in page")
	}
	var params struct {
		ShareID string `json:"share_id"`
	}
	if err := json.Unmarshal(m[1], &params); err != nil || params.ShareID == "" {
		return ShareInfo{}, apperrors.New(apperrors.ErrCodeInvalidOutline, "malformed share parameters")
	}
	info.ShareID = params.ShareID

	return info, nil
}

// TreeData fetches the full outline tree for a share.
// Comment nodes are filtered out; the remaining nodes keep the order the
// endpoint returned them in.
func (c *Client) TreeData(ctx context.Context, share ShareInfo) ([]Node, error) {
	url := c.baseURL + "/get_tree_data/?share_id=" + share.ShareID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cookie", "sessionid="+share.SessionID)

	var payload struct {
		Items []Node `json:"items"`
	}
	err = httputil.RetryWithBackoff(ctx, func() error {
		resp, err := httputil.Do(c.http, req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		return json.NewDecoder(resp.Body).Decode(&payload)
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeNetwork, err, "fetch tree data")
	}

	nodes := payload.Items[:0:0]
	for _, n := range payload.Items {
		if !n.IsComment() {
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

// Scrape resolves a share URL, fetches its tree, and returns the cleaned
// outline with rendered markdown.
func (c *Client) Scrape(ctx context.Context, shareURL string) (*Outline, error) {
	share, err := c.ResolveShare(ctx, shareURL)
	if err != nil {
		return nil, err
	}

	raw, err := c.TreeData(ctx, share)
	if err != nil {
		return nil, err
	}

	nodes := CleanNodes(raw)
	return &Outline{
		Name:     RootName(nodes),
		ShareID:  share.ShareID,
		Nodes:    nodes,
		Markdown: OutlineMarkdown(nodes),
	}, nil
}
