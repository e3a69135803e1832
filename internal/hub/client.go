package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ytget/hf-downloader/internal/logging"
	"github.com/ytget/hf-downloader/internal/model"
)

const (
	// DefaultEndpoint is the public Hub; HF_ENDPOINT or Options.Endpoint point at a mirror
	DefaultEndpoint = "https://huggingface.co"
	// DefaultRevision is the branch listed when none is given
	DefaultRevision = "main"
	// DefaultTimeout bounds each tree API request
	DefaultTimeout = 30 * time.Second

	userAgent = "hf-downloader/1"
)

// Options configures a Client
type Options struct {
	Endpoint   string
	Revision   string
	Token      string
	Dataset    bool
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Lister lists the files of a repository
type Lister interface {
	ListFiles(ctx context.Context, repo model.RepoID) ([]model.RemoteFile, error)
}

// Client talks to the Hub tree API
type Client struct {
	endpoint string
	revision string
	token    string
	dataset  bool
	timeout  time.Duration
	httpc    *http.Client
	log      zerolog.Logger
}

// treeNode is one entry of the tree API response
type treeNode struct {
	Type string   `json:"type"` // "file" or "directory", older mirrors use "blob"/"tree"
	Path string   `json:"path"`
	Size int64    `json:"size"`
	LFS  *lfsInfo `json:"lfs,omitempty"`
}

type lfsInfo struct {
	Oid  string `json:"oid"`
	Size int64  `json:"size"`
}

// NewClient creates a client, filling empty endpoint and token from HF_ENDPOINT and HF_TOKEN
func NewClient(opts Options) *Client {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = os.Getenv("HF_ENDPOINT")
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	token := opts.Token
	if token == "" {
		token = os.Getenv("HF_TOKEN")
	}

	revision := opts.Revision
	if revision == "" {
		revision = DefaultRevision
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpc := opts.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        16,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		}}
	}

	return &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		revision: revision,
		token:    token,
		dataset:  opts.Dataset,
		timeout:  timeout,
		httpc:    httpc,
		log:      logging.Component("hub"),
	}
}

// Endpoint returns the base URL in use
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Token returns the bearer token in use, possibly empty
func (c *Client) Token() string {
	return c.token
}

// ListFiles walks the repository tree and returns every file in API order,
// with directories expanded in place.
func (c *Client) ListFiles(ctx context.Context, repo model.RepoID) ([]model.RemoteFile, error) {
	parsed, err := model.ParseRepoID(string(repo))
	if err != nil {
		return nil, listingErr(string(repo), ReasonInvalid, 0, err)
	}

	c.log.Debug().Str("op", "hub/list").Str("repo", parsed.String()).Str("revision", c.revision).Msg("Listing repository")

	var files []model.RemoteFile
	err = c.walkTree(ctx, parsed, "", func(n treeNode) {
		size := n.Size
		if n.LFS != nil && n.LFS.Size > 0 {
			size = n.LFS.Size
		}
		files = append(files, model.RemoteFile{
			Path: n.Path,
			Size: size,
			URL:  c.ResolveURL(parsed, n.Path),
			LFS:  n.LFS != nil,
		})
	})
	if err != nil {
		return nil, err
	}

	c.log.Debug().Str("op", "hub/list").Str("repo", parsed.String()).Int("files", len(files)).Msg("Listing complete")
	return files, nil
}

func (c *Client) walkTree(ctx context.Context, repo model.RepoID, prefix string, fn func(treeNode)) error {
	pageURL := c.TreeURL(repo, prefix)
	seen := make(map[string]bool)
	for pageURL != "" {
		if seen[pageURL] {
			return listingErr(repo.String(), ReasonBadResponse, 0, fmt.Errorf("tree pagination loops at %s", pageURL))
		}
		seen[pageURL] = true

		nodes, next, err := c.fetchPage(ctx, repo, pageURL)
		if err != nil {
			return err
		}

		for _, n := range nodes {
			switch n.Type {
			case "directory", "tree":
				if err := c.walkTree(ctx, repo, n.Path, fn); err != nil {
					return err
				}
			default:
				fn(n)
			}
		}
		pageURL = next
	}
	return nil
}

// fetchPage reads one page of a tree listing and returns the URL of the next page, if any
func (c *Client) fetchPage(ctx context.Context, repo model.RepoID, pageURL string) ([]treeNode, string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, "", listingErr(repo.String(), ReasonInvalid, 0, err)
	}
	c.addAuth(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, "", listingErr(repo.String(), ReasonNetwork, 0, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, "", listingErr(repo.String(), ReasonUnauthorized, resp.StatusCode,
			fmt.Errorf("repository requires a token or accepting its terms at %s", c.RepoURL(repo)))
	case resp.StatusCode == http.StatusNotFound:
		return nil, "", listingErr(repo.String(), ReasonNotFound, resp.StatusCode,
			fmt.Errorf("repository or revision %q does not exist", c.revision))
	case resp.StatusCode != http.StatusOK:
		return nil, "", listingErr(repo.String(), ReasonBadResponse, resp.StatusCode, errors.New(resp.Status))
	}

	var nodes []treeNode
	if err := json.NewDecoder(resp.Body).Decode(&nodes); err != nil {
		return nil, "", listingErr(repo.String(), ReasonBadResponse, resp.StatusCode, fmt.Errorf("decode tree: %w", err))
	}

	next := nextPageURL(resp.Header.Get("Link"))
	if next != "" {
		ref, err := req.URL.Parse(next)
		if err != nil {
			return nil, "", listingErr(repo.String(), ReasonBadResponse, resp.StatusCode, fmt.Errorf("parse next page link: %w", err))
		}
		next = ref.String()
	}
	return nodes, next, nil
}

// nextPageURL extracts the rel="next" target from a Link header
func nextPageURL(header string) string {
	for _, link := range strings.Split(header, ",") {
		parts := strings.Split(link, ";")
		target := strings.TrimSpace(parts[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}
		for _, param := range parts[1:] {
			key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
			if ok && strings.EqualFold(key, "rel") && strings.Trim(value, `"`) == "next" {
				return target[1 : len(target)-1]
			}
		}
	}
	return ""
}

func (c *Client) addAuth(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("User-Agent", userAgent)
}

func (c *Client) repoBase(repo model.RepoID) string {
	if c.dataset {
		return c.endpoint + "/datasets/" + repo.String()
	}
	return c.endpoint + "/" + repo.String()
}

// TreeURL returns the tree API URL for a directory, the repository root when prefix is empty
func (c *Client) TreeURL(repo model.RepoID, prefix string) string {
	kind := "models"
	if c.dataset {
		kind = "datasets"
	}
	u := fmt.Sprintf("%s/api/%s/%s/tree/%s", c.endpoint, kind, repo, url.PathEscape(c.revision))
	if prefix != "" {
		u += "/" + pathEscapeAll(prefix)
	}
	return u
}

// ResolveURL returns the direct download URL of a file
func (c *Client) ResolveURL(repo model.RepoID, path string) string {
	return fmt.Sprintf("%s/resolve/%s/%s", c.repoBase(repo), url.PathEscape(c.revision), pathEscapeAll(path))
}

// RepoURL returns the repository page, where gated terms are accepted
func (c *Client) RepoURL(repo model.RepoID) string {
	return c.repoBase(repo)
}

// pathEscapeAll escapes each segment but keeps the separators literal
func pathEscapeAll(p string) string {
	segs := strings.Split(p, "/")
	for i := range segs {
		segs[i] = url.PathEscape(segs[i])
	}
	return strings.Join(segs, "/")
}
