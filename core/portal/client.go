package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"transmute/core/featureset"
	"transmute/core/results"
	"transmute/core/utils"
)

// tokenSlack renews a token this long before it expires.
const tokenSlack = time.Minute

// Client talks to a portal over its REST API. It implements Session.
type Client struct {
	cfg     Config
	baseURL string
	http    *http.Client

	mu      sync.Mutex
	token   string
	expires time.Time
}

var _ Session = (*Client)(nil)

// NewClient creates a portal client. No request is made until the first call.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(cfg.URL, "/")
	if base == "" {
		return nil, fmt.Errorf("portal url is required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid portal url %q: %w", cfg.URL, err)
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 60
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	transport := utils.NewTransport(timeoutDuration)

	return &Client{
		cfg:     cfg,
		baseURL: base,
		http:    &http.Client{Transport: transport},
	}, nil
}

// Item fetches a content item by id.
func (c *Client) Item(ctx context.Context, id string) (*Item, error) {
	var item Item
	endpoint := c.baseURL + "/sharing/rest/content/items/" + url.PathEscape(id)
	if err := c.get(ctx, "item", endpoint, nil, &item); err != nil {
		return nil, err
	}
	if item.URL == "" {
		return nil, &Error{Op: "item", Message: fmt.Sprintf("item %s has no service url", id)}
	}
	return &item, nil
}

// Layers lists the layers of the item's service followed by its tables.
func (c *Client) Layers(ctx context.Context, item *Item) ([]LayerRef, error) {
	var info serviceInfo
	serviceURL := strings.TrimRight(item.URL, "/")
	if err := c.get(ctx, "service", serviceURL, nil, &info); err != nil {
		return nil, err
	}

	refs := make([]LayerRef, 0, len(info.Layers)+len(info.Tables))
	for _, ref := range append(info.Layers, info.Tables...) {
		ref.URL = serviceURL + "/" + strconv.Itoa(ref.ID)
		refs = append(refs, ref)
	}
	return refs, nil
}

// Layer fetches layer metadata.
func (c *Client) Layer(ctx context.Context, layerURL string) (*LayerInfo, error) {
	var info LayerInfo
	if err := c.get(ctx, "layer", layerURL, nil, &info); err != nil {
		return nil, err
	}
	info.URL = layerURL
	return &info, nil
}

// Query pages through the layer until the server reports no more features.
func (c *Client) Query(ctx context.Context, layer *LayerInfo, where string) (*featureset.FeatureSet, error) {
	if where == "" {
		where = "1=1"
	}

	var out *featureset.FeatureSet
	offset := 0
	for {
		form := url.Values{
			"where":          {where},
			"outFields":      {"*"},
			"returnGeometry": {"true"},
		}
		if offset > 0 {
			form.Set("resultOffset", strconv.Itoa(offset))
		}
		if c.cfg.PageSize > 0 {
			form.Set("resultRecordCount", strconv.Itoa(c.cfg.PageSize))
		}

		var page queryPage
		if err := c.post(ctx, "query", layer.URL+"/query", form, &page); err != nil {
			return nil, err
		}

		if out == nil {
			fs := page.FeatureSet
			out = &fs
		} else {
			out.Features = append(out.Features, page.Features...)
		}

		if !page.ExceededTransferLimit || len(page.Features) == 0 {
			break
		}
		offset += len(page.Features)
	}

	if out.ObjectIDFieldName == "" {
		out.ObjectIDFieldName = layer.ObjectIDField
	}
	if len(out.Fields) == 0 {
		out.Fields = append(featureset.Schema(nil), layer.Fields...)
	}
	if out.Features == nil {
		out.Features = []featureset.Feature{}
	}
	out.Normalize()
	return out, nil
}

// ApplyEdits submits the edits in a single applyEdits request. Per-feature failures are
// reported in the response, not as an error.
func (c *Client) ApplyEdits(ctx context.Context, layerURL string, adds, updates []featureset.Feature, deletes []int64) (*results.EditResponse, error) {
	form := url.Values{"rollbackOnFailure": {"false"}}

	if len(adds) > 0 {
		data, err := json.Marshal(adds)
		if err != nil {
			return nil, &Error{Op: "applyEdits", Err: err}
		}
		form.Set("adds", string(data))
	}
	if len(updates) > 0 {
		data, err := json.Marshal(updates)
		if err != nil {
			return nil, &Error{Op: "applyEdits", Err: err}
		}
		form.Set("updates", string(data))
	}
	if len(deletes) > 0 {
		ids := make([]string, len(deletes))
		for i, id := range deletes {
			ids[i] = strconv.FormatInt(id, 10)
		}
		form.Set("deletes", strings.Join(ids, ","))
	}

	var resp results.EditResponse
	if err := c.post(ctx, "applyEdits", layerURL+"/applyEdits", form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// authenticate returns a valid token, requesting a new one when needed.
// Anonymous clients get an empty token.
func (c *Client) authenticate(ctx context.Context) (string, error) {
	if c.cfg.Username == "" {
		return "", nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Add(tokenSlack).Before(c.expires) {
		return c.token, nil
	}

	minutes := c.cfg.TokenMinutes
	if minutes <= 0 {
		minutes = 60
	}
	form := url.Values{
		"username":   {c.cfg.Username},
		"password":   {c.cfg.Password},
		"client":     {"referer"},
		"referer":    {c.cfg.Referer},
		"expiration": {strconv.Itoa(minutes)},
		"f":          {"json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sharing/rest/generateToken", strings.NewReader(form.Encode()))
	if err != nil {
		return "", &Error{Op: "generateToken", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var tok tokenResponse
	if err := c.do(req, "generateToken", &tok); err != nil {
		return "", err
	}
	if tok.Token == "" {
		return "", &Error{Op: "generateToken", Message: "portal returned an empty token"}
	}

	c.token = tok.Token
	c.expires = time.UnixMilli(tok.Expires)
	if tok.Expires == 0 {
		c.expires = time.Now().Add(time.Duration(minutes) * time.Minute)
	}
	return c.token, nil
}

func (c *Client) get(ctx context.Context, op, endpoint string, params url.Values, out any) error {
	token, err := c.authenticate(ctx)
	if err != nil {
		return err
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("f", "json")
	if token != "" {
		params.Set("token", token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	return c.do(req, op, out)
}

func (c *Client) post(ctx context.Context, op, endpoint string, form url.Values, out any) error {
	token, err := c.authenticate(ctx)
	if err != nil {
		return err
	}

	form.Set("f", "json")
	if token != "" {
		form.Set("token", token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, op, out)
}

// do sends req and decodes the body into out, turning HTTP and portal errors into *Error.
func (c *Client) do(req *http.Request, op string, out any) error {
	if c.cfg.Referer != "" {
		req.Header.Set("Referer", c.cfg.Referer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Op: op, Code: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var envelope struct {
		Error *apiError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return &Error{Op: op, Message: "response is not JSON", Err: err}
	}
	if envelope.Error != nil {
		return &Error{Op: op, Code: envelope.Error.Code, Message: envelope.Error.Message, Details: envelope.Error.Details}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return &Error{Op: op, Message: "failed to decode response", Err: err}
	}
	return nil
}
