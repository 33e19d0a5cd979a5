package netbox

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type Options struct {
	URL      string
	Token    string
	Timeout  int
	Insecure bool
	SiteID   int
}

type Client struct {
	options Options
	client  *http.Client
}

type DeviceListOptions struct {
	Role  string
	Site  string
	Limit int
}

func New(options Options) *Client {

	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 30
	}

	return &Client{
		options: options,
		client: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: options.Insecure}, //nolint:gosec
			},
		},
	}
}

func (c *Client) SiteID() int {
	return c.options.SiteID
}

func (c *Client) endpoint(path string, params url.Values) string {

	u := strings.TrimRight(c.options.URL, "/") + path
	if len(params) > 0 {
		u = u + "?" + params.Encode()
	}
	return u
}

func (c *Client) do(method, path string, params url.Values, payload interface{}) ([]byte, int, error) {

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, errors.Wrap(err, "netbox marshal payload")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.endpoint(path, params), body)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "netbox %s %s", method, path)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Token %s", c.options.Token))
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "netbox %s %s", method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, errors.Wrapf(err, "netbox %s %s", method, path)
	}
	return data, resp.StatusCode, nil
}

func (c *Client) get(path string, params url.Values, out interface{}) error {

	data, code, err := c.do(http.MethodGet, path, params, nil)
	if err != nil {
		return err
	}
	if code != http.StatusOK {
		return errors.Errorf("netbox GET %s: %d - %s", path, code, strings.TrimSpace(string(data)))
	}
	return errors.Wrapf(json.Unmarshal(data, out), "netbox GET %s", path)
}

// VLANExists checks a VLAN by vid, scoped to the configured site when set.
func (c *Client) VLANExists(vid int) (bool, error) {

	params := url.Values{}
	params.Set("vid", strconv.Itoa(vid))
	if c.options.SiteID > 0 {
		params.Set("site_id", strconv.Itoa(c.options.SiteID))
	}
	params.Set("limit", "1")

	var r vlanList
	if err := c.get("/api/ipam/vlans/", params, &r); err != nil {
		return false, err
	}
	return r.Count > 0, nil
}

func (c *Client) CreateVLAN(vid int, name string) (*VLAN, error) {

	data, code, err := c.do(http.MethodPost, "/api/ipam/vlans/", nil, vlanWrite{
		VID:  vid,
		Name: name,
		Site: c.options.SiteID,
	})
	if err != nil {
		return nil, err
	}
	if code != http.StatusCreated {
		return nil, errors.Errorf("netbox create VLAN %d: %d - %s", vid, code, strings.TrimSpace(string(data)))
	}

	var v VLAN
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrapf(err, "netbox create VLAN %d", vid)
	}
	return &v, nil
}

// PrefixExists checks a prefix by its exact string value.
func (c *Client) PrefixExists(prefix string) (bool, error) {

	params := url.Values{}
	params.Set("prefix", prefix)
	params.Set("limit", "1")

	var r prefixList
	if err := c.get("/api/ipam/prefixes/", params, &r); err != nil {
		return false, err
	}
	return r.Count > 0, nil
}

func (c *Client) CreatePrefix(prefix string) (*Prefix, error) {

	data, code, err := c.do(http.MethodPost, "/api/ipam/prefixes/", nil, prefixWrite{
		Prefix: prefix,
		Site:   c.options.SiteID,
	})
	if err != nil {
		return nil, err
	}
	if code != http.StatusOK && code != http.StatusCreated {
		return nil, errors.Errorf("netbox create prefix %s: %d - %s", prefix, code, strings.TrimSpace(string(data)))
	}

	var p Prefix
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrapf(err, "netbox create prefix %s", prefix)
	}
	return &p, nil
}

// GetDevices lists active devices that carry a primary IP.
func (c *Client) GetDevices(opts DeviceListOptions) ([]Device, error) {

	params := url.Values{}
	params.Set("status", "active")
	params.Set("has_primary_ip", "true")
	if opts.Role != "" {
		params.Set("role", opts.Role)
	}
	if opts.Site != "" {
		params.Set("site", opts.Site)
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 1000
	}
	params.Set("limit", strconv.Itoa(limit))

	var r deviceList
	if err := c.get("/api/dcim/devices/", params, &r); err != nil {
		return nil, err
	}
	return r.Results, nil
}
