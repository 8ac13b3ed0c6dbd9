package subsonic

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Client is the remote catalog as consumed by the synchronizer. All calls
// block until the server answered and may fail with a transport error or an
// *APIError.
type Client interface {
	// GetIndexes returns the folder index. When ifModifiedSince is non-zero
	// the server may omit unchanged content.
	GetIndexes(ctx context.Context, ifModifiedSince int64) (*Indexes, error)
	// GetPlaylists returns all playlists visible to the user.
	GetPlaylists(ctx context.Context) ([]Playlist, error)
	// GetPlaylist returns a playlist with its entries in order.
	GetPlaylist(ctx context.Context, id ID) (*PlaylistDetail, error)
	// GetMusicDirectory returns the children of a directory.
	GetMusicDirectory(ctx context.Context, id ID) (*Directory, error)
	// GetArtist returns an artist with its albums.
	GetArtist(ctx context.Context, id ID) (*ArtistDetail, error)
}

// HTTPClient implements Client over the Subsonic REST API.
type HTTPClient struct {
	cfg     Config
	baseURL string
	timeout time.Duration
}

// NewHTTPClient creates a client for the given connection.
func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &HTTPClient{
		cfg:     cfg,
		baseURL: strings.TrimSuffix(cfg.URL, "/") + "/rest/",
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}, nil
}

// Name returns the configured display name.
func (c *HTTPClient) Name() string {
	return c.cfg.Name
}

func (c *HTTPClient) GetIndexes(ctx context.Context, ifModifiedSince int64) (*Indexes, error) {
	params := url.Values{}
	if ifModifiedSince > 0 {
		params.Set("ifModifiedSince", strconv.FormatInt(ifModifiedSince, 10))
	}
	resp, err := c.call(ctx, "getIndexes", params)
	if err != nil {
		return nil, err
	}
	if resp.Indexes == nil {
		return &Indexes{}, nil
	}
	return resp.Indexes, nil
}

func (c *HTTPClient) GetPlaylists(ctx context.Context) ([]Playlist, error) {
	resp, err := c.call(ctx, "getPlaylists", nil)
	if err != nil {
		return nil, err
	}
	if resp.Playlists == nil {
		return nil, nil
	}
	return resp.Playlists.Playlist, nil
}

func (c *HTTPClient) GetPlaylist(ctx context.Context, id ID) (*PlaylistDetail, error) {
	resp, err := c.call(ctx, "getPlaylist", url.Values{"id": {id.String()}})
	if err != nil {
		return nil, err
	}
	if resp.Playlist == nil {
		return nil, fmt.Errorf("getPlaylist %s: empty response", id)
	}
	return resp.Playlist, nil
}

func (c *HTTPClient) GetMusicDirectory(ctx context.Context, id ID) (*Directory, error) {
	resp, err := c.call(ctx, "getMusicDirectory", url.Values{"id": {id.String()}})
	if err != nil {
		return nil, err
	}
	if resp.Directory == nil {
		return nil, fmt.Errorf("getMusicDirectory %s: empty response", id)
	}
	return resp.Directory, nil
}

func (c *HTTPClient) GetArtist(ctx context.Context, id ID) (*ArtistDetail, error) {
	resp, err := c.call(ctx, "getArtist", url.Values{"id": {id.String()}})
	if err != nil {
		return nil, err
	}
	if resp.Artist == nil {
		return nil, fmt.Errorf("getArtist %s: empty response", id)
	}
	return resp.Artist, nil
}

// authParams returns the common query parameters including a fresh token.
func (c *HTTPClient) authParams() url.Values {
	salt := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	sum := md5.Sum([]byte(c.cfg.Password + salt))

	return url.Values{
		"u": {c.cfg.Username},
		"t": {hex.EncodeToString(sum[:])},
		"s": {salt},
		"v": {c.cfg.APIVersion},
		"c": {c.cfg.ClientName},
		"f": {"json"},
	}
}

func (c *HTTPClient) call(ctx context.Context, method string, params url.Values) (*response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query := c.authParams()
	for k, vs := range params {
		query[k] = vs
	}

	agent := fiber.Get(c.baseURL + method + ".view")
	agent.QueryString(query.Encode())
	agent.Timeout(c.timeout)

	var env envelope
	code, _, errs := agent.Struct(&env)
	if len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", method, errors.Join(errs...))
	}
	if code != fiber.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", method, code)
	}

	resp := env.Response
	if resp.Status != "ok" {
		if resp.Error != nil {
			return nil, fmt.Errorf("%s: %w", method, resp.Error)
		}
		return nil, fmt.Errorf("%s: status %q", method, resp.Status)
	}
	return &resp, nil
}
