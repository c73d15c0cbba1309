package subsonic

//go:generate $MOCKGEN -source=client.go -destination=mocks/client_mock.go

import (
	"context"
	"crypto/md5" //nolint:gosec // The Subsonic token scheme is defined as md5(password + salt).
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/oshokin/subsonic-grabber/internal/config"
	"github.com/oshokin/subsonic-grabber/internal/logger"
	http_transport "github.com/oshokin/subsonic-grabber/internal/transport/http"
)

// Client defines the interface for interacting with a Subsonic server.
type Client interface {
	// Ping checks that the server is reachable and the credentials are accepted.
	Ping(ctx context.Context) error
	// GetSong retrieves the metadata of a single song.
	GetSong(ctx context.Context, songID string) (*Song, error)
	// GetRandomSongs retrieves up to size random songs.
	GetRandomSongs(ctx context.Context, size int) ([]*Song, error)
	// Download opens the original file of a song for streaming.
	Download(ctx context.Context, songID string) (*DownloadResult, error)
	// GetCoverArt retrieves a cover art image.
	GetCoverArt(ctx context.Context, coverArtID string) ([]byte, error)
	// GetLyrics retrieves the lyrics matching artist and title.
	GetLyrics(ctx context.Context, artist, title string) (*Lyrics, error)
	// GetBaseURL returns the server base URL.
	GetBaseURL() string
}

// DownloadResult holds an open content stream.
type DownloadResult struct {
	// Body is the content stream; the caller must close it.
	Body io.ReadCloser
	// TotalBytes is the announced content length, -1 when unknown.
	TotalBytes int64
	// ContentType is the announced MIME type.
	ContentType string
}

// ClientImpl implements the Client interface over HTTP.
type ClientImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// baseURL is the parsed server address.
	baseURL *url.URL
	// httpClient performs metadata requests with a timeout.
	httpClient *http.Client
	// streamClient performs content requests bounded only by the context.
	streamClient *http.Client
	// songsCache caches song metadata by ID to avoid refetching songs seen in this run.
	songsCache *lru.Cache[uint64, *Song]
}

// NewClient creates and returns a new instance of ClientImpl.
// An unusable server address is reported as a *URIError.
func NewClient(cfg *config.Config) (Client, error) {
	baseURL, err := ParseServerURL(cfg.ServerURL)
	if err != nil {
		return nil, err
	}

	transport := http_transport.NewUserAgentInjector(
		http_transport.NewLogTransport(http.DefaultTransport, cfg.ParsedMaxLogLength),
		http_transport.NewUserAgentProvider(cfg.ClientName))

	cacheSize := cfg.SongsCacheSize
	if cacheSize <= 0 {
		cacheSize = DefaultSongsCacheSize
	}

	songsCache, err := lru.New[uint64, *Song](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create songs cache: %w", err)
	}

	client := &ClientImpl{
		cfg:     cfg,
		baseURL: baseURL,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   http_transport.DefaultTimeout,
		},
		streamClient: &http.Client{
			Transport: transport,
		},
		songsCache: songsCache,
	}

	return client, nil
}

// Ping checks that the server is reachable and the credentials are accepted.
func (c *ClientImpl) Ping(ctx context.Context) error {
	response, err := c.getJSON(ctx, subsonicAPIPing, nil)
	if err != nil {
		return err
	}

	logger.Debugf(ctx, "Server speaks protocol version %s", response.Version)

	return nil
}

// GetSong retrieves the metadata of a single song.
// Uses an LRU cache to avoid redundant API calls for the same song.
// Every call returns a copy the caller owns.
func (c *ClientImpl) GetSong(ctx context.Context, songID string) (*Song, error) {
	// IDs that are not numbers bypass the cache and are left for the server to reject.
	if id, parseErr := strconv.ParseUint(songID, 10, 64); parseErr == nil {
		if cached, ok := c.songsCache.Get(id); ok {
			logger.Debugf(ctx, "Song cache hit for ID: %s", songID)

			return cached.clone(), nil
		}
	}

	query := url.Values{}
	query.Set("id", songID)

	response, err := c.getJSON(ctx, subsonicAPIGetSong, query)
	if err != nil {
		return nil, err
	}

	song, err := response.Song()
	if err != nil {
		return nil, err
	}

	c.songsCache.Add(song.ID, song.clone())

	return song, nil
}

// GetRandomSongs retrieves up to size random songs.
// Songs the server sends malformed are skipped and reported through the returned error.
func (c *ClientImpl) GetRandomSongs(ctx context.Context, size int) ([]*Song, error) {
	size = max(1, min(size, maxRandomSongs))

	query := url.Values{}
	query.Set("size", strconv.Itoa(size))

	response, err := c.getJSON(ctx, subsonicAPIGetRandomSongs, query)
	if err != nil {
		return nil, err
	}

	songs, err := response.Songs(randomSongsContainer)
	for _, song := range songs {
		c.songsCache.Add(song.ID, song.clone())
	}

	return songs, err
}

// Download opens the original file of a song for streaming.
func (c *ClientImpl) Download(ctx context.Context, songID string) (*DownloadResult, error) {
	query := url.Values{}
	query.Set("id", songID)

	response, err := c.do(ctx, c.streamClient, subsonicAPIDownload, query)
	if err != nil {
		return nil, err
	}

	contentType := response.Header.Get("Content-Type")
	if isJSONContentType(contentType) {
		defer response.Body.Close() //nolint:errcheck // Error on close is not critical here.

		return nil, c.binaryResponseError(response.Body)
	}

	return &DownloadResult{
		Body:        response.Body,
		TotalBytes:  response.ContentLength,
		ContentType: contentType,
	}, nil
}

// GetCoverArt retrieves a cover art image.
func (c *ClientImpl) GetCoverArt(ctx context.Context, coverArtID string) ([]byte, error) {
	query := url.Values{}
	query.Set("id", coverArtID)

	response, err := c.do(ctx, c.httpClient, subsonicAPIGetCoverArt, query)
	if err != nil {
		return nil, err
	}

	defer response.Body.Close() //nolint:errcheck // Error on close is not critical here.

	if isJSONContentType(response.Header.Get("Content-Type")) {
		return nil, c.binaryResponseError(response.Body)
	}

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, FromIO(err)
	}

	return data, nil
}

// GetLyrics retrieves the lyrics matching artist and title.
func (c *ClientImpl) GetLyrics(ctx context.Context, artist, title string) (*Lyrics, error) {
	query := url.Values{}
	query.Set("artist", artist)
	query.Set("title", title)

	response, err := c.getJSON(ctx, subsonicAPIGetLyrics, query)
	if err != nil {
		return nil, err
	}

	return response.Lyrics()
}

// GetBaseURL returns the server base URL.
func (c *ClientImpl) GetBaseURL() string {
	return c.baseURL.String()
}

func (c *ClientImpl) getJSON(ctx context.Context, endpoint string, query url.Values) (*Response, error) {
	response, err := c.do(ctx, c.httpClient, endpoint, query)
	if err != nil {
		return nil, err
	}

	defer response.Body.Close() //nolint:errcheck // Error on close is not critical here.

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, FromIO(err)
	}

	return ParseResponse(body)
}

// do sends an authenticated GET request and checks the status code.
func (c *ClientImpl) do(
	ctx context.Context,
	httpClient *http.Client,
	endpoint string,
	query url.Values,
) (*http.Response, error) {
	route := c.baseURL.JoinPath(subsonicAPIRESTPath, endpoint+subsonicAPIViewSuffix)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, route.String(), http.NoBody)
	if err != nil {
		return nil, Classify(err)
	}

	request.URL.RawQuery = c.authenticate(query).Encode()

	response, err := httpClient.Do(request)
	if err != nil {
		return nil, FromTransport(err)
	}

	if response.StatusCode != http.StatusOK {
		response.Body.Close() //nolint:errcheck,gosec // Error on close is not critical here.

		return nil, FromStatus(response.StatusCode)
	}

	return response, nil
}

// authenticate adds the token authentication parameters to query.
func (c *ClientImpl) authenticate(query url.Values) url.Values {
	authenticated := url.Values{}
	for key, values := range query {
		authenticated[key] = append([]string(nil), values...)
	}

	salt := strings.ReplaceAll(uuid.New().String(), "-", "")

	authenticated.Set("u", c.cfg.Username)
	authenticated.Set("t", Token(c.cfg.Password, salt))
	authenticated.Set("s", salt)
	authenticated.Set("v", c.cfg.APIVersion)
	authenticated.Set("c", c.cfg.ClientName)
	authenticated.Set("f", responseFormatJSON)

	return authenticated
}

// binaryResponseError turns the JSON document a binary endpoint answered with into an error.
func (c *ClientImpl) binaryResponseError(body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return FromIO(err)
	}

	if _, err = ParseResponse(data); err != nil {
		return err
	}

	return &StreamError{Reason: "server sent a JSON document instead of content"}
}

// Token computes the authentication token for password and salt.
func Token(password, salt string) string {
	sum := md5.Sum([]byte(password + salt)) //nolint:gosec // Mandated by the protocol.

	return hex.EncodeToString(sum[:])
}

func isJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == "application/json" || mediaType == "text/json"
}
