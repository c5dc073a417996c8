package source

import (
	"context"
	"io"
	"net/http"
	neturl "net/url"
	"path"
	"time"

	"github.com/samber/oops"
	"resty.dev/v3"

	"github.com/g5becks/mathspan/internal/config"
	"github.com/g5becks/mathspan/internal/manifest"
)

const (
	userAgent           = "mathspan"
	httpRetryCount      = 3
	httpRetryMaxWaitSec = 10
)

type urlSource struct {
	name     string
	source   config.Source
	filename string
	client   *resty.Client
}

func NewURL(name string, cfg config.Source) Source {
	return &urlSource{
		name:     name,
		source:   cfg,
		filename: filenameFromURL(name, cfg.URL),
		client:   newHTTPClient(),
	}
}

func (s *urlSource) Location() string {
	return s.source.URL
}

// Fetch downloads the URL as a single document. Unless forced it sends the
// previous collection's validators and reports NotModified on 304.
func (s *urlSource) Fetch(ctx context.Context, prev *manifest.Collection, opts FetchOptions) (*FetchResult, error) {
	request := s.client.R().SetContext(ctx)
	if !opts.Force && prev != nil {
		if prev.ETag != "" {
			request.SetHeader("If-None-Match", prev.ETag)
		}
		if prev.LastModified != "" {
			request.SetHeader("If-Modified-Since", prev.LastModified)
		}
	}

	response, err := request.Get(s.source.URL)
	if err != nil {
		return nil, oops.
			Code("DOWNLOAD_FAILED").
			With("source", s.name).
			With("url", s.source.URL).
			Wrapf(err, "downloading url source")
	}

	if response.StatusCode() == http.StatusNotModified {
		result := &FetchResult{NotModified: true}
		if prev != nil {
			result.ETag = prev.ETag
			result.LastModified = prev.LastModified
		}
		return result, nil
	}

	if response.StatusCode() < http.StatusOK || response.StatusCode() >= http.StatusMultipleChoices {
		return nil, oops.
			Code("DOWNLOAD_FAILED").
			With("source", s.name).
			With("url", s.source.URL).
			With("status", response.StatusCode()).
			Errorf("url source returned non-success status %d", response.StatusCode())
	}

	content, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, oops.
			Code("DOWNLOAD_FAILED").
			With("source", s.name).
			With("url", s.source.URL).
			Wrapf(err, "reading response body")
	}

	lastModified := response.Header().Get("Last-Modified")
	doc := Document{
		Path:     s.filename,
		Content:  content,
		Size:     int64(len(content)),
		Modified: modifiedTime(lastModified),
	}
	if opts.MaxFileSize > 0 && doc.Size > opts.MaxFileSize {
		doc.Content = nil
		doc.TooLarge = true
	}

	return &FetchResult{
		Documents:    []Document{doc},
		ETag:         response.Header().Get("ETag"),
		LastModified: lastModified,
	}, nil
}

func modifiedTime(header string) time.Time {
	if header != "" {
		if t, err := http.ParseTime(header); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}

func filenameFromURL(sourceName string, rawURL string) string {
	parsed, err := neturl.Parse(rawURL)
	if err == nil {
		baseName := path.Base(parsed.Path)
		if baseName != "" && baseName != "." && baseName != "/" {
			return baseName
		}
	}

	return sourceName + ".txt"
}

func newHTTPClient() *resty.Client {
	client := resty.New()
	client.SetHeader("User-Agent", userAgent)
	client.SetRetryCount(httpRetryCount)
	client.SetRetryWaitTime(1 * time.Second)
	client.SetRetryMaxWaitTime(httpRetryMaxWaitSec * time.Second)
	return client
}
