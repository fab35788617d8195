package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/codescope/pkg/errors"
	"github.com/matzehuels/codescope/pkg/observability"
)

// MaxDocumentSize bounds how many bytes a source will read.
const MaxDocumentSize = 256 << 20

// maxDocumentSize is MaxDocumentSize; tests lower it.
var maxDocumentSize int64 = MaxDocumentSize

// readDocument reads r whole, failing rather than truncating when it holds
// more than maxDocumentSize bytes.
func readDocument(r io.Reader, name string) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxDocumentSize+1))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetchFailed, err, "read %s", name)
	}
	if int64(len(raw)) > maxDocumentSize {
		return nil, errors.New(errors.ErrCodeFetchFailed, "%s: document exceeds %d bytes", name, maxDocumentSize)
	}
	return raw, nil
}

// Source fetches the raw code-data document.
type Source interface {
	// Fetch returns the document bytes. It is called once per load and is
	// never retried.
	Fetch(ctx context.Context) ([]byte, error)
	// String describes the source for logs and the API.
	String() string
}

// Load fetches, decodes and indexes a dataset.
//
// Any fetch failure, and a document that is not a JSON object, is returned
// as an [errors.ErrCodeFetchFailed] error. Malformed fields inside an
// otherwise valid document never fail the load.
func Load(ctx context.Context, src Source, logger *log.Logger) (*Dataset, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	name := src.String()
	hooks := observability.Dataset()
	hooks.OnLoadStart(ctx, name)
	start := time.Now()

	ds, err := load(ctx, src, logger)
	hooks.OnLoadComplete(ctx, name, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	logger.Info("loaded code data",
		"source", name,
		"classes", len(ds.Data.Classes),
		"methods", len(ds.Data.Methods),
		"revision", ds.Revision,
		"duration", time.Since(start))
	return ds, nil
}

func load(ctx context.Context, src Source, logger *log.Logger) (*Dataset, error) {
	raw, err := src.Fetch(ctx)
	if err != nil {
		if errors.GetCode(err) == errors.ErrCodeFetchFailed {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeFetchFailed, err, "fetch %s", src)
	}
	data, err := Decode(raw, logger)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetchFailed, err, "decode %s", src)
	}
	return New(data, raw, src.String()), nil
}

// NewSource picks a source for a location: http(s) URLs fetch over HTTP,
// mongodb URIs read the latest document of the configured collection, and
// anything else is a file path.
func NewSource(location string, mongo MongoOptions) (Source, error) {
	switch {
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		if err := errors.ValidateURL(location); err != nil {
			return nil, err
		}
		return NewHTTPSource(location, nil), nil
	case strings.HasPrefix(location, "mongodb://"), strings.HasPrefix(location, "mongodb+srv://"):
		mongo.URI = location
		return NewMongoSource(mongo)
	case location == "":
		return nil, errors.New(errors.ErrCodeInvalidSource, "no code data source given")
	default:
		return FileSource{Path: location}, nil
	}
}

// FileSource reads the document from a local file.
type FileSource struct {
	Path string
}

// Fetch implements [Source].
func (s FileSource) Fetch(ctx context.Context) ([]byte, error) {
	f, err := os.Open(s.Path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFetchFailed, err, "code data file %s not found", s.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()
	return readDocument(f, s.Path)
}

func (s FileSource) String() string { return s.Path }

// HTTPSource fetches the document with a single GET request.
type HTTPSource struct {
	URL     string
	Headers map[string]string
	client  *http.Client
}

// NewHTTPSource creates an HTTP source. Headers are sent with the request;
// pass nil for none.
func NewHTTPSource(url string, headers map[string]string) *HTTPSource {
	return &HTTPSource{
		URL:     url,
		Headers: headers,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch implements [Source]. Any non-2xx status is a fetch failure.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.New(errors.ErrCodeFetchFailed, "fetch %s: status %d", s.URL, resp.StatusCode)
	}
	return readDocument(resp.Body, s.URL)
}

func (s *HTTPSource) String() string { return s.URL }
