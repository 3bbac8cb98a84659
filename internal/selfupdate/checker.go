// Package selfupdate checks GitHub releases for a newer folio build and
// replaces the running binary with it.
package selfupdate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/mod/semver"
)

// DevVersion is the version string of binaries built without -ldflags.
const DevVersion = "(devel)"

const (
	defaultBaseURL = "https://api.github.com"
	defaultOwner   = "boostup"
	defaultRepo    = "folio"
	defaultTimeout = 10 * time.Second

	binaryName = "folio"
)

var (
	ErrDevBuild      = errors.New("cannot update a development build")
	ErrAlreadyLatest = errors.New("already running the latest version")
	// ErrInvalidVersion is returned for versions that are not semver tags.
	ErrInvalidVersion = errors.New("invalid version")
	ErrNoAsset        = errors.New("release asset not found")
	ErrChecksum       = errors.New("checksum mismatch")
)

// Checker talks to the GitHub releases API.
type Checker struct {
	client   *http.Client
	baseURL  string
	owner    string
	repo     string
	goos     string
	goarch   string
	execPath func() (string, error)
	log      *zap.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) { c.client.Timeout = d }
}

// WithBaseURL points the release lookup at another API host.
func WithBaseURL(url string) Option {
	return func(c *Checker) { c.baseURL = url }
}

// WithRepository selects the GitHub repository holding the releases.
func WithRepository(owner, repo string) Option {
	return func(c *Checker) { c.owner, c.repo = owner, repo }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Checker) { c.log = l }
}

func withExecPath(f func() (string, error)) Option {
	return func(c *Checker) { c.execPath = f }
}

func withPlatform(goos, goarch string) Option {
	return func(c *Checker) { c.goos, c.goarch = goos, goarch }
}

// NewChecker creates a Checker for the folio releases.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		client:   &http.Client{Timeout: defaultTimeout},
		baseURL:  defaultBaseURL,
		owner:    defaultOwner,
		repo:     defaultRepo,
		goos:     runtime.GOOS,
		goarch:   runtime.GOARCH,
		execPath: os.Executable,
		log:      zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type CheckInput struct {
	Version string
}

type CheckResult struct {
	CurrentVersion  string
	LatestVersion   string
	ReleaseURL      string
	UpdateAvailable bool
}

// release is the part of the GitHub release payload folio reads. Asset
// downloads go through browser_download_url, so mirrors only need to serve
// the API.
type release struct {
	TagName string  `json:"tag_name"`
	HTMLURL string  `json:"html_url"`
	Assets  []asset `json:"assets"`
}

type asset struct {
	Name string `json:"name"`
	URL  string `json:"browser_download_url"`
}

func (r *release) asset(name string) (asset, error) {
	for _, a := range r.Assets {
		if a.Name == name {
			return a, nil
		}
	}
	return asset{}, fmt.Errorf("%w: %s in %s", ErrNoAsset, name, r.TagName)
}

// Check looks up the latest release and compares it with input.Version.
func (c *Checker) Check(ctx context.Context, input *CheckInput) (*CheckResult, error) {
	current, err := installedVersion(input.Version)
	if err != nil {
		return nil, err
	}
	rel, err := c.fetchRelease(ctx, "latest")
	if err != nil {
		return nil, err
	}
	newer, err := isNewer(rel.TagName, current)
	if err != nil {
		return nil, err
	}

	res := &CheckResult{
		CurrentVersion:  current,
		LatestVersion:   rel.TagName,
		ReleaseURL:      rel.HTMLURL,
		UpdateAvailable: newer,
	}
	c.log.Debug("release check",
		zap.String("current", current),
		zap.String("latest", rel.TagName),
		zap.Bool("update_available", res.UpdateAvailable))
	return res, nil
}

// installedVersion rejects development builds and non-semver versions.
func installedVersion(v string) (string, error) {
	if v == DevVersion {
		return "", ErrDevBuild
	}
	cv := canonical(v)
	if !semver.IsValid(cv) {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, v)
	}
	return cv, nil
}

func isNewer(tag, current string) (bool, error) {
	t := canonical(tag)
	if !semver.IsValid(t) {
		return false, fmt.Errorf("%w: release tag %q", ErrInvalidVersion, tag)
	}
	return semver.Compare(t, current) > 0, nil
}

// fetchRelease reads releases/latest or releases/tags/<tag>.
func (c *Checker) fetchRelease(ctx context.Context, ref string) (*release, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/%s", strings.TrimRight(c.baseURL, "/"), c.owner, c.repo, ref)
	data, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch release %s: %w", ref, err)
	}
	var rel release
	if err := json.Unmarshal(data, &rel); err != nil {
		return nil, fmt.Errorf("decode release %s: %w", ref, err)
	}
	return &rel, nil
}

func (c *Checker) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// canonical adds the "v" prefix semver expects.
func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
