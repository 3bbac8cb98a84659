package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// published is one release on the fake host: asset name to body.
type published struct {
	tag    string
	assets map[string][]byte
}

// releaseHost serves the releases API for boostup/folio plus the asset
// downloads it links to. The first release is the latest one.
type releaseHost struct {
	*httptest.Server
	mu       sync.Mutex
	requests []string
}

func newReleaseHost(t *testing.T, releases ...published) *releaseHost {
	t.Helper()
	h := &releaseHost{}
	h.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		h.requests = append(h.requests, r.URL.Path)
		h.mu.Unlock()

		base := "http://" + r.Host
		for i, rel := range releases {
			switch r.URL.Path {
			case "/repos/boostup/folio/releases/tags/" + rel.tag:
			case "/repos/boostup/folio/releases/latest":
				if i != 0 {
					continue
				}
			default:
				name, ok := strings.CutPrefix(r.URL.Path, "/assets/"+rel.tag+"/")
				if body, found := rel.assets[name]; ok && found {
					_, _ = w.Write(body)
					return
				}
				continue
			}

			payload := release{TagName: rel.tag, HTMLURL: base + "/releases/" + rel.tag}
			for name := range rel.assets {
				payload.Assets = append(payload.Assets, asset{Name: name, URL: base + "/assets/" + rel.tag + "/" + name})
			}
			_ = json.NewEncoder(w).Encode(payload)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(h.Close)
	return h
}

func (h *releaseHost) paths() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.requests)
}

func tarGz(t *testing.T, file string, body []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "folio/README.md", Mode: 0o644, Size: 2, Typeflag: tar.TypeReg}))
	_, err := tw.Write([]byte("hi"))
	require.NoError(t, err)
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "folio/" + file, Mode: 0o755, Size: int64(len(body)), Typeflag: tar.TypeReg}))
	_, err = tw.Write(body)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func zipped(t *testing.T, file string, body []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(file)
	require.NoError(t, err)
	_, err = w.Write(body)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func sha256sums(archives map[string][]byte) []byte {
	var b strings.Builder
	for name, data := range archives {
		sum := sha256.Sum256(data)
		fmt.Fprintf(&b, "%s  %s\n", hex.EncodeToString(sum[:]), name)
	}
	return []byte(b.String())
}

// linuxRelease publishes a linux/amd64 build whose binary prints its tag.
func linuxRelease(t *testing.T, tag string) published {
	archives := map[string][]byte{
		"folio_linux_amd64.tar.gz": tarGz(t, "folio", []byte("folio "+tag)),
	}
	assets := map[string][]byte{checksumsAsset: sha256sums(archives)}
	for name, data := range archives {
		assets[name] = data
	}
	return published{tag: tag, assets: assets}
}

func installedBinary(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "folio")
	require.NoError(t, os.WriteFile(path, []byte("folio old"), 0o755))
	return path
}

func TestAssetName(t *testing.T) {
	tests := []struct {
		goos, goarch string
		want         string
	}{
		{"linux", "amd64", "folio_linux_amd64.tar.gz"},
		{"linux", "386", "folio_linux_386.tar.gz"},
		{"darwin", "arm64", "folio_darwin_arm64.tar.gz"},
		{"windows", "arm64", "folio_windows_arm64.zip"},
		{"freebsd", "amd64", ""},
		{"linux", "mips", ""},
	}
	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.goarch, func(t *testing.T) {
			got, err := assetName(tt.goos, tt.goarch)
			if tt.want == "" {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "folio.exe", binaryFile("windows"))
	assert.Equal(t, "folio", binaryFile("darwin"))
}

func TestVerify(t *testing.T) {
	data := []byte("archive")
	sums := sha256sums(map[string][]byte{"a.tar.gz": data})

	assert.NoError(t, verify(data, "a.tar.gz", sums))
	assert.NoError(t, verify(data, "a.tar.gz", []byte(strings.Replace(string(sums), "  ", " *", 1))), "binary mode marker")
	assert.ErrorIs(t, verify([]byte("tampered"), "a.tar.gz", sums), ErrChecksum)
	assert.ErrorIs(t, verify(data, "b.tar.gz", sums), ErrChecksum)
}

func TestUpdateInstallsLatest(t *testing.T) {
	host := newReleaseHost(t, linuxRelease(t, "v1.1.0"), linuxRelease(t, "v1.0.0"))
	target := installedBinary(t)
	core, logs := observer.New(zap.InfoLevel)

	checker := NewChecker(
		WithBaseURL(host.URL),
		WithLogger(zap.New(core)),
		withPlatform("linux", "amd64"),
		withExecPath(func() (string, error) { return target, nil }),
	)

	var stages []Stage
	err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: "1.0.0"}, func(p UpdateProgress) {
		stages = append(stages, p.Stage)
	})
	require.NoError(t, err)

	want := []Stage{StageResolve, StageDownload, StageVerify, StageUnpack, StageInstall, StageDone}
	assert.Equal(t, want, stages)

	entries := logs.FilterMessage("self-update").All()
	require.Len(t, entries, len(want))
	for i, e := range entries {
		assert.Equal(t, string(want[i]), e.ContextMap()["stage"])
	}
	assert.Contains(t, entries[len(entries)-1].ContextMap()["message"], "v1.0.0 -> v1.1.0")

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "folio v1.1.0", string(got))

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(target), ".folio-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestUpdatePinnedRelease(t *testing.T) {
	host := newReleaseHost(t, linuxRelease(t, "v1.1.0"), linuxRelease(t, "v1.0.0"))
	target := installedBinary(t)

	checker := NewChecker(
		WithBaseURL(host.URL),
		withPlatform("linux", "amd64"),
		withExecPath(func() (string, error) { return target, nil }),
	)
	require.NoError(t, checker.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.1.0", TargetVersion: "1.0.0"}, nil))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "folio v1.0.0", string(got), "pinned versions may be older")
	assert.Contains(t, host.paths(), "/repos/boostup/folio/releases/tags/v1.0.0")
	assert.NotContains(t, host.paths(), "/repos/boostup/folio/releases/latest")
}

func TestUpdateWindowsZip(t *testing.T) {
	archive := zipped(t, "folio.exe", []byte("folio.exe v2.0.0"))
	name := "folio_windows_amd64.zip"
	host := newReleaseHost(t, published{tag: "v2.0.0", assets: map[string][]byte{
		name:           archive,
		checksumsAsset: sha256sums(map[string][]byte{name: archive}),
	}})
	target := installedBinary(t)

	checker := NewChecker(
		WithBaseURL(host.URL),
		withPlatform("windows", "amd64"),
		withExecPath(func() (string, error) { return target, nil }),
	)
	require.NoError(t, checker.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, nil))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "folio.exe v2.0.0", string(got))
}

func TestUpdateRefuses(t *testing.T) {
	tampered := linuxRelease(t, "v1.1.0")
	tampered.assets["folio_linux_amd64.tar.gz"] = tarGz(t, "folio", []byte("not what was signed"))

	tests := []struct {
		name     string
		release  published
		platform [2]string
		input    UpdateInput
		wantErr  error
		offline  bool
	}{
		{
			name:    "development build",
			release: linuxRelease(t, "v1.1.0"),
			input:   UpdateInput{CurrentVersion: DevVersion},
			wantErr: ErrDevBuild,
			offline: true,
		},
		{
			name:    "invalid pinned tag",
			release: linuxRelease(t, "v1.1.0"),
			input:   UpdateInput{CurrentVersion: "v1.0.0", TargetVersion: "next"},
			wantErr: ErrInvalidVersion,
			offline: true,
		},
		{
			name:    "already latest",
			release: linuxRelease(t, "v1.1.0"),
			input:   UpdateInput{CurrentVersion: "v1.1.0"},
			wantErr: ErrAlreadyLatest,
		},
		{
			name:     "platform not published",
			release:  linuxRelease(t, "v1.1.0"),
			platform: [2]string{"darwin", "arm64"},
			input:    UpdateInput{CurrentVersion: "v1.0.0"},
			wantErr:  ErrNoAsset,
		},
		{
			name:    "checksum mismatch",
			release: tampered,
			input:   UpdateInput{CurrentVersion: "v1.0.0"},
			wantErr: ErrChecksum,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := newReleaseHost(t, tt.release)
			target := installedBinary(t)
			platform := tt.platform
			if platform[0] == "" {
				platform = [2]string{"linux", "amd64"}
			}

			checker := NewChecker(
				WithBaseURL(host.URL),
				withPlatform(platform[0], platform[1]),
				withExecPath(func() (string, error) { return target, nil }),
			)
			err := checker.Update(context.Background(), &tt.input, nil)
			assert.ErrorIs(t, err, tt.wantErr)

			got, readErr := os.ReadFile(target)
			require.NoError(t, readErr)
			assert.Equal(t, "folio old", string(got), "binary left in place")
			if tt.offline {
				assert.Empty(t, host.paths())
			}
		})
	}
}
