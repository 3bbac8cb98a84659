package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/mod/semver"
)

// Stage names one step of an update.
type Stage string

const (
	StageResolve  Stage = "resolve"
	StageDownload Stage = "download"
	StageVerify   Stage = "verify"
	StageUnpack   Stage = "unpack"
	StageInstall  Stage = "install"
	StageDone     Stage = "done"
)

const checksumsAsset = "checksums.txt"

// releasePlatforms lists the GOOS/GOARCH pairs every release publishes.
var releasePlatforms = map[string][]string{
	"darwin":  {"amd64", "arm64"},
	"linux":   {"amd64", "arm64", "386"},
	"windows": {"amd64", "arm64"},
}

// UpdateInput selects the update. An empty TargetVersion means the latest
// release; a pinned one may also be older than the running build.
type UpdateInput struct {
	CurrentVersion string
	TargetVersion  string
}

type UpdateProgress struct {
	Stage   Stage
	Message string
}

// Update installs the selected release over the running binary. Every stage
// is logged and passed to progress, which may be nil.
func (c *Checker) Update(ctx context.Context, input *UpdateInput, progress func(UpdateProgress)) error {
	current, err := installedVersion(input.CurrentVersion)
	if err != nil {
		return err
	}
	step := func(s Stage, format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		c.log.Info("self-update", zap.String("stage", string(s)), zap.String("message", msg))
		if progress != nil {
			progress(UpdateProgress{Stage: s, Message: msg})
		}
	}

	rel, err := c.resolveTarget(ctx, current, input.TargetVersion, step)
	if err != nil {
		return err
	}

	name, err := assetName(c.goos, c.goarch)
	if err != nil {
		return err
	}
	archive, err := rel.asset(name)
	if err != nil {
		return err
	}
	sums, err := rel.asset(checksumsAsset)
	if err != nil {
		return err
	}

	step(StageDownload, "Downloading %s for %s/%s...", rel.TagName, c.goos, c.goarch)
	data, err := c.get(ctx, archive.URL)
	if err != nil {
		return fmt.Errorf("download %s: %w", name, err)
	}

	step(StageVerify, "Verifying %s...", name)
	sumData, err := c.get(ctx, sums.URL)
	if err != nil {
		return fmt.Errorf("download %s: %w", checksumsAsset, err)
	}
	if err := verify(data, name, sumData); err != nil {
		return err
	}

	file := binaryFile(c.goos)
	step(StageUnpack, "Unpacking %s...", file)
	bin, err := unpack(data, name, file)
	if err != nil {
		return fmt.Errorf("unpack %s: %w", name, err)
	}

	target, err := c.execPath()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}
	step(StageInstall, "Installing to %s...", target)
	if err := install(target, bin); err != nil {
		return fmt.Errorf("install: %w", err)
	}

	step(StageDone, "Updated folio %s -> %s", current, rel.TagName)
	return nil
}

func (c *Checker) resolveTarget(ctx context.Context, current, pinned string, step func(Stage, string, ...any)) (*release, error) {
	if pinned != "" {
		tag := canonical(pinned)
		if !semver.IsValid(tag) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, pinned)
		}
		step(StageResolve, "Looking up release %s...", tag)
		return c.fetchRelease(ctx, "tags/"+tag)
	}

	step(StageResolve, "Looking up the latest release...")
	rel, err := c.fetchRelease(ctx, "latest")
	if err != nil {
		return nil, err
	}
	newer, err := isNewer(rel.TagName, current)
	if err != nil {
		return nil, err
	}
	if !newer {
		return nil, ErrAlreadyLatest
	}
	return rel, nil
}

// assetName is the archive published for a platform, e.g.
// folio_linux_amd64.tar.gz or folio_windows_arm64.zip.
func assetName(goos, goarch string) (string, error) {
	if !slices.Contains(releasePlatforms[goos], goarch) {
		return "", fmt.Errorf("no folio release for %s/%s", goos, goarch)
	}
	ext := ".tar.gz"
	if goos == "windows" {
		ext = ".zip"
	}
	return fmt.Sprintf("%s_%s_%s%s", binaryName, goos, goarch, ext), nil
}

func binaryFile(goos string) string {
	if goos == "windows" {
		return binaryName + ".exe"
	}
	return binaryName
}

// verify checks data against its line in a sha256sum style listing.
func verify(data []byte, name string, sums []byte) error {
	var want string
	for _, line := range strings.Split(string(sums), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 2 && strings.TrimPrefix(fields[1], "*") == name {
			want = fields[0]
			break
		}
	}
	if want == "" {
		return fmt.Errorf("%w: %s is not listed in %s", ErrChecksum, name, checksumsAsset)
	}

	sum := sha256.Sum256(data)
	if got := hex.EncodeToString(sum[:]); !strings.EqualFold(got, want) {
		return fmt.Errorf("%w: %s has sha256 %s, want %s", ErrChecksum, name, got, want)
	}
	return nil
}

func unpack(archive []byte, name, file string) ([]byte, error) {
	if strings.HasSuffix(name, ".zip") {
		return unzip(archive, file)
	}
	return untar(archive, file)
}

func untar(archive []byte, file string) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(archive))
	if err != nil {
		return nil, err
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		switch {
		case errors.Is(err, io.EOF):
			return nil, fmt.Errorf("%s not found in archive", file)
		case err != nil:
			return nil, err
		case hdr.Typeflag == tar.TypeReg && path.Base(hdr.Name) == file:
			return io.ReadAll(tr)
		}
	}
}

func unzip(archive []byte, file string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, err
	}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || path.Base(f.Name) != file {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer func() { _ = rc.Close() }()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s not found in archive", file)
}

// install writes bin next to target and renames it over target, keeping the
// permission bits of the running binary.
func install(target string, bin []byte) error {
	info, err := os.Stat(target)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+binaryName+"-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(bin); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), info.Mode().Perm()); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}
