package selfupdate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	// ErrDevBuild is returned for binaries built without a release version.
	ErrDevBuild      = errors.New("cannot update a development build")
	ErrAlreadyLatest = errors.New("already running the latest version")
	ErrChecksum      = errors.New("checksum verification failed")
)

type UpdateInput struct {
	CurrentVersion string

	// TargetVersion pins a release tag. Empty means the latest.
	TargetVersion string
}

// UpdateProgress reports one stage of Update: check, download, verify,
// extract, apply or done.
type UpdateProgress struct {
	Stage   string
	Message string
}

// Update replaces the running binary with the latest release, or with
// TargetVersion when set. The archive is checked against the release's
// checksums.txt before anything on disk is touched.
func (c *Checker) Update(ctx context.Context, input *UpdateInput, progress func(UpdateProgress)) error {
	if input.CurrentVersion == "(devel)" || input.CurrentVersion == "" {
		return ErrDevBuild
	}
	report := func(stage, format string, args ...any) {
		if progress != nil {
			progress(UpdateProgress{Stage: stage, Message: fmt.Sprintf(format, args...)})
		}
	}

	tag := input.TargetVersion
	if tag == "" {
		report("check", "Looking up the latest release...")
		res, err := c.Check(ctx, &CheckInput{Version: input.CurrentVersion})
		if err != nil {
			return fmt.Errorf("check for updates: %w", err)
		}
		if !res.UpdateAvailable {
			return ErrAlreadyLatest
		}
		tag = res.LatestVersion
	}

	asset, err := assetNameFor(c.goos, c.goarch)
	if err != nil {
		return err
	}

	report("download", "Downloading %s for %s/%s...", tag, c.goos, c.goarch)
	archive, err := c.fetch(ctx, c.releaseURL(tag, asset))
	if err != nil {
		return fmt.Errorf("download archive: %w", err)
	}

	report("verify", "Verifying %s...", asset)
	sums, err := c.fetch(ctx, c.releaseURL(tag, "checksums.txt"))
	if err != nil {
		return fmt.Errorf("download checksums: %w", err)
	}
	want, ok := parseChecksums(sums)[asset]
	if !ok {
		return fmt.Errorf("checksums.txt has no entry for %s", asset)
	}
	if err := verifyChecksum(archive, want); err != nil {
		return err
	}

	report("extract", "Unpacking %s...", binaryFile(c.goos))
	bin, err := extractBinary(archive, asset)
	if err != nil {
		return fmt.Errorf("extract binary: %w", err)
	}

	report("apply", "Installing...")
	target, err := c.execPath()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}
	if err := replaceFile(target, bin); err != nil {
		return fmt.Errorf("apply update: %w", err)
	}

	report("done", "Updated to %s", tag)
	return nil
}

func (c *Checker) releaseURL(tag, file string) string {
	return fmt.Sprintf("%s/%s/%s/releases/download/%s/%s", c.downloadBaseURL, c.owner, c.repo, tag, file)
}

func (c *Checker) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: HTTP %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// releaseArch maps GOARCH to the architecture label in release asset names.
var releaseArch = map[string]string{
	"amd64": "x86_64",
	"arm64": "arm64",
	"386":   "i386",
}

// assetNameFor names the release archive for a platform. macOS ships one
// universal binary.
func assetNameFor(goos, goarch string) (string, error) {
	if goos == "darwin" {
		return binaryName + "_Darwin_all.tar.gz", nil
	}
	var osLabel, ext string
	switch goos {
	case "linux":
		osLabel, ext = "Linux", ".tar.gz"
	case "windows":
		osLabel, ext = "Windows", ".zip"
	default:
		return "", fmt.Errorf("unsupported operating system: %s", goos)
	}
	arch, ok := releaseArch[goarch]
	if !ok {
		return "", fmt.Errorf("unsupported architecture: %s", goarch)
	}
	return binaryName + "_" + osLabel + "_" + arch + ext, nil
}

func binaryFile(goos string) string {
	if goos == "windows" {
		return binaryName + ".exe"
	}
	return binaryName
}

// parseChecksums reads goreleaser's "<sha256>  <file>" lines into a
// file -> hash map, skipping anything else.
func parseChecksums(data []byte) map[string]string {
	sums := make(map[string]string)
	for line := range strings.Lines(string(data)) {
		if f := strings.Fields(line); len(f) == 2 {
			sums[f[1]] = f[0]
		}
	}
	return sums
}
