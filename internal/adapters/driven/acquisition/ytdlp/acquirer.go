// Package ytdlp acquires remote media through the yt-dlp command line tool.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/memvault-cli/internal/core/domain"
	"github.com/custodia-labs/memvault-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memvault-cli/internal/logger"
)

// Format selectors. Merging separate video and audio streams needs ffmpeg;
// without it yt-dlp must stick to pre-muxed formats.
const (
	formatMerged   = "bestvideo*+bestaudio/best"
	formatPremuxed = "best"
)

// watchURLTemplate turns a bare video id from a flat playlist dump into a
// fully-qualified URL.
const watchURLTemplate = "https://www.youtube.com/watch?v=%s"

// Ensure Acquirer implements the interface.
var _ driven.Acquirer = (*Acquirer)(nil)

// Acquirer shells out to yt-dlp for downloads and playlist expansion.
type Acquirer struct {
	binary      string
	ffmpegFound bool
}

// NewAcquirer locates yt-dlp on PATH. Returns domain.ErrToolUnavailable
// when the binary is missing. ffmpeg is probed too; its absence only
// downgrades the format selection.
func NewAcquirer() (*Acquirer, error) {
	binary, err := exec.LookPath("yt-dlp")
	if err != nil {
		return nil, fmt.Errorf("%w: yt-dlp not found on PATH", domain.ErrToolUnavailable)
	}

	_, ffmpegErr := exec.LookPath("ffmpeg")
	if ffmpegErr != nil {
		logger.Warn("ffmpeg not found; falling back to pre-muxed formats")
	}

	return &Acquirer{binary: binary, ffmpegFound: ffmpegErr == nil}, nil
}

// downloadInfo is the subset of yt-dlp's JSON output the pipeline needs.
type downloadInfo struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
	Ext      string  `json:"ext"`
	Filename string  `json:"_filename"`
}

// Acquire downloads a single media URL into destDir.
func (a *Acquirer) Acquire(ctx context.Context, sourceURL, destDir string) (*domain.AcquiredMedia, error) {
	args := []string{
		"--no-playlist",
		"--no-progress",
		"--print-json",
		"-f", selectFormat(a.ffmpegFound),
		"-o", filepath.Join(destDir, "%(id)s.%(ext)s"),
		sourceURL,
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, a.binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("yt-dlp download: %s", sourceURL)
	if err := cmd.Run(); err != nil {
		return nil, &domain.AcquisitionError{
			URL: sourceURL,
			Err: fmt.Errorf("yt-dlp: %w: %s", err, firstLine(stderr.String())),
		}
	}

	info, err := parseDownloadInfo(stdout.Bytes())
	if err != nil {
		return nil, &domain.AcquisitionError{URL: sourceURL, Err: err}
	}

	localPath := info.Filename
	if localPath == "" {
		localPath = filepath.Join(destDir, info.ID+"."+info.Ext)
	}

	return &domain.AcquiredMedia{
		LocalPath:       localPath,
		Title:           info.Title,
		DurationSeconds: int(info.Duration),
		SourceID:        info.ID,
	}, nil
}

// playlistDump is the top-level structure of yt-dlp's -J flat playlist output.
type playlistDump struct {
	Entries []playlistEntry `json:"entries"`
}

type playlistEntry struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// ExpandCollection enumerates playlist member URLs without downloading.
func (a *Acquirer) ExpandCollection(ctx context.Context, collectionURL string, maxEntries int) ([]string, error) {
	args := []string{
		"--flat-playlist",
		"--no-progress",
		"-J",
		collectionURL,
	}
	if maxEntries > 0 {
		args = append([]string{"--playlist-end", fmt.Sprintf("%d", maxEntries)}, args...)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, a.binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("yt-dlp expand: %s", collectionURL)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("yt-dlp playlist dump: %w: %s", err, firstLine(stderr.String()))
	}

	return parseCollection(stdout.Bytes(), maxEntries)
}

// selectFormat picks the yt-dlp format selector for the ffmpeg situation.
func selectFormat(ffmpegFound bool) string {
	if ffmpegFound {
		return formatMerged
	}
	return formatPremuxed
}

// parseDownloadInfo decodes the single-line JSON yt-dlp prints per download.
func parseDownloadInfo(data []byte) (*downloadInfo, error) {
	var info downloadInfo
	if err := json.Unmarshal(bytes.TrimSpace(data), &info); err != nil {
		return nil, fmt.Errorf("parsing yt-dlp output: %w", err)
	}
	if info.ID == "" {
		return nil, fmt.Errorf("yt-dlp output missing media id")
	}
	return &info, nil
}

// parseCollection decodes a flat playlist dump into member URLs. Entries
// with neither a usable URL nor an id are skipped.
func parseCollection(data []byte, maxEntries int) ([]string, error) {
	var dump playlistDump
	if err := json.Unmarshal(bytes.TrimSpace(data), &dump); err != nil {
		return nil, fmt.Errorf("parsing playlist dump: %w", err)
	}

	urls := make([]string, 0, len(dump.Entries))
	for _, entry := range dump.Entries {
		if maxEntries > 0 && len(urls) >= maxEntries {
			break
		}
		u := normalizeEntry(entry)
		if u == "" {
			continue
		}
		urls = append(urls, u)
	}
	return urls, nil
}

// normalizeEntry resolves a playlist entry to a fully-qualified URL. Flat
// dumps carry either absolute URLs or bare video ids depending on the
// extractor.
func normalizeEntry(entry playlistEntry) string {
	if entry.URL != "" {
		if parsed, err := url.Parse(entry.URL); err == nil && parsed.Scheme != "" {
			return entry.URL
		}
		// Relative or bare-id URL field.
		return fmt.Sprintf(watchURLTemplate, entry.URL)
	}
	if entry.ID != "" {
		return fmt.Sprintf(watchURLTemplate, entry.ID)
	}
	return ""
}

// firstLine trims diagnostics down to their leading line for error messages.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
