package app

import (
	"context"
	"crypto/hmac"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/captainminh1999/my-webspace-sub000/internal/catalog"
	"github.com/captainminh1999/my-webspace-sub000/internal/csvjson"
	"github.com/captainminh1999/my-webspace-sub000/internal/sourcectl"
)

type UploadInput struct {
	SectionIdentifier string `json:"sectionIdentifier"`
	FileContentBase64 string `json:"fileContentBase64"`
	FileName          string `json:"fileName"`
	SecretKey         string `json:"secretKey"`
}

type UploadResult struct {
	Message     string `json:"message"`
	Section     string `json:"section"`
	Path        string `json:"path"`
	CommitSHA   string `json:"commitSha"`
	Created     bool   `json:"created"`
	SkippedRows int    `json:"skippedRows"`
}

// UploadCVData converts an uploaded CSV into the section's JSON data file
// and commits it. The site rebuild is triggered by the repository host.
func (s *Service) UploadCVData(ctx context.Context, in UploadInput) (UploadResult, error) {
	if s.cfg.UploadSecret != "" && !hmac.Equal([]byte(in.SecretKey), []byte(s.cfg.UploadSecret)) {
		return UploadResult{}, domainError(http.StatusForbidden, "FORBIDDEN", "Invalid secret key", nil)
	}

	in.SectionIdentifier = strings.TrimSpace(in.SectionIdentifier)
	in.FileName = strings.TrimSpace(in.FileName)
	if in.SectionIdentifier == "" || in.FileContentBase64 == "" || in.FileName == "" {
		return UploadResult{}, badRequest("sectionIdentifier, fileContentBase64 and fileName are required", nil)
	}
	section, ok := catalog.ParseSection(in.SectionIdentifier)
	if !ok {
		return UploadResult{}, badRequest("Invalid section identifier", map[string]any{"allowed": catalog.Sections})
	}

	raw, err := decodeBase64(in.FileContentBase64)
	if err != nil {
		return UploadResult{}, badRequest("fileContentBase64 is not valid base64", nil)
	}

	parsed, err := csvjson.Parse(string(raw))
	if err != nil {
		if errors.Is(err, csvjson.ErrNoHeader) {
			return UploadResult{}, badRequest("CSV file has no header row", nil)
		}
		return UploadResult{}, badRequest("CSV file could not be parsed", err.Error())
	}
	for _, rowErr := range parsed.Errors {
		s.logger.Warn("skipping malformed csv row",
			"section", section,
			"file", in.FileName,
			"line", rowErr.Line,
			"error", rowErr.Err,
		)
	}

	content, err := csvjson.MarshalPretty(csvjson.Shape(parsed.Records, section.Singleton()))
	if err != nil {
		return UploadResult{}, fmt.Errorf("encode %s: %w", section, err)
	}

	if s.committer == nil {
		return UploadResult{}, configError("Source control not configured")
	}
	path := section.DataFile(s.cfg.DataPath)
	commit, err := s.committer.CommitFile(ctx, sourcectl.CommitRequest{
		Path:    path,
		Branch:  s.cfg.DataBranch,
		Message: sourcectl.CommitMessage(string(section), in.FileName),
		Content: content,
	})
	if err != nil {
		return UploadResult{}, commitError(err)
	}

	s.logger.Info("cv data committed",
		"section", section,
		"path", path,
		"sha", commit.SHA,
		"created", commit.Created,
		"records", len(parsed.Records),
		"skipped_rows", len(parsed.Errors),
	)
	s.archiveUpload(ctx, string(section), in.FileName, raw)
	s.invalidateCache(ctx)

	return UploadResult{
		Message:     fmt.Sprintf("%s data updated from %s", section, in.FileName),
		Section:     string(section),
		Path:        path,
		CommitSHA:   commit.SHA,
		Created:     commit.Created,
		SkippedRows: len(parsed.Errors),
	}, nil
}

func (s *Service) archiveUpload(ctx context.Context, section, fileName string, raw []byte) {
	if s.archive == nil {
		return
	}
	key, err := s.archive.Store(ctx, section, fileName, raw)
	if err != nil {
		s.logger.Warn("archiving upload failed", "section", section, "file", fileName, "error", err)
		return
	}
	s.logger.Debug("upload archived", "key", key)
}

// decodeBase64 accepts plain standard base64 or a data URL.
func decodeBase64(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "data:") {
		if i := strings.Index(value, ","); i >= 0 {
			value = value[i+1:]
		}
	}
	return base64.StdEncoding.DecodeString(value)
}

func commitError(err error) error {
	if errors.Is(err, sourcectl.ErrNotConfigured) {
		return configError("Source control not configured")
	}
	var upErr *sourcectl.UpstreamError
	if errors.As(err, &upErr) {
		details := upErr.Message
		if details == "" && upErr.Err != nil {
			details = upErr.Err.Error()
		}
		return upstreamError("Failed to commit data file", details)
	}
	return upstreamError("Failed to commit data file", err.Error())
}
