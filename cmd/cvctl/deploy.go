package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/captainminh1999/my-webspace-sub000/internal/app"
	"github.com/captainminh1999/my-webspace-sub000/internal/config"
	"github.com/captainminh1999/my-webspace-sub000/internal/deployhost"
	"github.com/captainminh1999/my-webspace-sub000/internal/poller"
)

func runUpload(ctx context.Context, cfg config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	section := fs.String("section", "", "CV section the file replaces")
	file := fs.String("file", "", "CSV file to upload")
	secret := fs.String("secret", cfg.UploadSecret, "upload secret key")
	wait := fs.Bool("wait", false, "poll the deploy until it finishes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *section == "" || *file == "" {
		fs.Usage()
		return fmt.Errorf("-section and -file are required")
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("read %s: %w", *file, err)
	}
	body, err := json.Marshal(app.UploadInput{
		SectionIdentifier: *section,
		FileContentBase64: base64.StdEncoding.EncodeToString(raw),
		FileName:          filepath.Base(*file),
		SecretKey:         *secret,
	})
	if err != nil {
		return err
	}

	result, err := postUpload(ctx, cfg.PublicBaseURL+"/upload-cv-data", body)
	if err != nil {
		return err
	}
	logger.Info(result.Message,
		"path", result.Path,
		"sha", result.CommitSHA,
		"created", result.Created,
		"skipped_rows", result.SkippedRows,
	)

	if !*wait {
		return nil
	}
	return watchDeploy(ctx, cfg, logger, poller.NewHTTPSource(cfg.PublicBaseURL))
}

func postUpload(ctx context.Context, url string, body []byte) (app.UploadResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return app.UploadResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return app.UploadResult{}, fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return app.UploadResult{}, fmt.Errorf("read upload response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Code    string `json:"code"`
			Error   string `json:"error"`
			Details any    `json:"details"`
		}
		if json.Unmarshal(payload, &apiErr) == nil && apiErr.Error != "" {
			if apiErr.Details != nil {
				return app.UploadResult{}, fmt.Errorf("upload rejected (%d %s): %s: %v", resp.StatusCode, apiErr.Code, apiErr.Error, apiErr.Details)
			}
			return app.UploadResult{}, fmt.Errorf("upload rejected (%d %s): %s", resp.StatusCode, apiErr.Code, apiErr.Error)
		}
		return app.UploadResult{}, fmt.Errorf("upload rejected: status %d", resp.StatusCode)
	}

	var result app.UploadResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return app.UploadResult{}, fmt.Errorf("decode upload response: %w", err)
	}
	return result, nil
}

func runDeployStatus(ctx context.Context, cfg config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("deploy-status", flag.ContinueOnError)
	wait := fs.Bool("wait", false, "poll until the deploy finishes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	netlify := deployhost.NewNetlify(cfg.NetlifyAPIURL, cfg.NetlifyToken, cfg.NetlifySiteID)
	deploy, err := netlify.LatestDeploy(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(deploy); err != nil {
		return err
	}

	if !*wait {
		return nil
	}
	return watchDeploy(ctx, cfg, logger, poller.StatusFunc(func(ctx context.Context) (string, error) {
		d, err := netlify.LatestDeploy(ctx)
		return d.Status, err
	}))
}

// watchDeploy polls source until the deploy finishes. Cancelling ctx (Ctrl-C)
// cancels the poll.
func watchDeploy(ctx context.Context, cfg config.Config, logger *slog.Logger, source poller.StatusSource) error {
	p := poller.New(source, poller.Options{
		Interval: cfg.PollInterval,
		OnUpdate: func(u poller.Update) {
			logger.Info("deploy", "status", u.Status, "progress", u.Progress, "state", u.State.String())
		},
	})

	handle := p.Start(context.Background())
	select {
	case <-ctx.Done():
		handle.Cancel()
		<-handle.Done()
	case <-handle.Done():
	}

	res := handle.Result()
	switch res.State {
	case poller.Succeeded:
		logger.Info("deploy finished", "polls", res.Polls)
		return nil
	case poller.Cancelled:
		return fmt.Errorf("polling cancelled after %d polls", res.Polls)
	default:
		return fmt.Errorf("deploy did not finish: %w", res.Err)
	}
}
