package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/captainminh1999/my-webspace-sub000/internal/catalog"
)

// Writer is the subset of the store the importer needs.
type Writer interface {
	ReplaceSingleton(ctx context.Context, key string, doc Document) error
	ReplaceCollection(ctx context.Context, collection string, docs []Document) error
	DeleteSingleton(ctx context.Context, key string) error
}

type ImportReport struct {
	Imported []string
	Skipped  []string
}

// ImportDir loads every <section>.json file in dir into the store. Files
// that do not name a CV section are skipped.
func ImportDir(ctx context.Context, w Writer, dir string) (ImportReport, error) {
	var report ImportReport

	entries, err := os.ReadDir(dir)
	if err != nil {
		return report, fmt.Errorf("read data dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	for _, name := range files {
		section, ok := catalog.ParseSection(strings.TrimSuffix(name, ".json"))
		if !ok {
			report.Skipped = append(report.Skipped, name)
			continue
		}

		contents, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return report, fmt.Errorf("read %s: %w", name, err)
		}
		var payload any
		if err := json.Unmarshal(contents, &payload); err != nil {
			return report, fmt.Errorf("decode %s: %w", name, err)
		}

		if err := importSection(ctx, w, section, payload); err != nil {
			return report, err
		}
		report.Imported = append(report.Imported, string(section))
	}
	return report, nil
}

func importSection(ctx context.Context, w Writer, section catalog.Section, payload any) error {
	docs := toDocuments(payload)
	if section.Singleton() {
		// An empty upload commits [] for a singleton section; clear the stored one.
		if len(docs) == 0 {
			return w.DeleteSingleton(ctx, string(section))
		}
		return w.ReplaceSingleton(ctx, string(section), docs[0])
	}
	return w.ReplaceCollection(ctx, section.Collection(), docs)
}

// ImportValue pushes one decoded JSON payload under key. Lists replace the
// named collection, anything else becomes a singleton.
func ImportValue(ctx context.Context, w Writer, key string, payload any, list bool) error {
	docs := toDocuments(payload)
	if list {
		return w.ReplaceCollection(ctx, key, docs)
	}
	if len(docs) == 0 {
		return fmt.Errorf("payload for %s holds no object", key)
	}
	return w.ReplaceSingleton(ctx, key, docs[0])
}

func toDocuments(payload any) []Document {
	switch v := payload.(type) {
	case map[string]any:
		return []Document{Document(v)}
	case []any:
		docs := make([]Document, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				docs = append(docs, Document(m))
			}
		}
		return docs
	default:
		return nil
	}
}
