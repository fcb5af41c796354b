package app

import (
	"context"
	"fmt"

	"github.com/captainminh1999/my-webspace-sub000/internal/catalog"
	"github.com/captainminh1999/my-webspace-sub000/internal/store"
)

// Section returns one CV section: the stored object or nil for a singleton
// section, the (possibly empty) list of records otherwise.
func (s *Service) Section(ctx context.Context, name string) (any, error) {
	section, ok := catalog.ParseSection(name)
	if !ok {
		return nil, badRequest("Invalid or missing section", map[string]any{"allowed": catalog.Sections})
	}
	return s.readSection(ctx, section)
}

// FullCV maps every section name to its payload.
func (s *Service) FullCV(ctx context.Context) (map[string]any, error) {
	out := make(map[string]any, len(catalog.Sections))
	for _, section := range catalog.Sections {
		payload, err := s.readSection(ctx, section)
		if err != nil {
			return nil, err
		}
		out[string(section)] = payload
	}
	return out, nil
}

func (s *Service) readSection(ctx context.Context, section catalog.Section) (any, error) {
	if section.Singleton() {
		doc, err := s.store.FindSingleton(ctx, string(section))
		if err != nil {
			return nil, fmt.Errorf("read section %s: %w", section, err)
		}
		if doc == nil {
			return nil, nil
		}
		return doc, nil
	}

	docs, err := s.store.FindAll(ctx, section.Collection(), store.FindOptions{})
	if err != nil {
		return nil, fmt.Errorf("read section %s: %w", section, err)
	}
	if docs == nil {
		docs = []store.Document{}
	}
	return docs, nil
}
