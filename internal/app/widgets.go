package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/captainminh1999/my-webspace-sub000/internal/catalog"
	"github.com/captainminh1999/my-webspace-sub000/internal/store"
)

// Widget returns the payload of one widget, or nil for an unknown id or a
// singleton widget with no data yet.
func (s *Service) Widget(ctx context.Context, id string) (any, error) {
	widget, ok := catalog.LookupWidget(id)
	if !ok {
		return nil, nil
	}
	return s.readWidget(ctx, widget)
}

// AllWidgets maps widget id to payload, leaving out widgets whose payload
// is nil.
func (s *Service) AllWidgets(ctx context.Context) (map[string]any, error) {
	out := make(map[string]any, len(catalog.Widgets))
	for _, widget := range catalog.Widgets {
		payload, err := s.readWidget(ctx, widget)
		if err != nil {
			return nil, err
		}
		if payload == nil {
			continue
		}
		out[widget.ID] = payload
	}
	return out, nil
}

func (s *Service) readWidget(ctx context.Context, widget catalog.Widget) (any, error) {
	switch widget.Shape {
	case catalog.ShapeList:
		docs, err := s.store.FindAll(ctx, widget.Collection, store.FindOptions{Limit: widget.Limit, NewestFirst: true})
		if err != nil {
			return nil, fmt.Errorf("read widget %s: %w", widget.ID, err)
		}
		if docs == nil {
			docs = []store.Document{}
		}
		return docs, nil

	case catalog.ShapeSingleton:
		doc, err := s.store.FindSingleton(ctx, widget.Key)
		if err != nil {
			return nil, fmt.Errorf("read widget %s: %w", widget.ID, err)
		}
		if doc == nil {
			return nil, nil
		}
		return doc, nil

	case catalog.ShapeComposite:
		return s.readComposite(ctx, widget)

	default:
		return nil, fmt.Errorf("widget %s: unknown shape %d", widget.ID, widget.Shape)
	}
}

// readComposite fetches every part concurrently. A missing part becomes a
// null slot; any read error fails the whole widget.
func (s *Service) readComposite(ctx context.Context, widget catalog.Widget) (map[string]any, error) {
	docs := make([]store.Document, len(widget.Parts))
	g, gctx := errgroup.WithContext(ctx)
	for i, part := range widget.Parts {
		i, part := i, part
		g.Go(func() error {
			doc, err := s.store.FindSingleton(gctx, part.Key)
			if err != nil {
				return fmt.Errorf("read %s for widget %s: %w", part.Key, widget.ID, err)
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]any, len(widget.Parts))
	for i, part := range widget.Parts {
		if docs[i] == nil {
			out[part.Slot] = nil
			continue
		}
		out[part.Slot] = docs[i]
	}
	return out, nil
}
