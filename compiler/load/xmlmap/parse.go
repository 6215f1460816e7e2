package xmlmap

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/strataorm/strata"
	"github.com/strataorm/strata/compiler/load"
)

// Parse decodes a single mapping descriptor.
func Parse(r io.Reader) (*EntityMappings, error) {
	em := &EntityMappings{}
	dec := xml.NewDecoder(r)
	if err := dec.Decode(em); err != nil {
		return nil, strata.NewMappingErrorf("decode mapping descriptor: %v", err)
	}
	return em, nil
}

// ParseFile decodes the mapping descriptor at the given path.
func ParseFile(path string) (*EntityMappings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	em, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return em, nil
}

// ParseFiles decodes the mapping descriptors at the given paths
// concurrently. The result preserves the input order.
func ParseFiles(ctx context.Context, paths ...string) ([]*EntityMappings, error) {
	mappings := make([]*EntityMappings, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			em, err := ParseFile(path)
			if err != nil {
				return err
			}
			mappings[i] = em
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return mappings, nil
}

// ParseDir decodes all .xml mapping descriptors in the given directory,
// in lexical file order.
func ParseDir(ctx context.Context, dir string) ([]*EntityMappings, error) {
	paths, err := descriptorPaths(dir)
	if err != nil {
		return nil, err
	}
	return ParseFiles(ctx, paths...)
}

// Load parses all descriptors at the given paths and mocks them into
// loaded schemas in one step.
func Load(ctx context.Context, paths ...string) ([]*load.Schema, error) {
	mappings, err := ParseFiles(ctx, paths...)
	if err != nil {
		return nil, err
	}
	return New(mappings...).Mock()
}

func descriptorPaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".xml" {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
