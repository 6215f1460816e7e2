package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/strataorm/strata/compiler/load"
	"github.com/strataorm/strata/compiler/load/xmlmap"
)

// loadSchemas loads the entity schemas of the XML descriptors under
// dir. With a cache directory, descriptor contents are fingerprinted
// and a matching snapshot skips the parse and mock steps.
func loadSchemas(ctx context.Context, dir, cacheDir string) ([]*load.Schema, error) {
	if dir == "" {
		return nil, fmt.Errorf("no descriptor path given (set --path or the path config key)")
	}
	paths, err := descriptorFiles(dir)
	if err != nil {
		return nil, err
	}
	if cacheDir == "" {
		return xmlmap.Load(ctx, paths...)
	}
	sources := make(map[string][]byte, len(paths))
	for _, p := range paths {
		buf, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read descriptor %s: %w", p, err)
		}
		sources[p] = buf
	}
	var (
		cache = load.NewCache(cacheDir)
		fp    = load.Fingerprint(sources)
	)
	if snap, ok, err := cache.Load(fp); err != nil {
		return nil, err
	} else if ok {
		return snap.Schemas, nil
	}
	schemas, err := xmlmap.Load(ctx, paths...)
	if err != nil {
		return nil, err
	}
	if err := cache.Store(fp, schemas); err != nil {
		return nil, err
	}
	return schemas, nil
}

func descriptorFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read descriptor directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".xml") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
