package xmlmap

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/strataorm/strata/compiler/load"
)

func TestParse(t *testing.T) {
	em, err := Parse(strings.NewReader(descriptor))
	require.NoError(t, err)
	require.Equal(t, "1.0", em.Version)
	require.NotNil(t, em.Defaults)
	require.Equal(t, "app.model", em.Defaults.Package)
	require.Len(t, em.Entities, 3)
	require.Equal(t, "User", em.Entities[0].Name)

	_, err = Parse(strings.NewReader("<entity-mappings><entity"))
	require.Error(t, err)
}

func writeDescriptors(t *testing.T, dir string) []string {
	t.Helper()
	files := map[string]string{
		"user.xml": `<entity-mappings>
		  <entity name="User"><attributes>
		    <id name="id" type="long"/>
		    <one-to-many name="pets" target-entity="Pet"/>
		  </attributes></entity>
		</entity-mappings>`,
		"pet.xml": `<entity-mappings>
		  <entity name="Pet"><attributes>
		    <id name="id" type="long"/>
		  </attributes></entity>
		</entity-mappings>`,
	}
	var paths []string
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		paths = append(paths, path)
	}
	return paths
}

func TestParseFiles(t *testing.T) {
	paths := writeDescriptors(t, t.TempDir())
	mappings, err := ParseFiles(context.Background(), paths...)
	require.NoError(t, err)
	require.Len(t, mappings, 2)
	// Order matches the input paths.
	for i, em := range mappings {
		require.NotEmpty(t, em.Entities, "mapping %d", i)
	}

	_, err = ParseFiles(context.Background(), paths[0], filepath.Join(t.TempDir(), "missing.xml"))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	// Cross-file entity references resolve.
	paths := writeDescriptors(t, t.TempDir())
	schemas, err := Load(context.Background(), paths...)
	require.NoError(t, err)
	require.Len(t, schemas, 2)
}

func TestParseDir(t *testing.T) {
	dir := t.TempDir()
	writeDescriptors(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	mappings, err := ParseDir(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, mappings, 2)
	// Lexical order: pet.xml before user.xml.
	require.Equal(t, "Pet", mappings[0].Entities[0].Name)
	require.Equal(t, "User", mappings[1].Entities[0].Name)
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	writeDescriptors(t, dir)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	loaded := make(chan []*load.Schema, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, func(schemas []*load.Schema, err error) error {
			if err != nil {
				return err
			}
			select {
			case loaded <- schemas:
			default:
			}
			return nil
		})
	}()

	// Give the watcher time to register before touching the directory.
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tag.xml"), []byte(`<entity-mappings>
	  <entity name="Tag"><attributes><id name="id" type="long"/></attributes></entity>
	</entity-mappings>`), 0o644))

	select {
	case schemas := <-loaded:
		require.Len(t, schemas, 3)
	case <-ctx.Done():
		t.Fatal("timed out waiting for reload")
	}
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}
