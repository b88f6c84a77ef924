package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "printdrop version "+Version)
}

func TestSetActive_RejectsBadID(t *testing.T) {
	_, err := execute(t, "products", "set-active", "not-a-uuid", "--active=false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid product id")
}

func TestSetActive_RequiresID(t *testing.T) {
	_, err := execute(t, "products", "set-active")
	assert.Error(t, err)
}

func TestLoadCatalog(t *testing.T) {
	c, err := loadCatalog("")
	require.NoError(t, err)
	assert.NotEmpty(t, c.Products)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
categories: [{name: Stickers, slug: stickers}]
products: [{name: Die Cut Sticker, category: stickers, base_price: "3.50"}]
`), 0o644))
	c, err = loadCatalog(path)
	require.NoError(t, err)
	require.Len(t, c.Products, 1)
	assert.Equal(t, "stickers", c.Products[0].Category)

	_, err = loadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
