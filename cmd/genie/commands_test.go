package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"imagegenie/internal/domain"
)

func TestGenerateFlagsForm(t *testing.T) {
	cmd := &cobra.Command{Use: "generate"}
	f := bindGenerateFlags(cmd)
	args := []string{
		"--specialization", "Photographer",
		"--depth-of-field", "subject isolation technique",
		"--prompt", "owl",
		"--as-is",
		"--render-style", "natural",
	}
	if err := cmd.Flags().Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	sel := domain.ParseSelection(f.form())
	if v, _ := sel.Choice(domain.CategoryDepthOfField); v != "subject isolation technique" {
		t.Fatalf("depth of field = %q", v)
	}
	if _, ok := sel.Choice(domain.CategoryLighting); ok {
		t.Fatal("unset flag should leave the category missing")
	}
	if !sel.OverrideRequested() || sel.RenderStyle != domain.RenderStyleNatural || sel.Size != domain.DefaultImageSize {
		t.Fatalf("unexpected selection: %+v", sel)
	}
}

func TestSeedAndListThroughCLI(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("APP_ENV", "test")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "genie.db"))
	t.Setenv("IMAGES_DIR", filepath.Join(dir, "images"))

	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"seed"})
	if err := root.Execute(); err != nil {
		t.Fatalf("seed: %v", err)
	}

	out.Reset()
	root = newRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"options", "lighting", "--set", "Soft,Hard"})
	if err := root.Execute(); err != nil {
		t.Fatalf("options: %v", err)
	}
	if got := out.String(); !strings.Contains(got, "Lighting (lighting)") || !strings.Contains(got, "  - Hard") {
		t.Fatalf("unexpected output: %q", got)
	}

	root = newRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"--locale", "id", "event", "123"})
	err := root.Execute()
	if err == nil || err.Error() != "Gambar tersebut tidak ditemukan." {
		t.Fatalf("expected localized not found, got %v", err)
	}
}
