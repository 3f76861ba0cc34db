package template

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse_RendersDescription(t *testing.T) {
	tmpl, err := Parse("test", "## Changes\n\n{{.Description}}\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	out, err := tmpl.Render("### amy\n- #1: N/A")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := "## Changes\n\n### amy\n- #1: N/A\n"
	if out != want {
		t.Errorf("Render() = %q, want %q", out, want)
	}
}

func TestParse_RejectsMissingPlaceholder(t *testing.T) {
	if _, err := Parse("test", "no placeholder here"); err == nil {
		t.Error("expected error for template without .Description")
	}
}

func TestParse_RejectsDuplicatePlaceholder(t *testing.T) {
	if _, err := Parse("test", "{{.Description}} and {{.Description}}"); err == nil {
		t.Error("expected error for template with two placeholders")
	}
}

func TestParse_RejectsInvalidSyntax(t *testing.T) {
	if _, err := Parse("test", "{{.Description"); err == nil {
		t.Error("expected error for unterminated action")
	}
}

func TestParse_Funcs(t *testing.T) {
	tmpl, err := Parse("test", "{{title \"release notes\"}}\n{{.Description}}")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	out, err := tmpl.Render("body")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(out, "Release Notes") {
		t.Errorf("title func not applied: %q", out)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.md")
	if err := os.WriteFile(path, []byte("Release\n\n{{.Description}}"), 0o644); err != nil {
		t.Fatal(err)
	}

	tmpl, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	out, err := tmpl.Render("x")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "Release\n\nx" {
		t.Errorf("Render() = %q", out)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.md")); err == nil {
		t.Error("expected error for missing template file")
	}
}
