package report

import (
	"archive/tar"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestNewCaseAllocatesDirs(t *testing.T) {
	r := New(t.TempDir())
	a, err := r.NewCase()
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.NewCase()
	if err != nil {
		t.Fatal(err)
	}
	if a.Dir == b.Dir || a.ID == b.ID {
		t.Fatalf("cases not unique: %+v vs %+v", a, b)
	}
	if !strings.Contains(filepath.Base(a.Dir), "case_0001_") {
		t.Fatalf("unexpected case dir name: %s", a.Dir)
	}
	if _, err := os.Stat(filepath.Join(a.Dir, "README.md")); err != nil {
		t.Fatalf("README not written: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(a.Dir, "README.md"))
	if err != nil {
		t.Fatal(err)
	}
	readme := string(data)
	for _, want := range []string{"case.sql", "report.txt", "summary.json"} {
		if !strings.Contains(readme, want) {
			t.Fatalf("README does not mention %s: %s", want, readme)
		}
	}
	if strings.Contains(readme, "schema.sql") || strings.Contains(readme, "inserts.sql") {
		t.Fatalf("README mentions files the reporter never writes: %s", readme)
	}
}

func TestWriteSummaryRoundTrip(t *testing.T) {
	r := New(t.TempDir())
	c, err := r.NewCase()
	if err != nil {
		t.Fatal(err)
	}
	in := Summary{
		Oracle:     "no_crash",
		SQL:        []string{"SELECT 1"},
		Error:      "INTERNAL Error: boom",
		ErrorKind:  "bug",
		Seed:       42,
		Round:      1,
		QueryIndex: 3,
		Engine:     "duckdb",
		CaseID:     c.ID,
	}
	if err := r.WriteSummary(c, in); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(c.Dir, "summary.json"))
	if err != nil {
		t.Fatal(err)
	}
	var out Summary
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Oracle != in.Oracle || out.Seed != in.Seed || out.Error != in.Error || out.QueryIndex != in.QueryIndex {
		t.Fatalf("summary round trip mismatch: %+v", out)
	}
	if len(out.SQL) != 1 || out.SQL[0] != "SELECT 1" {
		t.Fatalf("summary SQL mismatch: %+v", out.SQL)
	}
}

func TestWriteSQLJoinsStatements(t *testing.T) {
	r := New(t.TempDir())
	c, err := r.NewCase()
	if err != nil {
		t.Fatal(err)
	}
	if err := r.WriteSQL(c, "case.sql", []string{"SELECT 1", "SELECT 2"}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(c.Dir, "case.sql"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "SELECT 1;\nSELECT 2;\n" {
		t.Fatalf("unexpected SQL file content: %q", string(data))
	}
}

func TestWriteCaseArchive(t *testing.T) {
	r := New(t.TempDir())
	c, err := r.NewCase()
	if err != nil {
		t.Fatal(err)
	}
	if err := r.WriteText(c, "case.sql", "SELECT 1;\n"); err != nil {
		t.Fatal(err)
	}
	name, codec, err := r.WriteCaseArchive(c)
	if err != nil {
		t.Fatal(err)
	}
	if name != CaseArchiveName || codec != CaseArchiveCodec {
		t.Fatalf("unexpected archive metadata: %s %s", name, codec)
	}

	f, err := os.Open(filepath.Join(c.Dir, name))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zr, err := zstd.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()
	tr := tar.NewReader(zr)
	found := map[string]bool{}
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		found[hdr.Name] = true
	}
	for _, want := range []string{"README.md", "case.sql"} {
		if !found[want] {
			t.Fatalf("archive missing %s, got %v", want, found)
		}
	}
	if found[CaseArchiveName] {
		t.Fatal("archive contains itself")
	}
}
