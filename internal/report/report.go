// Package report persists bug case artifacts for later reproduction.
package report

import (
	"archive/tar"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"hibari/internal/util"
)

// Reporter writes case artifacts to disk.
type Reporter struct {
	OutputDir string
	caseSeq   int
}

// Case describes a report directory.
type Case struct {
	ID  string
	Dir string
}

// Summary captures the persisted metadata for a case.
type Summary struct {
	Oracle         string   `json:"oracle"`
	SQL            []string `json:"sql"`
	Error          string   `json:"error"`
	ErrorKind      string   `json:"error_kind"`
	Seed           int64    `json:"seed"`
	Round          int      `json:"round"`
	QueryIndex     int      `json:"query_index"`
	Engine         string   `json:"engine"`
	CaseID         string   `json:"case_id"`
	CaseDir        string   `json:"case_dir"`
	ArchiveName    string   `json:"archive_name"`
	ArchiveCodec   string   `json:"archive_codec"`
	UploadLocation string   `json:"upload_location"`
	Timestamp      string   `json:"timestamp"`
	CI             bool     `json:"ci"`
	Repository     string   `json:"repository"`
	CommitSHA      string   `json:"commit_sha"`
	RunID          string   `json:"run_id"`
}

// New creates a reporter that writes to outputDir.
func New(outputDir string) *Reporter {
	return &Reporter{OutputDir: outputDir}
}

// NewCase allocates a new case directory.
func (r *Reporter) NewCase() (Case, error) {
	r.caseSeq++
	caseID := uuid.New().String()
	if v7, err := uuid.NewV7(); err == nil {
		caseID = v7.String()
	}
	dir := filepath.Join(r.OutputDir, fmt.Sprintf("case_%04d_%s", r.caseSeq, caseID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Case{}, err
	}
	readme := "# Reproduce Case\n\n- Failure details: report.txt\n- Run query: case.sql\n- Or replay the case with hibari-replay; the seed and round in summary.json rebuild the schema and data\n"
	_ = os.WriteFile(filepath.Join(dir, "README.md"), []byte(readme), 0o644)
	return Case{ID: caseID, Dir: dir}, nil
}

const (
	CaseArchiveName  = "case.tar.zst"
	CaseArchiveCodec = "zstd"
)

// WriteSummary writes summary.json into the case directory.
func (r *Reporter) WriteSummary(c Case, summary Summary) error {
	f, err := os.Create(filepath.Join(c.Dir, "summary.json"))
	if err != nil {
		return err
	}
	defer util.CloseWithErr(f, "summary output")
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(summary)
}

// WriteSQL writes a SQL file from the provided statements.
func (r *Reporter) WriteSQL(c Case, name string, statements []string) error {
	content := strings.Join(statements, ";\n") + ";\n"
	return r.writeFile(c, name, content)
}

// WriteText writes raw text content into the case directory.
func (r *Reporter) WriteText(c Case, name string, content string) error {
	return r.writeFile(c, name, content)
}

func (r *Reporter) writeFile(c Case, name string, content string) error {
	path := filepath.Join(c.Dir, name)
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// WriteCaseArchive creates a compressed archive for the case directory.
func (r *Reporter) WriteCaseArchive(c Case) (name string, codec string, err error) {
	archivePath := filepath.Join(c.Dir, CaseArchiveName)
	if removeErr := os.Remove(archivePath); removeErr != nil && !os.IsNotExist(removeErr) {
		return "", "", removeErr
	}
	defer func() {
		if err != nil {
			_ = os.Remove(archivePath)
		}
	}()
	file, err := os.Create(archivePath)
	if err != nil {
		return "", "", err
	}
	defer util.CloseWithErr(file, "archive output")

	zw, err := zstd.NewWriter(file)
	if err != nil {
		return "", "", err
	}
	defer func() {
		if closeErr := zw.Close(); err == nil && closeErr != nil {
			err = closeErr
		}
	}()

	tw := tar.NewWriter(zw)
	defer func() {
		if closeErr := tw.Close(); err == nil && closeErr != nil {
			err = closeErr
		}
	}()

	walkErr := filepath.WalkDir(c.Dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || path == archivePath {
			return nil
		}
		rel, err := filepath.Rel(c.Dir, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		if _, err := io.Copy(tw, src); err != nil {
			util.CloseWithErr(src, "archive source")
			return err
		}
		util.CloseWithErr(src, "archive source")
		return nil
	})
	if walkErr != nil {
		return "", "", walkErr
	}
	return CaseArchiveName, CaseArchiveCodec, nil
}
