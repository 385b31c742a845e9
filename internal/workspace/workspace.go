package workspace

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gitlab.apk-group.net/siem/backend/project-analyzer/config"
)

// Workspace owns the per-job filesystem layout: the uploaded archive at
// <uploadDir>/<jobID>_<filename>, the extracted tree at
// <uploadDir>/<jobID>_extracted and report artifacts under <reportDir>.
type Workspace struct {
	uploadDir string
	reportDir string
}

func New(cfg config.ScanConfig) *Workspace {
	return &Workspace{
		uploadDir: cfg.UploadDir,
		reportDir: cfg.ReportDir,
	}
}

func (w *Workspace) ArchivePath(jobID, filename string) string {
	return filepath.Join(w.uploadDir, fmt.Sprintf("%s_%s", jobID, filepath.Base(filename)))
}

func (w *Workspace) ExtractedPath(jobID string) string {
	return filepath.Join(w.uploadDir, fmt.Sprintf("%s_extracted", jobID))
}

func (w *Workspace) ReportPath(jobID, extension string) string {
	return filepath.Join(w.reportDir, fmt.Sprintf("report_%s.%s", jobID, extension))
}

// SaveArchive streams the uploaded archive to disk and returns its path.
func (w *Workspace) SaveArchive(jobID, filename string, archive io.Reader) (string, error) {
	if err := os.MkdirAll(w.uploadDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	path := w.ArchivePath(jobID, filename)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create archive file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, archive); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write archive: %w", err)
	}

	return path, nil
}

// ExtractArchive unpacks the saved zip into the job's extraction directory
// and returns that directory. Entries escaping the directory are rejected.
func (w *Workspace) ExtractArchive(jobID, filename string) (string, error) {
	archivePath := w.ArchivePath(jobID, filename)
	destDir := w.ExtractedPath(jobID)

	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}
	defer reader.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create extraction directory: %w", err)
	}

	for _, file := range reader.File {
		if err := extractEntry(file, destDir); err != nil {
			return "", err
		}
	}

	return destDir, nil
}

func extractEntry(file *zip.File, destDir string) error {
	target := filepath.Join(destDir, file.Name)

	// Zip entries are attacker controlled, keep them inside destDir.
	if !strings.HasPrefix(filepath.Clean(target), filepath.Clean(destDir)+string(os.PathSeparator)) {
		return fmt.Errorf("archive entry escapes extraction directory: %s", file.Name)
	}

	if file.FileInfo().IsDir() {
		return os.MkdirAll(target, 0755)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, file.Mode())
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

// WriteReport stores a synthesized report artifact and returns its path.
func (w *Workspace) WriteReport(jobID, extension string, data []byte) (string, error) {
	if err := os.MkdirAll(w.reportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	path := w.ReportPath(jobID, extension)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return path, nil
}

// Remove deletes every artifact belonging to the job. Missing files are
// not an error, the job may have never been extracted.
func (w *Workspace) Remove(jobID, filename string) error {
	var firstErr error

	paths := []string{
		w.ArchivePath(jobID, filename),
		w.ReportPath(jobID, "json"),
		w.ReportPath(jobID, "html"),
	}
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = err
		}
	}

	if err := os.RemoveAll(w.ExtractedPath(jobID)); err != nil && firstErr == nil {
		firstErr = err
	}

	return firstErr
}
