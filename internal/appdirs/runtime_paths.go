package appdirs

import (
	"path/filepath"
	"strings"
)

const (
	JobRootName    = "jobs"
	UploadRootName = "uploads"
	dbFileName     = "tubebite.db"
)

// JobRootFor is the parent directory of all per-job working directories.
func JobRootFor(paths Paths) string {
	return filepath.Join(normalizeDir(paths.CacheDir), JobRootName)
}

// JobDirFor is the scratch directory for one clip job. It holds the source
// video, intermediate audio and the rendered clips before upload, and is
// removed when the job finishes.
func JobDirFor(paths Paths, jobID string) string {
	return filepath.Join(JobRootFor(paths), jobID)
}

// UploadRootFor is where user-uploaded source videos land.
func UploadRootFor(paths Paths) string {
	return filepath.Join(normalizeDir(paths.OutputDir), UploadRootName)
}

// OutputRootFor is the publicly served directory holding finished clips and
// thumbnails when no remote asset store is configured.
func OutputRootFor(paths Paths) string {
	return normalizeDir(paths.OutputDir)
}

func DBPathFor(paths Paths) string {
	return filepath.Join(normalizeDir(paths.CacheDir), dbFileName)
}

func ResolveJobDir(jobID string) (string, error) {
	paths, err := Resolve()
	if err != nil {
		return "", err
	}
	return JobDirFor(paths, jobID), nil
}

func ResolveUploadRoot() (string, error) {
	paths, err := Resolve()
	if err != nil {
		return "", err
	}
	return UploadRootFor(paths), nil
}

func ResolveOutputRoot() (string, error) {
	paths, err := Resolve()
	if err != nil {
		return "", err
	}
	return OutputRootFor(paths), nil
}

func ResolveDBPath() (string, error) {
	paths, err := Resolve()
	if err != nil {
		return "", err
	}
	return DBPathFor(paths), nil
}

func normalizeDir(dir string) string {
	cleaned := strings.TrimSpace(dir)
	if cleaned == "" {
		return "."
	}
	return cleaned
}
