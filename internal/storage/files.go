package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shhac/roboaccordion/internal/segments"
)

const (
	layoutsDir     = "layouts"
	layoutExt      = ".yaml"
	sessionFile    = "session.json"
	filePermission = 0644
	dirPermission  = 0755
)

// FileRepository implements Repository with one YAML file per layout and
// a JSON session file.
type FileRepository struct {
	basePath string
	logger   *slog.Logger
}

// NewFileRepository creates a new file-based storage repository
func NewFileRepository(basePath string, logger *slog.Logger) *FileRepository {
	return &FileRepository{
		basePath: basePath,
		logger:   logger,
	}
}

// SaveLayout writes defs as a segments file named after the layout
func (r *FileRepository) SaveLayout(name string, defs []segments.Definition) error {
	if err := validateLayoutName(name); err != nil {
		return fmt.Errorf("invalid layout name: %w", err)
	}
	if err := r.ensureLayoutsDir(); err != nil {
		return fmt.Errorf("ensure layouts directory: %w", err)
	}

	path := r.layoutPath(name)
	if err := r.verifyPathInLayoutsDir(path); err != nil {
		return err
	}
	data, err := segments.Encode(defs)
	if err != nil {
		return err
	}

	if err := atomicWriteFile(path, data, filePermission); err != nil {
		return fmt.Errorf("write layout file: %w", err)
	}

	r.logger.Debug("saved layout",
		slog.String("name", name),
		slog.Int("segments", len(defs)),
		slog.String("path", path))

	return nil
}

// LoadLayout reads and validates a saved layout
func (r *FileRepository) LoadLayout(name string) ([]segments.Definition, error) {
	if err := validateLayoutName(name); err != nil {
		return nil, fmt.Errorf("invalid layout name: %w", err)
	}
	path := r.layoutPath(name)
	if err := r.verifyPathInLayoutsDir(path); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("layout %q not found", name)
	}

	defs, err := segments.Load(path)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("loaded layout",
		slog.String("name", name),
		slog.Int("segments", len(defs)))

	return defs, nil
}

// ListLayouts returns the sorted names of all saved layouts
func (r *FileRepository) ListLayouts() ([]string, error) {
	layoutsPath := filepath.Join(r.basePath, layoutsDir)

	// If directory doesn't exist, return empty list (not an error)
	if _, err := os.Stat(layoutsPath); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(layoutsPath)
	if err != nil {
		return nil, fmt.Errorf("read layouts directory: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != layoutExt {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), layoutExt))
	}
	sort.Strings(names)

	r.logger.Debug("listed layouts", slog.Int("count", len(names)))
	return names, nil
}

// DeleteLayout removes a layout file
func (r *FileRepository) DeleteLayout(name string) error {
	if err := validateLayoutName(name); err != nil {
		return fmt.Errorf("invalid layout name: %w", err)
	}
	path := r.layoutPath(name)
	if err := r.verifyPathInLayoutsDir(path); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("layout %q not found", name)
		}
		return fmt.Errorf("delete layout file: %w", err)
	}

	r.logger.Debug("deleted layout", slog.String("name", name))
	return nil
}

// SaveSession stores the session file
func (r *FileRepository) SaveSession(session Session) error {
	if err := os.MkdirAll(r.basePath, dirPermission); err != nil {
		return fmt.Errorf("create base directory: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := atomicWriteFile(r.sessionPath(), data, filePermission); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}

	r.logger.Debug("saved session",
		slog.String("policy", session.Policy),
		slog.String("layout", session.Layout))
	return nil
}

// LoadSession returns the stored session, or nil if none was saved yet
func (r *FileRepository) LoadSession() (*Session, error) {
	data, err := os.ReadFile(r.sessionPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

// atomicWriteFile writes data to a file atomically by writing to a temp file
// in the same directory, syncing, then renaming over the target path.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := f.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	success = true
	return nil
}

// validateLayoutName checks that a layout name is safe for use as a filename.
func validateLayoutName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("layout name must not be empty")
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("layout name must not contain %q", "..")
	}
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("layout name must not contain path separators")
	}
	if strings.ContainsRune(name, 0) {
		return fmt.Errorf("layout name must not contain null bytes")
	}
	return nil
}

func (r *FileRepository) ensureLayoutsDir() error {
	path := filepath.Join(r.basePath, layoutsDir)
	if err := os.MkdirAll(path, dirPermission); err != nil {
		return fmt.Errorf("create layouts directory: %w", err)
	}
	return nil
}

func (r *FileRepository) layoutPath(name string) string {
	return filepath.Join(r.basePath, layoutsDir, name+layoutExt)
}

func (r *FileRepository) sessionPath() string {
	return filepath.Join(r.basePath, sessionFile)
}

// verifyPathInLayoutsDir checks that the resolved path is within the layouts directory.
func (r *FileRepository) verifyPathInLayoutsDir(path string) error {
	base := filepath.Join(r.basePath, layoutsDir)
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return fmt.Errorf("path outside layouts directory: %w", err)
	}
	if strings.HasPrefix(rel, "..") {
		return fmt.Errorf("path %q escapes layouts directory", path)
	}
	return nil
}
