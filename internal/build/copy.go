package build

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joeblew999/plat-fonts/internal/errorx"
	"github.com/joeblew999/plat-fonts/pkg/catalog"
	"github.com/joeblew999/plat-fonts/pkg/log"
)

// requireArtifact fails with ErrArtifactMissing when path does not exist.
func requireArtifact(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errorx.Wrap(errorx.ErrArtifactMissing, "%s", path)
		}
		return err
	}
	return nil
}

// copyArtifact copies an intermediate artifact that must already exist.
func copyArtifact(src, dst string) error {
	if err := requireArtifact(src); err != nil {
		return err
	}
	return copyFile(src, dst)
}

// copyTree copies the directory src into dst. Symlinks are followed.
func copyTree(src, dst string) error {
	src, err := filepath.EvalSymlinks(src)
	if err != nil {
		return err
	}
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if info.IsDir() {
			if d.Type()&fs.ModeSymlink != 0 {
				return copyTree(path, target)
			}
			return os.MkdirAll(target, 0755)
		}
		return copyFile(path, target)
	})
}

// copyFontRoot copies the font root into dst, leaving out the top-level
// folders the catalog scan ignores.
func copyFontRoot(root, dst string, ignore []string) error {
	root, err := filepath.EvalSymlinks(root)
	if err != nil {
		return err
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dst, 0755); err != nil {
		return errorx.Wrap(errorx.ErrWriteOutput, "create %s: %v", dst, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		src := filepath.Join(root, name)
		info, err := os.Stat(src)
		if err != nil {
			return fmt.Errorf("stat %s: %w", src, err)
		}
		if !info.IsDir() {
			if err := copyFile(src, filepath.Join(dst, name)); err != nil {
				return err
			}
			continue
		}
		if catalog.Ignored(name, ignore) {
			log.Debug("Not copying ignored folder", "dir", src)
			continue
		}
		if err := copyTree(src, filepath.Join(dst, name)); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errorx.Wrap(errorx.ErrWriteOutput, "create %s: %v", filepath.Dir(dst), err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return errorx.Wrap(errorx.ErrWriteOutput, "%s: %v", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errorx.Wrap(errorx.ErrWriteOutput, "%s: %v", dst, err)
	}
	if err := out.Close(); err != nil {
		return errorx.Wrap(errorx.ErrWriteOutput, "%s: %v", dst, err)
	}
	return nil
}
