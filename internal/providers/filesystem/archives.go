package filesystem

import (
	"archive/tar"
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/tabshell/tabshell/backend/internal/shared/types"
)

// ZipCreate archives a directory as a ZIP file, for workspace export.
func (p *Provider) ZipCreate(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	source, ok := params["source"].(string)
	if !ok || source == "" {
		return types.Failure("source parameter required")
	}
	output, ok := params["output"].(string)
	if !ok || output == "" {
		return types.Failure("output parameter required")
	}

	zipFile, err := os.Create(output)
	if err != nil {
		return types.Failure(fmt.Sprintf("create archive: %v", err))
	}
	defer zipFile.Close()

	zw := zip.NewWriter(zipFile)
	defer zw.Close()

	count := 0
	err = filepath.Walk(source, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if skipNames[info.Name()] && info.IsDir() {
			return filepath.SkipDir
		}
		rel, err := filepath.Rel(source, path)
		if err != nil || rel == "." {
			return err
		}
		if info.IsDir() {
			_, err := zw.Create(rel + "/")
			return err
		}
		w, err := zw.Create(rel)
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := io.Copy(w, f); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return types.Failure(fmt.Sprintf("zip creation failed: %v", err))
	}

	return types.Success(map[string]interface{}{
		"archive": output,
		"files":   count,
	})
}

// ZipExtract extracts a ZIP archive into a directory.
func (p *Provider) ZipExtract(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	archive, ok := params["archive"].(string)
	if !ok || archive == "" {
		return types.Failure("archive parameter required")
	}
	dest, ok := params["dest"].(string)
	if !ok || dest == "" {
		return types.Failure("dest parameter required")
	}

	reader, err := zip.OpenReader(archive)
	if err != nil {
		return types.Failure(fmt.Sprintf("open archive: %v", err))
	}
	defer reader.Close()

	count := 0
	for _, file := range reader.File {
		target := filepath.Join(dest, file.Name)
		// Guard against zip-slip
		if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
			return types.Failure(fmt.Sprintf("illegal entry path: %s", file.Name))
		}
		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return types.Failure(fmt.Sprintf("create directory: %v", err))
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return types.Failure(fmt.Sprintf("create directory: %v", err))
		}
		if err := extractZipFile(file, target); err != nil {
			return types.Failure(fmt.Sprintf("extract %s: %v", file.Name, err))
		}
		count++
	}

	return types.Success(map[string]interface{}{
		"dest":  dest,
		"files": count,
	})
}

func extractZipFile(file *zip.File, target string) error {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, file.Mode())
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}

// TarGzCreate archives a directory as .tar.gz using klauspost gzip.
func (p *Provider) TarGzCreate(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	source, ok := params["source"].(string)
	if !ok || source == "" {
		return types.Failure("source parameter required")
	}
	output, ok := params["output"].(string)
	if !ok || output == "" {
		return types.Failure("output parameter required")
	}

	outFile, err := os.Create(output)
	if err != nil {
		return types.Failure(fmt.Sprintf("create archive: %v", err))
	}
	defer outFile.Close()

	gz := gzip.NewWriter(outFile)
	defer gz.Close()
	tw := tar.NewWriter(gz)
	defer tw.Close()

	count := 0
	err = filepath.Walk(source, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if skipNames[info.Name()] && info.IsDir() {
			return filepath.SkipDir
		}
		rel, err := filepath.Rel(source, path)
		if err != nil || rel == "." {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = rel
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := io.Copy(tw, f); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return types.Failure(fmt.Sprintf("tar creation failed: %v", err))
	}

	return types.Success(map[string]interface{}{
		"archive": output,
		"files":   count,
	})
}

// TarGzExtract extracts a .tar.gz archive into a directory.
func (p *Provider) TarGzExtract(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	archive, ok := params["archive"].(string)
	if !ok || archive == "" {
		return types.Failure("archive parameter required")
	}
	dest, ok := params["dest"].(string)
	if !ok || dest == "" {
		return types.Failure("dest parameter required")
	}

	f, err := os.Open(archive)
	if err != nil {
		return types.Failure(fmt.Sprintf("open archive: %v", err))
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return types.Failure(fmt.Sprintf("open gzip stream: %v", err))
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	count := 0
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return types.Failure(fmt.Sprintf("read archive: %v", err))
		}

		target := filepath.Join(dest, hdr.Name)
		if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
			return types.Failure(fmt.Sprintf("illegal entry path: %s", hdr.Name))
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return types.Failure(fmt.Sprintf("create directory: %v", err))
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return types.Failure(fmt.Sprintf("create directory: %v", err))
			}
			out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(hdr.Mode))
			if err != nil {
				return types.Failure(fmt.Sprintf("create file: %v", err))
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return types.Failure(fmt.Sprintf("extract %s: %v", hdr.Name, err))
			}
			out.Close()
			count++
		}
	}

	return types.Success(map[string]interface{}{
		"dest":  dest,
		"files": count,
	})
}
