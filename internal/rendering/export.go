package rendering

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/portfolio-site/internal/types"
)

// ExportOptions configures a static export.
type ExportOptions struct {
	OutDir     string
	ResumeFile string // copied to the resume path when set
	SiteURL    string
}

// ExportResult lists the files written, relative to OutDir.
type ExportResult struct {
	Files []string
}

// exportPage is one pre-rendered UI state.
type exportPage struct {
	path string
	req  PageRequest
}

// Export writes the page, its overlay variants and the static assets to opts.OutDir.
func (r *Renderer) Export(ctx context.Context, p *types.Portfolio, opts ExportOptions) (*ExportResult, error) {
	if opts.OutDir == "" {
		return nil, &RenderError{Message: "output directory is required"}
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, &RenderError{Message: "failed to create output directory", Cause: err}
	}

	pages := []exportPage{
		{path: "index.html", req: PageRequest{SiteURL: opts.SiteURL}},
		{path: filepath.Join("menu", "index.html"), req: PageRequest{Overlay: "drawer", SiteURL: opts.SiteURL}},
		{path: filepath.Join("resume", "index.html"), req: PageRequest{Overlay: "resume", SiteURL: opts.SiteURL}},
	}

	g, gCtx := errgroup.WithContext(ctx)
	files := make([]string, len(pages))

	for i, page := range pages {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := r.Render(&buf, p, page.req); err != nil {
				return fmt.Errorf("render %s: %w", page.path, err)
			}
			if err := writeFile(filepath.Join(opts.OutDir, page.path), &buf); err != nil {
				return err
			}
			files[i] = page.path
			return nil
		})
	}

	var assets []string
	g.Go(func() error {
		var err error
		assets, err = copyFS(gCtx, StaticFS(), filepath.Join(opts.OutDir, "static"))
		return err
	})

	var resume string
	if opts.ResumeFile != "" {
		g.Go(func() error {
			target := p.Profile.ResumePath
			if target == "" {
				target = "/resume.pdf"
			}
			resume = filepath.FromSlash(target[1:])
			src, err := os.Open(opts.ResumeFile)
			if err != nil {
				return &RenderError{Message: "failed to open resume", Cause: err}
			}
			defer src.Close()
			return writeFile(filepath.Join(opts.OutDir, resume), src)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &ExportResult{Files: files}
	for _, a := range assets {
		result.Files = append(result.Files, filepath.Join("static", a))
	}
	if resume != "" {
		result.Files = append(result.Files, resume)
	}
	return result, nil
}

func copyFS(ctx context.Context, src fs.FS, dir string) ([]string, error) {
	var written []string
	err := fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			return nil
		}
		f, err := src.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := writeFile(filepath.Join(dir, filepath.FromSlash(path)), f); err != nil {
			return err
		}
		written = append(written, filepath.FromSlash(path))
		return nil
	})
	if err != nil {
		return nil, &RenderError{Message: "failed to copy static assets", Cause: err}
	}
	return written, nil
}

func writeFile(path string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &RenderError{Message: "failed to create directory", Cause: err}
	}
	f, err := os.Create(path)
	if err != nil {
		return &RenderError{Message: "failed to create " + path, Cause: err}
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return &RenderError{Message: "failed to write " + path, Cause: err}
	}
	if err := f.Close(); err != nil {
		return &RenderError{Message: "failed to close " + path, Cause: err}
	}
	return nil
}
