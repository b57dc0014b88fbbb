package pagesource

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knowdesk/pagekit/pkg/page"
)

// FromFS builds a registry from the pages/ and layouts/ directories of
// fsys. Page files are read when their loader runs.
func FromFS(fsys fs.FS) (*page.Registry, error) {
	c := &compiler{}

	if err := walkFiles(fsys, layoutsDir, func(rel, full string) error {
		src, err := fs.ReadFile(fsys, full)
		if err != nil {
			return err
		}
		return c.addLayout(rel, src)
	}); err != nil {
		return nil, fmt.Errorf("load layouts: %w", err)
	}

	loaders := map[string]page.Loader{}
	if err := walkFiles(fsys, pagesDir, func(rel, full string) error {
		name, ext := splitPage(rel)
		if !supported(ext) {
			return nil
		}
		loaders[page.Key(name, ext)] = func(ctx context.Context) (*page.Component, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			src, err := fs.ReadFile(fsys, full)
			if err != nil {
				return nil, err
			}
			return c.compile(name, ext, src)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	return page.NewRegistry(loaders, c.registryOptions()...), nil
}

// walkFiles calls fn for every regular file below dir with its path
// relative to dir. A missing dir is not an error.
func walkFiles(fsys fs.FS, dir string, fn func(rel, full string) error) error {
	if _, err := fs.Stat(fsys, dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return fn(strings.TrimPrefix(p, dir+"/"), p)
	})
}
