package ipkg

import (
	"context"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

var pkgsLine = regexp.MustCompile(`pkgs\s*=\s*(([a-zA-Z/0-9., -_]+\s?)*)`)

// ExtractPkgs reads the package list from the "pkgs = a, b" line of an
// ipkg file.
func ExtractPkgs(contents string) []string {
	m := pkgsLine.FindStringSubmatch(contents)
	if m == nil {
		return []string{}
	}
	var pkgs []string
	for _, p := range strings.Split(m[1], ",") {
		if p = strings.TrimSpace(p); p != "" {
			pkgs = append(pkgs, p)
		}
	}
	return pkgs
}

// Find returns the ipkg files directly inside dir, sorted.
func Find(fsys afero.Fs, dir string) ([]string, error) {
	if ok, err := afero.DirExists(fsys, dir); err != nil || !ok {
		return []string{}, nil
	}
	matches, err := doublestar.Glob(afero.NewIOFS(afero.NewBasePathFs(fsys, dir)), "*.ipkg")
	if err != nil {
		return nil, errors.Errorf("globbing ipkg files in %s: %w", dir, err)
	}
	for i, m := range matches {
		matches[i] = path.Join(dir, m)
	}
	sort.Strings(matches)
	return matches, nil
}

// ProcessArgs builds the arguments for starting Idris in IDE mode. Idris 2
// finds its own ipkg; Idris 1 is told about packages with -p.
func ProcessArgs(idris2 bool, pkgs []string) []string {
	if idris2 {
		return []string{"--ide-mode", "--find-ipkg", "--no-color"}
	}
	args := []string{"--ide-mode"}
	for _, p := range pkgs {
		args = append(args, "-p", p)
	}
	return args
}

// ArgsForWorkspace reads the first ipkg in dir (Idris 1 only) and returns the
// IDE mode arguments.
func ArgsForWorkspace(ctx context.Context, fsys afero.Fs, dir string, idris2 bool) ([]string, error) {
	if idris2 || dir == "" {
		return ProcessArgs(idris2, nil), nil
	}

	files, err := Find(fsys, dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		zerolog.Ctx(ctx).Debug().Str("dir", dir).Msg("no ipkg file found")
		return ProcessArgs(false, nil), nil
	}

	data, err := afero.ReadFile(fsys, files[0])
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", files[0], err)
	}
	pkgs := ExtractPkgs(string(data))
	zerolog.Ctx(ctx).Debug().Str("ipkg", files[0]).Strs("pkgs", pkgs).Msg("loaded packages")

	return ProcessArgs(false, pkgs), nil
}
