package downloader

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"
	"k8s.io/utils/exec"
	"kubegems.io/nlpdata/pkg/resource"
)

const statusConcurrency = 4

// spacyProbe prints the install location of a model package and exits
// non-zero when it cannot be imported.
const spacyProbe = `import importlib.util, sys
found = importlib.util.find_spec(sys.argv[1])
if found is None:
    sys.exit(1)
print(found.submodule_search_locations[0] if found.submodule_search_locations else found.origin)`

type ResourceStatus struct {
	resource.Resource
	Installed bool   `json:"installed"`
	Location  string `json:"location,omitempty"`
	Size      int64  `json:"size,omitempty"`
}

// Status reports which resources of the profile are installed. Results keep profile order.
func (d *Downloader) Status(ctx context.Context, profile resource.Profile) ([]ResourceStatus, error) {
	resources := profile.Resources()
	result := make([]ResourceStatus, len(resources))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(statusConcurrency)
	for i, r := range resources {
		i, r := i, r
		eg.Go(func() error {
			status, err := d.locate(ctx, r)
			if err != nil {
				return err
			}
			result[i] = status
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func (d *Downloader) pending(ctx context.Context, step resource.Step) (resource.Step, error) {
	pending := step
	pending.Resources = nil
	for _, r := range step.Resources {
		status, err := d.locate(ctx, r)
		if err != nil {
			return step, err
		}
		if status.Installed {
			logr.FromContextOrDiscard(ctx).V(1).Info("skip installed resource", "resource", r.Name, "location", status.Location)
			continue
		}
		pending.Resources = append(pending.Resources, r)
	}
	return pending, nil
}

func (d *Downloader) locate(ctx context.Context, r resource.Resource) (ResourceStatus, error) {
	switch r.Tool {
	case resource.ToolNLTK:
		return locateNLTK(d.Options.NLTKDataPaths(), r)
	case resource.ToolSpacy:
		return d.locateSpacy(ctx, r)
	default:
		return ResourceStatus{Resource: r}, nil
	}
}

// locateNLTK follows nltk.data.find: a resource is present as a directory or as a zip package.
func locateNLTK(paths []string, r resource.Resource) (ResourceStatus, error) {
	status := ResourceStatus{Resource: r}
	for _, dir := range paths {
		base := filepath.Join(dir, filepath.FromSlash(r.Path))
		for _, candidate := range []string{base, base + ".zip"} {
			fi, err := os.Stat(candidate)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
					continue
				}
				return status, err
			}
			size := fi.Size()
			if fi.IsDir() {
				if size, err = dirSize(candidate); err != nil {
					return status, err
				}
			}
			status.Installed, status.Location, status.Size = true, candidate, size
			return status, nil
		}
	}
	return status, nil
}

var spacyProbeLock sync.Mutex

func (d *Downloader) locateSpacy(ctx context.Context, r resource.Resource) (ResourceStatus, error) {
	status := ResourceStatus{Resource: r}

	spacyProbeLock.Lock()
	cmd := d.Exec.CommandContext(ctx, d.Options.Python, "-c", spacyProbe, r.Name)
	spacyProbeLock.Unlock()

	out, err := cmd.Output()
	if err != nil {
		var exiterr exec.ExitError
		if errors.As(err, &exiterr) || errors.Is(err, exec.ErrExecutableNotFound) {
			logr.FromContextOrDiscard(ctx).V(1).Info("spacy model not importable", "model", r.Name, "err", err.Error())
			return status, nil
		}
		return status, err
	}
	status.Installed = true
	status.Location = strings.TrimSpace(string(out))
	if status.Location != "" {
		if size, err := dirSize(status.Location); err == nil {
			status.Size = size
		}
	}
	return status, nil
}

func dirSize(dir string) (int64, error) {
	var total int64
	err := filepath.WalkDir(dir, func(_ string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		fi, err := entry.Info()
		if err != nil {
			return err
		}
		total += fi.Size()
		return nil
	})
	return total, err
}
