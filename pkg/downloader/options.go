package downloader

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/exp/slices"
	"kubegems.io/nlpdata/pkg/errors"
)

const (
	EnvPython   = "NLPDATA_PYTHON"
	EnvNLTKDir  = "NLPDATA_NLTK_DIR"
	EnvRetries  = "NLPDATA_RETRIES"
	EnvNLTKData = "NLTK_DATA"
)

const (
	DefaultPython        = "python3"
	DefaultRetryInterval = 2 * time.Second
)

type Options struct {
	// Python is the interpreter used to run both downloaders.
	Python string
	// NLTKDir is passed to the NLTK downloader as its download directory.
	// Empty lets the tool choose.
	NLTKDir string
	// NLTKSearchPaths are the directories probed for installed NLTK data, after NLTKDir.
	NLTKSearchPaths []string

	Quiet         bool
	DryRun        bool
	SkipInstalled bool
	Retries       int
	RetryInterval time.Duration
}

func DefaultOptions() *Options {
	return &Options{
		Python:          envOr(EnvPython, DefaultPython),
		NLTKDir:         os.Getenv(EnvNLTKDir),
		NLTKSearchPaths: DefaultNLTKSearchPaths(),
		Retries:         envInt(EnvRetries, 0),
		RetryInterval:   DefaultRetryInterval,
	}
}

func (o *Options) Validate() error {
	if o.Python == "" {
		return errors.NewConfigInvalidError("python interpreter is not specified")
	}
	if o.Retries < 0 {
		return errors.NewConfigInvalidError("retries must not be negative")
	}
	if o.RetryInterval < 0 {
		return errors.NewConfigInvalidError("retry interval must not be negative")
	}
	return nil
}

// NLTKDataPaths returns the directories searched for installed NLTK data, in order.
func (o *Options) NLTKDataPaths() []string {
	paths := []string{}
	for _, p := range append([]string{o.NLTKDir}, o.NLTKSearchPaths...) {
		if p == "" || slices.Contains(paths, p) {
			continue
		}
		paths = append(paths, p)
	}
	return paths
}

// DefaultNLTKSearchPaths mirrors the lookup order of nltk.data.path on unix hosts.
func DefaultNLTKSearchPaths() []string {
	paths := filepath.SplitList(os.Getenv(EnvNLTKData))
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, "nltk_data"))
	}
	return append(paths,
		"/usr/share/nltk_data",
		"/usr/local/share/nltk_data",
		"/usr/lib/nltk_data",
		"/usr/local/lib/nltk_data",
	)
}

func envOr(key, def string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return def
}

func envInt(key string, def int) int {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return def
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return i
}
