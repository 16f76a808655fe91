package downloader

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"k8s.io/utils/exec"
	testingexec "k8s.io/utils/exec/testing"
	"kubegems.io/nlpdata/pkg/errors"
	"kubegems.io/nlpdata/pkg/resource"
)

type recorder struct {
	t    *testing.T
	out  *bytes.Buffer
	argv [][]string
}

// action returns a fake command that checks the status message was printed
// before Run and then finishes with err.
func (r *recorder) action(wantPrinted string, err error) testingexec.FakeCommandAction {
	return func(cmd string, args ...string) exec.Cmd {
		r.argv = append(r.argv, append([]string{cmd}, args...))
		fake := &testingexec.FakeCmd{
			RunScript: []testingexec.FakeAction{
				func() ([]byte, []byte, error) {
					if !strings.Contains(r.out.String(), wantPrinted) {
						r.t.Errorf("command %s started before %q was printed, output: %q", cmd, wantPrinted, r.out.String())
					}
					return nil, nil, err
				},
			},
		}
		return testingexec.InitFakeCmd(fake, cmd, args...)
	}
}

func newTestDownloader(out *bytes.Buffer, fexec *testingexec.FakeExec, options *Options) *Downloader {
	if options == nil {
		options = &Options{Python: "python3"}
	}
	return &Downloader{Options: options, Exec: fexec, Out: out, Err: out}
}

var (
	nltkArgv  = []string{"python3", "-m", "nltk.downloader", "punkt", "stopwords", "averaged_perceptron_tagger", "wordnet"}
	spacyArgv = []string{"python3", "-m", "spacy", "download", "en_core_web_sm"}
)

func TestDownloader_Setup(t *testing.T) {
	tests := []struct {
		name         string
		profile      string
		nltkErr      error
		spacyErr     error
		wantArgv     [][]string
		wantOutput   string
		wantErrCode  errors.ErrCode
		wantExitCode int
	}{
		{
			name:       "nltk profile",
			profile:    resource.ProfileNLTK,
			wantArgv:   [][]string{nltkArgv},
			wantOutput: "Downloading NLTK data...\n",
		},
		{
			name:       "full profile",
			profile:    resource.ProfileFull,
			wantArgv:   [][]string{nltkArgv, spacyArgv},
			wantOutput: "Downloading NLTK data...\nDownloading spaCy model...\n",
		},
		{
			name:         "nltk fails",
			profile:      resource.ProfileFull,
			nltkErr:      testingexec.FakeExitError{Status: 2},
			wantArgv:     [][]string{nltkArgv},
			wantOutput:   "Downloading NLTK data...\n",
			wantErrCode:  errors.ErrCodeDownloadFailed,
			wantExitCode: 2,
		},
		{
			name:         "spacy fails",
			profile:      resource.ProfileFull,
			spacyErr:     testingexec.FakeExitError{Status: 1},
			wantArgv:     [][]string{nltkArgv, spacyArgv},
			wantOutput:   "Downloading NLTK data...\nDownloading spaCy model...\n",
			wantErrCode:  errors.ErrCodeDownloadFailed,
			wantExitCode: 1,
		},
		{
			name:         "python missing",
			profile:      resource.ProfileNLTK,
			nltkErr:      exec.ErrExecutableNotFound,
			wantArgv:     [][]string{nltkArgv},
			wantOutput:   "Downloading NLTK data...\n",
			wantErrCode:  errors.ErrCodeToolUnavailable,
			wantExitCode: errors.ExitCodeToolUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			rec := &recorder{t: t, out: out}
			fexec := &testingexec.FakeExec{
				CommandScript: []testingexec.FakeCommandAction{
					rec.action(resource.MessageNLTK, tt.nltkErr),
					rec.action(resource.MessageSpacy, tt.spacyErr),
				},
			}
			profile, err := resource.GetProfile(tt.profile)
			if err != nil {
				t.Fatal(err)
			}
			err = newTestDownloader(out, fexec, nil).Setup(context.Background(), profile)
			if tt.wantErrCode == "" {
				if err != nil {
					t.Fatalf("Setup() error = %v", err)
				}
			} else if !errors.IsErrCode(err, tt.wantErrCode) {
				t.Fatalf("Setup() error = %v, want %s", err, tt.wantErrCode)
			}
			if got := errors.ExitCode(err); got != tt.wantExitCode {
				t.Errorf("ExitCode() = %d, want %d", got, tt.wantExitCode)
			}
			if !reflect.DeepEqual(rec.argv, tt.wantArgv) {
				t.Errorf("Setup() argv = %v, want %v", rec.argv, tt.wantArgv)
			}
			if got := out.String(); got != tt.wantOutput {
				t.Errorf("Setup() output = %q, want %q", got, tt.wantOutput)
			}
		})
	}
}

func TestDownloader_SetupRetries(t *testing.T) {
	out := &bytes.Buffer{}
	rec := &recorder{t: t, out: out}
	fexec := &testingexec.FakeExec{
		CommandScript: []testingexec.FakeCommandAction{
			rec.action(resource.MessageNLTK, testingexec.FakeExitError{Status: 1}),
			rec.action(resource.MessageNLTK, nil),
		},
	}
	profile, _ := resource.GetProfile(resource.ProfileNLTK)
	d := newTestDownloader(out, fexec, &Options{Python: "python3", Retries: 2})
	if err := d.Setup(context.Background(), profile); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if fexec.CommandCalls != 2 {
		t.Errorf("CommandCalls = %d, want 2", fexec.CommandCalls)
	}
	if !reflect.DeepEqual(rec.argv, [][]string{nltkArgv, nltkArgv}) {
		t.Errorf("argv = %v", rec.argv)
	}
}

func TestDownloader_SetupRetriesExhausted(t *testing.T) {
	out := &bytes.Buffer{}
	rec := &recorder{t: t, out: out}
	fexec := &testingexec.FakeExec{
		CommandScript: []testingexec.FakeCommandAction{
			rec.action(resource.MessageNLTK, testingexec.FakeExitError{Status: 4}),
			rec.action(resource.MessageNLTK, testingexec.FakeExitError{Status: 5}),
		},
	}
	profile, _ := resource.GetProfile(resource.ProfileNLTK)
	d := newTestDownloader(out, fexec, &Options{Python: "python3", Retries: 1})
	err := d.Setup(context.Background(), profile)
	if got := errors.ExitCode(err); got != 5 {
		t.Errorf("ExitCode() = %d, want 5, err = %v", got, err)
	}
}

func TestDownloader_SetupMissingToolIsNotRetried(t *testing.T) {
	out := &bytes.Buffer{}
	rec := &recorder{t: t, out: out}
	fexec := &testingexec.FakeExec{
		CommandScript: []testingexec.FakeCommandAction{
			rec.action(resource.MessageNLTK, exec.ErrExecutableNotFound),
		},
	}
	profile, _ := resource.GetProfile(resource.ProfileNLTK)
	d := newTestDownloader(out, fexec, &Options{Python: "python3", Retries: 3})
	if err := d.Setup(context.Background(), profile); !errors.IsErrCode(err, errors.ErrCodeToolUnavailable) {
		t.Fatalf("Setup() error = %v, want %s", err, errors.ErrCodeToolUnavailable)
	}
	if fexec.CommandCalls != 1 {
		t.Errorf("CommandCalls = %d, want 1", fexec.CommandCalls)
	}
}

func TestDownloader_SetupDryRun(t *testing.T) {
	out := &bytes.Buffer{}
	// an empty script panics on any command
	fexec := &testingexec.FakeExec{}
	profile, _ := resource.GetProfile(resource.ProfileFull)
	d := newTestDownloader(out, fexec, &Options{Python: "python3", DryRun: true, NLTKDir: "./nltk data"})
	if err := d.Setup(context.Background(), profile); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	want := "Downloading NLTK data...\n" +
		"python3 -m nltk.downloader -d './nltk data' punkt stopwords averaged_perceptron_tagger wordnet\n" +
		"Downloading spaCy model...\n" +
		"python3 -m spacy download en_core_web_sm\n"
	if got := out.String(); got != want {
		t.Errorf("Setup() output = %q, want %q", got, want)
	}
}

func TestDownloader_SetupSkipInstalled(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "tokenizers", "punkt.zip"), "zip")
	mustWrite(t, filepath.Join(dir, "corpora", "stopwords", "english"), "a\nthe\n")

	out := &bytes.Buffer{}
	rec := &recorder{t: t, out: out}
	fexec := &testingexec.FakeExec{
		CommandScript: []testingexec.FakeCommandAction{
			rec.action(resource.MessageNLTK, nil),
		},
	}
	profile, _ := resource.GetProfile(resource.ProfileNLTK)
	d := newTestDownloader(out, fexec, &Options{Python: "python3", SkipInstalled: true, NLTKSearchPaths: []string{dir}})
	if err := d.Setup(context.Background(), profile); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	want := [][]string{{"python3", "-m", "nltk.downloader", "averaged_perceptron_tagger", "wordnet"}}
	if !reflect.DeepEqual(rec.argv, want) {
		t.Errorf("argv = %v, want %v", rec.argv, want)
	}
}

func TestDownloader_SetupSkipAllInstalled(t *testing.T) {
	dir := t.TempDir()
	for _, r := range resource.NLTKResources() {
		mustWrite(t, filepath.Join(dir, filepath.FromSlash(r.Path)+".zip"), "zip")
	}
	out := &bytes.Buffer{}
	fexec := &testingexec.FakeExec{}
	profile, _ := resource.GetProfile(resource.ProfileNLTK)
	d := newTestDownloader(out, fexec, &Options{Python: "python3", SkipInstalled: true, NLTKSearchPaths: []string{dir}})
	if err := d.Setup(context.Background(), profile); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	want := "Downloading NLTK data...\nnltk resources already installed, nothing to download\n"
	if got := out.String(); got != want {
		t.Errorf("Setup() output = %q, want %q", got, want)
	}
}

func TestDownloader_SetupInvalidOptions(t *testing.T) {
	profile, _ := resource.GetProfile(resource.ProfileNLTK)
	d := newTestDownloader(&bytes.Buffer{}, &testingexec.FakeExec{}, &Options{Python: ""})
	if err := d.Setup(context.Background(), profile); !errors.IsErrCode(err, errors.ErrCodeConfigInvalid) {
		t.Errorf("Setup() error = %v, want %s", err, errors.ErrCodeConfigInvalid)
	}
}

func mustWrite(t *testing.T, filename, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
