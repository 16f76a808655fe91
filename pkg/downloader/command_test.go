package downloader

import (
	"reflect"
	"testing"

	"kubegems.io/nlpdata/pkg/resource"
)

func TestBuildCommands(t *testing.T) {
	tests := []struct {
		name    string
		options Options
		step    resource.Step
		want    []Command
	}{
		{
			name:    "nltk defaults",
			options: Options{Python: "python3"},
			step:    resource.NLTKStep(),
			want: []Command{{
				Tool:    resource.ToolNLTK,
				Program: "python3",
				Args:    []string{"-m", "nltk.downloader", "punkt", "stopwords", "averaged_perceptron_tagger", "wordnet"},
			}},
		},
		{
			name:    "nltk quiet with dir",
			options: Options{Python: "python", Quiet: true, NLTKDir: "./nltk_data"},
			step:    resource.NLTKStep(),
			want: []Command{{
				Tool:    resource.ToolNLTK,
				Program: "python",
				Args:    []string{"-m", "nltk.downloader", "-q", "-d", "./nltk_data", "punkt", "stopwords", "averaged_perceptron_tagger", "wordnet"},
			}},
		},
		{
			name:    "spacy ignores nltk options",
			options: Options{Python: "python3", Quiet: true, NLTKDir: "./nltk_data"},
			step:    resource.SpacyStep(),
			want: []Command{{
				Tool:    resource.ToolSpacy,
				Program: "python3",
				Args:    []string{"-m", "spacy", "download", "en_core_web_sm"},
			}},
		},
		{
			name:    "empty step",
			options: Options{Python: "python3"},
			step:    resource.Step{Tool: resource.ToolNLTK},
			want:    nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildCommands(&tt.options, tt.step); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BuildCommands() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: `""`},
		{in: "punkt", want: "punkt"},
		{in: "/usr/share/nltk_data", want: "/usr/share/nltk_data"},
		{in: "my data", want: "'my data'"},
		{in: "it's", want: `'it'\''s'`},
	}
	for _, tt := range tests {
		if got := Quote(tt.in); got != tt.want {
			t.Errorf("Quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
