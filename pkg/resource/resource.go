package resource

import (
	"kubegems.io/nlpdata/pkg/errors"
)

type Tool string

const (
	ToolNLTK  Tool = "nltk"
	ToolSpacy Tool = "spacy"
)

type Kind string

const (
	KindTokenizer  Kind = "tokenizer"
	KindStopwords  Kind = "stopwords"
	KindTagger     Kind = "tagger"
	KindLemmatizer Kind = "lemmatizer"
	KindPipeline   Kind = "pipeline"
)

// Resource is an identifier understood by one downloader tool.
type Resource struct {
	Tool Tool   `json:"tool"`
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
	// Path is the location under an NLTK data directory, empty for spaCy models.
	Path string `json:"path,omitempty"`
}

type Step struct {
	Tool      Tool       `json:"tool"`
	Message   string     `json:"message"`
	Resources []Resource `json:"resources"`
}

func (s Step) Names() []string {
	names := make([]string, 0, len(s.Resources))
	for _, r := range s.Resources {
		names = append(names, r.Name)
	}
	return names
}

type Profile struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Steps       []Step `json:"steps"`
}

func (p Profile) Resources() []Resource {
	var all []Resource
	for _, step := range p.Steps {
		all = append(all, step.Resources...)
	}
	return all
}

const (
	ProfileNLTK = "nltk"
	ProfileFull = "full"

	DefaultProfile = ProfileFull
)

const (
	MessageNLTK  = "Downloading NLTK data..."
	MessageSpacy = "Downloading spaCy model..."
)

var nltkResources = []Resource{
	{Tool: ToolNLTK, Name: "punkt", Kind: KindTokenizer, Path: "tokenizers/punkt"},
	{Tool: ToolNLTK, Name: "stopwords", Kind: KindStopwords, Path: "corpora/stopwords"},
	{Tool: ToolNLTK, Name: "averaged_perceptron_tagger", Kind: KindTagger, Path: "taggers/averaged_perceptron_tagger"},
	{Tool: ToolNLTK, Name: "wordnet", Kind: KindLemmatizer, Path: "corpora/wordnet"},
}

var spacyModels = []Resource{
	{Tool: ToolSpacy, Name: "en_core_web_sm", Kind: KindPipeline},
}

func NLTKResources() []Resource {
	return append([]Resource(nil), nltkResources...)
}

func SpacyModels() []Resource {
	return append([]Resource(nil), spacyModels...)
}

func NLTKStep() Step {
	return Step{Tool: ToolNLTK, Message: MessageNLTK, Resources: NLTKResources()}
}

func SpacyStep() Step {
	return Step{Tool: ToolSpacy, Message: MessageSpacy, Resources: SpacyModels()}
}

func Profiles() []Profile {
	return []Profile{
		{
			Name:        ProfileNLTK,
			Description: "NLTK tokenizer, stopwords, tagger and wordnet",
			Steps:       []Step{NLTKStep()},
		},
		{
			Name:        ProfileFull,
			Description: "NLTK data followed by the spaCy en_core_web_sm model",
			Steps:       []Step{NLTKStep(), SpacyStep()},
		},
	}
}

func GetProfile(name string) (Profile, error) {
	if name == "" {
		name = DefaultProfile
	}
	for _, p := range Profiles() {
		if p.Name == name {
			return p, nil
		}
	}
	return Profile{}, errors.NewProfileUnknownError(name)
}

func ProfileNames() []string {
	profiles := Profiles()
	names := make([]string, 0, len(profiles))
	for _, p := range profiles {
		names = append(names, p.Name)
	}
	return names
}
