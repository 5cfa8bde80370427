package normalize

import "testing"

type mapLemmatizer map[string]string

func (m mapLemmatizer) Lemma(word string) string {
	if l, ok := m[word]; ok {
		return l
	}
	return word
}

func TestNormalize(t *testing.T) {
	n := New(mapLemmatizer{"skills": "skill", "apis": "api", "services": "service"})

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"only whitespace", "  \n\t ", ""},
		{"lowercase and stopwords", "The Developer AND the Tester", "developer tester"},
		{"numbers and punctuation", "Python 3.10, Go1.21!", "python go"},
		{"url removed", "portfolio at https://example.com/me, see www.site.org", "portfolio see"},
		{"email removed", "contact john.doe@mail.com today", "contact today"},
		{"lemmatized", "skills in apis and services", "skill api service"},
		{"hyphen joins", "state-of-the-art", "stateoftheart"},
		{"non-breaking space splits", "java spring", "java spring"},
		{"non ascii letters dropped", "café résumé", "caf rsum"},
		{"only symbols", "!@#$%^", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_RejectsUnstableLemmas(t *testing.T) {
	n := New(mapLemmatizer{
		"data":    "the",   // stopword
		"running": "run",   // run is not a fixed point below
		"run":     "ran",
		"cats":    "cat's", // non alphabetic
		"hosts":   "httpd", // url shaped
	})

	got := n.Normalize("data running cats hosts")
	want := "data running cats hosts"
	if got != want {
		t.Errorf("Normalize = %q, want %q", got, want)
	}
}

func TestNormalize_DropsTokensThatBecomeURLs(t *testing.T) {
	n := New(nil)
	got := n.Normalize("h.ttpx server w.wwide")
	if got != "server" {
		t.Errorf("Normalize = %q, want %q", got, "server")
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Developed and implemented REST APIs using Java and Spring Boot",
		"John Smith | john@smith.io | +1 555-123-4567 | linkedin.com/in/jsmith",
		"h.ttpx w.ww.x foo@ bar @baz",
		"EDUCATION: B.Sc. Computer Science (2015-2019); Skills — Go, Kubernetes, CI/CD",
		"The was were being having doing",
		"data running cats hosts",
	}
	lemmatizers := map[string]Lemmatizer{
		"identity": IdentityLemmatizer{},
		"map": mapLemmatizer{
			"apis": "api", "skills": "skill", "running": "run", "run": "ran", "data": "the",
		},
	}

	for name, l := range lemmatizers {
		n := New(l)
		for _, in := range inputs {
			once := n.Normalize(in)
			twice := n.Normalize(once)
			if once != twice {
				t.Errorf("%s: not idempotent for %q: %q -> %q", name, in, once, twice)
			}
		}
	}
}

func TestNormalize_EnglishDictionaryIdempotent(t *testing.T) {
	l, err := NewEnglishLemmatizer()
	if err != nil {
		t.Fatalf("NewEnglishLemmatizer: %v", err)
	}
	n := New(l)

	inputs := []string{
		"Managed teams, designed systems and achieved better outcomes in the studies",
		"Children were running analyses of mice populations and leaves",
		"Worked on geese, indices, matrices, criteria and phenomena",
	}
	for _, in := range inputs {
		once := n.Normalize(in)
		if twice := n.Normalize(once); once != twice {
			t.Errorf("not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func TestIsStopword(t *testing.T) {
	n := New(nil)
	if !n.IsStopword("the") {
		t.Error("expected 'the' to be a stopword")
	}
	if n.IsStopword("java") {
		t.Error("'java' must not be a stopword")
	}
}
