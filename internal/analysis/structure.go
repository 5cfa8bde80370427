package analysis

import (
	"regexp"
	"strings"
)

const structuralCheckCount = 7

var (
	emailRegex    = regexp.MustCompile(`[\w.+-]+@[\w-]+(?:\.[\w-]+)*`)
	digitRunRegex = regexp.MustCompile(`\d+`)
	wordRegex     = regexp.MustCompile(`[a-z]+`)

	// phoneGroupRegex matches digit fragments joined by phone separators on one line.
	phoneGroupRegex = regexp.MustCompile(`\d+(?:[ \t()-]+\d+)*`)
)

const (
	phoneMinDigits = 10
	phoneMaxDigits = 12
)

const networkDomain = "linkedin.com"

var (
	educationMarkers  = []string{"education", "academic", "qualification"}
	experienceMarkers = []string{"experience", "work history", "employment"}
	skillsMarkers     = []string{"skills", "technologies", "competencies", "expertise"}
	projectsMarkers   = []string{"projects", "initiatives"}
)

// actionVerbs is the strong-verb vocabulary, matched as whole words.
var actionVerbs = []string{
	"developed", "designed", "implemented", "managed", "led", "created", "achieved",
	"improved", "increased", "resolved", "collaborated", "orchestrated", "engineered", "optimized",
	"built", "launched", "delivered", "automated", "reduced", "streamlined",
	"architected", "mentored", "spearheaded", "initiated", "analyzed", "established",
	"coordinated", "negotiated", "deployed", "migrated",
}

// StructuralChecks holds the presence checks of one résumé.
type StructuralChecks struct {
	Email      bool
	Phone      bool
	Network    bool
	Education  bool
	Experience bool
	Skills     bool
	Projects   bool

	// ActionVerbs is the number of distinct action verbs present.
	ActionVerbs int
	// PresenceScore is the share of passed presence checks, 0-100.
	PresenceScore float64
	// ImpactScore is the saturating action-verb score, 0-100.
	ImpactScore float64
}

// Passed returns the number of presence checks that hold.
func (c StructuralChecks) Passed() int {
	n := 0
	for _, ok := range []bool{c.Email, c.Phone, c.Network, c.Education, c.Experience, c.Skills, c.Projects} {
		if ok {
			n++
		}
	}
	return n
}

// Structure checks contact details, section headings and action verbs.
// It expects raw text: cleaned text has lost the contact signals.
func (a *Analyzer) Structure(raw string) StructuralChecks {
	text := strings.ToLower(raw)

	c := StructuralChecks{
		Email:      emailRegex.MatchString(text),
		Phone:      hasPhone(text),
		Network:    strings.Contains(text, networkDomain),
		Education:  containsAny(text, educationMarkers),
		Experience: containsAny(text, experienceMarkers),
		Skills:     containsAny(text, skillsMarkers),
		Projects:   containsAny(text, projectsMarkers),
	}
	c.ActionVerbs = countActionVerbs(text)
	c.PresenceScore = float64(c.Passed()) / structuralCheckCount * 100
	c.ImpactScore = float64(min(c.ActionVerbs*a.cfg.VerbPoints, a.cfg.VerbCap))
	return c
}

// hasPhone looks for 10 digits, optionally preceded by a one or two digit
// country code, spread over consecutive fragments of a separator-joined group.
// Neighbouring numbers such as dates do not hide the phone.
func hasPhone(text string) bool {
	for _, group := range phoneGroupRegex.FindAllString(text, -1) {
		fragments := digitRunRegex.FindAllString(group, -1)
		for i := range fragments {
			n := 0
			for _, f := range fragments[i:] {
				n += len(f)
				if n >= phoneMinDigits {
					break
				}
			}
			if n >= phoneMinDigits && n <= phoneMaxDigits {
				return true
			}
		}
	}
	return false
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

func countActionVerbs(text string) int {
	words := make(map[string]struct{})
	for _, w := range wordRegex.FindAllString(text, -1) {
		words[w] = struct{}{}
	}
	n := 0
	for _, v := range actionVerbs {
		if _, ok := words[v]; ok {
			n++
		}
	}
	return n
}
