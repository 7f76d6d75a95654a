// Package lexicon loads the overridable keyword sets, cue maps, and skill
// buckets that drive the heuristic scorers.
//
// Every named file under the data directory holds one term or phrase per
// line; lines starting with '#' and blank lines are ignored. Mapping files
// use "key : integer" lines. A buckets/ subdirectory holds one file per
// bucket, named by file stem. A missing directory or file is never an error:
// the built-in default for that lexicon is used instead.
package lexicon

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Cue pairs a keyword with its additive score bonus.
type Cue struct {
	Term  string
	Bonus int
}

// Archetype is a named role description used for similarity ranking.
type Archetype struct {
	Name        string
	Description string
}

// Bucket is a named group of related skill terms.
type Bucket struct {
	Name  string
	Terms map[string]struct{}
}

// Lexicon is the process-wide, read-only keyword store. All terms are
// lower-cased at load time. Slices are kept in a fixed order so that scoring
// and explanation output is deterministic.
type Lexicon struct {
	Skills        map[string]struct{}
	ToolKeywords  []string
	STEMTerms     []string
	Stopwords     map[string]struct{}
	CertKeywords  []string
	SeniorityCues []Cue
	StrongSkills  map[string]struct{}
	// ProfTerms maps proficiency tier (1..3) to its cue terms.
	ProfTerms  map[int][]string
	Archetypes []Archetype
	Buckets    []Bucket

	bucketUnion map[string]struct{}
}

// Load reads every lexicon from dir, substituting built-in defaults for
// absent or empty files. It never fails on missing inputs.
func Load(dir string) *Lexicon {
	lex := &Lexicon{
		Skills:        loadSetOr(filepath.Join(dir, "skills.txt"), defaultSkills()),
		ToolKeywords:  loadSliceOr(filepath.Join(dir, "tooling_keywords.txt"), defaultToolKeywords()),
		STEMTerms:     loadSliceOr(filepath.Join(dir, "stem_terms.txt"), defaultSTEMTerms()),
		Stopwords:     loadSetOr(filepath.Join(dir, "stopwords.txt"), defaultStopwords()),
		CertKeywords:  loadSliceOr(filepath.Join(dir, "cert_keywords.txt"), defaultCertKeywords()),
		SeniorityCues: loadCuesOr(filepath.Join(dir, "seniority_cues.txt"), defaultSeniorityCues()),
		StrongSkills:  loadSetOr(filepath.Join(dir, "strong_skills.txt"), defaultStrongSkills()),
		ProfTerms:     loadProfTermsOr(filepath.Join(dir, "proficiency_terms.txt"), defaultProfTerms()),
		Archetypes:    loadArchetypesOr(filepath.Join(dir, "archetypes.txt"), defaultArchetypes()),
		Buckets:       loadBucketsOr(filepath.Join(dir, "buckets"), defaultBuckets()),
	}
	lex.bucketUnion = make(map[string]struct{})
	for _, b := range lex.Buckets {
		for term := range b.Terms {
			lex.bucketUnion[term] = struct{}{}
		}
	}
	return lex
}

// InBucketUnion reports whether term belongs to any bucket.
func (l *Lexicon) InBucketUnion(term string) bool {
	_, ok := l.bucketUnion[term]
	return ok
}

// ArchetypeNames returns the archetype names in catalog order.
func (l *Lexicon) ArchetypeNames() []string {
	names := make([]string, len(l.Archetypes))
	for i, a := range l.Archetypes {
		names[i] = a.Name
	}
	return names
}

// ArchetypeDescriptions returns the descriptions in catalog order.
func (l *Lexicon) ArchetypeDescriptions() []string {
	descs := make([]string, len(l.Archetypes))
	for i, a := range l.Archetypes {
		descs[i] = a.Description
	}
	return descs
}

// readLines returns the trimmed, non-blank, non-comment lines of path, or nil
// if the file cannot be read.
func readLines(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var out []string
	for _, ln := range strings.Split(string(data), "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" || strings.HasPrefix(ln, "#") {
			continue
		}
		out = append(out, ln)
	}
	return out
}

func loadSetOr(path string, def map[string]struct{}) map[string]struct{} {
	lines := readLines(path)
	if len(lines) == 0 {
		return def
	}
	out := make(map[string]struct{}, len(lines))
	for _, ln := range lines {
		out[strings.ToLower(ln)] = struct{}{}
	}
	return out
}

func loadSliceOr(path string, def []string) []string {
	lines := readLines(path)
	if len(lines) == 0 {
		return def
	}
	out := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, ln := range lines {
		t := strings.ToLower(ln)
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func loadCuesOr(path string, def []Cue) []Cue {
	lines := readLines(path)
	var out []Cue
	for _, ln := range lines {
		k, v, ok := strings.Cut(ln, ":")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			continue
		}
		out = append(out, Cue{Term: strings.ToLower(strings.TrimSpace(k)), Bonus: n})
	}
	if len(out) == 0 {
		return def
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Term < out[j].Term })
	return out
}

func loadProfTermsOr(path string, def map[int][]string) map[int][]string {
	lines := readLines(path)
	out := map[int][]string{1: nil, 2: nil, 3: nil}
	loaded := false
	for _, ln := range lines {
		term, lvl, ok := strings.Cut(ln, ":")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(lvl))
		if err != nil || n < 1 || n > 3 {
			continue
		}
		out[n] = append(out[n], strings.ToLower(strings.TrimSpace(term)))
		loaded = true
	}
	if !loaded {
		return def
	}
	for n := range out {
		sort.Strings(out[n])
	}
	return out
}

func loadArchetypesOr(path string, def []Archetype) []Archetype {
	lines := readLines(path)
	var out []Archetype
	for _, ln := range lines {
		name, desc, ok := strings.Cut(ln, ":")
		if !ok {
			continue
		}
		out = append(out, Archetype{Name: strings.TrimSpace(name), Description: strings.TrimSpace(desc)})
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func loadBucketsOr(dir string, def []Bucket) []Bucket {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return def
	}
	var out []Bucket
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		terms := loadSetOr(filepath.Join(dir, e.Name()), nil)
		if len(terms) == 0 {
			continue
		}
		name := strings.ToLower(strings.TrimSuffix(e.Name(), ".txt"))
		out = append(out, Bucket{Name: name, Terms: terms})
	}
	if len(out) == 0 {
		return def
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
