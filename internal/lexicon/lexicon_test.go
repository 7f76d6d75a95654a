package lexicon_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takshd15/elite-signup/internal/lexicon"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoad_EmptyDirUsesDefaults(t *testing.T) {
	t.Parallel()
	lex := lexicon.Load(t.TempDir())

	assert.NotEmpty(t, lex.Skills)
	assert.NotEmpty(t, lex.ToolKeywords)
	assert.NotEmpty(t, lex.Stopwords)
	assert.NotEmpty(t, lex.Buckets)
	require.NotEmpty(t, lex.Archetypes)
	assert.Equal(t, "general", lex.Archetypes[0].Name)
}

func TestLoad_MissingDirUsesDefaults(t *testing.T) {
	t.Parallel()
	lex := lexicon.Load("/nonexistent/lexicon/dir")
	require.NotEmpty(t, lex.Archetypes)
	assert.NotEmpty(t, lex.SeniorityCues)
}

func TestLoad_FileOverrides(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "skills.txt", "# comment line\nKotlin\n\nElixir\n")
	writeFile(t, dir, "seniority_cues.txt", "architect : 9\nbad line\nfellow : 11\nnoise : x\n")
	writeFile(t, dir, "archetypes.txt", "backend_dev: Builds APIs and services\nno-colon-line-is-skipped\n")
	writeFile(t, dir, "proficiency_terms.txt", "guru:3\ncompetent:2\nnovice:1\nout_of_range:7\n")

	lex := lexicon.Load(dir)

	assert.Contains(t, lex.Skills, "kotlin")
	assert.Contains(t, lex.Skills, "elixir")
	assert.Len(t, lex.Skills, 2)

	require.Len(t, lex.SeniorityCues, 2)
	assert.Equal(t, lexicon.Cue{Term: "architect", Bonus: 9}, lex.SeniorityCues[0])
	assert.Equal(t, lexicon.Cue{Term: "fellow", Bonus: 11}, lex.SeniorityCues[1])

	require.Len(t, lex.Archetypes, 1)
	assert.Equal(t, "backend_dev", lex.Archetypes[0].Name)
	assert.Equal(t, "Builds APIs and services", lex.Archetypes[0].Description)

	assert.Equal(t, []string{"guru"}, lex.ProfTerms[3])
	assert.Equal(t, []string{"competent"}, lex.ProfTerms[2])
	assert.Equal(t, []string{"novice"}, lex.ProfTerms[1])
}

func TestLoad_Buckets(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	bdir := filepath.Join(dir, "buckets")
	require.NoError(t, os.Mkdir(bdir, 0o750))
	writeFile(t, bdir, "frontend.txt", "React\nVue\n")
	writeFile(t, bdir, "backend.txt", "Go\nPostgres\n")
	writeFile(t, bdir, "empty.txt", "# nothing here\n")
	writeFile(t, bdir, "ignored.csv", "not,a,bucket\n")

	lex := lexicon.Load(dir)

	require.Len(t, lex.Buckets, 2)
	assert.Equal(t, "backend", lex.Buckets[0].Name)
	assert.Equal(t, "frontend", lex.Buckets[1].Name)
	assert.True(t, lex.InBucketUnion("react"))
	assert.True(t, lex.InBucketUnion("postgres"))
	assert.False(t, lex.InBucketUnion("cobol"))
}

func TestArchetypeAccessors(t *testing.T) {
	t.Parallel()
	lex := lexicon.Load(t.TempDir())
	names := lex.ArchetypeNames()
	descs := lex.ArchetypeDescriptions()
	require.Equal(t, len(names), len(descs))
	assert.Equal(t, "general", names[0])
	assert.NotEmpty(t, descs[0])
}
