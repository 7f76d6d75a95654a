package lexicon

// Built-in defaults used whenever the corresponding file under the data
// directory is absent or empty. Every term is lower-case by construction.

func defaultStopwords() map[string]struct{} {
	return toSet([]string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "while", "of", "to", "in", "on", "at", "by", "with", "from",
		"is", "are", "was", "were", "be", "been", "being", "as", "that", "this", "these", "those", "it", "its", "i", "we", "you", "they",
		"he", "she", "him", "her", "them", "our", "your", "their", "my", "me", "us", "do", "did", "done", "does", "have", "has", "had",
		"will", "would", "can", "could", "may", "might", "must", "should",
	})
}

func defaultCertKeywords() []string {
	return []string{
		"aws certified", "aws developer", "aws solutions architect", "azure fundamentals", "ccna", "ccnp",
		"cspo", "gcp professional", "itil", "network+", "pmp", "scrum master", "security+",
	}
}

func defaultSeniorityCues() []Cue {
	return []Cue{
		{"director", 8}, {"head", 6}, {"lead", 7}, {"manager", 6},
		{"principal", 10}, {"senior", 7}, {"staff", 8}, {"vp", 10},
	}
}

func defaultStrongSkills() map[string]struct{} {
	return toSet([]string{
		"python", "java", "c++", "c#", "javascript", "sql", "solidworks",
		"analytics", "biology", "chemistry", "physics", "modeling", "research",
	})
}

func defaultProfTerms() map[int][]string {
	return map[int][]string{
		3: {"advanced", "expert", "proficient", "strong"},
		2: {"intermediate", "working knowledge"},
		1: {"basic", "beginner", "familiar"},
	}
}

func defaultSkills() map[string]struct{} {
	return toSet([]string{
		"python", "java", "c", "c++", "c#", "javascript", "typescript", "go", "rust", "r", "sql", "scala",
		"html", "css", "node.js", "react", "vue", "angular", "django", "flask", "fastapi", "spring",
		"docker", "kubernetes", "terraform", "jenkins", "git", "linux", "bash",
		"aws", "azure", "gcp", "postgres", "mysql", "mongodb", "redis", "kafka",
		"pandas", "numpy", "scikit-learn", "tensorflow", "pytorch", "spark", "excel", "tableau",
		"machine learning", "deep learning", "data analysis", "statistics", "analytics", "modeling",
		"solidworks", "autocad", "matlab", "cad",
	})
}

func defaultToolKeywords() []string {
	return []string{
		"agile", "ci/cd", "code review", "docker", "git", "jira", "kanban",
		"kubernetes", "linux", "pipeline", "scrum", "terraform", "unit testing", "version control",
	}
}

func defaultSTEMTerms() []string {
	return []string{
		"aerospace", "astronomy", "biochemistry", "bioinformatics", "biology", "chemical", "chemistry",
		"civil", "computer science", "data science", "electrical", "engineering", "genetics", "geology",
		"materials", "math", "mathematics", "mechanical", "neuroscience", "physics", "statistics",
	}
}

func defaultArchetypes() []Archetype {
	return []Archetype{
		{"general", "Well-rounded candidate with education, experience, and relevant skills."},
		{"software_engineer", "Builds and ships software systems; programming, code review, testing, debugging, version control, production deployment."},
		{"data_scientist", "Analyzes data and builds statistical or machine learning models; python, statistics, modeling, experimentation, visualization."},
		{"research_scientist", "Conducts original research; publications, laboratory methods, experiment design, peer review, scientific writing."},
		{"product_operator", "Coordinates teams and delivery; planning, stakeholder communication, roadmaps, metrics, cross-functional leadership."},
		{"hardware_engineer", "Designs physical systems and components; cad, prototyping, testing, manufacturing processes, quality standards."},
	}
}

func defaultBuckets() []Bucket {
	return []Bucket{
		{"cad_eng", toSet([]string{"solidworks", "cad", "engineering", "electrical", "mechanical", "autocad"})},
		{"cloud", toSet([]string{"aws", "azure", "gcp", "cloud"})},
		{"data", toSet([]string{"analytics", "statistics", "excel", "pandas", "numpy", "scikit-learn", "tensorflow", "pytorch", "modeling", "data analysis"})},
		{"devops", toSet([]string{"docker", "kubernetes", "terraform", "ci", "cd", "pipeline", "github actions", "jenkins"})},
		{"language", toSet([]string{"spanish", "french", "german", "mandarin"})},
		{"programming", toSet([]string{"python", "java", "c", "c++", "c#", "javascript", "typescript", "go", "rust", "r", "sql", "scala"})},
		{"science", toSet([]string{"biology", "chemistry", "physics", "geochemistry", "petrology", "earth", "ocean"})},
		{"teaching", toSet([]string{"teaching", "mentoring", "tutoring", "lecturer", "ta"})},
		{"web", toSet([]string{"node.js", "react", "vue", "angular", "next.js", "django", "flask", "fastapi"})},
	}
}

func toSet(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, it := range items {
		out[it] = struct{}{}
	}
	return out
}
