package explain

import (
	"strings"

	"github.com/takshd15/elite-signup/internal/domain"
)

// leadershipCues is the fixed ownership-signal set shared by the highlight
// and note rules.
var leadershipCues = []string{"led", "leader", "leadership", "organized", "coordinated", "managed", "owner", "owned"}

// rule pairs a predicate over the gathered evidence with a canned message.
// Catalogs are evaluated top to bottom; order is part of the contract.
type rule struct {
	when func(*evidence) bool
	msg  string
}

var strengthRules = []rule{
	{func(e *evidence) bool { return e.hasAnySkill("python", "java", "c++", "c#", "javascript", "sql") },
		"Solid programming foundation is evident."},
	{func(e *evidence) bool {
		return e.hasAnySkill("analytics", "statistics", "modeling", "excel", "data analysis", "pandas", "numpy")
	}, "Strong analytical/data skills are demonstrated."},
	{func(e *evidence) bool {
		return e.hasAnySkill("solidworks", "cad", "mechanical", "electrical", "autocad")
	},
		"Hands-on CAD/engineering design experience."},
	{func(e *evidence) bool { return e.containsAny(leadershipCues...) },
		"Clear leadership/ownership experience."},
	{func(e *evidence) bool {
		return e.containsAny("teaching", "mentoring", "tutoring", "lecturer") || e.hasWord("ta")
	}, "Experience mentoring/teaching others."},
	{func(e *evidence) bool {
		return e.containsAny("published", "peer-reviewed", "in press", "conference abstract", "patent")
	}, "Publication/patent or knowledge-sharing track record."},
	{func(e *evidence) bool {
		return e.containsAny("presented", "conference", "symposium", "workshop", "talk")
	},
		"Public speaking/presentation exposure."},
	{func(e *evidence) bool { return e.containsAny("github", "gitlab", "bitbucket") },
		"Evidence of code sharing or open-source involvement."},
	{func(e *evidence) bool { return e.toolHits >= 1 },
		"Good familiarity with process/tooling keywords."},
	{func(e *evidence) bool { return e.comps.Education >= 70 },
		"Strong academic credentials."},
	{func(e *evidence) bool { return e.years >= 3 },
		"Meaningful professional experience (3+ years)."},
	{func(e *evidence) bool { return len(e.skills) >= 12 },
		"Broad skill coverage across multiple areas."},
	{func(e *evidence) bool { return e.comps.AISignal >= 70 },
		"Profile aligns well with target role archetypes."},
	{func(e *evidence) bool { return e.certs >= 1 },
		"Relevant professional certifications add credibility."},
	{func(e *evidence) bool { return e.hasGPA && e.gpa >= 3.7 },
		"High GPA indicates strong academic performance."},
	{func(e *evidence) bool { return e.lastYear > 0 && e.nowYear-e.lastYear <= 2 },
		"Recent, up-to-date experience."},
	{func(e *evidence) bool { return e.bullets >= 10 },
		"Well-structured resume with clear bulleting."},
	{func(e *evidence) bool { return e.comps.Skills >= 70 },
		"Skills mix indicates both breadth and depth."},
}

var weaknessRules = []rule{
	{func(e *evidence) bool { return e.years < 1.0 },
		"Limited professional experience (<1 year)."},
	{func(e *evidence) bool { return len(e.skills) < 5 },
		"Narrow skills list - consider broadening toolset."},
	{func(e *evidence) bool { return e.metrics == 0 },
		"Few quantified outcomes - add metrics (%, $, time saved)."},
	{func(e *evidence) bool { return !e.containsAny("github", "portfolio", "personal website", "linkedin") },
		"No work links (GitHub/portfolio/LinkedIn) included."},
	{func(e *evidence) bool { return strings.TrimSpace(e.degreeText) == "" },
		"Education details are minimal or unclear."},
	{func(e *evidence) bool { return !e.containsAny(leadershipCues...) },
		"No explicit leadership examples."},
	{func(e *evidence) bool { return !e.containsAny("team", "collaborat", "cross-functional", "stakeholder") },
		"Teamwork/collaboration not highlighted."},
	{func(e *evidence) bool {
		return !e.containsAny("shipped", "deployed", "released", "production", "launched")
	},
		"Production delivery not emphasized."},
	{func(e *evidence) bool {
		return !e.containsAny("test", "qa", "pytest", "junit", "verification", "validation")
	},
		"Testing/QA practices not visible."},
	{func(e *evidence) bool { return e.toolHits < 3 },
		"Process/tooling keywords are light - add relevant methods/tools."},
	{func(e *evidence) bool { return len(e.txt) < 800 },
		"Resume may be too brief - add scope, context, and impact."},
	{func(e *evidence) bool { return len(e.txt) > 8000 },
		"Resume may be overly long - tighten to key wins and scope."},
	{func(e *evidence) bool { return len(e.skills) == 0 },
		"Skills section is sparse or missing."},
	{func(e *evidence) bool { return e.email == "" && e.phone == "" },
		"Contact info (email/phone) is missing."},
	{func(e *evidence) bool {
		return !e.containsAny("docker", "kubernetes", "ci", "cd", "pipeline", "terraform")
	},
		"DevOps/CI-CD exposure appears limited."},
	{func(e *evidence) bool { return !e.containsAny("mentor", "mentoring", "tutor", "coached", "supervised") },
		"Mentoring/coaching not demonstrated."},
	{func(e *evidence) bool {
		return !e.containsAny("publication", "published", "peer-review", "conference", "patent")
	},
		"Publications or knowledge sharing are not highlighted."},
	{func(e *evidence) bool {
		return !e.containsAny("healthcare", "finance", "retail", "manufacturing", "energy", "telecom", "domain", "industry")
	}, "Domain focus is unclear - specify industries/projects."},
	{func(e *evidence) bool { return e.containsAny("responsible for") },
		"Language is passive - rephrase with strong action verbs."},
	{func(e *evidence) bool { return e.bucketCoverage < 3 },
		"Skills coverage spans few categories - broaden for balance."},
	{func(e *evidence) bool { return e.hasGPA && e.gpa < 3.0 },
		"GPA appears low - offset with strong projects and outcomes."},
}

// Fallback pools pad sparse inputs to exactly three notes per polarity.
var fallbackStrengths = []string{
	"Evidence of continuous learning and upskilling.",
	"Clear problem-solving orientation is visible.",
	"Good mix of theory and practical application.",
	"Communication artifacts (talks/docs) strengthen the profile.",
	"Ability to work across disciplines and contexts.",
}

var fallbackWeaknesses = []string{
	"Tailor the summary to the specific role and company.",
	"Add more concrete outcomes for major projects.",
	"Clarify your role and scope within each project.",
	"Include the most relevant tools/technologies for the target role.",
	"Tighten wording and remove repetition.",
}

// selectNotes folds the catalogs into exactly three deduplicated strengths
// and three weaknesses, padding from the fallback pools when rules are quiet.
func selectNotes(e *evidence) domain.Notes {
	return domain.Notes{
		Strengths:  padToThree(collect(strengthRules, e), fallbackStrengths),
		Weaknesses: padToThree(collect(weaknessRules, e), fallbackWeaknesses),
	}
}

func collect(rules []rule, e *evidence) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, r := range rules {
		if len(out) == 3 {
			break
		}
		if !r.when(e) {
			continue
		}
		if _, dup := seen[r.msg]; dup {
			continue
		}
		seen[r.msg] = struct{}{}
		out = append(out, r.msg)
	}
	return out
}

func padToThree(msgs []string, pool []string) []string {
	for _, candidate := range pool {
		if len(msgs) == 3 {
			break
		}
		dup := false
		for _, m := range msgs {
			if m == candidate {
				dup = true
				break
			}
		}
		if !dup {
			msgs = append(msgs, candidate)
		}
	}
	return msgs
}
