package questions

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"mockmate/internal/models"
)

// Bank holds the static fallback questions per interview type, used when
// the generation service is unreachable.
type Bank map[models.InterviewType][]string

// DefaultBank returns the compiled-in fallback question bank
func DefaultBank() Bank {
	return Bank{
		models.TypeTechnical: {
			"Tell me about yourself and your technical background.",
			"What programming languages are you most comfortable with?",
			"Describe a challenging technical problem you solved recently.",
			"How do you approach debugging complex issues?",
			"What's your experience with version control and collaboration tools?",
		},
		models.TypeBehavioral: {
			"Tell me about a time when you had to work under pressure.",
			"Describe a situation where you had to resolve a conflict with a team member.",
			"Give me an example of a time when you failed and what you learned from it.",
			"Tell me about a time when you had to learn something new quickly.",
			"Describe a situation where you had to persuade others to adopt your idea.",
		},
		models.TypeResume: {
			"Walk me through your resume and highlight your most relevant experience.",
			"Tell me about a specific project mentioned on your resume and your role in it.",
			"What skills listed on your resume are you most proud of?",
			"Can you explain any gaps in your employment history?",
			"How does your educational background relate to this position?",
		},
		models.TypeMixed: {
			"Tell me about yourself.",
			"Why do you want this position?",
			"Describe a challenging problem you solved.",
			"How do you handle tight deadlines?",
			"What are your strengths and weaknesses?",
		},
	}
}

// bankFile is the YAML shape for an external question bank
type bankFile struct {
	Technical  []string `yaml:"technical"`
	Behavioral []string `yaml:"behavioral"`
	Resume     []string `yaml:"resume"`
	Mixed      []string `yaml:"mixed"`
}

// LoadBank reads a YAML question bank and merges it over the compiled-in
// defaults. Types absent from the file keep their default questions. An
// empty path returns the defaults unchanged.
func LoadBank(path string) (Bank, error) {
	bank := DefaultBank()
	if path == "" {
		return bank, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question bank %s: %w", path, err)
	}

	var file bankFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse question bank %s: %w", path, err)
	}

	if len(file.Technical) > 0 {
		bank[models.TypeTechnical] = file.Technical
	}
	if len(file.Behavioral) > 0 {
		bank[models.TypeBehavioral] = file.Behavioral
	}
	if len(file.Resume) > 0 {
		bank[models.TypeResume] = file.Resume
	}
	if len(file.Mixed) > 0 {
		bank[models.TypeMixed] = file.Mixed
	}

	return bank, nil
}

// Fallback returns the static questions for the setup's interview type,
// trimmed to the requested count. Unknown types fall back to the mixed
// bank.
func (b Bank) Fallback(setup *models.InterviewSetup) []string {
	list, ok := b[setup.InterviewType]
	if !ok {
		list = b[models.TypeMixed]
	}

	if len(list) > setup.QuestionCount {
		list = list[:setup.QuestionCount]
	}

	return append([]string(nil), list...)
}
