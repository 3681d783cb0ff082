package agent

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Persona defines who the agent pretends to be: demographics, speech
// habits, and the words that must never appear in a reply because they
// would expose the operation.
type Persona struct {
	Name           string   `yaml:"name"`
	AgeRange       string   `yaml:"age_range"`
	Occupation     string   `yaml:"occupation"`
	TechLevel      string   `yaml:"tech_level"`
	Tone           string   `yaml:"tone"`
	Vocabulary     []string `yaml:"vocabulary"`
	ForbiddenWords []string `yaml:"forbidden_words"`
}

// Built-in personas. A YAML override file can replace or extend these.
var builtinPersonas = map[string]Persona{
	"default": {
		Name:       "Default User",
		AgeRange:   "40-55",
		Occupation: "small business owner",
		TechLevel:  "low",
		Tone:       "worried and confused",
		Vocabulary: []string{
			"sir", "madam", "please help", "I don't understand",
			"what should I do", "is this real", "I'm worried",
			"my hard-earned money", "please guide me",
		},
		ForbiddenWords: []string{
			"scam", "fraud", "police", "cyber crime", "fake",
			"AI", "bot", "honeypot", "trap", "recording",
			"suspicious", "report", "block you",
		},
	},
	"elderly": {
		Name:       "Elderly User",
		AgeRange:   "60-70",
		Occupation: "retired",
		TechLevel:  "low",
		Tone:       "very worried and naive",
		Vocabulary: []string{
			"beta", "please help me", "I don't know computers",
			"my pension money", "what is happening",
			"I am very scared", "please don't do anything",
		},
		ForbiddenWords: []string{
			"scam", "fraud", "police", "cyber crime", "fake",
			"AI", "bot", "honeypot", "trap", "recording",
		},
	},
}

// LoadPersonas reads a YAML file mapping persona names to definitions and
// merges it over the built-ins. Entries in the file win on name collision.
func LoadPersonas(path string) (map[string]Persona, error) {
	merged := make(map[string]Persona, len(builtinPersonas))
	for name, p := range builtinPersonas {
		merged[name] = p
	}

	if path == "" {
		return merged, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return merged, fmt.Errorf("read persona file: %w", err)
	}

	var fromFile map[string]Persona
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return merged, fmt.Errorf("parse persona file: %w", err)
	}

	for name, p := range fromFile {
		if len(p.ForbiddenWords) == 0 {
			// An override without a blocklist inherits the default one;
			// a persona with no forbidden words cannot be validated.
			p.ForbiddenWords = builtinPersonas["default"].ForbiddenWords
		}
		merged[strings.ToLower(name)] = p
	}

	return merged, nil
}

// GetPersona returns the named persona, falling back to "default".
func GetPersona(personas map[string]Persona, name string) Persona {
	if p, ok := personas[strings.ToLower(name)]; ok {
		return p
	}
	return builtinPersonas["default"]
}

// SystemPrompt builds the LLM system prompt that constrains phrasing to
// the persona. The LLM is only allowed to rephrase the chosen intent.
func SystemPrompt(p Persona) string {
	forbidden := strings.Join(p.ForbiddenWords, ", ")
	vocab := p.Vocabulary
	if len(vocab) > 5 {
		vocab = vocab[:5]
	}

	return fmt.Sprintf(`You are a %s year old %s in India.
You are %s.
Your tech knowledge is %s.

STRICT RULES:
1. NEVER use these words: %s
2. Use simple language, phrases like: %s
3. Ask only ONE question per response
4. Keep response under 25 words
5. Sound genuinely worried, not suspicious
6. Never threaten or challenge the caller
7. Do not mention police, authorities, or reporting

You are just a normal person trying to understand what is happening.`,
		p.AgeRange, p.Occupation, p.Tone, p.TechLevel,
		forbidden, strings.Join(vocab, ", "))
}

// ValidateReply reports whether a phrased reply is safe to send, i.e. it
// contains none of the persona's forbidden words. Case-insensitive.
func ValidateReply(reply string, p Persona) bool {
	lower := strings.ToLower(reply)
	for _, w := range p.ForbiddenWords {
		if strings.Contains(lower, strings.ToLower(w)) {
			return false
		}
	}
	return true
}
