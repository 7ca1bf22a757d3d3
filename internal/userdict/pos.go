package userdict

import "fmt"

// WordType selects one row of the part-of-speech reference table.
type WordType string

// Word types supported by the user dictionary.
const (
	WordTypeProperNoun WordType = "PROPER_NOUN"
	WordTypeCommonNoun WordType = "COMMON_NOUN"
	WordTypeVerb       WordType = "VERB"
	WordTypeAdjective  WordType = "ADJECTIVE"
	WordTypeSuffix     WordType = "SUFFIX"
)

// Priority bounds for user dictionary words.
const (
	MinPriority     = 0
	MaxPriority     = 10
	DefaultPriority = 5
)

// priorityLevels is the number of selectable priorities, and therefore the
// length of each cost-candidate ladder.
const priorityLevels = MaxPriority - MinPriority + 1

// PartOfSpeechDetail is one row of the static part-of-speech reference table:
// the feature quadruple the analyzer's source schema uses, the analyzer's
// context id for that class, the cost ladder indexed by priority, and the
// accent-associative rules the class permits.
type PartOfSpeechDetail struct {
	PartOfSpeech           string
	PartOfSpeechDetail1    string
	PartOfSpeechDetail2    string
	PartOfSpeechDetail3    string
	ContextID              int
	CostCandidates         [priorityLevels]int
	AccentAssociativeRules []string
}

// partOfSpeechData is loaded once and never mutated. The cost ladders come
// from corpus statistics of the analyzer's bundled lexicon; each is ascending
// so that a higher priority selects a lower cost.
var partOfSpeechData = map[WordType]PartOfSpeechDetail{
	WordTypeProperNoun: {
		PartOfSpeech:           "名詞",
		PartOfSpeechDetail1:    "固有名詞",
		PartOfSpeechDetail2:    "一般",
		PartOfSpeechDetail3:    "*",
		ContextID:              1348,
		CostCandidates:         [priorityLevels]int{-988, 3488, 4768, 6048, 7328, 8609, 8734, 8859, 8984, 9109, 14176},
		AccentAssociativeRules: []string{"*", "C1", "C2", "C3", "C4", "C5"},
	},
	WordTypeCommonNoun: {
		PartOfSpeech:           "名詞",
		PartOfSpeechDetail1:    "一般",
		PartOfSpeechDetail2:    "*",
		PartOfSpeechDetail3:    "*",
		ContextID:              1345,
		CostCandidates:         [priorityLevels]int{-4445, 49, 1473, 2897, 4321, 5746, 6554, 7362, 8170, 8979, 15001},
		AccentAssociativeRules: []string{"*", "C1", "C2", "C3", "C4", "C5"},
	},
	WordTypeVerb: {
		PartOfSpeech:           "動詞",
		PartOfSpeechDetail1:    "自立",
		PartOfSpeechDetail2:    "*",
		PartOfSpeechDetail3:    "*",
		ContextID:              642,
		CostCandidates:         [priorityLevels]int{3100, 6160, 6360, 6560, 6760, 6960, 7023, 7084, 7146, 7208, 13502},
		AccentAssociativeRules: []string{"*"},
	},
	WordTypeAdjective: {
		PartOfSpeech:           "形容詞",
		PartOfSpeechDetail1:    "自立",
		PartOfSpeechDetail2:    "*",
		PartOfSpeechDetail3:    "*",
		ContextID:              19,
		CostCandidates:         [priorityLevels]int{1527, 3266, 3561, 3857, 4152, 4445, 5473, 6501, 7530, 8558, 10029},
		AccentAssociativeRules: []string{"*"},
	},
	WordTypeSuffix: {
		PartOfSpeech:           "名詞",
		PartOfSpeechDetail1:    "接尾",
		PartOfSpeechDetail2:    "一般",
		PartOfSpeechDetail3:    "*",
		ContextID:              1358,
		CostCandidates:         [priorityLevels]int{4399, 5373, 6041, 6710, 7378, 8047, 9440, 10834, 12228, 13622, 15847},
		AccentAssociativeRules: []string{"*", "C1", "C2", "C3", "C4", "C5"},
	},
}

// posQuadruple keys the reference table by the feature quadruple so record
// validation is a single lookup.
type posQuadruple struct {
	partOfSpeech string
	detail1      string
	detail2      string
	detail3      string
}

var (
	posByQuadruple = make(map[posQuadruple]PartOfSpeechDetail, len(partOfSpeechData))
	posByContextID = make(map[int]PartOfSpeechDetail, len(partOfSpeechData))
)

func init() {
	for _, detail := range partOfSpeechData {
		key := posQuadruple{
			partOfSpeech: detail.PartOfSpeech,
			detail1:      detail.PartOfSpeechDetail1,
			detail2:      detail.PartOfSpeechDetail2,
			detail3:      detail.PartOfSpeechDetail3,
		}
		posByQuadruple[key] = detail
		posByContextID[detail.ContextID] = detail
	}
}

// DetailForWordType returns the reference-table row for a word type.
func DetailForWordType(wordType WordType) (PartOfSpeechDetail, error) {
	detail, ok := partOfSpeechData[wordType]
	if !ok {
		return PartOfSpeechDetail{}, fmt.Errorf("%w: unknown word type '%s'", ErrInvalidWord, wordType)
	}

	return detail, nil
}

func detailForQuadruple(partOfSpeech, detail1, detail2, detail3 string) (PartOfSpeechDetail, error) {
	key := posQuadruple{
		partOfSpeech: partOfSpeech,
		detail1:      detail1,
		detail2:      detail2,
		detail3:      detail3,
	}

	detail, ok := posByQuadruple[key]
	if !ok {
		return PartOfSpeechDetail{}, fmt.Errorf(
			"%w: unsupported part of speech '%s,%s,%s,%s'",
			ErrInvalidWord, partOfSpeech, detail1, detail2, detail3,
		)
	}

	return detail, nil
}

func allowsAccentAssociativeRule(detail PartOfSpeechDetail, rule string) bool {
	for _, allowed := range detail.AccentAssociativeRules {
		if rule == allowed {
			return true
		}
	}

	return false
}

// PriorityToCost maps a user-facing priority onto the analyzer's cost scale for
// the given part-of-speech context. Higher priority yields a lower cost, which
// biases tokenization toward the entry.
func PriorityToCost(contextID, priority int) (int, error) {
	if priority < MinPriority || priority > MaxPriority {
		return 0, fmt.Errorf(
			"%w: priority %d out of range [%d, %d]",
			ErrInvalidWord, priority, MinPriority, MaxPriority,
		)
	}

	detail, ok := posByContextID[contextID]
	if !ok {
		return 0, fmt.Errorf("%w: unknown context id %d", ErrInvalidWord, contextID)
	}

	return detail.CostCandidates[MaxPriority-priority], nil
}

// CostToPriority inverts PriorityToCost by picking the nearest cost candidate.
// Stored dictionaries keep cost rather than priority, so loading needs the
// inverse even for costs written by other tools.
func CostToPriority(contextID, cost int) (int, error) {
	detail, ok := posByContextID[contextID]
	if !ok {
		return 0, fmt.Errorf("%w: unknown context id %d", ErrInvalidWord, contextID)
	}

	nearest := 0
	for i, candidate := range detail.CostCandidates {
		if abs(candidate-cost) < abs(detail.CostCandidates[nearest]-cost) {
			nearest = i
		}
	}

	return MaxPriority - nearest, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
