package canvas

// SemanticType tags a branch by logical meaning, independent of position.
type SemanticType string

const (
	SemanticYes     SemanticType = "yes"
	SemanticNo      SemanticType = "no"
	SemanticSuccess SemanticType = "success"
	SemanticError   SemanticType = "error"
	SemanticDefault SemanticType = "default"
)

// ColorToken is an abstract color name the renderer maps to real colors.
type ColorToken string

const (
	ColorGreen   ColorToken = "green"
	ColorRed     ColorToken = "red"
	ColorNeutral ColorToken = "neutral"
)

// BranchLabel pairs the display text and color for a semantic branch.
type BranchLabel struct {
	Text  string
	Color ColorToken
}

var semanticLabels = map[SemanticType]BranchLabel{
	SemanticYes:     {Text: "Yes", Color: ColorGreen},
	SemanticNo:      {Text: "No", Color: ColorRed},
	SemanticSuccess: {Text: "Success", Color: ColorGreen},
	SemanticError:   {Text: "Error", Color: ColorRed},
	SemanticDefault: {Text: "", Color: ColorNeutral},
}

// Label returns the display label and color token for a semantic type.
// Unknown types fall back to the default (unlabeled, neutral) entry, so
// renderers never need a missing-entry check.
func Label(s SemanticType) BranchLabel {
	if l, ok := semanticLabels[s]; ok {
		return l
	}
	return semanticLabels[SemanticDefault]
}
