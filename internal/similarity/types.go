package similarity

// RelationshipType names why two bookmarks are related.
type RelationshipType string

const (
	TypeTag      RelationshipType = "tag-similarity"
	TypeFolder   RelationshipType = "folder-similarity"
	TypeContent  RelationshipType = "content-similarity"
	TypeDomain   RelationshipType = "domain-similarity"
	TypeTemporal RelationshipType = "temporal-similarity"
	TypeBehavior RelationshipType = "behavior-similarity"
	TypeManual   RelationshipType = "manual-link"
)

// Dimensions are the computed relationship types in evaluation order. Ties
// between dimension scores resolve to the earliest entry.
var Dimensions = []RelationshipType{
	TypeTag,
	TypeContent,
	TypeDomain,
	TypeTemporal,
	TypeBehavior,
}

// AllTypes lists every relationship type.
var AllTypes = []RelationshipType{
	TypeTag,
	TypeFolder,
	TypeContent,
	TypeDomain,
	TypeTemporal,
	TypeBehavior,
	TypeManual,
}

// Valid reports whether t is one of the known relationship types.
func (t RelationshipType) Valid() bool {
	for _, known := range AllTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Computed reports whether t is scored from the bookmarks themselves rather
// than from an external signal.
func (t RelationshipType) Computed() bool {
	switch t {
	case TypeTag, TypeContent, TypeDomain, TypeTemporal, TypeBehavior:
		return true
	default:
		return false
	}
}

// Analysis is the pairwise comparison of a target and a candidate. Every
// score is in [0,1].
type Analysis struct {
	Tag      float64  `json:"tag"`
	Content  float64  `json:"content"`
	Domain   float64  `json:"domain"`
	Temporal float64  `json:"temporal"`
	Behavior float64  `json:"behavior"`
	Overall  float64  `json:"overall"`
	Reasons  []string `json:"reasons"`
}

// Score returns the dimension score for a computed type. Folder and manual
// links have no computed score.
func (a Analysis) Score(t RelationshipType) (float64, bool) {
	switch t {
	case TypeTag:
		return a.Tag, true
	case TypeContent:
		return a.Content, true
	case TypeDomain:
		return a.Domain, true
	case TypeTemporal:
		return a.Temporal, true
	case TypeBehavior:
		return a.Behavior, true
	default:
		return 0, false
	}
}
