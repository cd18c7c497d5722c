package foodgraph

import "encoding/json"

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Node groups (categories). Anything outside this set renders as
// GroupUncategorized but is otherwise passed through untouched.
const (
	GroupCoreFlow      = "core_flow"
	GroupSubsystem     = "subsystem"
	GroupCommunity     = "community"
	GroupPolicy        = "policy"
	GroupHealth        = "health"
	GroupEconomic      = "economic"
	GroupFactor        = "factor"
	GroupMonitoring    = "monitoring"
	GroupUncategorized = "uncategorized"
)

// Groups lists the recognized node groups in display order.
var Groups = []string{
	GroupCoreFlow,
	GroupSubsystem,
	GroupCommunity,
	GroupPolicy,
	GroupHealth,
	GroupEconomic,
	GroupFactor,
	GroupMonitoring,
}

// Link types. The type selects stroke styling, arrowhead markers, and
// which links participate in the focus view.
const (
	LinkFlow               = "flow"
	LinkInfluence          = "influence"
	LinkWaste              = "waste"
	LinkProblem            = "problem"
	LinkRecycle            = "recycle"
	LinkHealthImpact       = "health_impact"
	LinkEconomicIncentive  = "economic_incentive"
	LinkPolicyIntervention = "policy_intervention"
	LinkMonitoring         = "monitoring"
)

// EnvironmentID is the root node of the journey disclosure sequence.
const EnvironmentID = "environment"

// recognizedGroups is the membership set for CanonicalGroup.
var recognizedGroups = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Groups))
	for _, g := range Groups {
		m[g] = struct{}{}
	}
	return m
}()

// CanonicalGroup maps a raw group value to a recognized group, bucketing
// anything unknown (including empty) as GroupUncategorized.
func CanonicalGroup(group string) string {
	if _, ok := recognizedGroups[group]; ok {
		return group
	}
	return GroupUncategorized
}

// =============================================================================
// Node
// =============================================================================

// Node is one entity in the food-system graph: a pipeline stage, actor,
// outcome, or cross-cutting factor. Field names follow the dataset's JSON.
type Node struct {
	ID            string `json:"id"`
	Group         string `json:"group"`
	Label         string `json:"label"`
	Icon          string `json:"icon,omitempty"`
	Color         string `json:"color,omitempty"` // per-node color override
	Details       string `json:"details,omitempty"`
	RegenDetails  string `json:"regen_details,omitempty"`
	RegenModified bool   `json:"isRegenModified,omitempty"`

	// Layout state, assigned at runtime. Owned by pkg/layout and
	// pkg/disclosure; the render layer only reads it. FX/FY are a
	// pinned position; nil means the node is unpinned.
	X  float64  `json:"-"`
	Y  float64  `json:"-"`
	FX *float64 `json:"-"`
	FY *float64 `json:"-"`
}

// DisplayGroup returns the canonical group used for styling and filtering.
func (n *Node) DisplayGroup() string {
	return CanonicalGroup(n.Group)
}

// DetailText returns the descriptive text for the node. In regenerative
// mode it prefers RegenDetails, falling back to Details when absent.
func (n *Node) DetailText(regen bool) string {
	if regen && n.RegenDetails != "" {
		return n.RegenDetails
	}
	return n.Details
}

// Pin fixes the node at the given position and moves it there.
func (n *Node) Pin(x, y float64) {
	n.X, n.Y = x, y
	n.FX, n.FY = &x, &y
}

// Unpin releases a pinned position. The current X/Y are kept.
func (n *Node) Unpin() {
	n.FX, n.FY = nil, nil
}

// Pinned reports whether the node holds a fixed position.
func (n *Node) Pinned() bool {
	return n.FX != nil && n.FY != nil
}

// =============================================================================
// Link
// =============================================================================

// Link is a directed relationship between two nodes. At rest the endpoints
// are node ids; after indexing Source and Target hold node references.
type Link struct {
	SourceID       string   `json:"source"`
	TargetID       string   `json:"target"`
	Type           string   `json:"type"`
	Examples       []string `json:"examples,omitempty"`
	Return         bool     `json:"isReturn,omitempty"`
	RegenHighlight bool     `json:"isRegenHighlight,omitempty"`

	// Resolved endpoints, set by BuildGraph. Nil on a dropped link.
	Source *Node `json:"-"`
	Target *Node `json:"-"`
}

// Resolved reports whether both endpoints resolved to known nodes.
func (l *Link) Resolved() bool {
	return l.Source != nil && l.Target != nil
}

// Touches reports whether the link has the given node id as an endpoint.
func (l *Link) Touches(id string) bool {
	return l.SourceID == id || l.TargetID == id
}

// Other returns the endpoint opposite to id, or nil if id is not an
// endpoint or the link is unresolved.
func (l *Link) Other(id string) *Node {
	if !l.Resolved() {
		return nil
	}
	switch id {
	case l.SourceID:
		return l.Target
	case l.TargetID:
		return l.Source
	}
	return nil
}

// =============================================================================
// Dataset
// =============================================================================

// Dataset is the decoded form of data.json, before indexing.
type Dataset struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// MarshalDataset serializes a Dataset to pretty-printed JSON bytes.
func MarshalDataset(ds *Dataset) ([]byte, error) {
	return json.MarshalIndent(ds, "", "  ")
}
