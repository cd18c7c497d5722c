// Package foodgraph loads and indexes the food-system dataset.
//
// The dataset is a single JSON document of nodes and typed links describing
// a conceptual food system: pipeline stages (production, processing,
// distribution...), supporting subsystems, outcomes, and cross-cutting
// factors. This package owns the load and index steps of the pipeline:
//
//	Load → BuildGraph → (pkg/layout, pkg/disclosure, pkg/render)
//
// # Loading
//
// [Load] fetches the dataset from a file path or http(s) URL and performs
// shallow shape validation. Failures carry structured codes from
// pkg/errors: FETCH_FAILED, PARSE_FAILED, or SCHEMA_INVALID. No partial
// state is committed on failure. Deep validation is deliberately absent:
// an unrecognized group renders as "uncategorized", a missing examples
// list simply produces no leaf labels.
//
// # Indexing
//
// [BuildGraph] builds the id→node map in one pass (a duplicate id silently
// replaces the earlier node) and resolves each link's endpoint ids to node
// references. Links with an unresolvable endpoint are dropped: they are
// never rendered, never hovered, and never counted in neighbor queries.
package foodgraph
