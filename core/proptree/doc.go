// Package proptree holds the dynamic property tree: a schema-less, order
// preserving mirror of one configuration XML element. Leaves are typed through a
// convert.Registry and kept in one ordered bucket per kind; nested elements
// become child trees.
package proptree
