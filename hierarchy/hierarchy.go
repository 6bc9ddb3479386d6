// Package hierarchy organizes test cases into named trees and walks them
// cooperatively.
//
// A conformance run can hold many thousands of cases; executing them in
// one uninterruptible loop trips watchdog timeouts in embedding harnesses.
// The Iterator therefore emits exactly one event per Step call, so the
// caller can interleave its own bookkeeping (progress reports, timeout
// deadlines, incremental logging) between steps. A skip list filters cases
// and whole groups by their full dotted path.
package hierarchy

import (
	"bufio"
	"fmt"
	"io"
	"path"
	"strings"
)

// Node is a named node in a test tree: either a group with children or a
// leaf case with a body.
type Node struct {
	name     string
	children []*Node
	run      func() error
}

// NewGroup creates a group node.
func NewGroup(name string, children ...*Node) *Node {
	return &Node{name: name, children: children}
}

// NewCase creates a leaf case node. run executes the case body; a nil
// error means the case passed.
func NewCase(name string, run func() error) *Node {
	return &Node{name: name, run: run}
}

// Name returns the node's own name (one dotted-path component).
func (n *Node) Name() string { return n.name }

// IsGroup reports whether the node is a group rather than a leaf case.
func (n *Node) IsGroup() bool { return n.run == nil }

// AddChild appends a child to a group node. Adding to a leaf is a
// programming mistake and panics.
func (n *Node) AddChild(c *Node) {
	if !n.IsGroup() {
		panic("hierarchy: cannot add children to a leaf case")
	}
	n.children = append(n.children, c)
}

// Run executes a leaf case's body.
func (n *Node) Run() error {
	if n.IsGroup() {
		return fmt.Errorf("hierarchy: %q is a group, not a runnable case", n.name)
	}
	return n.run()
}

// EventKind identifies what an iterator step produced.
type EventKind uint8

const (
	// EnterGroup is emitted before a group's children are visited.
	EnterGroup EventKind = iota
	// LeaveGroup is emitted after a group's children are visited.
	LeaveGroup
	// ExecuteCase is emitted for a leaf case. The iterator does not run
	// the case itself; the caller decides when and whether to call Run.
	ExecuteCase
	// Done is emitted once the walk is complete.
	Done
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EnterGroup:
		return "enter"
	case LeaveGroup:
		return "leave"
	case ExecuteCase:
		return "case"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("EventKind(%d)", uint8(k))
	}
}

// Event is one step of a tree walk.
type Event struct {
	Kind EventKind
	// Path is the full dotted path of the node, e.g. "precision.mul.highp".
	Path string
	// Node is nil for Done events.
	Node *Node
}

// SkipList filters nodes by dotted-path patterns.
type SkipList struct {
	patterns []string
}

// NewSkipList builds a skip list from patterns. Each pattern matches full
// dotted paths with path.Match syntax per component ("precision.mul.*",
// "*.mediump"). A pattern matching a group path skips the whole subtree.
func NewSkipList(patterns ...string) *SkipList {
	return &SkipList{patterns: patterns}
}

// ParseSkipList reads one pattern per line. Blank lines and lines starting
// with '#' are ignored.
func ParseSkipList(r io.Reader) (*SkipList, error) {
	var patterns []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// Validate eagerly so a malformed pattern fails at load time, not
		// deep inside a walk.
		if _, err := path.Match(line, "probe"); err != nil {
			return nil, fmt.Errorf("hierarchy: bad skip pattern %q: %w", line, err)
		}
		patterns = append(patterns, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return &SkipList{patterns: patterns}, nil
}

// Matches reports whether the dotted path is skipped.
func (s *SkipList) Matches(dotted string) bool {
	if s == nil {
		return false
	}
	// path.Match treats '/' as the component separator, so translate the
	// dotted path; '*' then cannot cross component boundaries.
	slashed := strings.ReplaceAll(dotted, ".", "/")
	for _, p := range s.patterns {
		if ok, _ := path.Match(strings.ReplaceAll(p, ".", "/"), slashed); ok {
			return true
		}
	}
	return false
}

// frame is one level of the iterative depth-first walk.
type frame struct {
	node  *Node
	path  string
	next  int  // index of the next child to visit
	begun bool // whether EnterGroup was already emitted
}

// Iterator walks a tree depth-first, one event per Step call.
// It is not safe for concurrent use; drive each iterator from one
// goroutine.
type Iterator struct {
	stack []frame
	skip  *SkipList
	done  bool
}

// IteratorOption configures an Iterator.
type IteratorOption func(*Iterator)

// WithSkipList installs a skip filter. Skipped cases and subtrees produce
// no events at all.
func WithSkipList(s *SkipList) IteratorOption {
	return func(it *Iterator) { it.skip = s }
}

// NewIterator creates an iterator over the tree rooted at root.
func NewIterator(root *Node, opts ...IteratorOption) *Iterator {
	it := &Iterator{}
	for _, opt := range opts {
		opt(it)
	}
	if root != nil && !it.skipped(root.name) {
		it.stack = []frame{{node: root, path: root.name}}
	}
	return it
}

func (it *Iterator) skipped(dotted string) bool {
	return it.skip.Matches(dotted)
}

// Step advances the walk by one event. After the walk completes it keeps
// returning Done events with ok == false.
func (it *Iterator) Step() (Event, bool) {
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]

		if !top.node.IsGroup() {
			ev := Event{Kind: ExecuteCase, Path: top.path, Node: top.node}
			it.stack = it.stack[:len(it.stack)-1]
			return ev, true
		}

		if !top.begun {
			top.begun = true
			return Event{Kind: EnterGroup, Path: top.path, Node: top.node}, true
		}

		// Find the next non-skipped child.
		for top.next < len(top.node.children) {
			child := top.node.children[top.next]
			top.next++
			childPath := top.path + "." + child.name
			if it.skipped(childPath) {
				continue
			}
			it.stack = append(it.stack, frame{node: child, path: childPath})
			return it.Step()
		}

		ev := Event{Kind: LeaveGroup, Path: top.path, Node: top.node}
		it.stack = it.stack[:len(it.stack)-1]
		return ev, true
	}

	it.done = true
	return Event{Kind: Done}, false
}

// Finished reports whether the walk has completed.
func (it *Iterator) Finished() bool { return it.done }

// Walk drives an iterator to completion, calling fn for every event. A
// non-nil error from fn stops the walk and is returned.
func Walk(root *Node, fn func(Event) error, opts ...IteratorOption) error {
	it := NewIterator(root, opts...)
	for {
		ev, ok := it.Step()
		if !ok {
			return nil
		}
		if err := fn(ev); err != nil {
			return err
		}
	}
}
