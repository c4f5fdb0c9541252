// Package namegen learns a character transition graph from a corpus of names
// and samples new names that resemble it.
//
// The graph is layered by position: the same character at the same depth in
// two training names shares a node, while the same character at a different
// depth does not. A name is produced by a uniform random walk from the start
// sentinel until the end sentinel is reached.
package namegen

import (
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"unicode/utf8"
)

const (
	// DefaultMaxLength is the exclusive rune length limit for names without a space.
	DefaultMaxLength = 9
	// DefaultAttempts is the number of walks tried before giving up.
	DefaultAttempts = 27
)

var (
	// ErrExhausted is returned when no valid unseen name was produced within
	// the attempt budget. Callers are expected to fall back to a fixed name.
	ErrExhausted = errors.New("name generator exhausted")
	// ErrUntrained is returned when the model has no path from start to end.
	ErrUntrained = errors.New("name generator is not trained")
)

const (
	startNode = 0
	endNode   = 1
)

type node struct {
	char  rune
	edges []int
}

type Options struct {
	Seed      uint64
	MaxLength int
	Attempts  int
}

// Model is safe for concurrent use; generation mutates the RNG and the set of
// already generated names under a single mutex.
type Model struct {
	mu        sync.Mutex
	rng       *rand.Rand
	nodes     []node
	layers    []map[rune]int
	generated map[string]struct{}
	maxLength int
	attempts  int
}

func New(opts Options) *Model {
	if opts.MaxLength <= 0 {
		opts.MaxLength = DefaultMaxLength
	}
	if opts.Attempts <= 0 {
		opts.Attempts = DefaultAttempts
	}

	return &Model{
		rng:       rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		nodes:     []node{{char: '<'}, {char: '>'}},
		generated: make(map[string]struct{}),
		maxLength: opts.MaxLength,
		attempts:  opts.Attempts,
	}
}

// Train adds every name of the corpus to the graph. Training is additive and
// may be called more than once.
func (m *Model) Train(corpus []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, name := range corpus {
		if name == "" {
			continue
		}

		prev := startNode
		depth := 0
		for _, chr := range name {
			for len(m.layers) <= depth {
				m.layers = append(m.layers, make(map[rune]int))
			}

			id, ok := m.layers[depth][chr]
			if !ok {
				id = len(m.nodes)
				m.nodes = append(m.nodes, node{char: chr})
				m.layers[depth][chr] = id
			}

			m.connect(prev, id)
			prev = id
			depth++
		}
		m.connect(prev, endNode)
	}
}

func (m *Model) connect(from, to int) {
	for _, existing := range m.nodes[from].edges {
		if existing == to {
			return
		}
	}
	m.nodes[from].edges = append(m.nodes[from].edges, to)
}

// Generate returns a new name that has not been produced by this model
// before. It returns ErrExhausted when the attempt budget runs out.
func (m *Model) Generate() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.nodes[startNode].edges) == 0 {
		return "", ErrUntrained
	}

	for range m.attempts {
		name := m.walk()
		if !m.valid(name) {
			continue
		}
		if _, seen := m.generated[name]; seen {
			continue
		}
		m.generated[name] = struct{}{}
		return name, nil
	}
	return "", ErrExhausted
}

// GenerateOr returns a generated name, or fallback if generation fails.
func (m *Model) GenerateOr(fallback string) string {
	name, err := m.Generate()
	if err != nil {
		return fallback
	}
	return name
}

// Generated returns how many distinct names have been handed out.
func (m *Model) Generated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.generated)
}

func (m *Model) walk() string {
	var b strings.Builder
	current := startNode
	for {
		edges := m.nodes[current].edges
		next := edges[m.rng.IntN(len(edges))]
		if next == endNode {
			return b.String()
		}
		b.WriteRune(m.nodes[next].char)
		current = next
	}
}

func (m *Model) valid(name string) bool {
	return strings.Contains(name, " ") || utf8.RuneCountInString(name) < m.maxLength
}
