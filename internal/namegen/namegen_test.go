package namegen

import (
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starmap-server/internal/resources"
)

func trained(t *testing.T, seed uint64, corpus []string) *Model {
	t.Helper()
	m := New(Options{Seed: seed})
	m.Train(corpus)
	return m
}

func TestGenerateUnique(t *testing.T) {
	m := trained(t, 0, resources.Names())

	names := make(map[string]struct{})
	for range 30 {
		name, err := m.Generate()
		require.NoError(t, err)
		names[name] = struct{}{}
	}

	assert.Len(t, names, 30)
	assert.Equal(t, 30, m.Generated())
}

func TestGenerateRespectsValidity(t *testing.T) {
	m := trained(t, 11, resources.Names())

	for range 50 {
		name, err := m.Generate()
		if err != nil {
			require.ErrorIs(t, err, ErrExhausted)
			continue
		}
		valid := strings.Contains(name, " ") || utf8.RuneCountInString(name) < DefaultMaxLength
		assert.True(t, valid, "name %q violates the validity filter", name)
		assert.NotEmpty(t, name)
	}
}

func TestGenerateExhaustsSmallCorpus(t *testing.T) {
	m := trained(t, 1, []string{"Sol"})

	name, err := m.Generate()
	require.NoError(t, err)
	assert.Equal(t, "Sol", name)

	_, err = m.Generate()
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, "Unnamed", m.GenerateOr("Unnamed"))
}

func TestGenerateEventuallyFailsInsteadOfDuplicating(t *testing.T) {
	m := trained(t, 5, []string{"Sol", "Alpha Centauri", "Proxima"})

	seen := make(map[string]struct{})
	failed := false
	for range 500 {
		name, err := m.Generate()
		if err != nil {
			require.ErrorIs(t, err, ErrExhausted)
			failed = true
			break
		}
		_, dup := seen[name]
		require.False(t, dup, "duplicate name %q", name)
		seen[name] = struct{}{}
	}
	assert.True(t, failed, "finite corpus must eventually exhaust")
}

func TestGenerateUntrained(t *testing.T) {
	m := New(Options{})

	_, err := m.Generate()
	assert.ErrorIs(t, err, ErrUntrained)
	assert.Equal(t, "Unnamed", m.GenerateOr("Unnamed"))
}

func TestTrainSharesNodesPerDepth(t *testing.T) {
	m := trained(t, 0, []string{"ab", "ac", "ba"})

	// start, end, depth0 {a, b}, depth1 {b, c, a}
	assert.Len(t, m.nodes, 7)
	assert.Len(t, m.layers, 2)
	assert.Len(t, m.nodes[startNode].edges, 2)

	a := m.layers[0]['a']
	assert.Len(t, m.nodes[a].edges, 2, "'a' at depth 0 is followed by 'b' and 'c'")
}

func TestTrainDeduplicatesEdges(t *testing.T) {
	m := trained(t, 0, []string{"Sol", "Sol", "Sol"})
	assert.Len(t, m.nodes[startNode].edges, 1)
}

func TestSameSeedSameSequence(t *testing.T) {
	a := trained(t, 42, resources.Names())
	b := trained(t, 42, resources.Names())

	for range 20 {
		assert.Equal(t, a.GenerateOr("Unnamed"), b.GenerateOr("Unnamed"))
	}
}

func TestConfigurableThresholds(t *testing.T) {
	m := New(Options{Seed: 3, MaxLength: 100, Attempts: 1})
	m.Train([]string{"Kaffaljidhma"})

	name, err := m.Generate()
	require.NoError(t, err)
	assert.Equal(t, "Kaffaljidhma", name)

	strict := New(Options{Seed: 3, MaxLength: 4})
	strict.Train([]string{"Kaffaljidhma"})
	_, err = strict.Generate()
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestConcurrentGenerateKeepsUniqueness(t *testing.T) {
	m := trained(t, 9, resources.Names())

	var (
		mu    sync.Mutex
		names []string
		wg    sync.WaitGroup
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				if name, err := m.Generate(); err == nil {
					mu.Lock()
					names = append(names, name)
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	unique := make(map[string]struct{}, len(names))
	for _, n := range names {
		unique[n] = struct{}{}
	}
	assert.Len(t, unique, len(names))
}
