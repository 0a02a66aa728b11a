package threat

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedClassifier_MatchesTaxonomy(t *testing.T) {
	tax := DefaultTaxonomy()
	cc, err := NewCachedClassifier(tax, 16)
	require.NoError(t, err)

	sigs := []string{
		"MALWARE-CNC Win.Trojan beacon",
		"EXPLOIT IIS",
		"ping",
		"MALWARE-CNC Win.Trojan beacon",
		"ping",
	}
	for _, s := range sigs {
		assert.Equal(t, tax.Classify(s), cc.Classify(s))
	}

	stats := cc.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(3), stats.Misses)
	assert.Equal(t, 3, stats.Size)
}

func TestCachedClassifier_Bounded(t *testing.T) {
	cc, err := NewCachedClassifier(DefaultTaxonomy(), 2)
	require.NoError(t, err)

	cc.Classify("a")
	cc.Classify("b")
	cc.Classify("c")
	assert.Equal(t, 2, cc.Stats().Size)
}

func TestCachedClassifier_DefaultSize(t *testing.T) {
	cc, err := NewCachedClassifier(DefaultTaxonomy(), 0)
	require.NoError(t, err)
	assert.NotNil(t, cc)
}

func TestCachedClassifier_NilTaxonomy(t *testing.T) {
	_, err := NewCachedClassifier(nil, 10)
	assert.Error(t, err)
}

func TestCachedClassifier_Concurrent(t *testing.T) {
	cc, err := NewCachedClassifier(DefaultTaxonomy(), 8)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				got := cc.Classify("NETBIOS SMB-DS access")
				assert.Equal(t, CategoryNetwork, got.MainCategory)
			}
		}()
	}
	wg.Wait()

	stats := cc.Stats()
	assert.Equal(t, int64(1600), stats.Hits+stats.Misses)
}
